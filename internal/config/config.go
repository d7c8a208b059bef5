package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/nao1215/csphash/internal/model"
	"github.com/nao1215/csphash/internal/policy"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "csphash"

	// DefaultStaticDir is the directory, relative to the project root, that
	// holds the HTML files served by the application.
	DefaultStaticDir = "static"

	// DefaultTargetFile is the server source file that carries the
	// Content-Security-Policy header value.
	DefaultTargetFile = "src/middleware.rs"

	// DefaultBuildCommand is shown in the next-step instructions.
	DefaultBuildCommand = "cargo build"

	// DefaultRestartCommand is shown in the next-step instructions.
	DefaultRestartCommand = "just dev"
)

// Config holds all configuration options for a csphash run.
// It is populated from defaults, the config file, the environment and
// flags, in that order, and passed down explicitly.
type Config struct {
	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string

	// StaticDir is the directory scanned for HTML files. Relative values
	// are joined to ProjectRoot.
	StaticDir string

	// Algorithm is the hash algorithm used for digests.
	Algorithm model.Algorithm

	// TargetFile is the consumer file named in the instructions and read
	// by the verify command. Relative values are joined to ProjectRoot.
	TargetFile string

	// Policy controls how the directive and full header are rendered.
	Policy policy.Options

	// BuildCommand and RestartCommand are printed as next steps.
	BuildCommand   string
	RestartCommand string

	// ConfigFilePath is the explicit config file given on the command line.
	ConfigFilePath string

	// JSONReport selects JSON output.
	JSONReport bool

	// MarkdownReport selects Markdown output.
	MarkdownReport bool

	// HeaderOnly prints only the full header value.
	HeaderOnly bool

	// ReportFile redirects the report to a file instead of stdout.
	ReportFile string

	// Strict fails the run when inline scripts escape the pattern.
	Strict bool

	// SkipAudit disables the HTML parser pass that looks for inline
	// scripts the pattern misses.
	SkipAudit bool

	// SaveHistory stores each run in the history database.
	SaveHistory bool

	// DBDir is the directory holding the history database.
	DBDir string

	// Verbose enables debug logging.
	Verbose bool
}

// NewConfig returns a Config populated with default values.
func NewConfig() *Config {
	return &Config{
		ProjectRoot:    ".",
		StaticDir:      DefaultStaticDir,
		Algorithm:      model.DefaultAlgorithm,
		TargetFile:     DefaultTargetFile,
		Policy:         policy.DefaultOptions(),
		BuildCommand:   DefaultBuildCommand,
		RestartCommand: DefaultRestartCommand,
		SaveHistory:    true,
		DBDir:          XDGDataDir(),
	}
}

// XDGDataDir returns the data directory for csphash.
// This is where the history database is stored.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the configuration directory for csphash.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// StaticPath returns the static directory resolved against ProjectRoot.
func (c *Config) StaticPath() string {
	return c.resolve(c.StaticDir)
}

// TargetPath returns the consumer file resolved against ProjectRoot.
func (c *Config) TargetPath() string {
	return c.resolve(c.TargetFile)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.ProjectRoot == "" {
		return p
	}
	return filepath.Join(c.ProjectRoot, p)
}

// ApplyFile overlays the values set in a config file.
// Unset fields in the file keep the current values.
func (c *Config) ApplyFile(f *File) error {
	if f == nil {
		return nil
	}
	if f.StaticDir != "" {
		c.StaticDir = f.StaticDir
	}
	if f.Algorithm != "" {
		a, ok := model.ParseAlgorithm(f.Algorithm)
		if !ok {
			return wrapAlgorithm(f.Algorithm)
		}
		c.Algorithm = a
	}
	if f.TargetFile != "" {
		c.TargetFile = f.TargetFile
	}
	if len(f.BaseSources) > 0 {
		c.Policy.BaseSources = f.BaseSources
	}
	if f.DigestSuffix != nil {
		c.Policy.DigestSuffix = *f.DigestSuffix
	}
	if len(f.Directives) > 0 {
		c.Policy.Directives = f.Directives
	}
	if f.NextSteps.Build != "" {
		c.BuildCommand = f.NextSteps.Build
	}
	if f.NextSteps.Restart != "" {
		c.RestartCommand = f.NextSteps.Restart
	}
	return nil
}

// Validate checks the configuration for invalid combinations.
func (c *Config) Validate() error {
	if c.StaticDir == "" {
		return ErrEmptyStaticDir
	}
	if !c.Algorithm.Valid() {
		return wrapAlgorithm(c.Algorithm.String())
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.HeaderOnly && (c.JSONReport || c.MarkdownReport) {
		return ErrConflictingReportFormats
	}
	return nil
}
