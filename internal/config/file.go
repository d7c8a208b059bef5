package config

import "github.com/nao1215/csphash/internal/policy"

// NextSteps configures the commands printed after the directive.
type NextSteps struct {
	// Build is the command that rebuilds the server.
	Build string `yaml:"build,omitempty"`

	// Restart is the command that restarts the server.
	Restart string `yaml:"restart,omitempty"`
}

// File represents the structure of the .csphash configuration file.
type File struct {
	// StaticDir overrides the scanned directory.
	StaticDir string `yaml:"static_dir,omitempty"`

	// Algorithm is one of sha256, sha384, sha512.
	Algorithm string `yaml:"algorithm,omitempty"`

	// TargetFile is the consumer file the directive is pasted into.
	TargetFile string `yaml:"target_file,omitempty"`

	// BaseSources are the sources printed before the hashes in script-src.
	BaseSources []string `yaml:"base_sources,omitempty"`

	// DigestSuffix is appended after every digest in the rendered
	// directive. A nil value keeps the default; an explicit "" removes it.
	DigestSuffix *string `yaml:"digest_suffix,omitempty"`

	// Directives is the full policy used by --header, in output order.
	Directives []policy.Directive `yaml:"directives,omitempty"`

	// NextSteps customizes the instructions printed at the end.
	NextSteps NextSteps `yaml:"next_steps,omitempty"`
}
