package report

import (
	"errors"
	"io"

	"github.com/nao1215/csphash/internal/model"
	"github.com/nao1215/csphash/internal/policy"
)

// Writer defines the interface for report output.
// Implementations write scan results in various formats.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.ScanReport) (int, error)
}

// Format selects a report writer.
type Format int

const (
	// FormatText is the console layout.
	FormatText Format = iota
	// FormatJSON is indented JSON.
	FormatJSON
	// FormatMarkdown is GitHub flavored Markdown.
	FormatMarkdown
	// FormatHeader is the single-line header value.
	FormatHeader
)

// ErrNilReport is returned when a writer is given no report.
var ErrNilReport = errors.New("report is nil")

// Settings carries the values that writers print around the digests.
type Settings struct {
	// Policy controls how the directive and header are rendered.
	Policy policy.Options

	// TargetFile is the file the directive should be copied into.
	TargetFile string

	// BuildCommand and RestartCommand are shown as next steps.
	BuildCommand   string
	RestartCommand string

	// Version is recorded in machine readable output.
	Version string
}

// DefaultSettings returns settings for the default project layout.
func DefaultSettings() Settings {
	return Settings{
		Policy:         policy.DefaultOptions(),
		TargetFile:     "src/middleware.rs",
		BuildCommand:   "cargo build",
		RestartCommand: "just dev",
	}
}

// NewWriter returns the writer for format.
func NewWriter(output io.Writer, format Format, settings Settings) Writer {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output, settings, WithPrettyPrint())
	case FormatMarkdown:
		return NewMarkdownWriter(output, settings)
	case FormatHeader:
		return NewHeaderWriter(output, settings)
	default:
		return NewSimpleWriter(output, settings)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output   io.Writer
	settings Settings
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer, settings Settings) baseWriter {
	return baseWriter{output: output, settings: settings}
}

// directive renders the script-src block for report.
func (b baseWriter) directive(report *model.ScanReport) string {
	return policy.RenderDirective(report.Algorithm, report.Digests, b.settings.Policy)
}

// header renders the full header value for report.
func (b baseWriter) header(report *model.ScanReport) string {
	return policy.RenderHeader(report.Algorithm, report.Digests, b.settings.Policy)
}
