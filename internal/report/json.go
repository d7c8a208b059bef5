package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/csphash/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, settings Settings, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output, settings),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport wraps a scan report with the rendered policy so consumers do
// not need to rebuild it from the digests.
type JSONReport struct {
	// Version is the csphash version that generated this report.
	Version string `json:"version,omitempty"`

	// Report is the full scan report.
	Report *model.ScanReport `json:"report"`

	// UniqueCount is the number of distinct digests.
	UniqueCount int `json:"unique_count"`

	// Directive is the multi-line script-src block.
	Directive string `json:"directive"`

	// Header is the full header value on one line.
	Header string `json:"header"`

	// TargetFile is the file the directive belongs in.
	TargetFile string `json:"target_file"`
}

// NewJSONReport creates the JSON wrapper for report.
func (w *JSONWriter) NewJSONReport(report *model.ScanReport) *JSONReport {
	return &JSONReport{
		Version:     w.settings.Version,
		Report:      report,
		UniqueCount: report.UniqueCount(),
		Directive:   w.directive(report),
		Header:      w.header(report),
		TargetFile:  w.settings.TargetFile,
	}
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report *model.ScanReport) (int, error) {
	if report == nil {
		return 0, ErrNilReport
	}
	return w.writeJSON(w.NewJSONReport(report))
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
