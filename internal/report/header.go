package report

import (
	"io"

	"github.com/nao1215/csphash/internal/model"
)

// HeaderWriter outputs only the full Content-Security-Policy header
// value, followed by a newline. Useful for scripts that template the
// header into another file.
type HeaderWriter struct {
	baseWriter
}

// NewHeaderWriter creates a HeaderWriter that outputs to the given writer.
func NewHeaderWriter(output io.Writer, settings Settings) *HeaderWriter {
	return &HeaderWriter{baseWriter: newBaseWriter(output, settings)}
}

// Write outputs the header value.
func (w *HeaderWriter) Write(report *model.ScanReport) (int, error) {
	if report == nil {
		return 0, ErrNilReport
	}
	return io.WriteString(w.output, w.header(report)+"\n")
}
