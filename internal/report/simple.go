package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/csphash/internal/model"
)

// ruleWidth is the width of the separator lines.
const ruleWidth = 80

// SimpleWriter outputs the console report: every document with its
// inline scripts, the script-src block to copy, the number of unique
// hashes and the steps needed to apply the change.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, settings Settings) *SimpleWriter {
	return &SimpleWriter{
		baseWriter: newBaseWriter(output, settings),
	}
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.ScanReport) (int, error) {
	if report == nil {
		return 0, ErrNilReport
	}

	var sb strings.Builder

	w.writeDocuments(&sb, report)
	w.writeDirective(&sb, report)
	w.writeSummary(&sb, report)
	w.writeNextSteps(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeDocuments writes the scan banner and the hashes per document.
// Documents without inline scripts are not listed.
func (w *SimpleWriter) writeDocuments(sb *strings.Builder, report *model.ScanReport) {
	sb.WriteString("Scanning HTML files for inline scripts...\n")
	sb.WriteString(rule())

	for _, doc := range report.Documents {
		fragments := report.FragmentsFor(doc.Name)
		if len(fragments) == 0 {
			continue
		}
		fmt.Fprintf(sb, "\n📄 %s:\n", doc.Name)
		for _, f := range fragments {
			fmt.Fprintf(sb, "  Script %d: %s-%s\n", f.Index, report.Algorithm, f.Digest)
			fmt.Fprintf(sb, "    Preview: %s...\n", f.Preview)
		}
	}
}

// writeDirective writes the block to paste into the target file.
func (w *SimpleWriter) writeDirective(sb *strings.Builder, report *model.ScanReport) {
	sb.WriteString("\n")
	sb.WriteString(rule())
	fmt.Fprintf(sb, "🔐 CSP script-src directive (copy this to %s):\n", w.settings.TargetFile)
	sb.WriteString(rule())
	sb.WriteString("\n")
	sb.WriteString(w.directive(report))
}

// writeSummary writes the unique hash count.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.ScanReport) {
	sb.WriteString("\n")
	sb.WriteString(rule())
	fmt.Fprintf(sb, "✅ Total unique script hashes: %d\n", report.UniqueCount())
	sb.WriteString(rule())
	sb.WriteString("\n")
}

// writeNextSteps writes the manual steps that apply the new policy.
func (w *SimpleWriter) writeNextSteps(sb *strings.Builder) {
	sb.WriteString("📝 Next steps:\n")
	sb.WriteString("1. Copy the CSP directive above\n")
	fmt.Fprintf(sb, "2. Update %s in the content-security-policy header\n", w.settings.TargetFile)
	fmt.Fprintf(sb, "3. Rebuild: %s\n", w.settings.BuildCommand)
	fmt.Fprintf(sb, "4. Restart server: %s\n", w.settings.RestartCommand)
	sb.WriteString("\n")
}

func rule() string {
	return strings.Repeat("=", ruleWidth) + "\n"
}
