package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/csphash/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is meant for pull request descriptions and documentation.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, settings Settings) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output, settings),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScanReport) (int, error) {
	if report == nil {
		return 0, ErrNilReport
	}

	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeDirective(md, report)
	w.writeScripts(md, report)
	w.writeUncovered(md, report)
	w.writeNextSteps(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ScanReport) {
	md.H1("Inline Script Hashes")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Directory", "`" + report.Directory + "`"},
			{"Scan Date", report.DateScanned.Format("2006-01-02 15:04:05 MST")},
			{"Algorithm", report.Algorithm.String()},
			{"HTML Files", strconv.Itoa(len(report.Documents))},
			{"Inline Scripts", strconv.Itoa(len(report.Fragments))},
			{"Unique Hashes", strconv.Itoa(report.UniqueCount())},
		},
	})
	md.PlainText("")
}

// writeDirective writes the script-src block and the full header value.
func (w *MarkdownWriter) writeDirective(md *markdown.Markdown, report *model.ScanReport) {
	md.H2("script-src Directive")
	md.PlainText("")
	md.PlainTextf("Copy this block to `%s`:", w.settings.TargetFile)
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightText, strings.TrimSuffix(w.directive(report), "\n"))
	md.PlainText("")

	md.Details("Full header value", "`"+w.header(report)+"`")
	md.PlainText("")
}

// writeScripts writes one table per document that has inline scripts.
func (w *MarkdownWriter) writeScripts(md *markdown.Markdown, report *model.ScanReport) {
	md.H2("Inline Scripts")
	md.PlainText("")

	if len(report.Fragments) == 0 {
		md.PlainText("No inline scripts found.")
		md.PlainText("")
		return
	}

	w.writePieChart(md, report)

	for _, doc := range report.Documents {
		fragments := report.FragmentsFor(doc.Name)
		if len(fragments) == 0 {
			continue
		}

		md.H3(doc.Name)
		md.PlainText("")

		rows := make([][]string, 0, len(fragments))
		for _, f := range fragments {
			rows = append(rows, []string{
				strconv.Itoa(f.Index),
				"`" + report.Algorithm.String() + "-" + f.Digest + "`",
				escapeCell(f.Preview),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"#", "Hash", "Preview"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writePieChart writes a mermaid pie chart of scripts per document.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.ScanReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Inline Scripts per File"),
		piechart.WithShowData(true),
	)

	for _, doc := range report.Documents {
		if n := len(report.FragmentsFor(doc.Name)); n > 0 {
			chart.LabelAndIntValue(doc.Name, uint64(n))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeUncovered writes an alert for inline scripts the policy misses.
func (w *MarkdownWriter) writeUncovered(md *markdown.Markdown, report *model.ScanReport) {
	if !report.HasUncovered() {
		md.Tip("Every inline script is covered by the directive.")
		md.PlainText("")
		return
	}

	md.Warningf(
		"%d inline script(s) are not matched and will be blocked by the browser.",
		len(report.Uncovered),
	)
	md.PlainText("")

	rows := make([][]string, 0, len(report.Uncovered))
	for _, u := range report.Uncovered {
		rows = append(rows, []string{
			u.Document,
			"`" + strings.Join(u.Attributes, " ") + "`",
			"`" + report.Algorithm.String() + "-" + u.Digest + "`",
			escapeCell(u.Preview),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"File", "Attributes", "Hash", "Preview"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeNextSteps writes the manual steps that apply the new policy.
func (w *MarkdownWriter) writeNextSteps(md *markdown.Markdown) {
	md.H2("Next Steps")
	md.PlainText("")
	md.OrderedList(
		"Copy the CSP directive above",
		"Update `"+w.settings.TargetFile+"` in the content-security-policy header",
		"Rebuild: `"+w.settings.BuildCommand+"`",
		"Restart server: `"+w.settings.RestartCommand+"`",
	)
}

// escapeCell keeps a preview from breaking the table layout.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "`", "'")
}
