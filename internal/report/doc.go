// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - SimpleWriter: the console layout, with per-file hashes, the
//     script-src block and next steps
//   - JSONWriter: structured JSON output for tool integration
//   - MarkdownWriter: Markdown for pull requests and documentation
//   - HeaderWriter: only the full Content-Security-Policy value
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably.
package report
