// Package log provides the logger used by csphash, built on top of the
// standard slog package.
//
// Diagnostics often carry script bodies and file contents. The
// CompactHandler keeps such values readable on a single terminal line:
//   - Newlines and tabs inside string values are replaced by spaces
//   - Values longer than MaxValueLength are cut and marked with an ellipsis
//   - Groups are compacted recursively
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Warn("inline script not covered",
//	    "document", "index.html",
//	    "script", body, // printed as one shortened line
//	)
//
// The level is Warn by default and Debug in verbose mode, so normal runs
// only print problems that need attention.
package log
