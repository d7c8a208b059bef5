// Package scanner finds inline scripts in HTML documents and hashes them.
//
// Extraction deliberately uses a narrow regular expression rather than an
// HTML parser: only <script> and <script type="..."> open tags are matched.
// Any other attribute, most importantly src, excludes the tag. The hash is
// computed over the captured text exactly as it appears in the file.
//
// The HTML parser from golang.org/x/net/html is used only by Audit, which
// reports inline scripts the pattern misses so they can be fixed by hand.
package scanner
