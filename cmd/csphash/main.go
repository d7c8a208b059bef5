// Package main provides the entry point for the csphash CLI.
//
// csphash scans the HTML files of a static directory for inline <script>
// elements, hashes each one and prints the Content-Security-Policy
// script-src directive that allows exactly those scripts.
//
// Usage:
//
//	csphash
//	csphash --root ./site --json
//	csphash verify
//
// See --help for all available options.
package main

// main is the entry point for csphash.
func main() {
	Execute()
}
