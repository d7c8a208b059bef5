// Package model defines the core data structures used throughout csphash.
//
// This package contains the following main types:
//   - Document: an HTML file read from the static directory
//   - ScriptFragment: the body of one inline <script> element
//   - DigestSet: the unique hashes that end up in the script-src directive
//   - ScanReport: the result of one scan, shared by every report writer
//
// The models are designed to be serializable to JSON for report output and
// history storage.
package model
