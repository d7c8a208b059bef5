package model

import (
	"strings"
	"unicode/utf8"
)

// PreviewLength is the number of characters of a script shown in reports.
const PreviewLength = 60

// Document is an HTML file discovered in the static directory.
type Document struct {
	// Path is the full path the document was read from.
	Path string `json:"path"`

	// Name is the base file name, used for report grouping.
	Name string `json:"name"`

	// Content is the decoded UTF-8 text of the file.
	Content string `json:"-"`
}

// ScriptFragment is the exact text captured between an inline <script>
// open tag and its close tag. Whitespace and casing are preserved because
// the browser hashes the element text byte for byte.
type ScriptFragment struct {
	// Document is the name of the document the fragment was found in.
	Document string `json:"document"`

	// Index is the 1-based position of the fragment within its document.
	Index int `json:"index"`

	// Text is the captured script body.
	Text string `json:"-"`

	// Digest is the base64 encoded hash of Text.
	Digest string `json:"digest"`

	// Preview is a shortened single-line rendering of Text for humans.
	Preview string `json:"preview"`
}

// NewScriptFragment creates a fragment record and computes its preview.
func NewScriptFragment(document string, index int, text, digest string) ScriptFragment {
	return ScriptFragment{
		Document: document,
		Index:    index,
		Text:     text,
		Digest:   digest,
		Preview:  Preview(text),
	}
}

// Preview trims surrounding whitespace, keeps the first PreviewLength
// characters and collapses newlines to spaces.
func Preview(text string) string {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) > PreviewLength {
		runes := []rune(trimmed)
		trimmed = string(runes[:PreviewLength])
	}
	return strings.ReplaceAll(trimmed, "\n", " ")
}

// UncoveredScript is an inline script element that the HTML parser found
// but the restricted inline-script pattern did not match. Browsers will
// block it under a hash-based policy unless the markup is changed.
type UncoveredScript struct {
	// Document is the name of the document containing the script.
	Document string `json:"document"`

	// Attributes lists the attribute names present on the open tag.
	Attributes []string `json:"attributes,omitempty"`

	// Digest is the hash the script text would need in the policy.
	Digest string `json:"digest"`

	// Preview is a shortened single-line rendering of the script text.
	Preview string `json:"preview"`
}
