package scanner

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/csphash/internal/model"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ReadDocument reads and decodes the HTML file at path. Line endings
// are normalized to LF.
func ReadDocument(path string) (model.Document, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path comes from Discover
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	content, err := decode(raw)
	if err != nil {
		return model.Document{}, fmt.Errorf("%s: %w", path, err)
	}

	return model.Document{
		Path:    path,
		Name:    filepath.Base(path),
		Content: normalizeNewlines(content),
	}, nil
}

// lineEndings folds CRLF and lone CR to LF, as browsers do before
// hashing script text.
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func normalizeNewlines(s string) string {
	return lineEndings.Replace(s)
}

// decode returns the document text as UTF-8. UTF-8 input is returned
// as is; UTF-16 input with a byte order mark is transcoded.
func decode(raw []byte) (string, error) {
	if bytes.HasPrefix(raw, bomUTF16LE) || bytes.HasPrefix(raw, bomUTF16BE) {
		decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
		out, _, err := transform.Bytes(decoder, raw)
		if err != nil {
			return "", fmt.Errorf("failed to decode UTF-16 document: %w", err)
		}
		return string(out), nil
	}

	if !utf8.Valid(raw) {
		return "", ErrInvalidEncoding
	}
	return string(raw), nil
}
