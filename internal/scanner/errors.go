package scanner

import (
	"errors"

	"github.com/nao1215/csphash/internal/model"
)

var (
	// ErrDirNotFound is returned when the static directory does not exist.
	ErrDirNotFound = errors.New("static directory not found")

	// ErrNoDocuments is returned when the static directory holds no .html files.
	ErrNoDocuments = errors.New("no HTML files found")

	// ErrInvalidEncoding is returned when a document is not valid UTF-8
	// and carries no UTF-16 byte order mark.
	ErrInvalidEncoding = errors.New("document is not valid UTF-8")

	// ErrUnsupportedAlgorithm is model.ErrUnsupportedAlgorithm, returned
	// by NewHasher.
	ErrUnsupportedAlgorithm = model.ErrUnsupportedAlgorithm

	// ErrUncoveredScripts is returned in strict mode when inline scripts
	// exist that the directive does not allow.
	ErrUncoveredScripts = errors.New("inline scripts not covered by the directive")
)
