package config

import (
	"errors"
	"fmt"

	"github.com/nao1215/csphash/internal/model"
)

// Configuration validation errors returned by Config.Validate and
// Config.ApplyFile. Callers match them with errors.Is.
var (
	// ErrEmptyStaticDir is returned when the static directory is set to "".
	ErrEmptyStaticDir = errors.New("static directory must not be empty")

	// ErrUnsupportedAlgorithm is model.ErrUnsupportedAlgorithm.
	ErrUnsupportedAlgorithm = model.ErrUnsupportedAlgorithm

	// ErrConflictingReportFormats is returned when more than one of
	// --json, --markdown and --header is given.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json, --markdown and --header cannot be combined")
)

func wrapAlgorithm(name string) error {
	return fmt.Errorf("%w (got %q)", ErrUnsupportedAlgorithm, name)
}
