package policy

import (
	"errors"
	"regexp"
	"slices"
	"strings"

	"github.com/nao1215/csphash/internal/model"
)

// ErrOutOfDate is returned when a consumer file does not carry exactly
// the hash sources of the current scan.
var ErrOutOfDate = errors.New("policy is out of date")

// hashSourcePattern matches a quoted CSP hash source.
var hashSourcePattern = regexp.MustCompile(`'(sha256|sha384|sha512)-([A-Za-z0-9+/_-]+=*)'`)

// HashSource is a hash source found in text.
type HashSource struct {
	Algorithm model.Algorithm
	Digest    string
}

// ParseHashSources returns every quoted hash source in text, in order.
func ParseHashSources(text string) []HashSource {
	matches := hashSourcePattern.FindAllStringSubmatch(text, -1)
	out := make([]HashSource, 0, len(matches))
	for _, m := range matches {
		out = append(out, HashSource{Algorithm: model.Algorithm(m[1]), Digest: m[2]})
	}
	return out
}

// Comparison is the difference between scanned digests and the hash
// sources present in a consumer file.
type Comparison struct {
	// Missing are scanned digests absent from the file.
	Missing []string

	// Stale are digests in the file that no scanned script produced.
	Stale []string
}

// UpToDate reports whether the file matches the scan exactly.
func (c Comparison) UpToDate() bool {
	return len(c.Missing) == 0 && len(c.Stale) == 0
}

// Compare checks found hash sources of the given algorithm against the
// scanned digests. Trailing '=' characters are ignored on both sides so a
// digest suffix in the file does not count as a difference.
func Compare(algorithm model.Algorithm, digests []string, found []HashSource) Comparison {
	want := make(map[string]string, len(digests))
	for _, d := range digests {
		want[trimPadding(d)] = d
	}

	have := make(map[string]string)
	for _, f := range found {
		if f.Algorithm != algorithm {
			continue
		}
		have[trimPadding(f.Digest)] = f.Digest
	}

	var c Comparison
	for key, d := range want {
		if _, ok := have[key]; !ok {
			c.Missing = append(c.Missing, d)
		}
	}
	for key, d := range have {
		if _, ok := want[key]; !ok {
			c.Stale = append(c.Stale, d)
		}
	}
	slices.Sort(c.Missing)
	slices.Sort(c.Stale)
	return c
}

func trimPadding(d string) string {
	return strings.TrimRight(d, "=")
}
