package model

import (
	"errors"
	"slices"
	"strings"
)

// ErrUnsupportedAlgorithm is returned for algorithms CSP does not accept.
var ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm: use sha256, sha384 or sha512")

// Algorithm identifies a hash algorithm accepted by CSP hash sources.
type Algorithm string

// Hash algorithms allowed in a CSP hash-source expression.
const (
	SHA256 Algorithm = "sha256"
	SHA384 Algorithm = "sha384"
	SHA512 Algorithm = "sha512"
)

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = SHA256

// String returns the algorithm name as used in hash sources.
func (a Algorithm) String() string {
	return string(a)
}

// Valid reports whether the algorithm is one CSP understands.
func (a Algorithm) Valid() bool {
	switch a {
	case SHA256, SHA384, SHA512:
		return true
	default:
		return false
	}
}

// ParseAlgorithm converts a user-supplied name such as "SHA-256" or
// "sha256" into an Algorithm. The boolean is false for unknown names.
func ParseAlgorithm(name string) (Algorithm, bool) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "-", ""))
	a := Algorithm(normalized)
	return a, a.Valid()
}

// DigestSet is the set of unique digests collected during a scan.
// The zero value is not usable; create one with NewDigestSet.
type DigestSet struct {
	items map[string]struct{}
}

// NewDigestSet creates an empty DigestSet.
func NewDigestSet() *DigestSet {
	return &DigestSet{items: make(map[string]struct{})}
}

// Add inserts a digest. It reports whether the digest was new.
func (s *DigestSet) Add(digest string) bool {
	if _, ok := s.items[digest]; ok {
		return false
	}
	s.items[digest] = struct{}{}
	return true
}

// Contains reports whether the digest is in the set.
func (s *DigestSet) Contains(digest string) bool {
	_, ok := s.items[digest]
	return ok
}

// Len returns the number of unique digests.
func (s *DigestSet) Len() int {
	return len(s.items)
}

// Sorted returns the digests in ascending byte order.
func (s *DigestSet) Sorted() []string {
	out := make([]string, 0, len(s.items))
	for d := range s.items {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}
