package scanner

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"hash"

	"github.com/nao1215/csphash/internal/model"
)

// Hasher computes CSP hash-source digests for script text.
// The zero value hashes with SHA-256.
type Hasher struct {
	algorithm model.Algorithm
}

// NewHasher creates a Hasher for the given algorithm.
func NewHasher(algorithm model.Algorithm) (Hasher, error) {
	if algorithm == "" {
		algorithm = model.DefaultAlgorithm
	}
	if !algorithm.Valid() {
		return Hasher{}, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
	return Hasher{algorithm: algorithm}, nil
}

// Algorithm returns the algorithm used by the hasher.
func (h Hasher) Algorithm() model.Algorithm {
	if h.algorithm == "" {
		return model.DefaultAlgorithm
	}
	return h.algorithm
}

// Digest hashes the UTF-8 bytes of text and returns the digest in
// standard, padded base64.
func (h Hasher) Digest(text string) string {
	hh := h.newHash()
	hh.Write([]byte(text)) //nolint:errcheck // hash.Hash.Write never fails
	return base64.StdEncoding.EncodeToString(hh.Sum(nil))
}

// Source returns the hash-source keyword body, e.g. "sha256-<digest>".
func (h Hasher) Source(digest string) string {
	return h.Algorithm().String() + "-" + digest
}

func (h Hasher) newHash() hash.Hash {
	switch h.Algorithm() {
	case model.SHA384:
		return sha512.New384()
	case model.SHA512:
		return sha512.New()
	default:
		return sha256.New()
	}
}
