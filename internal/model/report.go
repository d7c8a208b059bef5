package model

import (
	"time"
)

// ScanReport is the result of scanning one static directory.
// It is filled in step by step by the pipeline and then handed to the
// report writers and the history database.
type ScanReport struct {
	// Directory is the static directory that was scanned.
	Directory string `json:"directory"`

	// DateScanned is the timestamp when the scan was started.
	DateScanned time.Time `json:"date_scanned"`

	// Algorithm is the hash algorithm used for every digest in the report.
	Algorithm Algorithm `json:"algorithm"`

	// Documents lists the HTML files that were read, in name order.
	Documents []Document `json:"documents"`

	// Fragments lists every inline script found, in discovery order.
	Fragments []ScriptFragment `json:"fragments"`

	// Digests is the sorted list of unique digests. It is populated by
	// Finalize and is what the directive is rendered from.
	Digests []string `json:"digests"`

	// Uncovered lists inline scripts the pattern did not match.
	Uncovered []UncoveredScript `json:"uncovered,omitempty"`

	// PerformedSteps records the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps"`

	// Error holds the error that stopped the scan, if any.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`

	digests *DigestSet
}

// NewScanReport creates an empty report for the given directory.
func NewScanReport(directory string, algorithm Algorithm) *ScanReport {
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}
	return &ScanReport{
		Directory:      directory,
		DateScanned:    time.Now(),
		Algorithm:      algorithm,
		Documents:      make([]Document, 0),
		Fragments:      make([]ScriptFragment, 0),
		Digests:        make([]string, 0),
		PerformedSteps: make([]string, 0),
		digests:        NewDigestSet(),
	}
}

// AddFragment appends a fragment and records its digest in the set.
func (r *ScanReport) AddFragment(f ScriptFragment) {
	if r.digests == nil {
		r.digests = NewDigestSet()
	}
	r.Fragments = append(r.Fragments, f)
	r.digests.Add(f.Digest)
}

// HasDigest reports whether a pattern-matched fragment produced the digest.
func (r *ScanReport) HasDigest(digest string) bool {
	if r.digests == nil {
		return false
	}
	return r.digests.Contains(digest)
}

// Finalize copies the unique digests into Digests in sorted order.
func (r *ScanReport) Finalize() {
	if r.digests == nil {
		r.digests = NewDigestSet()
	}
	r.Digests = r.digests.Sorted()
}

// UniqueCount returns the number of distinct digests.
func (r *ScanReport) UniqueCount() int {
	if r.digests == nil {
		return len(r.Digests)
	}
	return r.digests.Len()
}

// FragmentsFor returns the fragments found in the named document.
func (r *ScanReport) FragmentsFor(document string) []ScriptFragment {
	var out []ScriptFragment
	for _, f := range r.Fragments {
		if f.Document == document {
			out = append(out, f)
		}
	}
	return out
}

// HasUncovered reports whether any inline script escaped the pattern.
func (r *ScanReport) HasUncovered() bool {
	return len(r.Uncovered) > 0
}
