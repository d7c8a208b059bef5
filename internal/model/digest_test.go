package model

import (
	"slices"
	"testing"
)

// TestParseAlgorithm tests algorithm name parsing.
func TestParseAlgorithm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		want   Algorithm
		wantOK bool
	}{
		{"sha256", SHA256, true},
		{"SHA-256", SHA256, true},
		{" sha384 ", SHA384, true},
		{"SHA512", SHA512, true},
		{"md5", Algorithm("md5"), false},
		{"", Algorithm(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseAlgorithm(tt.input)
			if ok != tt.wantOK {
				t.Errorf("ParseAlgorithm(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseAlgorithm(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestDigestSet tests uniqueness and ordering.
func TestDigestSet(t *testing.T) {
	t.Parallel()

	set := NewDigestSet()

	if !set.Add("b") {
		t.Error("expected first add to report new")
	}
	if set.Add("b") {
		t.Error("expected duplicate add to report existing")
	}
	set.Add("a")
	set.Add("C")

	if set.Len() != 3 {
		t.Errorf("got len %d, expected 3", set.Len())
	}

	// Byte order puts upper case before lower case.
	want := []string{"C", "a", "b"}
	if got := set.Sorted(); !slices.Equal(got, want) {
		t.Errorf("got %v, expected %v", got, want)
	}
}
