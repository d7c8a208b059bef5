package model

import (
	"slices"
	"testing"
	"time"
)

// TestNewScanReport tests the ScanReport constructor.
func TestNewScanReport(t *testing.T) {
	t.Parallel()

	report := NewScanReport("/srv/app/static", SHA256)

	t.Run("sets directory", func(t *testing.T) {
		t.Parallel()
		if report.Directory != "/srv/app/static" {
			t.Errorf("got %q, expected %q", report.Directory, "/srv/app/static")
		}
	})

	t.Run("sets scan timestamp", func(t *testing.T) {
		t.Parallel()
		if report.DateScanned.IsZero() {
			t.Error("expected DateScanned to be set")
		}
		if time.Since(report.DateScanned) > time.Second {
			t.Error("DateScanned is too old")
		}
	})

	t.Run("initializes slices", func(t *testing.T) {
		t.Parallel()
		if report.Documents == nil || report.Fragments == nil || report.Digests == nil {
			t.Error("expected slices to be initialized")
		}
	})

	t.Run("empty algorithm falls back to default", func(t *testing.T) {
		t.Parallel()
		r := NewScanReport("static", "")
		if r.Algorithm != DefaultAlgorithm {
			t.Errorf("got %q, expected %q", r.Algorithm, DefaultAlgorithm)
		}
	})
}

// TestScanReportFinalize tests that digests are deduplicated and sorted.
func TestScanReportFinalize(t *testing.T) {
	t.Parallel()

	report := NewScanReport("static", SHA256)
	report.AddFragment(NewScriptFragment("b.html", 1, "x", "ccc="))
	report.AddFragment(NewScriptFragment("a.html", 1, "y", "aaa="))
	report.AddFragment(NewScriptFragment("a.html", 2, "x", "ccc="))
	report.AddFragment(NewScriptFragment("c.html", 1, "z", "bbb="))
	report.Finalize()

	want := []string{"aaa=", "bbb=", "ccc="}
	if !slices.Equal(report.Digests, want) {
		t.Errorf("got %v, expected %v", report.Digests, want)
	}
	if report.UniqueCount() != 3 {
		t.Errorf("got %d unique digests, expected 3", report.UniqueCount())
	}
	if len(report.Fragments) != 4 {
		t.Errorf("got %d fragments, expected 4", len(report.Fragments))
	}
	if !report.HasDigest("bbb=") {
		t.Error("expected HasDigest to find bbb=")
	}
	if report.HasDigest("zzz=") {
		t.Error("expected HasDigest to reject zzz=")
	}
}

// TestScanReportFragmentsFor tests per-document grouping.
func TestScanReportFragmentsFor(t *testing.T) {
	t.Parallel()

	report := NewScanReport("static", SHA256)
	report.AddFragment(NewScriptFragment("a.html", 1, "one", "d1"))
	report.AddFragment(NewScriptFragment("b.html", 1, "two", "d2"))
	report.AddFragment(NewScriptFragment("a.html", 2, "three", "d3"))

	got := report.FragmentsFor("a.html")
	if len(got) != 2 {
		t.Fatalf("got %d fragments, expected 2", len(got))
	}
	if got[0].Index != 1 || got[1].Index != 2 {
		t.Errorf("fragments out of order: %+v", got)
	}
	if len(report.FragmentsFor("missing.html")) != 0 {
		t.Error("expected no fragments for unknown document")
	}
}

// TestScanReportZeroValue tests that a zero ScanReport is usable.
func TestScanReportZeroValue(t *testing.T) {
	t.Parallel()

	var report ScanReport
	if report.HasDigest("x") {
		t.Error("expected empty report to have no digests")
	}
	report.AddFragment(NewScriptFragment("a.html", 1, "x", "d"))
	report.Finalize()
	if len(report.Digests) != 1 {
		t.Errorf("got %d digests, expected 1", len(report.Digests))
	}
}
