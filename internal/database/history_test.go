package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/nao1215/csphash/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// newReport creates a finalized report with the given script digests.
func newReport(dir string, at time.Time, digests ...string) *model.ScanReport {
	report := model.NewScanReport(dir, model.SHA256)
	report.DateScanned = at
	report.Documents = []model.Document{{Path: filepath.Join(dir, "index.html"), Name: "index.html"}}
	for i, d := range digests {
		report.AddFragment(model.NewScriptFragment("index.html", i+1, "script", d))
	}
	report.Finalize()
	return report
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("unexpected path %q", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false fails for missing database", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if err == nil {
			t.Error("expected error for missing database")
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		if _, err := db.SaveRun(context.Background(), newReport("/srv/static", time.Now(), "AAA=")); err != nil {
			t.Fatal(err)
		}
		_ = db.Close()

		db, err = Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen: %v", err)
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background(), "/srv/static", 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(runs) != 1 {
			t.Errorf("expected 1 run, got %d", len(runs))
		}
	})
}

// TestSaveAndListRuns tests storing and listing runs.
func TestSaveAndListRuns(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := setupTestDB(t)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	first, err := db.SaveRun(ctx, newReport("/srv/static", base, "BBB=", "AAA="))
	if err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	second, err := db.SaveRun(ctx, newReport("/srv/static", base.Add(time.Hour), "AAA=", "CCC="))
	if err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	if _, err := db.SaveRun(ctx, newReport("/other/static", base, "ZZZ=")); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	t.Run("newest first", func(t *testing.T) {
		t.Parallel()

		runs, err := db.ListRuns(ctx, "/srv/static", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(runs))
		}
		if runs[0].ID != second || runs[1].ID != first {
			t.Errorf("unexpected order: %d, %d", runs[0].ID, runs[1].ID)
		}
		if !runs[0].Timestamp.Equal(base.Add(time.Hour)) {
			t.Errorf("unexpected timestamp %v", runs[0].Timestamp)
		}
		if !slices.Equal(runs[1].Digests, []string{"AAA=", "BBB="}) {
			t.Errorf("unexpected digests %v", runs[1].Digests)
		}
		if runs[0].Algorithm != model.SHA256 {
			t.Errorf("unexpected algorithm %q", runs[0].Algorithm)
		}
	})

	t.Run("limit", func(t *testing.T) {
		t.Parallel()

		runs, err := db.ListRuns(ctx, "/srv/static", 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(runs) != 1 || runs[0].ID != second {
			t.Errorf("unexpected runs %+v", runs)
		}
	})

	t.Run("directories", func(t *testing.T) {
		t.Parallel()

		dirs, err := db.ListDirectories(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(dirs, []string{"/other/static", "/srv/static"}) {
			t.Errorf("unexpected directories %v", dirs)
		}
	})

	t.Run("get run and report", func(t *testing.T) {
		t.Parallel()

		run, err := db.GetRun(ctx, first)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Directory != "/srv/static" {
			t.Errorf("unexpected directory %q", run.Directory)
		}

		report, err := db.GetReport(ctx, first)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(report.Fragments) != 2 || report.Fragments[0].Document != "index.html" {
			t.Errorf("unexpected fragments %+v", report.Fragments)
		}
	})

	t.Run("missing run returns ErrRunNotFound", func(t *testing.T) {
		t.Parallel()

		if _, err := db.GetRun(ctx, 9999); !errors.Is(err, ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
		if _, err := db.GetReport(ctx, 9999); !errors.Is(err, ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("diff latest", func(t *testing.T) {
		t.Parallel()

		diff, err := db.DiffLatest(ctx, "/srv/static")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !diff.Changed() {
			t.Error("expected a change")
		}
		if !slices.Equal(diff.Added, []string{"CCC="}) {
			t.Errorf("unexpected added %v", diff.Added)
		}
		if !slices.Equal(diff.Removed, []string{"BBB="}) {
			t.Errorf("unexpected removed %v", diff.Removed)
		}
		if diff.From.ID != first || diff.To.ID != second {
			t.Errorf("unexpected runs %d -> %d", diff.From.ID, diff.To.ID)
		}
	})

	t.Run("diff needs two runs", func(t *testing.T) {
		t.Parallel()

		if _, err := db.DiffLatest(ctx, "/other/static"); !errors.Is(err, ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})
}

// TestSaveRunEmptyDigests tests that a run without scripts is stored.
func TestSaveRunEmptyDigests(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := setupTestDB(t)

	id, err := db.SaveRun(ctx, newReport("/srv/static", time.Now()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	run, err := db.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Digests == nil || len(run.Digests) != 0 {
		t.Errorf("expected empty digest list, got %#v", run.Digests)
	}
}

// TestDiffRuns tests the digest set comparison.
func TestDiffRuns(t *testing.T) {
	t.Parallel()

	same := DiffRuns(Run{Digests: []string{"A", "B"}}, Run{Digests: []string{"A", "B"}})
	if same.Changed() {
		t.Errorf("expected no change, got %+v", same)
	}

	d := DiffRuns(Run{Digests: []string{"A"}}, Run{Digests: []string{"C", "B"}})
	if !slices.Equal(d.Added, []string{"B", "C"}) || !slices.Equal(d.Removed, []string{"A"}) {
		t.Errorf("unexpected diff %+v", d)
	}
}

// TestParseTimestamp tests parsing of stored timestamps.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  time.Time
	}{
		{"2025-03-01T10:00:00.5Z", time.Date(2025, 3, 1, 10, 0, 0, 500000000, time.UTC)},
		{"2025-03-01 10:00:00", time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"2025-03-01T10:00:00", time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"not a time", time.Time{}},
	}

	for _, tt := range tests {
		if got := parseTimestamp(tt.input); !got.Equal(tt.want) {
			t.Errorf("parseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
