package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/nao1215/csphash/internal/log"
	"github.com/nao1215/csphash/internal/model"
	"github.com/nao1215/csphash/internal/scanner"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func newHasher(t *testing.T) scanner.Hasher {
	t.Helper()
	h, err := scanner.NewHasher(model.SHA256)
	if err != nil {
		t.Fatalf("failed to create hasher: %v", err)
	}
	return h
}

func TestStepNames(t *testing.T) {
	t.Parallel()

	h := scanner.Hasher{}
	steps := []struct {
		step Step
		want string
	}{
		{NewDiscoverStep(nil), "discover"},
		{NewExtractStep(h, nil), "extract"},
		{NewAuditStep(h, nil), "audit"},
		{NewAggregateStep(), "aggregate"},
	}
	for _, tt := range steps {
		if got := tt.step.Name(); got != tt.want {
			t.Errorf("Name() = %q, want %q", got, tt.want)
		}
	}
}

func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	t.Run("with audit", func(t *testing.T) {
		t.Parallel()
		p := DefaultPipeline(newHasher(t), true, WithLogger(log.Discard()))
		want := []string{"discover", "extract", "audit", "aggregate"}
		if !slices.Equal(p.StepNames(), want) {
			t.Errorf("got %v, want %v", p.StepNames(), want)
		}
	})

	t.Run("without audit", func(t *testing.T) {
		t.Parallel()
		p := DefaultPipeline(newHasher(t), false, WithLogger(log.Discard()))
		want := []string{"discover", "extract", "aggregate"}
		if !slices.Equal(p.StepNames(), want) {
			t.Errorf("got %v, want %v", p.StepNames(), want)
		}
	})
}

func TestDefaultPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("hashes scripts across documents", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "b.html", `<script>console.log(1)</script><script src="app.js"></script>`)
		writeFile(t, dir, "a.html", "<html><script type=\"module\">alert(1)</script>\n<script>console.log(1)</script></html>")
		writeFile(t, dir, "notes.txt", `<script>ignored()</script>`)

		report := model.NewScanReport(dir, model.SHA256)
		p := DefaultPipeline(newHasher(t), true, WithLogger(log.Discard()))
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(report.Documents) != 2 || report.Documents[0].Name != "a.html" {
			t.Fatalf("unexpected documents %+v", report.Documents)
		}
		if len(report.Fragments) != 3 {
			t.Fatalf("expected 3 fragments, got %d", len(report.Fragments))
		}
		if report.Fragments[1].Document != "a.html" || report.Fragments[1].Index != 2 {
			t.Errorf("unexpected fragment %+v", report.Fragments[1])
		}
		want := []string{
			"CihokcEcBW4atb/CW/XWsvWwbTjqwQlE9nj9ii5ww5M=",
			"bhHHL3z2vDgxUt0W3dWQOrprscmda2Y5pLsLg4GF+pI=",
		}
		if !slices.Equal(report.Digests, want) {
			t.Errorf("got digests %v, want %v", report.Digests, want)
		}
		if report.HasUncovered() {
			t.Errorf("expected no uncovered scripts, got %+v", report.Uncovered)
		}
	})

	t.Run("records uncovered scripts without hashing them", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "index.html", `<script defer>alert(1)</script>`)

		report := model.NewScanReport(dir, model.SHA256)
		p := DefaultPipeline(newHasher(t), true, WithLogger(log.Discard()))
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(report.Digests) != 0 {
			t.Errorf("expected no digests, got %v", report.Digests)
		}
		if len(report.Uncovered) != 1 {
			t.Fatalf("expected 1 uncovered script, got %d", len(report.Uncovered))
		}
		if report.Uncovered[0].Digest != "bhHHL3z2vDgxUt0W3dWQOrprscmda2Y5pLsLg4GF+pI=" {
			t.Errorf("unexpected digest %q", report.Uncovered[0].Digest)
		}
	})

	t.Run("missing directory fails before other steps", func(t *testing.T) {
		t.Parallel()

		report := model.NewScanReport(filepath.Join(t.TempDir(), "static"), model.SHA256)
		p := DefaultPipeline(newHasher(t), true, WithLogger(log.Discard()))
		err := p.Execute(context.Background(), report)

		if !errors.Is(err, scanner.ErrDirNotFound) {
			t.Errorf("expected ErrDirNotFound, got %v", err)
		}
		if len(report.PerformedSteps) != 0 {
			t.Errorf("expected no performed steps, got %v", report.PerformedSteps)
		}
	})

	t.Run("empty directory fails", func(t *testing.T) {
		t.Parallel()

		report := model.NewScanReport(t.TempDir(), model.SHA256)
		p := DefaultPipeline(newHasher(t), true, WithLogger(log.Discard()))
		if err := p.Execute(context.Background(), report); !errors.Is(err, scanner.ErrNoDocuments) {
			t.Errorf("expected ErrNoDocuments, got %v", err)
		}
	})

	t.Run("documents without scripts produce an empty set", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "plain.html", `<p>hello</p>`)

		report := model.NewScanReport(dir, model.SHA256)
		p := DefaultPipeline(newHasher(t), true, WithLogger(log.Discard()))
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.UniqueCount() != 0 || len(report.Digests) != 0 {
			t.Errorf("expected empty digest set, got %v", report.Digests)
		}
	})
}
