package main

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/nao1215/csphash/internal/policy"
)

func TestVerifyCmd(t *testing.T) {
	t.Parallel()

	const page = "<script>console.log(1)</script><script>alert(1)</script>"

	tests := []struct {
		name       string
		target     string
		wantErr    error
		wantOutput []string
	}{
		{
			name: "up to date with suffix",
			target: "const CSP: &str = \"script-src 'self' 'wasm-unsafe-eval' \\\n" +
				"  'sha256-" + consoleDigest + "=' \\\n" +
				"  'sha256-" + alertDigest + "=';\";\n",
			wantOutput: []string{"is up to date (2 script hashes)"},
		},
		{
			name:       "up to date without suffix",
			target:     "script-src 'sha256-" + alertDigest + "' 'sha256-" + consoleDigest + "'",
			wantOutput: []string{"is up to date"},
		},
		{
			name:    "missing and stale hashes",
			target:  "script-src 'sha256-" + consoleDigest + "=' 'sha256-" + initDigest + "=';",
			wantErr: policy.ErrOutOfDate,
			wantOutput: []string{
				"Missing from src/middleware.rs (1):",
				"  + 'sha256-" + alertDigest + "'",
				"Stale in src/middleware.rs (1):",
				"  - 'sha256-" + initDigest + "='",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := newProject(t, map[string]string{
				"static/index.html": page,
				"src/middleware.rs": tt.target,
			})
			stdout, _, err := runCLI(t, "verify", "--root", root)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.wantOutput {
				if !strings.Contains(stdout, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, stdout)
				}
			}
		})
	}

	t.Run("target flag", func(t *testing.T) {
		t.Parallel()

		root := newProject(t, map[string]string{
			"static/index.html": "<script>alert(1)</script>",
			"server/csp.go":     "\"script-src 'self' 'sha256-" + alertDigest + "'\"",
		})
		stdout, _, err := runCLI(t, "verify", "--root", root, "--target", "server/csp.go")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "server/csp.go is up to date") {
			t.Errorf("unexpected output %q", stdout)
		}
	})

	t.Run("missing target file", func(t *testing.T) {
		t.Parallel()

		root := newProject(t, map[string]string{"static/index.html": page})
		_, _, err := runCLI(t, "verify", "--root", root)
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("expected fs.ErrNotExist, got %v", err)
		}
	})
}
