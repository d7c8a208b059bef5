package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// newProject creates a project root with a .csphash file and the given
// files, keyed by slash separated relative path.
func newProject(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	if _, ok := files[".csphash"]; !ok {
		files[".csphash"] = "static_dir: static\n"
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			t.Fatalf("failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return root
}

// runCLI executes the root command with args and returns stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
