package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/csphash/internal/model"
	"github.com/nao1215/csphash/internal/policy"
	"github.com/spf13/cobra"
)

// NewVerifyCmd creates the verify command.
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that the consumer file carries the current hashes",
		Long: `Verify scans the static directory and compares the resulting hashes with
the hash sources found in the target file (src/middleware.rs by default).

The target file is only read. Hashes missing from the file and hashes in
the file that no inline script produces are listed, and the command exits
with status 1 when the file is out of date. Trailing '=' characters are
ignored when comparing.

Examples:
  # Check src/middleware.rs against ./static
  csphash verify

  # Check another file
  csphash verify --target server/csp.go`,
		Args: cobra.NoArgs,
		RunE: runVerifyCmd,
	}

	cmd.Flags().StringP("target", "t", "",
		"File holding the policy, relative to the project root (default: src/middleware.rs)")

	return cmd
}

// runVerifyCmd executes the verify command.
func runVerifyCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if f := cmd.Flags().Lookup("target"); f != nil && f.Changed {
		cfg.TargetFile = f.Value.String()
	}

	logger := setupLogger(cmd, cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The audit only produces warnings, which verify does not act on.
	cfg.SkipAudit = true
	scanReport, err := runScan(ctx, cfg, logger)
	if err != nil {
		return err
	}

	targetPath := cfg.TargetPath()
	content, err := os.ReadFile(targetPath) //nolint:gosec // target file is chosen by the user
	if err != nil {
		return fmt.Errorf("failed to read target file: %w", err)
	}

	found := policy.ParseHashSources(string(content))
	comparison := policy.Compare(scanReport.Algorithm, scanReport.Digests, found)

	printComparison(cmd.OutOrStdout(), cfg.TargetFile, scanReport.Algorithm, len(scanReport.Digests), comparison)

	if !comparison.UpToDate() {
		return fmt.Errorf("%w: %s (%d missing, %d stale)",
			policy.ErrOutOfDate, cfg.TargetFile, len(comparison.Missing), len(comparison.Stale))
	}
	return nil
}

// printComparison writes the result of a verify run.
func printComparison(w io.Writer, target string, algorithm model.Algorithm, total int, c policy.Comparison) {
	if c.UpToDate() {
		fmt.Fprintf(w, "✅ %s is up to date (%d script hashes)\n", target, total)
		return
	}

	if len(c.Missing) > 0 {
		fmt.Fprintf(w, "Missing from %s (%d):\n", target, len(c.Missing))
		for _, d := range c.Missing {
			fmt.Fprintf(w, "  + '%s-%s'\n", algorithm, d)
		}
	}
	if len(c.Stale) > 0 {
		fmt.Fprintf(w, "Stale in %s (%d):\n", target, len(c.Stale))
		for _, d := range c.Stale {
			fmt.Fprintf(w, "  - '%s-%s'\n", algorithm, d)
		}
	}
	fmt.Fprintln(w, "\nRun 'csphash' and copy the new directive.")
}
