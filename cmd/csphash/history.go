package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/csphash/internal/database"
	"github.com/nao1215/csphash/internal/model"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previous runs and hash changes",
		Long: `History lists the runs recorded for the static directory, newest first.

Each 'csphash hash' run is stored in a SQLite database in the XDG data
directory unless --no-history is given.

Examples:
  # List recent runs for ./static
  csphash history

  # Show hashes added and removed since the previous run
  csphash history --diff

  # List every directory with recorded runs
  csphash history --all`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 10,
		"Maximum number of runs to list (0 for all)")
	cmd.Flags().Bool("diff", false,
		"Show hashes added and removed between the latest two runs")
	cmd.Flags().Bool("all", false,
		"List every directory with recorded runs")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	setupLogger(cmd, cfg.Verbose)

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	showDiff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return err
	}
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	directory := cfg.StaticPath()

	switch {
	case all:
		return listDirectories(ctx, out, db)
	case showDiff:
		return showLatestDiff(ctx, out, db, directory)
	default:
		return listRuns(ctx, out, db, directory, limit)
	}
}

// listDirectories prints every directory with recorded runs.
func listDirectories(ctx context.Context, w io.Writer, db *database.HistoryDB) error {
	dirs, err := db.ListDirectories(ctx)
	if err != nil {
		return err
	}

	if len(dirs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		fmt.Fprintln(w, "\nUse 'csphash' to scan a static directory.")
		return nil
	}

	fmt.Fprintf(w, "Scanned directories (%d):\n\n", len(dirs))
	for _, dir := range dirs {
		fmt.Fprintf(w, "  • %s\n", dir)
	}
	return nil
}

// listRuns prints the recorded runs for directory.
func listRuns(ctx context.Context, w io.Writer, db *database.HistoryDB, directory string, limit int) error {
	runs, err := db.ListRuns(ctx, directory, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintf(w, "No runs recorded for %s\n", directory)
		fmt.Fprintln(w, "\nUse 'csphash' to scan it.")
		return nil
	}

	fmt.Fprintf(w, "Run history for %s (%d runs):\n\n", directory, len(runs))
	fmt.Fprintf(w, "  %-6s  %-20s  %-9s  %s\n", "ID", "Date", "Algorithm", "Hashes")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 50))
	for _, run := range runs {
		fmt.Fprintf(w, "  %-6d  %-20s  %-9s  %d\n",
			run.ID,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Algorithm,
			len(run.Digests),
		)
	}
	fmt.Fprintln(w, "\nUse 'csphash history --diff' to compare the latest two runs.")
	return nil
}

// showLatestDiff prints the digests added and removed since the previous run.
func showLatestDiff(ctx context.Context, w io.Writer, db *database.HistoryDB, directory string) error {
	diff, err := db.DiffLatest(ctx, directory)
	if errors.Is(err, database.ErrRunNotFound) {
		fmt.Fprintf(w, "Not enough runs recorded for %s to compare.\n", directory)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Hash changes for %s\n", directory)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Previous run: #%d %s (%d hashes)\n",
		diff.From.ID, diff.From.Timestamp.Local().Format("2006-01-02 15:04:05"), len(diff.From.Digests))
	fmt.Fprintf(w, "Current run:  #%d %s (%d hashes)\n",
		diff.To.ID, diff.To.Timestamp.Local().Format("2006-01-02 15:04:05"), len(diff.To.Digests))

	if !diff.Changed() {
		fmt.Fprintln(w, "\nNo changes.")
		return nil
	}

	writeDigests(w, "Added", diff.To.Algorithm, "+", diff.Added)
	writeDigests(w, "Removed", diff.From.Algorithm, "-", diff.Removed)
	return nil
}

func writeDigests(w io.Writer, title string, algorithm model.Algorithm, marker string, digests []string) {
	if len(digests) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s (%d):\n", title, len(digests))
	for _, d := range digests {
		fmt.Fprintf(w, "  %s '%s-%s'\n", marker, algorithm, d)
	}
}
