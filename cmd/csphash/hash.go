package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/csphash/internal/config"
	"github.com/nao1215/csphash/internal/database"
	"github.com/nao1215/csphash/internal/model"
	"github.com/nao1215/csphash/internal/pipeline"
	"github.com/nao1215/csphash/internal/report"
	"github.com/nao1215/csphash/internal/scanner"
	"github.com/spf13/cobra"
)

// NewHashCmd creates the hash command.
func NewHashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Print the script-src directive for the inline scripts",
		Long: `Hash scans every .html file directly inside the static directory and
prints a hash for each inline <script> element, followed by the
script-src directive that allows all of them.

Only <script> and <script type="..."> open tags are matched. Scripts
with other attributes are reported as warnings because the directive
will not allow them.

Examples:
  # Scan ./static and print the directive
  csphash hash

  # Scan another project
  csphash hash --root ../site

  # Print only the full header value
  csphash hash --header

  # Write a Markdown report for a pull request
  csphash hash --markdown -o csp-report.md

  # Fail when an inline script is not covered
  csphash hash --strict`,
		Args: cobra.NoArgs,
		RunE: runHashCmd,
	}

	addHashFlags(cmd)

	return cmd
}

// addHashFlags registers the output flags of the hash command.
func addHashFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown and --header)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json and --header)")
	cmd.Flags().Bool("header", false,
		"Output only the full Content-Security-Policy header value")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("strict", false,
		"Exit with an error when inline scripts are not covered by the directive")
	cmd.Flags().Bool("no-audit", false,
		"Skip the HTML parser check for inline scripts the pattern misses")
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")
}

// runHashCmd executes the hash command.
func runHashCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanReport, err := runScan(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if err := outputReport(cmd.OutOrStdout(), cfg, scanReport); err != nil {
		return err
	}

	if cfg.SaveHistory {
		if err := saveRun(ctx, cfg, scanReport, logger); err != nil {
			logger.Warn("failed to record run in history", "error", err)
		}
	}

	if cfg.Strict && scanReport.HasUncovered() {
		return fmt.Errorf("%w: %d found", scanner.ErrUncoveredScripts, len(scanReport.Uncovered))
	}
	return nil
}

// runScan executes the scan pipeline for cfg and returns the finished report.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*model.ScanReport, error) {
	hasher, err := scanner.NewHasher(cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	scanReport := model.NewScanReport(cfg.StaticPath(), hasher.Algorithm())
	p := pipeline.DefaultPipeline(hasher, !cfg.SkipAudit, pipeline.WithLogger(logger))

	logger.Debug("starting scan",
		"directory", scanReport.Directory,
		"algorithm", scanReport.Algorithm,
		"steps", p.StepNames(),
	)

	if err := p.Execute(ctx, scanReport); err != nil {
		return nil, err
	}
	return scanReport, nil
}

// reportSettings returns the writer settings for cfg.
func reportSettings(cfg *config.Config) report.Settings {
	return report.Settings{
		Policy:         cfg.Policy,
		TargetFile:     cfg.TargetFile,
		BuildCommand:   cfg.BuildCommand,
		RestartCommand: cfg.RestartCommand,
		Version:        getVersion(),
	}
}

// reportFormat returns the writer format selected in cfg.
func reportFormat(cfg *config.Config) report.Format {
	switch {
	case cfg.JSONReport:
		return report.FormatJSON
	case cfg.MarkdownReport:
		return report.FormatMarkdown
	case cfg.HeaderOnly:
		return report.FormatHeader
	default:
		return report.FormatText
	}
}

// outputReport writes the report in the requested format to stdout or
// to cfg.ReportFile.
func outputReport(stdout io.Writer, cfg *config.Config, scanReport *model.ScanReport) error {
	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	w := report.NewWriter(output, reportFormat(cfg), reportSettings(cfg))
	if _, err := w.Write(scanReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// saveRun records the report in the history database.
func saveRun(ctx context.Context, cfg *config.Config, scanReport *model.ScanReport, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	id, err := db.SaveRun(ctx, scanReport)
	if err != nil {
		return err
	}

	logger.Debug("run saved to history", "id", id, "directory", scanReport.Directory, "db", db.Path())
	return nil
}
