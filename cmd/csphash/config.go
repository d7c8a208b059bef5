package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/nao1215/csphash/internal/config"
	"github.com/nao1215/csphash/internal/log"
	"github.com/nao1215/csphash/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// buildConfig creates a Config from defaults, the config file, the
// environment (including <root>/.env) and the command line flags, in
// increasing order of precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	root, err := stringFlag(cmd, "root")
	if err != nil {
		return nil, err
	}
	if root == "" {
		root = "."
	}
	cfg.ProjectRoot, err = filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root %s: %w", root, err)
	}

	cfg.ConfigFilePath, err = stringFlag(cmd, "config")
	if err != nil {
		return nil, err
	}

	// An explicitly named config file must exist; otherwise a missing
	// file just means built-in defaults.
	configPath := config.FindConfigFile(cfg.ConfigFilePath, cfg.ProjectRoot)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := cfg.ApplyFile(file); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	dotenv, err := config.ReadDotEnv(cfg.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", config.DotEnvFile, err)
	}
	if err := cfg.ApplyEnv(config.EnvLookup(dotenv)); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// applyFlags overlays the flags the user actually set.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	if f := lookupFlag(cmd, "dir"); f != nil && f.Changed {
		cfg.StaticDir = f.Value.String()
	}
	if f := lookupFlag(cmd, "algorithm"); f != nil && f.Changed {
		a, ok := model.ParseAlgorithm(f.Value.String())
		if !ok {
			return fmt.Errorf("%w: %q", config.ErrUnsupportedAlgorithm, f.Value.String())
		}
		cfg.Algorithm = a
	}

	boolFlags := []struct {
		name string
		dst  *bool
	}{
		{"json", &cfg.JSONReport},
		{"markdown", &cfg.MarkdownReport},
		{"header", &cfg.HeaderOnly},
		{"strict", &cfg.Strict},
		{"no-audit", &cfg.SkipAudit},
	}
	for _, bf := range boolFlags {
		f := lookupFlag(cmd, bf.name)
		if f == nil || !f.Changed {
			continue
		}
		v, err := cmd.Flags().GetBool(bf.name)
		if err != nil {
			return err
		}
		*bf.dst = v
	}

	if f := lookupFlag(cmd, "no-history"); f != nil && f.Changed {
		noHistory, err := cmd.Flags().GetBool("no-history")
		if err != nil {
			return err
		}
		cfg.SaveHistory = !noHistory
	}
	if f := lookupFlag(cmd, "db-dir"); f != nil && f.Changed {
		cfg.DBDir = f.Value.String()
	}
	if f := lookupFlag(cmd, "output"); f != nil && f.Changed {
		cfg.ReportFile = f.Value.String()
	}
	return nil
}

// lookupFlag finds a flag on the command or among the root's persistent flags.
func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f
	}
	return cmd.Root().PersistentFlags().Lookup(name)
}

// stringFlag returns a string flag from the command or the root.
func stringFlag(cmd *cobra.Command, name string) (string, error) {
	f := lookupFlag(cmd, name)
	if f == nil {
		return "", fmt.Errorf("unknown flag: %s", name)
	}
	return f.Value.String(), nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the logger for a command and makes it the default.
func setupLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	logger := log.NewLogger(cmd.ErrOrStderr(), verbose)
	slog.SetDefault(logger)
	return logger
}
