package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for csphash.
// Running it without a subcommand performs the hash command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csphash",
		Short: "Generate CSP script-src hashes for inline scripts",
		Long: `csphash scans every .html file directly inside the static directory,
hashes the body of each inline <script> element and prints the
Content-Security-Policy script-src directive that allows them.

The directive is printed for copying into the server configuration
(src/middleware.rs by default). No other file is modified.

Running csphash without a subcommand is the same as 'csphash hash'.`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		RunE:          runHashCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	addProjectFlags(cmd)
	addHashFlags(cmd)

	cmd.AddCommand(NewHashCmd())
	cmd.AddCommand(NewVerifyCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// addProjectFlags registers the flags that locate the project, shared by
// every command through the root's persistent flag set.
func addProjectFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("root", "r", ".",
		"Project root directory")
	cmd.PersistentFlags().StringP("dir", "d", "",
		"Directory with HTML files, relative to the project root (default: static)")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .csphash in project root or home directory)")
	cmd.PersistentFlags().StringP("algorithm", "a", "",
		"Hash algorithm: sha256, sha384 or sha512 (default: sha256)")
	cmd.PersistentFlags().String("db-dir", "",
		"History database directory (default: $XDG_DATA_HOME/csphash)")
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
