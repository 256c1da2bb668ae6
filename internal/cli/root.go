package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jyang234/aef/primer/internal/config"
	"github.com/jyang234/aef/primer/internal/logging"
)

var (
	verbose bool
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "primer",
		Short: "primer - session continuity for Claude Code",
		Long: `primer runs when a Claude Code session starts. It restores the previous
session's summary, lists session aliases and learned skills, and reports which
package manager the project uses.

Install it as a SessionStart hook with "primer hook session-start" and as a
SessionEnd hook with "primer hook session-end".`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Write debug logs to stderr")
}

// Execute runs the root command
func Execute(version string) error {
	// Add subcommands here to ensure proper initialization order
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(aliasCmd)
	rootCmd.AddCommand(pmCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the primer version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "primer %s\n", cmd.Root().Version)
	},
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger opens the debug log. --verbose sends it to stderr at debug level.
func newLogger(cfg *config.Config, stderr io.Writer) *logging.Logger {
	level := cfg.Log.Level
	var w io.Writer
	if verbose {
		level = logging.LevelDebug
		w = stderr
	}
	l, err := logging.New(cfg.Log.File, level, w)
	if err != nil {
		return logging.Nop()
	}
	return l
}
