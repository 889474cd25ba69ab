// Package cli provides the command-line interface for dominant.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/dominant/internal/version"
)

// envLogLevel overrides the level chosen from --verbose and --quiet.
const envLogLevel = "DOMINANT_LOG_LEVEL"

// NewRootCmd builds the dominant command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dominant",
		Short: "Find the dominant colours of an image",
		Long: `dominant finds the most representative colours of an image by k-means
clustering its pixels, and reports how much of the image each colour covers.

Images can be read from files, directories (a random image is chosen) or
HTTP(S) URLs, optionally compressed with gzip, xz or bzip2.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress non-error output")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newExtractCmd())

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// newLogger returns the diagnostic logger for cmd, writing to its error
// stream at the level selected by the global flags.
func newLogger(cmd *cobra.Command) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "dominant",
		Output: cmd.ErrOrStderr(),
		Level:  logLevel(cmd, os.Getenv),
	})
}

func logLevel(cmd *cobra.Command, getenv func(string) string) hclog.Level {
	if v := strings.TrimSpace(getenv(envLogLevel)); v != "" {
		if lvl := hclog.LevelFromString(v); lvl != hclog.NoLevel {
			return lvl
		}
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	switch {
	case verbose:
		return hclog.Debug
	case quiet:
		return hclog.Error
	default:
		return hclog.Info
	}
}
