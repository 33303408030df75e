// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for repub.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "repub",
		Short: "Republish Maven artifacts between repositories",
		Long: TitleStyle.Render("repub") + SubtitleStyle.Render(" - Republish Maven artifacts between repositories") + `

repub scans a local repository tree (group/artifact/version directories),
resolves each coordinate to one publishable unit (picking the newest
snapshot build and pairing jars with their poms), and republishes each
selection into a release or snapshot target repository chosen by the
artifact's version.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Mirror a groupId from your source repository: repub fetch
  2. Inspect the resolved publish requests:        repub publish (dry-run)
  3. Publish for real:                             repub publish --live

` + SubtitleStyle.Render("Examples:") + `
  repub fetch --url https://nexus.example.com --group com.example
  repub publish --root repo --release-url URL --release-id releases \
      --snapshot-url URL --snapshot-id snapshots
  repub publish --live --parallel 8
  repub config show`,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/repub/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}
