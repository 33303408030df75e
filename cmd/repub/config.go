// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"repub-cli/internal/config"
	"repub-cli/internal/issue"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect repub configuration",
	}

	configShowCmd = &cobra.Command{
		Use:          "show",
		Short:        "Print the effective configuration",
		Long: `Print the configuration a run would use after merging built-in defaults
with the config file. Flag overrides are not included; they apply per run.`,
		SilenceUsage: true,
		RunE:         runConfigShow,
	}
)

func init() {
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return failConfig(issue.ConfigLoadFailedId, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render("Effective configuration"))
	fmt.Fprintf(out, "  root:          %s\n", orUnset(cfg.Root))
	fmt.Fprintf(out, "  releases.url:  %s\n", orUnset(cfg.Releases.URL))
	fmt.Fprintf(out, "  releases.id:   %s\n", orUnset(cfg.Releases.ID))
	fmt.Fprintf(out, "  snapshots.url: %s\n", orUnset(cfg.Snapshots.URL))
	fmt.Fprintf(out, "  snapshots.id:  %s\n", orUnset(cfg.Snapshots.ID))
	fmt.Fprintf(out, "  settings:      %s\n", orUnset(cfg.Settings))
	fmt.Fprintf(out, "  parallel:      %d\n", cfg.Parallel)
	fmt.Fprintf(out, "  live:          %t\n", cfg.Live)
	fmt.Fprintf(out, "  fetch.url:     %s\n", orUnset(cfg.Fetch.URL))
	fmt.Fprintf(out, "  fetch.repo:    %s\n", orUnset(cfg.Fetch.Repository))
	fmt.Fprintf(out, "  fetch.user:    %s\n", orUnset(cfg.Fetch.User))

	if dir, err := config.ConfigDir(); err == nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, SubtitleStyle.Render("Config file locations (first match wins):"))
		fmt.Fprintf(out, "  %s\n", dir+"/"+config.ConfigFileName)
		fmt.Fprintf(out, "  ./%s\n", config.LocalConfigFileName)
	}
	return nil
}

// orUnset renders empty values visibly.
func orUnset(v string) string {
	if v == "" {
		return VerboseStyle.Render("(unset)")
	}
	return v
}
