// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"repub-cli/internal/config"
	"repub-cli/internal/issue"
	"repub-cli/internal/nexus"
	"repub-cli/pkg/types"
)

var (
	fetchURL        string
	fetchGroup      string
	fetchRepository string
	fetchUser       string
	fetchPassword   string
	fetchDest       string

	fetchCmd = &cobra.Command{
		Use:   "fetch",
		Short: "Mirror a groupId from a Nexus repository into a local tree",
		Long: `Download every jar and pom asset of a groupId from a Nexus repository
into a local directory, preserving the repository path layout. For snapshot
versions only the newest timestamped build of each coordinate is fetched.

The resulting tree is laid out as group/artifact/version and can be passed
straight to 'repub publish --root'.`,
		Example: `  repub fetch --url https://nexus.example.com --group com.example
  repub fetch --url https://nexus.example.com --group com.example \
      --repository maven-snapshots --user deploy --dest ./repo`,
		SilenceUsage: true,
		RunE:         runFetch,
	}
)

func init() {
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "Nexus base URL")
	fetchCmd.Flags().StringVar(&fetchGroup, "group", "", "groupId to mirror (prefix match)")
	fetchCmd.Flags().StringVar(&fetchRepository, "repository", "", "source repository name (default maven-releases)")
	fetchCmd.Flags().StringVar(&fetchUser, "user", "", "basic auth user")
	fetchCmd.Flags().StringVar(&fetchPassword, "password", "", "basic auth password (or REPUB_PASSWORD)")
	fetchCmd.Flags().StringVar(&fetchDest, "dest", "repo", "destination directory")
}

func runFetch(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return failConfig(issue.ConfigLoadFailedId, err)
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.Fetch.URL = fetchURL
	}
	if flags.Changed("repository") {
		cfg.Fetch.Repository = fetchRepository
	}
	if flags.Changed("user") {
		cfg.Fetch.User = fetchUser
	}

	if cfg.Fetch.URL == "" {
		err := issue.NewErrorContext().
			WithOperation("fetch artifacts").
			WithResource("--url").
			WithSuggestion("Pass the Nexus base URL via --url").
			WithSuggestion("Or set fetch.url in your config file").
			Wrap(fmt.Errorf("no source repository URL configured")).
			BuildError()
		return failConfig(issue.ConfigLoadFailedId, err)
	}
	if fetchGroup == "" {
		err := issue.NewErrorContext().
			WithOperation("fetch artifacts").
			WithResource("--group").
			WithSuggestion("Pass the groupId to mirror via --group").
			Wrap(fmt.Errorf("no groupId given")).
			BuildError()
		return failConfig(issue.ConfigLoadFailedId, err)
	}

	password := fetchPassword
	if password == "" {
		password = os.Getenv("REPUB_PASSWORD")
	}

	opts := []nexus.ClientOption{
		nexus.WithRepository(cfg.Fetch.Repository),
		nexus.WithUserAgent("repub/" + Version),
	}
	if cfg.Fetch.User != "" {
		opts = append(opts, nexus.WithBasicAuth(cfg.Fetch.User, password))
	}
	client := nexus.NewClient(cfg.Fetch.URL, opts...)

	logger := newLogger()
	logger.Info("mirroring",
		"url", cfg.Fetch.URL,
		"repository", cfg.Fetch.Repository,
		"group", fetchGroup,
		"dest", fetchDest)

	stats, err := client.Mirror(cmd.Context(), fetchGroup, fetchDest, logger)
	if err != nil {
		return &ExitError{
			Code: types.ExitPublishFailed,
			Err:  fmt.Errorf("fetch failed: %w", err),
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, TitleStyle.Render("Fetch summary"))
	fmt.Fprintf(out, "  assets found:   %d\n", stats.Found)
	fmt.Fprintf(out, "  stale builds:   %d\n", stats.Filtered)
	fmt.Fprintf(out, "  %s %d\n", SuccessStyle.Render("downloaded:    "), stats.Downloaded)
	fmt.Fprintf(out, "  already local:  %d\n", stats.Existing)
	if stats.Skipped > 0 {
		fmt.Fprintf(out, "  %s %d\n", WarningStyle.Render("missing (404): "), stats.Skipped)
	}
	if stats.Failed > 0 {
		fmt.Fprintf(out, "  %s %d\n", ErrorStyle.Render("failed:        "), stats.Failed)
		return &ExitError{
			Code: types.ExitPublishFailed,
			Err:  fmt.Errorf("%d download(s) failed", stats.Failed),
		}
	}
	return nil
}
