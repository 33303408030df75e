// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"repub-cli/internal/config"
	"repub-cli/internal/issue"
	"repub-cli/internal/publish"
	"repub-cli/internal/scan"
	"repub-cli/internal/selection"
	"repub-cli/pkg/types"
)

var (
	publishRoot        string
	publishReleaseURL  string
	publishReleaseID   string
	publishSnapshotURL string
	publishSnapshotID  string
	publishSettings    string
	publishLive        bool
	publishParallel    int

	publishCmd = &cobra.Command{
		Use:   "publish",
		Short: "Resolve a local repository tree and publish it",
		Long: `Scan a local repository tree, resolve each coordinate to one publishable
unit, and publish every unit into the release or snapshot target selected
by its version.

Runs are dry by default: each fully-resolved request is printed instead of
executed. Pass --live to publish through mvn deploy:deploy-file.`,
		Example: `  repub publish --root repo --release-url https://nexus/releases --release-id releases \
      --snapshot-url https://nexus/snapshots --snapshot-id snapshots
  repub publish --live --parallel 8
  repub publish --config ./repub.cue --live`,
		SilenceUsage: true,
		RunE:         runPublish,
	}
)

func init() {
	publishCmd.Flags().StringVar(&publishRoot, "root", "", "local repository tree to scan")
	publishCmd.Flags().StringVar(&publishReleaseURL, "release-url", "", "release target repository URL")
	publishCmd.Flags().StringVar(&publishReleaseID, "release-id", "", "release target repository id (matches settings.xml server)")
	publishCmd.Flags().StringVar(&publishSnapshotURL, "snapshot-url", "", "snapshot target repository URL")
	publishCmd.Flags().StringVar(&publishSnapshotID, "snapshot-id", "", "snapshot target repository id (matches settings.xml server)")
	publishCmd.Flags().StringVar(&publishSettings, "settings", "", "Maven settings.xml passed to every deploy")
	publishCmd.Flags().BoolVar(&publishLive, "live", false, "execute publishes instead of printing them")
	publishCmd.Flags().IntVar(&publishParallel, "parallel", 0, "concurrent publish limit (default 4)")
}

func runPublish(cmd *cobra.Command, _ []string) error {
	cfg, err := loadPublishConfig(cmd)
	if err != nil {
		return failConfig(issue.ConfigLoadFailedId, err)
	}
	if err := cfg.Validate(); err != nil {
		return failConfig(issueForConfigError(err), err)
	}

	logger := newLogger()

	var publisher publish.Publisher
	if cfg.Live {
		deploy := publish.NewMavenDeploy()
		if !deploy.Available() {
			err := fmt.Errorf("mvn executable not found on PATH")
			return failConfig(issue.MavenNotFoundId, err)
		}
		publisher = deploy
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("Dry-run: printing resolved publish requests. Pass --live to execute."))
		publisher = publish.NewDryRun(cmd.OutOrStdout())
	}

	scanner := scan.New(cfg.Root)
	var candidates []scan.CandidateFile
	if err := scanner.Run(func(cf scan.CandidateFile) {
		candidates = append(candidates, cf)
	}); err != nil {
		return failConfig(issue.RootNotFoundId, err)
	}
	logger.Info("scan complete",
		"candidates", len(candidates),
		"skipped", scanner.Skipped())

	result := selection.Select(selection.GroupCandidates(candidates))
	logger.Info("selection complete",
		"units", len(result.Selected),
		"skipped", result.Skipped)

	tasks := publish.BuildTasks(result.Selected, cfg.Routing(), cfg.Settings)
	orch := publish.NewOrchestrator(publisher, cfg.Parallel, logger)
	outcomes := orch.Run(cmd.Context(), tasks)

	stats := publish.Aggregate(outcomes, scanner.Skipped()+result.Skipped)
	printStatistics(cmd, stats, cfg.Live)

	if stats.HadFailures() {
		return &ExitError{
			Code: types.ExitPublishFailed,
			Err:  fmt.Errorf("%d file(s) failed to publish", stats.Failed),
		}
	}
	return nil
}

// loadPublishConfig merges the config file with flag overrides. A flag set
// on the command line always wins over the file.
func loadPublishConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Root = publishRoot
	}
	if flags.Changed("release-url") {
		cfg.Releases.URL = publishReleaseURL
	}
	if flags.Changed("release-id") {
		cfg.Releases.ID = publishReleaseID
	}
	if flags.Changed("snapshot-url") {
		cfg.Snapshots.URL = publishSnapshotURL
	}
	if flags.Changed("snapshot-id") {
		cfg.Snapshots.ID = publishSnapshotID
	}
	if flags.Changed("settings") {
		cfg.Settings = publishSettings
	}
	if flags.Changed("live") {
		cfg.Live = publishLive
	}
	if flags.Changed("parallel") {
		cfg.Parallel = publishParallel
	}
	return cfg, nil
}

// issueForConfigError maps a validation failure to its catalog card.
func issueForConfigError(err error) issue.Id {
	switch {
	case errors.Is(err, config.ErrRootMissing):
		return issue.RootNotFoundId
	case errors.Is(err, config.ErrTargetMissing):
		return issue.TargetRepositoryMissingId
	case errors.Is(err, config.ErrBadParallel):
		return issue.InvalidConcurrencyId
	default:
		return issue.ConfigLoadFailedId
	}
}

// failConfig renders the issue card for a fatal pre-run failure and returns
// the configuration exit code.
func failConfig(id issue.Id, err error) error {
	if card := issue.Lookup(id); card != nil {
		if out, rerr := card.Render(""); rerr == nil {
			fmt.Fprint(os.Stderr, out)
		}
	}

	var actionable *issue.ActionableError
	if errors.As(err, &actionable) {
		fmt.Fprintln(os.Stderr, actionable.Format(verbose))
	} else {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
	}
	return &ExitError{Code: types.ExitConfigError, Err: err}
}

// printStatistics renders the run summary.
func printStatistics(cmd *cobra.Command, stats publish.Statistics, live bool) {
	out := cmd.OutOrStdout()

	mode := "dry-run"
	if live {
		mode = "live"
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, TitleStyle.Render("Publish summary")+SubtitleStyle.Render(" ("+mode+")"))
	fmt.Fprintf(out, "  total files:    %d\n", stats.Total)
	fmt.Fprintf(out, "  %s %d\n", WarningStyle.Render("skipped:       "), stats.Skipped)
	fmt.Fprintf(out, "  %s %d  (releases %d, snapshots %d)\n",
		SuccessStyle.Render("succeeded:     "),
		stats.Succeeded, stats.ReleaseSucceeded, stats.SnapshotSucceeded)
	if stats.Failed > 0 {
		fmt.Fprintf(out, "  %s %d  (releases %d, snapshots %d)\n",
			ErrorStyle.Render("failed:        "),
			stats.Failed, stats.ReleaseFailed, stats.SnapshotFailed)
	}
}

// newLogger builds the run logger honoring --verbose.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
