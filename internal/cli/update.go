package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jqntn/timetracker/internal/buildinfo"
	"github.com/jqntn/timetracker/internal/startup"
	"github.com/jqntn/timetracker/internal/updater"
)

var updateCheckOnly bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update timetracker to the latest release",
	Long: `Check GitHub Releases for a newer version and install it in place of the
current binary. A running agent picks up the new version on its next launch.`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&updateCheckOnly, "check", false, "Only report whether an update is available")
}

// releaseChecker is the part of updater.Checker the command uses.
type releaseChecker interface {
	Check(ctx context.Context, repo updater.Repo, current string) (*updater.UpdateResult, error)
	CheckAndApply(ctx context.Context, repo updater.Repo, current string) (*updater.Status, error)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if buildinfo.IsDev() {
		fmt.Fprintf(out, "%s %s\n", styleWarning.Render("Development build."), styleHint.Render("Updates are disabled."))
		return nil
	}

	checker := updater.New(userAgent())
	exe, err := startup.Executable()
	if err != nil {
		return fmt.Errorf("failed to find self: %w", err)
	}
	checker.ExePath = exe

	return update(cmd.Context(), out, checker, buildinfo.Version, updateCheckOnly)
}

func update(ctx context.Context, out io.Writer, checker releaseChecker, current string, checkOnly bool) error {
	repo := releaseRepo()
	fmt.Fprintln(out, styleHint.Render("Checking for updates..."))

	if checkOnly {
		result, err := checker.Check(ctx, repo, current)
		if err != nil {
			return fmt.Errorf("failed to check for updates: %w", err)
		}
		if !result.Available {
			fmt.Fprintf(out, "%s %s\n", styleSuccess.Render("Already up to date"), styleVersion.Render("v"+result.CurrentVersion))
			return nil
		}
		fmt.Fprintf(out, "%s v%s → v%s\n", styleUpdate.Render("Update available:"), result.CurrentVersion, result.LatestVersion)
		fmt.Fprintf(out, "%s %s\n", styleLabel.Render("Release:"), styleValue.Render(result.ReleaseURL))
		fmt.Fprintf(out, "%s %s\n", styleHint.Render("Run"), styleCommand.Render("timetracker update"))
		return nil
	}

	status, err := checker.CheckAndApply(ctx, repo, current)
	if err != nil {
		return fmt.Errorf("failed to update: %w", err)
	}
	if !status.Updated {
		fmt.Fprintf(out, "%s %s\n", styleSuccess.Render("Already up to date"), styleVersion.Render("v"+status.Version))
		return nil
	}
	fmt.Fprintf(out, "%s %s\n", styleSuccess.Render("Updated to"), styleVersion.Render("v"+status.Version))
	return nil
}
