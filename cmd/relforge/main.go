// relforge computes the next semantic version from commit history and
// publishes releases: tag push, hosted release, artifact uploads.
package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/relforge/relforge/internal/application"
	"github.com/relforge/relforge/internal/domain/model"
)

var rootCmd = &cobra.Command{
	Use:   "relforge",
	Short: "Semantic-release engine: version, notes and publish from commit history",
	Long: `relforge inspects the commits since the last release tag, classifies
them with a commit grammar, computes the next semantic version, renders
release notes and publishes the release: annotated tag pushed to the
remote, hosted release created, artifacts uploaded.

Configuration comes from RELFORGE_* environment variables (GITHUB_TOKEN
and GITHUB_REPOSITORY are picked up unmodified inside GitHub Actions).
Exit code is 0 both after a publish and on a clean "no release needed"
outcome.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(changelogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("fatal error", "kind", errorKind(err), "error", err)
		os.Exit(1)
	}
}

// errorKind names the failure class for the log line, per the error
// taxonomy. Unknown errors report as "internal".
func errorKind(err error) string {
	switch {
	case errors.Is(err, model.ErrConfiguration):
		return "configuration"
	case errors.Is(err, model.ErrHistoryAccess):
		return "history"
	case errors.Is(err, model.ErrBuild):
		return "build"
	case errors.Is(err, model.ErrPublish):
		return "publish"
	case errors.Is(err, model.ErrRunInProgress):
		return "locked"
	}
	return "internal"
}

// logOutcome reports the terminal state of a run.
func logOutcome(result *application.Result) {
	switch result.Outcome {
	case application.OutcomeNoRelease:
		slog.Info("nothing to release",
			"current", result.Proposal.Current.String(),
			"commits", len(result.Proposal.Commits),
		)
	case application.OutcomePublished:
		slog.Info("release published",
			"version", result.Release.Version.String(),
			"tag", result.Release.TagName,
			"artifacts", len(result.Release.Artifacts),
		)
	}
}
