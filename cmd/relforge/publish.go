package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/relforge/relforge/internal/application"
)

var publishFlags struct {
	noBuild  bool
	noUpload bool
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Version, build and publish a release",
	Long: `Run the full pipeline: compute the next version, render release
notes, build artifacts, tag and push, create the hosted release with the
artifacts attached, and upload the artifacts to the package repository.

A clean "no release needed" outcome exits 0 without side effects.`,
	RunE: runPublish,
}

func init() {
	f := publishCmd.Flags()
	f.BoolVar(&publishFlags.noBuild, "no-build", false, "skip the artifact build")
	f.BoolVar(&versionFlags.noCommit, "no-commit", false, "do not commit stamped files and the changelog")
	f.BoolVar(&publishFlags.noUpload, "no-upload", false, "skip the package repository upload")
	f.BoolVar(&versionFlags.prerelease, "prerelease", false, "make the next version a prerelease")
	f.StringVar(&versionFlags.prereleaseToken, "prerelease-token", "", "prerelease token override")
	f.StringVar(&versionFlags.buildMetadata, "build-metadata", "", "build metadata appended to the version")
}

func runPublish(cmd *cobra.Command, _ []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.RunTimeout)
	defer cancel()

	result, err := a.release.Run(ctx, application.ReleaseOptions{
		VersionOptions: versionOptions(a.cfg.PrereleaseToken),
		Commit:         !versionFlags.noCommit,
		Push:           true,
		VCSRelease:     true,
		Build:          !publishFlags.noBuild && a.cfg.BuildCommand != "",
		Upload:         !publishFlags.noUpload && a.cfg.RepositoryURL != "",
	})
	if err != nil {
		return err
	}
	logOutcome(result)
	return nil
}
