package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relforge/relforge/internal/application"
	"github.com/relforge/relforge/internal/domain/model"
)

var versionFlags struct {
	printOnly       bool
	forceMajor      bool
	forceMinor      bool
	forcePatch      bool
	prerelease      bool
	prereleaseToken string
	buildMetadata   string
	noCommit        bool
	noPush          bool
	noVCSRelease    bool
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Detect and apply the next version",
	Long: `Compute the next semantic version from the commits since the last
release tag and, unless --print is given, apply it: create the annotated
tag, push it and create the hosted release.`,
	RunE: runVersion,
}

func init() {
	f := versionCmd.Flags()
	f.BoolVar(&versionFlags.printOnly, "print", false, "print the next version and exit")
	f.BoolVar(&versionFlags.forceMajor, "major", false, "force a major release")
	f.BoolVar(&versionFlags.forceMinor, "minor", false, "force a minor release")
	f.BoolVar(&versionFlags.forcePatch, "patch", false, "force a patch release")
	f.BoolVar(&versionFlags.prerelease, "prerelease", false, "make the next version a prerelease")
	f.StringVar(&versionFlags.prereleaseToken, "prerelease-token", "", "prerelease token override")
	f.StringVar(&versionFlags.buildMetadata, "build-metadata", "", "build metadata appended to the version")
	f.BoolVar(&versionFlags.noCommit, "no-commit", false, "do not commit stamped files and the changelog")
	f.BoolVar(&versionFlags.noPush, "no-push", false, "do not push the tag to the remote")
	f.BoolVar(&versionFlags.noVCSRelease, "no-vcs-release", false, "do not create the hosted release")
	versionCmd.MarkFlagsMutuallyExclusive("major", "minor", "patch")
}

// versionOptions translates the shared version flags.
func versionOptions(defaultToken string) application.VersionOptions {
	opts := application.VersionOptions{
		Prerelease:      versionFlags.prerelease,
		PrereleaseToken: versionFlags.prereleaseToken,
		BuildMetadata:   versionFlags.buildMetadata,
	}
	if opts.PrereleaseToken == "" {
		opts.PrereleaseToken = defaultToken
	}
	switch {
	case versionFlags.forceMajor:
		opts.ForceLevel = model.CategoryMajor
	case versionFlags.forceMinor:
		opts.ForceLevel = model.CategoryMinor
	case versionFlags.forcePatch:
		opts.ForceLevel = model.CategoryPatch
	}
	return opts
}

func runVersion(cmd *cobra.Command, _ []string) error {
	a, err := newApp(!versionFlags.printOnly)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.RunTimeout)
	defer cancel()

	opts := versionOptions(a.cfg.PrereleaseToken)

	if versionFlags.printOnly {
		proposal, err := a.versions.Next(ctx, opts)
		if err != nil {
			return err
		}
		if !proposal.HasRelease {
			fmt.Fprintln(cmd.OutOrStdout(), proposal.Current)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), proposal.Next)
		return nil
	}

	result, err := a.release.Run(ctx, application.ReleaseOptions{
		VersionOptions: opts,
		Commit:         !versionFlags.noCommit,
		Push:           !versionFlags.noPush,
		VCSRelease:     !versionFlags.noVCSRelease,
	})
	if err != nil {
		return err
	}
	logOutcome(result)
	return nil
}
