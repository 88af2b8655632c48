package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relforge/relforge/internal/application"
	"github.com/relforge/relforge/internal/changelog"
)

var changelogFlags struct {
	html bool
}

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Render release notes for the unreleased commits",
	Long: `Render the release notes that the next release would carry, without
touching the repository, the ledger or any remote. Markdown by default;
--html renders sanitized HTML for package repository descriptions.`,
	RunE: runChangelog,
}

func init() {
	changelogCmd.Flags().BoolVar(&changelogFlags.html, "html", false, "render sanitized HTML instead of markdown")
}

func runChangelog(cmd *cobra.Command, _ []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.RunTimeout)
	defer cancel()

	proposal, err := a.versions.Next(ctx, application.VersionOptions{})
	if err != nil {
		return err
	}

	notes := changelog.NewBuilder().Render(proposal.Next, proposal.Commits)
	if changelogFlags.html {
		notes = changelog.RenderHTML(notes)
	}
	fmt.Fprint(cmd.OutOrStdout(), notes)
	return nil
}
