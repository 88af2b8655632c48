// Package application contains use-case orchestration services.
package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relforge/relforge/internal/domain/model"
	"github.com/relforge/relforge/internal/domain/port/driven"
	"github.com/relforge/relforge/internal/parser"
)

// VersionOptions adjust how the next version is computed.
type VersionOptions struct {
	// ForceLevel overrides the computed bump level when not CategoryNone.
	ForceLevel model.ChangeCategory
	// Prerelease makes the next version a prerelease of the computed bump.
	Prerelease bool
	// PrereleaseToken is the prerelease identifier prefix; defaults to "rc".
	PrereleaseToken string
	// BuildMetadata is appended verbatim after "+" when set.
	BuildMetadata string
}

// Proposal is the outcome of version computation. HasRelease false means a
// clean "nothing to release" state, which is not an error.
//
// Current is the latest full release; Latest additionally considers
// prerelease tags. They differ only while a prerelease series is open, and
// commits are always collected back to the full release so the whole
// series folds into one bump level.
type Proposal struct {
	Current    model.Version
	CurrentTag string // Empty when the repository has no full release yet.
	Latest     model.Version
	LatestTag  string // Empty when the repository has no release tags at all.
	Next       model.Version
	Level      model.ChangeCategory
	Commits    []model.ParsedCommit // Commits since CurrentTag, newest first.
	HasRelease bool
}

// VersionService computes the next semantic version from the commit
// history since the last release tag.
type VersionService struct {
	history driven.HistorySource
	parser  parser.CommitParser
}

// NewVersionService creates a VersionService with all required dependencies.
func NewVersionService(history driven.HistorySource, commitParser parser.CommitParser) *VersionService {
	return &VersionService{
		history: history,
		parser:  commitParser,
	}
}

// Next reads the history, classifies commits with the configured grammar
// and folds them into a proposal. The result depends only on the current
// version and the multiset of categories present; commit order never
// changes the proposed version.
func (s *VersionService) Next(ctx context.Context, opts VersionOptions) (*Proposal, error) {
	tags, err := s.history.ReleaseTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading release tags: %w", err)
	}

	proposal := &Proposal{Current: model.ZeroVersion, Latest: model.ZeroVersion}
	var sinceHash string
	if len(tags) > 0 {
		proposal.Latest = tags[0].Version
		proposal.LatestTag = tags[0].TagName
	}
	for _, tag := range tags {
		if tag.Version.Prerelease == "" {
			proposal.Current = tag.Version
			proposal.CurrentTag = tag.TagName
			sinceHash = tag.Hash
			break
		}
	}

	commits, err := s.history.CommitsSince(ctx, sinceHash)
	if err != nil {
		return nil, fmt.Errorf("reading commits since %q: %w", proposal.CurrentTag, err)
	}

	categories := make([]model.ChangeCategory, 0, len(commits))
	for _, c := range commits {
		parsed := s.parser.Parse(c)
		proposal.Commits = append(proposal.Commits, parsed)
		categories = append(categories, parsed.Category)
	}

	proposal.Level = model.MaxCategory(categories)
	if opts.ForceLevel != "" && opts.ForceLevel != model.CategoryNone {
		proposal.Level = opts.ForceLevel
	}

	if proposal.Level == model.CategoryNone {
		slog.Info("no release needed",
			"current", proposal.Current.String(),
			"commits", len(commits),
		)
		proposal.Next = proposal.Current
		return proposal, nil
	}

	proposal.HasRelease = true
	proposal.Next = nextVersion(proposal.Latest, proposal.Current, proposal.Level, opts)
	slog.Info("next version computed",
		"current", proposal.Current.String(),
		"next", proposal.Next.String(),
		"level", string(proposal.Level),
		"commits", len(commits),
	)
	return proposal, nil
}

// nextVersion applies the bump rules given the latest release tag of any
// kind and the latest full release. Pure; the grammar and history reads
// happen in Next.
//
// An open prerelease series already carries a bump relative to the full
// release (the series diff). A prerelease run increments the revision
// while the fold stays within that diff and retargets the series when a
// higher-severity commit arrives; a final run finalizes the series, or
// bumps past it when the fold outgrew it.
func nextVersion(latest, full model.Version, level model.ChangeCategory, opts VersionOptions) model.Version {
	seriesDiff := model.DiffLevel(latest, full)

	var next model.Version
	switch {
	case opts.Prerelease:
		token := opts.PrereleaseToken
		if token == "" {
			token = "rc"
		}
		if level.Severity() > seriesDiff.Severity() {
			next = full.Finalize().Bump(level).WithPrerelease(token, 1)
			break
		}
		seriesToken, revision := latest.PrereleaseSeries()
		if seriesToken != token {
			revision = 0
		}
		next = latest.WithPrerelease(token, revision+1)
	case latest.Prerelease != "":
		if level.Severity() > seriesDiff.Severity() {
			next = latest.Bump(level)
			break
		}
		next = latest.Finalize()
	default:
		next = latest.Bump(level)
	}
	next.Build = opts.BuildMetadata
	return next
}
