package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/relforge/relforge/internal/changelog"
	"github.com/relforge/relforge/internal/domain/model"
	"github.com/relforge/relforge/internal/domain/port/driven"
)

// Outcome is the terminal state of an orchestrator run.
type Outcome string

const (
	// OutcomeNoRelease means the run finished cleanly without publishing:
	// no qualifying commits, or the version was already published.
	OutcomeNoRelease Outcome = "no-release"
	// OutcomePublished means the full pipeline completed.
	OutcomePublished Outcome = "published"
)

// ReleaseOptions control which side effects a run performs.
type ReleaseOptions struct {
	VersionOptions

	Commit     bool // Stamp version declarations, update the changelog file and commit them.
	Push       bool // Push the release commit and tag to the remote.
	VCSRelease bool // Create the hosted release and attach assets.
	Upload     bool // Upload artifacts to the package repository.
	Build      bool // Run the artifact build.
}

// Result reports what a run did.
type Result struct {
	Outcome  Outcome
	Proposal *Proposal
	Release  *model.Release // Set when Outcome is OutcomePublished.
}

// ReleaseService sequences version computation, notes rendering, artifact
// build and publication. One logical run per invocation; overlapping runs
// for the same project are serialized by the release ledger's running-state
// lock. Nothing in the publish path is retried automatically, since a
// partially completed publish must not repeat its side effects.
type ReleaseService struct {
	versions     *VersionService
	notes        *changelog.Builder
	tags         driven.TagWriter
	publisher    driven.ReleasePublisher // Nil disables the hosted release.
	artifactRepo driven.ArtifactRepo     // Nil disables repository upload.
	builder      driven.ArtifactBuilder
	stamper      driven.VersionStamper // Nil when no version declarations are configured.
	store        driven.ReleaseStore

	dir           string
	changelogFile string // Relative to dir; empty disables the changelog file.
	project       string
	repo          string // "owner/repo" for the hosted release.
	tagFormat     string
	creds         model.Credentials
}

// ReleaseDeps bundles the orchestrator's collaborators and static settings.
// Publisher, ArtifactRepo and Stamper may be nil when the corresponding
// target is not configured.
type ReleaseDeps struct {
	Versions     *VersionService
	Notes        *changelog.Builder
	Tags         driven.TagWriter
	Publisher    driven.ReleasePublisher
	ArtifactRepo driven.ArtifactRepo
	Builder      driven.ArtifactBuilder
	Stamper      driven.VersionStamper
	Store        driven.ReleaseStore

	Dir           string
	ChangelogFile string
	Project       string
	Repo          string
	TagFormat     string
	Creds         model.Credentials
}

// NewReleaseService creates a ReleaseService from its dependency bundle.
func NewReleaseService(deps ReleaseDeps) *ReleaseService {
	return &ReleaseService{
		versions:      deps.Versions,
		notes:         deps.Notes,
		tags:          deps.Tags,
		publisher:     deps.Publisher,
		artifactRepo:  deps.ArtifactRepo,
		builder:       deps.Builder,
		stamper:       deps.Stamper,
		store:         deps.Store,
		dir:           deps.Dir,
		changelogFile: deps.ChangelogFile,
		project:       deps.Project,
		repo:          deps.Repo,
		tagFormat:     deps.TagFormat,
		creds:         deps.Creds,
	}
}

// Run executes the pipeline: acquire the project lock, compute the next
// version, and either stop at a clean no-release outcome or build and
// publish. Once the tag push has succeeded the publish phase detaches from
// ctx cancellation and runs to completion; a late failure leaves the ledger
// row failed for manual reconciliation rather than rolling back the tag.
func (s *ReleaseService) Run(ctx context.Context, opts ReleaseOptions) (*Result, error) {
	runID, err := s.store.BeginRun(ctx, s.project)
	if err != nil {
		return nil, fmt.Errorf("acquiring run lock for %q: %w", s.project, err)
	}
	slog.Info("run started", "project", s.project, "run_id", runID)

	result, runErr := s.run(ctx, opts)

	outcome := model.ReleaseRun{State: model.RunStateFailed}
	switch {
	case runErr != nil:
		// Leave the failure recorded; the tag may already be pushed.
	case result.Outcome == OutcomeNoRelease:
		outcome.State = model.RunStateSkipped
		outcome.Version = result.Proposal.Next.String()
	default:
		outcome.State = model.RunStatePublished
		outcome.Version = result.Release.Version.String()
		outcome.TagName = result.Release.TagName
		outcome.NotesDigest = notesDigest(result.Release.Notes)
	}

	// The ledger write must survive cancellation so the lock is released.
	finishCtx := context.WithoutCancel(ctx)
	if err := s.store.FinishRun(finishCtx, runID, outcome); err != nil {
		slog.Error("finishing ledger run", "run_id", runID, "error", err)
		if runErr == nil {
			runErr = err
		}
	}
	return result, runErr
}

func (s *ReleaseService) run(ctx context.Context, opts ReleaseOptions) (*Result, error) {
	proposal, err := s.versions.Next(ctx, opts.VersionOptions)
	if err != nil {
		return nil, err
	}
	if !proposal.HasRelease {
		return &Result{Outcome: OutcomeNoRelease, Proposal: proposal}, nil
	}

	published, err := s.store.IsPublished(ctx, s.project, proposal.Next.String())
	if err != nil {
		return nil, fmt.Errorf("checking ledger for %s: %w", proposal.Next, err)
	}
	if published {
		slog.Info("version already published, nothing to do",
			"project", s.project,
			"version", proposal.Next.String(),
		)
		return &Result{Outcome: OutcomeNoRelease, Proposal: proposal}, nil
	}

	// A bad token must fail the run before any local or remote side effect.
	if opts.VCSRelease && s.publisher != nil && s.repo != "" {
		login, err := s.publisher.ValidateToken(ctx, s.creds.GitHubToken)
		if err != nil {
			return nil, err
		}
		slog.Debug("github token validated", "login", login)
	}

	release := &model.Release{
		Version:   proposal.Next,
		TagName:   proposal.Next.TagName(s.tagFormat),
		Notes:     s.notes.Render(proposal.Next, proposal.Commits),
		CreatedAt: time.Now().UTC(),
	}

	// Version declarations and the changelog file are written before the
	// build, so built artifacts carry the stamped version.
	var commitPaths []string
	if opts.Commit {
		if s.stamper != nil {
			stamped, err := s.stamper.Stamp(ctx, release.Version)
			if err != nil {
				return nil, err
			}
			commitPaths = append(commitPaths, stamped...)
		}
		if s.changelogFile != "" {
			if err := changelog.UpdateFile(filepath.Join(s.dir, s.changelogFile), release.Notes); err != nil {
				return nil, fmt.Errorf("%w: %v", model.ErrPublish, err)
			}
			commitPaths = append(commitPaths, s.changelogFile)
		}
	}

	if opts.Build {
		artifacts, err := s.builder.Build(ctx, release.Version)
		if err != nil {
			return nil, err
		}
		release.Artifacts = artifacts
		slog.Info("artifacts built", "version", release.Version.String(), "count", len(artifacts))
	}

	if len(commitPaths) > 0 {
		msg := fmt.Sprintf("chore(release): %s", release.Version)
		if err := s.tags.CommitPaths(ctx, commitPaths, msg); err != nil {
			return nil, err
		}
		slog.Info("release commit created", "version", release.Version.String(), "paths", len(commitPaths))
	}

	if err := s.tags.CreateTag(ctx, driven.TagRequest{Name: release.TagName, Message: release.Notes}); err != nil {
		return nil, err
	}
	if opts.Push {
		if len(commitPaths) > 0 {
			if err := s.tags.PushBranch(ctx, s.creds); err != nil {
				return nil, err
			}
		}
		if err := s.tags.PushTag(ctx, release.TagName, s.creds); err != nil {
			return nil, err
		}
		slog.Info("tag pushed", "tag", release.TagName)
		// The tag is public now; finish the publish even if the caller's
		// context is canceled, so remote state stays reconcilable.
		ctx = context.WithoutCancel(ctx)
	}

	if opts.VCSRelease && s.publisher != nil && s.repo != "" {
		releaseID, err := s.publisher.CreateRelease(ctx, s.repo, driven.ReleaseRequest{
			TagName:    release.TagName,
			Name:       release.Version.String(),
			Notes:      release.Notes,
			Prerelease: release.Version.Prerelease != "",
		})
		if err != nil {
			return nil, err
		}
		for _, a := range release.Artifacts {
			if err := s.publisher.UploadAsset(ctx, s.repo, releaseID, a); err != nil {
				return nil, err
			}
		}
		slog.Info("vcs release created", "repo", s.repo, "tag", release.TagName, "assets", len(release.Artifacts))
	}

	if opts.Upload && s.artifactRepo != nil {
		for _, a := range release.Artifacts {
			if err := s.artifactRepo.Upload(ctx, a, s.creds); err != nil {
				return nil, err
			}
		}
		slog.Info("artifacts uploaded", "count", len(release.Artifacts))
	}

	return &Result{Outcome: OutcomePublished, Proposal: proposal, Release: release}, nil
}

// notesDigest fingerprints the notes for the ledger; the text itself lives
// only in the release it describes.
func notesDigest(notes string) string {
	sum := sha256.Sum256([]byte(notes))
	return hex.EncodeToString(sum[:])
}
