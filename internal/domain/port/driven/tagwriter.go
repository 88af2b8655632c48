package driven

import (
	"context"

	"github.com/relforge/relforge/internal/domain/model"
)

// TagRequest is the input to TagWriter.CreateTag.
type TagRequest struct {
	Name    string // Full tag name, e.g. "v1.3.0".
	Message string // Annotation message; the release notes by convention.
}

// TagWriter defines the driven port for writing the release commit and tag
// to version control. Push failures wrap model.ErrPublish and must surface
// to the caller unretried: a duplicate push could race another release.
type TagWriter interface {
	// CommitPaths stages the given worktree-relative paths and commits
	// them with the configured committer identity.
	CommitPaths(ctx context.Context, paths []string, message string) error

	// CreateTag creates an annotated tag at HEAD with the configured
	// committer identity.
	CreateTag(ctx context.Context, req TagRequest) error

	// PushBranch pushes the current branch to the configured remote, so
	// the release commit lands before its tag.
	PushBranch(ctx context.Context, creds model.Credentials) error

	// PushTag pushes the named tag to the configured remote, authenticating
	// with the run credentials (token over HTTPS, or the SSH key).
	PushTag(ctx context.Context, name string, creds model.Credentials) error
}
