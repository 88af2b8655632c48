package driven

import (
	"context"

	"github.com/relforge/relforge/internal/domain/model"
)

// VersionStamper defines the driven port for writing the new version into
// declared project files (manifests, version constants) ahead of the
// release commit.
type VersionStamper interface {
	// Stamp rewrites each declared file with the new version and returns
	// the worktree-relative paths whose content changed. A declaration
	// that matches nothing wraps model.ErrConfiguration.
	Stamp(ctx context.Context, version model.Version) ([]string, error)
}
