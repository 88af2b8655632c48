package driven

import (
	"context"

	"github.com/relforge/relforge/internal/domain/model"
)

// ReleaseStore defines the driven port for the local release ledger. The
// ledger serves two jobs: the running-state row is the mutex that
// serializes concurrent runs for one project, and published rows are the
// idempotency record that stops a version from being released twice.
type ReleaseStore interface {
	// BeginRun inserts a running-state row for the project and returns its
	// ID. If another running-state row exists for the same project it
	// returns an error wrapping model.ErrRunInProgress.
	BeginRun(ctx context.Context, project string) (int64, error)

	// FinishRun moves a run out of the running state, recording the outcome
	// and, for published runs, the version, tag and notes digest.
	FinishRun(ctx context.Context, runID int64, outcome model.ReleaseRun) error

	// IsPublished reports whether the given version is already recorded as
	// published for the project.
	IsPublished(ctx context.Context, project, version string) (bool, error)

	// History returns the ledger rows for a project, newest first.
	History(ctx context.Context, project string) ([]model.ReleaseRun, error)
}
