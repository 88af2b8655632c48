package model

import "time"

// RunState is the ledger state of a release run.
type RunState string

const (
	RunStateRunning   RunState = "running"
	RunStatePublished RunState = "published"
	RunStateFailed    RunState = "failed"
	RunStateSkipped   RunState = "skipped"
)

// ReleaseRun is one row of the release ledger. A row in RunStateRunning is
// the per-project lock that serializes overlapping orchestrator runs; a row
// in RunStatePublished is the idempotency record that prevents a duplicate
// release of the same version. Notes themselves are not stored, only a
// digest for auditing.
type ReleaseRun struct {
	ID          int64
	Project     string
	Version     string
	TagName     string
	NotesDigest string
	State       RunState
	StartedAt   time.Time
	FinishedAt  time.Time // Zero while the run is still in RunStateRunning.
}
