package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/relforge/relforge/internal/domain/model"
	"github.com/relforge/relforge/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ReleaseStore = (*ReleaseRepo)(nil)

// ReleaseRepo is the SQLite implementation of the ReleaseStore port. The
// partial unique index on running rows makes BeginRun the project mutex.
type ReleaseRepo struct {
	db *DB
}

// NewReleaseRepo creates a new ReleaseRepo.
func NewReleaseRepo(db *DB) *ReleaseRepo {
	return &ReleaseRepo{db: db}
}

// BeginRun inserts the running-state row for the project. A second
// concurrent run hits the partial unique index and gets ErrRunInProgress.
func (r *ReleaseRepo) BeginRun(ctx context.Context, project string) (int64, error) {
	const query = `INSERT INTO release_runs (project, state) VALUES (?, 'running')`
	res, err := r.db.Writer.ExecContext(ctx, query, project)
	if err != nil {
		// modernc.org/sqlite surfaces the violated index in the message.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, fmt.Errorf("%w: project %q", model.ErrRunInProgress, project)
		}
		return 0, fmt.Errorf("begin run for %q: %w", project, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("begin run for %q: %w", project, err)
	}
	return id, nil
}

// FinishRun records the outcome and releases the running-state lock.
func (r *ReleaseRepo) FinishRun(ctx context.Context, runID int64, outcome model.ReleaseRun) error {
	const query = `
		UPDATE release_runs
		SET state = ?, version = ?, tag_name = ?, notes_digest = ?, finished_at = CURRENT_TIMESTAMP
		WHERE id = ? AND state = 'running'`
	res, err := r.db.Writer.ExecContext(ctx, query,
		string(outcome.State), outcome.Version, outcome.TagName, outcome.NotesDigest, runID)
	if err != nil {
		return fmt.Errorf("finish run %d: %w", runID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run %d: %w", runID, err)
	}
	if affected == 0 {
		return fmt.Errorf("finish run %d: no running row", runID)
	}
	return nil
}

// IsPublished reports whether the version is already recorded as published
// for the project.
func (r *ReleaseRepo) IsPublished(ctx context.Context, project, version string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM release_runs
			WHERE project = ? AND version = ? AND state = 'published'
		)`
	var exists bool
	if err := r.db.Reader.QueryRowContext(ctx, query, project, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("check published %s %s: %w", project, version, err)
	}
	return exists, nil
}

// History returns the ledger rows for a project, newest first.
func (r *ReleaseRepo) History(ctx context.Context, project string) ([]model.ReleaseRun, error) {
	const query = `
		SELECT id, project, version, tag_name, notes_digest, state, started_at, finished_at
		FROM release_runs
		WHERE project = ?
		ORDER BY id DESC`
	rows, err := r.db.Reader.QueryContext(ctx, query, project)
	if err != nil {
		return nil, fmt.Errorf("list runs for %q: %w", project, err)
	}
	defer rows.Close()

	var runs []model.ReleaseRun
	for rows.Next() {
		var run model.ReleaseRun
		var state string
		var started time.Time
		var finished sql.NullTime
		if err := rows.Scan(&run.ID, &run.Project, &run.Version, &run.TagName,
			&run.NotesDigest, &state, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		run.State = model.RunState(state)
		run.StartedAt = started
		if finished.Valid {
			run.FinishedAt = finished.Time
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}
