// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"

	"github.com/relforge/relforge/internal/domain/model"
)

// TaggedVersion pairs a release tag with the version parsed from its name.
type TaggedVersion struct {
	TagName string
	Hash    string // Commit the tag (peeled, for annotated tags) points at.
	Version model.Version
}

// HistorySource defines the driven port for reading version-control history.
// Implementations return model.ErrHistoryAccess-wrapped errors when the
// repository cannot be read.
type HistorySource interface {
	// ReleaseTags returns every tag whose name parses under the configured
	// tag format, sorted by descending semver precedence.
	ReleaseTags(ctx context.Context) ([]TaggedVersion, error)

	// CommitsSince returns commits reachable from HEAD, newest first,
	// stopping before the commit the given tag points at. An empty tagHash
	// returns the full history.
	CommitsSince(ctx context.Context, tagHash string) ([]model.Commit, error)
}
