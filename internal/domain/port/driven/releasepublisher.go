package driven

import (
	"context"

	"github.com/relforge/relforge/internal/domain/model"
)

// ReleaseRequest is the input to ReleasePublisher.CreateRelease.
type ReleaseRequest struct {
	TagName    string
	Name       string // Release title; normally the version string.
	Notes      string // Markdown body.
	Prerelease bool
}

// ReleasePublisher defines the driven port for creating a release on the
// version-control host and attaching built artifacts to it.
type ReleasePublisher interface {
	// CreateRelease creates the hosted release for an already-pushed tag
	// and returns its identifier for asset uploads.
	CreateRelease(ctx context.Context, repoFullName string, req ReleaseRequest) (releaseID int64, err error)

	// UploadAsset attaches one artifact to a release.
	UploadAsset(ctx context.Context, repoFullName string, releaseID int64, artifact model.Artifact) error

	// ValidateToken verifies the configured token and returns the
	// authenticated username on success.
	ValidateToken(ctx context.Context, token string) (username string, err error)
}
