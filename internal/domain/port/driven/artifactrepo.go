package driven

import (
	"context"

	"github.com/relforge/relforge/internal/domain/model"
)

// ArtifactRepo defines the driven port for uploading built artifacts to an
// external package repository endpoint. Implementations authenticate with
// the repository credential pair and wrap failures in model.ErrPublish.
// Uploads are never retried by the port's callers; a duplicate upload of a
// released artifact is unsafe.
type ArtifactRepo interface {
	Upload(ctx context.Context, artifact model.Artifact, creds model.Credentials) error
}

// ArtifactBuilder defines the driven port for producing release artifacts.
// Build runs the configured build command and returns the artifacts that
// match the dist glob. A configured-but-failing build wraps model.ErrBuild.
type ArtifactBuilder interface {
	Build(ctx context.Context, version model.Version) ([]model.Artifact, error)
}
