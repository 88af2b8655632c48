// Package upload implements the ArtifactRepo port against a package
// repository endpoint speaking multipart file upload with basic auth.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/relforge/relforge/internal/domain/model"
	"github.com/relforge/relforge/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ArtifactRepo = (*Repo)(nil)

// Repo uploads artifacts to a single repository endpoint. One POST per
// file; a non-2xx response is a publish error and is never retried here,
// since the repository may have accepted the file before failing the
// response.
type Repo struct {
	endpoint   string
	httpClient *http.Client
}

// NewRepo creates an uploader for the given endpoint URL.
func NewRepo(endpoint string) *Repo {
	return &Repo{
		endpoint: endpoint,
		// Timeout is a safety net alongside context cancellation; artifact
		// uploads can be large, so it is generous.
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Upload POSTs one artifact as a multipart form with the credential pair
// as basic auth.
func (r *Repo) Upload(ctx context.Context, artifact model.Artifact, creds model.Credentials) error {
	if !creds.HasRepositoryCredentials() {
		return fmt.Errorf("%w: repository upload requires username and password", model.ErrConfiguration)
	}

	f, err := os.Open(artifact.Path)
	if err != nil {
		return fmt.Errorf("%w: opening artifact %q: %v", model.ErrPublish, artifact.Path, err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("content", artifact.Name)
	if err != nil {
		return fmt.Errorf("%w: building upload form: %v", model.ErrPublish, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("%w: reading artifact %q: %v", model.ErrPublish, artifact.Path, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("%w: finalizing upload form: %v", model.ErrPublish, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, &body)
	if err != nil {
		return fmt.Errorf("%w: building upload request: %v", model.ErrPublish, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.SetBasicAuth(creds.RepositoryUsername, creds.RepositoryPassword)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: uploading %q: %v", model.ErrPublish, artifact.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Read a short error snippet; repository servers put the reason in the body.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: uploading %q: repository returned %d: %s",
			model.ErrPublish, artifact.Name, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	slog.Info("artifact uploaded", "name", artifact.Name, "status", resp.StatusCode)
	return nil
}
