package upload

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relforge/relforge/internal/domain/model"
)

func writeArtifact(t *testing.T, name, content string) model.Artifact {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return model.Artifact{Name: name, Path: path}
}

var testCreds = model.Credentials{
	RepositoryUsername: "uploader",
	RepositoryPassword: "sekret",
}

func TestUpload(t *testing.T) {
	var (
		gotFilename string
		gotContent  []byte
		gotUser     string
		gotPass     string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()

		file, header, err := r.FormFile("content")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename
		gotContent, err = io.ReadAll(file)
		require.NoError(t, err)

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	repo := NewRepo(srv.URL)
	artifact := writeArtifact(t, "pkg-1.3.0.tar.gz", "tarball bytes")

	err := repo.Upload(context.Background(), artifact, testCreds)
	require.NoError(t, err)

	assert.Equal(t, "pkg-1.3.0.tar.gz", gotFilename)
	assert.Equal(t, "tarball bytes", string(gotContent))
	assert.Equal(t, "uploader", gotUser)
	assert.Equal(t, "sekret", gotPass)
}

func TestUpload_RejectedByRepository(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "400 File already exists", http.StatusBadRequest)
	}))
	defer srv.Close()

	repo := NewRepo(srv.URL)
	err := repo.Upload(context.Background(), writeArtifact(t, "dup.tar.gz", "x"), testCreds)

	require.ErrorIs(t, err, model.ErrPublish)
	assert.Contains(t, err.Error(), "File already exists")
	assert.NotContains(t, err.Error(), "sekret", "credentials must never leak into errors")
}

func TestUpload_MissingCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without credentials")
	}))
	defer srv.Close()

	repo := NewRepo(srv.URL)
	err := repo.Upload(context.Background(), writeArtifact(t, "a.tar.gz", "x"), model.Credentials{})
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestUpload_MissingArtifactFile(t *testing.T) {
	repo := NewRepo("http://localhost:0")
	err := repo.Upload(context.Background(), model.Artifact{
		Name: "gone.tar.gz",
		Path: filepath.Join(t.TempDir(), "gone.tar.gz"),
	}, testCreds)
	assert.ErrorIs(t, err, model.ErrPublish)
}

func TestUpload_UnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Deliberately closed before use.

	repo := NewRepo(srv.URL)
	err := repo.Upload(context.Background(), writeArtifact(t, "a.tar.gz", "x"), testCreds)
	assert.ErrorIs(t, err, model.ErrPublish)
}
