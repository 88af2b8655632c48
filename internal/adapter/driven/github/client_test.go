package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relforge/relforge/internal/domain/model"
	"github.com/relforge/relforge/internal/domain/port/driven"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClientWithBaseURL(srv.Client(), srv.URL, "test-token")
	require.NoError(t, err)
	return client
}

func TestCreateRelease(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/acme/pkg/releases", r.URL.Path)
		assert.Contains(t, r.Header.Get("Authorization"), "test-token")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 4242}`))
	}))

	id, err := client.CreateRelease(context.Background(), "acme/pkg", driven.ReleaseRequest{
		TagName:    "v1.3.0",
		Name:       "v1.3.0",
		Notes:      "## 1.3.0\n\n### Features",
		Prerelease: false,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(4242), id)
	assert.Equal(t, "v1.3.0", gotBody["tag_name"])
	assert.Equal(t, "## 1.3.0\n\n### Features", gotBody["body"])
	assert.Equal(t, false, gotBody["prerelease"])
}

func TestCreateRelease_ServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Validation Failed"}`, http.StatusUnprocessableEntity)
	}))

	_, err := client.CreateRelease(context.Background(), "acme/pkg", driven.ReleaseRequest{TagName: "v1.3.0"})
	assert.ErrorIs(t, err, model.ErrPublish)
}

func TestCreateRelease_InvalidRepoName(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an invalid repo name")
	}))

	_, err := client.CreateRelease(context.Background(), "not-a-full-name", driven.ReleaseRequest{})
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestUploadAsset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pkg-1.3.0.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("tarball bytes"), 0o644))

	var gotContent []byte
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/acme/pkg/releases/4242/assets", r.URL.Path)
		assert.Equal(t, "pkg-1.3.0.tar.gz", r.URL.Query().Get("name"))

		var err error
		gotContent, err = io.ReadAll(r.Body)
		require.NoError(t, err)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))

	err := client.UploadAsset(context.Background(), "acme/pkg", 4242, model.Artifact{
		Name: "pkg-1.3.0.tar.gz",
		Path: path,
	})
	require.NoError(t, err)
	assert.Equal(t, "tarball bytes", string(gotContent))
}

func TestUploadAsset_MissingFile(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected when the artifact file is missing")
	}))

	err := client.UploadAsset(context.Background(), "acme/pkg", 4242, model.Artifact{
		Name: "gone.tar.gz",
		Path: filepath.Join(t.TempDir(), "gone.tar.gz"),
	})
	assert.ErrorIs(t, err, model.ErrPublish)
}

func TestValidateToken(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer good-token" {
			http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"login": "release-bot"}`))
	}))

	login, err := client.ValidateToken(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "release-bot", login)

	_, err = client.ValidateToken(context.Background(), "bad-token")
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestSplitRepo(t *testing.T) {
	owner, repo, err := splitRepo("acme/pkg")
	require.NoError(t, err)
	assert.Equal(t, "acme", owner)
	assert.Equal(t, "pkg", repo)

	for _, bad := range []string{"", "acme", "/pkg", "acme/"} {
		_, _, err := splitRepo(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
