// Package github implements the ReleasePublisher port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/relforge/relforge/internal/domain/model"
	"github.com/relforge/relforge/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ReleasePublisher = (*Client)(nil)

// Client implements the driven.ReleasePublisher port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{gh: client}
}

// NewClientWithBaseURL creates a Client against a non-default API base URL
// (GitHub Enterprise, or an httptest server in tests).
func NewClientWithBaseURL(httpClient *http.Client, baseURL, token string) (*Client, error) {
	client := gh.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u
	client.UploadURL = u

	return &Client{gh: client}, nil
}

// CreateRelease creates a release for an already-pushed tag and returns the
// release ID for asset uploads.
func (c *Client) CreateRelease(ctx context.Context, repoFullName string, req driven.ReleaseRequest) (int64, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrConfiguration, err)
	}

	release, resp, err := c.gh.Repositories.CreateRelease(ctx, owner, repo, &gh.RepositoryRelease{
		TagName:    gh.Ptr(req.TagName),
		Name:       gh.Ptr(req.Name),
		Body:       gh.Ptr(req.Notes),
		Prerelease: gh.Ptr(req.Prerelease),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: creating release %s on %s: %v", model.ErrPublish, req.TagName, repoFullName, err)
	}
	logRateLimit(resp, "create release")

	return release.GetID(), nil
}

// UploadAsset attaches one artifact file to a release.
func (c *Client) UploadAsset(ctx context.Context, repoFullName string, releaseID int64, artifact model.Artifact) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrConfiguration, err)
	}

	f, err := os.Open(artifact.Path)
	if err != nil {
		return fmt.Errorf("%w: opening artifact %q: %v", model.ErrPublish, artifact.Path, err)
	}
	defer f.Close()

	_, resp, err := c.gh.Repositories.UploadReleaseAsset(ctx, owner, repo, releaseID, &gh.UploadOptions{
		Name: artifact.Name,
	}, f)
	if err != nil {
		return fmt.Errorf("%w: uploading asset %q to %s: %v", model.ErrPublish, artifact.Name, repoFullName, err)
	}
	logRateLimit(resp, "upload asset")

	return nil
}

// ValidateToken verifies that the given GitHub personal access token is valid
// and returns the authenticated username on success. It creates a one-shot
// client with the provided token to avoid mutating the receiver's state.
func (c *Client) ValidateToken(ctx context.Context, token string) (string, error) {
	httpClient := &http.Client{Timeout: 10 * time.Second}
	tempClient := gh.NewClient(httpClient).WithAuthToken(token)
	tempClient.BaseURL = c.gh.BaseURL
	user, _, err := tempClient.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("%w: token validation failed: %v", model.ErrConfiguration, err)
	}
	return user.GetLogin(), nil
}

// logRateLimit emits debug telemetry and a warning when the remaining
// quota is close to exhausted.
func logRateLimit(resp *gh.Response, endpoint string) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// splitRepo splits "owner/repo" into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
