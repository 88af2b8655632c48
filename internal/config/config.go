// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/relforge/relforge/internal/domain/model"
)

// Config holds the run configuration loaded from environment variables.
// CI environments pass the action inputs through these variables; nothing
// below the composition root reads the environment directly.
type Config struct {
	// Directory is the working directory for the run; monorepo setups point
	// it at a sub-project.
	Directory string

	GitHubToken      string
	GitHubAPIURL     string // Empty means api.github.com.
	GitHubRepository string // "owner/repo"; required for the hosted release.

	RepositoryURL      string // Package repository upload endpoint; empty disables upload.
	RepositoryUsername string
	RepositoryPassword string

	CommitterName  string
	CommitterEmail string

	SSHPrivateKeyPath string

	Parser          string // Commit grammar name.
	TagFormat       string // Tag template with a literal "{version}".
	PrereleaseToken string

	// VersionPatterns declare files carrying the version, as
	// "path:regex" with one capture group around the version substring.
	VersionPatterns []string
	ChangelogFile   string // Maintained changelog file, relative to Directory.

	BuildCommand string // Shell command producing artifacts; empty skips the build.
	DistGlob     string // Glob resolving built artifacts, relative to Directory.

	Remote     string // Git remote pushed to.
	LedgerPath string // SQLite release ledger path.
	Project    string // Ledger project key.
	RunTimeout time.Duration
}

// Credentials bundles the secret parts of the config for a single run.
func (c *Config) Credentials() model.Credentials {
	return model.Credentials{
		GitHubToken:        c.GitHubToken,
		RepositoryUsername: c.RepositoryUsername,
		RepositoryPassword: c.RepositoryPassword,
		CommitterName:      c.CommitterName,
		CommitterEmail:     c.CommitterEmail,
		SSHPrivateKeyPath:  c.SSHPrivateKeyPath,
	}
}

// Load reads configuration from environment variables and returns a
// validated Config. The GitHub token falls back to the conventional
// GITHUB_TOKEN, and the repository slug to GITHUB_REPOSITORY, so the tool
// picks both up unmodified inside GitHub Actions. Optional variables with
// defaults: RELFORGE_PARSER (angular), RELFORGE_TAG_FORMAT (v{version}),
// RELFORGE_PRERELEASE_TOKEN (rc), RELFORGE_CHANGELOG_FILE (CHANGELOG.md),
// RELFORGE_DIST_GLOB (dist/*),
// RELFORGE_REMOTE (origin), RELFORGE_LEDGER_PATH (.relforge/ledger.db),
// RELFORGE_RUN_TIMEOUT (30m).
func Load() (*Config, error) {
	cfg := &Config{
		Directory:          getenvDefault("RELFORGE_DIRECTORY", "."),
		GitHubToken:        firstEnv("RELFORGE_GITHUB_TOKEN", "GITHUB_TOKEN"),
		GitHubAPIURL:       os.Getenv("RELFORGE_GITHUB_API_URL"),
		GitHubRepository:   firstEnv("RELFORGE_GITHUB_REPOSITORY", "GITHUB_REPOSITORY"),
		RepositoryURL:      os.Getenv("RELFORGE_REPOSITORY_URL"),
		RepositoryUsername: os.Getenv("RELFORGE_REPOSITORY_USERNAME"),
		RepositoryPassword: os.Getenv("RELFORGE_REPOSITORY_PASSWORD"),
		CommitterName:      getenvDefault("RELFORGE_GIT_COMMITTER_NAME", "relforge"),
		CommitterEmail:     getenvDefault("RELFORGE_GIT_COMMITTER_EMAIL", "relforge@localhost"),
		SSHPrivateKeyPath:  os.Getenv("RELFORGE_SSH_PRIVATE_SIGNING_KEY"),
		Parser:             getenvDefault("RELFORGE_PARSER", "angular"),
		TagFormat:          getenvDefault("RELFORGE_TAG_FORMAT", "v{version}"),
		PrereleaseToken:    getenvDefault("RELFORGE_PRERELEASE_TOKEN", "rc"),
		VersionPatterns:    splitList(os.Getenv("RELFORGE_VERSION_PATTERNS")),
		ChangelogFile:      getenvDefault("RELFORGE_CHANGELOG_FILE", "CHANGELOG.md"),
		BuildCommand:       os.Getenv("RELFORGE_BUILD_COMMAND"),
		DistGlob:           getenvDefault("RELFORGE_DIST_GLOB", "dist/*"),
		Remote:             getenvDefault("RELFORGE_REMOTE", "origin"),
		LedgerPath:         getenvDefault("RELFORGE_LEDGER_PATH", filepath.Join(".relforge", "ledger.db")),
		Project:            os.Getenv("RELFORGE_PROJECT"),
		RunTimeout:         30 * time.Minute,
	}

	// CI pipelines commonly pass unset inputs through as empty strings,
	// so empty means "use the default" rather than a parse error.
	if v := os.Getenv("RELFORGE_RUN_TIMEOUT"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%w: RELFORGE_RUN_TIMEOUT has invalid duration %q: %v", model.ErrConfiguration, v, err)
		}
		cfg.RunTimeout = parsed
	}

	if !strings.Contains(cfg.TagFormat, "{version}") {
		return nil, fmt.Errorf("%w: RELFORGE_TAG_FORMAT %q must contain {version}", model.ErrConfiguration, cfg.TagFormat)
	}
	if cfg.GitHubRepository != "" && strings.Count(cfg.GitHubRepository, "/") != 1 {
		return nil, fmt.Errorf("%w: repository %q must be owner/repo", model.ErrConfiguration, cfg.GitHubRepository)
	}

	if cfg.Project == "" {
		cfg.Project = cfg.GitHubRepository
	}
	if cfg.Project == "" {
		abs, err := filepath.Abs(cfg.Directory)
		if err != nil {
			return nil, fmt.Errorf("%w: resolve directory %q: %v", model.ErrConfiguration, cfg.Directory, err)
		}
		cfg.Project = filepath.Base(abs)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// splitList splits a comma-separated variable into trimmed entries.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
