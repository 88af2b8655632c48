package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	buildadapter "github.com/relforge/relforge/internal/adapter/driven/build"
	gitadapter "github.com/relforge/relforge/internal/adapter/driven/git"
	githubadapter "github.com/relforge/relforge/internal/adapter/driven/github"
	sqliteadapter "github.com/relforge/relforge/internal/adapter/driven/sqlite"
	stampadapter "github.com/relforge/relforge/internal/adapter/driven/stamp"
	uploadadapter "github.com/relforge/relforge/internal/adapter/driven/upload"
	"github.com/relforge/relforge/internal/application"
	"github.com/relforge/relforge/internal/changelog"
	"github.com/relforge/relforge/internal/config"
	"github.com/relforge/relforge/internal/domain/port/driven"
	"github.com/relforge/relforge/internal/parser"
)

// app is the composition root: configuration plus the wired services.
type app struct {
	cfg      *config.Config
	versions *application.VersionService
	release  *application.ReleaseService

	closeFns []func() error
}

// newApp wires adapters into services. withLedger controls whether the
// sqlite ledger is opened; read-only commands (changelog, version --print)
// skip it so they never contend for the run lock.
func newApp(withLedger bool) (*app, error) {
	// 1. Load configuration (fail fast on invalid env).
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	slog.Info("config loaded",
		"directory", cfg.Directory,
		"repository", cfg.GitHubRepository,
		"parser", cfg.Parser,
		"project", cfg.Project,
	)

	// 2. Select the commit grammar.
	commitParser, err := parser.ForName(cfg.Parser)
	if err != nil {
		return nil, err
	}

	// 3. Open the git repository.
	repo, err := gitadapter.Open(cfg.Directory, cfg.TagFormat, cfg.Remote, cfg.CommitterName, cfg.CommitterEmail)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		versions: application.NewVersionService(repo, commitParser),
	}
	if !withLedger {
		return a, nil
	}

	// 4. Open the release ledger and run migrations.
	ledgerPath := cfg.LedgerPath
	if !filepath.IsAbs(ledgerPath) {
		ledgerPath = filepath.Join(cfg.Directory, ledgerPath)
	}
	db, err := sqliteadapter.NewDB(ledgerPath)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	a.closeFns = append(a.closeFns, db.Close)
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		a.Close()
		return nil, fmt.Errorf("migrating ledger: %w", err)
	}

	// 5. Optional publish targets.
	var publisher driven.ReleasePublisher
	if cfg.GitHubToken != "" && cfg.GitHubRepository != "" {
		if cfg.GitHubAPIURL != "" {
			ghClient, err := githubadapter.NewClientWithBaseURL(nil, cfg.GitHubAPIURL, cfg.GitHubToken)
			if err != nil {
				a.Close()
				return nil, err
			}
			publisher = ghClient
		} else {
			publisher = githubadapter.NewClient(cfg.GitHubToken)
		}
	} else {
		slog.Info("no github token or repository configured, hosted release disabled")
	}

	var artifactRepo driven.ArtifactRepo
	if cfg.RepositoryURL != "" {
		artifactRepo = uploadadapter.NewRepo(cfg.RepositoryURL)
	}

	// 6. Version declarations stamped into the release commit.
	var stamper driven.VersionStamper
	if len(cfg.VersionPatterns) > 0 {
		s, err := stampadapter.New(cfg.Directory, cfg.VersionPatterns)
		if err != nil {
			a.Close()
			return nil, err
		}
		stamper = s
	}

	// 7. Wire the orchestrator.
	a.release = application.NewReleaseService(application.ReleaseDeps{
		Versions:     a.versions,
		Notes:        changelog.NewBuilder(),
		Tags:         repo,
		Publisher:    publisher,
		ArtifactRepo: artifactRepo,
		Builder:      buildadapter.NewBuilder(cfg.Directory, cfg.BuildCommand, cfg.DistGlob),
		Stamper:      stamper,
		Store:        sqliteadapter.NewReleaseRepo(db),

		Dir:           cfg.Directory,
		ChangelogFile: cfg.ChangelogFile,
		Project:       cfg.Project,
		Repo:          cfg.GitHubRepository,
		TagFormat:     cfg.TagFormat,
		Creds:         cfg.Credentials(),
	})
	return a, nil
}

// Close releases everything newApp opened.
func (a *app) Close() {
	for _, fn := range a.closeFns {
		if err := fn(); err != nil {
			slog.Error("error during shutdown", "error", err)
		}
	}
}
