// Package git implements the HistorySource and TagWriter ports using the
// go-git library.
package git

import (
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"github.com/relforge/relforge/internal/domain/model"
)

// Repo wraps an opened git repository together with the release tag format
// and the identity used for generated tags.
type Repo struct {
	repo      *gogit.Repository
	tagFormat string
	remote    string
	tagger    struct{ name, email string }
}

// Open opens the repository containing dir, searching parent directories
// the way the git CLI does.
func Open(dir, tagFormat, remote, committerName, committerEmail string) (*Repo, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: opening repository at %q: %v", model.ErrHistoryAccess, dir, err)
	}
	return NewWithRepository(repo, tagFormat, remote, committerName, committerEmail), nil
}

// NewWithRepository wraps an already-opened repository. Intended for tests,
// which build in-memory repositories.
func NewWithRepository(repo *gogit.Repository, tagFormat, remote, committerName, committerEmail string) *Repo {
	r := &Repo{
		repo:      repo,
		tagFormat: tagFormat,
		remote:    remote,
	}
	r.tagger.name = committerName
	r.tagger.email = committerEmail
	return r
}

// versionFromTagName parses a tag name through the tag format template.
// Plain semver names ("1.2.3") are accepted alongside the formatted ones so
// pre-existing tags keep working after a format change.
func (r *Repo) versionFromTagName(name string) (model.Version, bool) {
	prefix, suffix, _ := strings.Cut(r.tagFormat, "{version}")
	if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, suffix) {
		core := strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix)
		if v, err := model.ParseVersion(core); err == nil {
			return v, true
		}
	}
	if v, err := model.ParseVersion(name); err == nil {
		return v, true
	}
	return model.Version{}, false
}
