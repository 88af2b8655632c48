package git

import (
	"context"
	"fmt"
	"sort"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/relforge/relforge/internal/domain/model"
	"github.com/relforge/relforge/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.HistorySource = (*Repo)(nil)

// ReleaseTags returns every tag parseable under the tag format, sorted by
// descending semver precedence, each resolved to the commit it points at.
func (r *Repo) ReleaseTags(ctx context.Context) ([]driven.TaggedVersion, error) {
	refs, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("%w: listing tags: %v", model.ErrHistoryAccess, err)
	}
	defer refs.Close()

	var tags []driven.TaggedVersion
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		version, ok := r.versionFromTagName(ref.Name().Short())
		if !ok {
			return nil
		}
		hash, ok := r.peelTagCommitHash(ref.Hash())
		if !ok {
			return nil
		}
		tags = append(tags, driven.TaggedVersion{
			TagName: ref.Name().Short(),
			Hash:    hash.String(),
			Version: version,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: iterating tags: %v", model.ErrHistoryAccess, err)
	}

	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].Version.Compare(tags[j].Version) > 0
	})
	return tags, nil
}

// CommitsSince walks from HEAD, newest first, stopping before the commit
// with the given hash. An empty hash walks the whole history.
func (r *Repo) CommitsSince(ctx context.Context, tagHash string) ([]model.Commit, error) {
	log, err := r.repo.Log(&gogit.LogOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: reading log: %v", model.ErrHistoryAccess, err)
	}
	defer log.Close()

	// ForEach treats storer.ErrStop as a clean end of iteration.
	var commits []model.Commit
	err = log.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if tagHash != "" && c.Hash.String() == tagHash {
			return storer.ErrStop
		}
		commits = append(commits, model.Commit{
			Hash:        c.Hash.String(),
			Message:     c.Message,
			Author:      c.Author.Name,
			AuthorEmail: c.Author.Email,
			When:        c.Author.When,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: walking commits: %v", model.ErrHistoryAccess, err)
	}
	return commits, nil
}

// peelTagCommitHash resolves a tag ref hash to the commit it ultimately
// points at. Lightweight tags point directly at a commit; annotated tags
// point at a tag object, possibly nested.
func (r *Repo) peelTagCommitHash(hash plumbing.Hash) (plumbing.Hash, bool) {
	if _, err := r.repo.CommitObject(hash); err == nil {
		return hash, true
	}
	cur := hash
	for range 8 {
		tag, err := r.repo.TagObject(cur)
		if err != nil {
			return plumbing.ZeroHash, false
		}
		switch tag.TargetType {
		case plumbing.CommitObject:
			return tag.Target, true
		case plumbing.TagObject:
			cur = tag.Target
		default:
			return plumbing.ZeroHash, false
		}
	}
	return plumbing.ZeroHash, false
}
