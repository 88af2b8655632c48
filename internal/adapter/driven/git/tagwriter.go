package git

import (
	"context"
	"errors"
	"fmt"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"github.com/relforge/relforge/internal/domain/model"
	"github.com/relforge/relforge/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.TagWriter = (*Repo)(nil)

// CommitPaths stages the given worktree-relative paths and commits them as
// the release commit, authored by the configured identity.
func (r *Repo) CommitPaths(ctx context.Context, paths []string, message string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("%w: opening worktree: %v", model.ErrPublish, err)
	}
	for _, p := range paths {
		if _, err := wt.Add(p); err != nil {
			return fmt.Errorf("%w: staging %q: %v", model.ErrPublish, p, err)
		}
	}
	sig := &object.Signature{
		Name:  r.tagger.name,
		Email: r.tagger.email,
		When:  time.Now(),
	}
	if _, err := wt.Commit(message, &gogit.CommitOptions{Author: sig, Committer: sig}); err != nil {
		return fmt.Errorf("%w: committing release files: %v", model.ErrPublish, err)
	}
	return nil
}

// CreateTag creates an annotated tag at HEAD with the configured identity.
// An already-existing tag is a publish error: it means another run tagged
// this version first.
func (r *Repo) CreateTag(ctx context.Context, req driven.TagRequest) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("%w: resolving HEAD: %v", model.ErrPublish, err)
	}

	_, err = r.repo.CreateTag(req.Name, head.Hash(), &gogit.CreateTagOptions{
		Tagger: &object.Signature{
			Name:  r.tagger.name,
			Email: r.tagger.email,
			When:  time.Now(),
		},
		Message: req.Message,
	})
	if err != nil {
		return fmt.Errorf("%w: creating tag %q: %v", model.ErrPublish, req.Name, err)
	}
	return nil
}

// PushBranch pushes the current branch to the configured remote so the
// release commit is on the remote before (or with) its tag.
func (r *Repo) PushBranch(ctx context.Context, creds model.Credentials) error {
	auth, err := pushAuth(creds)
	if err != nil {
		return err
	}

	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("%w: resolving HEAD: %v", model.ErrPublish, err)
	}
	refSpec := gitconfig.RefSpec(fmt.Sprintf("%s:%s", head.Name(), head.Name()))
	err = r.repo.PushContext(ctx, &gogit.PushOptions{
		RemoteName: r.remote,
		RefSpecs:   []gitconfig.RefSpec{refSpec},
		Auth:       auth,
	})
	if errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: pushing %s to %q: %v", model.ErrPublish, head.Name().Short(), r.remote, err)
	}
	return nil
}

// PushTag pushes a single tag refspec to the configured remote. A push
// failure surfaces unretried: the remote may have accepted the ref even
// when the connection broke, and a blind retry could race another release.
func (r *Repo) PushTag(ctx context.Context, name string, creds model.Credentials) error {
	auth, err := pushAuth(creds)
	if err != nil {
		return err
	}

	refSpec := gitconfig.RefSpec(fmt.Sprintf("refs/tags/%s:refs/tags/%s", name, name))
	err = r.repo.PushContext(ctx, &gogit.PushOptions{
		RemoteName: r.remote,
		RefSpecs:   []gitconfig.RefSpec{refSpec},
		Auth:       auth,
	})
	if errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: pushing tag %q to %q: %v", model.ErrPublish, name, r.remote, err)
	}
	return nil
}

// pushAuth selects the transport credential: the SSH key when configured,
// otherwise the token over HTTPS basic auth. Remotes that need no
// credential (local fixtures) get nil.
func pushAuth(creds model.Credentials) (transport.AuthMethod, error) {
	if creds.HasSSHKey() {
		keys, err := gitssh.NewPublicKeysFromFile("git", creds.SSHPrivateKeyPath, "")
		if err != nil {
			return nil, fmt.Errorf("%w: loading ssh key %q: %v", model.ErrConfiguration, creds.SSHPrivateKeyPath, err)
		}
		return keys, nil
	}
	if creds.HasGitHubToken() {
		return &githttp.BasicAuth{Username: "relforge", Password: creds.GitHubToken}, nil
	}
	return nil, nil
}
