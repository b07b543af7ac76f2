// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/pdiddy/project-stats/pkg/types"
)

// GitAdapter reads facts from a local git repository. The identifier is
// a filesystem path (a leading ~/ is expanded).
type GitAdapter struct{}

// Kind returns the source kind.
func (GitAdapter) Kind() types.Kind { return types.KindGit }

// Fetch opens the repository and gathers commit, contributor, tag, and
// worktree facts.
func (GitAdapter) Fetch(ctx context.Context, identifier string) (types.Facts, error) {
	path, err := expandHome(identifier)
	if err != nil {
		return nil, Unavailablef("resolving path %s: %w", identifier, err)
	}

	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, Unavailablef("opening repository %s: %w", path, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, Unavailablef("resolving HEAD in %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	facts := types.Facts{
		types.KeyName: filepath.Base(abs),
	}

	if err := walkCommits(ctx, repo, head.Hash(), facts); err != nil {
		return nil, err
	}

	if count, err := countHeadFiles(repo, head.Hash()); err == nil {
		facts[types.KeyFileCount] = count
	}

	if tag := latestRepoTag(repo); tag != "" {
		facts[types.KeyVersion] = tag
	}

	addWorktreeFacts(repo, head, facts)

	return facts, nil
}

// walkCommits fills commit_count, contributors, created, and updated
// from the history reachable from head.
func walkCommits(ctx context.Context, repo *git.Repository, head plumbing.Hash, facts types.Facts) error {
	iter, err := repo.Log(&git.LogOptions{From: head})
	if err != nil {
		return Unavailablef("reading commit log: %w", err)
	}
	defer iter.Close()

	var (
		count   int
		authors = map[string]struct{}{}
		oldest  time.Time
		newest  time.Time
	)

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		count++
		authors[c.Author.Name] = struct{}{}
		when := c.Author.When
		if oldest.IsZero() || when.Before(oldest) {
			oldest = when
		}
		if when.After(newest) {
			newest = when
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return Unavailablef("walking commits: %w", ctx.Err())
		}
		return Malformedf("walking commits: %w", err)
	}

	facts[types.KeyCommitCount] = count
	facts[types.KeyContributors] = len(authors)
	if !oldest.IsZero() {
		facts[types.KeyCreated] = oldest
	}
	if !newest.IsZero() {
		facts[types.KeyUpdated] = newest
	}
	return nil
}

// countHeadFiles counts the files tracked in the HEAD tree.
func countHeadFiles(repo *git.Repository, head plumbing.Hash) (int, error) {
	commit, err := repo.CommitObject(head)
	if err != nil {
		return 0, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return 0, err
	}

	count := 0
	err = tree.Files().ForEach(func(*object.File) error {
		count++
		return nil
	})
	return count, err
}

// latestRepoTag returns the greatest release tag, or "" when untagged.
func latestRepoTag(repo *git.Repository) string {
	iter, err := repo.Tags()
	if err != nil {
		return ""
	}
	defer iter.Close()

	var tags []string
	iter.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	})
	return latestTag(tags)
}

// addWorktreeFacts records unstaged_changes, uncommitted_changes, and,
// when an origin tracking ref exists for the current branch, up_to_date.
// Bare repositories simply omit these facts.
func addWorktreeFacts(repo *git.Repository, head *plumbing.Reference, facts types.Facts) {
	wt, err := repo.Worktree()
	if err != nil {
		return
	}
	status, err := wt.Status()
	if err != nil {
		return
	}

	unstaged := false
	uncommitted := false
	for _, fs := range status {
		if fs.Worktree != git.Unmodified && fs.Worktree != git.Untracked {
			unstaged = true
		}
		if fs.Staging != git.Unmodified && fs.Staging != git.Untracked {
			uncommitted = true
		}
	}
	facts[types.KeyUnstagedChanges] = unstaged
	facts[types.KeyUncommittedChanges] = uncommitted

	if head.Name().IsBranch() {
		remoteName := plumbing.NewRemoteReferenceName("origin", head.Name().Short())
		if remote, err := repo.Reference(remoteName, true); err == nil {
			facts[types.KeyUpToDate] = remote.Hash() == head.Hash()
		}
	}
}

// expandHome resolves a leading ~/ against the user's home directory.
func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
