package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/halvard/kb/internal/config"
	"github.com/halvard/kb/internal/gh"
	"github.com/halvard/kb/internal/git"
	"github.com/halvard/kb/internal/identifier"
	"github.com/halvard/kb/internal/models"
	"github.com/halvard/kb/internal/store"
	"github.com/halvard/kb/internal/watch"
)

// parseRepoArg normalizes a repository argument into (owner, name, key).
func parseRepoArg(arg string) (owner, name, key string, err error) {
	owner, name, err = identifier.Parse(arg)
	if err != nil {
		return "", "", "", err
	}
	return owner, name, identifier.Key(owner, name), nil
}

func repoStore() *store.RepoStore {
	return store.NewRepoStore(config.GetRoot())
}

func docStore() *store.DocStore {
	return store.NewDocStore(config.GetRoot())
}

func watchStore() *watch.Store {
	return watch.NewStore(config.GetRoot())
}

// apiContext returns a context bounded by the remote fetch timeout.
func apiContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), config.GetAPITimeout())
}

func gitContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), config.GetGitTimeout())
}

// logContext covers the slower history walks (log -p over many files).
func logContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), config.GetLogTimeout())
}

func cloneContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), config.GetCloneTimeout())
}

// fetchObservedState reads the current (release, commit) pair for a
// repository. A repository without releases is observed with a nil release,
// not an error.
func fetchObservedState(client *gh.Client, owner, name string) (models.ObservedState, error) {
	ctx, cancel := apiContext()
	defer cancel()

	var state models.ObservedState

	release, err := client.LatestRelease(ctx, owner, name)
	if err != nil && !errors.Is(err, gh.ErrNotFound) {
		return state, err
	}
	if release != nil {
		tag := release.TagName
		state.Release = &tag
	}

	commits, err := client.ListCommits(ctx, owner, name, 5)
	if err != nil && !errors.Is(err, gh.ErrNotFound) {
		return state, err
	}
	if len(commits) > 0 && len(commits[0].SHA) >= 7 {
		short := commits[0].SHA[:7]
		state.Commit = &short
	}

	return state, nil
}

// requireCloned fetches the record for key and errors when there is no
// local working copy to operate on.
func requireCloned(key string) (models.RepositoryRecord, error) {
	rec, err := repoStore().Get(key)
	if err != nil {
		return rec, err
	}
	if !rec.Cloned() {
		return rec, fmt.Errorf("repository %q: %w", key, git.ErrNotCloned)
	}
	return rec, nil
}
