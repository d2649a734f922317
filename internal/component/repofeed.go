package component

import (
	"context"
	"log/slog"

	"github.com/rowanarora/personal-website/internal/github"
)

// RepoLister fetches repositories, newest update first.
type RepoLister interface {
	ListRepos(ctx context.Context) ([]github.Repo, error)
}

// RepoFeed is the "Latest from GitHub" list. It starts loading and is
// replaced wholesale by Load, with either the filtered result or a single
// placeholder.
type RepoFeed struct {
	lister  RepoLister
	filter  github.Filter
	log     *slog.Logger
	loading bool
	repos   []github.Summary
}

// NewRepoFeed returns a feed in the loading state.
func NewRepoFeed(lister RepoLister, filter github.Filter, log *slog.Logger) *RepoFeed {
	if log == nil {
		log = slog.Default()
	}
	return &RepoFeed{lister: lister, filter: filter, log: log, loading: true}
}

// Load fetches once. Every failure kind ends the same way: the error is
// logged and the list becomes the placeholder.
func (f *RepoFeed) Load(ctx context.Context) {
	defer func() { f.loading = false }()

	repos, err := f.lister.ListRepos(ctx)
	if err != nil {
		f.log.Warn("error fetching GitHub repos", "err", err)
		f.repos = []github.Summary{github.Placeholder()}
		return
	}
	f.repos = github.Summarize(repos, f.filter)
}

// Loading reports whether Load has not finished yet.
func (f *RepoFeed) Loading() bool { return f.loading }

// Repos returns the current list.
func (f *RepoFeed) Repos() []github.Summary { return f.repos }
