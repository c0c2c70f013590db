package gateway

import (
	"context"

	"github.com/google/go-github/v62/github"
	"golang.org/x/sync/errgroup"

	"github.com/yearwrap/yearwrap/internal/domain"
)

// maxConcurrentFetches bounds the number of simultaneous in-flight
// repository commit requests, independent of GitHub's own rate limits.
const maxConcurrentFetches = 5

// FetchRepositoryCommits fetches every commit authored by the user within
// the options' date window, for each of the given repositories.
//
// At most maxConcurrentFetches requests are in flight at a time. Each
// worker collects into its own slice; results are merged only after all
// workers have finished, so no slice is appended to concurrently. A
// failing repository (deleted, permission change mid-run) is reported as
// a skip, never as a run failure.
func (c *Client) FetchRepositoryCommits(ctx context.Context, user string, repos []string, opts domain.Options) ([]domain.Commit, []RepoSkip) {
	results := make([][]domain.Commit, len(repos))
	failures := make([]*RepoSkip, len(repos))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, repo := range repos {
		i, repo := i, repo
		g.Go(func() error {
			commits, err := c.listRepositoryCommits(ctx, user, repo, opts)
			if err != nil {
				c.logger.WithField("repo", repo).WithError(err).Warn("skipping repository commits")
				failures[i] = &RepoSkip{Repo: repo, Reason: err.Error()}
				return nil
			}
			results[i] = commits
			return nil
		})
	}
	// Workers never return errors, so Wait only joins them.
	_ = g.Wait()

	var commits []domain.Commit
	var skips []RepoSkip
	for i := range repos {
		commits = append(commits, results[i]...)
		if failures[i] != nil {
			skips = append(skips, *failures[i])
		}
	}
	return commits, skips
}

// listRepositoryCommits pages through one repository's commit listing,
// stopping on a short page or the configured page ceiling. The ceiling
// guards against endless pagination on unexpected server behavior.
func (c *Client) listRepositoryCommits(ctx context.Context, user, fullName string, opts domain.Options) ([]domain.Commit, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return nil, err
	}

	listOpts := &github.CommitsListOptions{
		Author:      user,
		Since:       opts.From,
		Until:       opts.To,
		ListOptions: github.ListOptions{PerPage: opts.PageSize},
	}

	var commits []domain.Commit
	for page := 1; page <= opts.MaxPages; page++ {
		listOpts.Page = page
		repoCommits, _, err := c.restClient.Repositories.ListCommits(ctx, owner, name, listOpts)
		if err != nil {
			return nil, err
		}
		for _, rc := range repoCommits {
			commits = append(commits, domain.Commit{
				SHA:      rc.GetSHA(),
				Date:     rc.GetCommit().GetAuthor().GetDate().Time,
				Message:  rc.GetCommit().GetMessage(),
				RepoName: fullName,
			})
		}
		if len(repoCommits) < opts.PageSize {
			break
		}
	}
	return commits, nil
}
