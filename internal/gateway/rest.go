package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v62/github"

	"github.com/yearwrap/yearwrap/internal/domain"
)

const searchDateLayout = "2006-01-02"

// FetchUser resolves the login of the authenticated user. Failure here is
// fatal for a run: every other call is scoped by this identity.
func (c *Client) FetchUser(ctx context.Context) (string, error) {
	user, _, err := c.restClient.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to resolve authenticated user: %w", err)
	}
	if user.GetLogin() == "" {
		return "", fmt.Errorf("user lookup returned no login")
	}
	return user.GetLogin(), nil
}

// FetchRepositories lists repositories 100 per page, stopping on a short
// page or the configured page ceiling. When the options name a user, that
// user's repositories are listed; otherwise the token owner's are, so the
// listing always describes the same identity as the rest of the run.
func (c *Client) FetchRepositories(ctx context.Context, opts domain.Options) ([]domain.Repository, error) {
	var repositories []domain.Repository
	for page := 1; page <= opts.MaxPages; page++ {
		repos, err := c.listRepositoriesPage(ctx, opts, page)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories (page %d): %w", page, err)
		}
		for _, repo := range repos {
			repositories = append(repositories, domain.Repository{
				Name:      repo.GetName(),
				FullName:  repo.GetFullName(),
				URL:       repo.GetHTMLURL(),
				Language:  repo.GetLanguage(),
				Stars:     repo.GetStargazersCount(),
				Forks:     repo.GetForksCount(),
				IsFork:    repo.GetFork(),
				CreatedAt: repo.GetCreatedAt().Time,
				UpdatedAt: repo.GetUpdatedAt().Time,
				PushedAt:  repo.GetPushedAt().Time,
			})
		}
		if len(repos) < opts.PageSize {
			break
		}
	}
	c.logger.WithField("count", len(repositories)).Debug("fetched repositories")
	return repositories, nil
}

func (c *Client) listRepositoriesPage(ctx context.Context, opts domain.Options, page int) ([]*github.Repository, error) {
	listOpts := github.ListOptions{PerPage: opts.PageSize, Page: page}
	if opts.Username != "" {
		repos, _, err := c.restClient.Repositories.ListByUser(ctx, opts.Username, &github.RepositoryListByUserOptions{
			Sort:        "pushed",
			ListOptions: listOpts,
		})
		return repos, err
	}
	repos, _, err := c.restClient.Repositories.ListByAuthenticatedUser(ctx, &github.RepositoryListByAuthenticatedUserOptions{
		Sort:        "pushed",
		ListOptions: listOpts,
	})
	return repos, err
}

// FetchLanguages returns the per-language byte sizes of one repository.
func (c *Client) FetchLanguages(ctx context.Context, fullName string) (map[string]int64, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return nil, err
	}
	languages, _, err := c.restClient.Repositories.ListLanguages(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages for %s: %w", fullName, err)
	}
	sizes := make(map[string]int64, len(languages))
	for language, bytes := range languages {
		sizes[language] = int64(bytes)
	}
	return sizes, nil
}

// SearchCommits is the REST fallback for the GraphQL commit path. The
// search API caps results at 1000 (10 pages of 100); beyond that the
// fallback undercounts, which is the documented upstream behavior.
func (c *Client) SearchCommits(ctx context.Context, user string, opts domain.Options) ([]domain.Commit, error) {
	query := fmt.Sprintf("author:%s committer-date:%s..%s",
		user, opts.From.Format(searchDateLayout), opts.To.Format(searchDateLayout))
	searchOpts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: opts.PageSize}}

	var commits []domain.Commit
	for page := 1; page <= opts.MaxPages; page++ {
		searchOpts.Page = page
		result, resp, err := c.restClient.Search.Commits(ctx, query, searchOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to search commits: %w", err)
		}
		for _, item := range result.Commits {
			commits = append(commits, domain.Commit{
				SHA:      item.GetSHA(),
				Date:     item.GetCommit().GetAuthor().GetDate().Time,
				Message:  item.GetCommit().GetMessage(),
				RepoName: item.GetRepository().GetFullName(),
			})
		}
		if len(result.Commits) < opts.PageSize || resp.NextPage == 0 {
			break
		}
	}
	c.logger.WithField("count", len(commits)).Debug("commit search fallback completed")
	return commits, nil
}

// SearchPullRequests is the REST fallback for the GraphQL pull request path.
func (c *Client) SearchPullRequests(ctx context.Context, user string, opts domain.Options) ([]domain.PullRequest, error) {
	query := fmt.Sprintf("author:%s type:pr created:%s..%s",
		user, opts.From.Format(searchDateLayout), opts.To.Format(searchDateLayout))
	searchOpts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: opts.PageSize}}

	var prs []domain.PullRequest
	for page := 1; page <= opts.MaxPages; page++ {
		searchOpts.Page = page
		result, resp, err := c.restClient.Search.Issues(ctx, query, searchOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to search pull requests: %w", err)
		}
		for _, issue := range result.Issues {
			pr := domain.PullRequest{
				Number:    issue.GetNumber(),
				Title:     issue.GetTitle(),
				State:     domain.PullRequestState(issue.GetState()),
				CreatedAt: issue.GetCreatedAt().Time,
				URL:       issue.GetHTMLURL(),
				RepoName:  repoNameFromURL(issue.GetRepositoryURL()),
			}
			if mergedAt := issue.GetPullRequestLinks().GetMergedAt(); !mergedAt.IsZero() {
				merged := mergedAt.Time
				pr.MergedAt = &merged
				pr.State = domain.PullRequestMerged
			}
			prs = append(prs, pr)
		}
		if len(result.Issues) < opts.PageSize || resp.NextPage == 0 {
			break
		}
	}
	c.logger.WithField("count", len(prs)).Debug("pull request search fallback completed")
	return prs, nil
}

// CountStarred counts the repositories the user has starred. The Link
// header's last page doubles as a total count when fetching one item per
// page, which avoids walking the whole list.
func (c *Client) CountStarred(ctx context.Context, user string) (int, error) {
	listOpts := &github.ActivityListStarredOptions{ListOptions: github.ListOptions{PerPage: 1}}
	starred, resp, err := c.restClient.Activity.ListStarred(ctx, user, listOpts)
	if err != nil {
		return 0, fmt.Errorf("failed to list starred repositories: %w", err)
	}
	if resp.LastPage > 0 {
		return resp.LastPage, nil
	}
	return len(starred), nil
}

// repoNameFromURL extracts "owner/name" from an API repository URL such as
// "https://api.github.com/repos/owner/name".
func repoNameFromURL(url string) string {
	const marker = "/repos/"
	if idx := strings.Index(url, marker); idx >= 0 {
		return url[idx+len(marker):]
	}
	return ""
}
