// Package gateway provides access to the GitHub API, abstracting away
// the underlying REST and GraphQL clients behind a single Fetcher interface.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/yearwrap/yearwrap/internal/domain"
)

// requestTimeout bounds every individual HTTP call. A request that times
// out is that call's failure, never a fatal error for the whole run.
const requestTimeout = 30 * time.Second

// RepoSkip records a repository whose commit fetch was skipped, so that
// per-item failures stay observable without becoming control flow.
type RepoSkip struct {
	Repo   string
	Reason string
}

// RepoContribution is one entry of the GraphQL per-repository commit breakdown.
type RepoContribution struct {
	FullName string
	IsFork   bool
	Commits  int
}

// PullRequestContribution pairs a pull request with the fork flag of its
// repository, so the caller can apply the include-forks option.
type PullRequestContribution struct {
	PullRequest domain.PullRequest
	IsFork      bool
}

// Contributions is the combined result of the GraphQL contributions query.
// A zero value means the GraphQL path yielded nothing and the caller
// should fall back to REST search.
type Contributions struct {
	TotalCommits      int
	TotalPullRequests int
	CommitsByRepo     []RepoContribution
	PullRequests      []PullRequestContribution
	Calendar          []domain.ContributionDay
}

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	FetchUser(ctx context.Context) (string, error)
	FetchRepositories(ctx context.Context, opts domain.Options) ([]domain.Repository, error)
	FetchContributions(ctx context.Context, user string, opts domain.Options) Contributions
	FetchRepositoryCommits(ctx context.Context, user string, repos []string, opts domain.Options) ([]domain.Commit, []RepoSkip)
	FetchLanguages(ctx context.Context, fullName string) (map[string]int64, error)
	SearchCommits(ctx context.Context, user string, opts domain.Options) ([]domain.Commit, error)
	SearchPullRequests(ctx context.Context, user string, opts domain.Options) ([]domain.PullRequest, error)
	CountStarred(ctx context.Context, user string) (int, error)
}

var _ Fetcher = (*Client)(nil)

// Client is the concrete implementation of the Fetcher interface.
type Client struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        logrus.FieldLogger
}

// NewClient creates a Client authenticated with the given bearer token.
// The shared transport chains the oauth2 token source over a secondary
// rate limit waiter, and the HTTP client carries a per-request timeout.
func NewClient(token string, logger logrus.FieldLogger) (*Client, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
		Timeout: requestTimeout,
	}
	return &Client{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// splitFullName splits "owner/name" into its two parts.
func splitFullName(fullName string) (string, string, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("malformed repository full name %q", fullName)
	}
	return owner, name, nil
}
