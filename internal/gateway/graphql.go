package gateway

import (
	"context"
	"time"

	"github.com/shurcooL/githubv4"

	"github.com/yearwrap/yearwrap/internal/domain"
)

// contributionsQuery fetches, in a single round trip, the commit totals
// broken down per repository, the PR total, and the daily contribution
// calendar for the date window.
type contributionsQuery struct {
	User struct {
		ContributionsCollection struct {
			TotalCommitContributions        int
			TotalPullRequestContributions   int
			CommitContributionsByRepository []struct {
				Repository struct {
					NameWithOwner string
					IsFork        bool
				}
				Contributions struct {
					TotalCount int
				}
			} `graphql:"commitContributionsByRepository(maxRepositories: 100)"`
			ContributionCalendar struct {
				TotalContributions int
				Weeks              []struct {
					ContributionDays []struct {
						Date              string
						ContributionCount int
					}
				}
			}
		} `graphql:"contributionsCollection(from: $from, to: $to)"`
	} `graphql:"user(login: $login)"`
}

// pullRequestContributionsQuery pages through the individual pull request
// contribution nodes; the count endpoint alone does not carry PR metadata.
type pullRequestContributionsQuery struct {
	User struct {
		ContributionsCollection struct {
			PullRequestContributions struct {
				PageInfo struct {
					HasNextPage bool
					EndCursor   githubv4.String
				}
				Nodes []struct {
					PullRequest struct {
						Number     int
						Title      string
						State      string
						CreatedAt  githubv4.DateTime
						MergedAt   githubv4.DateTime
						URL        string
						Repository struct {
							NameWithOwner string
							IsFork        bool
						}
					}
				}
			} `graphql:"pullRequestContributions(first: 100, after: $cursor)"`
		} `graphql:"contributionsCollection(from: $from, to: $to)"`
	} `graphql:"user(login: $login)"`
}

// FetchContributions queries the GraphQL contributionsCollection for the
// user's commit counts per repository, pull requests, and contribution
// calendar within the options' date window.
//
// Any HTTP error, GraphQL error, or malformed payload yields an empty
// Contributions value rather than an error: an empty result is the signal
// for the caller to fall back to REST search.
func (c *Client) FetchContributions(ctx context.Context, user string, opts domain.Options) Contributions {
	variables := map[string]interface{}{
		"login": githubv4.String(user),
		"from":  githubv4.DateTime{Time: opts.From},
		"to":    githubv4.DateTime{Time: opts.To},
	}

	var q contributionsQuery
	if err := c.graphqlClient.Query(ctx, &q, variables); err != nil {
		c.logger.WithError(err).Warn("GraphQL contributions query failed, REST fallback will be used")
		return Contributions{}
	}

	collection := q.User.ContributionsCollection
	result := Contributions{
		TotalCommits:      collection.TotalCommitContributions,
		TotalPullRequests: collection.TotalPullRequestContributions,
	}
	for _, byRepo := range collection.CommitContributionsByRepository {
		result.CommitsByRepo = append(result.CommitsByRepo, RepoContribution{
			FullName: byRepo.Repository.NameWithOwner,
			IsFork:   byRepo.Repository.IsFork,
			Commits:  byRepo.Contributions.TotalCount,
		})
	}
	for _, week := range collection.ContributionCalendar.Weeks {
		for _, day := range week.ContributionDays {
			if day.ContributionCount == 0 {
				continue
			}
			date, err := time.Parse("2006-01-02", day.Date)
			if err != nil {
				c.logger.WithField("date", day.Date).Warn("skipping malformed calendar day")
				continue
			}
			result.Calendar = append(result.Calendar, domain.ContributionDay{
				Date:  date,
				Count: day.ContributionCount,
			})
		}
	}

	result.PullRequests = c.fetchPullRequestContributions(ctx, user, opts)
	return result
}

func (c *Client) fetchPullRequestContributions(ctx context.Context, user string, opts domain.Options) []PullRequestContribution {
	variables := map[string]interface{}{
		"login":  githubv4.String(user),
		"from":   githubv4.DateTime{Time: opts.From},
		"to":     githubv4.DateTime{Time: opts.To},
		"cursor": (*githubv4.String)(nil),
	}

	var prs []PullRequestContribution
	for page := 0; page < opts.MaxPages; page++ {
		var q pullRequestContributionsQuery
		if err := c.graphqlClient.Query(ctx, &q, variables); err != nil {
			// A partial PR list would suppress the REST fallback, so
			// discard what we have and let the caller fall back.
			c.logger.WithError(err).Warn("GraphQL pull request query failed, REST fallback will be used")
			return nil
		}
		for _, node := range q.User.ContributionsCollection.PullRequestContributions.Nodes {
			pr := node.PullRequest
			converted := domain.PullRequest{
				Number:    pr.Number,
				Title:     pr.Title,
				State:     pullRequestState(pr.State, !pr.MergedAt.IsZero()),
				CreatedAt: pr.CreatedAt.Time,
				URL:       pr.URL,
				RepoName:  pr.Repository.NameWithOwner,
			}
			if !pr.MergedAt.IsZero() {
				mergedAt := pr.MergedAt.Time
				converted.MergedAt = &mergedAt
			}
			prs = append(prs, PullRequestContribution{
				PullRequest: converted,
				IsFork:      pr.Repository.IsFork,
			})
		}
		if !q.User.ContributionsCollection.PullRequestContributions.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.User.ContributionsCollection.PullRequestContributions.PageInfo.EndCursor)
	}
	return prs
}

// pullRequestState maps the GraphQL state enum onto the domain state,
// preferring the merge timestamp as the source of truth for merged.
func pullRequestState(state string, merged bool) domain.PullRequestState {
	if merged || state == "MERGED" {
		return domain.PullRequestMerged
	}
	if state == "CLOSED" {
		return domain.PullRequestClosed
	}
	return domain.PullRequestOpen
}
