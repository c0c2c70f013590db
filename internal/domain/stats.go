// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Repository holds the metadata of a single repository as fetched from GitHub.
// Instances are immutable once fetched within a run, except for Languages,
// which is populated lazily for repositories pushed to within the stats window.
type Repository struct {
	Name      string           `json:"name"`
	FullName  string           `json:"full_name"`
	URL       string           `json:"url"`
	Language  string           `json:"language"`
	Stars     int              `json:"stars"`
	Forks     int              `json:"forks"`
	IsFork    bool             `json:"is_fork"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	PushedAt  time.Time        `json:"pushed_at"`
	Languages map[string]int64 `json:"languages,omitempty"`
}

// Commit is a single commit authored by the user. Identity is the SHA:
// two Commit values with the same SHA are the same commit regardless of
// which repository association produced them.
type Commit struct {
	SHA      string    `json:"sha"`
	Date     time.Time `json:"date"`
	Message  string    `json:"message"`
	RepoName string    `json:"repo_name"`
}

// PullRequestState is the lifecycle state of a pull request.
type PullRequestState string

const (
	PullRequestOpen   PullRequestState = "open"
	PullRequestClosed PullRequestState = "closed"
	PullRequestMerged PullRequestState = "merged"
)

// PullRequest is a single pull request authored by the user.
// State == PullRequestMerged implies MergedAt != nil.
type PullRequest struct {
	Number    int              `json:"number"`
	Title     string           `json:"title"`
	State     PullRequestState `json:"state"`
	CreatedAt time.Time        `json:"created_at"`
	MergedAt  *time.Time       `json:"merged_at,omitempty"`
	URL       string           `json:"url"`
	RepoName  string           `json:"repo_name"`
}

// ContributionDay is a calendar date with a positive contribution count.
// It only exists to feed the streak calculation and is not part of Stats.
type ContributionDay struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// RepoStats is the per-repository slice of the final statistics.
type RepoStats struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Commits  int    `json:"commits"`
	Language string `json:"language"`
	Stars    int    `json:"stars"`
	Forks    int    `json:"forks"`
}

// Stats is the aggregate result of a run. It is the only value exposed
// to consumers of this engine and is immutable once produced.
type Stats struct {
	Username              string           `json:"username"`
	Year                  int              `json:"year"`
	TotalCommits          int              `json:"total_commits"`
	CommitsByMonth        map[string]int   `json:"commits_by_month"`
	Languages             map[string]int64 `json:"languages"`
	TopRepos              []RepoStats      `json:"top_repos"`
	PullRequestsCreated   int              `json:"pull_requests_created"`
	PullRequestsMerged    int              `json:"pull_requests_merged"`
	LongestStreak         int              `json:"longest_streak"`
	CurrentStreak         int              `json:"current_streak"`
	TotalContributionDays int              `json:"total_contribution_days"`
	StarsReceived         int              `json:"stars_received"`
	StarsGiven            int              `json:"stars_given"`
	ForksReceived         int              `json:"forks_received"`
	ContributionVelocity  float64          `json:"contribution_velocity"`
}
