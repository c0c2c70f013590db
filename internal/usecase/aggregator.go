// Package usecase contains the business logic of the application.
package usecase

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/yearwrap/yearwrap/internal/domain"
)

// CommitsByMonth buckets commit dates into the 12 calendar months of the
// given year. Months without commits are present with value 0, so
// consumers always see a complete 12-month axis.
func CommitsByMonth(commits []domain.Commit, year int) map[string]int {
	byMonth := make(map[string]int, 12)
	for month := time.January; month <= time.December; month++ {
		byMonth[month.String()[:3]] = 0
	}
	for _, c := range commits {
		if c.Date.Year() != year {
			continue
		}
		byMonth[c.Date.Month().String()[:3]]++
	}
	return byMonth
}

// LanguageBreakdown sums per-language byte sizes across the enriched
// repositories and keeps the top max languages by size.
func LanguageBreakdown(repos []domain.Repository, max int) map[string]int64 {
	totals := make(map[string]int64)
	for _, repo := range repos {
		for language, bytes := range repo.Languages {
			totals[language] += bytes
		}
	}

	type languageSize struct {
		name string
		size int64
	}
	sorted := make([]languageSize, 0, len(totals))
	for name, size := range totals {
		sorted = append(sorted, languageSize{name, size})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].size != sorted[j].size {
			return sorted[i].size > sorted[j].size
		}
		return sorted[i].name < sorted[j].name
	})
	if len(sorted) > max {
		sorted = sorted[:max]
	}

	top := make(map[string]int64, len(sorted))
	for _, entry := range sorted {
		top[entry.name] = entry.size
	}
	return top
}

// TopRepositories groups commits by repository and returns the max most
// committed-to repositories. A repository absent from the fetched list
// (metadata no longer accessible) is synthesized from the commit-derived
// name alone, with zero stars and forks.
func TopRepositories(commits []domain.Commit, repos []domain.Repository, max int) []domain.RepoStats {
	counts := make(map[string]int)
	for _, c := range commits {
		counts[c.RepoName]++
	}

	byName := make(map[string]domain.Repository, len(repos))
	for _, repo := range repos {
		byName[repo.FullName] = repo
	}

	top := make([]domain.RepoStats, 0, len(counts))
	for name, count := range counts {
		entry := domain.RepoStats{
			Name:    name,
			URL:     "https://github.com/" + name,
			Commits: count,
		}
		if repo, ok := byName[name]; ok {
			entry.URL = repo.URL
			entry.Language = repo.Language
			entry.Stars = repo.Stars
			entry.Forks = repo.Forks
		}
		top = append(top, entry)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Commits != top[j].Commits {
			return top[i].Commits > top[j].Commits
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > max {
		top = top[:max]
	}
	return top
}

// PullRequestCounts returns how many pull requests were created and how
// many of those were merged. A pull request counts as merged exactly when
// it carries a merge timestamp, so merged can never exceed created.
func PullRequestCounts(prs []domain.PullRequest) (created, merged int) {
	created = len(prs)
	for _, pr := range prs {
		if pr.MergedAt != nil {
			merged++
		}
	}
	return created, merged
}

// StarsAndForksReceived sums stargazer and fork counts across all fetched
// repositories.
func StarsAndForksReceived(repos []domain.Repository) (starsReceived, forksReceived int) {
	for _, repo := range repos {
		starsReceived += repo.Stars
		forksReceived += repo.Forks
	}
	return starsReceived, forksReceived
}

// ContributionVelocity is the mean number of contributions per active day.
func ContributionVelocity(days []domain.ContributionDay) float64 {
	if len(days) == 0 {
		return 0
	}
	counts := make([]float64, len(days))
	for i, day := range days {
		counts[i] = float64(day.Count)
	}
	mean, err := stats.Mean(counts)
	if err != nil {
		return 0
	}
	return mean
}
