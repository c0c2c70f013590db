package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yearwrap/yearwrap/internal/domain"
	"github.com/yearwrap/yearwrap/internal/gateway"
)

// maxConcurrentLanguageFetches bounds the language enrichment fan-out the
// same way the commit fan-out is bounded in the gateway.
const maxConcurrentLanguageFetches = 5

// Orchestrator composes the fetch pipeline into a single Stats value.
// Every run is stateless: nothing is cached or shared across invocations.
type Orchestrator struct {
	fetcher gateway.Fetcher
	logger  logrus.FieldLogger
	now     func() time.Time
}

// NewOrchestrator creates a new Orchestrator instance.
func NewOrchestrator(fetcher gateway.Fetcher, logger logrus.FieldLogger) *Orchestrator {
	return &Orchestrator{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// Run produces the yearly statistics for the options' date window.
//
// Identity resolution and repository listing are fatal on failure. The
// GraphQL contributions path is preferred; an empty GraphQL result routes
// commits and pull requests to the REST search fallback. Per-repository
// failures downstream are skips, never errors: Run returns partial data
// rather than failing a whole run over one inaccessible repository.
func (o *Orchestrator) Run(ctx context.Context, opts domain.Options) (*domain.Stats, error) {
	opts = opts.Normalize()

	user := opts.Username
	if user == "" {
		resolved, err := o.fetcher.FetchUser(ctx)
		if err != nil {
			return nil, fmt.Errorf("identity resolution failed: %w", err)
		}
		user = resolved
	}
	log := o.logger.WithField("user", user)
	log.Debug("starting aggregation")

	repos, err := o.fetcher.FetchRepositories(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("repository listing failed: %w", err)
	}

	var contributions gateway.Contributions
	var starsGiven int
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		contributions = o.fetcher.FetchContributions(egCtx, user, opts)
		return nil
	})
	eg.Go(func() error {
		count, err := o.fetcher.CountStarred(egCtx, user)
		if err != nil {
			log.WithError(err).Warn("skipping starred repository count")
			return nil
		}
		starsGiven = count
		return nil
	})
	_ = eg.Wait()

	commits := o.collectCommits(ctx, user, contributions, opts, log)
	prs := o.collectPullRequests(ctx, user, contributions, opts, log)
	commits = domain.DedupCommits(commits)

	o.enrichLanguages(ctx, repos, opts, log)

	calendar := contributions.Calendar
	if len(calendar) == 0 {
		calendar = daysFromCommits(commits)
	}
	days := make([]time.Time, len(calendar))
	for i, day := range calendar {
		days[i] = day.Date
	}
	streak := domain.CalculateStreak(days, o.now())

	totalCommits := contributions.TotalCommits
	if totalCommits == 0 {
		totalCommits = len(commits)
	}

	created, merged := PullRequestCounts(prs)
	starsReceived, forksReceived := StarsAndForksReceived(repos)

	result := &domain.Stats{
		Username:              user,
		Year:                  opts.From.Year(),
		TotalCommits:          totalCommits,
		CommitsByMonth:        CommitsByMonth(commits, opts.From.Year()),
		Languages:             LanguageBreakdown(repos, opts.MaxLanguages),
		TopRepos:              TopRepositories(commits, repos, opts.MaxTopRepos),
		PullRequestsCreated:   created,
		PullRequestsMerged:    merged,
		LongestStreak:         streak.Longest,
		CurrentStreak:         streak.Current,
		TotalContributionDays: streak.TotalDays,
		StarsReceived:         starsReceived,
		StarsGiven:            starsGiven,
		ForksReceived:         forksReceived,
		ContributionVelocity:  ContributionVelocity(calendar),
	}
	log.WithFields(logrus.Fields{
		"commits": result.TotalCommits,
		"prs":     result.PullRequestsCreated,
	}).Debug("aggregation complete")
	return result, nil
}

// collectCommits resolves individual commits, preferring the per-repository
// fan-out over the repositories named by the GraphQL breakdown. An empty
// GraphQL breakdown triggers the REST search fallback.
func (o *Orchestrator) collectCommits(ctx context.Context, user string, contributions gateway.Contributions, opts domain.Options, log logrus.FieldLogger) []domain.Commit {
	if len(contributions.CommitsByRepo) > 0 {
		var repoNames []string
		for _, repo := range contributions.CommitsByRepo {
			if repo.IsFork && !opts.IncludeForks {
				continue
			}
			repoNames = append(repoNames, repo.FullName)
		}
		commits, skips := o.fetcher.FetchRepositoryCommits(ctx, user, repoNames, opts)
		for _, skip := range skips {
			log.WithFields(logrus.Fields{"repo": skip.Repo, "reason": skip.Reason}).Warn("repository omitted from commit stats")
		}
		return commits
	}

	log.Debug("GraphQL commit breakdown empty, using commit search fallback")
	commits, err := o.fetcher.SearchCommits(ctx, user, opts)
	if err != nil {
		log.WithError(err).Warn("commit search fallback failed, proceeding without commit detail")
		return nil
	}
	return commits
}

// collectPullRequests mirrors collectCommits for the pull request path.
func (o *Orchestrator) collectPullRequests(ctx context.Context, user string, contributions gateway.Contributions, opts domain.Options, log logrus.FieldLogger) []domain.PullRequest {
	if len(contributions.PullRequests) > 0 {
		var prs []domain.PullRequest
		for _, pr := range contributions.PullRequests {
			if pr.IsFork && !opts.IncludeForks {
				continue
			}
			prs = append(prs, pr.PullRequest)
		}
		return prs
	}

	log.Debug("GraphQL pull request list empty, using pull request search fallback")
	prs, err := o.fetcher.SearchPullRequests(ctx, user, opts)
	if err != nil {
		log.WithError(err).Warn("pull request search fallback failed, proceeding without pull requests")
		return nil
	}
	return prs
}

// enrichLanguages populates per-language byte sizes for repositories
// pushed to within the stats window, up to the configured maximum.
// Enrichment failures leave the repository without language data.
func (o *Orchestrator) enrichLanguages(ctx context.Context, repos []domain.Repository, opts domain.Options, log logrus.FieldLogger) {
	var candidates []int
	for i, repo := range repos {
		if repo.PushedAt.Before(opts.From) {
			continue
		}
		if repo.IsFork && !opts.IncludeForks {
			continue
		}
		candidates = append(candidates, i)
		if len(candidates) == opts.MaxRepositories {
			break
		}
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLanguageFetches)
	for _, i := range candidates {
		i := i
		g.Go(func() error {
			languages, err := o.fetcher.FetchLanguages(gCtx, repos[i].FullName)
			if err != nil {
				log.WithField("repo", repos[i].FullName).WithError(err).Warn("skipping language enrichment")
				return nil
			}
			repos[i].Languages = languages
			return nil
		})
	}
	_ = g.Wait()
}

// daysFromCommits derives contribution days from commit dates when the
// GraphQL calendar is unavailable (REST fallback path).
func daysFromCommits(commits []domain.Commit) []domain.ContributionDay {
	counts := make(map[time.Time]int)
	for _, c := range commits {
		day := time.Date(c.Date.Year(), c.Date.Month(), c.Date.Day(), 0, 0, 0, 0, time.UTC)
		counts[day]++
	}
	days := make([]domain.ContributionDay, 0, len(counts))
	for day, count := range counts {
		days = append(days, domain.ContributionDay{Date: day, Count: count})
	}
	return days
}
