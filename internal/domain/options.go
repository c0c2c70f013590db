package domain

import "time"

// Default limits applied when the caller does not override them.
const (
	DefaultPageSize        = 100
	DefaultMaxPages        = 10
	DefaultMaxRepositories = 25
	DefaultMaxLanguages    = 8
	DefaultMaxTopRepos     = 5
)

// Options configures a single aggregation run. The window [From, To] is
// inclusive. Options is treated as immutable once handed to the orchestrator.
type Options struct {
	Username string
	From     time.Time
	To       time.Time

	PageSize        int
	MaxPages        int
	MaxRepositories int
	MaxLanguages    int
	MaxTopRepos     int
	IncludeForks    bool
}

// OptionsForYear returns Options covering a full calendar year with default limits.
func OptionsForYear(username string, year int) Options {
	return Options{
		Username:        username,
		From:            time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:              time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC),
		PageSize:        DefaultPageSize,
		MaxPages:        DefaultMaxPages,
		MaxRepositories: DefaultMaxRepositories,
		MaxLanguages:    DefaultMaxLanguages,
		MaxTopRepos:     DefaultMaxTopRepos,
	}
}

// Normalize fills zero-valued limits with their defaults so callers can
// construct Options from partial flag input.
func (o Options) Normalize() Options {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.MaxPages <= 0 {
		o.MaxPages = DefaultMaxPages
	}
	if o.MaxRepositories <= 0 {
		o.MaxRepositories = DefaultMaxRepositories
	}
	if o.MaxLanguages <= 0 {
		o.MaxLanguages = DefaultMaxLanguages
	}
	if o.MaxTopRepos <= 0 {
		o.MaxTopRepos = DefaultMaxTopRepos
	}
	return o
}
