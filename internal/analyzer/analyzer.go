package analyzer

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	apperrors "github.com/rohankatakam/depscan/internal/errors"
)

// Options tunes the bounded windows the analyzer works on
type Options struct {
	CommitLimit        int     // commits fetched once and shared by all metrics
	IssueLimit         int     // closed issues sampled for response time
	BusFactorThreshold float64 // share of total commits the core group must reach
	TrendMonths        int     // activity lookback, split in two halves
	IssueWindowDays    int     // only issues opened within this window count

	// Now is the reference time for windowed metrics (defaults to time.Now)
	Now func() time.Time
}

// DefaultOptions returns the analysis windows used by the CLI
func DefaultOptions() Options {
	return Options{
		CommitLimit:        100,
		IssueLimit:         50,
		BusFactorThreshold: 0.5,
		TrendMonths:        6,
		IssueWindowDays:    90,
	}
}

// Analyzer computes abandonment-risk metrics for one repository.
// Fetched commits and contributors are memoized for the analyzer's lifetime,
// so an Analyzer must not be shared across repositories or goroutines.
type Analyzer struct {
	source DataSource
	opts   Options
	logger *slog.Logger

	commits        []CommitRecord
	commitsFetched bool

	contributors        []ContributorStat
	contributorsFetched bool
}

// New creates an analyzer over a resolved data source
func New(source DataSource, opts Options) *Analyzer {
	defaults := DefaultOptions()
	if opts.CommitLimit <= 0 {
		opts.CommitLimit = defaults.CommitLimit
	}
	if opts.IssueLimit <= 0 {
		opts.IssueLimit = defaults.IssueLimit
	}
	if opts.TrendMonths <= 0 {
		opts.TrendMonths = defaults.TrendMonths
	}
	if opts.IssueWindowDays <= 0 {
		opts.IssueWindowDays = defaults.IssueWindowDays
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Analyzer{
		source: source,
		opts:   opts,
		logger: slog.Default().With("component", "risk_analyzer"),
	}
}

// Options returns the effective options after defaults were applied
func (a *Analyzer) Options() Options {
	return a.opts
}

// Commits returns up to limit recent commits, newest first.
// The first successful call fixes the result: later calls return the cached
// slice regardless of the limit they pass.
func (a *Analyzer) Commits(ctx context.Context, limit int) ([]CommitRecord, error) {
	if a.commitsFetched {
		return a.commits, nil
	}

	commits, err := a.fetchCommits(ctx, limit)
	if err != nil {
		return nil, err
	}
	a.commits = commits
	a.commitsFetched = true
	return a.commits, nil
}

func (a *Analyzer) fetchCommits(ctx context.Context, limit int) ([]CommitRecord, error) {
	commits, err := a.source.Commits(ctx, limit)
	if err != nil {
		return nil, apperrors.DataSourceError(err, "fetch commits")
	}
	a.logger.Debug("commits fetched", "count", len(commits), "limit", limit)
	return commits, nil
}


// Contributors returns identified contributors sorted by commit count, highest first.
// Stats the platform has not computed yet yield an empty slice, which callers
// must read as "insufficient data".
func (a *Analyzer) Contributors(ctx context.Context) ([]ContributorStat, error) {
	if a.contributorsFetched {
		return a.contributors, nil
	}

	contributors, err := a.fetchContributors(ctx)
	if err != nil {
		return nil, err
	}
	a.contributors = contributors
	a.contributorsFetched = true
	return a.contributors, nil
}

func (a *Analyzer) fetchContributors(ctx context.Context) ([]ContributorStat, error) {
	stats, err := a.source.ContributorStats(ctx)
	if errors.Is(err, ErrStatsPending) {
		a.logger.Warn("contributor statistics not ready, treating as no data")
		stats, err = nil, nil
	}
	if err != nil {
		return nil, apperrors.DataSourceError(err, "fetch contributor stats")
	}

	contributors := make([]ContributorStat, 0, len(stats))
	for _, s := range stats {
		if s.Login == "" {
			continue
		}
		contributors = append(contributors, s)
	}
	sort.SliceStable(contributors, func(i, j int) bool {
		return contributors[i].TotalCommits > contributors[j].TotalCommits
	})

	a.logger.Debug("contributors fetched", "count", len(contributors), "dropped", len(stats)-len(contributors))
	return contributors, nil
}
