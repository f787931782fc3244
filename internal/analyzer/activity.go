package analyzer

import (
	"context"
	"time"
)

// daysPerMonth approximates a month for lookback windows
const daysPerMonth = 30

// CalculateActivityTrend compares commit volume in the most recent half of a
// months-long window against the half before it.
//
// Commits are expected newest first: the walk stops at the first commit older
// than the window, so out-of-order data is undercounted rather than re-sorted.
// A commit exactly on the recent cutoff counts as previous.
func (a *Analyzer) CalculateActivityTrend(ctx context.Context, months int) (recent, previous int, changeRate float64, err error) {
	commits, err := a.Commits(ctx, a.opts.CommitLimit)
	if err != nil {
		return 0, 0, 0, err
	}

	recent, previous = countActivity(commits, a.opts.Now(), months)
	return recent, previous, trendRate(recent, previous), nil
}

func countActivity(commits []CommitRecord, now time.Time, months int) (recent, previous int) {
	if len(commits) == 0 {
		return 0, 0
	}

	cutoffRecent := now.Add(-days((daysPerMonth * months) / 2))
	cutoffPrevious := now.Add(-days(daysPerMonth * months))

	for _, c := range commits {
		switch {
		case c.AuthoredAt.After(cutoffRecent):
			recent++
		case c.AuthoredAt.After(cutoffPrevious):
			previous++
		default:
			return recent, previous
		}
	}

	return recent, previous
}

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

func trendRate(recent, previous int) float64 {
	if previous > 0 {
		return float64(recent-previous) / float64(previous)
	}
	if recent > 0 {
		return 1.0
	}
	return 0.0
}
