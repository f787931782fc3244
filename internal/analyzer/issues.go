package analyzer

import (
	"context"
	"time"

	apperrors "github.com/rohankatakam/depscan/internal/errors"
)

// CalculateIssueResponseTime averages whole days from open to close over the
// most recent closed issues opened within the last windowDays days.
//
// Issues closed on the day they were opened (0 whole days) are left out of both
// the sum and the count, which biases the average upward. ok is false when no
// issue qualifies; that is "no data", not an average of zero.
func (a *Analyzer) CalculateIssueResponseTime(ctx context.Context, windowDays int) (avgDays float64, ok bool, err error) {
	issues, err := a.source.Issues(ctx, IssueStateClosed, a.opts.IssueLimit)
	if err != nil {
		return 0, false, apperrors.DataSourceError(err, "fetch closed issues")
	}

	avgDays, ok = averageResponseDays(issues, a.opts.Now(), windowDays)
	a.logger.Debug("issue response time computed", "sampled", len(issues), "has_data", ok)
	return avgDays, ok, nil
}

func averageResponseDays(issues []IssueRecord, now time.Time, windowDays int) (float64, bool) {
	cutoff := now.Add(-days(windowDays))

	total, count := 0, 0
	for _, issue := range issues {
		if issue.CreatedAt.Before(cutoff) {
			continue
		}
		if issue.ClosedAt == nil {
			continue
		}

		daysToClose := wholeDays(issue.ClosedAt.Sub(issue.CreatedAt))
		if daysToClose > 0 {
			total += daysToClose
			count++
		}
	}

	if count == 0 {
		return 0, false
	}
	return float64(total) / float64(count), true
}

// wholeDays floors a duration to full days
func wholeDays(d time.Duration) int {
	day := 24 * time.Hour
	n := int(d / day)
	if d < 0 && d%day != 0 {
		n--
	}
	return n
}
