package analyzer

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	apperrors "github.com/rohankatakam/depscan/internal/errors"
)

// Grading thresholds
const (
	highConcentrationMax   = 1    // bus factor at or below this is high risk
	mediumConcentrationMax = 2    // bus factor at or below this is medium risk
	sharpDeclineRate       = -0.5 // change rate below this is high risk
	moderateDeclineRate    = -0.2 // change rate below this is medium risk
	slowResponseDays       = 30.0 // average days-to-close above this is medium risk

	maxCoreContributorsShown = 5
)

// GenerateRiskReport computes every metric and grades them into findings.
// Findings are ordered bus factor, activity, issue response. A metric without
// data (no contributor stats, no qualifying issues) raises no finding.
func (a *Analyzer) GenerateRiskReport(ctx context.Context) (*RiskReport, error) {
	meta, err := a.source.Metadata(ctx)
	if err != nil {
		return nil, apperrors.DataSourceError(err, "fetch repository metadata")
	}

	report := &RiskReport{
		RunID:       uuid.NewString(),
		GeneratedAt: a.opts.Now().UTC(),
		BasicInfo: ReportInfo{
			Name:       meta.FullName,
			LastPushed: meta.PushedAt.Format("2006-01-02"),
			OpenIssues: meta.OpenIssues,
		},
		Risks: []RiskFinding{},
	}
	logger := a.logger.With("run_id", report.RunID, "repo", meta.FullName)

	// 1. Bus factor
	busFactor, core, err := a.CalculateBusFactor(ctx, a.opts.BusFactorThreshold)
	if err != nil {
		return nil, err
	}
	report.Metrics.BusFactor = busFactor
	report.Metrics.CoreContributors = truncate(core, maxCoreContributorsShown)
	if busFactor > 0 {
		if finding, ok := gradeBusFactor(busFactor); ok {
			report.Risks = append(report.Risks, finding)
		}
	} else {
		logger.Info("no contributor data, skipping concentration rule")
	}

	// 2. Activity trend
	recent, previous, rate, err := a.CalculateActivityTrend(ctx, a.opts.TrendMonths)
	if err != nil {
		return nil, err
	}
	report.Metrics.RecentCommits = recent
	report.Metrics.PreviousCommits = previous
	report.Metrics.ActivityChange = rate
	if finding, ok := gradeActivity(rate); ok {
		report.Risks = append(report.Risks, finding)
	}

	// 3. Issue response time
	avg, ok, err := a.CalculateIssueResponseTime(ctx, a.opts.IssueWindowDays)
	if err != nil {
		return nil, err
	}
	if ok {
		rounded := math.Round(avg*10) / 10
		report.Metrics.AvgIssueResponseDays = &rounded
		if finding, ok := gradeResponse(avg); ok {
			report.Risks = append(report.Risks, finding)
		}
	} else {
		logger.Info("no qualifying closed issues, skipping response rule")
	}

	logger.Info("risk report generated",
		"bus_factor", busFactor,
		"recent_commits", recent,
		"previous_commits", previous,
		"findings", len(report.Risks))

	return report, nil
}

func gradeBusFactor(busFactor int) (RiskFinding, bool) {
	switch {
	case busFactor <= highConcentrationMax:
		return RiskFinding{
			Level:       LevelHigh,
			Category:    CategoryMaintenanceConcentration,
			Description: fmt.Sprintf("Project depends heavily on one person (bus factor=%d)", busFactor),
			Suggestion:  "Check whether an active contributor community exists",
		}, true
	case busFactor <= mediumConcentrationMax:
		return RiskFinding{
			Level:       LevelMedium,
			Category:    CategoryMaintenanceConcentration,
			Description: fmt.Sprintf("Project relies mainly on %d core contributors", busFactor),
			Suggestion:  "Encourage broader code review and contribution",
		}, true
	}
	return RiskFinding{}, false
}

func gradeActivity(rate float64) (RiskFinding, bool) {
	switch {
	case rate < sharpDeclineRate:
		return RiskFinding{
			Level:       LevelHigh,
			Category:    CategoryActivityDecline,
			Description: fmt.Sprintf("Recent development activity dropped sharply (%s)", FormatPercent(rate)),
			Suggestion:  "The project may be losing maintenance momentum, evaluate carefully",
		}, true
	case rate < moderateDeclineRate:
		return RiskFinding{
			Level:       LevelMedium,
			Category:    CategoryActivityDecline,
			Description: fmt.Sprintf("Development activity has declined (%s)", FormatPercent(rate)),
			Suggestion:  "Keep an eye on upcoming releases and commits",
		}, true
	}
	return RiskFinding{}, false
}

func gradeResponse(avgDays float64) (RiskFinding, bool) {
	if avgDays <= slowResponseDays {
		return RiskFinding{}, false
	}
	return RiskFinding{
		Level:       LevelMedium,
		Category:    CategorySlowResponse,
		Description: fmt.Sprintf("Issues take a long time to close on average (%.1f days)", avgDays),
		Suggestion:  "Community response may be slow and problem resolution cycles long",
	}, true
}

func truncate(items []string, n int) []string {
	if items == nil {
		return []string{}
	}
	if len(items) <= n {
		return items
	}
	return items[:n]
}
