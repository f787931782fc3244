package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/rohankatakam/depscan/internal/errors"
)

var refNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	meta         *RepositoryMetadata
	commits      []CommitRecord
	contributors []ContributorStat
	issues       []IssueRecord

	metaErr         error
	commitsErr      error
	contributorsErr error
	issuesErr       error

	commitCalls  int
	commitLimits []int
	statsCalls   int
	issueState   string
	issueLimit   int
}

func (f *fakeSource) Metadata(ctx context.Context) (*RepositoryMetadata, error) {
	if f.metaErr != nil {
		return nil, f.metaErr
	}
	if f.meta == nil {
		return &RepositoryMetadata{FullName: "octo/widget", PushedAt: refNow.Add(-48 * time.Hour), OpenIssues: 7}, nil
	}
	return f.meta, nil
}

func (f *fakeSource) Commits(ctx context.Context, limit int) ([]CommitRecord, error) {
	f.commitCalls++
	f.commitLimits = append(f.commitLimits, limit)
	if f.commitsErr != nil {
		return nil, f.commitsErr
	}
	if len(f.commits) > limit {
		return f.commits[:limit], nil
	}
	return f.commits, nil
}

func (f *fakeSource) ContributorStats(ctx context.Context) ([]ContributorStat, error) {
	f.statsCalls++
	if f.contributorsErr != nil {
		return nil, f.contributorsErr
	}
	return f.contributors, nil
}

func (f *fakeSource) Issues(ctx context.Context, state string, limit int) ([]IssueRecord, error) {
	f.issueState = state
	f.issueLimit = limit
	if f.issuesErr != nil {
		return nil, f.issuesErr
	}
	return f.issues, nil
}

func newTestAnalyzer(src DataSource) *Analyzer {
	opts := DefaultOptions()
	opts.Now = func() time.Time { return refNow }
	return New(src, opts)
}

// commitsAt builds newest-first commits at the given ages in days
func commitsAt(ages ...int) []CommitRecord {
	out := make([]CommitRecord, 0, len(ages))
	for _, age := range ages {
		out = append(out, CommitRecord{SHA: "c", Author: "dev", AuthoredAt: refNow.Add(-days(age))})
	}
	return out
}

func repeatAge(age, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = age
	}
	return out
}

func closedIssue(createdDaysAgo int, openFor time.Duration) IssueRecord {
	created := refNow.Add(-days(createdDaysAgo))
	closed := created.Add(openFor)
	return IssueRecord{Number: createdDaysAgo, CreatedAt: created, ClosedAt: &closed}
}

func TestNew_AppliesDefaults(t *testing.T) {
	a := New(&fakeSource{}, Options{BusFactorThreshold: 0.5})
	opts := a.Options()

	assert.Equal(t, 100, opts.CommitLimit)
	assert.Equal(t, 50, opts.IssueLimit)
	assert.Equal(t, 6, opts.TrendMonths)
	assert.Equal(t, 90, opts.IssueWindowDays)
	assert.NotNil(t, opts.Now)
}

func TestCalculateBusFactor(t *testing.T) {
	tests := []struct {
		name         string
		contributors []ContributorStat
		threshold    float64
		wantFactor   int
		wantCore     []string
	}{
		{
			name:         "single dominant contributor",
			contributors: []ContributorStat{{"a", 60}, {"b", 30}, {"c", 10}},
			threshold:    0.5,
			wantFactor:   1,
			wantCore:     []string{"a"},
		},
		{
			name:         "unsorted input is ordered by commits",
			contributors: []ContributorStat{{"c", 10}, {"b", 30}, {"a", 60}},
			threshold:    0.5,
			wantFactor:   1,
			wantCore:     []string{"a"},
		},
		{
			name:         "two needed to reach half",
			contributors: []ContributorStat{{"a", 40}, {"b", 35}, {"c", 25}},
			threshold:    0.5,
			wantFactor:   2,
			wantCore:     []string{"a", "b"},
		},
		{
			name:         "equal contributors keep their order",
			contributors: []ContributorStat{{"x", 10}, {"y", 10}, {"z", 10}, {"w", 10}},
			threshold:    0.5,
			wantFactor:   2,
			wantCore:     []string{"x", "y"},
		},
		{
			name:         "zero threshold takes the top contributor",
			contributors: []ContributorStat{{"a", 5}, {"b", 50}},
			threshold:    0,
			wantFactor:   1,
			wantCore:     []string{"b"},
		},
		{
			name:         "threshold above one takes everyone",
			contributors: []ContributorStat{{"a", 5}, {"b", 50}, {"c", 1}},
			threshold:    1.5,
			wantFactor:   3,
			wantCore:     []string{"b", "a", "c"},
		},
		{
			name:         "anonymous contributors are dropped",
			contributors: []ContributorStat{{"", 500}, {"a", 10}, {"b", 9}},
			threshold:    0.5,
			wantFactor:   1,
			wantCore:     []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAnalyzer(&fakeSource{contributors: tt.contributors})

			factor, core, err := a.CalculateBusFactor(context.Background(), tt.threshold)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFactor, factor)
			assert.Equal(t, tt.wantCore, core)
		})
	}
}

func TestCalculateBusFactor_NoData(t *testing.T) {
	a := newTestAnalyzer(&fakeSource{})

	factor, core, err := a.CalculateBusFactor(context.Background(), 0.5)
	require.NoError(t, err)
	assert.Zero(t, factor)
	assert.Empty(t, core)
}

func TestCalculateBusFactor_StatsPending(t *testing.T) {
	src := &fakeSource{contributorsErr: ErrStatsPending}
	a := newTestAnalyzer(src)

	factor, core, err := a.CalculateBusFactor(context.Background(), 0.5)
	require.NoError(t, err)
	assert.Zero(t, factor)
	assert.Empty(t, core)

	// pending stats are cached as "no data" for the analyzer's lifetime
	_, _, err = a.CalculateBusFactor(context.Background(), 0.5)
	require.NoError(t, err)
	assert.Equal(t, 1, src.statsCalls)
}

func TestCalculateBusFactor_SourceError(t *testing.T) {
	boom := errors.New("connection reset")
	a := newTestAnalyzer(&fakeSource{contributorsErr: boom})

	_, _, err := a.CalculateBusFactor(context.Background(), 0.5)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDataSource)
	assert.ErrorIs(t, err, boom)
}

func TestCalculateActivityTrend(t *testing.T) {
	tests := []struct {
		name         string
		commits      []CommitRecord
		wantRecent   int
		wantPrevious int
		wantRate     float64
	}{
		{
			name:     "no commits",
			commits:  nil,
			wantRate: 0,
		},
		{
			name:         "halved activity",
			commits:      commitsAt(append(repeatAge(10, 10), repeatAge(100, 20)...)...),
			wantRecent:   10,
			wantPrevious: 20,
			wantRate:     -0.5,
		},
		{
			name:         "steady activity",
			commits:      commitsAt(5, 20, 120, 150),
			wantRecent:   2,
			wantPrevious: 2,
			wantRate:     0,
		},
		{
			name:       "only recent commits",
			commits:    commitsAt(1, 2, 3),
			wantRecent: 3,
			wantRate:   1.0,
		},
		{
			name:         "only previous commits",
			commits:      commitsAt(100, 110),
			wantPrevious: 2,
			wantRate:     -1.0,
		},
		{
			name:     "everything older than the window",
			commits:  commitsAt(200, 300),
			wantRate: 0,
		},
		{
			name:         "walk stops at the first old commit",
			commits:      commitsAt(10, 200, 20, 100),
			wantRecent:   1,
			wantPrevious: 0,
			wantRate:     1.0,
		},
		{
			name:         "commit on the recent cutoff counts as previous",
			commits:      commitsAt(90, 91),
			wantPrevious: 2,
			wantRate:     -1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAnalyzer(&fakeSource{commits: tt.commits})

			recent, previous, rate, err := a.CalculateActivityTrend(context.Background(), 6)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRecent, recent)
			assert.Equal(t, tt.wantPrevious, previous)
			assert.InDelta(t, tt.wantRate, rate, 1e-9)
		})
	}
}

func TestCommits_FirstLimitWins(t *testing.T) {
	src := &fakeSource{commits: commitsAt(1, 2, 3, 4, 5)}
	a := newTestAnalyzer(src)

	first, err := a.Commits(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := a.Commits(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, second, 2)

	assert.Equal(t, 1, src.commitCalls)
	assert.Equal(t, []int{2}, src.commitLimits)
}

func TestCommits_SharedAcrossMetrics(t *testing.T) {
	src := &fakeSource{
		commits:      commitsAt(1, 100),
		contributors: []ContributorStat{{"a", 10}},
	}
	a := newTestAnalyzer(src)

	_, err := a.GenerateRiskReport(context.Background())
	require.NoError(t, err)
	_, _, _, err = a.CalculateActivityTrend(context.Background(), 6)
	require.NoError(t, err)

	assert.Equal(t, 1, src.commitCalls)
	assert.Equal(t, 1, src.statsCalls)
}

func TestCommits_ErrorIsNotCached(t *testing.T) {
	src := &fakeSource{commitsErr: errors.New("rate limited")}
	a := newTestAnalyzer(src)

	_, err := a.Commits(context.Background(), 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDataSource)

	src.commitsErr = nil
	src.commits = commitsAt(1)
	commits, err := a.Commits(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, commits, 1)
	assert.Equal(t, 2, src.commitCalls)
}

func TestCalculateIssueResponseTime(t *testing.T) {
	tests := []struct {
		name    string
		issues  []IssueRecord
		wantAvg float64
		wantOK  bool
	}{
		{
			name:    "same-day closures are excluded",
			issues:  []IssueRecord{closedIssue(20, 10*24*time.Hour), closedIssue(5, 3*time.Hour)},
			wantAvg: 10,
			wantOK:  true,
		},
		{
			name:    "partial days are floored",
			issues:  []IssueRecord{closedIssue(30, 2*24*time.Hour+23*time.Hour), closedIssue(40, 4*24*time.Hour)},
			wantAvg: 3,
			wantOK:  true,
		},
		{
			name:   "only same-day closures means no data",
			issues: []IssueRecord{closedIssue(3, time.Hour), closedIssue(4, 0)},
			wantOK: false,
		},
		{
			name:   "issues opened before the window are skipped",
			issues: []IssueRecord{closedIssue(120, 40*24*time.Hour)},
			wantOK: false,
		},
		{
			name:   "open issues are skipped",
			issues: []IssueRecord{{Number: 1, CreatedAt: refNow.Add(-days(5))}},
			wantOK: false,
		},
		{
			name:   "no issues",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{issues: tt.issues}
			a := newTestAnalyzer(src)

			avg, ok, err := a.CalculateIssueResponseTime(context.Background(), 90)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.wantAvg, avg, 1e-9)
			assert.Equal(t, IssueStateClosed, src.issueState)
			assert.Equal(t, 50, src.issueLimit)
		})
	}
}

func TestCalculateIssueResponseTime_SourceError(t *testing.T) {
	a := newTestAnalyzer(&fakeSource{issuesErr: errors.New("502 bad gateway")})

	_, ok, err := a.CalculateIssueResponseTime(context.Background(), 90)
	require.Error(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, err, apperrors.ErrDataSource)
}

func TestWholeDays(t *testing.T) {
	assert.Equal(t, 0, wholeDays(23*time.Hour))
	assert.Equal(t, 1, wholeDays(24*time.Hour))
	assert.Equal(t, 2, wholeDays(71*time.Hour))
	assert.Equal(t, -1, wholeDays(-time.Hour))
}

func TestGenerateRiskReport(t *testing.T) {
	tests := []struct {
		name         string
		src          *fakeSource
		wantLevels   []Level
		wantCategory []Category
	}{
		{
			name: "healthy project",
			src: &fakeSource{
				contributors: []ContributorStat{{"a", 10}, {"b", 10}, {"c", 10}, {"d", 10}, {"e", 10}},
				commits:      commitsAt(1, 2, 100, 101),
				issues:       []IssueRecord{closedIssue(10, 2*24*time.Hour)},
			},
		},
		{
			name: "single maintainer",
			src: &fakeSource{
				contributors: []ContributorStat{{"a", 60}, {"b", 30}, {"c", 10}},
				commits:      commitsAt(1, 100),
			},
			wantLevels:   []Level{LevelHigh},
			wantCategory: []Category{CategoryMaintenanceConcentration},
		},
		{
			name: "two core contributors",
			src: &fakeSource{
				contributors: []ContributorStat{{"a", 40}, {"b", 35}, {"c", 25}},
				commits:      commitsAt(1, 100),
			},
			wantLevels:   []Level{LevelMedium},
			wantCategory: []Category{CategoryMaintenanceConcentration},
		},
		{
			name: "sharp decline",
			src: &fakeSource{
				commits: commitsAt(append(repeatAge(10, 4), repeatAge(100, 10)...)...),
			},
			wantLevels:   []Level{LevelHigh},
			wantCategory: []Category{CategoryActivityDecline},
		},
		{
			name: "half the activity is a moderate decline",
			src: &fakeSource{
				commits: commitsAt(append(repeatAge(10, 10), repeatAge(100, 20)...)...),
			},
			wantLevels:   []Level{LevelMedium},
			wantCategory: []Category{CategoryActivityDecline},
		},
		{
			name: "exactly twenty percent down is not a finding",
			src: &fakeSource{
				commits: commitsAt(append(repeatAge(10, 8), repeatAge(100, 10)...)...),
			},
		},
		{
			name: "slow issue response",
			src: &fakeSource{
				issues: []IssueRecord{closedIssue(80, 45*24*time.Hour), closedIssue(60, 20*24*time.Hour)},
			},
			wantLevels:   []Level{LevelMedium},
			wantCategory: []Category{CategorySlowResponse},
		},
		{
			name: "every rule fires in order",
			src: &fakeSource{
				contributors: []ContributorStat{{"solo", 99}, {"b", 1}},
				commits:      commitsAt(append(repeatAge(10, 1), repeatAge(100, 10)...)...),
				issues:       []IssueRecord{closedIssue(70, 50*24*time.Hour)},
			},
			wantLevels:   []Level{LevelHigh, LevelHigh, LevelMedium},
			wantCategory: []Category{CategoryMaintenanceConcentration, CategoryActivityDecline, CategorySlowResponse},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAnalyzer(tt.src)

			report, err := a.GenerateRiskReport(context.Background())
			require.NoError(t, err)

			levels := make([]Level, 0, len(report.Risks))
			categories := make([]Category, 0, len(report.Risks))
			for _, r := range report.Risks {
				levels = append(levels, r.Level)
				categories = append(categories, r.Category)
				assert.NotEmpty(t, r.Description)
				assert.NotEmpty(t, r.Suggestion)
			}
			if tt.wantLevels == nil {
				assert.Empty(t, report.Risks)
				assert.False(t, report.HasRisks())
				return
			}
			assert.Equal(t, tt.wantLevels, levels)
			assert.Equal(t, tt.wantCategory, categories)
		})
	}
}

func TestGenerateRiskReport_Contents(t *testing.T) {
	pushed := time.Date(2024, 5, 30, 8, 15, 0, 0, time.UTC)
	src := &fakeSource{
		meta: &RepositoryMetadata{FullName: "octo/widget", PushedAt: pushed, OpenIssues: 12},
		contributors: []ContributorStat{
			{"a", 10}, {"b", 10}, {"c", 10}, {"d", 10}, {"e", 10}, {"f", 10}, {"g", 10}, {"h", 10},
		},
		commits: commitsAt(append(repeatAge(10, 10), repeatAge(100, 20)...)...),
		issues:  []IssueRecord{closedIssue(20, 10*24*time.Hour), closedIssue(30, 11*24*time.Hour)},
	}
	a := newTestAnalyzer(src)

	report, err := a.GenerateRiskReport(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, refNow, report.GeneratedAt)
	assert.Equal(t, ReportInfo{Name: "octo/widget", LastPushed: "2024-05-30", OpenIssues: 12}, report.BasicInfo)

	assert.Equal(t, 4, report.Metrics.BusFactor)
	assert.Equal(t, []string{"a", "b", "c", "d"}, report.Metrics.CoreContributors)
	assert.Equal(t, 10, report.Metrics.RecentCommits)
	assert.Equal(t, 20, report.Metrics.PreviousCommits)
	assert.InDelta(t, -0.5, report.Metrics.ActivityChange, 1e-9)
	assert.Equal(t, "-50.0%", report.Metrics.ActivityChangePercent())
	require.NotNil(t, report.Metrics.AvgIssueResponseDays)
	assert.InDelta(t, 10.5, *report.Metrics.AvgIssueResponseDays, 1e-9)

	require.Len(t, report.Risks, 1)
	assert.Equal(t, "Development activity has declined (-50.0%)", report.Risks[0].Description)
}

func TestGenerateRiskReport_CoreContributorsCapped(t *testing.T) {
	stats := make([]ContributorStat, 0, 10)
	for _, login := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		stats = append(stats, ContributorStat{Login: login, TotalCommits: 10})
	}
	a := newTestAnalyzer(&fakeSource{contributors: stats})

	report, err := a.GenerateRiskReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, report.Metrics.BusFactor)
	assert.Len(t, report.Metrics.CoreContributors, 5)

	a = New(&fakeSource{contributors: stats}, Options{BusFactorThreshold: 0.9, Now: func() time.Time { return refNow }})
	report, err = a.GenerateRiskReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, report.Metrics.BusFactor)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, report.Metrics.CoreContributors)
}

func TestGenerateRiskReport_NoData(t *testing.T) {
	a := newTestAnalyzer(&fakeSource{contributorsErr: ErrStatsPending})

	report, err := a.GenerateRiskReport(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.Metrics.BusFactor)
	assert.NotNil(t, report.Metrics.CoreContributors)
	assert.Empty(t, report.Metrics.CoreContributors)
	assert.Nil(t, report.Metrics.AvgIssueResponseDays)
	assert.NotNil(t, report.Risks)
	assert.Empty(t, report.Risks)
}

func TestGenerateRiskReport_MetadataError(t *testing.T) {
	a := newTestAnalyzer(&fakeSource{metaErr: errors.New("timeout")})

	report, err := a.GenerateRiskReport(context.Background())
	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, apperrors.ErrDataSource)
}

func TestGenerateRiskReport_FetchErrors(t *testing.T) {
	tests := []struct {
		name string
		src  *fakeSource
	}{
		{"commits", &fakeSource{commitsErr: errors.New("boom")}},
		{"contributors", &fakeSource{contributorsErr: errors.New("boom")}},
		{"issues", &fakeSource{issuesErr: errors.New("boom")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := newTestAnalyzer(tt.src).GenerateRiskReport(context.Background())
			require.Error(t, err)
			assert.Nil(t, report)
			assert.ErrorIs(t, err, apperrors.ErrDataSource)
		})
	}
}

func TestGenerateRiskReport_UsesCachedData(t *testing.T) {
	src := &fakeSource{commits: commitsAt(1, 2), contributors: []ContributorStat{{"a", 3}}}
	a := newTestAnalyzer(src)

	_, err := a.Commits(context.Background(), 1)
	require.NoError(t, err)

	report, err := a.GenerateRiskReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Metrics.RecentCommits)
	assert.Equal(t, 1, src.commitCalls)
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "-50.0%", FormatPercent(-0.5))
	assert.Equal(t, "100.0%", FormatPercent(1))
	assert.Equal(t, "0.0%", FormatPercent(0))
	assert.Equal(t, "-33.3%", FormatPercent(-1.0/3))
}
