package analyzer

import (
	"fmt"
	"time"
)

// CommitRecord is one commit as seen by the analyzer
type CommitRecord struct {
	SHA        string
	Author     string // login, or git author name when the commit is not linked to an account
	AuthoredAt time.Time
}

// ContributorStat is a contributor's total commit count
// An empty Login means the platform could not resolve the author.
type ContributorStat struct {
	Login        string
	TotalCommits int
}

// IssueRecord holds the timestamps needed for response-time estimation
type IssueRecord struct {
	Number    int
	CreatedAt time.Time
	ClosedAt  *time.Time
}

// RepositoryMetadata is the repository-level snapshot returned by the data source
type RepositoryMetadata struct {
	FullName    string
	Description string
	HTMLURL     string
	CreatedAt   time.Time
	PushedAt    time.Time
	Stars       int
	Forks       int
	OpenIssues  int
	License     string // SPDX id, empty when the repository has no license
}

// Level is the severity of a risk finding
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
)

// String returns the string representation of Level
func (l Level) String() string {
	return string(l)
}

// Category tags what kind of abandonment signal a finding describes
type Category string

const (
	CategoryMaintenanceConcentration Category = "maintenance-concentration"
	CategoryActivityDecline          Category = "activity-decline"
	CategorySlowResponse             Category = "slow-response"
)

// RiskFinding is a graded condition with a suggested action
type RiskFinding struct {
	Level       Level    `json:"level" yaml:"level"`
	Category    Category `json:"category" yaml:"category"`
	Description string   `json:"description" yaml:"description"`
	Suggestion  string   `json:"suggestion" yaml:"suggestion"`
}

// ReportInfo is the repository summary embedded in a report
type ReportInfo struct {
	Name       string `json:"name" yaml:"name"`
	LastPushed string `json:"last_pushed" yaml:"last_pushed"`
	OpenIssues int    `json:"open_issues" yaml:"open_issues"`
}

// Metrics holds the computed metric values
type Metrics struct {
	BusFactor        int      `json:"bus_factor" yaml:"bus_factor"`
	CoreContributors []string `json:"core_contributors" yaml:"core_contributors"`
	RecentCommits    int      `json:"recent_commits" yaml:"recent_commits"`
	PreviousCommits  int      `json:"previous_commits" yaml:"previous_commits"`
	ActivityChange   float64  `json:"activity_change" yaml:"activity_change"`

	// nil when no closed issue qualified
	AvgIssueResponseDays *float64 `json:"avg_issue_response_days,omitempty" yaml:"avg_issue_response_days,omitempty"`
}

// ActivityChangePercent renders the change rate as a percentage with one decimal
func (m Metrics) ActivityChangePercent() string {
	return FormatPercent(m.ActivityChange)
}

// FormatPercent renders a ratio such as -0.5 as "-50.0%"
func FormatPercent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

// RiskReport is the structured output of one analysis run
type RiskReport struct {
	RunID       string        `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time     `json:"generated_at" yaml:"generated_at"`
	BasicInfo   ReportInfo    `json:"basic_info" yaml:"basic_info"`
	Metrics     Metrics       `json:"metrics" yaml:"metrics"`
	Risks       []RiskFinding `json:"risks" yaml:"risks"`
}

// HasRisks reports whether any finding was raised
func (r *RiskReport) HasRisks() bool {
	return len(r.Risks) > 0
}
