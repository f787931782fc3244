package config

import (
	"fmt"
	"net/url"
	"strings"

	apperrors "github.com/rohankatakam/depscan/internal/errors"
)

// ValidationResult holds validation results
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// AddError adds an error to the validation result
func (vr *ValidationResult) AddError(format string, args ...interface{}) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
}

// AddWarning adds a warning to the validation result
func (vr *ValidationResult) AddWarning(format string, args ...interface{}) {
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any errors
func (vr *ValidationResult) HasErrors() bool {
	return !vr.Valid || len(vr.Errors) > 0
}

// Error returns a formatted error message
func (vr *ValidationResult) Error() string {
	if !vr.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Configuration validation failed:\n")
	for _, err := range vr.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err))
	}

	if len(vr.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, warn := range vr.Warnings {
			sb.WriteString(fmt.Sprintf("  - %s\n", warn))
		}
	}

	return sb.String()
}

// Err returns the result as a config error, or nil when valid
func (vr *ValidationResult) Err() error {
	if !vr.HasErrors() {
		return nil
	}
	return apperrors.ConfigError(nil, strings.TrimSpace(vr.Error()))
}

var (
	validFormats   = []string{"auto", "text", "plain", "json", "yaml"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Validate checks ranges and enumerations
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{Valid: true}

	c.validateGitHub(result)
	c.validateAnalysis(result)
	c.validateOutput(result)

	return result
}

func (c *Config) validateGitHub(result *ValidationResult) {
	if c.GitHub.RateLimit < 0 {
		result.AddError("github.rate_limit must be >= 0, got %d", c.GitHub.RateLimit)
	}
	if c.GitHub.BaseURL != "" {
		if u, err := url.Parse(c.GitHub.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			result.AddError("github.base_url is not an absolute URL: %q", c.GitHub.BaseURL)
		}
	}
}

func (c *Config) validateAnalysis(result *ValidationResult) {
	a := c.Analysis
	if a.CommitLimit <= 0 {
		result.AddError("analysis.commit_limit must be positive, got %d", a.CommitLimit)
	}
	if a.IssueLimit <= 0 {
		result.AddError("analysis.issue_limit must be positive, got %d", a.IssueLimit)
	}
	if a.TrendMonths <= 0 {
		result.AddError("analysis.trend_months must be positive, got %d", a.TrendMonths)
	}
	if a.IssueWindowDays <= 0 {
		result.AddError("analysis.issue_window_days must be positive, got %d", a.IssueWindowDays)
	}

	// Out-of-range thresholds are legal but suspicious
	if a.BusFactorThreshold <= 0 || a.BusFactorThreshold > 1 {
		result.AddWarning("analysis.bus_factor_threshold %.2f is outside (0, 1]", a.BusFactorThreshold)
	}
	if a.CommitLimit > 0 && a.CommitLimit < 30 {
		result.AddWarning("analysis.commit_limit %d is small, activity trends will be noisy", a.CommitLimit)
	}
}

func (c *Config) validateOutput(result *ValidationResult) {
	if !contains(validFormats, c.Output.Format) {
		result.AddError("output.format must be one of %s, got %q", strings.Join(validFormats, ", "), c.Output.Format)
	}
	if !contains(validLogLevels, strings.ToLower(c.Log.Level)) {
		result.AddError("log.level must be one of %s, got %q", strings.Join(validLogLevels, ", "), c.Log.Level)
	}
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}
