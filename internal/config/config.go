package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rohankatakam/depscan/internal/analyzer"
)

// Config holds all configuration settings
type Config struct {
	// GitHub API access
	GitHub GitHubConfig `mapstructure:"github" yaml:"github"`

	// Analysis windows and thresholds
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`

	// Logging
	Log LogConfig `mapstructure:"log" yaml:"log"`

	// Report rendering
	Output OutputConfig `mapstructure:"output" yaml:"output"`
}

type GitHubConfig struct {
	Token     string `mapstructure:"token" yaml:"token"`
	RateLimit int    `mapstructure:"rate_limit" yaml:"rate_limit"` // Requests per second, 0 disables throttling
	BaseURL   string `mapstructure:"base_url" yaml:"base_url"`     // Empty means api.github.com
}

type AnalysisConfig struct {
	CommitLimit        int     `mapstructure:"commit_limit" yaml:"commit_limit"`
	IssueLimit         int     `mapstructure:"issue_limit" yaml:"issue_limit"`
	BusFactorThreshold float64 `mapstructure:"bus_factor_threshold" yaml:"bus_factor_threshold"`
	TrendMonths        int     `mapstructure:"trend_months" yaml:"trend_months"`
	IssueWindowDays    int     `mapstructure:"issue_window_days" yaml:"issue_window_days"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn, error
	File  string `mapstructure:"file" yaml:"file"`   // Empty logs to stderr
	JSON  bool   `mapstructure:"json" yaml:"json"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"` // auto, text, plain, json, yaml
}

// Default returns default configuration
func Default() *Config {
	opts := analyzer.DefaultOptions()
	return &Config{
		GitHub: GitHubConfig{
			RateLimit: 10, // 10 requests per second
		},
		Analysis: AnalysisConfig{
			CommitLimit:        opts.CommitLimit,
			IssueLimit:         opts.IssueLimit,
			BusFactorThreshold: opts.BusFactorThreshold,
			TrendMonths:        opts.TrendMonths,
			IssueWindowDays:    opts.IssueWindowDays,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Output: OutputConfig{
			Format: "auto",
		},
	}
}

// DefaultPath is the per-user config file written by Save callers
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".depscan", "config.yaml")
}

// Load loads configuration from file
func Load(path string) (*Config, error) {
	// Load .env files first (in order of precedence)
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	// Set defaults
	cfg := Default()
	v.SetDefault("github.token", cfg.GitHub.Token)
	v.SetDefault("github.rate_limit", cfg.GitHub.RateLimit)
	v.SetDefault("github.base_url", cfg.GitHub.BaseURL)
	v.SetDefault("analysis.commit_limit", cfg.Analysis.CommitLimit)
	v.SetDefault("analysis.issue_limit", cfg.Analysis.IssueLimit)
	v.SetDefault("analysis.bus_factor_threshold", cfg.Analysis.BusFactorThreshold)
	v.SetDefault("analysis.trend_months", cfg.Analysis.TrendMonths)
	v.SetDefault("analysis.issue_window_days", cfg.Analysis.IssueWindowDays)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.json", cfg.Log.JSON)
	v.SetDefault("output.format", cfg.Output.Format)

	// Load from environment variables (DEPSCAN_ANALYSIS_COMMIT_LIMIT, ...)
	v.SetEnvPrefix("DEPSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Try to find config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Search for config in standard locations
		v.SetConfigName("config")
		v.AddConfigPath(".depscan")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".depscan"))
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	// Unmarshal into struct
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides applies the short-form environment variables.
// The GitHub token is not read here: ResolveGitHubToken owns that precedence chain.
func applyEnvOverrides(cfg *Config) {
	// GitHub configuration
	cfg.GitHub.RateLimit = GetInt("GITHUB_RATE_LIMIT", cfg.GitHub.RateLimit)
	cfg.GitHub.BaseURL = GetString("GITHUB_API_URL", cfg.GitHub.BaseURL)

	// Analysis configuration
	cfg.Analysis.CommitLimit = GetInt("DEPSCAN_COMMIT_LIMIT", cfg.Analysis.CommitLimit)
	cfg.Analysis.IssueLimit = GetInt("DEPSCAN_ISSUE_LIMIT", cfg.Analysis.IssueLimit)

	// Logging configuration
	cfg.Log.Level = GetString("DEPSCAN_LOG_LEVEL", cfg.Log.Level)
	if file := GetString("DEPSCAN_LOG_FILE", ""); file != "" {
		cfg.Log.File = expandPath(file)
	}
	cfg.Log.JSON = GetBool("DEPSCAN_LOG_JSON", cfg.Log.JSON)

	// Output configuration
	cfg.Output.Format = GetString("DEPSCAN_FORMAT", cfg.Output.Format)
}

// AnalyzerOptions converts the analysis section into analyzer options
func (c *Config) AnalyzerOptions() analyzer.Options {
	return analyzer.Options{
		CommitLimit:        c.Analysis.CommitLimit,
		IssueLimit:         c.Analysis.IssueLimit,
		BusFactorThreshold: c.Analysis.BusFactorThreshold,
		TrendMonths:        c.Analysis.TrendMonths,
		IssueWindowDays:    c.Analysis.IssueWindowDays,
	}
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	v.Set("github.token", c.GitHub.Token)
	v.Set("github.rate_limit", c.GitHub.RateLimit)
	v.Set("github.base_url", c.GitHub.BaseURL)
	v.Set("analysis.commit_limit", c.Analysis.CommitLimit)
	v.Set("analysis.issue_limit", c.Analysis.IssueLimit)
	v.Set("analysis.bus_factor_threshold", c.Analysis.BusFactorThreshold)
	v.Set("analysis.trend_months", c.Analysis.TrendMonths)
	v.Set("analysis.issue_window_days", c.Analysis.IssueWindowDays)
	v.Set("log.level", c.Log.Level)
	v.Set("log.file", c.Log.File)
	v.Set("log.json", c.Log.JSON)
	v.Set("output.format", c.Output.Format)

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write config file
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	// The file may hold a token
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to restrict config permissions: %w", err)
	}

	return nil
}
