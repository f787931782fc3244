// Package collector binds a repository URL to a data source and serves the
// basic-info and risk-report views over it.
package collector

import (
	"context"
	"log/slog"

	"github.com/rohankatakam/depscan/internal/analyzer"
	apperrors "github.com/rohankatakam/depscan/internal/errors"
	"github.com/rohankatakam/depscan/internal/github"
)

// Resolver turns an owner/name pair into a data source
type Resolver interface {
	ResolveSource(ctx context.Context, owner, name string) (analyzer.DataSource, error)
}

// BasicInfo is the repository summary shown in simple mode
type BasicInfo struct {
	FullName    string `json:"full_name" yaml:"full_name"`
	Description string `json:"description" yaml:"description"`
	CreatedAt   string `json:"created_at" yaml:"created_at"`
	LastPushed  string `json:"last_pushed" yaml:"last_pushed"`
	Stars       int    `json:"stars" yaml:"stars"`
	Forks       int    `json:"forks" yaml:"forks"`
	OpenIssues  int    `json:"open_issues" yaml:"open_issues"`
	License     string `json:"license" yaml:"license"`
}

const (
	noDescription = "(no description)"
	noLicense     = "none"
)

// Collector holds the repository selected by SetRepository
type Collector struct {
	resolver Resolver
	opts     analyzer.Options
	logger   *slog.Logger

	source   analyzer.DataSource
	meta     *analyzer.RepositoryMetadata
	analyzer *analyzer.Analyzer
}

// New creates a collector. opts configures the analyzer built for RiskReport.
func New(resolver Resolver, opts analyzer.Options) *Collector {
	return &Collector{
		resolver: resolver,
		opts:     opts,
		logger:   slog.Default().With("component", "collector"),
	}
}

// SetRepository parses repoURL and resolves it. A malformed URL fails with a
// validation error before any network call. On failure the previously selected
// repository, if any, stays selected.
func (c *Collector) SetRepository(ctx context.Context, repoURL string) error {
	owner, name, err := github.ParseRepoURL(repoURL)
	if err != nil {
		return err
	}

	source, err := c.resolver.ResolveSource(ctx, owner, name)
	if err != nil {
		return err
	}

	meta, err := source.Metadata(ctx)
	if err != nil {
		return apperrors.DataSourceError(err, "fetch repository metadata")
	}

	c.source = source
	c.meta = meta
	c.analyzer = nil
	c.logger.Info("connected to repository", "repo", meta.FullName)
	return nil
}

// Repository returns the full name of the selected repository, or "" when none is set
func (c *Collector) Repository() string {
	if c.meta == nil {
		return ""
	}
	return c.meta.FullName
}

// BasicInfo summarizes the selected repository
func (c *Collector) BasicInfo(ctx context.Context) (*BasicInfo, error) {
	if c.source == nil {
		return nil, apperrors.PreconditionError("no repository selected, call SetRepository first")
	}

	info := &BasicInfo{
		FullName:    c.meta.FullName,
		Description: c.meta.Description,
		CreatedAt:   c.meta.CreatedAt.Format("2006-01-02"),
		LastPushed:  c.meta.PushedAt.Format("2006-01-02 15:04"),
		Stars:       c.meta.Stars,
		Forks:       c.meta.Forks,
		OpenIssues:  c.meta.OpenIssues,
		License:     c.meta.License,
	}
	if info.Description == "" {
		info.Description = noDescription
	}
	if info.License == "" {
		info.License = noLicense
	}
	return info, nil
}

// RiskReport runs the analyzer over the selected repository.
// The analyzer is kept per repository so repeated reports reuse fetched data.
func (c *Collector) RiskReport(ctx context.Context) (*analyzer.RiskReport, error) {
	if c.source == nil {
		return nil, apperrors.PreconditionError("no repository selected, call SetRepository first")
	}

	if c.analyzer == nil {
		c.analyzer = analyzer.New(c.source, c.opts)
	}
	return c.analyzer.GenerateRiskReport(ctx)
}
