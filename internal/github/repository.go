package github

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v57/github"

	"github.com/rohankatakam/depscan/internal/analyzer"
)

// Repository is a resolved repository. It implements analyzer.DataSource.
type Repository struct {
	client *Client
	owner  string
	name   string
	meta   *analyzer.RepositoryMetadata
}

var _ analyzer.DataSource = (*Repository)(nil)

// Owner returns the account that owns the repository
func (r *Repository) Owner() string { return r.owner }

// Name returns the repository name
func (r *Repository) Name() string { return r.name }

// Metadata returns the snapshot taken when the repository was resolved
func (r *Repository) Metadata(ctx context.Context) (*analyzer.RepositoryMetadata, error) {
	return r.meta, nil
}

// Commits lists up to limit commits on the default branch, newest first
func (r *Repository) Commits(ctx context.Context, limit int) ([]analyzer.CommitRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	opts := &github.CommitsListOptions{
		ListOptions: github.ListOptions{
			PerPage: min(limit, maxPerPage),
		},
	}

	commits := make([]analyzer.CommitRecord, 0, limit)
	for {
		if err := r.client.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		page, resp, err := r.client.client.Repositories.ListCommits(ctx, r.owner, r.name, opts)
		if err != nil {
			return nil, fmt.Errorf("list commits: %w", err)
		}
		r.client.logRateLimit(resp)

		for _, c := range page {
			commits = append(commits, analyzer.CommitRecord{
				SHA:        c.GetSHA(),
				Author:     commitAuthor(c),
				AuthoredAt: c.GetCommit().GetAuthor().GetDate().Time,
			})
			if len(commits) == limit {
				return commits, nil
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return commits, nil
}

// commitAuthor prefers the linked account login over the git author name
func commitAuthor(c *github.RepositoryCommit) string {
	if login := c.GetAuthor().GetLogin(); login != "" {
		return login
	}
	return c.GetCommit().GetAuthor().GetName()
}

// ContributorStats returns per-contributor commit totals.
// GitHub answers 202 while it computes the statistics; that maps to analyzer.ErrStatsPending.
func (r *Repository) ContributorStats(ctx context.Context) ([]analyzer.ContributorStat, error) {
	if err := r.client.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	stats, resp, err := r.client.client.Repositories.ListContributorsStats(ctx, r.owner, r.name)
	if err != nil {
		var accepted *github.AcceptedError
		if errors.As(err, &accepted) {
			return nil, analyzer.ErrStatsPending
		}
		return nil, fmt.Errorf("list contributor stats: %w", err)
	}
	r.client.logRateLimit(resp)

	out := make([]analyzer.ContributorStat, 0, len(stats))
	for _, s := range stats {
		out = append(out, analyzer.ContributorStat{
			Login:        s.GetAuthor().GetLogin(),
			TotalCommits: s.GetTotal(),
		})
	}
	return out, nil
}

// Issues lists up to limit issues in state, most recently created first.
// Pull requests share the issues endpoint and are skipped.
func (r *Repository) Issues(ctx context.Context, state string, limit int) ([]analyzer.IssueRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	opts := &github.IssueListByRepoOptions{
		State:     state,
		Sort:      "created",
		Direction: "desc",
		ListOptions: github.ListOptions{
			PerPage: min(limit, maxPerPage),
		},
	}

	issues := make([]analyzer.IssueRecord, 0, limit)
	for {
		if err := r.client.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		page, resp, err := r.client.client.Issues.ListByRepo(ctx, r.owner, r.name, opts)
		if err != nil {
			return nil, fmt.Errorf("list issues: %w", err)
		}
		r.client.logRateLimit(resp)

		for _, issue := range page {
			if issue.IsPullRequest() {
				continue
			}

			record := analyzer.IssueRecord{
				Number:    issue.GetNumber(),
				CreatedAt: issue.GetCreatedAt().Time,
			}
			if issue.ClosedAt != nil {
				closed := issue.GetClosedAt().Time
				record.ClosedAt = &closed
			}
			issues = append(issues, record)
			if len(issues) == limit {
				return issues, nil
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return issues, nil
}

