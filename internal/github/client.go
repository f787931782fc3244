package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/rohankatakam/depscan/internal/analyzer"
	apperrors "github.com/rohankatakam/depscan/internal/errors"
)

// maxPerPage is the largest page size the REST API accepts
const maxPerPage = 100

// lowRateLimitRemaining triggers a warning when the quota drops below it
const lowRateLimitRemaining = 100

// Client wraps the GitHub API client with rate limiting
type Client struct {
	client      *github.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates a new GitHub client with rate limiting.
// An empty token gives unauthenticated access (60 requests/hour).
// A rateLimit <= 0 disables client-side throttling.
func NewClient(ctx context.Context, token string, rateLimit int) *Client {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	limit := rate.Inf
	if rateLimit > 0 {
		limit = rate.Limit(rateLimit)
	}

	return &Client{
		client:      github.NewClient(httpClient),
		rateLimiter: rate.NewLimiter(limit, 1),
		logger:      slog.Default().With("component", "github_client"),
	}
}

// SetBaseURL points the client at another API root (GitHub Enterprise, test servers)
func (c *Client) SetBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse base URL: %w", err)
	}
	c.client.BaseURL = u
	return nil
}

// Resolve looks up owner/name and returns a data source bound to it.
// Not found and access denied become resolution errors carrying the platform message.
func (c *Client) Resolve(ctx context.Context, owner, name string) (*Repository, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	repo, resp, err := c.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, classifyResolveError(err, owner, name)
	}
	c.logRateLimit(resp)

	meta := &analyzer.RepositoryMetadata{
		FullName:    repo.GetFullName(),
		Description: repo.GetDescription(),
		HTMLURL:     repo.GetHTMLURL(),
		CreatedAt:   repo.GetCreatedAt().Time,
		PushedAt:    repo.GetPushedAt().Time,
		Stars:       repo.GetStargazersCount(),
		Forks:       repo.GetForksCount(),
		OpenIssues:  repo.GetOpenIssuesCount(),
		License:     repo.GetLicense().GetSPDXID(),
	}
	if meta.FullName == "" {
		meta.FullName = owner + "/" + name
	}

	return &Repository{client: c, owner: owner, name: name, meta: meta}, nil
}

func classifyResolveError(err error, owner, name string) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return apperrors.DataSourceErrorf(err, "rate limit exceeded while resolving %s/%s", owner, name)
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusNotFound:
			return apperrors.ResolutionErrorf(err, "repository %s/%s not found: %s", owner, name, ghErr.Message)
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.ResolutionErrorf(err, "access to %s/%s denied: %s", owner, name, ghErr.Message)
		}
	}

	return apperrors.DataSourceErrorf(err, "fetch repository %s/%s", owner, name)
}

// logRateLimit logs GitHub API rate limit info
func (c *Client) logRateLimit(resp *github.Response) {
	if resp == nil {
		return
	}

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < lowRateLimitRemaining {
		c.logger.Warn("rate limit low",
			"remaining", resp.Rate.Remaining,
			"limit", resp.Rate.Limit,
			"reset", resp.Rate.Reset.Time)
	}
}

// ResolveSource is Resolve behind the analyzer.DataSource interface
func (c *Client) ResolveSource(ctx context.Context, owner, name string) (analyzer.DataSource, error) {
	repo, err := c.Resolve(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	return repo, nil
}
