package analyzer

import (
	"context"
	"errors"
)

// ErrStatsPending is returned by ContributorStats when the platform has not
// finished computing contributor statistics yet.
var ErrStatsPending = errors.New("contributor statistics are still being computed")

// IssueStateClosed selects closed issues in DataSource.Issues
const IssueStateClosed = "closed"

// DataSource is the read-only view of one resolved repository
type DataSource interface {
	// Metadata returns repository-level information
	Metadata(ctx context.Context) (*RepositoryMetadata, error)

	// Commits returns at most limit commits, newest first
	Commits(ctx context.Context, limit int) ([]CommitRecord, error)

	// ContributorStats returns per-contributor totals in any order,
	// or ErrStatsPending when they are not available yet
	ContributorStats(ctx context.Context) ([]ContributorStat, error)

	// Issues returns at most limit issues in the given state, newest first
	Issues(ctx context.Context, state string, limit int) ([]IssueRecord, error)
}
