package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

// TrackedStore persists tracked domains and scheduling settings.
// Every write is durable before the call returns.
type TrackedStore interface {
	// Load returns the complete stored state. A store that has never been
	// written returns an empty state with default settings.
	Load(ctx context.Context) (*domain.TrackerState, error)

	// SaveDomain creates or replaces a domain record.
	// New domains are appended after existing ones.
	SaveDomain(ctx context.Context, d domain.TrackedDomain) error

	// UpdateCheckStats sets the last check time and check count of a domain.
	// Returns domain.ErrNotFound if the domain is not stored.
	UpdateCheckStats(ctx context.Context, name string, lastChecked time.Time, count int) error

	// DeleteDomain removes a domain. Returns domain.ErrNotFound if absent.
	DeleteDomain(ctx context.Context, name string) error

	// SaveSettings replaces the stored settings.
	SaveSettings(ctx context.Context, s domain.Settings) error
}

// CheckHistoryStore keeps a bounded log of check runs.
type CheckHistoryStore interface {
	// RecordRun appends a run to the history.
	RecordRun(ctx context.Context, run *domain.CheckRun) error

	// ListRuns returns recent runs, most recent first. An empty domain
	// lists runs for every domain.
	ListRuns(ctx context.Context, domainName string, limit int) ([]domain.CheckRun, error)

	// PruneRuns keeps only the most recent 'keep' runs.
	PruneRuns(ctx context.Context, keep int) error
}
