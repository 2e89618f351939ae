package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

// TrackerService is the single owner of tracked domains and settings.
// All returned values are copies; mutating them has no effect on the store.
type TrackerService interface {
	// AddOrMerge tracks a domain or adds keywords to an already tracked one.
	// The domain is canonicalised and keywords are normalised. Returns
	// domain.ErrInvalidInput when the domain or the keyword list is empty.
	AddOrMerge(ctx context.Context, name string, keywords []string) (domain.MergeResult, error)

	// Remove stops tracking a domain. Returns domain.ErrNotFound if absent.
	Remove(ctx context.Context, name string) error

	// List returns every tracked domain in insertion order.
	List(ctx context.Context) []domain.TrackedDomain

	// Get returns a tracked domain. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, name string) (domain.TrackedDomain, error)

	// Settings returns the current scheduling settings.
	Settings(ctx context.Context) domain.Settings

	// UpdateSettings applies a partial change. Out-of-range intervals are
	// rejected with domain.ErrInvalidInput and nothing is stored.
	UpdateSettings(ctx context.Context, update domain.SettingsUpdate) (domain.Settings, error)

	// RecordCheckCompletion stamps a finished check run on the domain.
	// A domain removed in the meantime is logged, not reported as an error.
	RecordCheckCompletion(ctx context.Context, name string, at time.Time) error

	// Reload replaces the in-memory state with the stored state.
	Reload(ctx context.Context) error
}
