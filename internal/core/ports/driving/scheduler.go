package driving

import (
	"context"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

// Scheduler runs automatic check cycles and manual checks.
type Scheduler interface {
	// Start arms the timer from the current settings and blocks until
	// the context is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop prevents future fires and waits for in-flight work to finish.
	Stop() error

	// Configure re-arms or disarms the timer from the given settings.
	// In-flight checks are never interrupted.
	Configure(settings domain.Settings)

	// CheckNow runs a manual check for one domain and delivers the report.
	// An empty name checks the first tracked domain. Returns
	// domain.ErrCheckInProgress if that domain is already being checked.
	CheckNow(ctx context.Context, name string) (*domain.DomainReport, error)

	// State returns a snapshot of the scheduler.
	State() domain.SchedulerState
}
