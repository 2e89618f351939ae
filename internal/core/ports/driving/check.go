package driving

import (
	"context"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

// CheckRunner checks every keyword of one domain and aggregates a report.
type CheckRunner interface {
	// Run looks up each keyword in order and records the completed run.
	// Per-keyword failures are part of the report; an error is returned
	// only when no lookup could be attempted.
	Run(ctx context.Context, d domain.TrackedDomain, trigger domain.Trigger) (*domain.DomainReport, error)
}

// HistoryService exposes the log of past check runs.
type HistoryService interface {
	// Recent returns up to limit runs, most recent first. An empty domain
	// returns runs for every domain.
	Recent(ctx context.Context, domainName string, limit int) ([]domain.CheckRun, error)
}
