package driven

import (
	"context"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

// ReportSink delivers check outcomes to an operator.
type ReportSink interface {
	// DeliverReport sends a completed domain report.
	DeliverReport(ctx context.Context, report *domain.DomainReport) error

	// DeliverFailure sends a notice for a run that produced no report.
	DeliverFailure(ctx context.Context, failure *domain.CheckFailure) error
}
