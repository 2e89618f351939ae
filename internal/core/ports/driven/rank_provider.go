package driven

import (
	"context"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

// RankProvider returns ranked organic results for a query.
type RankProvider interface {
	// Validate reports whether the provider can be called at all.
	// It performs no I/O and returns domain.ErrProviderNotConfigured
	// when credentials are missing.
	Validate() error

	// Search returns up to domain.ResultCount organic results in rank order.
	// Non-2xx responses are returned as *domain.ProviderStatusError.
	Search(ctx context.Context, query string) ([]domain.OrganicResult, error)
}
