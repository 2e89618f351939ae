package services

import (
	"context"
	"strings"
	"time"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
	"github.com/custodia-labs/rankwatch/internal/core/ports/driven"
	"github.com/custodia-labs/rankwatch/internal/logger"
)

// RankLookup resolves the rank of a domain for a single keyword.
type RankLookup struct {
	provider driven.RankProvider
	timeout  time.Duration
}

// NewRankLookup creates a lookup bounded by timeout per call.
// A zero timeout leaves the call bounded only by ctx.
func NewRankLookup(provider driven.RankProvider, timeout time.Duration) *RankLookup {
	return &RankLookup{
		provider: provider,
		timeout:  timeout,
	}
}

// Lookup queries the provider for keyword and matches trackedDomain against
// the results. It never returns an error: failures are carried in the result.
func (l *RankLookup) Lookup(ctx context.Context, trackedDomain, keyword string) domain.KeywordResult {
	keyword = strings.TrimSpace(keyword)
	result := domain.KeywordResult{Keyword: keyword}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	organic, err := l.provider.Search(ctx, keyword)
	if err != nil {
		logger.Error("lookup %q for %s: %v", keyword, trackedDomain, err)
		result.Error = err.Error()
		return result
	}

	match, ok := MatchDomain(trackedDomain, organic)
	if !ok {
		logger.Debug("%s not ranked for %q (%d results)", trackedDomain, keyword, len(organic))
		result.Error = domain.ErrNotRanked.Error()
		return result
	}

	result.Position = match.Position
	result.URL = match.URL
	result.Title = match.Title
	return result
}
