package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
	"github.com/custodia-labs/rankwatch/internal/core/ports/driven"
	"github.com/custodia-labs/rankwatch/internal/core/ports/driving"
	"github.com/custodia-labs/rankwatch/internal/logger"
)

// Ensure CheckRunner implements the interface.
var _ driving.CheckRunner = (*CheckRunner)(nil)

// CheckRunner checks a domain's keywords one after another and aggregates
// the results into a report.
type CheckRunner struct {
	provider driven.RankProvider
	lookup   *RankLookup
	tracker  driving.TrackerService
	history  driven.CheckHistoryStore
	now      func() time.Time
}

// CheckRunnerOption configures a CheckRunner.
type CheckRunnerOption func(*CheckRunner)

// WithHistory records every run in the given store.
func WithHistory(store driven.CheckHistoryStore) CheckRunnerOption {
	return func(r *CheckRunner) {
		r.history = store
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) CheckRunnerOption {
	return func(r *CheckRunner) {
		r.now = now
	}
}

// NewCheckRunner creates a check runner.
func NewCheckRunner(
	provider driven.RankProvider,
	lookup *RankLookup,
	tracker driving.TrackerService,
	opts ...CheckRunnerOption,
) *CheckRunner {
	r := &CheckRunner{
		provider: provider,
		lookup:   lookup,
		tracker:  tracker,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run checks every keyword of d in order. The domain's check stats are
// updated exactly once, however many lookups failed. A provider that
// cannot be called aborts the run before any lookup and leaves the stats
// untouched.
func (r *CheckRunner) Run(
	ctx context.Context,
	d domain.TrackedDomain,
	trigger domain.Trigger,
) (*domain.DomainReport, error) {
	started := r.now()
	id := uuid.New().String()

	if err := r.provider.Validate(); err != nil {
		logger.Error("check %s (%s) aborted: %v", d.Domain, trigger, err)
		r.recordRun(ctx, &domain.CheckRun{
			ID:          id,
			Domain:      d.Domain,
			TriggeredBy: trigger,
			StartedAt:   started,
			EndedAt:     r.now(),
			Error:       err.Error(),
		})
		return nil, fmt.Errorf("check %s: %w", d.Domain, err)
	}

	logger.Event("checking %s (%d keywords, %s)", d.Domain, len(d.Keywords), trigger)

	results := make([]domain.KeywordResult, 0, len(d.Keywords))
	for _, kw := range d.Keywords {
		results = append(results, r.lookup.Lookup(ctx, d.Domain, kw))
	}

	ended := r.now()
	report := domain.NewDomainReport(id, d.Domain, trigger, results, ended)

	if err := r.tracker.RecordCheckCompletion(ctx, d.Domain, ended); err != nil {
		logger.Error("record check for %s: %v", d.Domain, err)
	}

	logger.Event("checked %s: %d/%d found", d.Domain, report.MatchedCount, report.TotalCount)

	r.recordRun(ctx, &domain.CheckRun{
		ID:           id,
		Domain:       d.Domain,
		TriggeredBy:  trigger,
		StartedAt:    started,
		EndedAt:      ended,
		MatchedCount: report.MatchedCount,
		TotalCount:   report.TotalCount,
	})

	return report, nil
}

func (r *CheckRunner) recordRun(ctx context.Context, run *domain.CheckRun) {
	if r.history == nil {
		return
	}
	if err := r.history.RecordRun(ctx, run); err != nil {
		logger.Error("record history for %s: %v", run.Domain, err)
		return
	}
	if err := r.history.PruneRuns(ctx, domain.DefaultHistoryLimit); err != nil {
		logger.Warn("prune history: %v", err)
	}
}

// HistoryService reads the check history.
type HistoryService struct {
	store driven.CheckHistoryStore
}

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// NewHistoryService creates a history service. A nil store yields no history.
func NewHistoryService(store driven.CheckHistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// Recent returns up to limit runs, most recent first.
func (h *HistoryService) Recent(ctx context.Context, domainName string, limit int) ([]domain.CheckRun, error) {
	if h.store == nil {
		return nil, nil
	}
	if limit <= 0 || limit > domain.DefaultHistoryLimit {
		limit = domain.DefaultHistoryLimit
	}
	if domainName != "" {
		domainName = domain.Canonicalize(domainName)
	}
	return h.store.ListRuns(ctx, domainName, limit)
}
