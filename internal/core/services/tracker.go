package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
	"github.com/custodia-labs/rankwatch/internal/core/ports/driven"
	"github.com/custodia-labs/rankwatch/internal/core/ports/driving"
	"github.com/custodia-labs/rankwatch/internal/logger"
)

// Ensure TrackerService implements the interface.
var _ driving.TrackerService = (*TrackerService)(nil)

// TrackerService owns the tracked domains and settings. Writers are
// serialised and every change is persisted before memory is updated, so
// a failed write leaves both unchanged.
type TrackerService struct {
	store driven.TrackedStore
	now   func() time.Time

	mu       sync.RWMutex
	domains  []domain.TrackedDomain
	index    map[string]int
	settings domain.Settings
}

// NewTrackerService loads the stored state and returns a ready service.
func NewTrackerService(ctx context.Context, store driven.TrackedStore) (*TrackerService, error) {
	s := &TrackerService{
		store: store,
		now:   time.Now,
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory state with the stored state. The write
// lock is held across the load so no writer can land between the read
// and the swap.
func (s *TrackerService) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load tracked state: %w", err)
	}
	if err := state.Settings.Validate(); err != nil {
		logger.Warn("stored settings invalid (%v), using defaults", err)
		state.Settings = domain.DefaultSettings()
	}

	s.domains = make([]domain.TrackedDomain, 0, len(state.Domains))
	s.index = make(map[string]int, len(state.Domains))
	for _, d := range state.Domains {
		s.index[d.Domain] = len(s.domains)
		s.domains = append(s.domains, d.Clone())
	}
	s.settings = state.Settings
	return nil
}

// AddOrMerge tracks name with keywords, or merges keywords into an existing record.
func (s *TrackerService) AddOrMerge(ctx context.Context, name string, keywords []string) (domain.MergeResult, error) {
	canonical := domain.Canonicalize(name)
	if canonical == "" {
		return domain.MergeResult{}, fmt.Errorf("%w: domain is required", domain.ErrInvalidInput)
	}
	normalised := domain.SplitKeywords(keywords...)
	if len(normalised) == 0 {
		return domain.MergeResult{}, fmt.Errorf("%w: at least one keyword is required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var record domain.TrackedDomain
	idx, exists := s.index[canonical]
	if exists {
		record = s.domains[idx].Clone()
	} else {
		record = domain.TrackedDomain{Domain: canonical, AddedAt: now}
	}

	added := 0
	for _, kw := range normalised {
		if record.HasKeyword(kw) {
			continue
		}
		record.Keywords = append(record.Keywords, kw)
		added++
	}
	result := domain.MergeResult{
		Domain:        canonical,
		Created:       !exists,
		TotalKeywords: len(record.Keywords),
		AddedKeywords: added,
	}
	if exists && added == 0 {
		return result, nil
	}
	record.UpdatedAt = now

	if err := s.store.SaveDomain(ctx, record); err != nil {
		return domain.MergeResult{}, fmt.Errorf("save domain %s: %w", canonical, err)
	}

	if exists {
		s.domains[idx] = record
		logger.Event("merged %d keywords into %s (total %d)", added, canonical, len(record.Keywords))
	} else {
		s.index[canonical] = len(s.domains)
		s.domains = append(s.domains, record)
		logger.Event("added %s with %d keywords", canonical, len(record.Keywords))
	}
	return result, nil
}

// Remove stops tracking a domain.
func (s *TrackerService) Remove(ctx context.Context, name string) error {
	canonical := domain.Canonicalize(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.index[canonical]
	if !ok {
		return fmt.Errorf("domain %s: %w", canonical, domain.ErrNotFound)
	}
	if err := s.store.DeleteDomain(ctx, canonical); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("delete domain %s: %w", canonical, err)
	}

	s.domains = append(s.domains[:idx], s.domains[idx+1:]...)
	s.reindex()
	logger.Event("removed %s", canonical)
	return nil
}

// List returns every tracked domain in insertion order.
func (s *TrackerService) List(_ context.Context) []domain.TrackedDomain {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.TrackedDomain, len(s.domains))
	for i, d := range s.domains {
		out[i] = d.Clone()
	}
	return out
}

// Get returns a tracked domain.
func (s *TrackerService) Get(_ context.Context, name string) (domain.TrackedDomain, error) {
	canonical := domain.Canonicalize(name)

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.index[canonical]
	if !ok {
		return domain.TrackedDomain{}, fmt.Errorf("domain %s: %w", canonical, domain.ErrNotFound)
	}
	return s.domains[idx].Clone(), nil
}

// Settings returns the current scheduling settings.
func (s *TrackerService) Settings(_ context.Context) domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings applies a partial settings change.
func (s *TrackerService) UpdateSettings(ctx context.Context, update domain.SettingsUpdate) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := update.Apply(s.settings)
	if err != nil {
		return s.settings, err
	}
	if next == s.settings {
		return next, nil
	}
	if err := s.store.SaveSettings(ctx, next); err != nil {
		return s.settings, fmt.Errorf("save settings: %w", err)
	}

	s.settings = next
	logger.Event("settings updated: auto=%t interval=%dm", next.AutoCheckEnabled, next.IntervalMinutes)
	return next, nil
}

// RecordCheckCompletion stamps a finished check run on the domain.
func (s *TrackerService) RecordCheckCompletion(ctx context.Context, name string, at time.Time) error {
	canonical := domain.Canonicalize(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.index[canonical]
	if !ok {
		logger.Event("check finished for %s but it is no longer tracked", canonical)
		return nil
	}

	count := s.domains[idx].CheckCount + 1
	if err := s.store.UpdateCheckStats(ctx, canonical, at, count); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Event("check finished for %s but it was removed from storage", canonical)
			return nil
		}
		return fmt.Errorf("update check stats for %s: %w", canonical, err)
	}

	s.domains[idx].LastCheckedAt = at
	s.domains[idx].CheckCount = count
	return nil
}

// reindex rebuilds the domain index. Caller must hold mu.
func (s *TrackerService) reindex() {
	s.index = make(map[string]int, len(s.domains))
	for i, d := range s.domains {
		s.index[d.Domain] = i
	}
}
