package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
	"github.com/custodia-labs/rankwatch/internal/core/ports/driven"
)

// Ensure TrackedStore implements the interfaces.
var (
	_ driven.TrackedStore      = (*TrackedStore)(nil)
	_ driven.CheckHistoryStore = (*TrackedStore)(nil)
)

// TrackedStore is an in-memory implementation of driven.TrackedStore and
// driven.CheckHistoryStore.
type TrackedStore struct {
	mu       sync.RWMutex
	domains  []domain.TrackedDomain
	settings domain.Settings
	runs     []domain.CheckRun
}

// NewTrackedStore creates an empty store with default settings.
func NewTrackedStore() *TrackedStore {
	return &TrackedStore{settings: domain.DefaultSettings()}
}

// Load returns a copy of the stored state.
func (s *TrackedStore) Load(_ context.Context) (*domain.TrackerState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := &domain.TrackerState{Settings: s.settings}
	for _, d := range s.domains {
		state.Domains = append(state.Domains, d.Clone())
	}
	return state, nil
}

// SaveDomain creates or replaces a domain record. Check stats of an
// existing record are kept.
func (s *TrackedStore) SaveDomain(_ context.Context, d domain.TrackedDomain) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.domains {
		if s.domains[i].Domain == d.Domain {
			s.domains[i].Keywords = append([]string(nil), d.Keywords...)
			s.domains[i].UpdatedAt = d.UpdatedAt
			return nil
		}
	}
	s.domains = append(s.domains, d.Clone())
	return nil
}

// UpdateCheckStats sets the check stats of an existing domain.
func (s *TrackedStore) UpdateCheckStats(_ context.Context, name string, lastChecked time.Time, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.domains {
		if s.domains[i].Domain == name {
			s.domains[i].LastCheckedAt = lastChecked
			s.domains[i].CheckCount = count
			return nil
		}
	}
	return domain.ErrNotFound
}

// DeleteDomain removes a domain.
func (s *TrackedStore) DeleteDomain(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.domains {
		if s.domains[i].Domain == name {
			s.domains = append(s.domains[:i], s.domains[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// SaveSettings replaces the stored settings.
func (s *TrackedStore) SaveSettings(_ context.Context, settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}

// RecordRun appends a check run.
func (s *TrackedStore) RecordRun(_ context.Context, run *domain.CheckRun) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, *run)
	return nil
}

// ListRuns returns recent runs, most recent first.
func (s *TrackedStore) ListRuns(_ context.Context, name string, limit int) ([]domain.CheckRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.CheckRun
	for i := len(s.runs) - 1; i >= 0 && len(out) < limit; i-- {
		if name == "" || s.runs[i].Domain == name {
			out = append(out, s.runs[i])
		}
	}
	return out, nil
}

// PruneRuns keeps only the most recent 'keep' runs.
func (s *TrackedStore) PruneRuns(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.runs) > keep {
		s.runs = append([]domain.CheckRun(nil), s.runs[len(s.runs)-keep:]...)
	}
	return nil
}
