package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

// mockTrackerService is a mock implementation of driving.TrackerService.
type mockTrackerService struct {
	domains  []domain.TrackedDomain
	settings domain.Settings
	merge    domain.MergeResult
	err      error

	removed []string
	update  domain.SettingsUpdate
}

func (m *mockTrackerService) AddOrMerge(_ context.Context, _ string, _ []string) (domain.MergeResult, error) {
	return m.merge, m.err
}

func (m *mockTrackerService) Remove(_ context.Context, name string) error {
	if m.err != nil {
		return m.err
	}
	m.removed = append(m.removed, name)
	return nil
}

func (m *mockTrackerService) List(_ context.Context) []domain.TrackedDomain {
	return m.domains
}

func (m *mockTrackerService) Get(_ context.Context, name string) (domain.TrackedDomain, error) {
	if m.err != nil {
		return domain.TrackedDomain{}, m.err
	}
	for _, d := range m.domains {
		if d.Domain == domain.Canonicalize(name) {
			return d, nil
		}
	}
	return domain.TrackedDomain{}, domain.ErrNotFound
}

func (m *mockTrackerService) Settings(_ context.Context) domain.Settings {
	return m.settings
}

func (m *mockTrackerService) UpdateSettings(_ context.Context, u domain.SettingsUpdate) (domain.Settings, error) {
	if m.err != nil {
		return domain.Settings{}, m.err
	}
	m.update = u
	next, err := u.Apply(m.settings)
	if err != nil {
		return domain.Settings{}, err
	}
	m.settings = next
	return next, nil
}

func (m *mockTrackerService) RecordCheckCompletion(_ context.Context, _ string, _ time.Time) error {
	return m.err
}

func (m *mockTrackerService) Reload(_ context.Context) error {
	return m.err
}

// mockScheduler is a mock implementation of driving.Scheduler.
type mockScheduler struct {
	report     *domain.DomainReport
	err        error
	state      domain.SchedulerState
	checked    []string
	configured []domain.Settings
}

func (m *mockScheduler) Start(_ context.Context) error { return nil }

func (m *mockScheduler) Stop() error { return nil }

func (m *mockScheduler) Configure(s domain.Settings) {
	m.configured = append(m.configured, s)
}

func (m *mockScheduler) CheckNow(_ context.Context, name string) (*domain.DomainReport, error) {
	m.checked = append(m.checked, name)
	return m.report, m.err
}

func (m *mockScheduler) State() domain.SchedulerState {
	return m.state
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	runs   []domain.CheckRun
	err    error
	domain string
	limit  int
}

func (m *mockHistoryService) Recent(_ context.Context, domainName string, limit int) ([]domain.CheckRun, error) {
	m.domain = domainName
	m.limit = limit
	return m.runs, m.err
}

func sampleDomains() []domain.TrackedDomain {
	added := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return []domain.TrackedDomain{
		{
			Domain:        "example.com",
			Keywords:      []string{"shoes", "red shoes"},
			AddedAt:       added,
			UpdatedAt:     added,
			LastCheckedAt: added.Add(time.Hour),
			CheckCount:    2,
		},
		{
			Domain:    "other.org",
			Keywords:  []string{"widgets"},
			AddedAt:   added,
			UpdatedAt: added,
		},
	}
}
