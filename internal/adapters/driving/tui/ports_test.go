package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

// MockTrackerService implements driving.TrackerService for testing.
type MockTrackerService struct {
	Domains       []domain.TrackedDomain
	CurrentConfig domain.Settings
	RemoveErr     error
	Removed       []string
}

func (m *MockTrackerService) AddOrMerge(context.Context, string, []string) (domain.MergeResult, error) {
	return domain.MergeResult{}, nil
}

func (m *MockTrackerService) Remove(_ context.Context, name string) error {
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.Removed = append(m.Removed, name)
	return nil
}

func (m *MockTrackerService) List(context.Context) []domain.TrackedDomain {
	return m.Domains
}

func (m *MockTrackerService) Get(_ context.Context, name string) (domain.TrackedDomain, error) {
	for _, d := range m.Domains {
		if d.Domain == name {
			return d, nil
		}
	}
	return domain.TrackedDomain{}, domain.ErrNotFound
}

func (m *MockTrackerService) Settings(context.Context) domain.Settings {
	return m.CurrentConfig
}

func (m *MockTrackerService) UpdateSettings(_ context.Context, u domain.SettingsUpdate) (domain.Settings, error) {
	next, err := u.Apply(m.CurrentConfig)
	if err != nil {
		return domain.Settings{}, err
	}
	m.CurrentConfig = next
	return next, nil
}

func (m *MockTrackerService) RecordCheckCompletion(context.Context, string, time.Time) error {
	return nil
}

func (m *MockTrackerService) Reload(context.Context) error { return nil }

// MockScheduler implements driving.Scheduler for testing.
type MockScheduler struct {
	mu         sync.Mutex
	Report     *domain.DomainReport
	Err        error
	Checked    []string
	Configured []domain.Settings
}

func (m *MockScheduler) Start(context.Context) error { return nil }

func (m *MockScheduler) Stop() error { return nil }

func (m *MockScheduler) Configure(s domain.Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Configured = append(m.Configured, s)
}

func (m *MockScheduler) CheckNow(_ context.Context, name string) (*domain.DomainReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Checked = append(m.Checked, name)
	return m.Report, m.Err
}

func (m *MockScheduler) State() domain.SchedulerState { return domain.SchedulerState{} }

// MockHistoryService implements driving.HistoryService for testing.
type MockHistoryService struct {
	Runs []domain.CheckRun
	Err  error
}

func (m *MockHistoryService) Recent(context.Context, string, int) ([]domain.CheckRun, error) {
	return m.Runs, m.Err
}

func TestNewPorts(t *testing.T) {
	tracker := &MockTrackerService{}
	sched := &MockScheduler{}
	hist := &MockHistoryService{}

	ports := NewPorts(tracker, sched, hist)

	require.NotNil(t, ports)
	assert.Equal(t, tracker, ports.Tracker)
	assert.Equal(t, sched, ports.Scheduler)
	assert.Equal(t, hist, ports.History)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{
			name:    "missing tracker",
			ports:   &Ports{Scheduler: &MockScheduler{}},
			wantErr: ErrMissingTrackerService,
		},
		{
			name:    "missing scheduler",
			ports:   &Ports{Tracker: &MockTrackerService{}},
			wantErr: ErrMissingScheduler,
		},
		{
			name:  "history is optional",
			ports: &Ports{Tracker: &MockTrackerService{}, Scheduler: &MockScheduler{}},
		},
		{
			name:  "all ports",
			ports: NewPorts(&MockTrackerService{}, &MockScheduler{}, &MockHistoryService{}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
