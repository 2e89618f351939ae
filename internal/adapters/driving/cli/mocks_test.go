package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

// mockTracker is an in-memory driving.TrackerService.
type mockTracker struct {
	mu       sync.Mutex
	domains  []domain.TrackedDomain
	settings domain.Settings
	err      error
}

func (m *mockTracker) AddOrMerge(_ context.Context, name string, keywords []string) (domain.MergeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domain.MergeResult{}, m.err
	}
	canonical := domain.Canonicalize(name)
	kws := domain.SplitKeywords(keywords...)
	if canonical == "" || len(kws) == 0 {
		return domain.MergeResult{}, domain.ErrInvalidInput
	}
	for i := range m.domains {
		if m.domains[i].Domain != canonical {
			continue
		}
		added := 0
		for _, kw := range kws {
			if !m.domains[i].HasKeyword(kw) {
				m.domains[i].Keywords = append(m.domains[i].Keywords, kw)
				added++
			}
		}
		return domain.MergeResult{Domain: canonical, AddedKeywords: added, TotalKeywords: len(m.domains[i].Keywords)}, nil
	}
	m.domains = append(m.domains, domain.TrackedDomain{Domain: canonical, Keywords: kws})
	return domain.MergeResult{Domain: canonical, Created: true, AddedKeywords: len(kws), TotalKeywords: len(kws)}, nil
}

func (m *mockTracker) Remove(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	canonical := domain.Canonicalize(name)
	for i := range m.domains {
		if m.domains[i].Domain == canonical {
			m.domains = append(m.domains[:i], m.domains[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockTracker) List(context.Context) []domain.TrackedDomain {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.TrackedDomain(nil), m.domains...)
}

func (m *mockTracker) Get(_ context.Context, name string) (domain.TrackedDomain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	canonical := domain.Canonicalize(name)
	for _, d := range m.domains {
		if d.Domain == canonical {
			return d, nil
		}
	}
	return domain.TrackedDomain{}, domain.ErrNotFound
}

func (m *mockTracker) Settings(context.Context) domain.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

func (m *mockTracker) UpdateSettings(_ context.Context, u domain.SettingsUpdate) (domain.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, err := u.Apply(m.settings)
	if err != nil {
		return domain.Settings{}, err
	}
	m.settings = next
	return next, nil
}

func (m *mockTracker) RecordCheckCompletion(context.Context, string, time.Time) error { return nil }

func (m *mockTracker) Reload(context.Context) error { return nil }

// mockScheduler records manual checks and configurations.
type mockScheduler struct {
	mu         sync.Mutex
	report     *domain.DomainReport
	err        error
	checked    []string
	configured []domain.Settings
	state      domain.SchedulerState
}

func (m *mockScheduler) Start(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockScheduler) Stop() error { return nil }

func (m *mockScheduler) Configure(s domain.Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configured = append(m.configured, s)
}

func (m *mockScheduler) CheckNow(_ context.Context, name string) (*domain.DomainReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checked = append(m.checked, name)
	return m.report, m.err
}

func (m *mockScheduler) State() domain.SchedulerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

type mockHistory struct {
	runs   []domain.CheckRun
	domain string
	limit  int
}

func (m *mockHistory) Recent(_ context.Context, name string, limit int) ([]domain.CheckRun, error) {
	m.domain = name
	m.limit = limit
	return m.runs, nil
}

// mockConfig is an in-memory driving.ConfigService.
type mockConfig struct {
	cfg    domain.AppConfig
	values map[string]string
}

func newMockConfig() *mockConfig {
	return &mockConfig{cfg: domain.DefaultAppConfig(), values: map[string]string{}}
}

func (m *mockConfig) Load() domain.AppConfig { return m.cfg }

func (m *mockConfig) Set(key, value string) error {
	if key != "provider.api_key" && key != "provider.region" {
		return domain.ErrInvalidInput
	}
	m.values[key] = value
	return nil
}

func (m *mockConfig) Keys() []string { return []string{"provider.api_key", "provider.region"} }

func (m *mockConfig) Path() string { return "/tmp/rankwatch/config.toml" }

type testServices struct {
	tracker   *mockTracker
	scheduler *mockScheduler
	history   *mockHistory
	config    *mockConfig
}

func sampleDomains() []domain.TrackedDomain {
	return []domain.TrackedDomain{
		{Domain: "example.com", Keywords: []string{"shoes", "red shoes"}, CheckCount: 2,
			LastCheckedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
		{Domain: "other.org", Keywords: []string{"widgets"}},
	}
}

// setupTestServices injects mocks and resets the command state afterwards.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()
	ts := &testServices{
		tracker:   &mockTracker{domains: sampleDomains(), settings: domain.DefaultSettings()},
		scheduler: &mockScheduler{},
		history:   &mockHistory{},
		config:    newMockConfig(),
	}
	SetServices(&Services{
		Tracker:   ts.tracker,
		Scheduler: ts.scheduler,
		History:   ts.history,
		Config:    ts.config,
	})
	t.Cleanup(func() {
		SetServices(nil)
		listJSON = false
		historyLimit = 20
	})
	return ts
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
