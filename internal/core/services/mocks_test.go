package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

// --- Mock implementations shared by the service tests ---

// mockRankProvider implements driven.RankProvider for testing.
type mockRankProvider struct {
	mu          sync.Mutex
	validateErr error
	results     map[string][]domain.OrganicResult
	errs        map[string]error
	delay       time.Duration
	block       chan struct{}
	started     chan string
	calls       []string
	callTimes   []time.Time
	active      int
	maxActive   int
}

func newMockRankProvider() *mockRankProvider {
	return &mockRankProvider{
		results: make(map[string][]domain.OrganicResult),
		errs:    make(map[string]error),
	}
}

func (m *mockRankProvider) Validate() error {
	return m.validateErr
}

func (m *mockRankProvider) Search(ctx context.Context, query string) ([]domain.OrganicResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, query)
	m.callTimes = append(m.callTimes, time.Now())
	m.active++
	if m.active > m.maxActive {
		m.maxActive = m.active
	}
	started, block, delay := m.started, m.block, m.delay
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.active--
		m.mu.Unlock()
	}()

	if started != nil {
		select {
		case started <- query:
		default:
		}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[query]; err != nil {
		return nil, err
	}
	return m.results[query], nil
}

func (m *mockRankProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockRankProvider) CallTimes() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Time(nil), m.callTimes...)
}

func (m *mockRankProvider) MaxActive() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxActive
}

// mockTrackedStore implements driven.TrackedStore for testing.
type mockTrackedStore struct {
	mu        sync.Mutex
	domains   []domain.TrackedDomain
	settings  domain.Settings
	loadErr   error
	saveErr   error
	statsErr  error
	saves     int
	statCalls int
}

func newMockTrackedStore() *mockTrackedStore {
	return &mockTrackedStore{settings: domain.DefaultSettings()}
}

func (m *mockTrackedStore) Load(_ context.Context) (*domain.TrackerState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	state := &domain.TrackerState{Settings: m.settings}
	for _, d := range m.domains {
		state.Domains = append(state.Domains, d.Clone())
	}
	return state, nil
}

func (m *mockTrackedStore) SaveDomain(_ context.Context, d domain.TrackedDomain) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	for i := range m.domains {
		if m.domains[i].Domain == d.Domain {
			m.domains[i] = d.Clone()
			return nil
		}
	}
	m.domains = append(m.domains, d.Clone())
	return nil
}

func (m *mockTrackedStore) UpdateCheckStats(_ context.Context, name string, at time.Time, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statCalls++
	if m.statsErr != nil {
		return m.statsErr
	}
	for i := range m.domains {
		if m.domains[i].Domain == name {
			m.domains[i].LastCheckedAt = at
			m.domains[i].CheckCount = count
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockTrackedStore) DeleteDomain(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	for i := range m.domains {
		if m.domains[i].Domain == name {
			m.domains = append(m.domains[:i], m.domains[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockTrackedStore) SaveSettings(_ context.Context, s domain.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.settings = s
	return nil
}

func (m *mockTrackedStore) stored(name string) (domain.TrackedDomain, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.domains {
		if d.Domain == name {
			return d.Clone(), true
		}
	}
	return domain.TrackedDomain{}, false
}

// mockReportSink implements driven.ReportSink for testing.
type mockReportSink struct {
	mu          sync.Mutex
	reports     []*domain.DomainReport
	deliveredAt []time.Time
	failures    []*domain.CheckFailure
	err         error
}

func (m *mockReportSink) DeliverReport(_ context.Context, r *domain.DomainReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, r)
	m.deliveredAt = append(m.deliveredAt, time.Now())
	return m.err
}

func (m *mockReportSink) DeliverFailure(_ context.Context, f *domain.CheckFailure) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, f)
	return m.err
}

func (m *mockReportSink) Reports() []*domain.DomainReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.DomainReport(nil), m.reports...)
}

func (m *mockReportSink) DeliveredAt() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Time(nil), m.deliveredAt...)
}

func (m *mockReportSink) Failures() []*domain.CheckFailure {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.CheckFailure(nil), m.failures...)
}

// mockHistoryStore implements driven.CheckHistoryStore for testing.
type mockHistoryStore struct {
	mu      sync.Mutex
	runs    []domain.CheckRun
	pruned  int
	listErr error
}

func (m *mockHistoryStore) RecordRun(_ context.Context, run *domain.CheckRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, *run)
	return nil
}

func (m *mockHistoryStore) ListRuns(_ context.Context, name string, limit int) ([]domain.CheckRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.CheckRun
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		if name == "" || m.runs[i].Domain == name {
			out = append(out, m.runs[i])
		}
	}
	return out, nil
}

func (m *mockHistoryStore) PruneRuns(_ context.Context, keep int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruned = keep
	return nil
}

// mockConfigStore implements driven.ConfigStore for testing.
type mockConfigStore struct {
	values map[string]any
	setErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	s, _ := m.values[key].(string)
	return s
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	switch v := m.values[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }
func (m *mockConfigStore) Load() error { return nil }
func (m *mockConfigStore) Path() string {
	return "/tmp/rankwatch/config.toml"
}

var errStoreDown = errors.New("store down")
