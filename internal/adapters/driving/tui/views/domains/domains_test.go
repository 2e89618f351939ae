package domains

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/rankwatch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

// MockTrackerService implements driving.TrackerService for testing.
type MockTrackerService struct {
	ListFunc   func(ctx context.Context) []domain.TrackedDomain
	RemoveFunc func(ctx context.Context, name string) error
	Current    domain.Settings
}

func (m *MockTrackerService) AddOrMerge(context.Context, string, []string) (domain.MergeResult, error) {
	return domain.MergeResult{}, nil
}

func (m *MockTrackerService) Remove(ctx context.Context, name string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, name)
	}
	return nil
}

func (m *MockTrackerService) List(ctx context.Context) []domain.TrackedDomain {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil
}

func (m *MockTrackerService) Get(context.Context, string) (domain.TrackedDomain, error) {
	return domain.TrackedDomain{}, domain.ErrNotFound
}

func (m *MockTrackerService) Settings(context.Context) domain.Settings { return m.Current }

func (m *MockTrackerService) UpdateSettings(_ context.Context, u domain.SettingsUpdate) (domain.Settings, error) {
	next, err := u.Apply(m.Current)
	if err != nil {
		return domain.Settings{}, err
	}
	m.Current = next
	return next, nil
}

func (m *MockTrackerService) RecordCheckCompletion(context.Context, string, time.Time) error {
	return nil
}

func (m *MockTrackerService) Reload(context.Context) error { return nil }

func twoDomains() []domain.TrackedDomain {
	return []domain.TrackedDomain{
		{Domain: "example.com", Keywords: []string{"shoes"}, CheckCount: 3,
			LastCheckedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
		{Domain: "other.org", Keywords: []string{"widgets", "gadgets"}},
	}
}

func loadedView(t *testing.T) (*View, *MockTrackerService) {
	t.Helper()
	mock := &MockTrackerService{
		ListFunc: func(context.Context) []domain.TrackedDomain { return twoDomains() },
		Current:  domain.DefaultSettings(),
	}
	view := NewView(nil, mock)
	view.SetDimensions(120, 40)
	view.Update(view.Load()())
	return view, mock
}

func TestNewView(t *testing.T) {
	view := NewView(nil, nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.Empty(t, view.Domains())
	assert.Equal(t, 0, view.SelectedIndex())
	assert.Equal(t, domain.DefaultSettings(), view.Settings())
}

func TestView_Init_NilService(t *testing.T) {
	view := NewView(nil, nil)

	cmd := view.Init()

	require.NotNil(t, cmd)
	loaded, ok := cmd().(messages.DomainsLoaded)
	require.True(t, ok)
	assert.Error(t, loaded.Err)
}

func TestView_Update_DomainsLoaded(t *testing.T) {
	view, _ := loadedView(t)

	assert.Len(t, view.Domains(), 2)
	assert.NoError(t, view.Err())

	out := view.View()
	assert.Contains(t, out, "Tracked domains")
	assert.Contains(t, out, "example.com")
	assert.Contains(t, out, "(3 checks)")
	assert.Contains(t, out, "never")
	assert.Contains(t, out, "• shoes")
}

func TestView_Update_DomainsLoaded_ClampsSelection(t *testing.T) {
	view, _ := loadedView(t)
	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 1, view.SelectedIndex())

	view.Update(messages.DomainsLoaded{Domains: twoDomains()[:1], Settings: domain.DefaultSettings()})

	assert.Equal(t, 0, view.SelectedIndex())
}

func TestView_EmptyState(t *testing.T) {
	view := NewView(nil, &MockTrackerService{})
	view.Update(view.Load()())

	assert.Contains(t, view.View(), "No domains tracked.")
	_, ok := view.Selected()
	assert.False(t, ok)
}

func TestView_Navigation(t *testing.T) {
	view, _ := loadedView(t)

	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, view.SelectedIndex())

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, view.SelectedIndex())

	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, view.SelectedIndex())

	assert.Contains(t, view.View(), "• gadgets")
}

func TestView_CheckAndHistoryRequests(t *testing.T) {
	view, _ := loadedView(t)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.CheckRequested{Domain: "example.com"}, cmd())

	_, cmd = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.HistoryRequested{Domain: "example.com"}, cmd())
}

func TestView_RemoveFailure(t *testing.T) {
	view, mock := loadedView(t)
	mock.RemoveFunc = func(context.Context, string) error { return domain.ErrNotFound }

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	require.NotNil(t, cmd)
	msg := cmd()

	_, reload := view.Update(msg)

	assert.Nil(t, reload)
	assert.ErrorIs(t, view.Err(), domain.ErrNotFound)
	assert.Contains(t, view.View(), "Error:")
}

func TestView_ToggleAuto(t *testing.T) {
	view, mock := loadedView(t)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	require.NotNil(t, cmd)
	saved, ok := cmd().(messages.SettingsSaved)
	require.True(t, ok)
	view.Update(saved)

	assert.False(t, mock.Current.AutoCheckEnabled)
	assert.False(t, view.Settings().AutoCheckEnabled)

	_, cmd = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	view.Update(cmd())
	assert.True(t, view.Settings().AutoCheckEnabled)
}

func TestView_SettingsSavedError(t *testing.T) {
	view, _ := loadedView(t)

	view.Update(messages.SettingsSaved{Err: errors.New("disk full")})

	assert.EqualError(t, view.Err(), "disk full")
	assert.True(t, view.Settings().AutoCheckEnabled)
}
