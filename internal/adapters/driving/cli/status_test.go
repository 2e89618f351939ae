package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

func TestStatusCmd(t *testing.T) {
	ts := setupTestServices(t)
	ts.scheduler.state = domain.SchedulerState{InFlight: []string{"example.com"}}

	out, err := execute(t, "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Automatic checks: every 60 minutes")
	assert.Contains(t, out, "Domains: 2")
	assert.Contains(t, out, "Keywords: 3")
	assert.Contains(t, out, "Checking: example.com")
	assert.Contains(t, out, "1 keywords")
}

func TestStatusCmd_AutoOff(t *testing.T) {
	ts := setupTestServices(t)
	ts.tracker.settings.AutoCheckEnabled = false

	out, err := execute(t, "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Automatic checks: off")
}

func TestHistoryCmd(t *testing.T) {
	ts := setupTestServices(t)
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ts.history.runs = []domain.CheckRun{
		{ID: "a", Domain: "example.com", TriggeredBy: domain.TriggerAutomatic, StartedAt: start,
			EndedAt: start.Add(1500 * time.Millisecond), MatchedCount: 1, TotalCount: 2},
		{ID: "b", Domain: "example.com", TriggeredBy: domain.TriggerManual, StartedAt: start,
			EndedAt: start, Error: "HTTP 401"},
	}

	out, err := execute(t, "history", "example.com", "--limit", "5")

	require.NoError(t, err)
	assert.Equal(t, "example.com", ts.history.domain)
	assert.Equal(t, 5, ts.history.limit)
	assert.Contains(t, out, "1/2 found in 1.5s")
	assert.Contains(t, out, "failed: HTTP 401")
}

func TestHistoryCmd_AllDomains(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "history")

	require.NoError(t, err)
	assert.Empty(t, ts.history.domain)
	assert.Equal(t, 20, ts.history.limit)
	assert.Contains(t, out, "No checks recorded yet.")
}
