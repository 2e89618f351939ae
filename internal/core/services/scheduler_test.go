package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

type schedulerFixture struct {
	store     *mockTrackedStore
	tracker   *TrackerService
	provider  *mockRankProvider
	sink      *mockReportSink
	scheduler *Scheduler
}

// newSchedulerFixture builds a scheduler whose interval "minute" is one
// millisecond, so the minimum interval of 10 fires every 10ms.
func newSchedulerFixture(t *testing.T, pacing time.Duration, domains ...string) *schedulerFixture {
	t.Helper()
	ctx := context.Background()

	store := newMockTrackedStore()
	store.settings = domain.Settings{AutoCheckEnabled: true, IntervalMinutes: domain.MinIntervalMinutes}
	tracker := newTestTracker(t, store)
	for _, d := range domains {
		_, err := tracker.AddOrMerge(ctx, d, []string{"kw-" + d})
		require.NoError(t, err)
	}

	provider := newMockRankProvider()
	sink := &mockReportSink{}
	runner := NewCheckRunner(provider, NewRankLookup(provider, time.Second), tracker)
	scheduler := NewScheduler(tracker, runner, sink,
		WithPacing(pacing),
		WithIntervalUnit(time.Millisecond),
	)

	return &schedulerFixture{
		store:     store,
		tracker:   tracker,
		provider:  provider,
		sink:      sink,
		scheduler: scheduler,
	}
}

func (f *schedulerFixture) start(t *testing.T) {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		done <- f.scheduler.Start(context.Background())
	}()
	require.Eventually(t, func() bool {
		return f.scheduler.State().Running
	}, time.Second, time.Millisecond)

	t.Cleanup(func() {
		_ = f.scheduler.Stop()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("Start did not return after Stop")
		}
	})
}

func TestScheduler_StartStop(t *testing.T) {
	f := newSchedulerFixture(t, 0)
	f.tracker.settings.AutoCheckEnabled = false

	done := make(chan error, 1)
	go func() {
		done <- f.scheduler.Start(context.Background())
	}()
	require.Eventually(t, func() bool { return f.scheduler.State().Running }, time.Second, time.Millisecond)

	// Second Start is a no-op
	assert.NoError(t, f.scheduler.Start(context.Background()))

	require.NoError(t, f.scheduler.Stop())
	assert.NoError(t, <-done)
	assert.False(t, f.scheduler.State().Running)

	// Stop is idempotent
	assert.NoError(t, f.scheduler.Stop())
}

func TestScheduler_StartContextCancelled(t *testing.T) {
	f := newSchedulerFixture(t, 0)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- f.scheduler.Start(ctx)
	}()
	require.Eventually(t, func() bool { return f.scheduler.State().Running }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
	assert.False(t, f.scheduler.State().Running)
}

func TestScheduler_AutomaticCycle(t *testing.T) {
	f := newSchedulerFixture(t, 0, "a.com", "b.com")
	f.start(t)

	require.Eventually(t, func() bool {
		return len(f.sink.Reports()) >= 2
	}, 2*time.Second, time.Millisecond)

	reports := f.sink.Reports()
	assert.Equal(t, "a.com", reports[0].Domain)
	assert.Equal(t, "b.com", reports[1].Domain)
	assert.Equal(t, domain.TriggerAutomatic, reports[0].TriggeredBy)
	assert.Equal(t, 1, f.provider.MaxActive())

	state := f.scheduler.State()
	assert.True(t, state.Armed)
	assert.Equal(t, domain.MinIntervalMinutes, state.IntervalMinutes)
}

func TestScheduler_EmptyStoreCycleIsNoop(t *testing.T) {
	f := newSchedulerFixture(t, 0)
	f.start(t)

	require.Eventually(t, func() bool {
		return !f.scheduler.State().LastCycleEnded.IsZero()
	}, 2*time.Second, time.Millisecond)

	assert.Empty(t, f.provider.Calls())
	assert.Empty(t, f.sink.Reports())
}

func TestScheduler_DisabledDoesNotArm(t *testing.T) {
	f := newSchedulerFixture(t, 0, "a.com")
	off := false
	_, err := f.tracker.UpdateSettings(context.Background(), domain.SettingsUpdate{AutoCheckEnabled: &off})
	require.NoError(t, err)
	f.start(t)

	time.Sleep(50 * time.Millisecond)
	assert.False(t, f.scheduler.State().Armed)
	assert.Empty(t, f.provider.Calls())
}

func TestScheduler_OverlappingFireIsSkipped(t *testing.T) {
	f := newSchedulerFixture(t, 0, "a.com")
	f.provider.block = make(chan struct{})
	f.provider.started = make(chan string, 16)
	f.start(t)

	select {
	case <-f.provider.started:
	case <-time.After(2 * time.Second):
		t.Fatal("cycle did not start")
	}
	assert.True(t, f.scheduler.State().CycleInProgress)

	// Several ticks pass while the first cycle is blocked
	time.Sleep(60 * time.Millisecond)
	assert.Len(t, f.provider.Calls(), 1)

	close(f.provider.block)
	require.Eventually(t, func() bool {
		return len(f.sink.Reports()) >= 1
	}, time.Second, time.Millisecond)
}

func TestScheduler_FireSkippedWhileManualCheckRuns(t *testing.T) {
	f := newSchedulerFixture(t, 0, "a.com", "b.com")
	f.provider.block = make(chan struct{})
	f.provider.started = make(chan string, 16)

	manual := make(chan error, 1)
	go func() {
		_, err := f.scheduler.CheckNow(context.Background(), "a.com")
		manual <- err
	}()
	<-f.provider.started

	f.start(t)
	require.Eventually(t, func() bool { return f.scheduler.State().Armed }, time.Second, time.Millisecond)

	// Several ticks pass while the manual check is blocked
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{"kw-a.com"}, f.provider.Calls())
	assert.False(t, f.scheduler.State().CycleInProgress)
	assert.True(t, f.scheduler.State().LastCycleStarted.IsZero())

	close(f.provider.block)
	require.NoError(t, <-manual)

	// The timer keeps running, so the next fire checks every domain
	require.Eventually(t, func() bool {
		return len(f.sink.Reports()) >= 3
	}, 2*time.Second, time.Millisecond)
	reports := f.sink.Reports()
	assert.Equal(t, domain.TriggerManual, reports[0].TriggeredBy)
	assert.Equal(t, domain.TriggerAutomatic, reports[1].TriggeredBy)
	assert.Equal(t, "a.com", reports[1].Domain)
	assert.Equal(t, "b.com", reports[2].Domain)
}

func TestScheduler_PacingBetweenDomains(t *testing.T) {
	const pacing = 200 * time.Millisecond
	f := newSchedulerFixture(t, pacing, "a.com", "b.com")

	started := time.Now()
	f.start(t)

	require.Eventually(t, func() bool {
		return len(f.sink.Reports()) >= 2
	}, 3*time.Second, time.Millisecond)

	calls := f.provider.CallTimes()
	delivered := f.sink.DeliveredAt()
	require.GreaterOrEqual(t, len(calls), 2)
	require.GreaterOrEqual(t, len(delivered), 1)

	// The first domain is checked as soon as the timer fires
	assert.Less(t, calls[0].Sub(started), pacing/2)
	// The second waits the full pacing delay after the first report
	assert.GreaterOrEqual(t, calls[1].Sub(delivered[0]), pacing)
	assert.Equal(t, []string{"kw-a.com", "kw-b.com"}, f.provider.Calls()[:2])
}

func TestScheduler_ManualCheckDuringCycleOnOtherDomain(t *testing.T) {
	// Pacing long enough that a blocked manual check would be obvious
	f := newSchedulerFixture(t, time.Hour, "a.com", "b.com")
	f.start(t)

	// Wait for the cycle to finish a.com and enter the pacing delay
	require.Eventually(t, func() bool {
		return len(f.sink.Reports()) == 1 && f.scheduler.State().CycleInProgress
	}, 2*time.Second, time.Millisecond)

	start := time.Now()
	report, err := f.scheduler.CheckNow(context.Background(), "b.com")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, "b.com", report.Domain)
	assert.Equal(t, domain.TriggerManual, report.TriggeredBy)
}

func TestScheduler_ManualCheckBusy(t *testing.T) {
	f := newSchedulerFixture(t, 0, "a.com")
	f.provider.block = make(chan struct{})
	f.provider.started = make(chan string, 4)

	first := make(chan error, 1)
	go func() {
		_, err := f.scheduler.CheckNow(context.Background(), "a.com")
		first <- err
	}()
	<-f.provider.started

	_, err := f.scheduler.CheckNow(context.Background(), "https://A.com/")
	assert.ErrorIs(t, err, domain.ErrCheckInProgress)
	assert.Equal(t, []string{"a.com"}, f.scheduler.State().InFlight)

	close(f.provider.block)
	assert.NoError(t, <-first)
	assert.Len(t, f.provider.Calls(), 1)
	assert.Empty(t, f.scheduler.State().InFlight)
}

func TestScheduler_CheckNowDefaultsToFirstDomain(t *testing.T) {
	f := newSchedulerFixture(t, 0, "first.com", "second.com")

	report, err := f.scheduler.CheckNow(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "first.com", report.Domain)
	require.Len(t, f.sink.Reports(), 1)
}

func TestScheduler_CheckNowErrors(t *testing.T) {
	f := newSchedulerFixture(t, 0)

	_, err := f.scheduler.CheckNow(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.scheduler.CheckNow(context.Background(), "missing.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScheduler_CheckNowDeliversFailure(t *testing.T) {
	f := newSchedulerFixture(t, 0, "a.com")
	f.provider.validateErr = domain.ErrProviderNotConfigured

	report, err := f.scheduler.CheckNow(context.Background(), "a.com")
	assert.Nil(t, report)
	assert.ErrorIs(t, err, domain.ErrProviderNotConfigured)

	failures := f.sink.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "a.com", failures[0].Domain)
	assert.Equal(t, domain.TriggerManual, failures[0].TriggeredBy)
	assert.Empty(t, f.sink.Reports())
}

func TestScheduler_DisableDoesNotCancelInFlightCycle(t *testing.T) {
	f := newSchedulerFixture(t, 0, "a.com")
	f.provider.block = make(chan struct{})
	f.provider.started = make(chan string, 4)
	f.start(t)

	<-f.provider.started
	f.scheduler.Configure(domain.Settings{AutoCheckEnabled: false, IntervalMinutes: domain.MinIntervalMinutes})
	assert.False(t, f.scheduler.State().Armed)

	close(f.provider.block)
	require.Eventually(t, func() bool {
		return len(f.sink.Reports()) == 1
	}, time.Second, time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Len(t, f.provider.Calls(), 1)
}

func TestScheduler_ConfigureReArms(t *testing.T) {
	f := newSchedulerFixture(t, 0)
	f.start(t)

	f.scheduler.Configure(domain.Settings{AutoCheckEnabled: true, IntervalMinutes: 30})
	state := f.scheduler.State()
	assert.True(t, state.Armed)
	assert.Equal(t, 30, state.IntervalMinutes)

	// Same interval again keeps the timer
	f.scheduler.Configure(domain.Settings{AutoCheckEnabled: true, IntervalMinutes: 30})
	assert.True(t, f.scheduler.State().Armed)
}

func TestScheduler_ConfigureBeforeStart(t *testing.T) {
	f := newSchedulerFixture(t, 0)
	f.scheduler.Configure(domain.Settings{AutoCheckEnabled: true, IntervalMinutes: 20})

	state := f.scheduler.State()
	assert.False(t, state.Running)
	assert.False(t, state.Armed)
	assert.Equal(t, 20, state.IntervalMinutes)
}
