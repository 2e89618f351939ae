package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
	"github.com/custodia-labs/rankwatch/internal/core/ports/driven"
	"github.com/custodia-labs/rankwatch/internal/core/ports/driving"
	"github.com/custodia-labs/rankwatch/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// Scheduler runs the automatic check cycle on a recurring timer and
// serves manual checks. A domain is never checked twice at the same time.
type Scheduler struct {
	tracker driving.TrackerService
	runner  driving.CheckRunner
	sink    driven.ReportSink

	pacing       time.Duration
	intervalUnit time.Duration
	now          func() time.Time

	mu        sync.Mutex
	running   bool
	stopCh    chan struct{}
	runCtx    context.Context
	timerStop chan struct{}
	armed     time.Duration
	settings  domain.Settings
	cycling   bool
	inFlight  map[string]struct{}
	lastStart time.Time
	lastEnd   time.Time
	wg        sync.WaitGroup
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithPacing sets the pause between domains in an automatic cycle.
func WithPacing(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.pacing = d
	}
}

// WithIntervalUnit sets the length of one interval "minute". Tests use
// milliseconds so that a 10-minute interval fires quickly.
func WithIntervalUnit(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.intervalUnit = d
	}
}

// NewScheduler creates a scheduler. It does nothing until Start is called.
func NewScheduler(
	tracker driving.TrackerService,
	runner driving.CheckRunner,
	sink driven.ReportSink,
	opts ...SchedulerOption,
) *Scheduler {
	s := &Scheduler{
		tracker:      tracker,
		runner:       runner,
		sink:         sink,
		pacing:       domain.DefaultPacingSeconds * time.Second,
		intervalUnit: time.Minute,
		now:          time.Now,
		runCtx:       context.Background(),
		inFlight:     make(map[string]struct{}),
		settings:     domain.DefaultSettings(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start arms the timer from the stored settings and blocks until ctx is
// cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	// Cycles outlive cancellation of the caller; Stop ends them between domains.
	s.runCtx = context.WithoutCancel(ctx)
	stopCh := s.stopCh
	s.mu.Unlock()

	logger.Event("scheduler started")
	s.Configure(s.tracker.Settings(ctx))

	select {
	case <-ctx.Done():
		_ = s.Stop()
		return ctx.Err()
	case <-stopCh:
		return nil
	}
}

// Stop disarms the timer and waits for a running cycle to finish its
// current domain. Remaining domains of that cycle are skipped.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.disarmLocked()
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	logger.Event("scheduler stopped")
	return nil
}

// Configure arms, re-arms or disarms the timer. Re-configuring with the
// interval already armed keeps the current timer.
func (s *Scheduler) Configure(settings domain.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if settings.IntervalMinutes <= 0 {
		settings.IntervalMinutes = domain.DefaultIntervalMinutes
	}
	s.settings = settings
	if !s.running {
		return
	}

	if !settings.AutoCheckEnabled {
		if s.timerStop != nil {
			s.disarmLocked()
			logger.Event("automatic checks disabled")
		}
		return
	}

	interval := time.Duration(settings.IntervalMinutes) * s.intervalUnit
	if s.timerStop != nil && s.armed == interval {
		return
	}
	s.disarmLocked()

	s.timerStop = make(chan struct{})
	s.armed = interval
	s.wg.Add(1)
	go s.tick(interval, s.timerStop, s.stopCh)
	logger.Event("automatic checks every %d minutes", settings.IntervalMinutes)
}

// disarmLocked stops the active timer, if any. Caller must hold mu.
func (s *Scheduler) disarmLocked() {
	if s.timerStop != nil {
		close(s.timerStop)
		s.timerStop = nil
		s.armed = 0
	}
}

func (s *Scheduler) tick(interval time.Duration, timerStop, stopCh <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-timerStop:
			return
		case <-stopCh:
			return
		case <-ticker.C:
			s.fire(stopCh)
		}
	}
}

// fire starts an automatic cycle unless a cycle or a manual check is
// still running.
func (s *Scheduler) fire(stopCh <-chan struct{}) {
	s.mu.Lock()
	if s.cycling {
		s.mu.Unlock()
		logger.Event("automatic check skipped: previous cycle still running")
		return
	}
	if len(s.inFlight) > 0 {
		s.mu.Unlock()
		logger.Event("automatic check skipped: manual check in progress")
		return
	}
	s.cycling = true
	s.lastStart = s.now()
	ctx := s.runCtx
	s.wg.Add(1)
	s.mu.Unlock()

	go s.runCycle(ctx, stopCh)
}

func (s *Scheduler) runCycle(ctx context.Context, stopCh <-chan struct{}) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		s.cycling = false
		s.lastEnd = s.now()
		s.mu.Unlock()
	}()

	if !s.tracker.Settings(ctx).AutoCheckEnabled {
		logger.Debug("automatic checks disabled, cycle skipped")
		return
	}
	domains := s.tracker.List(ctx)
	if len(domains) == 0 {
		logger.Debug("no tracked domains, cycle skipped")
		return
	}

	logger.Event("automatic cycle started (%d domains)", len(domains))
	checked := 0
	for _, d := range domains {
		// The domain may have been removed or extended since the cycle began.
		current, err := s.tracker.Get(ctx, d.Domain)
		if err != nil {
			logger.Event("skipping %s: %v", d.Domain, err)
			continue
		}

		if checked > 0 && s.pacing > 0 {
			select {
			case <-time.After(s.pacing):
			case <-stopCh:
				logger.Event("automatic cycle stopped after %d of %d domains", checked, len(domains))
				return
			}
		}

		if !s.acquire(current.Domain) {
			logger.Event("skipping %s: manual check in progress", current.Domain)
			continue
		}
		_, _ = s.checkAndDeliver(ctx, current, domain.TriggerAutomatic)
		s.release(current.Domain)
		checked++
	}
	logger.Event("automatic cycle finished (%d domains checked)", checked)
}

// CheckNow runs a manual check for name, or for the first tracked domain
// when name is empty. The report is delivered to the sink and returned.
func (s *Scheduler) CheckNow(ctx context.Context, name string) (*domain.DomainReport, error) {
	var (
		d   domain.TrackedDomain
		err error
	)
	if name == "" {
		domains := s.tracker.List(ctx)
		if len(domains) == 0 {
			return nil, fmt.Errorf("no tracked domains: %w", domain.ErrNotFound)
		}
		d = domains[0]
	} else {
		d, err = s.tracker.Get(ctx, name)
		if err != nil {
			return nil, err
		}
	}

	if !s.acquire(d.Domain) {
		return nil, fmt.Errorf("domain %s: %w", d.Domain, domain.ErrCheckInProgress)
	}
	defer s.release(d.Domain)

	return s.checkAndDeliver(ctx, d, domain.TriggerManual)
}

func (s *Scheduler) checkAndDeliver(
	ctx context.Context,
	d domain.TrackedDomain,
	trigger domain.Trigger,
) (*domain.DomainReport, error) {
	report, err := s.runner.Run(ctx, d, trigger)
	if err != nil {
		failure := &domain.CheckFailure{
			Domain:      d.Domain,
			TriggeredBy: trigger,
			Err:         err,
			At:          s.now(),
		}
		if sinkErr := s.sink.DeliverFailure(ctx, failure); sinkErr != nil {
			logger.Error("deliver failure for %s: %v", d.Domain, sinkErr)
		}
		return nil, err
	}

	if sinkErr := s.sink.DeliverReport(ctx, report); sinkErr != nil {
		logger.Error("deliver report for %s: %v", d.Domain, sinkErr)
	}
	return report, nil
}

func (s *Scheduler) acquire(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[name]; busy {
		return false
	}
	s.inFlight[name] = struct{}{}
	return true
}

func (s *Scheduler) release(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, name)
}

// State returns a snapshot of the scheduler.
func (s *Scheduler) State() domain.SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()

	inFlight := make([]string, 0, len(s.inFlight))
	for name := range s.inFlight {
		inFlight = append(inFlight, name)
	}
	sort.Strings(inFlight)

	return domain.SchedulerState{
		Running:          s.running,
		Armed:            s.timerStop != nil,
		AutoCheckEnabled: s.settings.AutoCheckEnabled,
		IntervalMinutes:  s.settings.IntervalMinutes,
		CycleInProgress:  s.cycling,
		InFlight:         inFlight,
		LastCycleStarted: s.lastStart,
		LastCycleEnded:   s.lastEnd,
	}
}
