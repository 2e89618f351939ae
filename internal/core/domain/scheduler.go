package domain

import "time"

// SchedulerState is a point-in-time snapshot of the scheduler.
type SchedulerState struct {
	// Running is true between Start and Stop.
	Running bool

	// Armed is true while the recurring timer is active.
	Armed bool

	// AutoCheckEnabled mirrors the stored settings at the last Configure.
	AutoCheckEnabled bool

	// IntervalMinutes is the period the timer is currently armed with.
	IntervalMinutes int

	// CycleInProgress is true while an automatic cycle is executing.
	CycleInProgress bool

	// InFlight lists the domains with a check run currently executing.
	InFlight []string

	// LastCycleStarted is when the last automatic cycle began. Zero if none.
	LastCycleStarted time.Time

	// LastCycleEnded is when the last automatic cycle finished. Zero if none.
	LastCycleEnded time.Time
}

// CheckRun records the outcome of one check run for the history log.
type CheckRun struct {
	// ID matches the report ID when the run produced a report.
	ID string

	Domain      string
	TriggeredBy Trigger
	StartedAt   time.Time
	EndedAt     time.Time

	// MatchedCount and TotalCount are copied from the report.
	MatchedCount int
	TotalCount   int

	// Error is set when the run failed before producing a report.
	Error string
}

// Succeeded reports whether the run produced a report.
func (r CheckRun) Succeeded() bool {
	return r.Error == ""
}

// Duration returns how long the run took.
func (r CheckRun) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// DefaultHistoryLimit is how many check runs are kept in history.
const DefaultHistoryLimit = 100
