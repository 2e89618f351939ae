// Package tui provides an interactive terminal user interface for rankwatch.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/rankwatch/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Tracker owns tracked domains and settings.
	Tracker driving.TrackerService

	// Scheduler runs manual checks and follows settings changes.
	Scheduler driving.Scheduler

	// History lists past check runs. Optional.
	History driving.HistoryService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	tracker driving.TrackerService,
	scheduler driving.Scheduler,
	history driving.HistoryService,
) *Ports {
	return &Ports{
		Tracker:   tracker,
		Scheduler: scheduler,
		History:   history,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Tracker == nil {
		return ErrMissingTrackerService
	}
	if p.Scheduler == nil {
		return ErrMissingScheduler
	}
	return nil
}
