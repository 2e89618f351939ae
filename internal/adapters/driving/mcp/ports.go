package mcp

import (
	"github.com/custodia-labs/rankwatch/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Tracker owns tracked domains and settings.
	Tracker driving.TrackerService

	// Scheduler runs manual checks and is reconfigured on settings changes.
	Scheduler driving.Scheduler

	// History lists past check runs.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Tracker == nil {
		return ErrMissingTrackerService
	}
	// Scheduler and History are optional; tools that need them report an error.
	return nil
}
