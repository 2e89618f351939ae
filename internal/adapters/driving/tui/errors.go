package tui

import "errors"

// ErrMissingTrackerService is returned when the tracker service is not provided.
var ErrMissingTrackerService = errors.New("tui: tracker service is required")

// ErrMissingScheduler is returned when the scheduler is not provided.
var ErrMissingScheduler = errors.New("tui: scheduler is required")
