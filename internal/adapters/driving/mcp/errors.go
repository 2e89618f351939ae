// Package mcp provides an MCP (Model Context Protocol) server adapter for rankwatch.
// It lets AI assistants manage tracked domains and trigger ranking checks.
package mcp

import "errors"

// ErrMissingTrackerService is returned when the tracker service is not provided.
var ErrMissingTrackerService = errors.New("mcp: tracker service is required")

// ErrMissingScheduler is returned by check tools when no scheduler is wired.
var ErrMissingScheduler = errors.New("mcp: scheduler is not available")
