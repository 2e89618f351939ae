// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewDomains is the tracked domain dashboard.
	ViewDomains ViewType = iota
	// ViewReport shows the last check report.
	ViewReport
	// ViewHistory lists past check runs of a domain.
	ViewHistory
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewDomains:
		return "domains"
	case ViewReport:
		return "report"
	case ViewHistory:
		return "history"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// DomainsLoaded carries the tracked domains and settings.
type DomainsLoaded struct {
	Domains  []domain.TrackedDomain
	Settings domain.Settings
	Err      error
}

// CheckRequested asks for a manual check of a domain.
type CheckRequested struct {
	Domain string
}

// CheckCompleted carries the outcome of a manual check.
type CheckCompleted struct {
	Domain string
	Report *domain.DomainReport
	Err    error
}

// DomainRemoved signals a domain was removed.
type DomainRemoved struct {
	Domain string
	Err    error
}

// SettingsSaved signals the settings were changed.
type SettingsSaved struct {
	Settings domain.Settings
	Err      error
}

// HistoryRequested asks for the check history of a domain.
type HistoryRequested struct {
	Domain string
}

// HistoryLoaded carries past check runs.
type HistoryLoaded struct {
	Domain string
	Runs   []domain.CheckRun
	Err    error
}

// RefreshTick triggers a periodic reload of the dashboard.
type RefreshTick struct{}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
