// Package history provides the check history view for the TUI.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/rankwatch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/rankwatch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/rankwatch/internal/core/domain"
	"github.com/custodia-labs/rankwatch/internal/core/ports/driving"
)

// Limit is how many runs the view shows.
const Limit = 20

// View lists past check runs of a domain.
type View struct {
	styles  *styles.Styles
	history driving.HistoryService

	domain  string
	runs    []domain.CheckRun
	err     error
	loading bool
	width   int
	height  int
}

// NewView creates a new history view.
func NewView(s *styles.Styles, history driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, history: history}
}

// SetDomain selects the domain and returns a command loading its runs.
func (v *View) SetDomain(name string) tea.Cmd {
	v.domain = name
	v.runs = nil
	v.err = nil
	v.loading = true
	return v.load(name)
}

func (v *View) load(name string) tea.Cmd {
	return func() tea.Msg {
		if v.history == nil {
			return messages.HistoryLoaded{Domain: name, Err: fmt.Errorf("history not available")}
		}
		runs, err := v.history.Recent(context.Background(), name, Limit)
		return messages.HistoryLoaded{Domain: name, Runs: runs, Err: err}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.HistoryLoaded:
		if msg.Domain != v.domain {
			return v, nil
		}
		v.loading = false
		v.runs = msg.Runs
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewDomains}
			}
		case "r":
			return v, v.SetDomain(v.domain)
		}
	}
	return v, nil
}

// View renders the history.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("%s check history", v.domain)))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading history..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.runs) == 0:
		b.WriteString(v.styles.Muted.Render("No checks recorded yet."))
	default:
		for _, r := range v.runs {
			b.WriteString(v.renderRun(r))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[r] reload  [esc] back  [q] quit"))
	return b.String()
}

func (v *View) renderRun(r domain.CheckRun) string {
	at := r.StartedAt.Local().Format("2006-01-02 15:04")
	prefix := fmt.Sprintf("  %s  %-9s ", at, r.TriggeredBy)
	if !r.Succeeded() {
		return v.styles.Normal.Render(prefix) + v.styles.Error.Render(r.Error)
	}
	result := fmt.Sprintf("%d/%d found  %s", r.MatchedCount, r.TotalCount, r.Duration().Round(100*time.Millisecond))
	return v.styles.Normal.Render(prefix) + v.styles.Success.Render(result)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Domain returns the domain whose history is shown.
func (v *View) Domain() string {
	return v.domain
}

// Runs returns the loaded runs.
func (v *View) Runs() []domain.CheckRun {
	return v.runs
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
