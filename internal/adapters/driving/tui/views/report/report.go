// Package report provides the check report view for the TUI.
package report

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/rankwatch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/rankwatch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

// View shows the outcome of the last manual check.
type View struct {
	styles *styles.Styles

	domain string
	report *domain.DomainReport
	err    error
	width  int
	height int
}

// NewView creates a new report view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s}
}

// SetResult stores the outcome of a check.
func (v *View) SetResult(domainName string, r *domain.DomainReport, err error) {
	v.domain = domainName
	v.report = r
	v.err = err
}

// Update handles messages for the report view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch keyMsg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDomains}
		}
	case "c":
		if v.domain != "" {
			name := v.domain
			return v, func() tea.Msg {
				return messages.CheckRequested{Domain: name}
			}
		}
	case "h":
		if v.domain != "" {
			name := v.domain
			return v, func() tea.Msg {
				return messages.HistoryRequested{Domain: name}
			}
		}
	}
	return v, nil
}

// View renders the report.
func (v *View) View() string {
	var b strings.Builder

	if v.err != nil {
		b.WriteString(v.styles.Title.Render(v.domain))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Check failed: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if v.report == nil {
		b.WriteString(v.styles.Muted.Render("No report yet."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("%s ranking results", v.report.Domain)))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(v.report.CheckedAt.Local().Format("2006-01-02 15:04:05")))
	b.WriteString("\n\n")

	width := 0
	for _, r := range v.report.Results {
		width = max(width, len(r.Keyword))
	}

	for _, r := range v.report.Results {
		b.WriteString(v.renderResult(r, width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	summary := fmt.Sprintf("%d/%d keywords found", v.report.MatchedCount, v.report.TotalCount)
	if v.report.MatchedCount > 0 {
		b.WriteString(v.styles.Success.Render(summary))
	} else {
		b.WriteString(v.styles.Muted.Render(summary))
	}
	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderResult(r domain.KeywordResult, width int) string {
	kw := fmt.Sprintf("  %-*s  ", width, r.Keyword)
	if !r.Found() {
		return v.styles.Normal.Render(kw) + v.styles.Error.Render(r.Error)
	}
	pos := v.styles.Rank(r.Position).Render(fmt.Sprintf("#%-3d", r.Position))
	return v.styles.Normal.Render(kw) + pos + " " + v.styles.Muted.Render(r.URL)
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[c] check again  [h] history  [esc] back  [q] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Report returns the displayed report.
func (v *View) Report() *domain.DomainReport {
	return v.report
}

// Err returns the check error, if any.
func (v *View) Err() error {
	return v.err
}
