// Package domains provides the tracked domain dashboard for the TUI.
package domains

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/rankwatch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/rankwatch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/rankwatch/internal/core/domain"
	"github.com/custodia-labs/rankwatch/internal/core/ports/driving"
)

// View is the tracked domain dashboard.
type View struct {
	styles  *styles.Styles
	tracker driving.TrackerService

	domains  []domain.TrackedDomain
	settings domain.Settings
	selected int
	width    int
	height   int
	ready    bool
	err      error
	loading  bool
}

// NewView creates a new domains view.
func NewView(s *styles.Styles, tracker driving.TrackerService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		tracker:  tracker,
		domains:  []domain.TrackedDomain{},
		settings: domain.DefaultSettings(),
	}
}

// Init initialises the view and loads domains.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.Load()
}

// Load returns a command that loads domains and settings.
func (v *View) Load() tea.Cmd {
	return func() tea.Msg {
		if v.tracker == nil {
			return messages.DomainsLoaded{Err: fmt.Errorf("tracker service not available")}
		}
		ctx := context.Background()
		return messages.DomainsLoaded{
			Domains:  v.tracker.List(ctx),
			Settings: v.tracker.Settings(ctx),
		}
	}
}

// Update handles messages for the domains view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DomainsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.domains = msg.Domains
		v.settings = msg.Settings
		v.err = nil
		if v.selected >= len(v.domains) {
			v.selected = max(len(v.domains)-1, 0)
		}
		return v, nil

	case messages.DomainRemoved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.Load()

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.settings = msg.Settings
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.domains)-1 {
			v.selected++
		}
	case "enter", "c":
		if d, ok := v.Selected(); ok {
			return v, func() tea.Msg {
				return messages.CheckRequested{Domain: d.Domain}
			}
		}
	case "h":
		if d, ok := v.Selected(); ok {
			return v, func() tea.Msg {
				return messages.HistoryRequested{Domain: d.Domain}
			}
		}
	case "d", "delete":
		if d, ok := v.Selected(); ok {
			return v, v.removeDomain(d.Domain)
		}
	case "a":
		return v, v.toggleAuto()
	case "r":
		v.loading = true
		return v, v.Load()
	}

	return v, nil
}

// removeDomain returns a command that stops tracking a domain.
func (v *View) removeDomain(name string) tea.Cmd {
	return func() tea.Msg {
		if v.tracker == nil {
			return messages.DomainRemoved{Domain: name, Err: fmt.Errorf("tracker service not available")}
		}
		err := v.tracker.Remove(context.Background(), name)
		return messages.DomainRemoved{Domain: name, Err: err}
	}
}

// toggleAuto returns a command that flips automatic checks.
func (v *View) toggleAuto() tea.Cmd {
	enabled := !v.settings.AutoCheckEnabled
	return func() tea.Msg {
		if v.tracker == nil {
			return messages.SettingsSaved{Err: fmt.Errorf("tracker service not available")}
		}
		settings, err := v.tracker.UpdateSettings(context.Background(), domain.SettingsUpdate{
			AutoCheckEnabled: &enabled,
		})
		return messages.SettingsSaved{Settings: settings, Err: err}
	}
}

// View renders the domains view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Tracked domains"))
	b.WriteString("\n\n")

	switch {
	case v.loading && len(v.domains) == 0:
		b.WriteString(v.styles.Muted.Render("Loading domains..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.domains) == 0:
		b.WriteString(v.styles.Muted.Render("No domains tracked. Add one with: rankwatch add <domain> <keywords>"))
	default:
		for i := range v.domains {
			b.WriteString(v.renderDomain(i, &v.domains[i]))
			b.WriteString("\n")
		}
		if d, ok := v.Selected(); ok {
			b.WriteString("\n")
			b.WriteString(v.styles.Subtitle.Render("Keywords"))
			b.WriteString("\n")
			for _, kw := range d.Keywords {
				b.WriteString(v.styles.Muted.Render("  • " + kw))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

// renderDomain renders a single domain line.
func (v *View) renderDomain(index int, d *domain.TrackedDomain) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	last := "never"
	if d.Checked() {
		last = d.LastCheckedAt.Local().Format("2006-01-02 15:04")
	}

	name := d.Domain
	maxNameLen := v.width - 50
	if maxNameLen < 16 {
		maxNameLen = 16
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	line := fmt.Sprintf("%s%-*s %3d keywords  last %s  (%d checks)",
		indicator, maxNameLen, name, len(d.Keywords), last, d.CheckCount)
	if index == v.selected {
		return v.styles.Selected.Render(line)
	}
	return v.styles.Normal.Render(line)
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[enter] check  [h] history  [a] auto on/off  [d] remove  [r] reload  [?] help  [q] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the highlighted domain.
func (v *View) Selected() (domain.TrackedDomain, bool) {
	if v.selected < 0 || v.selected >= len(v.domains) {
		return domain.TrackedDomain{}, false
	}
	return v.domains[v.selected], true
}

// Domains returns the current list of domains.
func (v *View) Domains() []domain.TrackedDomain {
	return v.domains
}

// Settings returns the last loaded settings.
func (v *View) Settings() domain.Settings {
	return v.settings
}

// SelectedIndex returns the currently selected index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
