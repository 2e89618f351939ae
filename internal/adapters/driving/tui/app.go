package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/rankwatch/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/rankwatch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/rankwatch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/rankwatch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/rankwatch/internal/adapters/driving/tui/views/domains"
	"github.com/custodia-labs/rankwatch/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/rankwatch/internal/adapters/driving/tui/views/report"
)

// DefaultRefreshInterval is how often the dashboard reloads in the background.
const DefaultRefreshInterval = 5 * time.Second

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusBar *status.Bar

	domainsView *domains.View
	reportView  *report.View
	historyView *history.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is restored when leaving help.
	previousView messages.ViewType

	// checking is the domain with a manual check running, if any.
	checking string

	// err holds the last error that occurred.
	err error

	refreshInterval time.Duration

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:           ports,
		ctx:             context.Background(),
		styles:          s,
		keymap:          km,
		statusBar:       status.NewBar(s, km),
		domainsView:     domains.NewView(s, ports.Tracker),
		reportView:      report.NewView(s),
		historyView:     history.NewView(s, ports.History),
		currentView:     messages.ViewDomains,
		refreshInterval: DefaultRefreshInterval,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithRefreshInterval overrides DefaultRefreshInterval. Zero disables refreshing.
func (a *App) WithRefreshInterval(d time.Duration) *App {
	a.refreshInterval = d
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("rankwatch"),
		a.domainsView.Init(),
		a.scheduleRefresh(),
	)
}

func (a *App) scheduleRefresh() tea.Cmd {
	if a.refreshInterval <= 0 {
		return nil
	}
	return tea.Tick(a.refreshInterval, func(time.Time) tea.Msg {
		return messages.RefreshTick{}
	})
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case spinner.TickMsg:
		a.statusBar, cmd = a.statusBar.Update(msg)
		return a, cmd

	case messages.CheckRequested:
		if a.checking != "" {
			a.statusBar.SetMessage(fmt.Sprintf("a check of %s is already running", a.checking))
			return a, nil
		}
		a.checking = msg.Domain
		return a, tea.Batch(a.statusBar.StartChecking(msg.Domain), a.runCheck(msg.Domain))

	case messages.CheckCompleted:
		a.checking = ""
		a.statusBar.Clear()
		a.reportView.SetResult(msg.Domain, msg.Report, msg.Err)
		a.currentView = messages.ViewReport
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
		}
		return a, a.domainsView.Load()

	case messages.HistoryRequested:
		a.currentView = messages.ViewHistory
		return a, a.historyView.SetDomain(msg.Domain)

	case messages.HistoryLoaded:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.DomainsLoaded:
		a.domainsView, cmd = a.domainsView.Update(msg)
		a.refreshSummary()
		return a, cmd

	case messages.DomainRemoved:
		a.domainsView, cmd = a.domainsView.Update(msg)
		if msg.Err == nil {
			a.statusBar.SetMessage(fmt.Sprintf("removed %s", msg.Domain))
		}
		return a, cmd

	case messages.SettingsSaved:
		a.domainsView, cmd = a.domainsView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
			return a, cmd
		}
		a.ports.Scheduler.Configure(msg.Settings)
		a.refreshSummary()
		return a, cmd

	case messages.RefreshTick:
		return a, tea.Batch(a.domainsView.Load(), a.scheduleRefresh())

	case messages.ViewChanged:
		a.currentView = msg.View
		if a.checking == "" && a.statusBar.State() == status.StateError {
			a.statusBar.Clear()
		}
		if msg.View == messages.ViewDomains {
			return a, a.domainsView.Load()
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

// handleKeyMsg handles global keys and forwards the rest to the active view.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if keymap.Matches(msg.String(), a.keymap.Quit) {
		return a, tea.Quit
	}

	if a.currentView == messages.ViewHelp {
		if msg.Type == tea.KeyEsc || keymap.Matches(msg.String(), a.keymap.Help) {
			a.currentView = a.previousView
		}
		return a, nil
	}
	if keymap.Matches(msg.String(), a.keymap.Help) {
		a.previousView = a.currentView
		a.currentView = messages.ViewHelp
		return a, nil
	}

	switch a.currentView {
	case messages.ViewDomains:
		a.domainsView, cmd = a.domainsView.Update(msg)
	case messages.ViewReport:
		a.reportView, cmd = a.reportView.Update(msg)
	case messages.ViewHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

// runCheck returns a command running a manual check.
func (a *App) runCheck(name string) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		r, err := a.ports.Scheduler.CheckNow(ctx, name)
		return messages.CheckCompleted{Domain: name, Report: r, Err: err}
	}
}

func (a *App) refreshSummary() {
	settings := a.domainsView.Settings()
	a.statusBar.SetSummary(len(a.domainsView.Domains()), settings.AutoCheckEnabled, settings.IntervalMinutes)
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewReport:
		body = a.reportView.View()
	case messages.ViewHistory:
		body = a.historyView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	case messages.ViewDomains:
		body = a.domainsView.View()
	default:
		body = a.domainsView.View()
	}

	return body + "\n\n" + a.statusBar.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	out := a.styles.Title.Render("Help") + "\n\n"
	for _, group := range a.keymap.FullHelp() {
		for _, b := range group {
			h := b.Help()
			out += fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc)
		}
		out += "\n"
	}
	return out + a.styles.Help.Render("[esc] back")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Checking returns the domain being checked, or the empty string.
func (a *App) Checking() string {
	return a.checking
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.domainsView.SetDimensions(width, height)
	a.reportView.SetDimensions(width, height)
	a.historyView.SetDimensions(width, height)
	a.statusBar.SetWidth(width)
}
