package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
	"github.com/custodia-labs/rankwatch/internal/core/ports/driven"
)

// Ensure ConsoleSink implements the interface.
var _ driven.ReportSink = (*ConsoleSink)(nil)

// Palette used for terminal reports.
var (
	colourGold  = lipgloss.Color("#F9E2AF")
	colourBlue  = lipgloss.Color("#89B4FA")
	colourMuted = lipgloss.Color("#6C7086")
	colourError = lipgloss.Color("#F38BA8")
	colourTitle = lipgloss.Color("#7C3AED")
)

// ReportStyles holds the lipgloss styles used to render reports.
type ReportStyles struct {
	Title  lipgloss.Style
	Top    lipgloss.Style
	First  lipgloss.Style
	Ranked lipgloss.Style
	Failed lipgloss.Style
	Muted  lipgloss.Style
}

// DefaultReportStyles returns the default report styles.
func DefaultReportStyles() ReportStyles {
	return ReportStyles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(colourTitle),
		Top:    lipgloss.NewStyle().Bold(true).Foreground(colourGold),
		First:  lipgloss.NewStyle().Foreground(colourBlue),
		Ranked: lipgloss.NewStyle(),
		Failed: lipgloss.NewStyle().Foreground(colourError),
		Muted:  lipgloss.NewStyle().Foreground(colourMuted),
	}
}

func (s ReportStyles) forTier(t Tier) lipgloss.Style {
	switch t {
	case TierTop:
		return s.Top
	case TierFirstPage:
		return s.First
	case TierRanked:
		return s.Ranked
	default:
		return s.Failed
	}
}

// RenderReport renders a report for a terminal.
func RenderReport(r *domain.DomainReport, styles ReportStyles) string {
	var b strings.Builder

	header := fmt.Sprintf("%s (%s)", r.Domain, r.TriggeredBy)
	b.WriteString(styles.Title.Render(header))
	b.WriteString("\n")

	width := 0
	for _, res := range r.Results {
		if w := lipgloss.Width(res.Keyword); w > width {
			width = w
		}
	}

	for _, res := range r.Results {
		style := styles.forTier(TierOf(res))
		kw := res.Keyword + strings.Repeat(" ", width-lipgloss.Width(res.Keyword))
		if res.Found() {
			line := fmt.Sprintf("  %s  #%-3d", kw, res.Position)
			b.WriteString(style.Render(line))
			b.WriteString(" ")
			b.WriteString(styles.Muted.Render(res.URL))
		} else {
			b.WriteString(style.Render(fmt.Sprintf("  %s  %s", kw, res.Error)))
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.Muted.Render(Summary(r)))
	b.WriteString("\n")
	return b.String()
}

// RenderFailure renders a failed run for a terminal.
func RenderFailure(f *domain.CheckFailure, styles ReportStyles) string {
	msg := "unknown error"
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return styles.Failed.Render(fmt.Sprintf("%s could not be checked: %s", f.Domain, msg)) + "\n"
}

// ConsoleSink writes styled reports to a writer.
type ConsoleSink struct {
	mu     sync.Mutex
	w      io.Writer
	styles ReportStyles
}

// NewConsoleSink creates a console sink writing to w.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{
		w:      w,
		styles: DefaultReportStyles(),
	}
}

// DeliverReport writes the rendered report.
func (s *ConsoleSink) DeliverReport(_ context.Context, report *domain.DomainReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, RenderReport(report, s.styles))
	return err
}

// DeliverFailure writes the rendered failure.
func (s *ConsoleSink) DeliverFailure(_ context.Context, failure *domain.CheckFailure) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, RenderFailure(failure, s.styles))
	return err
}
