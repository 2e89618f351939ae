package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

// EmptyInput is the input schema for tools that take no arguments.
type EmptyInput struct{}

// DomainInput selects a single tracked domain.
type DomainInput struct {
	Domain string `json:"domain" jsonschema:"the tracked domain, e.g. example.com"`
}

// AddDomainInput is the input schema for the add_domain tool.
type AddDomainInput struct {
	Domain   string   `json:"domain" jsonschema:"the domain to track; scheme and trailing slash are ignored"`
	Keywords []string `json:"keywords" jsonschema:"keywords to check; entries may be comma separated"`
}

// AddDomainOutput is the output schema for the add_domain tool.
type AddDomainOutput struct {
	Domain        string `json:"domain"`
	Created       bool   `json:"created"`
	AddedKeywords int    `json:"added_keywords"`
	TotalKeywords int    `json:"total_keywords"`
}

// RemoveDomainOutput is the output schema for the remove_domain tool.
type RemoveDomainOutput struct {
	Domain  string `json:"domain"`
	Removed bool   `json:"removed"`
}

// DomainOutput represents a tracked domain.
type DomainOutput struct {
	Domain        string   `json:"domain"`
	Keywords      []string `json:"keywords"`
	AddedAt       string   `json:"added_at"`
	UpdatedAt     string   `json:"updated_at"`
	LastCheckedAt string   `json:"last_checked_at,omitempty"`
	CheckCount    int      `json:"check_count"`
}

// ListDomainsOutput is the output schema for the list_domains tool.
type ListDomainsOutput struct {
	Domains []DomainOutput `json:"domains"`
	Count   int            `json:"count"`
}

// CheckDomainInput is the input schema for the check_domain tool.
type CheckDomainInput struct {
	Domain string `json:"domain,omitempty" jsonschema:"the tracked domain to check; the first tracked domain when empty"`
}

// KeywordResultOutput is the outcome of one keyword lookup.
type KeywordResultOutput struct {
	Keyword  string `json:"keyword"`
	Position int    `json:"position,omitempty"`
	URL      string `json:"url,omitempty"`
	Title    string `json:"title,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ReportOutput is the output schema for the check_domain tool.
type ReportOutput struct {
	ID           string                `json:"id"`
	Domain       string                `json:"domain"`
	Results      []KeywordResultOutput `json:"results"`
	MatchedCount int                   `json:"matched_count"`
	TotalCount   int                   `json:"total_count"`
	TriggeredBy  string                `json:"triggered_by"`
	CheckedAt    string                `json:"checked_at"`
}

// SettingsOutput is the output schema for the settings tools.
type SettingsOutput struct {
	AutoCheckEnabled bool `json:"auto_check_enabled"`
	IntervalMinutes  int  `json:"interval_minutes"`
}

// UpdateSettingsInput is the input schema for the update_settings tool.
// Omitted fields are left unchanged.
type UpdateSettingsInput struct {
	AutoCheckEnabled *bool `json:"auto_check_enabled,omitempty" jsonschema:"enable or disable automatic checks"`
	IntervalMinutes  *int  `json:"interval_minutes,omitempty" jsonschema:"minutes between automatic checks (10-1440)"`
}

// StatusOutput is the output schema for the get_status tool.
type StatusOutput struct {
	AutoCheckEnabled bool                  `json:"auto_check_enabled"`
	IntervalMinutes  int                   `json:"interval_minutes"`
	DomainCount      int                   `json:"domain_count"`
	KeywordCount     int                   `json:"keyword_count"`
	Domains          []DomainSummaryOutput `json:"domains"`
	Scheduler        *SchedulerOutput      `json:"scheduler,omitempty"`
}

// DomainSummaryOutput is a per-domain line of the status summary.
type DomainSummaryOutput struct {
	Domain       string `json:"domain"`
	KeywordCount int    `json:"keyword_count"`
}

// SchedulerOutput is a snapshot of the scheduler.
type SchedulerOutput struct {
	Running         bool     `json:"running"`
	Armed           bool     `json:"armed"`
	CycleInProgress bool     `json:"cycle_in_progress"`
	InFlight        []string `json:"in_flight"`
}

// HistoryInput is the input schema for the get_history tool.
type HistoryInput struct {
	Domain string `json:"domain,omitempty" jsonschema:"only runs for this domain; all domains when empty"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of runs to return (default 20)"`
}

// CheckRunOutput is one entry of the check history.
type CheckRunOutput struct {
	ID           string `json:"id"`
	Domain       string `json:"domain"`
	TriggeredBy  string `json:"triggered_by"`
	StartedAt    string `json:"started_at"`
	DurationMs   int64  `json:"duration_ms"`
	MatchedCount int    `json:"matched_count"`
	TotalCount   int    `json:"total_count"`
	Error        string `json:"error,omitempty"`
}

// HistoryOutput is the output schema for the get_history tool.
type HistoryOutput struct {
	Runs  []CheckRunOutput `json:"runs"`
	Count int              `json:"count"`
}

const defaultHistoryLimit = 20

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_domain",
		Description: "Track a domain or add keywords to an already tracked domain",
	}, s.handleAddDomain)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "remove_domain",
		Description: "Stop tracking a domain",
	}, s.handleRemoveDomain)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_domains",
		Description: "List all tracked domains with their keywords",
	}, s.handleListDomains)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_domain",
		Description: "Get a single tracked domain",
	}, s.handleGetDomain)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_domain",
		Description: "Check the Google rank of every keyword of a tracked domain",
	}, s.handleCheckDomain)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_settings",
		Description: "Get the automatic check settings",
	}, s.handleGetSettings)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_settings",
		Description: "Change the automatic check flag or interval",
	}, s.handleUpdateSettings)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_status",
		Description: "Summarise tracked domains, settings and scheduler state",
	}, s.handleGetStatus)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_history",
		Description: "List recent check runs, most recent first",
	}, s.handleGetHistory)
}

func (s *Server) handleAddDomain(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddDomainInput,
) (*mcp.CallToolResult, AddDomainOutput, error) {
	res, err := s.ports.Tracker.AddOrMerge(ctx, input.Domain, input.Keywords)
	if err != nil {
		return nil, AddDomainOutput{}, err
	}
	return nil, AddDomainOutput{
		Domain:        res.Domain,
		Created:       res.Created,
		AddedKeywords: res.AddedKeywords,
		TotalKeywords: res.TotalKeywords,
	}, nil
}

func (s *Server) handleRemoveDomain(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DomainInput,
) (*mcp.CallToolResult, RemoveDomainOutput, error) {
	if err := s.ports.Tracker.Remove(ctx, input.Domain); err != nil {
		return nil, RemoveDomainOutput{}, err
	}
	return nil, RemoveDomainOutput{Domain: domain.Canonicalize(input.Domain), Removed: true}, nil
}

func (s *Server) handleListDomains(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, ListDomainsOutput, error) {
	domains := s.ports.Tracker.List(ctx)
	output := ListDomainsOutput{
		Domains: make([]DomainOutput, len(domains)),
		Count:   len(domains),
	}
	for i := range domains {
		output.Domains[i] = toDomainOutput(domains[i])
	}
	return nil, output, nil
}

func (s *Server) handleGetDomain(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DomainInput,
) (*mcp.CallToolResult, DomainOutput, error) {
	d, err := s.ports.Tracker.Get(ctx, input.Domain)
	if err != nil {
		return nil, DomainOutput{}, err
	}
	return nil, toDomainOutput(d), nil
}

func (s *Server) handleCheckDomain(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CheckDomainInput,
) (*mcp.CallToolResult, ReportOutput, error) {
	if s.ports.Scheduler == nil {
		return nil, ReportOutput{}, ErrMissingScheduler
	}
	report, err := s.ports.Scheduler.CheckNow(ctx, input.Domain)
	if err != nil {
		return nil, ReportOutput{}, err
	}
	return nil, toReportOutput(report), nil
}

func (s *Server) handleGetSettings(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, SettingsOutput, error) {
	return nil, toSettingsOutput(s.ports.Tracker.Settings(ctx)), nil
}

func (s *Server) handleUpdateSettings(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpdateSettingsInput,
) (*mcp.CallToolResult, SettingsOutput, error) {
	settings, err := s.ports.Tracker.UpdateSettings(ctx, domain.SettingsUpdate{
		AutoCheckEnabled: input.AutoCheckEnabled,
		IntervalMinutes:  input.IntervalMinutes,
	})
	if err != nil {
		return nil, SettingsOutput{}, err
	}
	if s.ports.Scheduler != nil {
		s.ports.Scheduler.Configure(settings)
	}
	return nil, toSettingsOutput(settings), nil
}

func (s *Server) handleGetStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	settings := s.ports.Tracker.Settings(ctx)
	domains := s.ports.Tracker.List(ctx)

	output := StatusOutput{
		AutoCheckEnabled: settings.AutoCheckEnabled,
		IntervalMinutes:  settings.IntervalMinutes,
		DomainCount:      len(domains),
		Domains:          make([]DomainSummaryOutput, len(domains)),
	}
	for i, d := range domains {
		output.KeywordCount += len(d.Keywords)
		output.Domains[i] = DomainSummaryOutput{Domain: d.Domain, KeywordCount: len(d.Keywords)}
	}

	if s.ports.Scheduler != nil {
		state := s.ports.Scheduler.State()
		inFlight := state.InFlight
		if inFlight == nil {
			inFlight = []string{}
		}
		output.Scheduler = &SchedulerOutput{
			Running:         state.Running,
			Armed:           state.Armed,
			CycleInProgress: state.CycleInProgress,
			InFlight:        inFlight,
		}
	}
	return nil, output, nil
}

func (s *Server) handleGetHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	if s.ports.History == nil {
		return nil, HistoryOutput{Runs: []CheckRunOutput{}}, nil
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	runs, err := s.ports.History.Recent(ctx, input.Domain, limit)
	if err != nil {
		return nil, HistoryOutput{}, err
	}

	output := HistoryOutput{
		Runs:  make([]CheckRunOutput, len(runs)),
		Count: len(runs),
	}
	for i, r := range runs {
		output.Runs[i] = CheckRunOutput{
			ID:           r.ID,
			Domain:       r.Domain,
			TriggeredBy:  r.TriggeredBy.String(),
			StartedAt:    formatTime(r.StartedAt),
			DurationMs:   r.Duration().Milliseconds(),
			MatchedCount: r.MatchedCount,
			TotalCount:   r.TotalCount,
			Error:        r.Error,
		}
	}
	return nil, output, nil
}

func toDomainOutput(d domain.TrackedDomain) DomainOutput {
	keywords := d.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return DomainOutput{
		Domain:        d.Domain,
		Keywords:      keywords,
		AddedAt:       formatTime(d.AddedAt),
		UpdatedAt:     formatTime(d.UpdatedAt),
		LastCheckedAt: formatTime(d.LastCheckedAt),
		CheckCount:    d.CheckCount,
	}
}

func toReportOutput(r *domain.DomainReport) ReportOutput {
	output := ReportOutput{
		ID:           r.ID,
		Domain:       r.Domain,
		Results:      make([]KeywordResultOutput, len(r.Results)),
		MatchedCount: r.MatchedCount,
		TotalCount:   r.TotalCount,
		TriggeredBy:  r.TriggeredBy.String(),
		CheckedAt:    formatTime(r.CheckedAt),
	}
	for i, kr := range r.Results {
		output.Results[i] = KeywordResultOutput{
			Keyword:  kr.Keyword,
			Position: kr.Position,
			URL:      kr.URL,
			Title:    kr.Title,
			Error:    kr.Error,
		}
	}
	return output
}

func toSettingsOutput(s domain.Settings) SettingsOutput {
	return SettingsOutput{
		AutoCheckEnabled: s.AutoCheckEnabled,
		IntervalMinutes:  s.IntervalMinutes,
	}
}

// formatTime renders t as RFC 3339, or the empty string when t is zero.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
