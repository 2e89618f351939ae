package domain

import "time"

// Trigger identifies what started a check run.
type Trigger string

// Check triggers.
const (
	TriggerManual    Trigger = "manual"
	TriggerAutomatic Trigger = "automatic"
)

// String returns the string representation.
func (t Trigger) String() string {
	return string(t)
}

// OrganicResult is one non-paid result returned by the ranking provider.
type OrganicResult struct {
	// Position is the 1-based rank assigned by the provider.
	Position int
	URL      string
	Title    string
}

// KeywordResult is the outcome of one keyword lookup. Position is zero when
// the domain was not matched, and Error then carries the reason.
type KeywordResult struct {
	Keyword  string
	Position int
	URL      string
	Title    string
	Error    string
}

// Found reports whether the domain was matched for this keyword.
func (r KeywordResult) Found() bool {
	return r.Position > 0
}

// DomainReport aggregates the keyword results of a single check run.
type DomainReport struct {
	// ID correlates the report with operational log lines.
	ID string

	Domain string

	// Results are in the same order as the domain's keywords.
	Results []KeywordResult

	MatchedCount int
	TotalCount   int
	TriggeredBy  Trigger
	CheckedAt    time.Time
}

// NewDomainReport builds a report and computes its counters.
func NewDomainReport(id, domain string, trigger Trigger, results []KeywordResult, at time.Time) *DomainReport {
	matched := 0
	for _, r := range results {
		if r.Found() {
			matched++
		}
	}
	return &DomainReport{
		ID:           id,
		Domain:       domain,
		Results:      results,
		MatchedCount: matched,
		TotalCount:   len(results),
		TriggeredBy:  trigger,
		CheckedAt:    at,
	}
}

// CheckFailure describes a check run that failed before producing any result.
type CheckFailure struct {
	Domain      string
	TriggeredBy Trigger
	Err         error
	At          time.Time
}
