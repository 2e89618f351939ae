package domain

import (
	"strings"
	"time"
)

// TrackedDomain is a domain whose organic rank is checked for a list of keywords.
type TrackedDomain struct {
	// Domain is the canonical host (see Canonicalize). Unique within the store.
	Domain string

	// Keywords are checked and reported in this order.
	// They are unique ignoring case and never empty once stored.
	Keywords []string

	// AddedAt is when the domain was first tracked.
	AddedAt time.Time

	// UpdatedAt changes whenever keywords are merged into the record.
	UpdatedAt time.Time

	// LastCheckedAt is when the last check run completed. Zero if never checked.
	LastCheckedAt time.Time

	// CheckCount is the number of completed check runs.
	CheckCount int
}

// Checked reports whether the domain has completed at least one check run.
func (d TrackedDomain) Checked() bool {
	return !d.LastCheckedAt.IsZero()
}

// HasKeyword reports whether kw is already tracked, ignoring case.
func (d TrackedDomain) HasKeyword(kw string) bool {
	for _, k := range d.Keywords {
		if strings.EqualFold(k, kw) {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no memory with d.
func (d TrackedDomain) Clone() TrackedDomain {
	c := d
	c.Keywords = append([]string(nil), d.Keywords...)
	return c
}

// MergeResult describes the outcome of adding keywords to a domain.
type MergeResult struct {
	// Domain is the canonical domain the keywords were merged into.
	Domain string

	// Created is true when the domain was not tracked before.
	Created bool

	// TotalKeywords is the keyword count after the merge.
	TotalKeywords int

	// AddedKeywords is how many keywords were new.
	AddedKeywords int
}

// TrackerState is the complete durable state: tracked domains in insertion
// order plus the scheduling settings.
type TrackerState struct {
	Domains  []TrackedDomain
	Settings Settings
}

// NewTrackerState returns an empty state with default settings.
func NewTrackerState() *TrackerState {
	return &TrackerState{Settings: DefaultSettings()}
}

// KeywordCount returns the total number of keywords across all domains.
func (s *TrackerState) KeywordCount() int {
	n := 0
	for _, d := range s.Domains {
		n += len(d.Keywords)
	}
	return n
}
