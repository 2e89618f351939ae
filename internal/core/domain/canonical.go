package domain

import "strings"

var schemePrefixes = []string{"https://", "http://"}

// Canonicalize normalises a tracked domain or a result URL for comparison.
// It lower-cases the input and strips scheme prefixes and trailing slashes
// until none are left, so Canonicalize(Canonicalize(s)) == Canonicalize(s).
func Canonicalize(s string) string {
	c := strings.ToLower(strings.TrimSpace(s))
	for {
		prev := c
		for _, p := range schemePrefixes {
			c = strings.TrimPrefix(c, p)
		}
		c = strings.TrimSpace(strings.TrimSuffix(c, "/"))
		if c == prev {
			return c
		}
	}
}

// SplitKeywords parses a keyword list as typed by an operator: entries are
// separated by ASCII or full-width commas, trimmed and lower-cased. Empty
// entries and case-insensitive duplicates are dropped; order is preserved.
func SplitKeywords(raw ...string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, chunk := range raw {
		fields := strings.FieldsFunc(chunk, func(r rune) bool {
			return r == ',' || r == '，'
		})
		for _, f := range fields {
			kw := strings.ToLower(strings.TrimSpace(f))
			if kw == "" {
				continue
			}
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			out = append(out, kw)
		}
	}
	return out
}
