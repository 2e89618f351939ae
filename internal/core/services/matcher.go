package services

import (
	"strings"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

// MatchDomain returns the first candidate, in the order given, whose
// canonical URL equals the tracked domain, starts with it followed by a
// slash, or contains it. Substring containment can match unrelated sites
// whose host ends with the tracked name (ab.com in grab.com); this is
// accepted and not special-cased.
func MatchDomain(tracked string, candidates []domain.OrganicResult) (domain.OrganicResult, bool) {
	target := domain.Canonicalize(tracked)
	if target == "" {
		return domain.OrganicResult{}, false
	}

	for _, c := range candidates {
		url := domain.Canonicalize(c.URL)
		if url == target || strings.HasPrefix(url, target+"/") || strings.Contains(url, target) {
			return c, true
		}
	}
	return domain.OrganicResult{}, false
}
