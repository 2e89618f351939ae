package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

func TestMatchDomain(t *testing.T) {
	tests := []struct {
		name       string
		tracked    string
		candidates []domain.OrganicResult
		wantPos    int
		wantFound  bool
	}{
		{
			name:    "exact match",
			tracked: "example.com",
			candidates: []domain.OrganicResult{
				{Position: 1, URL: "https://other.com/"},
				{Position: 2, URL: "https://example.com/"},
			},
			wantPos:   2,
			wantFound: true,
		},
		{
			name:    "prefix match with path",
			tracked: "example.com",
			candidates: []domain.OrganicResult{
				{Position: 4, URL: "https://example.com/shoes/red"},
			},
			wantPos:   4,
			wantFound: true,
		},
		{
			name:    "subdomain matches by substring and wins by rank order",
			tracked: "example.com",
			candidates: []domain.OrganicResult{
				{Position: 1, URL: "https://blog.example.com/"},
				{Position: 2, URL: "https://example.com/page"},
			},
			wantPos:   1,
			wantFound: true,
		},
		{
			name:    "substring false positive is kept",
			tracked: "ab.com",
			candidates: []domain.OrganicResult{
				{Position: 7, URL: "https://grab.com/"},
			},
			wantPos:   7,
			wantFound: true,
		},
		{
			name:    "tracked domain is canonicalised",
			tracked: "HTTPS://Example.com/",
			candidates: []domain.OrganicResult{
				{Position: 3, URL: "http://EXAMPLE.com"},
			},
			wantPos:   3,
			wantFound: true,
		},
		{
			name:    "no match",
			tracked: "example.com",
			candidates: []domain.OrganicResult{
				{Position: 1, URL: "https://other.org/"},
			},
			wantFound: false,
		},
		{
			name:      "empty candidates",
			tracked:   "example.com",
			wantFound: false,
		},
		{
			name:    "empty tracked domain never matches",
			tracked: "  ",
			candidates: []domain.OrganicResult{
				{Position: 1, URL: "https://example.com/"},
			},
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := MatchDomain(tt.tracked, tt.candidates)
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, tt.wantPos, got.Position)
			}
		})
	}
}

func TestMatchDomain_KeepsProviderPosition(t *testing.T) {
	candidates := []domain.OrganicResult{
		{Position: 11, URL: "https://example.com/", Title: "Example"},
	}

	got, found := MatchDomain("example.com", candidates)
	assert.True(t, found)
	assert.Equal(t, 11, got.Position)
	assert.Equal(t, "Example", got.Title)
	assert.Equal(t, "https://example.com/", got.URL)
}
