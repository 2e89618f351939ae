package notify

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

// Tier groups a position for highlighting.
type Tier int

// Position tiers.
const (
	TierNone      Tier = iota
	TierTop            // 1-3
	TierFirstPage      // 4-10
	TierRanked         // 11+
)

// TierOf returns the highlight tier of a keyword result.
func TierOf(r domain.KeywordResult) Tier {
	switch {
	case !r.Found():
		return TierNone
	case r.Position <= 3:
		return TierTop
	case r.Position <= 10:
		return TierFirstPage
	default:
		return TierRanked
	}
}

func tierEmoji(t Tier) string {
	switch t {
	case TierTop:
		return "🥇"
	case TierFirstPage:
		return "🔵"
	case TierRanked:
		return "⚪"
	default:
		return "❌"
	}
}

// Summary returns the report footer, e.g. "2/3 keywords found".
func Summary(r *domain.DomainReport) string {
	return fmt.Sprintf("%d/%d keywords found", r.MatchedCount, r.TotalCount)
}

// FormatReportMarkdown renders a report as Telegram legacy Markdown.
func FormatReportMarkdown(r *domain.DomainReport, region string) string {
	var b strings.Builder

	if r.TriggeredBy == domain.TriggerAutomatic {
		b.WriteString("🔄 *Automatic Report*\n")
		fmt.Fprintf(&b, "🌐 %s\n", escapeMarkdown(r.Domain))
	} else {
		fmt.Fprintf(&b, "🔍 *%s* ranking results\n", escapeMarkdown(r.Domain))
	}
	if region != "" {
		fmt.Fprintf(&b, "📍 Google (%s)\n", strings.ToUpper(region))
	}
	b.WriteString("\n")

	for _, res := range r.Results {
		tier := TierOf(res)
		if tier == TierNone {
			fmt.Fprintf(&b, "%s *%s* → %s\n", tierEmoji(tier), escapeMarkdown(res.Keyword), escapeMarkdown(res.Error))
			continue
		}
		fmt.Fprintf(&b, "%s *%s* → #%d\n", tierEmoji(tier), escapeMarkdown(res.Keyword), res.Position)
	}

	fmt.Fprintf(&b, "\n📊 %s", Summary(r))
	return b.String()
}

// FormatFailureMarkdown renders a failed run as Telegram legacy Markdown.
func FormatFailureMarkdown(f *domain.CheckFailure) string {
	msg := "unknown error"
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return fmt.Sprintf("⚠️ *Error:* %s could not be checked\n%s", escapeMarkdown(f.Domain), escapeMarkdown(msg))
}

var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"`", "\\`",
	"[", "\\[",
)

// escapeMarkdown escapes the characters that legacy Markdown treats as entities.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
