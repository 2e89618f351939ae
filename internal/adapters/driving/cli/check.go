package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/rankwatch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

var checkCmd = &cobra.Command{
	Use:   "check [domain]",
	Short: "Check a domain's rankings now",
	Long: `Look up every keyword of a domain and print where it ranks in the first
100 organic results. Without an argument the first tracked domain is checked.

The report is also sent to Telegram when a bot is configured.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := scheduler()
	if err != nil {
		return err
	}

	name := ""
	if len(args) == 1 {
		name = args[0]
	}

	report, err := s.CheckNow(cmd.Context(), name)
	switch {
	case errors.Is(err, domain.ErrCheckInProgress):
		return fmt.Errorf("%w, try again when it finishes", err)
	case errors.Is(err, domain.ErrProviderNotConfigured):
		return fmt.Errorf("%w (run: rankwatch config api-key)", err)
	case err != nil:
		return fmt.Errorf("check failed: %w", err)
	}

	renderReport(cmd.OutOrStdout(), report)
	return nil
}

// renderReport writes a report with rank-tier colours.
func renderReport(w io.Writer, report *domain.DomainReport) {
	st := styles.DefaultStyles()

	fmt.Fprintln(w, st.Title.Render(fmt.Sprintf("%s ranking results", report.Domain)))
	fmt.Fprintln(w, st.Muted.Render(report.CheckedAt.Local().Format("2006-01-02 15:04:05")))
	fmt.Fprintln(w)

	width := 0
	for _, r := range report.Results {
		width = max(width, len(r.Keyword))
	}
	for _, r := range report.Results {
		kw := fmt.Sprintf("  %-*s  ", width, r.Keyword)
		if !r.Found() {
			fmt.Fprintln(w, kw+st.Error.Render(r.Error))
			continue
		}
		fmt.Fprintln(w, kw+st.Rank(r.Position).Render(fmt.Sprintf("#%-3d", r.Position))+" "+st.Muted.Render(r.URL))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d/%d keywords found\n", report.MatchedCount, report.TotalCount)
}
