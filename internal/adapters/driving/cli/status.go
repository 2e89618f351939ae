package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show a summary of tracked domains and settings",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var historyCmd = &cobra.Command{
	Use:   "history [domain]",
	Short: "Show recent check runs",
	Long: `Show recent check runs, most recent first. Without an argument the runs
of every domain are listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs")
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	t, err := tracker()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	settings := t.Settings(ctx)
	domains := t.List(ctx)

	keywords := 0
	for i := range domains {
		keywords += len(domains[i].Keywords)
	}

	auto := "off"
	if settings.AutoCheckEnabled {
		auto = fmt.Sprintf("every %d minutes", settings.IntervalMinutes)
	}

	cmd.Println("rankwatch status")
	cmd.Println("================")
	cmd.Printf("  Automatic checks: %s\n", auto)
	cmd.Printf("  Domains: %d\n", len(domains))
	cmd.Printf("  Keywords: %d\n", keywords)

	if s, err := scheduler(); err == nil {
		state := s.State()
		if state.CycleInProgress {
			cmd.Println("  Cycle: running")
		}
		if len(state.InFlight) > 0 {
			cmd.Printf("  Checking: %s\n", strings.Join(state.InFlight, ", "))
		}
		if !state.LastCycleEnded.IsZero() {
			cmd.Printf("  Last cycle: %s\n", state.LastCycleEnded.Local().Format("2006-01-02 15:04"))
		}
	}

	if len(domains) > 0 {
		cmd.Println()
		for i := range domains {
			cmd.Printf("  %-30s %d keywords\n", domains[i].Domain, len(domains[i].Keywords))
		}
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	if services == nil || services.History == nil {
		return errors.New("history service not configured")
	}

	name := ""
	if len(args) == 1 {
		name = args[0]
	}

	runs, err := services.History.Recent(cmd.Context(), name, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No checks recorded yet.")
		return nil
	}

	for _, r := range runs {
		at := r.StartedAt.Local().Format("2006-01-02 15:04")
		if !r.Succeeded() {
			cmd.Printf("  %s  %-24s %-9s failed: %s\n", at, r.Domain, r.TriggeredBy, r.Error)
			continue
		}
		cmd.Printf("  %s  %-24s %-9s %d/%d found in %s\n", at, r.Domain, r.TriggeredBy,
			r.MatchedCount, r.TotalCount, r.Duration().Round(100*time.Millisecond))
	}
	return nil
}
