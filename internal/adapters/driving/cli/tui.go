package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/rankwatch/internal/adapters/driving/tui"
	"github.com/custodia-labs/rankwatch/internal/logger"
)

var tuiNoScheduler bool

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	Long: `Launch the interactive terminal dashboard.

The dashboard lists tracked domains, runs manual checks and shows their
reports and check history. Automatic checks keep running while it is open
unless --no-scheduler is given.

Controls:
  ↑/k, ↓/j - Navigate domains
  Enter/c  - Check the selected domain
  h        - Check history
  a        - Toggle automatic checks
  d        - Stop tracking the selected domain
  Esc      - Back
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiNoScheduler, "no-scheduler", false, "do not run automatic checks")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if services == nil {
		return tui.ErrMissingTrackerService
	}

	// Operational events would draw over the alternate screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	if !tuiNoScheduler && services.Scheduler != nil {
		schedulerCtx, schedulerCancel := context.WithCancel(cmd.Context())
		defer schedulerCancel()

		go func() {
			if err := services.Scheduler.Start(schedulerCtx); err != nil && schedulerCtx.Err() == nil {
				logger.Error("scheduler stopped: %v", err)
			}
		}()

		defer func() {
			if err := services.Scheduler.Stop(); err != nil {
				logger.Error("scheduler stop: %v", err)
			}
		}()
	}

	app, err := tui.NewApp(tui.NewPorts(services.Tracker, services.Scheduler, services.History))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
