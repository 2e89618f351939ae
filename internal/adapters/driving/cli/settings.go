package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage automatic check settings",
	Long: `View and change how often tracked domains are checked automatically.

A running "rankwatch serve" picks up changes made here within a second.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsIntervalCmd = &cobra.Command{
	Use:   "interval [minutes]",
	Short: "Set the automatic check interval",
	Long: fmt.Sprintf(`Set the automatic check interval in minutes.

The interval must be between %d and %d minutes.`, domain.MinIntervalMinutes, domain.MaxIntervalMinutes),
	Args: cobra.ExactArgs(1),
	RunE: runSettingsInterval,
}

var settingsAutoCmd = &cobra.Command{
	Use:       "auto [on|off|toggle]",
	Short:     "Turn automatic checks on or off",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off", "toggle"},
	RunE:      runSettingsAuto,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsIntervalCmd)
	settingsCmd.AddCommand(settingsAutoCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	t, err := tracker()
	if err != nil {
		return err
	}

	printSettings(cmd, t.Settings(cmd.Context()))
	return nil
}

func runSettingsInterval(cmd *cobra.Command, args []string) error {
	minutes, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return fmt.Errorf("%w: interval must be a number of minutes", domain.ErrInvalidInput)
	}
	return applySettings(cmd, domain.SettingsUpdate{IntervalMinutes: &minutes})
}

func runSettingsAuto(cmd *cobra.Command, args []string) error {
	var enabled bool
	switch strings.ToLower(args[0]) {
	case "on":
		enabled = true
	case "off":
		enabled = false
	case "toggle":
		t, err := tracker()
		if err != nil {
			return err
		}
		enabled = !t.Settings(cmd.Context()).AutoCheckEnabled
	default:
		return fmt.Errorf("%w: expected on, off or toggle", domain.ErrInvalidInput)
	}
	return applySettings(cmd, domain.SettingsUpdate{AutoCheckEnabled: &enabled})
}

// applySettings stores an update and reconfigures the local scheduler.
func applySettings(cmd *cobra.Command, update domain.SettingsUpdate) error {
	t, err := tracker()
	if err != nil {
		return err
	}

	settings, err := t.UpdateSettings(cmd.Context(), update)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	if s, err := scheduler(); err == nil {
		s.Configure(settings)
	}

	cmd.Println("Settings updated.")
	cmd.Println()
	printSettings(cmd, settings)
	return nil
}

func printSettings(cmd *cobra.Command, s domain.Settings) {
	cmd.Println("[Automatic checks]")
	cmd.Printf("  Enabled: %s\n", yesNo(s.AutoCheckEnabled))
	cmd.Printf("  Interval: %d minutes\n", s.IntervalMinutes)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
