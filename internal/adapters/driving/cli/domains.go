package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

var listJSON bool

var addCmd = &cobra.Command{
	Use:   "add [domain] [keywords...]",
	Short: "Track a domain for one or more keywords",
	Long: `Track a domain for one or more keywords. Keywords are separated by
commas or given as separate arguments. Adding keywords to a domain that is
already tracked merges them into its list.

Examples:
  rankwatch add example.com "running shoes, trail shoes"
  rankwatch add https://example.com/ shoes boots`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAdd,
}

var removeCmd = &cobra.Command{
	Use:     "remove [domain]",
	Aliases: []string{"rm"},
	Short:   "Stop tracking a domain",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tracked domains",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var showCmd = &cobra.Command{
	Use:   "show [domain]",
	Short: "Show a tracked domain and its keywords",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output domains as JSON")
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	t, err := tracker()
	if err != nil {
		return err
	}

	result, err := t.AddOrMerge(cmd.Context(), args[0], args[1:])
	if err != nil {
		return fmt.Errorf("failed to add domain: %w", err)
	}

	if result.Created {
		cmd.Printf("Tracking %s for %d keywords.\n", result.Domain, result.TotalKeywords)
		return nil
	}
	cmd.Printf("Added %d new keywords to %s (%d total).\n",
		result.AddedKeywords, result.Domain, result.TotalKeywords)
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	t, err := tracker()
	if err != nil {
		return err
	}

	name := domain.Canonicalize(args[0])
	if err := t.Remove(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}

	cmd.Printf("Stopped tracking %s.\n", name)
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	t, err := tracker()
	if err != nil {
		return err
	}

	domains := t.List(cmd.Context())

	if listJSON {
		data, err := json.MarshalIndent(domains, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal domains: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(domains) == 0 {
		cmd.Println("No domains tracked.")
		cmd.Println("Add one with: rankwatch add <domain> <keywords>")
		return nil
	}

	cmd.Println("Tracked domains:")
	cmd.Println()
	for i := range domains {
		d := &domains[i]
		cmd.Printf("  %s\n", d.Domain)
		cmd.Printf("      Keywords: %s\n", strings.Join(d.Keywords, ", "))
		cmd.Printf("      Last check: %s (%d checks)\n", formatLastChecked(*d), d.CheckCount)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	t, err := tracker()
	if err != nil {
		return err
	}

	d, err := t.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", args[0], err)
	}

	cmd.Printf("Domain: %s\n", d.Domain)
	cmd.Printf("Added: %s\n", d.AddedAt.Local().Format("2006-01-02 15:04"))
	cmd.Printf("Last check: %s\n", formatLastChecked(d))
	cmd.Printf("Checks: %d\n", d.CheckCount)
	cmd.Println()
	cmd.Printf("Keywords (%d):\n", len(d.Keywords))
	for i, kw := range d.Keywords {
		cmd.Printf("  %d. %s\n", i+1, kw)
	}
	return nil
}

func formatLastChecked(d domain.TrackedDomain) string {
	if !d.Checked() {
		return "never"
	}
	return d.LastCheckedAt.Local().Format("2006-01-02 15:04")
}
