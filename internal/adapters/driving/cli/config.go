package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/rankwatch/internal/core/ports/driving"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change the configuration stored in config.toml.

Environment variables take precedence over the file:
  SERPER_API_KEY       provider.api_key
  TELEGRAM_BOT_TOKEN   telegram.bot_token
  TELEGRAM_CHAT_ID     telegram.chat_id
  PORT                 server.port`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configAPIKeyCmd = &cobra.Command{
	Use:   "api-key",
	Short: "Store the Serper API key",
	Long:  `Prompt for the Serper API key without echoing it and store it in config.toml.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigAPIKey,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configAPIKeyCmd)
	rootCmd.AddCommand(configCmd)
}

func configService() (driving.ConfigService, error) {
	if services == nil || services.Config == nil {
		return nil, errors.New("config service not configured")
	}
	return services.Config, nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	c, err := configService()
	if err != nil {
		return err
	}

	cfg := c.Load()

	cmd.Printf("Config file: %s\n", valueOrUnset(c.Path()))
	cmd.Println()

	cmd.Println("[Provider]")
	cmd.Printf("  API Key: %s\n", secret(cfg.Provider.APIKey))
	cmd.Printf("  Base URL: %s\n", cfg.Provider.BaseURL)
	cmd.Printf("  Region: %s\n", cfg.Provider.Region)
	cmd.Printf("  Language: %s\n", cfg.Provider.Language)
	cmd.Printf("  Timeout: %ds\n", cfg.Provider.TimeoutSeconds)
	cmd.Printf("  Requests per second: %g\n", cfg.Provider.RequestsPerSecond)
	cmd.Println()

	cmd.Println("[Telegram]")
	cmd.Printf("  Bot Token: %s\n", secret(cfg.Telegram.BotToken))
	cmd.Printf("  Chat ID: %s\n", valueOrUnset(cfg.Telegram.ChatID))
	status := "enabled"
	if !cfg.Telegram.Enabled() {
		status = "disabled"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Port: %d\n", cfg.ServerPort)
	cmd.Printf("  Pacing: %ds between domains\n", cfg.PacingSeconds)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Data dir: %s\n", valueOrDefault(cfg.DataDir))
	cmd.Printf("  Log file: %s\n", valueOrDefault(cfg.LogFile))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	c, err := configService()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	if err := c.Set(key, value); err != nil {
		if !isKnownKey(c, key) {
			return fmt.Errorf("%w\nknown keys: %s", err, strings.Join(c.Keys(), ", "))
		}
		return err
	}

	cmd.Printf("Set %s.\n", key)
	return nil
}

func runConfigAPIKey(cmd *cobra.Command, _ []string) error {
	c, err := configService()
	if err != nil {
		return err
	}

	cmd.Print("Serper API key: ")
	key, err := readSecret(cmd.InOrStdin())
	cmd.Println()
	if err != nil {
		return fmt.Errorf("reading API key: %w", err)
	}
	if key == "" {
		return errors.New("no API key entered")
	}

	if err := c.Set("provider.api_key", key); err != nil {
		return err
	}
	cmd.Printf("API key %s saved to %s.\n", maskAPIKey(key), c.Path())
	return nil
}

// readSecret reads a line without echo when stdin is a terminal.
func readSecret(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func isKnownKey(c driving.ConfigService, key string) bool {
	for _, k := range c.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func secret(v string) string {
	if v == "" {
		return "(not set)"
	}
	return maskAPIKey(v)
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func valueOrDefault(v string) string {
	if v == "" {
		return "(default)"
	}
	return v
}
