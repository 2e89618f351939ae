package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/rankwatch/internal/adapters/driving/health"
	"github.com/custodia-labs/rankwatch/internal/adapters/driving/watcher"
	"github.com/custodia-labs/rankwatch/internal/logger"
)

var (
	servePort    int
	serveMCP     bool
	serveNoWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run automatic checks and the health endpoint",
	Long: `Run the scheduler that checks every tracked domain on the configured
interval, together with an HTTP health endpoint:

  GET /        bot status
  GET /health  uptime and number of tracked domains

Changes made by other rankwatch commands (add, remove, settings) are picked
up automatically. Use --mcp to also serve the MCP tools at /mcp.

The server stops on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "health endpoint port (default: server.port)")
	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "serve MCP over HTTP at /mcp")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "do not reload when the store changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	t, err := tracker()
	if err != nil {
		return err
	}
	sched, err := scheduler()
	if err != nil {
		return err
	}

	port := servePort
	if port == 0 && services.Config != nil {
		port = services.Config.Load().ServerPort
	}

	var opts []health.Option
	if serveMCP {
		mcpServer, err := newMCPServer()
		if err != nil {
			return err
		}
		opts = append(opts, health.WithMCP(mcpServer.Handler()))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Event("rankwatch %s starting", version)

	schedErr := make(chan error, 1)
	go func() {
		schedErr <- sched.Start(ctx)
	}()

	if !serveNoWatch && services.StateDir != "" {
		w := watcher.New(services.StateDir, services.StateFiles, t, sched)
		go func() {
			if err := w.Watch(ctx); err != nil {
				logger.Error("state watcher stopped: %v", err)
			}
		}()
	}

	server := health.NewServer(t, opts...)
	serveErr := server.Run(ctx, fmt.Sprintf(":%d", port))
	if serveErr != nil {
		// The listener failed; bring the scheduler down with it.
		stop()
	}

	if err := <-schedErr; err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler: %v", err)
	}
	logger.Event("rankwatch stopped")

	if serveErr != nil {
		return fmt.Errorf("health server: %w", serveErr)
	}
	return nil
}
