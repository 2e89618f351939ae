// Package cli provides the cobra command tree for rankwatch.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/rankwatch/internal/core/ports/driving"
	"github.com/custodia-labs/rankwatch/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// annotationNoServices marks commands that run without the core services.
const annotationNoServices = "rankwatch/no-services"

// Options carries the global flags to the Bootstrap function.
type Options struct {
	// ConfigDir holds config.toml. Empty means ~/.rankwatch.
	ConfigDir string

	// Ephemeral keeps all state in memory and reads no config file.
	Ephemeral bool

	// Command is the name of the command being run.
	Command string
}

// Services are the core services the commands drive.
type Services struct {
	Tracker   driving.TrackerService
	Scheduler driving.Scheduler
	History   driving.HistoryService
	Config    driving.ConfigService

	// StateDir and StateFiles locate the durable store for serve's
	// watcher. An empty StateDir disables watching.
	StateDir   string
	StateFiles []string

	// Close releases the store and the event log.
	Close func() error
}

// Bootstrap builds the services once the global flags are parsed.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var (
	verbose   bool
	configDir string
	ephemeral bool

	bootstrap Bootstrap
	services  *Services
	ownsClose bool
)

var rootCmd = &cobra.Command{
	Use:   "rankwatch",
	Short: "Track where your domains rank on Google",
	Long: `rankwatch keeps a list of domains with the keywords each one should rank
for, checks their organic Google positions through the Serper API and
reports the results to the terminal and to a Telegram chat.

Run "rankwatch serve" to check all domains on a timer.`,
	SilenceUsage:      true,
	PersistentPreRunE: prepareServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", os.Getenv("RANKWATCH_HOME"),
		"configuration directory (env RANKWATCH_HOME)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep all state in memory; configuration comes from the environment")
}

// SetBootstrap sets the function that wires the services.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices injects ready-made services. Bootstrap is skipped while set.
func SetServices(s *Services) {
	services = s
	ownsClose = false
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}

func prepareServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if services != nil || cmd.Annotations[annotationNoServices] == "true" {
		return nil
	}
	if bootstrap == nil {
		return errors.New("services not configured")
	}

	s, err := bootstrap(cmd.Context(), Options{
		ConfigDir: configDir,
		Ephemeral: ephemeral,
		Command:   cmd.Name(),
	})
	if err != nil {
		return err
	}
	services = s
	ownsClose = true
	return nil
}

func closeServices() {
	if !ownsClose || services == nil {
		return
	}
	if services.Close != nil {
		if err := services.Close(); err != nil {
			logger.Warn("closing services: %v", err)
		}
	}
	services = nil
	ownsClose = false
}

// tracker returns the tracker service or an error when it is not wired.
func tracker() (driving.TrackerService, error) {
	if services == nil || services.Tracker == nil {
		return nil, errors.New("tracker service not configured")
	}
	return services.Tracker, nil
}

// scheduler returns the scheduler or an error when it is not wired.
func scheduler() (driving.Scheduler, error) {
	if services == nil || services.Scheduler == nil {
		return nil, errors.New("scheduler not configured")
	}
	return services.Scheduler, nil
}
