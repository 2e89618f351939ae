// Command rankwatch tracks the Google rank of domains for their keywords.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/rankwatch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/rankwatch/internal/adapters/driven/notify"
	"github.com/custodia-labs/rankwatch/internal/adapters/driven/serper"
	"github.com/custodia-labs/rankwatch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/rankwatch/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/rankwatch/internal/adapters/driving/cli"
	"github.com/custodia-labs/rankwatch/internal/core/domain"
	"github.com/custodia-labs/rankwatch/internal/core/ports/driven"
	"github.com/custodia-labs/rankwatch/internal/core/services"
	"github.com/custodia-labs/rankwatch/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// logFile is the default event log name inside the config directory.
const logFile = "logs.txt"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// stateStore is what the tracker and the history need from a store.
type stateStore interface {
	driven.TrackedStore
	driven.CheckHistoryStore
}

// bootstrap wires the adapters into the core services.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	configStore, err := newConfigStore(opts)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	configService := services.NewConfigService(configStore)
	cfg := configService.Load()

	if !opts.Ephemeral {
		if err := openEventLog(opts.ConfigDir, cfg.LogFile); err != nil {
			logger.Warn("event log disabled: %v", err)
		}
	}

	var (
		store      stateStore
		stateDir   string
		stateFiles []string
		closeStore = func() error { return nil }
	)
	if opts.Ephemeral {
		store = memory.NewTrackedStore()
	} else {
		dataDir := cfg.DataDir
		if dataDir == "" && opts.ConfigDir != "" {
			dataDir = filepath.Join(opts.ConfigDir, "data")
		}
		sqliteStore, err := sqlite.NewStore(dataDir)
		if err != nil {
			_ = logger.CloseEventLog()
			return nil, fmt.Errorf("opening store: %w", err)
		}
		store = sqliteStore
		stateDir = filepath.Dir(sqliteStore.Path())
		stateFiles = []string{sqlite.DatabaseFile, sqlite.DatabaseFile + "-wal"}
		closeStore = sqliteStore.Close
	}

	tracker, err := services.NewTrackerService(ctx, store)
	if err != nil {
		_ = closeStore()
		_ = logger.CloseEventLog()
		return nil, fmt.Errorf("loading tracked domains: %w", err)
	}

	provider := serper.NewClient(serper.ConfigFrom(cfg.Provider))
	lookup := services.NewRankLookup(provider, time.Duration(cfg.Provider.TimeoutSeconds)*time.Second)
	runner := services.NewCheckRunner(provider, lookup, tracker, services.WithHistory(store))

	scheduler := services.NewScheduler(tracker, runner, reportSink(cfg, opts.Command),
		services.WithPacing(time.Duration(cfg.PacingSeconds)*time.Second))

	logger.Debug("config: %s, store: %s", configService.Path(), storeName(opts.Ephemeral, stateDir))

	return &cli.Services{
		Tracker:    tracker,
		Scheduler:  scheduler,
		History:    services.NewHistoryService(store),
		Config:     configService,
		StateDir:   stateDir,
		StateFiles: stateFiles,
		Close: func() error {
			return errors.Join(closeStore(), logger.CloseEventLog())
		},
	}, nil
}

// newConfigStore reads config.toml. Ephemeral runs touch nothing on disk
// and take their configuration from the environment only.
func newConfigStore(opts cli.Options) (driven.ConfigStore, error) {
	if opts.Ephemeral {
		return memory.NewConfigStore(), nil
	}
	return file.NewConfigStore(opts.ConfigDir)
}

func openEventLog(configDir, path string) error {
	if path == "" {
		dir := configDir
		if dir == "" {
			var err error
			if dir, err = file.DefaultDir(); err != nil {
				return err
			}
		}
		path = filepath.Join(dir, logFile)
	}
	return logger.SetEventLog(path)
}

// reportSink delivers reports to Telegram when configured. The console
// copy is only printed by serve; other commands render reports themselves.
func reportSink(cfg domain.AppConfig, command string) driven.ReportSink {
	var sinks []driven.ReportSink

	if command == "serve" {
		sinks = append(sinks, notify.NewConsoleSink(os.Stdout))
	}

	if cfg.Telegram.Enabled() {
		telegram, err := notify.NewTelegramSink(notify.TelegramConfig{
			BotToken: cfg.Telegram.BotToken,
			ChatID:   cfg.Telegram.ChatID,
			Region:   cfg.Provider.Region,
		})
		if err != nil {
			logger.Error("telegram disabled: %v", err)
		} else {
			sinks = append(sinks, telegram)
		}
	}

	if len(sinks) == 0 {
		return notify.Discard{}
	}
	return notify.NewMultiSink(sinks...)
}

func storeName(ephemeral bool, dir string) string {
	if ephemeral {
		return "memory"
	}
	return dir
}
