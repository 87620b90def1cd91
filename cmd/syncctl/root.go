package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-news-sync/internal/adapter"
	"github.com/MKhiriev/go-news-sync/internal/config"
	"github.com/MKhiriev/go-news-sync/internal/logger"
	"github.com/MKhiriev/go-news-sync/internal/store"
)

var (
	cfgPath     string
	cfgRemote   string
	cfgDriver   string
	cfgDSN      string
	cfgSnapshot string
	outputJSON  bool
)

// newLogger is replaced in tests. The CLI keeps stdout for its own output,
// so logs go to the client log file.
var newLogger = func() *logger.Logger {
	return logger.NewClientLogger("syncctl")
}

var rootCmd = &cobra.Command{
	Use:   "syncctl",
	Short: "Operate the local news mirror",
	Long: `syncctl runs one-shot syncs of the local news mirror against the
change feed and inspects what has been mirrored so far.

Configuration is read from defaults, the environment, an optional .env
file and --config; flags given here win over all of them.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Config file path (json or yaml)")
	rootCmd.PersistentFlags().StringVar(&cfgRemote, "remote", "", "Change feed address")
	rootCmd.PersistentFlags().StringVar(&cfgDriver, "driver", "", "Storage driver: sqlite, postgres or memory")
	rootCmd.PersistentFlags().StringVar(&cfgDSN, "dsn", "", "Database DSN")
	rootCmd.PersistentFlags().StringVar(&cfgSnapshot, "snapshot", "", "Snapshot file of the memory driver")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Print JSON instead of text")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(checkpointsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (*config.ClientConfig, error) {
	cfg, err := config.LoadClientConfig(cfgPath, &config.StructuredConfig{
		Adapter: config.Adapter{HTTPAddress: cfgRemote},
		Storage: config.Storage{
			DB:     config.DB{Driver: cfgDriver, DSN: cfgDSN},
			Memory: config.Memory{SnapshotPath: cfgSnapshot},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// env is what every subcommand works with.
type env struct {
	cfg      *config.ClientConfig
	storages *store.ClientStorages
	source   adapter.RemoteSource
	logger   *logger.Logger
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := newLogger()
	if err = logger.SetLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}

	source, err := adapter.NewHTTPChangeSource(cfg.Adapter, log)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create change source: %w", err)
	}

	return &env{cfg: cfg, storages: storages, source: source, logger: log}, nil
}

func (e *env) Close() error {
	return e.storages.Close()
}
