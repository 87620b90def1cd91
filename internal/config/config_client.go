package config

import (
	"fmt"
	"os"
	"time"

	"github.com/MKhiriev/go-news-sync/models"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the change feed base address.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// Driver is one of [DriverSQLite], [DriverPostgres], [DriverMemory].
	Driver string
	// DSN is the SQLite/PostgreSQL connection string used by the client.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
	// SnapshotPath is the optional snapshot file of the memory backend.
	SnapshotPath string
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often all collections are synced.
	SyncInterval time.Duration
	// HealthInterval defines how often connectivity is probed.
	HealthInterval time.Duration
}

// ClientSync holds the orchestrator retry and consistency policy.
type ClientSync struct {
	MaxAttempts   uint64
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	Jitter        time.Duration
	CallTimeout   time.Duration
	MissingPolicy string
	Collections   []models.Collection
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// LogLevel is the zerolog level name.
	LogLevel string
	// Adapter contains the change feed address and timeout.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Workers contains background job settings.
	Workers ClientWorkers
	// Sync contains the orchestrator policy.
	Sync ClientSync
	// MessagesLinger is the subscription linger of the composed app state.
	MessagesLinger time.Duration
}

// GetClientConfig builds and validates the sync daemon configuration from
// defaults, environment, the process command-line flags and an optional
// config file.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(os.Args[1:])
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return newClientConfig(cfg)
}

// LoadClientConfig builds the client configuration without parsing
// command-line flags. It is meant for CLIs that own their flag set; path,
// when non-empty, names the config file. Non-zero fields of overrides win
// over every other source.
func LoadClientConfig(path string, overrides ...*StructuredConfig) (*ClientConfig, error) {
	cfg, err := newConfigBuilder().
		withDefaults().
		withEnv().
		withConfigPath(path).
		withFile().
		with(overrides...).
		build()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return newClientConfig(cfg)
}

func newClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	collections := make([]models.Collection, 0, len(cfg.Sync.Collections))
	for _, name := range cfg.Sync.Collections {
		c, err := models.ParseCollection(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSyncConfigs, err)
		}
		collections = append(collections, c)
	}

	clientCfg := &ClientConfig{
		LogLevel: cfg.Log.Level,
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				Driver: cfg.Storage.DB.Driver,
				DSN:    cfg.Storage.DB.DSN,
			},
			SnapshotPath: cfg.Storage.Memory.SnapshotPath,
		},
		Workers: ClientWorkers{
			SyncInterval:   cfg.Workers.SyncInterval,
			HealthInterval: cfg.Workers.HealthInterval,
		},
		Sync: ClientSync{
			MaxAttempts:   cfg.Sync.MaxAttempts,
			BaseDelay:     cfg.Sync.BaseDelay,
			MaxDelay:      cfg.Sync.MaxDelay,
			Jitter:        cfg.Sync.Jitter,
			CallTimeout:   cfg.Sync.CallTimeout,
			MissingPolicy: cfg.Sync.MissingPolicy,
			Collections:   collections,
		},
		MessagesLinger: cfg.Messages.Linger,
	}

	return clientCfg, clientCfg.validate()
}
