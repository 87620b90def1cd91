package config

import (
	"time"

	"github.com/MKhiriev/go-news-sync/models"
)

// Storage drivers understood by the store package.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// MissingPolicy values.
const (
	// MissingDrop logs unresolved ids and advances the checkpoint anyway.
	MissingDrop = "drop"
	// MissingStall fails the run and keeps the checkpoint.
	MissingStall = "stall"
)

func defaults() *StructuredConfig {
	collections := make([]string, 0, len(models.AllCollections()))
	for _, c := range models.AllCollections() {
		collections = append(collections, c.String())
	}

	return &StructuredConfig{
		Log: Log{Level: "info"},
		Storage: Storage{
			DB: DB{
				Driver: DriverSQLite,
				DSN:    "file:news.db?_busy_timeout=5000",
			},
		},
		Adapter: Adapter{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 15 * time.Second,
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 30 * time.Second,
		},
		Workers: Workers{
			SyncInterval:   5 * time.Minute,
			HealthInterval: 10 * time.Second,
		},
		Sync: Sync{
			MaxAttempts:   5,
			BaseDelay:     500 * time.Millisecond,
			MaxDelay:      30 * time.Second,
			Jitter:        250 * time.Millisecond,
			CallTimeout:   10 * time.Second,
			MissingPolicy: MissingDrop,
			Collections:   collections,
		},
		Messages: Messages{Linger: 5 * time.Second},
	}
}
