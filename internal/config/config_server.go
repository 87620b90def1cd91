package config

import (
	"fmt"
	"os"
	"time"
)

// ServerConfig is the configuration of the development feed server.
type ServerConfig struct {
	LogLevel       string
	HTTPAddress    string
	RequestTimeout time.Duration
	// SeedPath is an optional JSON seed loaded into the feed on start.
	SeedPath string
}

// GetServerConfig builds and validates the feed server configuration from
// defaults, environment, the process command-line flags and an optional
// config file.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig(os.Args[1:])
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		LogLevel:       cfg.Log.Level,
		HTTPAddress:    cfg.Server.HTTPAddress,
		RequestTimeout: cfg.Server.RequestTimeout,
		SeedPath:       cfg.Server.SeedPath,
	}

	return serverCfg, serverCfg.validate()
}
