package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of a configuration file. The same struct
// is decoded from JSON and YAML.
type fileConfig struct {
	Log struct {
		Level string `json:"level" yaml:"level"`
	} `json:"log" yaml:"log"`

	Storage struct {
		DB struct {
			Driver string `json:"driver" yaml:"driver"`
			DSN    string `json:"dsn" yaml:"dsn"`
		} `json:"db" yaml:"db"`
		Memory struct {
			SnapshotPath string `json:"snapshot_path" yaml:"snapshot_path"`
		} `json:"memory" yaml:"memory"`
	} `json:"storage" yaml:"storage"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
	} `json:"adapter" yaml:"adapter"`

	Server struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
		SeedPath       string   `json:"seed_path" yaml:"seed_path"`
	} `json:"server" yaml:"server"`

	Workers struct {
		SyncInterval   Duration `json:"sync_interval" yaml:"sync_interval"`
		HealthInterval Duration `json:"health_interval" yaml:"health_interval"`
	} `json:"workers" yaml:"workers"`

	Sync struct {
		MaxAttempts   uint64   `json:"max_attempts" yaml:"max_attempts"`
		BaseDelay     Duration `json:"base_delay" yaml:"base_delay"`
		MaxDelay      Duration `json:"max_delay" yaml:"max_delay"`
		Jitter        Duration `json:"jitter" yaml:"jitter"`
		CallTimeout   Duration `json:"call_timeout" yaml:"call_timeout"`
		MissingPolicy string   `json:"missing_policy" yaml:"missing_policy"`
		Collections   []string `json:"collections" yaml:"collections"`
	} `json:"sync" yaml:"sync"`

	Messages struct {
		Linger Duration `json:"linger" yaml:"linger"`
	} `json:"messages" yaml:"messages"`
}

func parseFile(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading a config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err = yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("error decoding yaml configs: %w", err)
		}
	default:
		if err = json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("error decoding json configs: %w", err)
		}
	}

	return fc.toStructured(), nil
}

func (fc *fileConfig) toStructured() *StructuredConfig {
	return &StructuredConfig{
		Log: Log{Level: fc.Log.Level},
		Storage: Storage{
			DB: DB{
				Driver: fc.Storage.DB.Driver,
				DSN:    fc.Storage.DB.DSN,
			},
			Memory: Memory{SnapshotPath: fc.Storage.Memory.SnapshotPath},
		},
		Adapter: Adapter{
			HTTPAddress:    fc.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(fc.Adapter.RequestTimeout),
		},
		Server: Server{
			HTTPAddress:    fc.Server.HTTPAddress,
			RequestTimeout: time.Duration(fc.Server.RequestTimeout),
			SeedPath:       fc.Server.SeedPath,
		},
		Workers: Workers{
			SyncInterval:   time.Duration(fc.Workers.SyncInterval),
			HealthInterval: time.Duration(fc.Workers.HealthInterval),
		},
		Sync: Sync{
			MaxAttempts:   fc.Sync.MaxAttempts,
			BaseDelay:     time.Duration(fc.Sync.BaseDelay),
			MaxDelay:      time.Duration(fc.Sync.MaxDelay),
			Jitter:        time.Duration(fc.Sync.Jitter),
			CallTimeout:   time.Duration(fc.Sync.CallTimeout),
			MissingPolicy: fc.Sync.MissingPolicy,
			Collections:   fc.Sync.Collections,
		},
		Messages: Messages{Linger: time.Duration(fc.Messages.Linger)},
	}
}

// Duration is a wrapper around time.Duration that decodes from strings like
// "1h", "30s" in JSON and YAML. Plain numbers are read as nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var n int64
	if err := node.Decode(&n); err == nil {
		*d = Duration(time.Duration(n))
		return nil
	}

	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	tmp, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(tmp)
	return nil
}
