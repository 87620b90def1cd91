// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks invariants shared by every binary. Role-specific checks
// live on the views built from the merged config.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *ClientConfig) validate() error {
	switch cfg.Storage.DB.Driver {
	case DriverSQLite, DriverPostgres:
		if cfg.Storage.DB.DSN == "" {
			return ErrInvalidStorageConfigs
		}
	case DriverMemory:
	default:
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval <= 0 || cfg.Workers.HealthInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	s := cfg.Sync
	if s.MaxAttempts == 0 || s.BaseDelay <= 0 || s.MaxDelay < s.BaseDelay ||
		s.Jitter < 0 || s.CallTimeout <= 0 || len(s.Collections) == 0 {
		return ErrInvalidSyncConfigs
	}
	if s.MissingPolicy != MissingDrop && s.MissingPolicy != MissingStall {
		return ErrInvalidSyncConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.HTTPAddress == "" || cfg.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}
	return nil
}
