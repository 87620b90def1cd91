package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempConfig(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_LaterSourceWins проверяет, что поздний источник перекрывает ранний,
// а пустые поля позднего источника не затирают значения.
func TestBuild_LaterSourceWins(t *testing.T) {
	b := newConfigBuilder().withDefaults()
	b.configs = append(b.configs, &StructuredConfig{
		Adapter: Adapter{HTTPAddress: "feed.local:9000"},
		Sync:    Sync{MissingPolicy: MissingStall},
	})

	cfg, err := b.build()
	require.NoError(t, err)

	assert.Equal(t, "feed.local:9000", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 15*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, MissingStall, cfg.Sync.MissingPolicy)
	assert.Equal(t, uint64(5), cfg.Sync.MaxAttempts)
	assert.Equal(t, []string{"topics", "news_resources"}, cfg.Sync.Collections)
}

// ── withEnv ───────────────────────────────────────────────────────────────────

func TestWithEnv_ReadsEnvVars(t *testing.T) {
	setEnvVars(t, map[string]string{"ADAPTER_ADDRESS": "env.local:1"})

	b := newConfigBuilder().withEnv()
	require.NoError(t, b.err)
	require.Len(t, b.configs, 1)
	assert.Equal(t, "env.local:1", b.configs[0].Adapter.HTTPAddress)
}

func TestWithEnv_OverridesDefaults(t *testing.T) {
	setEnvVars(t, map[string]string{"SYNC_MAX_ATTEMPTS": "9"})

	cfg, err := newConfigBuilder().withDefaults().withEnv().build()
	require.NoError(t, err)
	assert.Equal(t, uint64(9), cfg.Sync.MaxAttempts)
}

// ── withFlags ─────────────────────────────────────────────────────────────────

func TestWithFlags_OverridesEnv(t *testing.T) {
	setEnvVars(t, map[string]string{"STORAGE_DB_DRIVER": "postgres"})

	cfg, err := newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags([]string{"-driver", "memory"}).
		build()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.DB.Driver)
}

func TestWithFlags_SetsErrorOnBadFlag(t *testing.T) {
	b := newConfigBuilder().withFlags([]string{"-nope"})
	require.Error(t, b.err)
	assert.Empty(t, b.configs)
}

// ── withFile ──────────────────────────────────────────────────────────────────

func TestWithFile_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder().withDefaults().withFile()
	require.NoError(t, b.err)
	assert.Len(t, b.configs, 1)
}

func TestWithFile_OverridesFlags(t *testing.T) {
	path := writeTempConfig(t, "cfg.json", `{"sync": {"missing_policy": "stall"}}`)

	cfg, err := newConfigBuilder().
		withDefaults().
		withFlags([]string{"-missing-policy", "drop", "-c", path}).
		withFile().
		build()
	require.NoError(t, err)
	assert.Equal(t, MissingStall, cfg.Sync.MissingPolicy)
}

func TestWithFile_UsesLastPath(t *testing.T) {
	first := writeTempConfig(t, "first.json", `{"log": {"level": "debug"}}`)
	second := writeTempConfig(t, "second.yaml", "log:\n  level: error\n")

	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{FilePath: first},
		&StructuredConfig{FilePath: second},
	)

	cfg, err := b.withFile().build()
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestWithFile_SetsError_WhenFileNotFound(t *testing.T) {
	b := newConfigBuilder().withConfigPath(filepath.Join(t.TempDir(), "missing.json")).withFile()
	require.Error(t, b.err)
}

func TestWithConfigPath_EmptyIsNoOp(t *testing.T) {
	b := newConfigBuilder().withConfigPath("")
	assert.Empty(t, b.configs)
}
