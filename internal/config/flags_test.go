package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetAddress_String(t *testing.T) {
	tests := []struct {
		name     string
		addr     NetAddress
		expected string
	}{
		{name: "empty address", addr: NetAddress{}, expected: ""},
		{name: "localhost with port", addr: NetAddress{Host: "localhost", Port: 8080}, expected: "localhost:8080"},
		{name: "IP address with port", addr: NetAddress{Host: "127.0.0.1", Port: 9090}, expected: "127.0.0.1:9090"},
		{name: "only port no host", addr: NetAddress{Port: 8080}, expected: ":8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.addr.String())
		})
	}
}

func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    NetAddress
		wantErr bool
	}{
		{name: "localhost", input: "localhost:8080", want: NetAddress{Host: "localhost", Port: 8080}},
		{name: "ipv4", input: "127.0.0.1:9000", want: NetAddress{Host: "127.0.0.1", Port: 9000}},
		{name: "all interfaces", input: ":8080", want: NetAddress{Port: 8080}},
		{name: "missing port", input: "localhost", wantErr: true},
		{name: "non numeric port", input: "localhost:http", wantErr: true},
		{name: "zero port", input: "localhost:0", wantErr: true},
		{name: "port out of range", input: "localhost:70000", wantErr: true},
		{name: "hostname is not an ip", input: "example.com:80", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a NetAddress
			err := a.Set(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a)
		})
	}
}

func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags([]string{
		"-a", "127.0.0.1:9090",
		"-r", "http://feed.local",
		"-driver", "memory",
		"-d", "file:test.db",
		"-snapshot", "/tmp/snap.json",
		"-seed", "seed.json",
		"-i", "2m",
		"-request-timeout", "4s",
		"-missing-policy", "stall",
		"-log-level", "debug",
		"-config", "cfg.yaml",
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.HTTPAddress)
	assert.Equal(t, "http://feed.local", cfg.Adapter.HTTPAddress)
	assert.Equal(t, "memory", cfg.Storage.DB.Driver)
	assert.Equal(t, "file:test.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "/tmp/snap.json", cfg.Storage.Memory.SnapshotPath)
	assert.Equal(t, "seed.json", cfg.Server.SeedPath)
	assert.Equal(t, 2*time.Minute, cfg.Workers.SyncInterval)
	assert.Equal(t, 4*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 4*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "stall", cfg.Sync.MissingPolicy)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "cfg.yaml", cfg.FilePath)
}

func TestParseFlags_NoArgs(t *testing.T) {
	cfg, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestParseFlags_InvalidAddress(t *testing.T) {
	_, err := parseFlags([]string{"-a", "not-an-address"})
	require.Error(t, err)
}

func TestParseFlags_UnknownFlag(t *testing.T) {
	_, err := parseFlags([]string{"-token-sign-key", "secret"})
	require.Error(t, err)
}
