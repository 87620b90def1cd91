package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-news-sync/internal/config"
	"github.com/MKhiriev/go-news-sync/internal/logger"
)

func freeAddress(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestNewServer_RequiresAddress(t *testing.T) {
	_, err := NewServer(http.NotFoundHandler(), &config.ServerConfig{}, logger.Nop())
	assert.ErrorIs(t, err, errNoAddress)

	_, err = NewServer(nil, &config.ServerConfig{HTTPAddress: "127.0.0.1:0"}, logger.Nop())
	assert.ErrorIs(t, err, errNoHandler)

	srv, err := NewServer(http.NotFoundHandler(), &config.ServerConfig{HTTPAddress: "127.0.0.1:8099"}, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8099", srv.Addr())
}

func TestServer_RunServesUntilCancelled(t *testing.T) {
	addr := freeAddress(t)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	srv, err := NewServer(handler, &config.ServerConfig{HTTPAddress: addr, RequestTimeout: time.Second}, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.(*server).run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/", addr))
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusTeapot
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}

	_, err = http.Get(fmt.Sprintf("http://%s/", addr))
	assert.Error(t, err)
}
