package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-news-sync/internal/adapter"
	"github.com/MKhiriev/go-news-sync/internal/logger"
	"github.com/MKhiriev/go-news-sync/internal/signal"
	"github.com/MKhiriev/go-news-sync/models"
)

// NetworkMonitor polls the remote health endpoint and reports connectivity
// through the message broadcast. Going offline publishes a single Offline
// message; coming back clears it and syncs every collection.
type NetworkMonitor struct {
	checker  adapter.HealthChecker
	syncer   ClientSyncService
	messages MessagePublisher
	timeout  time.Duration
	logger   *logger.Logger

	online *signal.State[bool]

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewNetworkMonitor creates an idle monitor. syncer may be nil when nothing
// should run on reconnect. timeout bounds every Ping.
func NewNetworkMonitor(
	checker adapter.HealthChecker,
	syncer ClientSyncService,
	messages MessagePublisher,
	timeout time.Duration,
	logger *logger.Logger,
) *NetworkMonitor {
	return &NetworkMonitor{
		checker:  checker,
		syncer:   syncer,
		messages: messages,
		timeout:  timeout,
		logger:   logger,
		online:   signal.NewState(true),
	}
}

// Online streams the connectivity as last observed. It starts as true.
func (m *NetworkMonitor) Online() signal.Source[bool] {
	return m.online
}

// Start probes right away and then every interval until ctx is done or Stop
// is called.
func (m *NetworkMonitor) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Second
	}

	m.Stop()

	m.mu.Lock()
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		m.Check(runCtx)
		for {
			select {
			case <-runCtx.Done():
				return
			case <-t.C:
				m.Check(runCtx)
			}
		}
	}()
}

// Stop cancels the polling goroutine and waits for it.
func (m *NetworkMonitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

// Check runs a single probe and handles the connectivity edge, if any. It
// returns the observed connectivity.
func (m *NetworkMonitor) Check(ctx context.Context) bool {
	pingCtx, cancel := ctx, context.CancelFunc(func() {})
	if m.timeout > 0 {
		pingCtx, cancel = context.WithTimeout(ctx, m.timeout)
	}
	err := m.checker.Ping(pingCtx)
	cancel()

	if ctx.Err() != nil {
		return m.online.Get()
	}

	online := err == nil
	was := m.online.Get()
	m.online.Set(online)

	switch {
	case was && !online:
		m.logger.Warn().Err(err).
			Str("func", "NetworkMonitor.Check").
			Msg("remote went offline")
		if m.messages != nil {
			m.messages.Publish(models.MessageOffline)
		}
	case !was && online:
		m.logger.Info().
			Str("func", "NetworkMonitor.Check").
			Msg("remote is back online")
		if m.messages != nil {
			m.messages.ClearKind(models.MessageOffline)
		}
		if m.syncer != nil {
			m.syncer.SyncAll(ctx)
		}
	}
	return online
}
