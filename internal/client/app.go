package client

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-news-sync/internal/adapter"
	"github.com/MKhiriev/go-news-sync/internal/broadcast"
	"github.com/MKhiriev/go-news-sync/internal/config"
	"github.com/MKhiriev/go-news-sync/internal/logger"
	"github.com/MKhiriev/go-news-sync/internal/service"
	"github.com/MKhiriev/go-news-sync/internal/signal"
	"github.com/MKhiriev/go-news-sync/internal/store"
	"github.com/MKhiriev/go-news-sync/internal/workers"
	"github.com/MKhiriev/go-news-sync/models"
)

type App struct {
	storages *store.ClientStorages
	messages *broadcast.Broadcast
	services *service.ClientServices
	workers  *workers.Workers
	state    *signal.Shared[models.AppState]
	logger   *logger.Logger
}

// NewApp builds the daemon from configuration: storage for the configured
// driver, the HTTP change feed and all client services.
func NewApp(ctx context.Context, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, log *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	source, err := adapter.NewHTTPChangeSource(cfg.Adapter, log)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create change source: %w", err)
	}

	return newApp(storages, source, cfg, buildInfo, log), nil
}

func newApp(storages *store.ClientStorages, source adapter.RemoteSource, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, log *logger.Logger) *App {
	messages := broadcast.New(log)
	svcs := service.NewClientServices(storages, source, messages, cfg, buildInfo, log)

	state := signal.Share(
		signal.Combine3(messages, svcs.NetworkMonitor.Online(), svcs.SyncService.States(), composeAppState),
		models.AppState{},
		cfg.MessagesLinger,
	)

	return &App{
		storages: storages,
		messages: messages,
		services: svcs,
		workers: workers.NewWorkers(
			workers.Every(svcs.NetworkMonitor, cfg.Workers.HealthInterval),
			workers.Every(svcs.SyncJob, cfg.Workers.SyncInterval),
		),
		state:  state,
		logger: log,
	}
}

// State streams the composed application state.
func (a *App) State() signal.Source[models.AppState] {
	return a.state
}

// Messages exposes the broadcast so that a front end can confirm or dismiss
// messages.
func (a *App) Messages() *broadcast.Broadcast {
	return a.messages
}

// Run starts the workers and logs every change of the current message until
// ctx is done. Storage is closed on return.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info().Msg("starting sync workers")
	a.workers.Start(ctx)

	var current *models.Message
	for st := range a.state.Observe(ctx) {
		if sameMessage(current, st.Current) {
			continue
		}
		current = st.Current
		if current == nil {
			a.logger.Info().Msg("message queue is empty")
			continue
		}
		a.logger.Info().
			Str("kind", current.Kind.String()).
			Str("label", current.Label).
			Int("pending", st.Pending).
			Bool("offline", st.Offline).
			Msg("current message")
	}

	a.logger.Info().Msg("stopping sync workers")
	a.workers.Stop()

	if err := a.storages.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// composeAppState derives the UI state from the message queue, the network
// monitor and the sync state of every collection. The app is offline while
// the monitor says so, even after the Offline message was dismissed.
func composeAppState(msgs []models.Message, online bool, states map[models.Collection]models.SyncState) models.AppState {
	st := models.AppState{Pending: len(msgs), Offline: !online}
	if len(msgs) > 0 {
		head := msgs[0]
		st.Current = &head
		st.Offline = st.Offline || head.Kind == models.MessageOffline
	}
	for c, s := range states {
		if s.Active() {
			st.Syncing = append(st.Syncing, c)
		}
	}
	slices.Sort(st.Syncing)
	return st
}

func sameMessage(a, b *models.Message) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}
