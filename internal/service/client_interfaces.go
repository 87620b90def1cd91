package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-news-sync/internal/broadcast"
	"github.com/MKhiriev/go-news-sync/internal/signal"
	"github.com/MKhiriev/go-news-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/service_mock.go -package=mock

// ClientSyncService defines the client-side contract for mirroring the remote
// change feed into the local repository.
type ClientSyncService interface {
	// Sync runs one sync of collection: read the checkpoint, fetch the
	// changes after it, reconcile, fetch payloads and apply everything in
	// one transaction. A trigger that finds a run of the same collection in
	// progress returns immediately with Coalesced set. Failures are reported
	// in the result and through the message broadcast, never as panics.
	Sync(ctx context.Context, collection models.Collection) models.SyncResult

	// SyncAll runs Sync for every configured collection concurrently and
	// returns the results in configuration order.
	SyncAll(ctx context.Context) []models.SyncResult

	// States streams the state machine position of every collection.
	States() signal.Source[map[models.Collection]models.SyncState]
}

// ClientSyncJob defines the contract for a background worker that
// periodically calls SyncAll.
type ClientSyncJob interface {
	// Start launches the background sync goroutine. It syncs right away and
	// then every interval, defaulting to 5 minutes if interval is zero or
	// negative. Any previously running job is stopped first.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated.
	Stop()
}

// MessagePublisher is the part of the message broadcast the services write
// to.
type MessagePublisher interface {
	Publish(kind models.MessageKind, opts ...broadcast.Option) uuid.UUID
	Clear(id uuid.UUID)
	ClearKind(kind models.MessageKind)
}
