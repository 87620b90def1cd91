// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for reading the
// remote change feed.
//
// The primary abstraction is [ChangeSource], which decouples the sync
// orchestrator from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPChangeSource]) and an in-memory feed
// ([NewMemoryChangeSource]) used by tests and the development feed server.
//
// Adapters never retry. Every transport failure, 5xx or 429 response and
// exceeded deadline is reported as [ErrRemoteUnavailable] so the caller can
// apply its own retry policy with [errors.Is].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-news-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/change_source_mock.go -package=mock

// ChangeSource reads the remote change feed of one collection at a time.
type ChangeSource interface {
	// FetchChanges returns the change entries with a version strictly greater
	// than after, ordered by version ascending. An empty result means there
	// is nothing new and is not an error.
	FetchChanges(ctx context.Context, collection models.Collection, after int64) ([]models.ChangeEntry, error)

	// FetchEntities returns the payloads of the requested ids in any order.
	// Ids the remote does not know are omitted from the result.
	FetchEntities(ctx context.Context, collection models.Collection, ids []string) ([]models.Entity, error)
}

// HealthChecker probes remote reachability.
type HealthChecker interface {
	// Ping returns nil when the remote answered, or an error wrapping
	// [ErrRemoteUnavailable].
	Ping(ctx context.Context) error
}

// RemoteSource is a change feed that can also report its reachability.
type RemoteSource interface {
	ChangeSource
	HealthChecker
}
