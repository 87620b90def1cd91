// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store persists the local mirror of the remote feed: entity rows,
// relation rows and one checkpoint per collection.
//
// Two backends implement [LocalRepository]: a SQL repository running on
// SQLite or PostgreSQL, and an in-memory repository with optional JSON
// snapshots. Both apply a [models.SyncBatch] atomically, so the stored
// checkpoint never runs ahead of or behind the stored entities.
package store

import (
	"context"

	"github.com/MKhiriev/go-news-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// VersionStore reads the last durably applied change-feed version of a
// collection. The write half lives in [LocalRepository.ApplyBatch].
type VersionStore interface {
	// GetVersion returns the checkpoint of collection, or 0 if it was never
	// synced.
	GetVersion(ctx context.Context, collection models.Collection) (int64, error)
}

// LocalRepository is the persisted mirror of the remote entities.
type LocalRepository interface {
	VersionStore

	// ApplyBatch upserts batch.Upserts (rewriting their relations), deletes
	// batch.Deletes (removing their relations) and stores batch.Checkpoint
	// in a single transaction. On error nothing from the batch is visible
	// and the returned error wraps [ErrStorageFailure].
	ApplyBatch(ctx context.Context, batch models.SyncBatch) error

	// Checkpoints returns the checkpoint of every known collection.
	Checkpoints(ctx context.Context) ([]models.Checkpoint, error)

	// EntityIDs returns the sorted ids stored in collection.
	EntityIDs(ctx context.Context, collection models.Collection) ([]string, error)

	// GetTopic returns a stored topic or [ErrEntityNotFound].
	GetTopic(ctx context.Context, id string) (models.Topic, error)

	// GetNewsResource returns a stored news resource with its topic ids, or
	// [ErrEntityNotFound].
	GetNewsResource(ctx context.Context, id string) (models.NewsResource, error)
}

// ErrorClassificator decides whether a failed database operation may
// succeed if attempted again.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
