package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/MKhiriev/go-news-sync/internal/logger"
	"github.com/MKhiriev/go-news-sync/models"
)

// sqlRepository is the SQL implementation of [LocalRepository]. Every
// ApplyBatch runs in one transaction that also writes the checkpoint row.
type sqlRepository struct {
	*DB
	logger *logger.Logger

	// beforeCommit runs inside the transaction right before commit; an error
	// aborts the batch. Tests use it to simulate a crash.
	beforeCommit func(ctx context.Context, tx *sql.Tx) error
}

// NewSQLRepository constructs a [LocalRepository] backed by db.
func NewSQLRepository(db *DB, logger *logger.Logger) LocalRepository {
	return &sqlRepository{
		DB:     db,
		logger: logger,
	}
}

// ApplyBatch implements [LocalRepository].
func (r *sqlRepository) ApplyBatch(ctx context.Context, batch models.SyncBatch) error {
	log := logger.FromContext(ctx)

	topics, resources, err := splitUpserts(batch)
	if err != nil {
		log.Err(err).
			Str("func", "sqlRepository.ApplyBatch").
			Str("collection", batch.Collection.String()).
			Msg("invalid batch")
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "sqlRepository.ApplyBatch").
			Str("collection", batch.Collection.String()).
			Str("classification", r.classify(err)).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w: %w", ErrStorageFailure, ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	steps, err := r.batchStatements(batch, topics, resources)
	if err != nil {
		log.Err(err).
			Str("func", "sqlRepository.ApplyBatch").
			Str("collection", batch.Collection.String()).
			Msg("failed to build batch statements")
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	for _, step := range steps {
		if _, err = tx.ExecContext(ctx, step.query, step.args...); err != nil {
			log.Err(err).
				Str("func", "sqlRepository.ApplyBatch").
				Str("collection", batch.Collection.String()).
				Str("step", step.name).
				Str("classification", r.classify(err)).
				Str("pg_code", postgresError(err)).
				Msg("failed to execute batch statement")
			return fmt.Errorf("%w: %s: %w: %w", ErrStorageFailure, step.name, ErrExecutingQuery, err)
		}
	}

	if r.beforeCommit != nil {
		if err = r.beforeCommit(ctx, tx); err != nil {
			return fmt.Errorf("%w: %w", ErrStorageFailure, err)
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "sqlRepository.ApplyBatch").
			Str("collection", batch.Collection.String()).
			Str("classification", r.classify(err)).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w: %w", ErrStorageFailure, ErrCommitingTransaction, err)
	}

	log.Debug().
		Str("func", "sqlRepository.ApplyBatch").
		Str("collection", batch.Collection.String()).
		Int("upserts", len(batch.Upserts)).
		Int("deletes", len(batch.Deletes)).
		Int64("checkpoint", batch.Checkpoint).
		Msg("batch applied")

	return nil
}

type statement struct {
	name  string
	query string
	args  []any
}

// batchStatements lists the statements of one batch in execution order:
// entity upserts, relation rewrite, relation removal for deleted ids, row
// deletion, checkpoint. Large steps are split into several statements of at
// most maxStatementRows rows each; they all run in the same transaction.
func (r *sqlRepository) batchStatements(batch models.SyncBatch, topics []models.Topic, resources []models.NewsResource) ([]statement, error) {
	b := r.builder()
	var steps []statement
	add := func(name, query string, args []any) {
		steps = append(steps, statement{name: name, query: query, args: args})
	}

	for chunk := range slices.Chunk(topics, maxStatementRows) {
		query, args, err := buildUpsertTopicsQuery(b, chunk)
		if err != nil {
			return nil, err
		}
		add("upsert topics", query, args)
	}

	if len(resources) > 0 {
		ids := make([]string, 0, len(resources))
		for chunk := range slices.Chunk(resources, maxStatementRows) {
			query, args, err := buildUpsertNewsResourcesQuery(b, chunk)
			if err != nil {
				return nil, err
			}
			add("upsert news resources", query, args)

			for _, n := range chunk {
				ids = append(ids, n.ID)
			}
		}

		for chunk := range slices.Chunk(ids, maxStatementRows) {
			query, args, err := buildDeleteQuery(b, relationsTable, "news_resource_id", chunk)
			if err != nil {
				return nil, err
			}
			add("clear relations", query, args)
		}

		for chunk := range slices.Chunk(relationRows(resources), maxStatementRows) {
			query, args, err := buildInsertRelationsQuery(b, chunk)
			if err != nil {
				return nil, err
			}
			add("insert relations", query, args)
		}
	}

	if len(batch.Deletes) > 0 {
		table, err := collectionTable(batch.Collection)
		if err != nil {
			return nil, err
		}
		relationColumn := "news_resource_id"
		if batch.Collection == models.CollectionTopics {
			relationColumn = "topic_id"
		}

		for chunk := range slices.Chunk(batch.Deletes, maxStatementRows) {
			query, args, err := buildDeleteQuery(b, relationsTable, relationColumn, chunk)
			if err != nil {
				return nil, err
			}
			add("delete relations", query, args)
		}

		for chunk := range slices.Chunk(batch.Deletes, maxStatementRows) {
			query, args, err := buildDeleteQuery(b, table, "id", chunk)
			if err != nil {
				return nil, err
			}
			add("delete rows", query, args)
		}
	}

	query, args, err := buildUpsertCheckpointQuery(b, batch.Collection, batch.Checkpoint)
	if err != nil {
		return nil, err
	}
	add("write checkpoint", query, args)

	return steps, nil
}

// GetVersion implements [VersionStore].
func (r *sqlRepository) GetVersion(ctx context.Context, collection models.Collection) (int64, error) {
	query, args, err := buildSelectVersionQuery(r.builder(), collection)
	if err != nil {
		return 0, err
	}

	var version int64
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sqlRepository.GetVersion").
			Str("collection", collection.String()).
			Str("classification", r.classify(err)).
			Msg("failed to read checkpoint")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return version, nil
}

// Checkpoints implements [LocalRepository].
func (r *sqlRepository) Checkpoints(ctx context.Context) ([]models.Checkpoint, error) {
	query, args, err := buildSelectCheckpointsQuery(r.builder())
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	stored := make(map[models.Collection]int64)
	for rows.Next() {
		var (
			collection string
			version    int64
		)
		if err = rows.Scan(&collection, &version); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		stored[models.Collection(collection)] = version
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return checkpointList(stored), nil
}

// EntityIDs implements [LocalRepository].
func (r *sqlRepository) EntityIDs(ctx context.Context, collection models.Collection) ([]string, error) {
	query, args, err := buildSelectIDsQuery(r.builder(), collection)
	if err != nil {
		return nil, err
	}
	return r.queryStrings(ctx, query, args)
}

// GetTopic implements [LocalRepository].
func (r *sqlRepository) GetTopic(ctx context.Context, id string) (models.Topic, error) {
	query, args, err := buildSelectTopicQuery(r.builder(), id)
	if err != nil {
		return models.Topic{}, err
	}

	var t models.Topic
	err = r.DB.QueryRowContext(ctx, query, args...).
		Scan(&t.ID, &t.Name, &t.ShortDescription, &t.LongDescription, &t.URL, &t.ImageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Topic{}, fmt.Errorf("%w: topic %q", ErrEntityNotFound, id)
	}
	if err != nil {
		return models.Topic{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return t, nil
}

// GetNewsResource implements [LocalRepository].
func (r *sqlRepository) GetNewsResource(ctx context.Context, id string) (models.NewsResource, error) {
	query, args, err := buildSelectNewsResourceQuery(r.builder(), id)
	if err != nil {
		return models.NewsResource{}, err
	}

	var (
		n           models.NewsResource
		publishDate time.Time
	)
	err = r.DB.QueryRowContext(ctx, query, args...).
		Scan(&n.ID, &n.Title, &n.Content, &n.URL, &n.HeaderImageURL, &publishDate, &n.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewsResource{}, fmt.Errorf("%w: news resource %q", ErrEntityNotFound, id)
	}
	if err != nil {
		return models.NewsResource{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	n.PublishDate = publishDate.UTC()

	query, args, err = buildSelectRelationsQuery(r.builder(), id)
	if err != nil {
		return models.NewsResource{}, err
	}
	if n.Topics, err = r.queryStrings(ctx, query, args); err != nil {
		return models.NewsResource{}, err
	}
	return n, nil
}

func (r *sqlRepository) queryStrings(ctx context.Context, query string, args []any) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err = rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		out = append(out, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return out, nil
}

// splitUpserts checks that every upsert belongs to the batch collection and
// returns them as typed slices.
func splitUpserts(batch models.SyncBatch) ([]models.Topic, []models.NewsResource, error) {
	var (
		topics    []models.Topic
		resources []models.NewsResource
	)
	for _, e := range batch.Upserts {
		if e.EntityCollection() != batch.Collection {
			return nil, nil, fmt.Errorf("%w: %s in %s batch", ErrWrongCollection, e.EntityID(), batch.Collection)
		}
		switch v := e.(type) {
		case models.Topic:
			topics = append(topics, v)
		case *models.Topic:
			topics = append(topics, *v)
		case models.NewsResource:
			resources = append(resources, v)
		case *models.NewsResource:
			resources = append(resources, *v)
		default:
			return nil, nil, fmt.Errorf("%w: unsupported entity %T", ErrWrongCollection, e)
		}
	}
	return topics, resources, nil
}

// checkpointList returns one checkpoint per known collection, zero for
// collections never synced, plus any stored unknown collection.
func checkpointList(stored map[models.Collection]int64) []models.Checkpoint {
	out := make([]models.Checkpoint, 0, len(stored))
	seen := make(map[models.Collection]struct{})
	for _, c := range models.AllCollections() {
		out = append(out, models.Checkpoint{Collection: c, Version: stored[c]})
		seen[c] = struct{}{}
	}
	for c, v := range stored {
		if _, ok := seen[c]; !ok {
			out = append(out, models.Checkpoint{Collection: c, Version: v})
		}
	}
	return out
}
