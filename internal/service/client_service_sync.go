package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-news-sync/internal/adapter"
	"github.com/MKhiriev/go-news-sync/internal/broadcast"
	"github.com/MKhiriev/go-news-sync/internal/config"
	"github.com/MKhiriev/go-news-sync/internal/logger"
	"github.com/MKhiriev/go-news-sync/internal/signal"
	"github.com/MKhiriev/go-news-sync/internal/store"
	"github.com/MKhiriev/go-news-sync/models"
)

type clientSyncService struct {
	source   adapter.ChangeSource
	repo     store.LocalRepository
	messages MessagePublisher
	cfg      config.ClientSync
	logger   *logger.Logger

	mu       sync.Mutex
	runs     map[models.Collection]*sync.Mutex
	failures map[models.Collection]uuid.UUID

	states *signal.State[map[models.Collection]models.SyncState]

	// newBackoff builds the retry policy of one remote call.
	newBackoff func() retry.Backoff
}

// NewClientSyncService wires the orchestrator. messages may be nil, in which
// case failures are only logged.
func NewClientSyncService(
	source adapter.ChangeSource,
	repo store.LocalRepository,
	messages MessagePublisher,
	cfg config.ClientSync,
	logger *logger.Logger,
) ClientSyncService {
	if len(cfg.Collections) == 0 {
		cfg.Collections = models.AllCollections()
	}

	initial := make(map[models.Collection]models.SyncState, len(cfg.Collections))
	for _, c := range cfg.Collections {
		initial[c] = models.SyncIdle
	}

	s := &clientSyncService{
		source:   source,
		repo:     repo,
		messages: messages,
		cfg:      cfg,
		logger:   logger,
		runs:     make(map[models.Collection]*sync.Mutex),
		failures: make(map[models.Collection]uuid.UUID),
		states:   signal.NewState(initial),
	}
	s.newBackoff = s.defaultBackoff
	return s
}

// defaultBackoff is capped exponential backoff with jitter, bounded to
// MaxAttempts calls in total.
func (s *clientSyncService) defaultBackoff() retry.Backoff {
	base := s.cfg.BaseDelay
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	attempts := max(s.cfg.MaxAttempts, 1)

	b := retry.NewExponential(base)
	if s.cfg.Jitter > 0 {
		b = retry.WithJitter(s.cfg.Jitter, b)
	}
	if s.cfg.MaxDelay > 0 {
		b = retry.WithCappedDuration(s.cfg.MaxDelay, b)
	}
	return retry.WithMaxRetries(attempts-1, b)
}

func (s *clientSyncService) States() signal.Source[map[models.Collection]models.SyncState] {
	return s.states
}

func (s *clientSyncService) SyncAll(ctx context.Context) []models.SyncResult {
	results := make([]models.SyncResult, len(s.cfg.Collections))

	var g errgroup.Group
	for i, c := range s.cfg.Collections {
		g.Go(func() error {
			results[i] = s.Sync(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *clientSyncService) Sync(ctx context.Context, collection models.Collection) models.SyncResult {
	run := s.runLock(collection)
	if !run.TryLock() {
		s.logger.Debug().
			Str("func", "clientSyncService.Sync").
			Str("collection", collection.String()).
			Msg("sync already in progress, trigger coalesced")
		return models.SyncResult{
			Collection: collection,
			State:      s.states.Get()[collection],
			Coalesced:  true,
		}
	}
	defer run.Unlock()
	defer s.setState(collection, models.SyncIdle)

	runID := ulid.Make().String()
	log := s.logger.ForSync(collection.String(), runID)
	ctx = log.WithContext(ctx)

	result := models.SyncResult{RunID: runID, Collection: collection}
	start := time.Now()
	err := s.run(ctx, collection, &result)
	result.Duration = time.Since(start)

	if err != nil {
		s.fail(ctx, log, &result, err)
		return result
	}

	result.State = models.SyncIdle
	s.clearFailure(collection)
	log.Info().
		Str("func", "clientSyncService.Sync").
		Int("upserted", len(result.Upserted)).
		Int("deleted", len(result.Deleted)).
		Int("dropped", len(result.Dropped)).
		Int64("checkpoint", result.Checkpoint).
		Dur("duration", result.Duration).
		Msg("sync finished")
	return result
}

func (s *clientSyncService) run(ctx context.Context, collection models.Collection, result *models.SyncResult) error {
	log := logger.FromContext(ctx)

	// Fetching
	s.setState(collection, models.SyncFetching)
	checkpoint, err := s.repo.GetVersion(ctx, collection)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadingCheckpoint, err)
	}
	result.Checkpoint = checkpoint

	var changes []models.ChangeEntry
	err = s.withRetry(ctx, "fetch changes", func(callCtx context.Context) error {
		var callErr error
		changes, callErr = s.source.FetchChanges(callCtx, collection, checkpoint)
		return callErr
	})
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		log.Debug().
			Str("func", "clientSyncService.run").
			Int64("checkpoint", checkpoint).
			Msg("no changes")
		return nil
	}

	// Reconciling
	s.setState(collection, models.SyncReconciling)
	outcome := Reconcile(collection, checkpoint, changes)

	// FetchingPayloads
	s.setState(collection, models.SyncFetchingPayloads)
	var fetched []models.Entity
	if len(outcome.UpsertIDs) > 0 {
		err = s.withRetry(ctx, "fetch entities", func(callCtx context.Context) error {
			var callErr error
			fetched, callErr = s.source.FetchEntities(callCtx, collection, outcome.UpsertIDs)
			return callErr
		})
		if err != nil {
			return err
		}
	}

	upserts, dropped := matchEntities(collection, outcome.UpsertIDs, fetched)
	if len(dropped) > 0 {
		if s.cfg.MissingPolicy == config.MissingStall {
			return fmt.Errorf("%w: %v", ErrDataInconsistency, dropped)
		}
		log.Warn().
			Str("func", "clientSyncService.run").
			Strs("ids", dropped).
			Msg("referenced entities could not be fetched, dropping them")
	}

	// Applying
	s.setState(collection, models.SyncApplying)
	if err = ctx.Err(); err != nil {
		return err
	}
	err = s.repo.ApplyBatch(ctx, models.SyncBatch{
		Collection: collection,
		Upserts:    upserts,
		Deletes:    outcome.DeleteIDs,
		Checkpoint: outcome.NewCheckpoint,
	})
	if err != nil {
		return err
	}

	result.Upserted = entityIDs(upserts)
	result.Deleted = outcome.DeleteIDs
	result.Dropped = dropped
	result.Checkpoint = outcome.NewCheckpoint
	return nil
}

// withRetry runs call with a fresh backoff. Every attempt gets its own
// CallTimeout; only errors matching [adapter.ErrRemoteUnavailable] are
// retried.
func (s *clientSyncService) withRetry(ctx context.Context, op string, call func(context.Context) error) error {
	log := logger.FromContext(ctx)
	attempt := 0

	err := retry.Do(ctx, s.newBackoff(), func(ctx context.Context) error {
		attempt++

		callCtx, cancel := ctx, context.CancelFunc(func() {})
		if s.cfg.CallTimeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, s.cfg.CallTimeout)
		}
		err := mapRemoteError(ctx, call(callCtx))
		cancel()

		if err != nil && isRetryable(err) {
			log.Warn().Err(err).
				Str("func", "clientSyncService.withRetry").
				Str("op", op).
				Int("attempt", attempt).
				Msg("remote unavailable, backing off")
			return retry.RetryableError(err)
		}
		return err
	})
	if err == nil {
		return nil
	}
	if isRetryable(err) && ctx.Err() == nil {
		return fmt.Errorf("%s: %w after %d attempts: %w", op, ErrRetriesExhausted, attempt, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *clientSyncService) fail(ctx context.Context, log *logger.Logger, result *models.SyncResult, err error) {
	result.State = models.SyncFailed
	result.Err = err
	s.setState(result.Collection, models.SyncFailed)

	if isCancellation(ctx, err) {
		log.Info().
			Str("func", "clientSyncService.Sync").
			Msg("sync cancelled")
		return
	}

	log.Error().Err(err).
		Str("func", "clientSyncService.Sync").
		Bool("remote_unavailable", errors.Is(err, adapter.ErrRemoteUnavailable)).
		Bool("storage_failure", errors.Is(err, store.ErrStorageFailure)).
		Msg("sync failed")

	if s.messages == nil {
		return
	}
	collection := result.Collection
	retryCtx := context.WithoutCancel(ctx)
	id := s.messages.Publish(models.MessageSyncFailure,
		broadcast.WithLabel(collection.String()),
		broadcast.WithOnConfirm(func() {
			go s.Sync(retryCtx, collection)
		}),
	)

	s.mu.Lock()
	s.failures[collection] = id
	s.mu.Unlock()
}

func (s *clientSyncService) clearFailure(collection models.Collection) {
	s.mu.Lock()
	id, ok := s.failures[collection]
	delete(s.failures, collection)
	s.mu.Unlock()

	if ok && s.messages != nil {
		s.messages.Clear(id)
	}
}

func (s *clientSyncService) runLock(collection models.Collection) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.runs[collection]
	if !ok {
		m = &sync.Mutex{}
		s.runs[collection] = m
	}
	return m
}

func (s *clientSyncService) setState(collection models.Collection, state models.SyncState) {
	s.states.Update(func(current map[models.Collection]models.SyncState) map[models.Collection]models.SyncState {
		next := maps.Clone(current)
		if next == nil {
			next = make(map[models.Collection]models.SyncState)
		}
		next[collection] = state
		return next
	})
}

// matchEntities keeps the fetched entities that were asked for, one per id,
// and lists the requested ids the remote did not return.
func matchEntities(collection models.Collection, requested []string, fetched []models.Entity) ([]models.Entity, []string) {
	byID := make(map[string]models.Entity, len(fetched))
	for _, e := range fetched {
		if e == nil || e.EntityCollection() != collection {
			continue
		}
		byID[e.EntityID()] = e
	}

	upserts := make([]models.Entity, 0, len(requested))
	var dropped []string
	for _, id := range requested {
		e, ok := byID[id]
		if !ok {
			dropped = append(dropped, id)
			continue
		}
		upserts = append(upserts, e)
	}
	return upserts, dropped
}

func entityIDs(entities []models.Entity) []string {
	ids := make([]string, 0, len(entities))
	for _, e := range entities {
		ids = append(ids, e.EntityID())
	}
	slices.Sort(ids)
	return ids
}
