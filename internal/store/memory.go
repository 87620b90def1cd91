package store

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/MKhiriev/go-news-sync/internal/logger"
	"github.com/MKhiriev/go-news-sync/models"
)

type memoryState struct {
	Topics        map[string]models.Topic        `json:"topics"`
	NewsResources map[string]models.NewsResource `json:"news_resources"`
	Checkpoints   map[models.Collection]int64    `json:"checkpoints"`
}

func newMemoryState() *memoryState {
	return &memoryState{
		Topics:        make(map[string]models.Topic),
		NewsResources: make(map[string]models.NewsResource),
		Checkpoints:   make(map[models.Collection]int64),
	}
}

func (s *memoryState) clone() *memoryState {
	out := &memoryState{
		Topics:        maps.Clone(s.Topics),
		NewsResources: make(map[string]models.NewsResource, len(s.NewsResources)),
		Checkpoints:   maps.Clone(s.Checkpoints),
	}
	for id, n := range s.NewsResources {
		n.Topics = slices.Clone(n.Topics)
		out.NewsResources[id] = n
	}
	return out
}

// MemoryRepository keeps the local mirror in process memory. When path is
// set, every applied batch is also written to a JSON snapshot which is read
// back on construction.
type MemoryRepository struct {
	path   string
	logger *logger.Logger

	mu    sync.RWMutex
	state *memoryState

	// beforeCommit runs after the batch is applied to the working copy and
	// before it replaces the visible state.
	beforeCommit func() error
}

// NewMemoryRepository constructs a [MemoryRepository]. An empty path or
// ":memory:" disables snapshots.
func NewMemoryRepository(path string, log *logger.Logger) (*MemoryRepository, error) {
	if path == ":memory:" {
		path = ""
	}
	r := &MemoryRepository{
		path:   path,
		logger: log,
		state:  newMemoryState(),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *MemoryRepository) load() error {
	if r.path == "" {
		return nil
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read snapshot file: %w", err)
	}

	st := newMemoryState()
	if err = json.Unmarshal(data, st); err != nil {
		return fmt.Errorf("decode snapshot file: %w", err)
	}
	if st.Topics == nil {
		st.Topics = make(map[string]models.Topic)
	}
	if st.NewsResources == nil {
		st.NewsResources = make(map[string]models.NewsResource)
	}
	if st.Checkpoints == nil {
		st.Checkpoints = make(map[models.Collection]int64)
	}

	r.state = st
	r.logger.Debug().
		Str("func", "MemoryRepository.load").
		Str("path", r.path).
		Int("topics", len(st.Topics)).
		Int("news_resources", len(st.NewsResources)).
		Msg("snapshot loaded")
	return nil
}

// persist writes st to a temporary file and renames it over the snapshot,
// so a crash leaves either the old or the new snapshot on disk.
func (r *MemoryRepository) persist(st *memoryState) error {
	if r.path == "" {
		return nil
	}

	dir := filepath.Dir(r.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	payload, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := r.path + ".tmp"
	if err = os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	if err = os.Rename(tmp, r.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace snapshot file: %w", err)
	}
	return nil
}

// ApplyBatch implements [LocalRepository]. The batch is applied to a copy of
// the state which replaces the visible state only after the snapshot (if
// any) was written.
func (r *MemoryRepository) ApplyBatch(ctx context.Context, batch models.SyncBatch) error {
	topics, resources, err := splitUpserts(batch)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	if err = ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.state.clone()
	for _, t := range topics {
		next.Topics[t.ID] = t
	}
	for _, n := range resources {
		n.Topics = dedupe(n.Topics)
		next.NewsResources[n.ID] = n
	}

	switch batch.Collection {
	case models.CollectionTopics:
		for _, id := range batch.Deletes {
			delete(next.Topics, id)
		}
		if len(batch.Deletes) > 0 {
			removeTopicRelations(next, batch.Deletes)
		}
	case models.CollectionNewsResources:
		for _, id := range batch.Deletes {
			delete(next.NewsResources, id)
		}
	default:
		if len(batch.Deletes) > 0 {
			return fmt.Errorf("%w: %w: %q", ErrStorageFailure, models.ErrUnknownCollection, batch.Collection)
		}
	}
	next.Checkpoints[batch.Collection] = batch.Checkpoint

	if r.beforeCommit != nil {
		if err = r.beforeCommit(); err != nil {
			return fmt.Errorf("%w: %w", ErrStorageFailure, err)
		}
	}
	if err = r.persist(next); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "MemoryRepository.ApplyBatch").
			Str("collection", batch.Collection.String()).
			Msg("failed to write snapshot")
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	r.state = next
	return nil
}

func removeTopicRelations(st *memoryState, topicIDs []string) {
	for id, n := range st.NewsResources {
		kept := slices.DeleteFunc(n.Topics, func(t string) bool {
			return slices.Contains(topicIDs, t)
		})
		n.Topics = kept
		st.NewsResources[id] = n
	}
}

// GetVersion implements [VersionStore].
func (r *MemoryRepository) GetVersion(_ context.Context, collection models.Collection) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Checkpoints[collection], nil
}

// Checkpoints implements [LocalRepository].
func (r *MemoryRepository) Checkpoints(_ context.Context) ([]models.Checkpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return checkpointList(r.state.Checkpoints), nil
}

// EntityIDs implements [LocalRepository].
func (r *MemoryRepository) EntityIDs(_ context.Context, collection models.Collection) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	switch collection {
	case models.CollectionTopics:
		return slices.Sorted(maps.Keys(r.state.Topics)), nil
	case models.CollectionNewsResources:
		return slices.Sorted(maps.Keys(r.state.NewsResources)), nil
	}
	return nil, fmt.Errorf("%w: %q", models.ErrUnknownCollection, collection)
}

// GetTopic implements [LocalRepository].
func (r *MemoryRepository) GetTopic(_ context.Context, id string) (models.Topic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.state.Topics[id]
	if !ok {
		return models.Topic{}, fmt.Errorf("%w: topic %q", ErrEntityNotFound, id)
	}
	return t, nil
}

// GetNewsResource implements [LocalRepository].
func (r *MemoryRepository) GetNewsResource(_ context.Context, id string) (models.NewsResource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.state.NewsResources[id]
	if !ok {
		return models.NewsResource{}, fmt.Errorf("%w: news resource %q", ErrEntityNotFound, id)
	}
	n.Topics = slices.Sorted(slices.Values(n.Topics))
	return n, nil
}

// Path returns the snapshot file, empty when snapshots are disabled.
func (r *MemoryRepository) Path() string {
	return r.path
}

// Close is a no-op; every batch is already persisted when ApplyBatch returns.
func (r *MemoryRepository) Close() error {
	return nil
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
