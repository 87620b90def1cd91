package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/MKhiriev/go-news-sync/models"
)

// MemoryChangeSource is an in-process change feed. Every Put or Remove
// appends an entry with the next version of the collection, so the feed
// behaves like a remote change list without any network.
type MemoryChangeSource struct {
	mu      sync.RWMutex
	feeds   map[models.Collection]*memoryFeed
	offline bool
}

type memoryFeed struct {
	version  int64
	log      []models.ChangeEntry
	entities map[string]models.Entity
}

// NewMemoryChangeSource returns an empty, online feed.
func NewMemoryChangeSource() *MemoryChangeSource {
	return &MemoryChangeSource{feeds: make(map[models.Collection]*memoryFeed)}
}

func (m *MemoryChangeSource) feed(c models.Collection) *memoryFeed {
	f, ok := m.feeds[c]
	if !ok {
		f = &memoryFeed{entities: make(map[string]models.Entity)}
		m.feeds[c] = f
	}
	return f
}

// Put stores entities and appends one upsert entry per entity. It returns
// the latest version of the last touched collection.
func (m *MemoryChangeSource) Put(entities ...models.Entity) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var version int64
	for _, e := range entities {
		f := m.feed(e.EntityCollection())
		f.version++
		f.entities[e.EntityID()] = e
		f.log = append(f.log, models.ChangeEntry{ID: e.EntityID(), Version: f.version})
		version = f.version
	}
	return version
}

// Remove deletes ids from the collection and appends one delete entry per
// id, known or not. It returns the latest version of the collection.
func (m *MemoryChangeSource) Remove(c models.Collection, ids ...string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	f := m.feed(c)
	for _, id := range ids {
		f.version++
		delete(f.entities, id)
		f.log = append(f.log, models.ChangeEntry{ID: id, Version: f.version, IsDelete: true})
	}
	return f.version
}

// Forget drops the payload of id but keeps its change entries, modelling a
// feed that references an entity it can no longer serve.
func (m *MemoryChangeSource) Forget(c models.Collection, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.feed(c).entities, id)
}

// LoadSeed reads a JSON [models.Seed] from path and puts its topics and then
// its news resources in file order.
func (m *MemoryChangeSource) LoadSeed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}

	var seed models.Seed
	if err = json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("decode seed: %w", err)
	}

	m.Put(models.ToEntities(seed.Topics)...)
	m.Put(models.ToEntities(seed.NewsResources)...)
	return nil
}

// SetOnline toggles simulated reachability. While offline every call fails
// with [ErrRemoteUnavailable].
func (m *MemoryChangeSource) SetOnline(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offline = !online
}

// Version returns the latest version of the collection.
func (m *MemoryChangeSource) Version(c models.Collection) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if f, ok := m.feeds[c]; ok {
		return f.version
	}
	return 0
}

// FetchChanges implements [ChangeSource].
func (m *MemoryChangeSource) FetchChanges(ctx context.Context, collection models.Collection, after int64) ([]models.ChangeEntry, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.feeds[collection]
	if !ok {
		return nil, nil
	}
	idx := sort.Search(len(f.log), func(i int) bool {
		return f.log[i].Version > after
	})
	out := make([]models.ChangeEntry, len(f.log)-idx)
	copy(out, f.log[idx:])
	return out, nil
}

// FetchEntities implements [ChangeSource].
func (m *MemoryChangeSource) FetchEntities(ctx context.Context, collection models.Collection, ids []string) ([]models.Entity, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.feeds[collection]
	if !ok {
		return nil, nil
	}
	out := make([]models.Entity, 0, len(ids))
	for _, id := range ids {
		if e, found := f.entities[id]; found {
			out = append(out, e)
		}
	}
	return out, nil
}

// Ping implements [HealthChecker].
func (m *MemoryChangeSource) Ping(ctx context.Context) error {
	return m.check(ctx)
}

func (m *MemoryChangeSource) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return mapTransportError("memory feed", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.offline {
		return fmt.Errorf("memory feed: %w", ErrRemoteUnavailable)
	}
	return nil
}
