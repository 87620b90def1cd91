package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/MKhiriev/go-news-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryChangeSource_PutAndRemoveAppendEntries(t *testing.T) {
	m := NewMemoryChangeSource()
	ctx := context.Background()

	m.Put(models.Topic{ID: "t1"}, models.Topic{ID: "t2"})
	v := m.Remove(models.CollectionTopics, "t1")
	assert.Equal(t, int64(3), v)

	changes, err := m.FetchChanges(ctx, models.CollectionTopics, 0)
	require.NoError(t, err)
	assert.Equal(t, []models.ChangeEntry{
		{ID: "t1", Version: 1},
		{ID: "t2", Version: 2},
		{ID: "t1", Version: 3, IsDelete: true},
	}, changes)

	after, err := m.FetchChanges(ctx, models.CollectionTopics, 2)
	require.NoError(t, err)
	assert.Equal(t, []models.ChangeEntry{{ID: "t1", Version: 3, IsDelete: true}}, after)

	// версии коллекций независимы
	assert.Equal(t, int64(0), m.Version(models.CollectionNewsResources))
}

func TestMemoryChangeSource_FetchEntitiesOmitsUnknown(t *testing.T) {
	m := NewMemoryChangeSource()
	m.Put(models.Topic{ID: "t1", Name: "Kotlin"}, models.Topic{ID: "t2"})
	m.Forget(models.CollectionTopics, "t2")

	got, err := m.FetchEntities(context.Background(), models.CollectionTopics, []string{"t1", "t2", "t3"})

	require.NoError(t, err)
	assert.Equal(t, []models.Entity{models.Topic{ID: "t1", Name: "Kotlin"}}, got)
}

func TestMemoryChangeSource_UnknownCollectionIsEmpty(t *testing.T) {
	m := NewMemoryChangeSource()

	changes, err := m.FetchChanges(context.Background(), models.CollectionNewsResources, 0)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestMemoryChangeSource_Offline(t *testing.T) {
	m := NewMemoryChangeSource()
	m.SetOnline(false)

	_, err := m.FetchChanges(context.Background(), models.CollectionTopics, 0)
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
	assert.ErrorIs(t, m.Ping(context.Background()), ErrRemoteUnavailable)

	m.SetOnline(true)
	assert.NoError(t, m.Ping(context.Background()))
}

func TestMemoryChangeSource_CanceledContext(t *testing.T) {
	m := NewMemoryChangeSource()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.FetchEntities(ctx, models.CollectionTopics, []string{"t1"})
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryChangeSource_LoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"topics": [{"id": "t1", "name": "Headlines"}, {"id": "t2", "name": "UI"}],
		"news_resources": [{"id": "n1", "title": "Hello", "topics": ["t1", "t2"], "publishDate": "2026-01-02T03:04:05Z"}]
	}`), 0o600))

	m := NewMemoryChangeSource()
	require.NoError(t, m.LoadSeed(path))

	assert.Equal(t, int64(2), m.Version(models.CollectionTopics))
	assert.Equal(t, int64(1), m.Version(models.CollectionNewsResources))

	got, err := m.FetchEntities(context.Background(), models.CollectionNewsResources, []string{"n1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"t1", "t2"}, got[0].(models.NewsResource).Topics)
}

func TestMemoryChangeSource_LoadSeedErrors(t *testing.T) {
	m := NewMemoryChangeSource()
	require.Error(t, m.LoadSeed(filepath.Join(t.TempDir(), "missing.json")))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"topics": 1}`), 0o600))
	require.Error(t, m.LoadSeed(bad))
}
