package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-news-sync/internal/adapter"
	"github.com/MKhiriev/go-news-sync/internal/broadcast"
	"github.com/MKhiriev/go-news-sync/internal/logger"
	"github.com/MKhiriev/go-news-sync/internal/store"
	"github.com/MKhiriev/go-news-sync/models"
)

type e2e struct {
	source *adapter.MemoryChangeSource
	repo   *store.MemoryRepository
	msgs   *broadcast.Broadcast
	svc    ClientSyncService
}

func newE2E(t *testing.T, snapshot string) *e2e {
	t.Helper()

	repo, err := store.NewMemoryRepository(snapshot, logger.Nop())
	require.NoError(t, err)

	env := &e2e{
		source: adapter.NewMemoryChangeSource(),
		repo:   repo,
		msgs:   broadcast.New(logger.Nop()),
	}
	env.svc = NewClientSyncService(env.source, env.repo, env.msgs, testSyncConfig(), logger.Nop())
	return env
}

func TestSyncEndToEnd_FirstRunThenIdle(t *testing.T) {
	ctx := context.Background()
	env := newE2E(t, "")

	env.source.Put(models.Topic{ID: "t1", Name: "Headlines"})

	res := env.svc.Sync(ctx, models.CollectionTopics)
	require.NoError(t, res.Err)

	topic, err := env.repo.GetTopic(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Headlines", topic.Name)
	v, err := env.repo.GetVersion(ctx, models.CollectionTopics)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	// повторный запуск с пустым списком изменений ничего не меняет
	res = env.svc.Sync(ctx, models.CollectionTopics)
	require.NoError(t, res.Err)
	assert.Empty(t, res.Upserted)

	v, err = env.repo.GetVersion(ctx, models.CollectionTopics)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	ids, err := env.repo.EntityIDs(ctx, models.CollectionTopics)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, ids)
}

func TestSyncEndToEnd_CheckpointIsMonotonic(t *testing.T) {
	ctx := context.Background()
	env := newE2E(t, "")

	var last int64
	step := func() {
		res := env.svc.Sync(ctx, models.CollectionNewsResources)
		require.NoError(t, res.Err)
		v, err := env.repo.GetVersion(ctx, models.CollectionNewsResources)
		require.NoError(t, err)
		require.GreaterOrEqual(t, v, last)
		last = v
	}

	env.source.Put(models.NewsResource{ID: "n1", PublishDate: time.Now().UTC(), Topics: []string{"t1"}})
	step()
	env.source.Put(models.NewsResource{ID: "n2", PublishDate: time.Now().UTC()})
	env.source.Remove(models.CollectionNewsResources, "n1")
	step()
	step()

	assert.Equal(t, env.source.Version(models.CollectionNewsResources), last)
	ids, err := env.repo.EntityIDs(ctx, models.CollectionNewsResources)
	require.NoError(t, err)
	assert.Equal(t, []string{"n2"}, ids)
}

func TestSyncEndToEnd_OfflineThenRecovery(t *testing.T) {
	ctx := context.Background()
	env := newE2E(t, "")
	monitor := NewNetworkMonitor(env.source, env.svc, env.msgs, time.Second, logger.Nop())

	env.source.Put(models.Topic{ID: "t1"})
	env.source.SetOnline(false)

	res := env.svc.Sync(ctx, models.CollectionTopics)
	require.ErrorIs(t, res.Err, adapter.ErrRemoteUnavailable)
	require.False(t, monitor.Check(ctx))

	// Offline показывается раньше ошибки синхронизации
	msgs := env.msgs.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, models.MessageOffline, msgs[0].Kind)
	assert.Equal(t, models.MessageSyncFailure, msgs[1].Kind)

	v, _ := env.repo.GetVersion(ctx, models.CollectionTopics)
	assert.Zero(t, v)

	env.source.SetOnline(true)
	require.True(t, monitor.Check(ctx))

	// восстановление: сообщения сняты, данные подтянуты
	assert.Empty(t, env.msgs.Messages())
	v, _ = env.repo.GetVersion(ctx, models.CollectionTopics)
	assert.Equal(t, int64(1), v)
}

func TestSyncEndToEnd_DroppedPayloadStillAdvances(t *testing.T) {
	ctx := context.Background()
	env := newE2E(t, filepath.Join(t.TempDir(), "mirror.json"))

	env.source.Put(models.Topic{ID: "t1"}, models.Topic{ID: "t2"})
	env.source.Forget(models.CollectionTopics, "t2")

	res := env.svc.Sync(ctx, models.CollectionTopics)
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"t2"}, res.Dropped)
	assert.Equal(t, int64(2), res.Checkpoint)

	// снапшот переживает перезапуск
	reopened, err := store.NewMemoryRepository(env.repo.Path(), logger.Nop())
	require.NoError(t, err)
	v, err := reopened.GetVersion(ctx, models.CollectionTopics)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}
