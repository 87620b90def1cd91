package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-news-sync/internal/adapter"
	"github.com/MKhiriev/go-news-sync/internal/broadcast"
	"github.com/MKhiriev/go-news-sync/internal/logger"
	"github.com/MKhiriev/go-news-sync/internal/mock"
	"github.com/MKhiriev/go-news-sync/models"
)

func TestNetworkMonitor_Check_Edges(t *testing.T) {
	ctrl := gomock.NewController(t)
	checker := mock.NewMockHealthChecker(ctrl)
	syncer := mock.NewMockClientSyncService(ctrl)
	messages := mock.NewMockMessagePublisher(ctrl)

	m := NewNetworkMonitor(checker, syncer, messages, time.Second, logger.Nop())
	ctx := context.Background()

	gomock.InOrder(
		// online → online: ничего
		checker.EXPECT().Ping(gomock.Any()).Return(nil),
		// online → offline: одно сообщение
		checker.EXPECT().Ping(gomock.Any()).Return(adapter.ErrRemoteUnavailable),
		messages.EXPECT().Publish(models.MessageOffline).Return(uuid.New()),
		// offline → offline: без повторной публикации
		checker.EXPECT().Ping(gomock.Any()).Return(adapter.ErrRemoteUnavailable),
		// offline → online: снимаем сообщение и синхронизируем
		checker.EXPECT().Ping(gomock.Any()).Return(nil),
		messages.EXPECT().ClearKind(models.MessageOffline),
		syncer.EXPECT().SyncAll(gomock.Any()).Return(nil),
	)

	assert.True(t, m.Check(ctx))
	assert.False(t, m.Check(ctx))
	assert.False(t, m.Check(ctx))
	assert.True(t, m.Check(ctx))
}

func TestNetworkMonitor_Check_CancelledContextKeepsState(t *testing.T) {
	ctrl := gomock.NewController(t)
	checker := mock.NewMockHealthChecker(ctrl)

	m := NewNetworkMonitor(checker, nil, nil, 0, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	checker.EXPECT().Ping(gomock.Any()).Return(context.Canceled)

	assert.True(t, m.Check(ctx), "cancellation is not an outage")
}

func TestNetworkMonitor_OnlineSignal(t *testing.T) {
	ctrl := gomock.NewController(t)
	checker := mock.NewMockHealthChecker(ctrl)
	b := broadcast.New(logger.Nop())

	m := NewNetworkMonitor(checker, nil, b, time.Second, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	online := m.Online().Observe(ctx)
	require.True(t, <-online)

	checker.EXPECT().Ping(gomock.Any()).Return(adapter.ErrRemoteUnavailable)
	m.Check(ctx)

	require.False(t, <-online)
	require.True(t, b.Has(models.MessageOffline))
}

func TestNetworkMonitor_StartStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	checker := mock.NewMockHealthChecker(ctrl)

	var pings atomic.Int64
	checker.EXPECT().Ping(gomock.Any()).DoAndReturn(func(context.Context) error {
		pings.Add(1)
		return nil
	}).AnyTimes()

	m := NewNetworkMonitor(checker, nil, nil, time.Second, logger.Nop())
	m.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(45 * time.Millisecond)
	m.Stop()

	after := pings.Load()
	assert.GreaterOrEqual(t, after, int64(2))

	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, after, pings.Load(), "no probes after Stop")
}
