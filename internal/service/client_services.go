package service

import (
	"github.com/MKhiriev/go-news-sync/internal/adapter"
	"github.com/MKhiriev/go-news-sync/internal/config"
	"github.com/MKhiriev/go-news-sync/internal/logger"
	"github.com/MKhiriev/go-news-sync/internal/store"
	"github.com/MKhiriev/go-news-sync/models"
)

type ClientServices struct {
	SyncService    ClientSyncService
	SyncJob        ClientSyncJob
	NetworkMonitor *NetworkMonitor
	StatusService  StatusService
}

func NewClientServices(
	storages *store.ClientStorages,
	source adapter.RemoteSource,
	messages MessagePublisher,
	cfg *config.ClientConfig,
	buildInfo models.AppBuildInfo,
	logger *logger.Logger,
) *ClientServices {
	syncSvc := NewClientSyncService(source, storages.Repository, messages, cfg.Sync, logger)

	return &ClientServices{
		SyncService:    syncSvc,
		SyncJob:        NewClientSyncJob(syncSvc, logger),
		NetworkMonitor: NewNetworkMonitor(source, syncSvc, messages, cfg.Adapter.RequestTimeout, logger),
		StatusService:  NewStatusService(storages.Repository, buildInfo, logger),
	}
}
