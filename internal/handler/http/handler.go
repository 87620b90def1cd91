package http

import (
	"github.com/MKhiriev/go-news-sync/internal/adapter"
	"github.com/MKhiriev/go-news-sync/internal/logger"
	"github.com/MKhiriev/go-news-sync/internal/validators"
	"github.com/MKhiriev/go-news-sync/models"
)

// Feed is the change feed served by the handler. [adapter.MemoryChangeSource]
// implements it.
type Feed interface {
	adapter.RemoteSource

	Put(entities ...models.Entity) int64
	Remove(c models.Collection, ids ...string) int64
	SetOnline(online bool)
	Version(c models.Collection) int64
}

type Handler struct {
	feed      Feed
	validator validators.Validator
	buildInfo models.AppBuildInfo

	logger *logger.Logger
}

func NewHandler(feed Feed, buildInfo models.AppBuildInfo, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		feed:      feed,
		validator: validators.NewEntityValidator(),
		buildInfo: buildInfo,
		logger:    logger,
	}
}
