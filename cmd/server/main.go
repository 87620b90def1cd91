package main

import (
	"fmt"

	"github.com/MKhiriev/go-news-sync/internal/adapter"
	"github.com/MKhiriev/go-news-sync/internal/config"
	"github.com/MKhiriev/go-news-sync/internal/handler/http"
	"github.com/MKhiriev/go-news-sync/internal/logger"
	"github.com/MKhiriev/go-news-sync/internal/server"
	"github.com/MKhiriev/go-news-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Print(buildInfo)

	log := logger.NewLogger("news-feed-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = logger.SetLevel(cfg.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	feed := adapter.NewMemoryChangeSource()
	if cfg.SeedPath != "" {
		if err = feed.LoadSeed(cfg.SeedPath); err != nil {
			log.Fatal().Err(err).Str("seed", cfg.SeedPath).Msg("error loading seed")
		}
		log.Info().
			Int64("topics", feed.Version(models.CollectionTopics)).
			Int64("news_resources", feed.Version(models.CollectionNewsResources)).
			Msg("seed loaded")
	}

	handler := http.NewHandler(feed, buildInfo, log)

	srv, err := server.NewServer(handler.Init(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}
	log.Info().Str("address", srv.Addr()).Msg("feed API: /api/changes/{collection}, /api/entities/{collection}")

	srv.RunServer()
}
