package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-news-sync/internal/logger"
	"github.com/MKhiriev/go-news-sync/internal/store"
	"github.com/MKhiriev/go-news-sync/models"
)

type statusService struct {
	repo      store.LocalRepository
	buildInfo models.AppBuildInfo

	logger *logger.Logger
}

func NewStatusService(repo store.LocalRepository, buildInfo models.AppBuildInfo, logger *logger.Logger) StatusService {
	return &statusService{
		repo:      repo,
		buildInfo: buildInfo,
		logger:    logger,
	}
}

func (s *statusService) Status(ctx context.Context) ([]models.CollectionStatus, error) {
	checkpoints, err := s.repo.Checkpoints(ctx)
	if err != nil {
		s.logger.Err(err).Str("func", "statusService.Status").Msg("failed to read checkpoints")
		return nil, fmt.Errorf("read checkpoints: %w", err)
	}

	out := make([]models.CollectionStatus, 0, len(checkpoints))
	for _, cp := range checkpoints {
		ids, err := s.repo.EntityIDs(ctx, cp.Collection)
		if err != nil {
			s.logger.Err(err).
				Str("func", "statusService.Status").
				Str("collection", cp.Collection.String()).
				Msg("failed to count entities")
			return nil, fmt.Errorf("count %s: %w", cp.Collection, err)
		}
		out = append(out, models.CollectionStatus{
			Collection: cp.Collection,
			Checkpoint: cp.Version,
			Entities:   len(ids),
		})
	}
	return out, nil
}

func (s *statusService) BuildInfo() models.AppBuildInfo {
	return s.buildInfo
}
