package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-news-sync/internal/logger"
	"github.com/MKhiriev/go-news-sync/internal/mock"
	"github.com/MKhiriev/go-news-sync/models"
)

// ─────────────────────────────────────────────
// Status
// ─────────────────────────────────────────────

func TestStatusService_Status(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockLocalRepository(ctrl)
	svc := NewStatusService(repo, models.NewAppBuildInfo("1.0.0", "", ""), logger.Nop())

	repo.EXPECT().Checkpoints(gomock.Any()).Return([]models.Checkpoint{
		{Collection: models.CollectionTopics, Version: 3},
		{Collection: models.CollectionNewsResources, Version: 0},
	}, nil)
	repo.EXPECT().EntityIDs(gomock.Any(), models.CollectionTopics).Return([]string{"t1", "t2"}, nil)
	repo.EXPECT().EntityIDs(gomock.Any(), models.CollectionNewsResources).Return([]string{}, nil)

	got, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.CollectionStatus{
		{Collection: models.CollectionTopics, Checkpoint: 3, Entities: 2},
		{Collection: models.CollectionNewsResources, Checkpoint: 0, Entities: 0},
	}, got)
}

func TestStatusService_Status_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockLocalRepository(ctrl)
	svc := NewStatusService(repo, models.NewAppBuildInfo("", "", ""), logger.Nop())

	boom := errors.New("boom")
	repo.EXPECT().Checkpoints(gomock.Any()).Return(nil, boom)

	_, err := svc.Status(context.Background())
	assert.ErrorIs(t, err, boom)

	repo.EXPECT().Checkpoints(gomock.Any()).Return([]models.Checkpoint{{Collection: models.CollectionTopics}}, nil)
	repo.EXPECT().EntityIDs(gomock.Any(), models.CollectionTopics).Return(nil, boom)

	_, err = svc.Status(context.Background())
	assert.ErrorIs(t, err, boom)
}

// ─────────────────────────────────────────────
// BuildInfo
// ─────────────────────────────────────────────

func TestStatusService_BuildInfo(t *testing.T) {
	svc := NewStatusService(nil, models.NewAppBuildInfo("2.5.1", "", "abc"), logger.Nop())

	info := svc.BuildInfo()
	assert.Equal(t, "2.5.1", info.BuildVersion())
	assert.Equal(t, "N/A", info.BuildDate())
	assert.Equal(t, "abc", info.BuildCommit())
}
