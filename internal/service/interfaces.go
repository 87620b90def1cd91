package service

import (
	"context"

	"github.com/MKhiriev/go-news-sync/models"
)

// StatusService reports what the local mirror currently holds.
type StatusService interface {
	// Status returns checkpoint and entity count of every known collection.
	Status(ctx context.Context) ([]models.CollectionStatus, error)

	// BuildInfo returns the build metadata of the running binary.
	BuildInfo() models.AppBuildInfo
}
