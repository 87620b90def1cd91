package store

import (
	"context"
	"fmt"
	"io"

	"github.com/MKhiriev/go-news-sync/internal/config"
	"github.com/MKhiriev/go-news-sync/internal/logger"
)

// ClientStorages groups the client-side storage into a single value that can
// be passed around the service layer.
type ClientStorages struct {
	// Repository is the local mirror the sync orchestrator writes to.
	Repository LocalRepository

	closer io.Closer
}

// NewClientStorages initialises the client storage layer for the configured
// driver:
//   - "sqlite" opens (and creates) the database file from cfg.DB.DSN;
//   - "postgres" connects to cfg.DB.DSN;
//   - "memory" keeps everything in process, snapshotting to cfg.SnapshotPath.
//
// SQL drivers run pending migrations before the repository is returned.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, log *logger.Logger) (*ClientStorages, error) {
	log.Info().Str("driver", cfg.DB.Driver).Msg("creating new storages...")

	var (
		db  *DB
		err error
	)
	switch cfg.DB.Driver {
	case config.DriverMemory:
		repo, err := NewMemoryRepository(cfg.SnapshotPath, log)
		if err != nil {
			return nil, fmt.Errorf("memory storage error: %w", err)
		}
		return &ClientStorages{Repository: repo, closer: repo}, nil
	case config.DriverSQLite:
		db, err = NewConnectSQLite(ctx, cfg.DB, log)
	case config.DriverPostgres:
		db, err = NewConnectPostgres(ctx, cfg.DB, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.DB.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("%s connection error: %w", cfg.DB.Driver, err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		Repository: NewSQLRepository(db, log),
		closer:     db,
	}, nil
}

// Close releases the underlying connection or file handles.
func (s *ClientStorages) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
