package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/MKhiriev/go-news-sync/internal/config"
	"github.com/MKhiriev/go-news-sync/internal/logger"
)

// The mirror is written by one sync run per collection at a time, so a
// small pool is enough.
const (
	postgresMaxOpenConns    = 4
	postgresMaxIdleConns    = 2
	postgresConnMaxIdleTime = 5 * time.Minute
)

// NewConnectPostgres opens the local mirror in PostgreSQL. The DSN is parsed
// by pgx up front so a malformed one fails with [ErrInvalidDSN] before any
// network round trip.
func NewConnectPostgres(ctx context.Context, cfg config.ClientDB, log *logger.Logger) (*DB, error) {
	connCfg, err := pgx.ParseConfig(cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("invalid postgres dsn")
		return nil, fmt.Errorf("%w: %w", ErrInvalidDSN, err)
	}

	conn := stdlib.OpenDB(*connCfg)
	conn.SetMaxOpenConns(postgresMaxOpenConns)
	conn.SetMaxIdleConns(postgresMaxIdleConns)
	conn.SetConnMaxIdleTime(postgresConnMaxIdleTime)

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).
			Str("func", "NewConnectPostgres").
			Str("host", connCfg.Host).
			Str("database", connCfg.Database).
			Msg("postgres mirror is unreachable")
		_ = conn.Close()
		return nil, fmt.Errorf("ping postgres mirror: %w", err)
	}
	log.Info().
		Str("func", "NewConnectPostgres").
		Str("host", connCfg.Host).
		Str("database", connCfg.Database).
		Msg("postgres mirror connected")

	return &DB{
		DB:                 conn,
		dialect:            DialectPostgres,
		logger:             log,
		errorClassificator: NewPostgresErrorClassifier(),
	}, nil
}

// postgresError returns the SQLSTATE of err, or "" for non-postgres errors.
func postgresError(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
