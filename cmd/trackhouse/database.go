package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	dbPingTimeout = 5 * time.Second
	dbPingRetries = 8
	dbRetryDelay  = 2 * time.Second

	// The metadata API holds connections only for the duration of one
	// request-scoped transaction, so a small pool suffices.
	dbMaxOpenConns    = 10
	dbMaxIdleConns    = 5
	dbConnMaxIdleTime = 5 * time.Minute
)

// openDatabase opens the Postgres pool and waits for the instance to answer,
// retrying so the service survives starting before its database does.
func openDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxIdleTime(dbConnMaxIdleTime)

	var lastErr error
	for attempt := 1; attempt <= dbPingRetries; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
		lastErr = db.PingContext(pingCtx)
		cancel()

		if lastErr == nil {
			return db, nil
		}
		if ctx.Err() != nil {
			break
		}

		log.Warn().Err(lastErr).Int("attempt", attempt).Msg("database not ready")
		time.Sleep(dbRetryDelay)
	}

	_ = db.Close()
	return nil, fmt.Errorf("ping database: %w", lastErr)
}
