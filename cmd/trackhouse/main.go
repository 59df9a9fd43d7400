package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"trackhouse/internal/blobstore"
	"trackhouse/internal/logging"
	"trackhouse/internal/store"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	logging.Setup(cfg.LogLevel)

	db, err := openDatabase(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer db.Close()

	if err := store.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	probeBlobStore(cfg.Blob)

	dataStore := store.New(db)
	handler := newHTTPHandler(cfg, dataStore)

	log.Info().Str("addr", cfg.Addr).Msg("starting server")
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

// probeBlobStore checks object storage reachability at startup. Audio files
// are served from object storage; the metadata API works without it, so a
// failed probe is logged and startup continues.
func probeBlobStore(cfg blobstore.Config) {
	if !cfg.Configured() {
		log.Info().Msg("blob storage not configured, skipping probe")
		return
	}

	blobs, err := blobstore.New(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("blob storage client init failed")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := blobs.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("blob storage unreachable")
		return
	}
	log.Info().Str("bucket", cfg.Bucket).Msg("blob storage reachable")
}
