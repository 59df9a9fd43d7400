package stats

import (
	"context"

	"trackhouse/internal/store"
)

// Store defines the read-only aggregation the stats service needs.
type Store interface {
	GetStats(ctx context.Context) (store.Stats, error)
}

// Service exposes library-wide statistics.
type Service interface {
	Get(ctx context.Context) (store.Stats, error)
}

type service struct {
	store Store
}

// New constructs a stats Service backed by the given store.
func New(st Store) Service {
	return &service{store: st}
}

func (s *service) Get(ctx context.Context) (store.Stats, error) {
	if err := ctx.Err(); err != nil {
		return store.Stats{}, err
	}
	return s.store.GetStats(ctx)
}
