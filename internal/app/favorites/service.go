package favorites

import (
	"context"

	"trackhouse/internal/store"
)

// Store defines persistence operations required for favorites workflows.
type Store interface {
	AddFavorite(ctx context.Context, userID, trackID string) error
	RemoveFavorite(ctx context.Context, userID, trackID string) error
	ListFavoriteTracks(ctx context.Context, userID string) ([]store.Track, error)
}

// Service describes high level favorites operations used by HTTP handlers.
type Service interface {
	Add(ctx context.Context, userID, trackID string) error
	Remove(ctx context.Context, userID, trackID string) error
	Tracks(ctx context.Context, userID string) ([]store.Track, error)
}

type service struct {
	store Store
}

// New constructs a favorites Service backed by the given store.
func New(st Store) Service {
	return &service{store: st}
}

func (s *service) Add(ctx context.Context, userID, trackID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.AddFavorite(ctx, userID, trackID)
}

func (s *service) Remove(ctx context.Context, userID, trackID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.RemoveFavorite(ctx, userID, trackID)
}

func (s *service) Tracks(ctx context.Context, userID string) ([]store.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListFavoriteTracks(ctx, userID)
}
