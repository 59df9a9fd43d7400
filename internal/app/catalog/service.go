package catalog

import (
	"context"

	"trackhouse/internal/store"
)

// Store defines persistence operations required for catalog workflows.
type Store interface {
	AddTrack(ctx context.Context, track store.Track) (store.Track, error)
	GetTrack(ctx context.Context, id string) (store.Track, error)
	SearchTracks(ctx context.Context, query string) ([]store.Track, error)
	UpdateTrackMetadata(ctx context.Context, id string, update store.TrackUpdate) error
	DeleteTrack(ctx context.Context, id string) error
}

// Service coordinates track catalogue operations.
type Service interface {
	Add(ctx context.Context, track store.Track) (store.Track, error)
	Get(ctx context.Context, id string) (store.Track, error)
	Search(ctx context.Context, query string) ([]store.Track, error)
	UpdateMetadata(ctx context.Context, id string, update store.TrackUpdate) error
	Delete(ctx context.Context, id string) error
}

type service struct {
	store Store
}

// New constructs a catalog Service backed by the given store.
func New(st Store) Service {
	return &service{store: st}
}

func (s *service) Add(ctx context.Context, track store.Track) (store.Track, error) {
	if err := ctx.Err(); err != nil {
		return store.Track{}, err
	}
	return s.store.AddTrack(ctx, track)
}

func (s *service) Get(ctx context.Context, id string) (store.Track, error) {
	if err := ctx.Err(); err != nil {
		return store.Track{}, err
	}
	return s.store.GetTrack(ctx, id)
}

func (s *service) Search(ctx context.Context, query string) ([]store.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.SearchTracks(ctx, query)
}

func (s *service) UpdateMetadata(ctx context.Context, id string, update store.TrackUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.UpdateTrackMetadata(ctx, id, update)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteTrack(ctx, id)
}
