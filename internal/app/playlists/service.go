package playlists

import (
	"context"

	"trackhouse/internal/store"
)

// Store captures the persistence needs for playlist workflows.
type Store interface {
	CreatePlaylist(ctx context.Context, ownerID string, playlist store.Playlist) (store.Playlist, error)
	GetPlaylist(ctx context.Context, id string) (store.Playlist, error)
	ListPlaylists(ctx context.Context, ownerID string) ([]store.Playlist, error)
	AddTrackToPlaylist(ctx context.Context, playlistID, trackID string) (store.PlaylistEntry, error)
	GetPlaylistTracks(ctx context.Context, playlistID string) ([]store.Track, error)
}

// Service coordinates playlist-related operations.
type Service interface {
	Create(ctx context.Context, ownerID string, playlist store.Playlist) (store.Playlist, error)
	Get(ctx context.Context, id string) (store.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string) ([]store.Playlist, error)
	AddTrack(ctx context.Context, playlistID, trackID string) (store.PlaylistEntry, error)
	Tracks(ctx context.Context, playlistID string) ([]store.Track, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, ownerID string, playlist store.Playlist) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}
	return s.store.CreatePlaylist(ctx, ownerID, playlist)
}

func (s *service) Get(ctx context.Context, id string) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}
	return s.store.GetPlaylist(ctx, id)
}

func (s *service) ListByOwner(ctx context.Context, ownerID string) ([]store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListPlaylists(ctx, ownerID)
}

func (s *service) AddTrack(ctx context.Context, playlistID, trackID string) (store.PlaylistEntry, error) {
	if err := ctx.Err(); err != nil {
		return store.PlaylistEntry{}, err
	}
	return s.store.AddTrackToPlaylist(ctx, playlistID, trackID)
}

func (s *service) Tracks(ctx context.Context, playlistID string) ([]store.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetPlaylistTracks(ctx, playlistID)
}
