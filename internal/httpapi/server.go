package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"trackhouse/internal/identity"
	"trackhouse/internal/store"
)

// CatalogService coordinates track catalogue operations.
type CatalogService interface {
	Add(ctx context.Context, track store.Track) (store.Track, error)
	Get(ctx context.Context, id string) (store.Track, error)
	Search(ctx context.Context, query string) ([]store.Track, error)
	UpdateMetadata(ctx context.Context, id string, update store.TrackUpdate) error
	Delete(ctx context.Context, id string) error
}

// PlaylistService coordinates playlist-related operations.
type PlaylistService interface {
	Create(ctx context.Context, ownerID string, playlist store.Playlist) (store.Playlist, error)
	Get(ctx context.Context, id string) (store.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string) ([]store.Playlist, error)
	AddTrack(ctx context.Context, playlistID, trackID string) (store.PlaylistEntry, error)
	Tracks(ctx context.Context, playlistID string) ([]store.Track, error)
}

// FavoritesService coordinates favoriting workflows.
type FavoritesService interface {
	Add(ctx context.Context, userID, trackID string) error
	Remove(ctx context.Context, userID, trackID string) error
	Tracks(ctx context.Context, userID string) ([]store.Track, error)
}

// UserService resolves caller identities to user records.
type UserService interface {
	Ensure(ctx context.Context, identity string) (store.User, error)
}

// StatsService exposes library-wide statistics.
type StatsService interface {
	Get(ctx context.Context) (store.Stats, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users     UserService
	catalog   CatalogService
	playlists PlaylistService
	favorites FavoritesService
	stats     StatsService
	resolver  *identity.Resolver
}

// New configures a Server with the given services.
func New(
	users UserService,
	catalog CatalogService,
	playlists PlaylistService,
	favorites FavoritesService,
	stats StatsService,
	resolver *identity.Resolver,
) *Server {
	return &Server{
		users:     users,
		catalog:   catalog,
		playlists: playlists,
		favorites: favorites,
		stats:     stats,
		resolver:  resolver,
	}
}

// Routes exposes the HTTP handlers for catalogue, playlist, favorites and
// stats operations.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Track routes
	mux.HandleFunc("POST /api/v1/tracks", s.withIdentity(s.handleAddTrack))
	mux.HandleFunc("GET /api/v1/tracks", s.withIdentity(s.handleSearchTracks))
	mux.HandleFunc("GET /api/v1/tracks/{id}", s.withIdentity(s.handleGetTrack))
	mux.HandleFunc("PATCH /api/v1/tracks/{id}", s.withIdentity(s.handleUpdateTrack))
	mux.HandleFunc("DELETE /api/v1/tracks/{id}", s.withIdentity(s.handleDeleteTrack))

	// Playlist routes
	mux.HandleFunc("POST /api/v1/playlists", s.withIdentity(s.handleCreatePlaylist))
	mux.HandleFunc("GET /api/v1/playlists", s.withIdentity(s.handleListPlaylists))
	mux.HandleFunc("GET /api/v1/playlists/{id}", s.withIdentity(s.handleGetPlaylist))
	mux.HandleFunc("POST /api/v1/playlists/{id}/tracks", s.withIdentity(s.handleAddTrackToPlaylist))
	mux.HandleFunc("GET /api/v1/playlists/{id}/tracks", s.withIdentity(s.handlePlaylistTracks))

	// Favorite routes
	mux.HandleFunc("GET /api/v1/me/favorites/tracks", s.withIdentity(s.handleFavoriteTracks))
	mux.HandleFunc("PUT /api/v1/me/favorites/tracks/{id}", s.withIdentity(s.handleAddFavorite))
	mux.HandleFunc("DELETE /api/v1/me/favorites/tracks/{id}", s.withIdentity(s.handleRemoveFavorite))

	// Stats route
	mux.HandleFunc("GET /api/v1/stats", s.withIdentity(s.handleStats))

	return mux
}

type contextKey string

const identityKey contextKey = "identity"

// withIdentity resolves the caller identity, ensures the user record exists
// (first contact creates it) and stores the identity in the request context.
func (s *Server) withIdentity(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := s.resolver.FromRequest(r)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
			return
		}

		if _, err := s.users.Ensure(r.Context(), caller); err != nil {
			log.Error().Err(err).Msg("ensure user")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, caller)
		next(w, r.WithContext(ctx))
	}
}

func callerIdentity(ctx context.Context) string {
	caller, _ := ctx.Value(identityKey).(string)
	return caller
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Error().Err(err).Msg("encode response")
		}
	}
}

// writeServiceError maps store sentinel errors to HTTP statuses. Anything
// that is not a known sentinel is logged and reported as an internal error.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrTrackNotFound),
		errors.Is(err, store.ErrPlaylistNotFound),
		errors.Is(err, store.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		log.Error().Err(err).Msg("service error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
