package httpapi

import (
	"net/http"
)

func (s *Server) handleFavoriteTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := s.favorites.Tracks(r.Context(), callerIdentity(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	if err := s.favorites.Add(r.Context(), callerIdentity(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	if err := s.favorites.Remove(r.Context(), callerIdentity(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
