package httpapi

import (
	"encoding/json"
	"net/http"

	"trackhouse/internal/store"
)

type addTrackRequest struct {
	Title           string  `json:"title"`
	Artist          string  `json:"artist"`
	Album           string  `json:"album"`
	Genre           *string `json:"genre"`
	Year            *int    `json:"year"`
	DurationSeconds int     `json:"durationSeconds"`
	FilePath        string  `json:"filePath"`
	FileSizeBytes   int64   `json:"fileSizeBytes"`
}

// updateTrackRequest mirrors the asymmetric update contract: omitted title,
// artist or album keep the stored value, while omitted genre or year clear
// the stored value.
type updateTrackRequest struct {
	Title  *string `json:"title"`
	Artist *string `json:"artist"`
	Album  *string `json:"album"`
	Genre  *string `json:"genre"`
	Year   *int    `json:"year"`
}

func (s *Server) handleAddTrack(w http.ResponseWriter, r *http.Request) {
	var req addTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	track, err := s.catalog.Add(r.Context(), store.Track{
		Title:           req.Title,
		Artist:          req.Artist,
		Album:           req.Album,
		Genre:           req.Genre,
		Year:            req.Year,
		DurationSeconds: req.DurationSeconds,
		FilePath:        req.FilePath,
		FileSizeBytes:   req.FileSizeBytes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, track)
}

func (s *Server) handleSearchTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := s.catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

func (s *Server) handleGetTrack(w http.ResponseWriter, r *http.Request) {
	track, err := s.catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, track)
}

func (s *Server) handleUpdateTrack(w http.ResponseWriter, r *http.Request) {
	var req updateTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	err := s.catalog.UpdateMetadata(r.Context(), r.PathValue("id"), store.TrackUpdate{
		Title:  req.Title,
		Artist: req.Artist,
		Album:  req.Album,
		Genre:  req.Genre,
		Year:   req.Year,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteTrack(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
