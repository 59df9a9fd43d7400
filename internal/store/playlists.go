package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Playlist is a named, ordered collection of tracks owned by one user.
type Playlist struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	OwnerID     string  `json:"ownerId"`
	Description *string `json:"description,omitempty"`
	DateCreated int64   `json:"dateCreated"`
	IsPublic    bool    `json:"isPublic"`
}

// PlaylistEntry is one membership edge between a playlist and a track.
// Positions within a playlist are unique and strictly increasing but not
// necessarily contiguous: entries are never renumbered on deletion.
type PlaylistEntry struct {
	ID         string `json:"id"`
	PlaylistID string `json:"playlistId"`
	TrackID    string `json:"trackId"`
	Position   int    `json:"position"`
	DateAdded  int64  `json:"dateAdded"`
}

// CreatePlaylist persists a new playlist owned by the given user.
func (s *Store) CreatePlaylist(ctx context.Context, ownerID string, playlist Playlist) (Playlist, error) {
	playlist.ID = newID()
	playlist.OwnerID = ownerID
	playlist.DateCreated = unixNow()

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO playlists (id, name, owner_id, description, date_created, is_public)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		playlist.ID, playlist.Name, playlist.OwnerID, nullString(playlist.Description),
		playlist.DateCreated, playlist.IsPublic,
	); err != nil {
		return Playlist{}, fmt.Errorf("insert playlist: %w", err)
	}

	return playlist, nil
}

// GetPlaylist returns a single playlist by id.
func (s *Store) GetPlaylist(ctx context.Context, id string) (Playlist, error) {
	playlist, err := scanPlaylist(s.db.QueryRowContext(ctx, `
		SELECT id, name, owner_id, description, date_created, is_public
		FROM playlists
		WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Playlist{}, ErrPlaylistNotFound
	}
	if err != nil {
		return Playlist{}, fmt.Errorf("get playlist: %w", err)
	}
	return playlist, nil
}

// ListPlaylists returns every playlist owned by the given user.
func (s *Store) ListPlaylists(ctx context.Context, ownerID string) ([]Playlist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, owner_id, description, date_created, is_public
		FROM playlists
		WHERE owner_id = $1
		ORDER BY date_created DESC, id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	playlists := make([]Playlist, 0)
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}
	return playlists, nil
}

// addEntryRetries bounds how often an append is retried after losing a
// position race to a concurrent append on the same playlist.
const addEntryRetries = 3

// AddTrackToPlaylist appends a track to a playlist at max(position)+1,
// starting at 1 for an empty playlist. Both the playlist and the track must
// exist. The same track may be appended more than once; each append creates a
// new entry at a new position. Concurrent appends can race to the same
// position; the unique constraint on (playlist_id, position) rejects the
// loser and the append is retried with a fresh max.
func (s *Store) AddTrackToPlaylist(ctx context.Context, playlistID, trackID string) (PlaylistEntry, error) {
	var (
		entry PlaylistEntry
		err   error
	)
	for attempt := 0; attempt < addEntryRetries; attempt++ {
		entry, err = s.appendPlaylistEntry(ctx, playlistID, trackID)
		if err == nil || !isUniqueViolation(err) {
			return entry, err
		}
	}
	return PlaylistEntry{}, fmt.Errorf("append playlist entry: %w", err)
}

func (s *Store) appendPlaylistEntry(ctx context.Context, playlistID, trackID string) (PlaylistEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PlaylistEntry{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	var exists bool
	if err := tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM playlists WHERE id = $1)`, playlistID).Scan(&exists); err != nil {
		return PlaylistEntry{}, fmt.Errorf("check playlist: %w", err)
	}
	if !exists {
		return PlaylistEntry{}, ErrPlaylistNotFound
	}

	if err := tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM tracks WHERE id = $1)`, trackID).Scan(&exists); err != nil {
		return PlaylistEntry{}, fmt.Errorf("check track: %w", err)
	}
	if !exists {
		return PlaylistEntry{}, ErrTrackNotFound
	}

	var maxPosition int
	if err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position), 0)
		FROM playlist_entries
		WHERE playlist_id = $1`, playlistID).Scan(&maxPosition); err != nil {
		return PlaylistEntry{}, fmt.Errorf("max position: %w", err)
	}

	entry := PlaylistEntry{
		ID:         newID(),
		PlaylistID: playlistID,
		TrackID:    trackID,
		Position:   maxPosition + 1,
		DateAdded:  unixNow(),
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO playlist_entries (id, playlist_id, track_id, position, date_added)
		VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.PlaylistID, entry.TrackID, entry.Position, entry.DateAdded,
	); err != nil {
		return PlaylistEntry{}, fmt.Errorf("insert playlist entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return PlaylistEntry{}, fmt.Errorf("commit playlist entry: %w", err)
	}
	tx = nil

	return entry, nil
}

// GetPlaylistTracks returns the playlist's tracks in ascending position
// order. Entries whose track no longer resolves are dropped rather than
// reported; an existing playlist with no resolvable entries yields an empty
// slice, not an error.
func (s *Store) GetPlaylistTracks(ctx context.Context, playlistID string) ([]Track, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM playlists WHERE id = $1)`, playlistID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check playlist: %w", err)
	}
	if !exists {
		return nil, ErrPlaylistNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.title, t.artist, t.album, t.genre, t.year, t.duration_seconds, t.file_path, t.file_size_bytes, t.date_added
		FROM playlist_entries pe
		JOIN tracks t ON t.id = pe.track_id
		WHERE pe.playlist_id = $1
		ORDER BY pe.position ASC`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list playlist tracks: %w", err)
	}
	defer rows.Close()

	return collectTracks(rows)
}

func scanPlaylist(row rowScanner) (Playlist, error) {
	var (
		playlist    Playlist
		description sql.NullString
	)
	if err := row.Scan(&playlist.ID, &playlist.Name, &playlist.OwnerID, &description,
		&playlist.DateCreated, &playlist.IsPublic); err != nil {
		return Playlist{}, err
	}
	if description.Valid {
		playlist.Description = &description.String
	}
	return playlist, nil
}
