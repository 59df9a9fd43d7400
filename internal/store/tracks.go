package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Track is a catalogued audio file. The raw bytes live in external blob
// storage at FilePath; the store only tracks the reference and size.
type Track struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Artist          string  `json:"artist"`
	Album           string  `json:"album"`
	Genre           *string `json:"genre,omitempty"`
	Year            *int    `json:"year,omitempty"`
	DurationSeconds int     `json:"durationSeconds"`
	FilePath        string  `json:"filePath"`
	FileSizeBytes   int64   `json:"fileSizeBytes"`
	DateAdded       int64   `json:"dateAdded"`
}

// TrackUpdate carries the metadata fields of an update request. Title, Artist
// and Album are partial: a nil pointer leaves the stored value untouched.
// Genre and Year are full-replace: a nil pointer clears the stored value.
type TrackUpdate struct {
	Title  *string
	Artist *string
	Album  *string
	Genre  *string
	Year   *int
}

const trackColumns = `id, title, artist, album, genre, year, duration_seconds, file_path, file_size_bytes, date_added`

// AddTrack catalogues a new track, assigning a fresh id and the insertion
// timestamp. There is no uniqueness constraint on title or artist.
func (s *Store) AddTrack(ctx context.Context, track Track) (Track, error) {
	track.ID = newID()
	track.DateAdded = unixNow()

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO tracks (id, title, artist, album, genre, year, duration_seconds, file_path, file_size_bytes, date_added)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		track.ID, track.Title, track.Artist, track.Album, nullString(track.Genre), nullInt(track.Year),
		track.DurationSeconds, track.FilePath, track.FileSizeBytes, track.DateAdded,
	); err != nil {
		return Track{}, fmt.Errorf("insert track: %w", err)
	}

	return track, nil
}

// GetTrack returns a single track by id.
func (s *Store) GetTrack(ctx context.Context, id string) (Track, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+trackColumns+`
		FROM tracks
		WHERE id = $1`, id)

	track, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Track{}, ErrTrackNotFound
	}
	if err != nil {
		return Track{}, fmt.Errorf("get track: %w", err)
	}
	return track, nil
}

// SearchTracks returns every track whose title, artist, album or genre
// contains the query as a literal substring, case-insensitively. The empty
// query matches all tracks. Result order is unspecified.
func (s *Store) SearchTracks(ctx context.Context, query string) ([]Track, error) {
	pattern := "%" + escapeLike(query) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+trackColumns+`
		FROM tracks
		WHERE title ILIKE $1 ESCAPE '\'
		   OR artist ILIKE $1 ESCAPE '\'
		   OR album ILIKE $1 ESCAPE '\'
		   OR genre ILIKE $1 ESCAPE '\'`, pattern)
	if err != nil {
		return nil, fmt.Errorf("search tracks: %w", err)
	}
	defer rows.Close()

	return collectTracks(rows)
}

// UpdateTrackMetadata rewrites a track's metadata in place. Title, artist and
// album keep their stored value when the update leaves them unset; genre and
// year always take the supplied value, so leaving them unset clears them.
// The single UPDATE makes the replacement atomic to concurrent readers.
func (s *Store) UpdateTrackMetadata(ctx context.Context, id string, update TrackUpdate) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tracks
		SET title = COALESCE($2, title),
		    artist = COALESCE($3, artist),
		    album = COALESCE($4, album),
		    genre = $5,
		    year = $6
		WHERE id = $1`,
		id, nullString(update.Title), nullString(update.Artist), nullString(update.Album),
		nullString(update.Genre), nullInt(update.Year))
	if err != nil {
		return fmt.Errorf("update track: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrTrackNotFound
	}
	return nil
}

// DeleteTrack removes a track together with every playlist entry and favorite
// that references it. The cascade runs child-first inside one transaction, so
// either the full cascade commits or none of it does. The audio object at
// file_path is left in blob storage for out-of-band cleanup.
func (s *Store) DeleteTrack(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	var exists bool
	if err := tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM tracks WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check track: %w", err)
	}
	if !exists {
		return ErrTrackNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM playlist_entries
		WHERE track_id = $1`, id); err != nil {
		return fmt.Errorf("delete playlist entries: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM favorites
		WHERE track_id = $1`, id); err != nil {
		return fmt.Errorf("delete favorites: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM tracks
		WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete track: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit track delete: %w", err)
	}
	tx = nil

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrack(row rowScanner) (Track, error) {
	var (
		track Track
		genre sql.NullString
		year  sql.NullInt64
	)
	if err := row.Scan(&track.ID, &track.Title, &track.Artist, &track.Album, &genre, &year,
		&track.DurationSeconds, &track.FilePath, &track.FileSizeBytes, &track.DateAdded); err != nil {
		return Track{}, err
	}
	if genre.Valid {
		track.Genre = &genre.String
	}
	if year.Valid {
		value := int(year.Int64)
		track.Year = &value
	}
	return track, nil
}

func collectTracks(rows *sql.Rows) ([]Track, error) {
	tracks := make([]Track, 0)
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracks: %w", err)
	}
	return tracks, nil
}
