package store

import (
	"context"
	"fmt"
)

// Favorite is a (user, track) membership edge. At most one row exists per
// pair; AddFavorite is idempotent rather than additive.
type Favorite struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	TrackID   string `json:"trackId"`
	DateAdded int64  `json:"dateAdded"`
}

// AddFavorite marks a track as a favorite of the given user. Adding an
// existing favorite is a no-op. The track must exist.
func (s *Store) AddFavorite(ctx context.Context, userID, trackID string) error {
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
		SELECT EXISTS(SELECT 1 FROM tracks WHERE id = $1)`, trackID).Scan(&exists); err != nil {
		return fmt.Errorf("check track: %w", err)
	}
	if !exists {
		return ErrTrackNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO favorites (id, user_id, track_id, date_added)
		VALUES ($1, $2, $3, $4)`,
		newID(), userID, trackID, unixNow(),
	); err != nil {
		// The unique index on (user_id, track_id) makes concurrent duplicate
		// adds collapse to the idempotent no-op.
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("insert favorite: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit favorite: %w", err)
	}
	tx = nil

	return nil
}

// RemoveFavorite deletes every favorite row for the (user, track) pair.
// Normally that is zero or one row, but duplicates are removed too should the
// uniqueness invariant ever have been violated. Removing a favorite that does
// not exist is not an error.
func (s *Store) RemoveFavorite(ctx context.Context, userID, trackID string) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM favorites
		WHERE user_id = $1 AND track_id = $2`, userID, trackID); err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

// ListFavoriteTracks resolves the user's favorites to tracks, dropping
// favorites whose track no longer exists. Result order is unspecified.
func (s *Store) ListFavoriteTracks(ctx context.Context, userID string) ([]Track, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.title, t.artist, t.album, t.genre, t.year, t.duration_seconds, t.file_path, t.file_size_bytes, t.date_added
		FROM favorites f
		JOIN tracks t ON t.id = f.track_id
		WHERE f.user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorite tracks: %w", err)
	}
	defer rows.Close()

	return collectTracks(rows)
}
