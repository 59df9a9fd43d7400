package store

import (
	"context"
	"fmt"
)

// Stats is a read-only aggregate over the whole library.
type Stats struct {
	TrackCount           int64 `json:"trackCount"`
	PlaylistCount        int64 `json:"playlistCount"`
	UserCount            int64 `json:"userCount"`
	TotalDurationSeconds int64 `json:"totalDurationSeconds"`
	TotalSizeBytes       int64 `json:"totalSizeBytes"`
}

// GetStats scans the library and returns counts and sums. An empty store
// yields all zeros.
func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM tracks),
			(SELECT COUNT(*) FROM playlists),
			(SELECT COUNT(*) FROM users),
			(SELECT COALESCE(SUM(duration_seconds), 0) FROM tracks),
			(SELECT COALESCE(SUM(file_size_bytes), 0) FROM tracks)`,
	).Scan(&stats.TrackCount, &stats.PlaylistCount, &stats.UserCount,
		&stats.TotalDurationSeconds, &stats.TotalSizeBytes); err != nil {
		return Stats{}, fmt.Errorf("get stats: %w", err)
	}
	return stats, nil
}
