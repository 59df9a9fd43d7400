package store

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func trackRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "artist", "album", "genre", "year",
		"duration_seconds", "file_path", "file_size_bytes", "date_added",
	})
}

func TestAddTrack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO tracks").
		WithArgs(sqlmock.AnyArg(), "Song A", "Artist X", "Album Y", nil, nil, 180, "a.mp3", int64(1000), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := s.AddTrack(context.Background(), Track{
		Title:           "Song A",
		Artist:          "Artist X",
		Album:           "Album Y",
		DurationSeconds: 180,
		FilePath:        "a.mp3",
		FileSizeBytes:   1000,
	})
	if err != nil {
		t.Fatalf("AddTrack error: %v", err)
	}

	if got.ID == "" {
		t.Fatal("expected generated track id")
	}
	if got.DateAdded == 0 {
		t.Fatal("expected date_added to be stamped")
	}
	if got.Genre != nil || got.Year != nil {
		t.Fatalf("expected optional fields to stay unset, got genre=%v year=%v", got.Genre, got.Year)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddTrackOptionalFields(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO tracks").
		WithArgs(sqlmock.AnyArg(), "Song B", "Artist X", "Album Y", "Jazz", 1959, 323, "b.flac", int64(40960), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	genre := "Jazz"
	year := 1959
	got, err := s.AddTrack(context.Background(), Track{
		Title:           "Song B",
		Artist:          "Artist X",
		Album:           "Album Y",
		Genre:           &genre,
		Year:            &year,
		DurationSeconds: 323,
		FilePath:        "b.flac",
		FileSizeBytes:   40960,
	})
	if err != nil {
		t.Fatalf("AddTrack error: %v", err)
	}
	if got.Genre == nil || *got.Genre != "Jazz" || got.Year == nil || *got.Year != 1959 {
		t.Fatalf("expected optional fields preserved, got genre=%v year=%v", got.Genre, got.Year)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetTrackNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("(?s)SELECT (.+) FROM tracks").
		WithArgs("missing").
		WillReturnRows(trackRows())

	if _, err := s.GetTrack(context.Background(), "missing"); !errors.Is(err, ErrTrackNotFound) {
		t.Fatalf("expected ErrTrackNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSearchTracks(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("(?s)SELECT (.+) FROM tracks").
		WithArgs("%hex%").
		WillReturnRows(trackRows().
			AddRow("t1", "Turquoise Hexagon Sun", "Boards of Canada", "MHTRTC", "Electronic", 1998, 310, "t1.mp3", int64(7000000), int64(1700000000)))

	tracks, err := s.SearchTracks(context.Background(), "hex")
	if err != nil {
		t.Fatalf("SearchTracks error: %v", err)
	}
	if len(tracks) != 1 || tracks[0].Title != "Turquoise Hexagon Sun" {
		t.Fatalf("unexpected result: %+v", tracks)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSearchTracksEmptyQueryMatchesAll(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("(?s)SELECT (.+) FROM tracks").
		WithArgs("%%").
		WillReturnRows(trackRows().
			AddRow("t1", "A", "X", "Y", nil, nil, 100, "a.mp3", int64(1), int64(1)).
			AddRow("t2", "B", "X", "Y", nil, nil, 200, "b.mp3", int64(2), int64(2)))

	tracks, err := s.SearchTracks(context.Background(), "")
	if err != nil {
		t.Fatalf("SearchTracks error: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSearchTracksMatchesLikeMetacharactersLiterally(t *testing.T) {
	s, mock := newMockStore(t)

	// "100%" must only match a literal "100%", so the metacharacter is
	// escaped before the pattern wildcards are added.
	mock.ExpectQuery(`(?s)SELECT (.+) FROM tracks(.+)ILIKE \$1 ESCAPE`).
		WithArgs(`%100\%%`).
		WillReturnRows(trackRows().
			AddRow("t1", "100% Endurance", "Yard Act", "The Overload", nil, nil, 250, "t1.mp3", int64(5000000), int64(1700000000)))

	tracks, err := s.SearchTracks(context.Background(), "100%")
	if err != nil {
		t.Fatalf("SearchTracks error: %v", err)
	}
	if len(tracks) != 1 || tracks[0].Title != "100% Endurance" {
		t.Fatalf("unexpected result: %+v", tracks)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEscapeLike(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
		{`%_\`, `\%\_\\`},
	}
	for _, tc := range cases {
		if got := escapeLike(tc.in); got != tc.want {
			t.Fatalf("escapeLike(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUpdateTrackMetadataPartialTitle(t *testing.T) {
	s, mock := newMockStore(t)

	// Only title is set: artist/album fall back to the stored value via
	// COALESCE, while the unset genre and year are written as NULL.
	mock.ExpectExec("UPDATE tracks").
		WithArgs("t1", "New Title", nil, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	title := "New Title"
	if err := s.UpdateTrackMetadata(context.Background(), "t1", TrackUpdate{Title: &title}); err != nil {
		t.Fatalf("UpdateTrackMetadata error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateTrackMetadataFullReplaceOptionals(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("UPDATE tracks").
		WithArgs("t1", nil, nil, nil, "Ambient", 1992).
		WillReturnResult(sqlmock.NewResult(0, 1))

	genre := "Ambient"
	year := 1992
	if err := s.UpdateTrackMetadata(context.Background(), "t1", TrackUpdate{Genre: &genre, Year: &year}); err != nil {
		t.Fatalf("UpdateTrackMetadata error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateTrackMetadataYearNotTruncated(t *testing.T) {
	s, mock := newMockStore(t)

	// The year travels as int64 end to end; a value outside the int32
	// range must reach the driver intact rather than wrap.
	year := math.MaxInt32 + 1
	mock.ExpectExec("UPDATE tracks").
		WithArgs("t1", nil, nil, nil, nil, int64(year)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.UpdateTrackMetadata(context.Background(), "t1", TrackUpdate{Year: &year}); err != nil {
		t.Fatalf("UpdateTrackMetadata error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateTrackMetadataNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("UPDATE tracks").
		WithArgs("missing", nil, nil, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.UpdateTrackMetadata(context.Background(), "missing", TrackUpdate{}); !errors.Is(err, ErrTrackNotFound) {
		t.Fatalf("expected ErrTrackNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteTrackCascade(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("DELETE FROM playlist_entries").
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM favorites").
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM tracks").
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := s.DeleteTrack(context.Background(), "t1"); err != nil {
		t.Fatalf("DeleteTrack error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteTrackNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	if err := s.DeleteTrack(context.Background(), "missing"); !errors.Is(err, ErrTrackNotFound) {
		t.Fatalf("expected ErrTrackNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
