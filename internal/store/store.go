package store

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrTrackNotFound signals the referenced track does not exist.
	ErrTrackNotFound = errors.New("track not found")
	// ErrPlaylistNotFound signals the referenced playlist does not exist.
	ErrPlaylistNotFound = errors.New("playlist not found")
	// ErrUserNotFound signals the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// Store provides persistence backed by Postgres. Every exported operation
// executes as a single unit of work: multi-statement mutations run inside one
// transaction, so an aborted operation leaves no partial effect visible to
// any other caller.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func newID() string {
	return uuid.NewString()
}

func unixNow() int64 {
	return time.Now().UTC().Unix()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE metacharacters so user input only ever matches
// literally. Queries using the result must carry an ESCAPE '\' clause.
func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}
