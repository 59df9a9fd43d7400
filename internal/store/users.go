package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// User is a caller of the system. The id is the opaque identity string
// supplied by the session layer; rows are created lazily on first contact and
// never deleted.
type User struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	DateJoined int64  `json:"dateJoined"`
}

// EnsureUser creates the user row for an identity on first contact and
// returns it. Repeat calls for the same identity return the existing row
// untouched.
func (s *Store) EnsureUser(ctx context.Context, identity string) (User, error) {
	if identity == "" {
		return User{}, errors.New("identity is required")
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, date_joined)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING`,
		identity, usernameFor(identity), unixNow(),
	); err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}

	return s.GetUser(ctx, identity)
}

// GetUser returns the user row for an identity.
func (s *Store) GetUser(ctx context.Context, identity string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, date_joined
		FROM users
		WHERE id = $1`, identity).Scan(&user.ID, &user.Username, &user.DateJoined)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// usernameFor derives the default username from the identity: "user_" plus
// the first eight characters, or the whole identity when shorter.
func usernameFor(identity string) string {
	if len(identity) > 8 {
		identity = identity[:8]
	}
	return "user_" + identity
}
