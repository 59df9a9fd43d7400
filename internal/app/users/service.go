package users

import (
	"context"

	"trackhouse/internal/store"
)

// Store defines persistence operations required for the identity resolver.
type Store interface {
	EnsureUser(ctx context.Context, identity string) (store.User, error)
	GetUser(ctx context.Context, identity string) (store.User, error)
}

// Service resolves caller identities to user records. A user record is
// created on first contact and reused on every contact after that.
type Service interface {
	Ensure(ctx context.Context, identity string) (store.User, error)
	Get(ctx context.Context, identity string) (store.User, error)
}

type service struct {
	store Store
}

// New constructs a users Service backed by the given store.
func New(st Store) Service {
	return &service{store: st}
}

func (s *service) Ensure(ctx context.Context, identity string) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	return s.store.EnsureUser(ctx, identity)
}

func (s *service) Get(ctx context.Context, identity string) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	return s.store.GetUser(ctx, identity)
}
