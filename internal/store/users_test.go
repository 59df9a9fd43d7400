package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestEnsureUserFirstContact(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("abcdef1234567890", "user_abcdef12", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("(?s)SELECT (.+) FROM users").
		WithArgs("abcdef1234567890").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "date_joined"}).
			AddRow("abcdef1234567890", "user_abcdef12", int64(1700000000)))

	user, err := s.EnsureUser(context.Background(), "abcdef1234567890")
	if err != nil {
		t.Fatalf("EnsureUser error: %v", err)
	}
	if user.Username != "user_abcdef12" {
		t.Fatalf("expected username user_abcdef12, got %q", user.Username)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEnsureUserRepeatContactKeepsExistingRow(t *testing.T) {
	s, mock := newMockStore(t)

	// ON CONFLICT DO NOTHING leaves the original row; the original username
	// and join date come back even if the insert touched nothing.
	mock.ExpectExec("INSERT INTO users").
		WithArgs("abcdef1234567890", "user_abcdef12", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("(?s)SELECT (.+) FROM users").
		WithArgs("abcdef1234567890").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "date_joined"}).
			AddRow("abcdef1234567890", "user_abcdef12", int64(1600000000)))

	user, err := s.EnsureUser(context.Background(), "abcdef1234567890")
	if err != nil {
		t.Fatalf("EnsureUser error: %v", err)
	}
	if user.DateJoined != 1600000000 {
		t.Fatalf("expected original join date, got %d", user.DateJoined)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEnsureUserEmptyIdentity(t *testing.T) {
	s, _ := newMockStore(t)

	if _, err := s.EnsureUser(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty identity")
	}
}

func TestUsernameFor(t *testing.T) {
	tests := []struct {
		identity string
		want     string
	}{
		{"abcdef1234567890", "user_abcdef12"},
		{"abc", "user_abc"},
		{"12345678", "user_12345678"},
	}
	for _, tc := range tests {
		if got := usernameFor(tc.identity); got != tc.want {
			t.Fatalf("usernameFor(%q) = %q, want %q", tc.identity, got, tc.want)
		}
	}
}
