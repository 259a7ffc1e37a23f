package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"taskmanager/internal/service"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.Register(ctx, "  alice ", "alice@example.com", "password123")
	if err != nil {
		t.Fatal(err)
	}
	if u.ID == 0 || u.Username != "alice" || !u.CreatedAt.Equal(epoch) {
		t.Errorf("user = %+v", u)
	}
	if u.PasswordHash == "password123" || u.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
}

func TestRegisterConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	tests := []struct {
		name     string
		username string
		email    string
		wantMsg  string
	}{
		{"email wins when both clash", "alice", "alice@example.com", "email already registered"},
		{"email", "alice2", "alice@example.com", "email already registered"},
		{"username", "alice", "other@example.com", "username already taken"},
	}
	for _, tt := range tests {
		_, err := f.users.Register(ctx, tt.username, tt.email, "password123")
		var ce *service.ConflictError
		if !errors.As(err, &ce) || ce.Msg != tt.wantMsg {
			t.Errorf("%s: got %v", tt.name, err)
		}
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name, username, email, password string
	}{
		{"missing username", "", "a@example.com", "password123"},
		{"missing password", "a", "a@example.com", ""},
		{"bad email", "a", "not-an-email", "password123"},
		{"short password", "a", "a@example.com", "short"},
		{"password over 72 bytes", "a", "a@example.com", strings.Repeat("a", 73)},
		{"multibyte password over 72 bytes", "a", "a@example.com", strings.Repeat("é", 40)},
	}
	for _, tt := range tests {
		_, err := f.users.Register(ctx, tt.username, tt.email, tt.password)
		var ve *service.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: want ValidationError, got %v", tt.name, err)
		}
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	f.clock.Advance(time.Hour)
	u, err := f.users.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != alice.ID || u.LastLogin == nil || !u.LastLogin.Equal(epoch.Add(time.Hour)) {
		t.Errorf("login user = %+v", u)
	}

	stored, err := f.users.GetByID(ctx, alice.ID)
	if err != nil || stored.LastLogin == nil {
		t.Errorf("last login not persisted: %+v, %v", stored, err)
	}

	if _, err := f.users.Login(ctx, "alice@example.com", "wrong-password"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("wrong password: %v", err)
	}
	if _, err := f.users.Login(ctx, "nobody@example.com", "password123"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("unknown email: %v", err)
	}
	var ve *service.ValidationError
	if _, err := f.users.Login(ctx, "", ""); !errors.As(err, &ve) {
		t.Errorf("empty credentials: %v", err)
	}
}

func TestGetByIDMissing(t *testing.T) {
	f := newFixture(t)
	if _, err := f.users.GetByID(context.Background(), 42); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestRegisterLongestPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pw := strings.Repeat("p", 72)

	if _, err := f.users.Register(ctx, "alice", "alice@example.com", pw); err != nil {
		t.Fatalf("72-byte password: %v", err)
	}
	if _, err := f.users.Login(ctx, "alice@example.com", pw); err != nil {
		t.Errorf("login with 72-byte password: %v", err)
	}
}
