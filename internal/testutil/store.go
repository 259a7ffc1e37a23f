package testutil

import (
	"context"
	"testing"

	"taskmanager/internal/repo"

	"github.com/pressly/goose/v3"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *repo.SQLiteStore {
	t.Helper()

	db, err := repo.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	if _, err := repo.Migrate(context.Background(), db.DB, goose.DialectSQLite3); err != nil {
		db.Close()
		t.Fatalf("migrating test store: %v", err)
	}

	s := repo.NewSQLiteStore(db)
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}
