package repo

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"taskmanager/migrations"

	"github.com/pressly/goose/v3"
)

// Migrate applies the embedded migrations for dialect (goose.DialectPostgres
// or goose.DialectSQLite3) and returns the number applied.
func Migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect) (int, error) {
	dir := "postgres"
	if dialect == goose.DialectSQLite3 {
		dir = "sqlite"
	}
	fsys, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return 0, fmt.Errorf("migrations fs: %w", err)
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return 0, fmt.Errorf("goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("goose up: %w", err)
	}
	return len(results), nil
}
