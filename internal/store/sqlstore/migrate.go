package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// Migrate runs all pending migrations for dialect.
func Migrate(ctx context.Context, db *sql.DB, dialect string) error {
	var gooseDialect, dir string
	switch dialect {
	case DialectSQLite:
		gooseDialect, dir = "sqlite3", "migrations/sqlite"
	case DialectPostgres:
		gooseDialect, dir = "postgres", "migrations/postgres"
	default:
		return fmt.Errorf("unsupported dialect %q", dialect)
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Version returns the applied migration version.
func (s *Store) Version() (int64, error) {
	return goose.GetDBVersion(s.db)
}
