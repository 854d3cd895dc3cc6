package db

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations brings the exams/questions schema up to date using the
// embedded goose migrations. A nil handle (in-memory dev mode) is a
// no-op.
func RunMigrations(ctx context.Context, conn *sql.DB) error {
	if conn == nil {
		return nil
	}
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, conn, "migrations")
}
