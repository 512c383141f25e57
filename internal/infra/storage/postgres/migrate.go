package postgres

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// Migrate applies, rolls back, or reports the embedded schema migrations.
// direction is one of "up", "down" or "status".
func Migrate(ctx context.Context, db *DB, direction string) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	var err error
	switch direction {
	case "", "up":
		err = goose.UpContext(ctx, db.DB.DB, migrationsDir)
	case "down":
		err = goose.DownContext(ctx, db.DB.DB, migrationsDir)
	case "status":
		err = goose.StatusContext(ctx, db.DB.DB, migrationsDir)
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}
	return nil
}
