package cmd

import (
	"fmt"
	"log/slog"

	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/migrations"

	"gorm.io/gorm"
)

// OpenDatabase connects to the configured store and brings its schema up to
// date: embedded migrations on postgres, AutoMigrate on sqlite.
func OpenDatabase(cfg Config, logger *slog.Logger) (*gorm.DB, error) {
	conn := cfg.Connection()
	conn.Logger = logger

	db, err := postgres.Open(conn)
	if err != nil {
		return nil, err
	}

	if err = Migrate(cfg, db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(cfg Config, db *gorm.DB) error {
	conn := cfg.Connection()
	if conn.Driver == postgres.DriverSQLite {
		if err := migrations.AutoMigrate(db); err != nil {
			return fmt.Errorf("auto migrate sqlite: %w", err)
		}
		return nil
	}
	return migrations.Up(conn.DSN)
}

// SchemaVersion reports the applied migration version. SQLite has none.
func SchemaVersion(cfg Config) (uint, bool, error) {
	conn := cfg.Connection()
	if conn.Driver == postgres.DriverSQLite {
		return 0, false, nil
	}
	return migrations.Version(conn.DSN)
}
