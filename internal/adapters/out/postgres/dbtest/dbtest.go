// Package dbtest opens throwaway SQLite databases with the full dispatch
// schema for tests that need real repositories.
package dbtest

import (
	"strings"
	"testing"

	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/migrations"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// OpenSQLite returns a fresh in-memory database named after the test. It is
// closed when the test ends.
func OpenSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := postgres.Open(postgres.ConnectionConfig{
		Driver: postgres.DriverSQLite,
		DSN:    postgres.SQLiteMemoryDSN(name),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrations.AutoMigrate(db))
	return db
}
