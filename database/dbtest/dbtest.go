// Package dbtest provides migrated in-memory databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/judyrop/shop-api/config"
	"github.com/judyrop/shop-api/database"
)

// New returns a private in-memory SQLite database with the schema applied.
// It is closed, and therefore dropped, when the test finishes.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver: database.DriverSQLite,
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}

	db, err := database.Open(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	migrator, err := database.NewMigrator(db, database.DriverSQLite, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, migrator.Up(context.Background()))

	return db
}
