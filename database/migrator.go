package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// Migrator applies the embedded SQL migrations for one dialect.
type Migrator struct {
	provider *goose.Provider
	log      zerolog.Logger
}

// MigrationStatus describes one known migration and whether it is applied.
type MigrationStatus struct {
	Version int64
	Path    string
	Applied bool
}

func NewMigrator(db *gorm.DB, driver string, log zerolog.Logger) (*Migrator, error) {
	var dialect goose.Dialect
	switch driver {
	case DriverPostgres:
		dialect = goose.DialectPostgres
	case DriverSQLite:
		dialect = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	subtree, err := fs.Sub(migrations, "migrations/"+driver)
	if err != nil {
		return nil, fmt.Errorf("retrieving %s migrations subtree: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}

	provider, err := goose.NewProvider(dialect, sqlDB, subtree)
	if err != nil {
		return nil, fmt.Errorf("constructing database migrator: %w", err)
	}

	return &Migrator{provider: provider, log: log}, nil
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) error {
	from, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	results, err := m.provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	if len(results) == 0 {
		m.log.Info().Int64("version", from).Msg("database schema up to date")
		return nil
	}

	to := results[len(results)-1].Source.Version
	m.log.Info().Int64("from", from).Int64("to", to).Msg("migrated database schema")
	return nil
}

// Down rolls back the most recently applied migration.
func (m *Migrator) Down(ctx context.Context) error {
	result, err := m.provider.Down(ctx)
	if err != nil {
		return fmt.Errorf("rolling back migration: %w", err)
	}
	m.log.Info().Int64("version", result.Source.Version).Dur("duration", result.Duration).Msg("rolled back migration")
	return nil
}

func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading migration status: %w", err)
	}

	out := make([]MigrationStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, MigrationStatus{
			Version: s.Source.Version,
			Path:    s.Source.Path,
			Applied: s.State == goose.StateApplied,
		})
	}
	return out, nil
}
