package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql

	"github.com/seefood/mooring/internal/logger"
	"github.com/seefood/mooring/pkg/store/migrations"
)

// MigrationStatus describes the current schema migration state.
type MigrationStatus struct {
	// Version is the applied migration version (0 when none applied).
	Version uint

	// Dirty reports a migration that failed midway; manual intervention
	// is required before further migrations can run.
	Dirty bool

	// Pending reports whether unapplied migrations remain.
	Pending bool
}

// RunMigrations applies all pending schema migrations against the
// database. golang-migrate takes a PostgreSQL advisory lock, so
// concurrent container starts serialize safely.
func RunMigrations(ctx context.Context, dsn string) error {
	m, db, err := newMigrator(dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("applying migrations")
	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}
	if err == migrate.ErrNoChange {
		logger.Info("no migrations to apply (schema is up to date)")
	} else {
		logger.Info("migrations completed")
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	if err == nil {
		logger.Info("current schema version", "version", version, "dirty", dirty)
		if dirty {
			logger.Warn("schema is in dirty state, manual intervention may be required")
		}
	}

	return nil
}

// GetMigrationStatus reports the applied version and whether any
// migrations are still pending.
func GetMigrationStatus(ctx context.Context, dsn string) (*MigrationStatus, error) {
	m, db, err := newMigrator(dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	status := &MigrationStatus{}

	version, dirty, err := m.Version()
	switch {
	case err == migrate.ErrNilVersion:
		status.Pending = true
		return status, nil
	case err != nil:
		return nil, fmt.Errorf("failed to get migration version: %w", err)
	}

	status.Version = version
	status.Dirty = dirty
	status.Pending = version < latestMigrationVersion()
	return status, nil
}

// newMigrator builds a migrate instance over the embedded SQL files.
// The returned *sql.DB must be closed by the caller.
func newMigrator(dsn string) (*migrate.Migrate, *sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{
		MigrationsTable: "mooring_schema_migrations",
	})
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create source driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", driver)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return m, db, nil
}

// latestMigrationVersion returns the highest version shipped in the
// embedded migration set.
func latestMigrationVersion() uint {
	entries, err := migrations.FS.ReadDir(".")
	if err != nil {
		return 0
	}

	var latest uint
	for _, e := range entries {
		var v uint
		if _, err := fmt.Sscanf(e.Name(), "%d_", &v); err == nil && v > latest {
			latest = v
		}
	}
	return latest
}
