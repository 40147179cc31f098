// Package store persists the seeded user accounts.
//
// The real deployment target is PostgreSQL, whose schema is owned by the
// SQL migrations in this package (see migrate.go). A SQLite backend is
// kept for tests and local experiments; it is schema-managed through GORM
// AutoMigrate since golang-migrate's advisory locking brings nothing to a
// single-file database.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// BackendType defines the supported database backends.
type BackendType string

const (
	// BackendPostgres is the deployment backend.
	BackendPostgres BackendType = "postgres"

	// BackendSQLite is the test/local backend.
	BackendSQLite BackendType = "sqlite"
)

// Options configure the store connection.
type Options struct {
	// Backend selects postgres or sqlite.
	Backend BackendType

	// DSN is the connection string: a keyword DSN for postgres, a file
	// path (or ":memory:") for sqlite.
	DSN string

	// MaxOpenConns bounds the pool (postgres only).
	MaxOpenConns int

	// MaxIdleConns bounds idle pooled connections (postgres only).
	MaxIdleConns int
}

// Store provides access to seeded user records.
type Store struct {
	db *gorm.DB
}

// Open connects to the configured database backend.
func Open(opts Options) (*Store, error) {
	var dialector gorm.Dialector
	switch opts.Backend {
	case BackendPostgres:
		dialector = postgres.Open(opts.DSN)
	case BackendSQLite:
		dialector = sqlite.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database backend: %s", opts.Backend)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if opts.Backend == BackendPostgres {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying database: %w", err)
		}
		if opts.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
		}
	}

	if opts.Backend == BackendSQLite {
		if err := db.AutoMigrate(&User{}); err != nil {
			return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB returns the underlying GORM handle for advanced queries and tests.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// isUniqueConstraintError checks if the error is a unique constraint
// violation in either backend's phrasing.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "duplicate key value violates unique constraint")
}

// convertNotFoundError converts gorm.ErrRecordNotFound to the domain error.
func convertNotFoundError(err error, notFoundErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundErr
	}
	return err
}
