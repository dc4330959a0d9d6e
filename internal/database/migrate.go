package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ErrSchemaMismatch means the database does not match the migrations on disk.
var ErrSchemaMismatch = errors.New("schema mismatch")

// RunMigrations applies all up migrations found at migrationsPath. It uses
// its own connection because closing the migrator closes the database.
func RunMigrations(dbPath, migrationsPath string) error {
	abs, err := filepath.Abs(migrationsPath)
	if err != nil {
		return fmt.Errorf("resolve migrations path: %w", err)
	}
	db, err := Open(dbPath)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("create sqlite3 driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+filepath.ToSlash(abs), "sqlite3", driver)
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	err = m.Up()
	switch {
	case err == nil, errors.Is(err, migrate.ErrNoChange):
		return nil
	case errors.As(err, new(migrate.ErrDirty)):
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	case errors.Is(err, os.ErrNotExist):
		// The database is ahead of the migrations directory.
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	default:
		return fmt.Errorf("run migrations: %w", err)
	}
}
