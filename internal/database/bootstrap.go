package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// recordColumns are the amount_record columns the repository relies on.
var recordColumns = []string{"id", "amount", "in_or_out", "append_msg", "created_at", "updated_at"}

// Bootstrap makes sure the database file, the migrations directory and the
// schema exist, then opens the database. Running it again is a no-op.
func Bootstrap(ctx context.Context, dbPath, migrationsPath string, log logrus.FieldLogger) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if _, err := os.Stat(dbPath); errors.Is(err, fs.ErrNotExist) {
		log.WithField("path", dbPath).Info("Creating database")
	} else if err != nil {
		return nil, fmt.Errorf("stat database: %w", err)
	}
	if err := SeedMigrations(migrationsPath); err != nil {
		return nil, err
	}
	if err := RunMigrations(dbPath, migrationsPath); err != nil {
		return nil, err
	}

	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := VerifySchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.WithField("path", dbPath).Debug("Database ready")
	return db, nil
}

// VerifySchema checks that amount_record carries every expected column.
func VerifySchema(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info('amount_record')`)
	if err != nil {
		return fmt.Errorf("inspect schema: %w", err)
	}
	defer rows.Close()

	have := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("inspect schema: %w", err)
		}
		have[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("inspect schema: %w", err)
	}

	var missing []string
	for _, c := range recordColumns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: amount_record is missing %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return nil
}
