package database

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// SeedMigrationName is the first migration, named by its creation timestamp.
const SeedMigrationName = "20250311140451_init"

const seedUp = `CREATE TABLE IF NOT EXISTS amount_record (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    amount INTEGER NOT NULL DEFAULT 0 CHECK (amount >= 0),
    in_or_out BOOLEAN NOT NULL,
    append_msg TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS amount_record_updated_at ON amount_record (updated_at, id);
`

const seedDown = `DROP INDEX IF EXISTS amount_record_updated_at;
DROP TABLE IF EXISTS amount_record;
`

// SeedMigrations writes the initial migration pair into dir unless it is
// already there. It is idempotent and safe to run on every startup.
func SeedMigrations(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir migrations dir: %w", err)
	}
	files := map[string]string{
		SeedMigrationName + ".up.sql":   seedUp,
		SeedMigrationName + ".down.sql": seedDown,
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", name, err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
