// Package db persists policy holders and their trips in SQLite. Trips are
// stored with their full interchange JSON payload so the analysis pipeline
// and external tooling read exactly what the vehicle produced.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQL connection with the persistence operations the API and
// CLI tooling need.
type DB struct {
	*sql.DB
}

// NewDB opens (creating if necessary) the SQLite database at path and runs
// pending migrations.
func NewDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer; serialize access through a single
	// connection rather than surfacing SQLITE_BUSY to callers.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec(`PRAGMA journal_mode = WAL; PRAGMA foreign_keys = ON;`); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	db := &DB{sqlDB}
	if err := db.MigrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}
