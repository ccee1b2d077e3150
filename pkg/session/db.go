// Package session records import history and outliner view state in a
// per-project sqlite database (.sv/session.db).
package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DB handles session persistence.
type DB struct {
	db *sql.DB
}

// ImportRecord is one row of import history.
type ImportRecord struct {
	ID         int64     `json:"id"`
	Path       string    `json:"path"`
	Objects    int       `json:"objects"`
	Warnings   int       `json:"warnings"`
	DurationMS int64     `json:"duration_ms"`
	ImportedAt time.Time `json:"imported_at"`
}

// OpenDB opens or creates the session database at the given path.
func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sdb := &DB{db: db}
	if err := sdb.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS imports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		objects INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		imported_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_imports_path ON imports(path);

	CREATE TABLE IF NOT EXISTS view_state (
		region TEXT NOT NULL,
		item_path TEXT NOT NULL,
		open INTEGER NOT NULL,
		PRIMARY KEY (region, item_path)
	);
	`

	_, err := d.db.Exec(schema)
	return err
}

// RecordImport inserts one import history row.
func (d *DB) RecordImport(r *ImportRecord) error {
	if r.ImportedAt.IsZero() {
		r.ImportedAt = time.Now()
	}
	result, err := d.db.Exec(`
		INSERT INTO imports (path, objects, warnings, duration_ms, imported_at)
		VALUES (?, ?, ?, ?, ?)
	`, r.Path, r.Objects, r.Warnings, r.DurationMS, r.ImportedAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

// RecentImports returns the latest import rows, newest first.
func (d *DB) RecentImports(limit int) ([]ImportRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.db.Query(`
		SELECT id, path, objects, warnings, duration_ms, imported_at
		FROM imports
		ORDER BY imported_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ImportRecord
	for rows.Next() {
		var r ImportRecord
		if err := rows.Scan(&r.ID, &r.Path, &r.Objects, &r.Warnings, &r.DurationMS, &r.ImportedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// SaveViewState replaces the stored open/collapsed flags for a region.
// Only deviations from the defaults should be passed in.
func (d *DB) SaveViewState(region string, open map[string]bool) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM view_state WHERE region = ?`, region); err != nil {
		return err
	}
	for itemPath, isOpen := range open {
		if _, err := tx.Exec(`
			INSERT INTO view_state (region, item_path, open)
			VALUES (?, ?, ?)
		`, region, itemPath, isOpen); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// outlinerRegion is the region key used by the state-store methods.
const outlinerRegion = "outliner"

// SaveState persists the outliner's collapse state; together with
// LoadState it satisfies the viewer's state-store interface.
func (d *DB) SaveState(open map[string]bool) error {
	return d.SaveViewState(outlinerRegion, open)
}

// LoadState returns the outliner's stored collapse state.
func (d *DB) LoadState() (map[string]bool, error) {
	return d.LoadViewState(outlinerRegion)
}

// LoadViewState returns the stored open/collapsed flags for a region.
func (d *DB) LoadViewState(region string) (map[string]bool, error) {
	rows, err := d.db.Query(`
		SELECT item_path, open FROM view_state WHERE region = ?
	`, region)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	open := make(map[string]bool)
	for rows.Next() {
		var itemPath string
		var isOpen bool
		if err := rows.Scan(&itemPath, &isOpen); err != nil {
			return nil, err
		}
		open[itemPath] = isOpen
	}
	return open, rows.Err()
}
