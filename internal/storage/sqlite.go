package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS collections (
	name       TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteBackend stores each collection of the snapshot as a JSON row.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (or creates) the database at path
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

// Load reads every collection; missing rows leave the collection empty.
func (b *SQLiteBackend) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	targets := b.targets(snap)

	rows, err := b.db.QueryContext(ctx, `SELECT name, data FROM collections`)
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, data string
		if err := rows.Scan(&name, &data); err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		target, ok := targets[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal([]byte(data), target); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", name, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read collections: %w", err)
	}
	return snap, nil
}

// Save replaces every collection inside one transaction.
func (b *SQLiteBackend) Save(ctx context.Context, snap *Snapshot) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for name, value := range b.targets(snap) {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", name, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO collections (name, data, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
		`, name, string(data))
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Close closes the database
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

func (b *SQLiteBackend) targets(snap *Snapshot) map[string]any {
	return map[string]any{
		"guests":   &snap.Guests,
		"rooms":    &snap.Rooms,
		"vehicles": &snap.Vehicles,
		"budget":   &snap.Budget,
	}
}
