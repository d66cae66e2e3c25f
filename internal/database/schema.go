package database

import (
	"context"
	"fmt"
	"log/slog"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS languages (
		name TEXT PRIMARY KEY,
		root TEXT NOT NULL,
		loaded_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS assets (
		language TEXT NOT NULL,
		class TEXT NOT NULL,
		label TEXT NOT NULL,
		origin TEXT NOT NULL,
		container TEXT NOT NULL,
		path TEXT NOT NULL,
		size INTEGER NOT NULL,
		source TEXT NOT NULL,
		PRIMARY KEY (language, class, label)
	)`,
	`CREATE INDEX IF NOT EXISTS assets_container ON assets (language, class, container)`,
}

// CreateSchema creates the manifest tables if they do not exist
func (d *Database) CreateSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := d.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	slog.Debug("Manifest schema ready", "database", d.path)
	return nil
}

// HasLanguage reports whether a manifest for the language is already stored
func (d *Database) HasLanguage(ctx context.Context, name string) (bool, error) {
	var count int
	row := d.QueryRow(ctx, `SELECT COUNT(*) FROM languages WHERE name = ?`, name)
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("checking language %s: %w", name, err)
	}
	return count > 0, nil
}
