package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/jchantrell/i18npack/internal/asset"
)

const insertAssetSQL = `INSERT OR REPLACE INTO assets
	(language, class, label, origin, container, path, size, source)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// ManifestWriter stores loaded asset tables in batched transactions
type ManifestWriter struct {
	db        *Database
	batchSize int
}

// NewManifestWriter creates a writer; batchSize <= 0 selects 1000
func NewManifestWriter(db *Database, batchSize int) *ManifestWriter {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &ManifestWriter{db: db, batchSize: batchSize}
}

// AssetRow is one manifest entry
type AssetRow struct {
	Label     string
	Origin    string
	Container string
	Path      string
	Size      int64
	Source    string
}

// WriteLanguage records the language a manifest was built from, replacing
// any assets stored for it earlier
func (w *ManifestWriter) WriteLanguage(ctx context.Context, name, root string) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM assets WHERE language = ?`, name); err != nil {
		return fmt.Errorf("clearing assets for %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO languages (name, root, loaded_at) VALUES (?, ?, ?)`,
		name, root, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("recording language %s: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing language %s: %w", name, err)
	}
	return nil
}

// WriteTable inserts one row per table entry and returns the row count
func (w *ManifestWriter) WriteTable(ctx context.Context, language, class string, table asset.Table) (int, error) {
	keys := table.SortedPaths()
	if len(keys) == 0 {
		slog.Debug("No assets to record", "class", class)
		return 0, nil
	}

	written := 0
	for start := 0; start < len(keys); start += w.batchSize {
		end := min(start+w.batchSize, len(keys))

		rows := make([]AssetRow, 0, end-start)
		for _, key := range keys[start:end] {
			row, err := manifestRow(key, table[key])
			if err != nil {
				slog.Warn("Skipping unreadable asset", "class", class, "key", asset.ParseKey(key).Label(), "error", err)
				continue
			}
			rows = append(rows, row)
		}

		if err := w.insertBatch(ctx, language, class, rows); err != nil {
			return written, fmt.Errorf("inserting batch %d-%d for %s: %w", start, end-1, class, err)
		}
		written += len(rows)
	}

	return written, nil
}

func (w *ManifestWriter) insertBatch(ctx context.Context, language, class string, rows []AssetRow) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertAssetSQL)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, language, class, row.Label, row.Origin, row.Container, row.Path, row.Size, row.Source); err != nil {
			return fmt.Errorf("inserting %s: %w", row.Label, err)
		}
	}

	return tx.Commit()
}

// manifestRow describes one table entry. Loose sizes come from the file
// system; packaged sizes from the decoded buffer.
func manifestRow(key string, a asset.Asset) (AssetRow, error) {
	k := asset.ParseKey(key)
	row := AssetRow{
		Label:     k.Label(),
		Origin:    k.Origin.String(),
		Container: k.Container(),
		Path:      strings.TrimPrefix(k.Path, k.Container()+"/"),
	}

	switch a := a.(type) {
	case *asset.Loose:
		info, err := os.Stat(a.Path)
		if err != nil {
			return AssetRow{}, err
		}
		row.Path = k.Path
		row.Size = info.Size()
		row.Source = a.Path
	case *asset.Packaged:
		row.Size = int64(a.Len())
	default:
		return AssetRow{}, fmt.Errorf("unsupported asset type %T", a)
	}

	return row, nil
}

// Labels returns the stored labels of a class in order
func (d *Database) Labels(ctx context.Context, language, class string) ([]string, error) {
	rows, err := d.Query(ctx, `SELECT label FROM assets WHERE language = ? AND class = ?`, language, class)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("scanning label: %w", err)
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating labels: %w", err)
	}

	slices.Sort(labels)
	return labels, nil
}
