// Package export writes the assets a language resolves to back to disk.
package export

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jchantrell/i18npack/internal/asset"
	"github.com/jchantrell/i18npack/internal/loader"
)

// TableSource defines the interface for reading the tables of a loaded language
type TableSource interface {
	Table(c loader.Class) asset.Table
}

// ProgressCallback is called to report export progress
type ProgressCallback func(current int, total int, description string)

// Exporter handles exporting resolved assets to disk
type Exporter struct {
	source    TableSource
	outputDir string
}

// NewExporter creates a new asset exporter
func NewExporter(source TableSource, outputDir string) *Exporter {
	return &Exporter{
		source:    source,
		outputDir: outputDir,
	}
}

// ExportClasses writes every asset of the given classes to
// <outputDir>/<class dir>/<origin>/<path> and returns the number written.
// Assets whose path is not local are skipped.
func (e *Exporter) ExportClasses(classes []loader.Class, progressCallback ProgressCallback) (int, error) {
	type job struct {
		class loader.Class
		key   string
		table asset.Table
	}

	var jobs []job
	for _, c := range classes {
		table := e.source.Table(c)
		for _, key := range table.SortedPaths() {
			jobs = append(jobs, job{class: c, key: key, table: table})
		}
	}

	if len(jobs) == 0 {
		return 0, nil
	}

	// Create output directory
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}

	written := 0
	for i, j := range jobs {
		key := asset.ParseKey(j.key)
		if progressCallback != nil {
			progressCallback(i+1, len(jobs), key.Label())
		}

		rel := filepath.FromSlash(key.Path)
		if !filepath.IsLocal(rel) {
			slog.Warn("Asset path escapes the output directory, skipping", "class", j.class.Name, "key", key.Label())
			continue
		}

		outputPath := filepath.Join(e.outputDir, j.class.Dir, key.Origin.String(), rel)
		if err := e.exportAsset(j.table, j.key, outputPath); err != nil {
			return written, fmt.Errorf("exporting %s: %w", key.Label(), err)
		}

		slog.Debug("Exported asset", "class", j.class.Name, "key", key.Label(), "output", outputPath)
		written++
	}

	return written, nil
}

func (e *Exporter) exportAsset(table asset.Table, key, outputPath string) error {
	src, err := table.Open(key)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("writing file %s: %w", outputPath, err)
	}

	return out.Close()
}
