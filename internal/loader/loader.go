// Package loader owns the translation tables of the selected language and
// answers lookups against them.
package loader

import (
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/jchantrell/i18npack/internal/asset"
	"github.com/jchantrell/i18npack/internal/bundle"
)

// ClassStats summarises the load of one asset class
type ClassStats struct {
	Class      Class
	Loose      int
	Plain      bundle.ScanStats
	Compressed bundle.ScanStats
	Entries    int
	Duration   time.Duration
}

// LoadStats summarises one SelectLanguage call
type LoadStats struct {
	Language string
	Root     string
	Classes  []ClassStats
	Duration time.Duration
}

// Entries returns the total number of table entries loaded
func (s LoadStats) Entries() int {
	total := 0
	for _, c := range s.Classes {
		total += c.Entries
	}
	return total
}

// Failed returns the number of containers that could not be decoded
func (s LoadStats) Failed() int {
	total := 0
	for _, c := range s.Classes {
		total += c.Plain.Failed + c.Compressed.Failed
	}
	return total
}

// Loader holds one table per asset class for the current language. Loads
// are serialized; lookups see whichever set of tables was installed last.
type Loader struct {
	logger  *slog.Logger
	scanner *bundle.Scanner

	loadMu sync.Mutex

	mu       sync.RWMutex
	language string
	root     string
	tables   map[string]asset.Table
}

// New creates a loader with no language selected
func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:  logger,
		scanner: bundle.NewScanner(logger),
		tables:  emptyTables(),
	}
}

// SelectLanguage rebuilds every table from the language directory at root
// and replaces the current ones. Bad containers or missing directories only
// reduce what gets loaded; the call itself never fails.
func (l *Loader) SelectLanguage(name, root string) LoadStats {
	l.loadMu.Lock()
	defer l.loadMu.Unlock()

	l.logger.Info("Loading language", "language", name, "root", root)
	start := time.Now()

	stats := LoadStats{Language: name, Root: root}
	tables := make(map[string]asset.Table, len(Classes))
	for _, c := range Classes {
		table, cs := l.loadClass(root, c)
		tables[c.Name] = table
		stats.Classes = append(stats.Classes, cs)
	}

	l.mu.Lock()
	l.language = name
	l.root = root
	l.tables = tables
	l.mu.Unlock()

	stats.Duration = time.Since(start)
	l.logger.Info("Done loading language",
		"language", name,
		"entries", stats.Entries(),
		"failed_containers", stats.Failed(),
		"duration", stats.Duration)

	return stats
}

func (l *Loader) loadClass(root string, c Class) (asset.Table, ClassStats) {
	start := time.Now()
	dir := filepath.Join(root, c.Dir)
	stats := ClassStats{Class: c}

	loose, err := l.scanner.ScanLoose(dir, c.Pattern)
	if err != nil {
		l.logger.Error("Failed to scan loose files", "class", c.Name, "dir", dir, "error", err)
		loose = nil
	}
	stats.Loose = len(loose)

	var plain, compressed map[string][]byte
	if c.Containers {
		plain, stats.Plain = l.scanner.ScanContainers(dir, bundle.PlainExt)
		compressed, stats.Compressed = l.scanner.ScanContainers(dir, bundle.CompressedExt)
	}

	table := asset.Merge(loose, plain, compressed)
	stats.Entries = len(table)
	stats.Duration = time.Since(start)

	l.logger.Debug("Loaded asset class",
		"class", c.Name,
		"loose", stats.Loose,
		"msgpack", stats.Plain.Entries,
		"zst", stats.Compressed.Entries,
		"duration", stats.Duration)

	return table, stats
}

// Unload discards every table and forgets the current language
func (l *Loader) Unload() {
	l.loadMu.Lock()
	defer l.loadMu.Unlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.logger.Info("Unloading language", "language", l.language)
	l.language = ""
	l.root = ""
	l.tables = emptyTables()
}

// CurrentLanguage returns the selected language name, or "" when unloaded
func (l *Loader) CurrentLanguage() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.language
}

// Root returns the directory the current language was loaded from
func (l *Loader) Root() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.root
}

// Table returns the current table for a class. The returned table is never
// modified; a later load installs a different one.
func (l *Loader) Table(c Class) asset.Table {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tables[c.Name]
}

// Open returns a stream for path in the class table. A miss is logged at
// error level and reported as an error matching asset.ErrNotFound.
func (l *Loader) Open(c Class, path string) (io.ReadCloser, error) {
	rc, err := l.Table(c).Open(path)
	if err != nil {
		l.logger.Error("Couldn't fetch the asset", "class", c.Name, "path", asset.ParseKey(path).Label(), "error", err)
		return nil, err
	}
	return rc, nil
}

// Paths lists the lookup strings of a class table in no particular order
func (l *Loader) Paths(c Class) []string {
	return l.Table(c).Paths()
}

func (l *Loader) OpenScript(path string) (io.ReadCloser, error)  { return l.Open(Scripts, path) }
func (l *Loader) OpenTexture(path string) (io.ReadCloser, error) { return l.Open(Textures, path) }
func (l *Loader) OpenUI(path string) (io.ReadCloser, error)      { return l.Open(UI, path) }

func (l *Loader) ScriptPaths() []string  { return l.Paths(Scripts) }
func (l *Loader) TexturePaths() []string { return l.Paths(Textures) }
func (l *Loader) UIPaths() []string      { return l.Paths(UI) }

func emptyTables() map[string]asset.Table {
	tables := make(map[string]asset.Table, len(Classes))
	for _, c := range Classes {
		tables[c.Name] = asset.Table{}
	}
	return tables
}
