package bundle

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Scanner enumerates loose files and containers under a directory
type Scanner struct {
	logger *slog.Logger
}

// NewScanner creates a scanner that reports through logger (slog.Default when nil)
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{logger: logger}
}

// ScanLoose recursively finds files under dir whose base name matches the
// glob pattern, compared case-insensitively. The result maps each file's
// slash-separated path relative to dir onto its path on disk. A missing dir
// yields an empty map and no error.
func (s *Scanner) ScanLoose(dir, pattern string) (map[string]string, error) {
	result := make(map[string]string)

	pattern = strings.ToLower(pattern)
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	if !dirExists(dir) {
		return result, nil
	}

	err := s.walkFiles(dir, func(path, rel string, d fs.DirEntry) {
		if ok, _ := filepath.Match(pattern, strings.ToLower(d.Name())); ok {
			result[rel] = path
		}
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	s.logger.Debug("Found loose files", "dir", filepath.Base(dir), "pattern", pattern, "count", len(result))
	return result, nil
}

// ScanContainers decodes every container under dir with the given extension
// and folds their entries into one map keyed by
// "<container name without extension>/<inner path>". Containers are processed
// in ordinal case-insensitive path order and the first entry seen for a
// composed key is kept. A container that fails to decode is logged and
// skipped without affecting the others.
func (s *Scanner) ScanContainers(dir, ext string) (map[string][]byte, ScanStats) {
	result := make(map[string][]byte)
	var stats ScanStats

	if !dirExists(dir) {
		s.logger.Warn("Container directory not found, nothing will be loaded", "error", &MissingDirectoryError{Dir: dir})
		return result, stats
	}

	containers, err := s.listContainers(dir, ext)
	if err != nil {
		s.logger.Error("Failed to list containers", "dir", dir, "ext", ext, "error", err)
		return result, stats
	}

	for _, path := range containers {
		name := containerName(path)
		s.logger.Debug("Reading container", "file", filepath.Base(path))

		payload, err := DecodeFile(path)
		if err != nil {
			s.logger.Error("Failed to decode container", "path", path, "error", err)
			stats.Failed++
			continue
		}
		stats.Containers++

		inner := make([]string, 0, len(payload))
		for key := range payload {
			inner = append(inner, key)
		}
		slices.Sort(inner)

		for _, key := range inner {
			composed := name + "/" + normalizeKey(key)
			if _, exists := result[composed]; exists {
				s.logger.Debug("Dropping duplicate container entry", "key", composed, "container", path)
				stats.Duplicates++
				continue
			}
			result[composed] = payload[key]
			stats.Entries++
		}

		s.logger.Debug("Container loaded", "file", filepath.Base(path), "entries", len(payload))
	}

	return result, stats
}

// listContainers returns the container paths under dir in load order
func (s *Scanner) listContainers(dir, ext string) ([]string, error) {
	ext = strings.ToLower(ext)

	var containers []string
	err := s.walkFiles(dir, func(path, rel string, d fs.DirEntry) {
		if strings.HasSuffix(strings.ToLower(d.Name()), ext) {
			containers = append(containers, path)
		}
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(containers, CompareFold)
	return containers, nil
}

// walkFiles calls fn for every regular file below dir. Unreadable
// subdirectories are logged and skipped; only a failure on dir itself is
// returned.
func (s *Scanner) walkFiles(dir string, fn func(path, rel string, d fs.DirEntry)) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			s.logger.Warn("Skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		fn(path, filepath.ToSlash(rel), d)
		return nil
	})
}

// CompareFold orders strings ordinally after upper-casing them, breaking
// ties with a plain ordinal comparison so the order is total.
func CompareFold(a, b string) int {
	if c := strings.Compare(strings.ToUpper(a), strings.ToUpper(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// containerName is the container's file name without its extension
func containerName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// normalizeKey converts inner container paths to forward slashes
func normalizeKey(key string) string {
	return strings.ReplaceAll(key, `\`, "/")
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
