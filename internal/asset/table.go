package asset

import (
	"errors"
	"fmt"
	"io"
	"slices"
)

// ErrNotFound is matched by every lookup miss
var ErrNotFound = errors.New("asset not found")

// NotFoundError reports the key of a lookup miss
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("asset not found: %s", ParseKey(e.Key).Label())
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Table maps lookup strings onto assets. Tables are built once per load and
// are not modified afterwards.
type Table map[string]Asset

// Open returns a fresh stream for the asset stored under key, matched
// verbatim including any origin prefix.
func (t Table) Open(key string) (io.ReadCloser, error) {
	a, ok := t[key]
	if !ok {
		return nil, &NotFoundError{Key: key}
	}
	return a.Open()
}

// OpenKey is Open for a structured key
func (t Table) OpenKey(key Key) (io.ReadCloser, error) {
	return t.Open(key.String())
}

// Paths returns every lookup string in the table in map order
func (t Table) Paths() []string {
	paths := make([]string, 0, len(t))
	for key := range t {
		paths = append(paths, key)
	}
	return paths
}

// SortedPaths returns every lookup string in byte order
func (t Table) SortedPaths() []string {
	paths := t.Paths()
	slices.Sort(paths)
	return paths
}

// Merge builds a table from the three scan results. Loose entries are keyed
// by their relative path; container entries are keyed by their composed path
// behind the origin prefix, so entries from different origins never collide.
// Insertion order is loose, plain, then compressed.
func Merge(loose map[string]string, plain, compressed map[string][]byte) Table {
	table := make(Table, len(loose)+len(plain)+len(compressed))

	for rel, path := range loose {
		table[Key{Origin: OriginLoose, Path: rel}.String()] = NewLoose(path)
	}

	for composed, data := range plain {
		table[Key{Origin: OriginPlain, Path: composed}.String()] = NewPackaged(data)
	}

	for composed, data := range compressed {
		table[Key{Origin: OriginCompressed, Path: composed}.String()] = NewPackaged(data)
	}

	return table
}
