// Package asset models translation assets and the lookup tables that map
// logical paths onto them.
package asset

import (
	"bytes"
	"io"
	"os"
)

// Asset is a translation file that can be read any number of times
type Asset interface {
	// Open returns a fresh stream positioned at the start of the content.
	// Streams from separate calls are independent.
	Open() (io.ReadCloser, error)
}

// Loose is an asset stored as a standalone file. Content is read from disk
// on every Open.
type Loose struct {
	Path string
}

// NewLoose creates a loose asset for the file at path
func NewLoose(path string) *Loose {
	return &Loose{Path: path}
}

func (a *Loose) Open() (io.ReadCloser, error) {
	return os.Open(a.Path)
}

// Packaged is an asset decoded from a container and held in memory
type Packaged struct {
	data []byte
}

// NewPackaged creates a packaged asset owning data
func NewPackaged(data []byte) *Packaged {
	return &Packaged{data: data}
}

func (a *Packaged) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(a.data)), nil
}

// Len returns the content size in bytes
func (a *Packaged) Len() int {
	return len(a.data)
}
