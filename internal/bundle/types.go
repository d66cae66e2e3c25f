package bundle

import (
	"fmt"
	"io/fs"
)

// Container file extensions
const (
	PlainExt      = ".msgpack"
	CompressedExt = ".zst"
)

// Payload maps a path relative to the packed directory to its raw content
type Payload map[string][]byte

// CodecError reports a container that could not be encoded or decoded.
// Path is empty when the container was not read from a file.
type CodecError struct {
	Path string
	Err  error
}

func (e *CodecError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("container codec: %v", e.Err)
	}
	return fmt.Sprintf("container %s: %v", e.Path, e.Err)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// MissingDirectoryError reports a scan root that does not exist
type MissingDirectoryError struct {
	Dir string
}

func (e *MissingDirectoryError) Error() string {
	return fmt.Sprintf("directory not found: %s", e.Dir)
}

func (e *MissingDirectoryError) Unwrap() error {
	return fs.ErrNotExist
}

// ScanStats summarises one container scan
type ScanStats struct {
	Containers int // containers decoded successfully
	Failed     int // containers skipped because they failed to decode
	Entries    int // entries kept in the result
	Duplicates int // entries dropped because their composed key was already present
}
