package bundle

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Level selects the zstd encoder level used for compressed containers
type Level uint8

const (
	LevelDefault Level = iota
	LevelFastest
	LevelBetter
	LevelBest
)

// String returns the configuration name of a level
func (l Level) String() string {
	switch l {
	case LevelDefault:
		return "default"
	case LevelFastest:
		return "fastest"
	case LevelBetter:
		return "better"
	case LevelBest:
		return "best"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}

// ParseLevel parses a level from its configuration name
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(name) {
	case "", "default":
		return LevelDefault, nil
	case "fastest":
		return LevelFastest, nil
	case "better":
		return LevelBetter, nil
	case "best":
		return LevelBest, nil
	default:
		return 0, fmt.Errorf("unknown compression level %q: expected fastest, default, better or best", name)
	}
}

func (l Level) encoderLevel() zstd.EncoderLevel {
	switch l {
	case LevelFastest:
		return zstd.SpeedFastest
	case LevelBetter:
		return zstd.SpeedBetterCompression
	case LevelBest:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

// IsCompressed reports whether a container name uses the compressed extension
func IsCompressed(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), CompressedExt)
}

// decompressReader streams the decompressed bytes of a zstd frame read from src
type decompressReader struct {
	src io.Reader
	dec *zstd.Decoder
}

// NewDecompressReader wraps r so reads return the decompressed stream.
// Close releases the decoder and closes r if it is an io.Closer.
func NewDecompressReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	return &decompressReader{src: r, dec: dec}, nil
}

func (d *decompressReader) Read(p []byte) (int, error) {
	return d.dec.Read(p)
}

func (d *decompressReader) Close() error {
	d.dec.Close()
	if c, ok := d.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Decompress decodes a whole zstd frame held in memory
func Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return out, nil
}
