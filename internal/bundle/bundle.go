package bundle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// payloadHint caps the map preallocation taken from an untrusted header
const payloadHint = 1024

type encodeOptions struct {
	level Level
}

// EncodeOption configures Encode
type EncodeOption func(*encodeOptions)

// WithCompressionLevel sets the zstd level used when compressing
func WithCompressionLevel(level Level) EncodeOption {
	return func(o *encodeOptions) {
		o.level = level
	}
}

// Encode writes payload to w as a single MessagePack map of string keys to
// binary values. Keys are written in sorted order. When compress is true the
// map is written through a zstd encoder whose frame is finalized before
// Encode returns.
func Encode(w io.Writer, payload Payload, compress bool, opts ...EncodeOption) (err error) {
	o := encodeOptions{level: LevelDefault}
	for _, opt := range opts {
		opt(&o)
	}

	if compress {
		zw, zerr := zstd.NewWriter(w,
			zstd.WithEncoderLevel(o.level.encoderLevel()),
			zstd.WithEncoderConcurrency(1),
		)
		if zerr != nil {
			return &CodecError{Err: fmt.Errorf("creating zstd encoder: %w", zerr)}
		}
		defer func() {
			if cerr := zw.Close(); cerr != nil && err == nil {
				err = &CodecError{Err: fmt.Errorf("finalizing zstd frame: %w", cerr)}
			}
		}()
		w = zw
	}

	return encodePayload(w, payload)
}

func encodePayload(w io.Writer, payload Payload) error {
	bw := bufio.NewWriter(w)
	enc := msgpack.NewEncoder(bw)

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	if err := enc.EncodeMapLen(len(keys)); err != nil {
		return &CodecError{Err: fmt.Errorf("writing map header: %w", err)}
	}

	for _, key := range keys {
		value := payload[key]
		if value == nil {
			value = []byte{}
		}
		if err := enc.EncodeString(key); err != nil {
			return &CodecError{Err: fmt.Errorf("writing key %q: %w", key, err)}
		}
		if err := enc.EncodeBytes(value); err != nil {
			return &CodecError{Err: fmt.Errorf("writing value for %q: %w", key, err)}
		}
	}

	if err := bw.Flush(); err != nil {
		return &CodecError{Err: fmt.Errorf("flushing payload: %w", err)}
	}
	return nil
}

// Decode reads one MessagePack map from r in a single forward pass. A nil
// map decodes to an empty payload. When a key repeats, the first value wins.
func Decode(r io.Reader) (Payload, error) {
	dec := msgpack.NewDecoder(r)

	n, err := dec.DecodeMapLen()
	if err != nil {
		return nil, &CodecError{Err: fmt.Errorf("reading map header: %w", err)}
	}

	payload := make(Payload, min(max(n, 0), payloadHint))
	for i := 0; i < n; i++ {
		key, err := dec.DecodeString()
		if err != nil {
			return nil, &CodecError{Err: fmt.Errorf("reading key %d of %d: %w", i+1, n, err)}
		}

		value, err := dec.DecodeBytes()
		if err != nil {
			return nil, &CodecError{Err: fmt.Errorf("reading value for %q: %w", key, err)}
		}

		if _, seen := payload[key]; seen {
			continue
		}
		if value == nil {
			value = []byte{}
		}
		payload[key] = value
	}

	return payload, nil
}

// OpenContainer opens a container file for decoding. Names ending in the
// compressed extension are wrapped in a decompressing reader; closing the
// result closes the file as well.
func OpenContainer(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	if !IsCompressed(path) {
		return f, nil
	}

	rc, err := NewDecompressReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return rc, nil
}

// DecodeFile opens and decodes the container at path. Every failure is
// reported as a *CodecError carrying the path.
func DecodeFile(path string) (Payload, error) {
	rc, err := OpenContainer(path)
	if err != nil {
		return nil, &CodecError{Path: path, Err: err}
	}
	defer rc.Close()

	payload, err := Decode(rc)
	if err != nil {
		var ce *CodecError
		if errors.As(err, &ce) {
			return nil, &CodecError{Path: path, Err: ce.Err}
		}
		return nil, &CodecError{Path: path, Err: err}
	}

	return payload, nil
}
