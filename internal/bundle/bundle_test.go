package bundle

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func samplePayload() Payload {
	return Payload{
		"a.txt":          []byte("alpha"),
		"dir/b.txt":      []byte("beta"),
		"dir/sub/c.csv":  []byte("key,value\nx,y"),
		"empty.txt":      {},
		"unicode/日本.txt": []byte("こんにちは"),
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, samplePayload(), compress))

		var r io.Reader = &buf
		if compress {
			rc, err := NewDecompressReader(&buf)
			require.NoError(t, err)
			defer rc.Close()
			r = rc
		}

		got, err := Decode(r)
		require.NoError(t, err, "compress=%v", compress)
		assert.Equal(t, samplePayload(), got, "compress=%v", compress)
	}
}

func TestEncode_WireFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Payload{"a.txt": []byte("A")}, false))

	g := goldie.New(t)
	g.Assert(t, "single_entry", buf.Bytes())
}

func TestEncode_DeterministicOutput(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, Encode(&first, samplePayload(), false))
	require.NoError(t, Encode(&second, samplePayload(), false))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestEncode_CompressionLevels(t *testing.T) {
	for _, level := range []Level{LevelFastest, LevelDefault, LevelBetter, LevelBest} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, samplePayload(), true, WithCompressionLevel(level)))

		plain, err := Decompress(buf.Bytes())
		require.NoError(t, err, "level=%s", level)

		got, err := Decode(bytes.NewReader(plain))
		require.NoError(t, err)
		assert.Len(t, got, len(samplePayload()), "level=%s", level)
	}
}

func TestDecode_DuplicateKeyFirstWins(t *testing.T) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	require.NoError(t, enc.EncodeMapLen(3))
	require.NoError(t, enc.EncodeString("x"))
	require.NoError(t, enc.EncodeBytes([]byte("first")))
	require.NoError(t, enc.EncodeString("y"))
	require.NoError(t, enc.EncodeBytes([]byte("other")))
	require.NoError(t, enc.EncodeString("x"))
	require.NoError(t, enc.EncodeBytes([]byte("second")))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, Payload{"x": []byte("first"), "y": []byte("other")}, got)
}

func TestDecode_NilMap(t *testing.T) {
	got, err := Decode(bytes.NewReader([]byte{0xc0}))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not a map", []byte("not msgpack at all")},
		{"truncated value", []byte{0x81, 0xa1, 'x', 0xc4, 0x05, 'a', 'b'}},
		{"truncated map", []byte{0x82, 0xa1, 'x', 0xc4, 0x01, 'a'}},
		{"integer key", []byte{0x81, 0x01, 0xc4, 0x01, 'a'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tt.data))
			require.Error(t, err)

			var ce *CodecError
			assert.True(t, errors.As(err, &ce), "expected CodecError, got %T", err)
		})
	}
}

func TestDecodeFile_PlainAndCompressed(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.msgpack")
	compressed := filepath.Join(dir, "packed.ZST")

	writeContainer(t, plain, Payload{"a.txt": []byte("A")}, false)
	writeContainer(t, compressed, Payload{"b.txt": []byte("B")}, true)

	got, err := DecodeFile(plain)
	require.NoError(t, err)
	assert.Equal(t, Payload{"a.txt": []byte("A")}, got)

	got, err = DecodeFile(compressed)
	require.NoError(t, err)
	assert.Equal(t, Payload{"b.txt": []byte("B")}, got)
}

func TestDecodeFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := DecodeFile(filepath.Join(dir, "missing.msgpack"))
	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, filepath.Join(dir, "missing.msgpack"), ce.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.zst")
	require.NoError(t, os.WriteFile(bad, []byte("not a zstd frame"), 0644))
	_, err = DecodeFile(bad)
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, bad, ce.Path)
}

func TestNewDecompressReader_ClosesSource(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Payload{"a": []byte("b")}, true))

	src := &closeRecorder{Reader: &buf}
	rc, err := NewDecompressReader(src)
	require.NoError(t, err)

	_, err = io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.True(t, src.closed)
}

func TestIsCompressed(t *testing.T) {
	assert.True(t, IsCompressed("a.zst"))
	assert.True(t, IsCompressed("dir/A.ZST"))
	assert.False(t, IsCompressed("a.msgpack"))
	assert.False(t, IsCompressed("a.zst.msgpack"))
}

func TestParseLevel(t *testing.T) {
	for _, level := range []Level{LevelFastest, LevelDefault, LevelBetter, LevelBest} {
		parsed, err := ParseLevel(level.String())
		require.NoError(t, err)
		assert.Equal(t, level, parsed)
	}

	parsed, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, LevelDefault, parsed)

	_, err = ParseLevel("ultra")
	assert.Error(t, err)
}

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func writeContainer(t *testing.T, path string, payload Payload, compress bool) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, Encode(f, payload, compress))
}
