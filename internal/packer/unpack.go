package packer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jchantrell/i18npack/internal/bundle"
)

// Unpack writes every entry of the container at inputPath below
// outputDir/<container name without extension>/. Compressed containers are
// decompressed in memory first. Entries whose path would leave that
// directory are skipped.
func Unpack(inputPath, outputDir string, opts Options) (*Result, error) {
	logger := opts.logger()

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, &FatalIOError{Op: "read", Path: inputPath, Err: err}
	}

	if bundle.IsCompressed(inputPath) {
		data, err = bundle.Decompress(data)
		if err != nil {
			return nil, &bundle.CodecError{Path: inputPath, Err: err}
		}
	}

	payload, err := bundle.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", inputPath, err)
	}

	base := filepath.Base(inputPath)
	root := filepath.Join(outputDir, strings.TrimSuffix(base, filepath.Ext(base)))
	result := &Result{Path: root}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for i, key := range keys {
		opts.report(i+1, len(keys), key)
		logger.Debug("Writing entry", "current", i+1, "total", len(keys), "key", key)

		rel := filepath.FromSlash(strings.ReplaceAll(key, `\`, "/"))
		if !filepath.IsLocal(rel) {
			logger.Warn("Entry path escapes the output directory, skipping", "key", key)
			result.Skipped++
			continue
		}

		target := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return nil, &FatalIOError{Op: "mkdir", Path: filepath.Dir(target), Err: err}
		}
		if err := os.WriteFile(target, payload[key], 0644); err != nil {
			return nil, &FatalIOError{Op: "write", Path: target, Err: err}
		}

		result.Entries++
		result.Bytes += int64(len(payload[key]))
	}

	logger.Info("Unpacked container", "path", inputPath, "output", root, "entries", result.Entries)
	return result, nil
}
