// Package packer converts directory trees into translation containers and
// back.
package packer

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jchantrell/i18npack/internal/bundle"
)

// ProgressCallback is called to report pack and unpack progress
type ProgressCallback func(current int, total int, description string)

// Options configures Pack and Unpack
type Options struct {
	Logger   *slog.Logger
	Progress ProgressCallback
	Level    bundle.Level
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o Options) report(current, total int, description string) {
	if o.Progress != nil {
		o.Progress(current, total, description)
	}
}

// Result summarises a Pack or Unpack run
type Result struct {
	Path    string // container written by Pack, directory written by Unpack
	Entries int
	Skipped int
	Bytes   int64
}

// FatalIOError reports a file system failure that aborts a pack or unpack
type FatalIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *FatalIOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FatalIOError) Unwrap() error {
	return e.Err
}

// DefaultOutputPath places the container next to sourceDir, named after it
func DefaultOutputPath(sourceDir string, compress bool) string {
	clean := filepath.Clean(sourceDir)
	ext := bundle.PlainExt
	if compress {
		ext = bundle.CompressedExt
	}
	return filepath.Join(filepath.Dir(clean), filepath.Base(clean)+ext)
}

// Pack reads every file below sourceDir as text, trims surrounding
// whitespace and writes the UTF-8 results to a container at outputPath,
// keyed by slash-separated relative path. An empty outputPath selects
// DefaultOutputPath.
func Pack(sourceDir, outputPath string, compress bool, opts Options) (*Result, error) {
	logger := opts.logger()
	if outputPath == "" {
		outputPath = DefaultOutputPath(sourceDir, compress)
	}

	files, err := listFiles(sourceDir)
	if err != nil {
		return nil, err
	}

	result := &Result{Path: outputPath}
	payload := make(bundle.Payload, len(files))

	for i, file := range files {
		opts.report(i+1, len(files), file.rel)
		logger.Debug("Reading file", "current", i+1, "total", len(files), "path", file.rel)

		data, err := os.ReadFile(file.path)
		if err != nil {
			return nil, &FatalIOError{Op: "read", Path: file.path, Err: err}
		}

		text, err := normalizeText(data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", file.path, err)
		}

		if _, exists := payload[file.rel]; exists {
			logger.Warn("Path was already declared, skipping", "path", file.rel)
			result.Skipped++
			continue
		}

		payload[file.rel] = []byte(text)
		result.Entries++
		result.Bytes += int64(len(text))
	}

	if err := writeContainer(outputPath, payload, compress, opts.Level); err != nil {
		return nil, err
	}

	logger.Info("Saved container", "path", outputPath, "entries", result.Entries, "compressed", compress)
	return result, nil
}

func writeContainer(outputPath string, payload bundle.Payload, compress bool, level bundle.Level) (err error) {
	out, err := os.Create(outputPath)
	if err != nil {
		return &FatalIOError{Op: "create", Path: outputPath, Err: err}
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = &FatalIOError{Op: "close", Path: outputPath, Err: cerr}
		}
		if err != nil {
			os.Remove(outputPath)
		}
	}()

	if err := bundle.Encode(out, payload, compress, bundle.WithCompressionLevel(level)); err != nil {
		return fmt.Errorf("encoding %s: %w", outputPath, err)
	}
	return nil
}

type sourceFile struct {
	path string
	rel  string
}

// listFiles returns every regular file below dir in lexical order
func listFiles(dir string) ([]sourceFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &FatalIOError{Op: "open", Path: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &FatalIOError{Op: "open", Path: dir, Err: fmt.Errorf("not a directory")}
	}

	var files []sourceFile
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &FatalIOError{Op: "walk", Path: path, Err: err}
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, sourceFile{path: path, rel: filepath.ToSlash(rel)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}
