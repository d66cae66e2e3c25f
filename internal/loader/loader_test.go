package loader

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jchantrell/i18npack/internal/asset"
	"github.com/jchantrell/i18npack/internal/bundle"
)

func newTestLoader() (*Loader, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(logger), &buf
}

func countErrors(logs *bytes.Buffer) int {
	return strings.Count(logs.String(), `"level":"ERROR"`)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func writeContainer(t *testing.T, path string, payload bundle.Payload, compress bool) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, bundle.Encode(&buf, payload, compress))
	writeFile(t, path, buf.String())
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestLoader_ScriptScenario(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Script", "foo.txt"), "loose content")
	writeContainer(t, filepath.Join(root, "Script", "bar.msgpack"), bundle.Payload{"baz.txt": []byte("B")}, false)
	writeContainer(t, filepath.Join(root, "Script", "qux.zst"), bundle.Payload{"quux.txt": []byte("Q")}, true)

	l, logs := newTestLoader()
	stats := l.SelectLanguage("English", root)

	assert.Equal(t, "English", l.CurrentLanguage())
	assert.Equal(t, root, l.Root())
	assert.Equal(t, 3, stats.Entries())
	assert.Zero(t, stats.Failed())
	assert.Zero(t, countErrors(logs))

	assert.ElementsMatch(t, []string{
		"foo.txt",
		asset.PlainPrefix + "bar/baz.txt",
		asset.CompressedPrefix + "qux/quux.txt",
	}, l.ScriptPaths())

	rc, err := l.OpenScript("foo.txt")
	require.NoError(t, err)
	assert.Equal(t, "loose content", readAll(t, rc))

	rc, err = l.OpenScript(asset.PlainPrefix + "bar/baz.txt")
	require.NoError(t, err)
	assert.Equal(t, "B", readAll(t, rc))

	rc, err = l.OpenScript(asset.CompressedPrefix + "qux/quux.txt")
	require.NoError(t, err)
	assert.Equal(t, "Q", readAll(t, rc))
}

func TestLoader_ClassesAreIndependent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Textures", "ui", "button.png"), "png")
	writeFile(t, filepath.Join(root, "Textures", "ignored.msgpack"), "x")
	writeFile(t, filepath.Join(root, "UI", "menu.csv"), "a,b")
	writeContainer(t, filepath.Join(root, "UI", "tables.msgpack"), bundle.Payload{"shop.csv": []byte("c,d")}, false)
	writeFile(t, filepath.Join(root, "Script", "menu.csv"), "not a script")

	l, _ := newTestLoader()
	l.SelectLanguage("English", root)

	assert.Equal(t, []string{"ui/button.png"}, l.TexturePaths())
	assert.ElementsMatch(t, []string{"menu.csv", asset.PlainPrefix + "tables/shop.csv"}, l.UIPaths())
	assert.Empty(t, l.ScriptPaths())
}

func TestLoader_OpenMissingLogsOnce(t *testing.T) {
	l, logs := newTestLoader()
	l.SelectLanguage("English", t.TempDir())

	_, err := l.OpenUI("nope.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, asset.ErrNotFound))
	assert.Equal(t, 1, countErrors(logs))
}

func TestLoader_MalformedContainer(t *testing.T) {
	root := t.TempDir()
	writeContainer(t, filepath.Join(root, "Script", "a.msgpack"), bundle.Payload{"one.txt": []byte("1")}, false)
	writeFile(t, filepath.Join(root, "Script", "b.msgpack"), "\xc1broken")
	writeContainer(t, filepath.Join(root, "Script", "c.zst"), bundle.Payload{"three.txt": []byte("3")}, true)

	l, logs := newTestLoader()
	stats := l.SelectLanguage("English", root)

	assert.Equal(t, 1, stats.Failed())
	assert.Equal(t, 1, countErrors(logs))
	assert.ElementsMatch(t, []string{
		asset.PlainPrefix + "a/one.txt",
		asset.CompressedPrefix + "c/three.txt",
	}, l.ScriptPaths())
}

func TestLoader_ReloadReplacesTables(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeContainer(t, filepath.Join(first, "Script", "old.msgpack"), bundle.Payload{"a.txt": []byte("old")}, false)
	writeFile(t, filepath.Join(second, "Script", "b.txt"), "new")

	l, _ := newTestLoader()
	l.SelectLanguage("English", first)

	held, err := l.OpenScript(asset.PlainPrefix + "old/a.txt")
	require.NoError(t, err)

	l.SelectLanguage("Japanese", second)
	assert.Equal(t, "Japanese", l.CurrentLanguage())
	assert.Equal(t, []string{"b.txt"}, l.ScriptPaths())

	_, err = l.OpenScript(asset.PlainPrefix + "old/a.txt")
	assert.ErrorIs(t, err, asset.ErrNotFound)

	assert.Equal(t, "old", readAll(t, held))
}

func TestLoader_Unload(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Script", "a.txt"), "a")

	l, _ := newTestLoader()
	l.SelectLanguage("English", root)
	require.Len(t, l.ScriptPaths(), 1)

	l.Unload()
	assert.Empty(t, l.CurrentLanguage())
	assert.Empty(t, l.ScriptPaths())
	assert.NotNil(t, l.Table(Scripts))
}

func TestLoader_MissingRoot(t *testing.T) {
	l, logs := newTestLoader()
	stats := l.SelectLanguage("English", filepath.Join(t.TempDir(), "missing"))

	assert.Zero(t, stats.Entries())
	assert.Zero(t, countErrors(logs))
	assert.Len(t, stats.Classes, len(Classes))
}

func TestParseClasses(t *testing.T) {
	all, err := ParseClasses(nil)
	require.NoError(t, err)
	assert.Equal(t, Classes, all)

	got, err := ParseClasses([]string{"Script", "ui"})
	require.NoError(t, err)
	assert.Equal(t, []Class{Scripts, UI}, got)

	_, err = ParseClasses([]string{"audio"})
	assert.Error(t, err)
}
