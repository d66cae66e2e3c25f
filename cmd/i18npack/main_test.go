package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so commands can run more
// than once in a process
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append(args, "--no-progress"))

	err := rootCmd.Execute()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	work := t.TempDir()
	t.Setenv("HOME", work)
	prevWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(work))
	t.Cleanup(func() { _ = os.Chdir(prevWD) })
	return work
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestPackCmd_RequiresOutput(t *testing.T) {
	work := isolate(t)
	src := filepath.Join(work, "Script")
	writeFile(t, filepath.Join(src, "a.txt"), "a")

	_, err := runCommand(t, "pack", "-d", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"output"`)
	assert.NoFileExists(t, filepath.Join(work, "Script.msgpack"))
}

func TestPackCmd_RequiresDirectory(t *testing.T) {
	work := isolate(t)

	_, err := runCommand(t, "pack", "-o", filepath.Join(work, "out.msgpack"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"directory"`)
}

func TestPackCmd_WritesContainer(t *testing.T) {
	work := isolate(t)
	src := filepath.Join(work, "Script")
	writeFile(t, filepath.Join(src, "a.txt"), " a ")

	out := filepath.Join(work, "script.zst")
	_, err := runCommand(t, "pack", "-d", src, "-o", out, "-c")
	require.NoError(t, err)
	assert.FileExists(t, out)
}

func TestQueryCmd_Labels(t *testing.T) {
	work := isolate(t)
	root := filepath.Join(work, "lang")
	writeFile(t, filepath.Join(root, "English", "Script", "a.txt"), "a")
	writeFile(t, filepath.Join(root, "English", "UI", "menu.csv"), "x,y")
	db := filepath.Join(work, "manifest.db")

	_, err := runCommand(t, "index", "--root", root, "--database", db)
	require.NoError(t, err)

	out, err := runCommand(t, "query", "--labels", "--class", "script", "--database", db)
	require.NoError(t, err)
	assert.Equal(t, "script\ta.txt\n", out)

	out, err = runCommand(t, "query", "--labels", "--database", db)
	require.NoError(t, err)
	assert.Equal(t, "ui\tmenu.csv\nscript\ta.txt\n", out)
}
