package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "i18npack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	prevWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(prevWD) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "default", cfg.CompressionLevel)
	assert.Equal(t, "i18npack.db", cfg.Database)
	assert.Equal(t, LanguageEnglish, cfg.Language)
	assert.Empty(t, cfg.Classes)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
log_format: json
compression_level: best
database: out/manifest.db
root: /games/lang
language: French
classes: [script, ui]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		LogLevel:         "debug",
		LogFormat:        "json",
		CompressionLevel: "best",
		Database:         "out/manifest.db",
		Root:             "/games/lang",
		Language:         "French",
		Classes:          []string{"script", "ui"},
	}, cfg)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"log level", "log_level: loud\n"},
		{"log format", "log_format: xml\n"},
		{"compression", "compression_level: extreme\n"},
		{"language path", "language: ../English\n"},
		{"class", "classes: [sounds]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLanguageRoot(t *testing.T) {
	assert.Equal(t, filepath.Join("root", "German"), LanguageRoot("root", "German"))
}
