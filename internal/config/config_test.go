package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig := configDirFunc
	configDirFunc = func() (string, error) { return dir, nil }
	t.Cleanup(func() { configDirFunc = orig })
	return dir
}

func TestLoadMissingFile(t *testing.T) {
	useTempConfigDir(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	useTempConfigDir(t)

	color := false
	require.NoError(t, Save(&Config{Format: "json", Color: &color}))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	require.NotNil(t, cfg.Color)
	assert.False(t, *cfg.Color)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := useTempConfigDir(t)
	path := filepath.Join(dir, configFileName)
	require.NoError(t, os.WriteFile(path, []byte("format: [unclosed"), 0600))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestSetFormat(t *testing.T) {
	useTempConfigDir(t)

	require.NoError(t, Set("format", "json"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)

	err = Set("format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestSetColor(t *testing.T) {
	useTempConfigDir(t)

	require.NoError(t, Set("color", "false"))

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg.Color)
	assert.False(t, *cfg.Color)

	require.Error(t, Set("color", "maybe"))
}

func TestSetUnknownKey(t *testing.T) {
	useTempConfigDir(t)

	err := Set("verbosity", "high")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown preference")
}

func TestUnset(t *testing.T) {
	useTempConfigDir(t)

	require.NoError(t, Set("format", "json"))
	require.NoError(t, Set("color", "true"))

	require.NoError(t, Unset("format"))
	require.NoError(t, Unset("color"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Format)
	assert.Nil(t, cfg.Color)

	require.Error(t, Unset("nope"))
}

func TestInit(t *testing.T) {
	useTempConfigDir(t)

	path, err := Init(false)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "format: text")

	// Second init without force refuses to overwrite.
	_, err = Init(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = Init(true)
	require.NoError(t, err)
}

func TestResolveFormat(t *testing.T) {
	color := true
	tests := []struct {
		name string
		cfg  *Config
		flag string
		want string
	}{
		{"flag wins", &Config{Format: "text"}, "json", "json"},
		{"config fallback", &Config{Format: "json", Color: &color}, "", "json"},
		{"default", &Config{}, "", "text"},
		{"nil config", nil, "", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.ResolveFormat(tt.flag))
		})
	}
}
