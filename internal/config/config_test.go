package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibiru-systems/rvasm/internal/config"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.False(t, cfg.Assemble.Compress)
	assert.Empty(t, cfg.Assemble.IncludeDirs)
	assert.Equal(t, "a.out", cfg.Output.Path)
}

func TestLoadFrom_missingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestSaveToAndLoadFromRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rvasm.toml")

	cfg := config.DefaultConfig()
	cfg.Assemble.Compress = true
	cfg.Assemble.IncludeDirs = []string{"lib", "boards/qemu-virt"}
	cfg.Output.Path = "firmware.bin"
	cfg.Output.ListingFile = "firmware.lst"

	require.NoError(t, cfg.SaveTo(path))

	loaded, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFrom_malformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rvasm.toml")
	require.NoError(t, writeFile(path, "not = [valid toml"))

	_, err := config.LoadFrom(path)
	require.Error(t, err)
}

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o600)
}
