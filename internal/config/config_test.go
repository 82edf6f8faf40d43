package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":7040", cfg.Listen)
	assert.Equal(t, 20, cfg.DefaultRateLimit)
	assert.Equal(t, 60*time.Second, cfg.HousekeeperInterval)
}

func TestResolveWithNoPathReturnsDefault(t *testing.T) {
	os.Unsetenv("STREAMLINE_CONFIG")
	cfg, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestResolveMissingFlagPathFallsBackToDefault(t *testing.T) {
	cfg, err := Resolve(filepath.Join(t.TempDir(), "nosuchfile.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestResolvePrefersFlagOverEnv(t *testing.T) {
	dir := t.TempDir()
	flagPath := filepath.Join(dir, "flag.yaml")
	envPath := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(flagPath, []byte("listen: \":1\"\n"), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("listen: \":2\"\n"), 0o644))

	t.Setenv("STREAMLINE_CONFIG", envPath)
	cfg, err := Resolve(flagPath)
	require.NoError(t, err)
	assert.Equal(t, ":1", cfg.Listen)
}

func TestResolveFallsBackToEnvWhenFlagEmpty(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(envPath, []byte("listen: \":2\"\n"), 0o644))

	t.Setenv("STREAMLINE_CONFIG", envPath)
	cfg, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, ":2", cfg.Listen)
}

func TestLoadFileFillsInDefaultsForOmittedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_rate_limit: 5\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.DefaultRateLimit)
	assert.Equal(t, ":7040", cfg.Listen, "fields the file omits keep Default()'s value")
}

func TestLoadFileRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [this is not valid\n"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFileMissingIsAnError(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "LoadFile itself is strict; the missing-file tolerance lives in Resolve")
}
