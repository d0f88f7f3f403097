package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.ReferenceYear = 2024
	cfg.Log.Level = "debug"

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "extracto.db", cfg.Database)
	assert.Zero(t, cfg.ReferenceYear)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "exports", cfg.Export.Dir)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("reference_year: 2023\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2023, cfg.ReferenceYear)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "data_dir: data")
	assert.Contains(t, contents, "database: extracto.db")
	assert.Contains(t, contents, "level: info")
	assert.Contains(t, contents, "format: console")
	assert.NotContains(t, contents, "reference_year")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvDataDir, "/var/extracto")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvReferenceYear, "2022")
	t.Setenv(EnvLogFormat, "json")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(""))
	assert.Equal(t, "/var/extracto", cfg.DataDir)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 2022, cfg.ReferenceYear)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestApplyEnv_DotEnvFile(t *testing.T) {
	// Register for cleanup; godotenv does not override variables already set.
	t.Setenv(EnvReferenceYear, "")
	os.Unsetenv(EnvReferenceYear)

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(EnvReferenceYear+"=2021\n"), 0o644))

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(envFile))
	assert.Equal(t, 2021, cfg.ReferenceYear)
}

func TestApplyEnv_MissingDotEnvIgnored(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(filepath.Join(t.TempDir(), ".env")))
	assert.Equal(t, Default(), cfg)
}

func TestApplyEnv_BadYear(t *testing.T) {
	t.Setenv(EnvReferenceYear, "soon")
	cfg := Default()
	require.Error(t, cfg.ApplyEnv(""))
}

func TestPaths(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("/ws", "data"), cfg.DataPath("/ws"))
	assert.Equal(t, filepath.Join("/ws", "data", "extracto.db"), cfg.DatabasePath("/ws"))
	assert.Equal(t, filepath.Join("/ws", "exports"), cfg.ExportPath("/ws"))

	cfg.Database = "/tmp/other.db"
	assert.Equal(t, "/tmp/other.db", cfg.DatabasePath("/ws"))
}
