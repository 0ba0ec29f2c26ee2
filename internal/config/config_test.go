package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HABITCAL_DB_PATH", "")
	t.Setenv("HABITCAL_LOG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(5<<20), cfg.QuotaBytes)
	assert.False(t, cfg.Weather.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Weather.Timeout)
	assert.Equal(t, filepath.Join("habitcal", "habitcal.db"), filepath.Join(filepath.Base(filepath.Dir(cfg.DBPath)), filepath.Base(cfg.DBPath)))
	assert.Equal(t, filepath.Join(filepath.Dir(cfg.DBPath), "habitcal.log"), cfg.LogPath)
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HABITCAL_DB_PATH", filepath.Join(dir, "h.db"))
	t.Setenv("HABITCAL_LOG_LEVEL", "debug")
	t.Setenv("HABITCAL_QUOTA_BYTES", "1024")
	t.Setenv("HABITCAL_HOLIDAYS_FILE", "/etc/holidays.yaml")
	t.Setenv("HABITCAL_WEATHER_ENABLED", "true")
	t.Setenv("HABITCAL_WEATHER_LATITUDE", "-7.25")
	t.Setenv("HABITCAL_WEATHER_TIMEOUT", "250ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "h.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "habitcal.log"), cfg.LogPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(1024), cfg.QuotaBytes)
	assert.Equal(t, "/etc/holidays.yaml", cfg.HolidaysFile)
	assert.True(t, cfg.Weather.Enabled)
	assert.Equal(t, -7.25, cfg.Weather.Latitude)
	assert.Equal(t, 250*time.Millisecond, cfg.Weather.Timeout)
}

func TestLoadBadValue(t *testing.T) {
	t.Setenv("HABITCAL_QUOTA_BYTES", "lots")
	_, err := Load()
	assert.ErrorContains(t, err, "parse env")
}

func TestSetDBPath(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{DBPath: filepath.Join(dir, "a", "h.db")}
	cfg.LogPath = DefaultLogPath(cfg.DBPath)

	cfg.SetDBPath(filepath.Join(dir, "b", "h.db"))
	assert.Equal(t, filepath.Join(dir, "b", "h.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "b", "habitcal.log"), cfg.LogPath)

	cfg.LogPath = "/var/log/habitcal.log"
	cfg.SetDBPath(filepath.Join(dir, "c", "h.db"))
	assert.Equal(t, "/var/log/habitcal.log", cfg.LogPath, "explicit log path is kept")
}
