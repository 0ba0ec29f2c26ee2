package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sadopc/habitcal/internal/store"
)

// Config is read from HABITCAL_* environment variables; CLI flags may
// override individual fields afterwards.
type Config struct {
	DBPath       string `env:"HABITCAL_DB_PATH"`
	LogPath      string `env:"HABITCAL_LOG_PATH"`
	LogLevel     string `env:"HABITCAL_LOG_LEVEL" envDefault:"info"`
	QuotaBytes   int64  `env:"HABITCAL_QUOTA_BYTES" envDefault:"5242880"`
	HolidaysFile string `env:"HABITCAL_HOLIDAYS_FILE"`

	Weather Weather `envPrefix:"HABITCAL_WEATHER_"`
}

type Weather struct {
	Enabled   bool          `env:"ENABLED" envDefault:"false"`
	Latitude  float64       `env:"LATITUDE" envDefault:"-6.2088"`
	Longitude float64       `env:"LONGITUDE" envDefault:"106.8456"`
	URL       string        `env:"URL" envDefault:"https://api.open-meteo.com/v1/forecast"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

// Load parses the environment and fills in path defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) resolve() error {
	if c.DBPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("default db path: %w", err)
		}
		c.DBPath = p
	}
	if c.LogPath == "" {
		c.LogPath = DefaultLogPath(c.DBPath)
	}
	return nil
}

// DefaultLogPath puts the log next to the database.
func DefaultLogPath(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), "habitcal.log")
}

// SetDBPath points the config at another database. A log path that was
// derived from the old database moves with it.
func (c *Config) SetDBPath(p string) {
	if c.LogPath == "" || c.LogPath == DefaultLogPath(c.DBPath) {
		c.LogPath = DefaultLogPath(p)
	}
	c.DBPath = p
}
