package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override. Keys follow the field
// path: SFSTATE_LOG_LEVEL, SFSTATE_STORE_DRIVER, SFSTATE_STORE_POSTGRES_HOST.
const EnvPrefix = "SFSTATE"

// Config holds all configuration of the replay tool.
type Config struct {
	LogLevel string `yaml:"log_level" split_words:"true"`

	// TimeZone is the IANA name of the server's civil time zone. Empty means
	// the local zone.
	TimeZone string `yaml:"time_zone" split_words:"true"`

	Store  StoreConfig  `yaml:"store"`
	Replay ReplayConfig `yaml:"replay"`
}

// StoreConfig selects and configures the snapshot store.
type StoreConfig struct {
	Driver     string         `yaml:"driver"` // none, postgres, sqlite
	SQLitePath string         `yaml:"sqlite_path"`
	Postgres   DatabaseConfig `yaml:"postgres"`
}

// DSN returns the connection string for the configured driver.
func (s StoreConfig) DSN() string {
	switch s.Driver {
	case "postgres":
		return s.Postgres.DSN()
	case "sqlite":
		return s.SQLitePath
	}
	return ""
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname" split_words:"true"`
	SSLMode  string `yaml:"sslmode" split_words:"true"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// ReplayConfig tunes cmd/sfreplay.
type ReplayConfig struct {
	// Concurrency is the number of capture files decoded at once.
	Concurrency int `yaml:"concurrency"`
	// StopOnError aborts a file at the first failing response instead of
	// logging it and moving on.
	StopOnError bool `yaml:"stop_on_error" split_words:"true"`
}

// Default returns the configuration with sensible defaults.
func Default() Config {
	return Config{
		LogLevel: "info",
		Store: StoreConfig{
			Driver:     "none",
			SQLitePath: "sfstate.db",
			Postgres: DatabaseConfig{
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "sfstate",
				Password: "sfstate",
				DBName:   "sfstate",
				SSLMode:  "disable",
			},
		},
		Replay: ReplayConfig{
			Concurrency: 4,
		},
	}
}

// Load reads the YAML file at path over the defaults, then loads envFile
// into the process environment and applies SFSTATE_* overrides. A missing
// config file or env file is not an error.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("applying environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	switch c.Store.Driver {
	case "none", "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid store.driver %q", c.Store.Driver)
	}
	if c.Store.Driver == "sqlite" && c.Store.SQLitePath == "" {
		return errors.New("store.sqlite_path is required for the sqlite driver")
	}
	if c.Replay.Concurrency < 1 {
		return fmt.Errorf("invalid replay.concurrency %d", c.Replay.Concurrency)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves TimeZone.
func (c Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time_zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}
