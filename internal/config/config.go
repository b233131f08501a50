// Package config reads hotelrank settings from an optional .env file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/rendis/hotelrank/internal/engine/booking"
)

const (
	DefaultDestination = "New York"
	appDirName         = "hotelrank"
)

type RapidAPIConfig struct {
	Key     string
	Host    string
	BaseURL string
}

type FluentBitConfig struct {
	Enabled   bool
	Host      string
	Port      int
	TagPrefix string
	Level     string
}

type Config struct {
	RapidAPI        RapidAPIConfig
	Destination     string
	DataDir         string
	ProxyURL        string
	SkipFailedPages bool
	MaxRetries      int
	LogLevel        string
	FluentBit       FluentBitConfig
}

// Load reads envPath (or ./.env) when it exists, then the environment.
// A missing .env file is not an error.
func Load(envPath ...string) (*Config, error) {
	var err error
	if len(envPath) > 0 && envPath[0] != "" {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{
		RapidAPI: RapidAPIConfig{
			Key:     os.Getenv("RAPIDAPI_KEY"),
			Host:    getEnvAsString("RAPIDAPI_HOST", booking.DefaultAPIHost),
			BaseURL: getEnvAsString("BOOKING_BASE_URL", booking.DefaultBaseURL),
		},
		Destination: getEnvAsString("HOTELRANK_DESTINATION", DefaultDestination),
		ProxyURL:    os.Getenv("HOTELRANK_PROXY"),
		LogLevel:    getEnvAsString("LOG_LEVEL", "info"),
	}

	cfg.DataDir = os.Getenv("HOTELRANK_DATA_DIR")
	if cfg.DataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolving config dir: %w", err)
		}
		cfg.DataDir = filepath.Join(base, appDirName)
	}

	if cfg.SkipFailedPages, err = getEnvAsBool("HOTELRANK_SKIP_FAILED_PAGES", false); err != nil {
		return nil, err
	}
	if cfg.MaxRetries, err = getEnvAsInt("HOTELRANK_MAX_RETRIES", booking.DefaultMaxRetries); err != nil {
		return nil, err
	}

	if cfg.FluentBit.Enabled, err = getEnvAsBool("FLUENTBIT_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			return nil, errors.New("FLUENTBIT_HOST is required when FLUENTBIT_ENABLED is set")
		}
		if cfg.FluentBit.Port, err = getEnvAsInt("FLUENTBIT_PORT", 24224); err != nil {
			return nil, err
		}
		cfg.FluentBit.TagPrefix = getEnvAsString("FLUENTBIT_TAG_PREFIX", appDirName)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", cfg.LogLevel)
	}

	return cfg, nil
}

// Validate checks what is needed to talk to the API.
func (c *Config) Validate() error {
	if c.RapidAPI.Key == "" {
		return errors.New("RAPIDAPI_KEY is not set (export it or add it to .env)")
	}
	if strings.TrimSpace(c.Destination) == "" {
		return errors.New("destination is empty")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must be >= 0, got %d", c.MaxRetries)
	}
	return nil
}

// DBPath is the sqlite file holding the destination cache and recent list.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "hotelrank.db")
}

// EnsureDataDir creates the data directory.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	return nil
}

func getEnvAsString(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not an integer", key, value)
	}
	return n, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s=%q is not a boolean", key, value)
	}
	return b, nil
}
