// Package config loads daybook settings. Sources are applied in order, each
// overriding the last: built-in defaults, the YAML file (with ${VAR}
// expansion after .env files are loaded), then DAYBOOK_* environment
// variables. Command-line flags are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/daybook/internal/constants"
)

const EnvPrefix = "DAYBOOK_"

// Validator is implemented by config sections that can check themselves.
type Validator interface {
	Validate() error
}

type Config struct {
	Store     StoreConfig     `yaml:"store" envPrefix:"STORE_"`
	Analytics AnalyticsConfig `yaml:"analytics" envPrefix:"ANALYTICS_"`
	User      UserConfig      `yaml:"user" envPrefix:"USER_"`
	Log       LogConfig       `yaml:"log" envPrefix:"LOG_"`
}

// StoreConfig locates the record store. A .json path selects the JSON
// backend, anything else SQLite.
type StoreConfig struct {
	Path string `yaml:"path" env:"PATH"`
}

func (c *StoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

type AnalyticsConfig struct {
	// Window is the default trailing window in days.
	Window int `yaml:"window" env:"WINDOW"`
	// Timezone decides which calendar day "today" is. Empty means local.
	Timezone string `yaml:"timezone" env:"TIMEZONE"`
}

func (c *AnalyticsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Window, validation.Required,
			validation.In(constants.WindowWeek, constants.WindowFortnight, constants.WindowMonth).
				Error("must be 7, 14 or 30")),
		validation.Field(&c.Timezone, validation.By(func(any) error {
			_, err := c.Location()
			return err
		})),
	)
}

// Location resolves Timezone.
func (c *AnalyticsConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Now returns the current time in the configured timezone.
func (c *AnalyticsConfig) Now() time.Time {
	loc, err := c.Location()
	if err != nil {
		return time.Now()
	}
	return time.Now().In(loc)
}

// UserConfig picks the user when nobody is logged in.
type UserConfig struct {
	DefaultID int64 `yaml:"default_id" env:"DEFAULT_ID"`
}

func (c *UserConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DefaultID, validation.Min(int64(0))),
	)
}

type LogConfig struct {
	Debug bool `yaml:"debug" env:"DEBUG"`
}

func (c *Config) Validate() error {
	for _, section := range []Validator{&c.Store, &c.Analytics, &c.User} {
		if err := section.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Dir is the directory holding the store, logs and backups.
func (c *Config) Dir() string {
	return filepath.Dir(c.Store.Path)
}

func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path: ExpandHome(constants.DefaultStorePath),
		},
		Analytics: AnalyticsConfig{
			Window: constants.WindowWeek,
		},
		User: UserConfig{
			DefaultID: constants.DefaultUserID,
		},
	}
}

// Load builds the configuration from filename. A missing file is only an
// error when required is set; otherwise defaults and environment apply.
func Load(filename string, required bool) (*Config, error) {
	cfg := NewDefaultConfig()
	filename = ExpandHome(filename)

	if err := loadDotEnv(filepath.Join(filepath.Dir(filename), ".env"), ".env"); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", filename, err)
		}
	case errors.Is(err, os.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}

	cfg.Store.Path = ExpandHome(cfg.Store.Path)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadDotEnv loads the .env files that exist. Variables already set in the
// environment are left alone.
func loadDotEnv(paths ...string) error {
	var existing []string
	seen := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil || seen[abs] {
			continue
		}
		seen[abs] = true
		if _, err := os.Stat(abs); err == nil {
			existing = append(existing, abs)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Write saves cfg as YAML, creating the directory if needed.
func Write(filename string, cfg *Config) error {
	filename = ExpandHome(filename)
	if err := os.MkdirAll(filepath.Dir(filename), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(filename, data, 0600)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
