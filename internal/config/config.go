package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/B1shwas/Khumbaya-sub000/internal/validation"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds the application configuration
type Config struct {
	WhatsAppDataDir string `env:"WHATSAPP_DATA_DIR" envDefault:"data"`
	WhatsAppEnabled bool   `env:"WHATSAPP_ENABLED" envDefault:"true"`

	Backend  string `env:"PLANNER_BACKEND" envDefault:"json" validate:"oneof=json sqlite"`
	DataFile string `env:"PLANNER_DATA_FILE"`
	Locale   string `env:"PLANNER_LOCALE" envDefault:"en"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	WeddingDate     string `env:"WEDDING_DATE" envDefault:"Saturday, January 1, 2025"`
	WeddingLocation string `env:"WEDDING_LOCATION" envDefault:"Venue TBD"`
	BrideName       string `env:"BRIDE_NAME" envDefault:"Bride"`
	GroomName       string `env:"GROOM_NAME" envDefault:"Groom"`
}

// LoadConfig reads the given .env files (".env" when none are named), then
// parses the environment. Missing .env files are not an error.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := validation.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := language.Parse(cfg.Locale); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// DataPath is PLANNER_DATA_FILE, or a file in the data dir named after the backend
func (c *Config) DataPath() string {
	if c.DataFile != "" {
		return c.DataFile
	}
	if c.Backend == BackendSQLite {
		return filepath.Join(c.WhatsAppDataDir, "planner.db")
	}
	return filepath.Join(c.WhatsAppDataDir, "planner.json")
}

// Level returns the parsed log level, info if unparsable
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// Language returns the locale used for name sorting
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}
