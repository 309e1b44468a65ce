// Package config reads fitz settings from the environment.
// Variables use the FITZ_ prefix, e.g. FITZ_API_URL, FITZ_SEARCH_DEBOUNCE.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix     = "FITZ"
	DefaultAPIURL = "http://localhost:8000/api"
)

type Config struct {
	APIURL      string        `envconfig:"API_URL" default:"http://localhost:8000/api"`
	Token       string        `envconfig:"TOKEN"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	SearchDebounce time.Duration `envconfig:"SEARCH_DEBOUNCE" default:"500ms"`
	SearchLimit    int           `envconfig:"SEARCH_LIMIT" default:"20"`
	SearchMinChars int           `envconfig:"SEARCH_MIN_CHARS" default:"2"`
	SearchCacheTTL time.Duration `envconfig:"SEARCH_CACHE_TTL" default:"168h"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"warn"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
	DBPath   string `envconfig:"DB_PATH"`

	DevAddr      string `envconfig:"DEV_ADDR" default:":8000"`
	DevJWTSecret string `envconfig:"DEV_JWT_SECRET" default:"fitz-dev-secret"`
}

// Load reads an optional .env file from the working directory and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid FITZ_API_URL %q", c.APIURL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("FITZ_HTTP_TIMEOUT must be > 0")
	}
	if c.SearchDebounce < 0 {
		return fmt.Errorf("FITZ_SEARCH_DEBOUNCE must be >= 0")
	}
	if c.SearchLimit <= 0 {
		return fmt.Errorf("FITZ_SEARCH_LIMIT must be > 0")
	}
	if c.SearchMinChars < 1 {
		return fmt.Errorf("FITZ_SEARCH_MIN_CHARS must be >= 1")
	}
	return nil
}

// Default is the configuration with every default applied and nothing read from the environment.
func Default() *Config {
	return &Config{
		APIURL:         DefaultAPIURL,
		HTTPTimeout:    30 * time.Second,
		SearchDebounce: 500 * time.Millisecond,
		SearchLimit:    20,
		SearchMinChars: 2,
		SearchCacheTTL: 168 * time.Hour,
		LogLevel:       "warn",
		DevAddr:        ":8000",
		DevJWTSecret:   "fitz-dev-secret",
	}
}
