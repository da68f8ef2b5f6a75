package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the userdesk CLI.
//
// Fields:
//   - BaseURL: root of the remote users API (no trailing slash).
//   - DatabasePath: SQLite file holding the overlay and the session token.
//   - RequestTimeout: per-request timeout for remote calls.
//   - SearchConcurrency: max in-flight page fetches during a search.
//   - RequestsPerSecond: outbound rate limit; 0 disables limiting.
//   - APIKey: optional value for the x-api-key header.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	BaseURL           string
	DatabasePath      string
	RequestTimeout    time.Duration
	SearchConcurrency int
	RequestsPerSecond float64
	APIKey            string
	LogLevel          string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "https://reqres.in/api"
	c.DatabasePath = "userdesk.db"
	c.RequestTimeout = 10 * time.Second
	c.SearchConcurrency = 4
	c.RequestsPerSecond = 0
	c.APIKey = ""
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if a -c/-config file is given) and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
