package config

import (
	"fmt"
	"os"
	"time"
)

// Environment names accepted by -e.
const (
	EnvLocal      = "local"
	EnvStaging    = "staging"
	EnvProduction = "production"
)

var hosts = map[string]string{
	EnvLocal:      "http://localhost:8000",
	EnvStaging:    "https://develop.furbabyapi.net",
	EnvProduction: "https://furbabyapi.net",
}

// Config holds runtime settings for the furbaby CLI.
//
// APIBaseURL, when set, wins over the host implied by Env.
type Config struct {
	Env                  string
	APIBaseURL           string
	SessionCheckInterval time.Duration
	RequestTimeout       time.Duration
	DatabasePath         string
	LogLevel             string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Env = EnvLocal
	c.APIBaseURL = ""
	c.SessionCheckInterval = 60 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.DatabasePath = "furbaby.db"
	c.LogLevel = "warn"
}

// BaseURL returns the API root the client talks to.
func (c *Config) BaseURL() (string, error) {
	if c.APIBaseURL != "" {
		return c.APIBaseURL, nil
	}
	host, ok := hosts[c.Env]
	if !ok {
		return "", fmt.Errorf("unknown environment %q", c.Env)
	}
	return host, nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}
