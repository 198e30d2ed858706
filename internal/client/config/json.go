package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/furbaby/internal/flagx"
	"github.com/dmitrijs2005/furbaby/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Intervals use
// timex.Duration, so "30s" and integer nanoseconds both work. Absent keys
// leave the corresponding Config field untouched.
type JsonConfig struct {
	Env                  string          `json:"env"`
	APIBaseURL           string          `json:"api_base_url"`
	SessionCheckInterval *timex.Duration `json:"session_check_interval"`
	RequestTimeout       *timex.Duration `json:"request_timeout"`
	DatabasePath         string          `json:"database_path"`
	LogLevel             string          `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config. It does
// nothing when no file is given and panics when the file cannot be read
// or parsed.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Env != "" {
		cfg.Env = jc.Env
	}
	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.SessionCheckInterval != nil {
		cfg.SessionCheckInterval = jc.SessionCheckInterval.Duration
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
