package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/furbaby/internal/flagx"
)

// parseFlags overlays cfg with command-line flags:
//
//	-e string   environment: local, staging or production
//	-a string   API base URL, overrides -e
//	-i int      session re-check interval (seconds)
//	-t int      request timeout (seconds)
//	-d string   path of the local sqlite database
//	-l string   log level: debug, info, warn or error
//
// It panics on malformed values.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-e", "-a", "-i", "-t", "-d", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Env, "e", cfg.Env, "API environment (local, staging, production)")
	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	interval := fs.Int("i", int(cfg.SessionCheckInterval.Seconds()), "session check interval (in seconds)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SessionCheckInterval = time.Duration(*interval) * time.Second
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
