package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/userdesk/internal/flagx"
)

var knownFlags = []string{"-a", "-d", "-t", "-s", "-r", "-k", "-l"}

// parseFlags populates Config fields from command-line flags. Only the flags
// in knownFlags are considered; everything else in args is ignored.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("userdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the users API")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local SQLite store")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.IntVar(&cfg.SearchConcurrency, "s", cfg.SearchConcurrency, "search fan-out concurrency")
	fs.Float64Var(&cfg.RequestsPerSecond, "r", cfg.RequestsPerSecond, "outbound requests per second (0 = unlimited)")
	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "API key sent as x-api-key")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return err
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
