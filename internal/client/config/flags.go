package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/recoverydesk/internal/flagx"
)

// parseFlags populates Config fields from the flags this package owns. Other
// entries of os.Args are filtered out with flagx.FilterArgs.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-o", "-d", "-t", "-l", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBase, "a", cfg.APIBase, "API base URL or path")
	fs.StringVar(&cfg.Origin, "o", cfg.Origin, "origin a relative API base is joined onto")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	interval := fs.Int("i", int(cfg.SchedulerInterval.Seconds()), "scheduler interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
	if *timeout <= 0 || *interval <= 0 {
		panic(fmt.Sprintf("timeout and interval must be positive, got %d and %d", *timeout, *interval))
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.SchedulerInterval = time.Duration(*interval) * time.Second
}
