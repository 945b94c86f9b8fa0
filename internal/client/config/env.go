package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvAPIBase           = "RECOVERY_API_BASE"
	EnvOrigin            = "RECOVERY_ORIGIN"
	EnvDatabase          = "RECOVERY_DB"
	EnvLogLevel          = "RECOVERY_LOG_LEVEL"
	EnvSchedulerUser     = "RECOVERY_SCHEDULER_USER"
	EnvSchedulerPassword = "RECOVERY_SCHEDULER_PASSWORD"
	EnvSchedulerInterval = "RECOVERY_SCHEDULER_INTERVAL"
)

// parseEnv overlays cfg with set, non-empty environment variables. An
// unparsable interval panics.
func parseEnv(cfg *Config) {
	lookup := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	lookup(EnvAPIBase, &cfg.APIBase)
	lookup(EnvOrigin, &cfg.Origin)
	lookup(EnvDatabase, &cfg.DatabasePath)
	lookup(EnvLogLevel, &cfg.LogLevel)
	lookup(EnvSchedulerUser, &cfg.SchedulerUser)
	lookup(EnvSchedulerPassword, &cfg.SchedulerPassword)

	if v, ok := os.LookupEnv(EnvSchedulerInterval); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			panic(fmt.Sprintf("%s: invalid duration %q", EnvSchedulerInterval, v))
		}
		cfg.SchedulerInterval = d
	}
}
