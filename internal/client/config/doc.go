// Package config loads runtime configuration for the recovery client and
// the email check scheduler.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c / -config or $RECOVERY_CONFIG.
//  3. Environment variables.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   API base: absolute URL, or a path joined onto the origin
//	-o string   origin of a relative API base
//	-d string   path of the local SQLite database
//	-t int      request timeout (seconds)
//	-l string   log level (debug, info, warn, error)
//	-i int      scheduler interval (seconds)
//
// Environment
//
//	RECOVERY_API_BASE, RECOVERY_ORIGIN, RECOVERY_DB, RECOVERY_LOG_LEVEL,
//	RECOVERY_SCHEDULER_USER, RECOVERY_SCHEDULER_PASSWORD,
//	RECOVERY_SCHEDULER_INTERVAL (a duration such as "15m")
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "30s" or integer
// nanoseconds. Absent or empty keys keep the earlier value:
//
//	{
//	  "api_base": "/api",
//	  "origin": "http://localhost:5000",
//	  "database_path": "recoverydesk.db",
//	  "request_timeout": "30s",
//	  "log_level": "info",
//	  "log_format": "json",
//	  "download_dir": "./downloads",
//	  "scheduler_user": "admin",
//	  "scheduler_password": "secret",
//	  "scheduler_interval": "15m"
//	}
package config
