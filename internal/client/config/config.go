package config

import "time"

// Config holds runtime settings shared by the interactive client and the
// email check scheduler.
//
// Units: RequestTimeout and SchedulerInterval are time.Duration values.
type Config struct {
	APIBase        string
	Origin         string
	DatabasePath   string
	RequestTimeout time.Duration
	LogLevel       string
	LogFormat      string
	DownloadDir    string

	SchedulerUser     string
	SchedulerPassword string
	SchedulerInterval time.Duration
}

// LoadDefaults populates c with the built-in defaults.
func (c *Config) LoadDefaults() {
	c.APIBase = "/api"
	c.Origin = "http://localhost:5000"
	c.DatabasePath = "recoverydesk.db"
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.DownloadDir = "."
	c.SchedulerInterval = 15 * time.Minute
}

// LoadConfig applies defaults, then the JSON file, the environment and the
// command-line flags. Later sources take precedence. Malformed input panics.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
