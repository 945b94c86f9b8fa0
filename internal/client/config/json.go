package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/recoverydesk/internal/flagx"
	"github.com/dmitrijs2005/recoverydesk/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file.
type JsonConfig struct {
	APIBase           string         `json:"api_base"`
	Origin            string         `json:"origin"`
	DatabasePath      string         `json:"database_path"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	LogLevel          string         `json:"log_level"`
	LogFormat         string         `json:"log_format"`
	DownloadDir       string         `json:"download_dir"`
	SchedulerUser     string         `json:"scheduler_user"`
	SchedulerPassword string         `json:"scheduler_password"`
	SchedulerInterval timex.Duration `json:"scheduler_interval"`
}

// parseJson overlays cfg with the non-empty values of the JSON file named by
// flagx.ConfigFile. Read or decode errors panic.
func parseJson(cfg *Config) {
	path := flagx.ConfigFile()
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

	setString(&cfg.APIBase, jc.APIBase)
	setString(&cfg.Origin, jc.Origin)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.DownloadDir, jc.DownloadDir)
	setString(&cfg.SchedulerUser, jc.SchedulerUser)
	setString(&cfg.SchedulerPassword, jc.SchedulerPassword)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SchedulerInterval.Duration > 0 {
		cfg.SchedulerInterval = jc.SchedulerInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
