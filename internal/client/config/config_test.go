package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "/api", c.APIBase)
	assert.Equal(t, "http://localhost:5000", c.Origin)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, 15*time.Minute, c.SchedulerInterval)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"api_base":           "/json-api",
		"origin":             "http://json.example",
		"scheduler_interval": "1m",
	})
	t.Setenv(EnvOrigin, "http://env.example")
	t.Setenv(EnvSchedulerUser, "robot")
	os.Args = []string{"cmd", "-c", path, "-a", "https://flag.example/api"}

	cfg := LoadConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, "https://flag.example/api", cfg.APIBase)
	assert.Equal(t, "http://env.example", cfg.Origin)
	assert.Equal(t, "robot", cfg.SchedulerUser)
	assert.Equal(t, time.Minute, cfg.SchedulerInterval)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}
