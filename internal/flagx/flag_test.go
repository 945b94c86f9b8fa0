package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		owned []string
		want  []string
	}{
		{
			name:  "separate value",
			args:  []string{"-a", "http://backend/api", "-d", "x.db"},
			owned: []string{"-a"},
			want:  []string{"-a", "http://backend/api"},
		},
		{
			name:  "equals form",
			args:  []string{"-t=30", "-a", "x"},
			owned: []string{"-t"},
			want:  []string{"-t=30"},
		},
		{
			name:  "unknown flags and positionals dropped",
			args:  []string{"-x", "1", "--y=2", "positional"},
			owned: []string{"-c"},
			want:  []string{},
		},
		{
			name:  "trailing flag without value kept",
			args:  []string{"-c"},
			owned: []string{"-c"},
			want:  []string{"-c"},
		},
		{
			name:  "dash token is not consumed as value",
			args:  []string{"-c", "-l", "debug"},
			owned: []string{"-c"},
			want:  []string{"-c"},
		},
		{
			name:  "order preserved across owned flags",
			args:  []string{"-o", "http://h", "-z", "-a", "/api"},
			owned: []string{"-a", "-o"},
			want:  []string{"-o", "http://h", "-a", "/api"},
		},
		{
			name:  "empty",
			args:  nil,
			owned: []string{"-a"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.owned))
		})
	}
}

func TestConfigFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short flag", func(t *testing.T) {
		os.Args = []string{"bin", "-c", "/etc/short.json"}
		assert.Equal(t, "/etc/short.json", ConfigFile())
	})

	t.Run("long flag, last wins", func(t *testing.T) {
		os.Args = []string{"bin", "-c", "/etc/1.json", "-config", "/etc/2.json"}
		assert.Equal(t, "/etc/2.json", ConfigFile())
	})

	t.Run("env fallback", func(t *testing.T) {
		os.Args = []string{"bin", "-a", "/api"}
		t.Setenv(ConfigEnv, "/etc/env.json")
		assert.Equal(t, "/etc/env.json", ConfigFile())
	})

	t.Run("flag beats env", func(t *testing.T) {
		os.Args = []string{"bin", "-config=/etc/flag.json"}
		t.Setenv(ConfigEnv, "/etc/env.json")
		assert.Equal(t, "/etc/flag.json", ConfigFile())
	})

	t.Run("nothing", func(t *testing.T) {
		os.Args = []string{"bin"}
		t.Setenv(ConfigEnv, "")
		assert.Empty(t, ConfigFile())
	})
}
