package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "short flag with separate value",
			args:    []string{"-a", "https://reqres.in/api", "-x", "1"},
			allowed: []string{"-a", "-t"},
			want:    []string{"-a", "https://reqres.in/api"},
		},
		{
			name:    "equals form",
			args:    []string{"-t=5", "-x", "1"},
			allowed: []string{"-a", "-t"},
			want:    []string{"-t=5"},
		},
		{
			name:    "unknown flags and positionals dropped",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-a"},
			want:    []string{},
		},
		{
			name:    "flag without value at end",
			args:    []string{"-a"},
			allowed: []string{"-a"},
			want:    []string{"-a"},
		},
		{
			name:    "next dash token is not a value",
			args:    []string{"-a", "-t", "3"},
			allowed: []string{"-a", "-t"},
			want:    []string{"-a", "-t", "3"},
		},
		{
			name:    "repeated flag preserved in order",
			args:    []string{"-s", "2", "-s", "8"},
			allowed: []string{"-s"},
			want:    []string{"-s", "2", "-s", "8"},
		},
		{
			name:    "empty args",
			args:    nil,
			allowed: []string{"-a"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigPath(t *testing.T) {
	t.Run("short -c", func(t *testing.T) {
		assert.Equal(t, "/etc/short.json", ConfigPath([]string{"-c", "/etc/short.json"}))
	})

	t.Run("long -config with other flags around", func(t *testing.T) {
		assert.Equal(t, "/etc/long.json", ConfigPath([]string{"-a", "x", "-config", "/etc/long.json", "-t", "3"}))
	})

	t.Run("absent", func(t *testing.T) {
		assert.Empty(t, ConfigPath([]string{"-a", "x"}))
	})

	t.Run("last wins", func(t *testing.T) {
		assert.Equal(t, "/2.json", ConfigPath([]string{"-c", "/1.json", "-config=/2.json"}))
	})
}
