package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/clientdir/pkg/clientdir/config"
)

func TestSettingsFrom_Defaults(t *testing.T) {
	s, err := config.SettingsFrom(config.New(map[string]any{
		"source": "sqlite:///var/lib/clientdir.db",
	}))
	require.NoError(t, err)

	assert.Equal(t, "sqlite:///var/lib/clientdir.db", s.Source)
	assert.False(t, s.Watch)
	assert.Equal(t, config.DefaultDebounce, s.Debounce)
	assert.Equal(t, config.DefaultRetryAttempts, s.Retry.Attempts)
	assert.Equal(t, config.DefaultInitialBackoff, s.Retry.InitialBackoff)
	assert.Equal(t, config.DefaultMaxBackoff, s.Retry.MaxBackoff)
}

func TestSettingsFrom_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		data   map[string]any
		errMsg string
	}{
		{"no source", map[string]any{}, "not configured"},
		{"negative debounce", map[string]any{"source": "x", "debounce": "-1s"}, "debounce"},
		{"zero attempts", map[string]any{"source": "x", "retry": map[string]any{"attempts": 0}}, "attempts"},
		{
			"max below initial",
			map[string]any{"source": "x", "retry": map[string]any{"initial_backoff": "2s", "max_backoff": "1s"}},
			"max_backoff",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.SettingsFrom(config.New(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	_, err := config.SettingsFrom(config.New(nil))
	assert.ErrorIs(t, err, config.ErrNoSource)
}

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clientdir.toml")
	content := `source = "file:///etc/clientdir/registrations.yaml"
watch = true
debounce = "1s"

[retry]
attempts = 5
initial_backoff = "100ms"
max_backoff = "10s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, config.Settings{
		Source:   "file:///etc/clientdir/registrations.yaml",
		Watch:    true,
		Debounce: time.Second,
		Retry: config.RetrySettings{
			Attempts:       5,
			InitialBackoff: 100 * time.Millisecond,
			MaxBackoff:     10 * time.Second,
		},
	}, s)
}
