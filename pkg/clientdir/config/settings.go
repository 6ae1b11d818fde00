package config

import (
	"errors"
	"fmt"
	"time"
)

// Defaults applied by SettingsFrom when a key is absent.
const (
	DefaultDebounce       = 500 * time.Millisecond
	DefaultRetryAttempts  = 3
	DefaultInitialBackoff = 200 * time.Millisecond
	DefaultMaxBackoff     = 5 * time.Second
)

// ErrNoSource indicates the settings did not name a registration source.
var ErrNoSource = errors.New("registration source not configured")

// Settings configures how registrations are loaded and refreshed.
//
// Example YAML:
//
//	source: file:///etc/clientdir/registrations.yaml
//	watch: true
//	debounce: 1s
//	retry:
//	  attempts: 5
//	  initial_backoff: 100ms
//	  max_backoff: 10s
type Settings struct {
	// Source is a URI understood by source.Open.
	Source string
	// Watch enables reloading when the source file changes. It is acted on
	// by reload.Start; reload.FromSettings covers the other fields.
	Watch bool
	// Debounce collapses bursts of file events into one reload.
	Debounce time.Duration
	// Retry governs reloading after transient source failures.
	Retry RetrySettings
}

// RetrySettings is the retry section of Settings.
type RetrySettings struct {
	Attempts       int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// SettingsFrom extracts Settings from c, filling defaults.
func SettingsFrom(c Config) (Settings, error) {
	retry := c.Sub("retry")
	s := Settings{
		Source:   c.String("source", ""),
		Watch:    c.Bool("watch", false),
		Debounce: c.Duration("debounce", DefaultDebounce),
		Retry: RetrySettings{
			Attempts:       retry.Int("attempts", DefaultRetryAttempts),
			InitialBackoff: retry.Duration("initial_backoff", DefaultInitialBackoff),
			MaxBackoff:     retry.Duration("max_backoff", DefaultMaxBackoff),
		},
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadSettings reads Settings from a YAML, JSON or TOML file.
func LoadSettings(path string) (Settings, error) {
	c, err := FromFile(path)
	if err != nil {
		return Settings{}, err
	}
	return SettingsFrom(c)
}

// Validate reports whether the settings are usable.
func (s Settings) Validate() error {
	if s.Source == "" {
		return ErrNoSource
	}
	if s.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative: %s", s.Debounce)
	}
	if s.Retry.Attempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1: %d", s.Retry.Attempts)
	}
	if s.Retry.MaxBackoff < s.Retry.InitialBackoff {
		return fmt.Errorf("retry max_backoff %s is below initial_backoff %s",
			s.Retry.MaxBackoff, s.Retry.InitialBackoff)
	}
	return nil
}
