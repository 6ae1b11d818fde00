/*
Package config provides type-safe configuration extraction from map[string]any
and the Settings that drive registration loading.

# Overview

Config wraps a decoded YAML, JSON or TOML document and provides typed accessor
methods that return defaults on missing keys or type mismatches. The three
decoders disagree on numeric and list types (JSON yields float64, TOML yields
int64 and []map[string]any); the accessors paper over those differences so a
registration file reads the same in any format.

# Basic Usage

	cfg, err := config.FromFile("registrations.toml")
	if err != nil {
	    log.Fatal(err)
	}

	items, ok := cfg.Slice("registrations")
	for _, item := range items {
	    alias := item.String("alias", "")
	    scopes := item.StringSlice("scopes", nil) // list or "openid profile"
	    tokenURI := item.Sub("provider").String("token_uri", "")
	}

Keys may be dotted paths into nested tables:

	attempts := cfg.Int("retry.attempts", 3)

# Settings

	s, err := config.LoadSettings("clientdir.yaml")
	// s.Source, s.Watch, s.Debounce, s.Retry

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
