package config

import (
	"strconv"
	"strings"
	"time"
)

// Config is a decoded settings document.
//
// Accessors never fail: a missing key or a value of the wrong shape yields
// the caller's default. Keys may be dotted paths ("retry.attempts") that
// descend into nested tables; a literal key containing dots wins over the
// path interpretation.
type Config struct {
	data map[string]any
}

// New wraps data. A nil map behaves as an empty document.
func New(data map[string]any) Config {
	if data == nil {
		data = map[string]any{}
	}
	return Config{data: data}
}

// get resolves key, descending through nested tables for dotted paths.
func (c Config) get(key string) (any, bool) {
	if v, ok := c.data[key]; ok {
		return v, true
	}
	head, rest, dotted := strings.Cut(key, ".")
	if !dotted {
		return nil, false
	}
	nested, ok := c.data[head].(map[string]any)
	if !ok {
		return nil, false
	}
	return Config{data: nested}.get(rest)
}

// String reads a string. Bare numbers and booleans are rendered as text,
// so an unquoted `client_id: 1234567890` reads as "1234567890". JSON numbers
// above 2^53 lose precision in decoding and should be quoted.
func (c Config) String(key, defaultVal string) string {
	v, _ := c.get(key)
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	}
	return defaultVal
}

// Duration reads a duration. Strings use time.ParseDuration syntax; bare
// numbers are seconds, as written by hand in YAML or TOML.
func (c Config) Duration(key string, defaultVal time.Duration) time.Duration {
	v, _ := c.get(key)
	switch val := v.(type) {
	case time.Duration:
		return val
	case string:
		d, err := time.ParseDuration(val)
		if err != nil {
			return defaultVal
		}
		return d
	}
	if secs, ok := asFloat(v); ok {
		return time.Duration(secs * float64(time.Second))
	}
	return defaultVal
}

func (c Config) Bool(key string, defaultVal bool) bool {
	v, _ := c.get(key)
	if b, ok := v.(bool); ok {
		return b
	}
	return defaultVal
}

// Int reads a whole number. TOML yields int64 and JSON float64; a float
// with a fractional part is rejected.
func (c Config) Int(key string, defaultVal int) int {
	v, _ := c.get(key)
	if n, ok := asInt(v); ok {
		return n
	}
	return defaultVal
}

func (c Config) Float(key string, defaultVal float64) float64 {
	v, _ := c.get(key)
	if f, ok := asFloat(v); ok {
		return f
	}
	return defaultVal
}

// StringSlice reads a list of strings. A single string is split on
// whitespace and commas, so "openid profile" and "read:user,repo" both work
// for scopes.
func (c Config) StringSlice(key string, defaultVal []string) []string {
	v, _ := c.get(key)
	switch val := v.(type) {
	case string:
		return splitFields(val)
	case []string:
		return append([]string(nil), val...)
	case []any:
		out := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return defaultVal
			}
			out[i] = s
		}
		return out
	}
	return defaultVal
}

// Map returns the table at key, or nil.
func (c Config) Map(key string) map[string]any {
	v, _ := c.get(key)
	m, _ := v.(map[string]any)
	return m
}

// Sub scopes the config to the table at key. Missing tables give an empty Config.
func (c Config) Sub(key string) Config {
	return New(c.Map(key))
}

// Slice returns the list of tables at key.
//
// YAML and JSON decode lists as []any and TOML arrays of tables as
// []map[string]any; both are accepted. ok is false when the key is absent
// or any element is not a table.
func (c Config) Slice(key string) (items []Config, ok bool) {
	v, _ := c.get(key)
	switch val := v.(type) {
	case []map[string]any:
		items = make([]Config, 0, len(val))
		for _, m := range val {
			items = append(items, New(m))
		}
		return items, true
	case []any:
		items = make([]Config, 0, len(val))
		for _, item := range val {
			m, isTable := item.(map[string]any)
			if !isTable {
				return nil, false
			}
			items = append(items, New(m))
		}
		return items, true
	}
	return nil, false
}

func (c Config) Has(key string) bool {
	_, ok := c.get(key)
	return ok
}

// Raw exposes the decoded document. Callers must not modify it.
func (c Config) Raw() map[string]any {
	return c.data
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
