package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type decodeFunc func([]byte) (Config, error)

// decoders maps lower-cased file extensions to their parser.
var decoders = map[string]decodeFunc{
	".yaml": FromYAML,
	".yml":  FromYAML,
	".json": FromJSON,
	".toml": FromTOML,
}

// FromFile reads path and decodes it according to its extension
// (.yaml, .yml, .json or .toml, case-insensitive).
func FromFile(path string) (Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return Config{}, fmt.Errorf("unsupported config file extension: %q", ext)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return decode(raw)
}

func FromYAML(data []byte) (Config, error) {
	doc := map[string]any{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return New(doc), nil
}

func FromJSON(data []byte) (Config, error) {
	doc := map[string]any{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return New(doc), nil
}

// FromTOML decodes TOML. Arrays of tables arrive as []map[string]any.
func FromTOML(data []byte) (Config, error) {
	doc := map[string]any{}
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return Config{}, fmt.Errorf("parse toml: %w", err)
	}
	return New(doc), nil
}

func splitFields(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
}
