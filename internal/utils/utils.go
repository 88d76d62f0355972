package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DecodeFile reads a TOML, YAML or JSON document into v. TOML and YAML are
// normalised through JSON so that the json struct tags of the models are the
// only field mapping to maintain.
func DecodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return Decode(data, formatOf(path), v)
}

// Decode parses data in the given format ("toml", "yaml" or "json").
func Decode(data []byte, format string, v any) error {
	var doc map[string]any
	switch format {
	case "json":
		return json.Unmarshal(data, v)
	case "toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("Invalid TOML format: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("Invalid YAML format: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format %q", format)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// WriteTOMLFile encodes v as TOML using its json field names.
func WriteTOMLFile(path string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	DropNulls(doc)

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// DropNulls removes nil values in place. TOML has no null.
func DropNulls(m map[string]any) {
	for k, v := range m {
		switch val := v.(type) {
		case nil:
			delete(m, k)
		case map[string]any:
			DropNulls(val)
		case []any:
			for _, item := range val {
				if sub, ok := item.(map[string]any); ok {
					DropNulls(sub)
				}
			}
		}
	}
}

func BoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
