package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	yaml "go.yaml.in/yaml/v3"
)

// decodeStrict decodes a JSON or YAML config document into v, rejecting
// unknown fields and trailing content. YAML is converted to JSON bytes first
// so one strict decoder covers both formats.
func decodeStrict(path string, data []byte, v any) error {
	if isYAMLPath(path) {
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("yaml unmarshal: %w", err)
		}
		j, err := json.Marshal(stringifyKeys(raw))
		if err != nil {
			return fmt.Errorf("yaml to json: %w", err)
		}
		data = j
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	// Reject trailing tokens (e.g. two concatenated documents).
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return fmt.Errorf("trailing data after config document")
		}
		return err
	}
	return nil
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// stringifyKeys rewrites map keys to strings so the YAML tree survives a
// json.Marshal round trip.
func stringifyKeys(in any) any {
	switch x := in.(type) {
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[fmt.Sprint(k)] = stringifyKeys(v)
		}
		return m
	case map[string]any:
		for k, v := range x {
			x[k] = stringifyKeys(v)
		}
		return x
	case []any:
		for i := range x {
			x[i] = stringifyKeys(x[i])
		}
		return x
	default:
		return in
	}
}
