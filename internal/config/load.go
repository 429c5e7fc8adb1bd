package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	yaml "go.yaml.in/yaml/v3"
)

// Load reads the optional config file, layers environment variables on top,
// applies defaults and validates the result. An empty path (or a missing
// file) means env-only operation, matching how the tool has historically been
// deployed.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			parsed, perr := parse(path, b)
			if perr != nil {
				return nil, perr
			}
			cfg = parsed
		case os.IsNotExist(err):
			// fall through to env-only
		default:
			return nil, err
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parse(path string, b []byte) (*Config, error) {
	jb, _, err := coerceToJSONBytes(path, b)
	if err != nil {
		return nil, err
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("config %s: trailing data", path)
		}
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Query.Table == "" {
		cfg.Query.Table = "risk_reviews"
	}
	if cfg.Query.PageSize <= 0 {
		cfg.Query.PageSize = 500
	}
	if cfg.Query.StatusField == "" {
		cfg.Query.StatusField = "status"
	}
	if cfg.Query.ReviewedValue == "" {
		cfg.Query.ReviewedValue = "reviewed"
	}
	if cfg.Preview.Rows <= 0 {
		cfg.Preview.Rows = 5
	}
	if cfg.Notify.Pushover.Sound == "" {
		cfg.Notify.Pushover.Sound = "siren"
	}
	if cfg.Notify.Pushover.Priority == nil {
		p := 1
		cfg.Notify.Pushover.Priority = &p
	}
	if cfg.Notify.RatePerMin <= 0 {
		cfg.Notify.RatePerMin = 30
	}
	if cfg.Notify.Email != nil && cfg.Notify.Email.Port <= 0 {
		cfg.Notify.Email.Port = 587
	}
	if cfg.Watch.Schedule == "" {
		cfg.Watch.Schedule = "@every 15m"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// coerceToJSONBytes converts YAML config to JSON bytes so we can re-use the
// strict JSON decoder (DisallowUnknownFields) for both formats.
//
// Returns (jsonBytes, format, err) where format is "json" or "yaml".
func coerceToJSONBytes(path string, data []byte) ([]byte, string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return data, "json", nil
	}

	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, "yaml", fmt.Errorf("yaml unmarshal: %w", err)
	}

	v = normalizeYAML(v)

	j, err := json.Marshal(v)
	if err != nil {
		return nil, "yaml", fmt.Errorf("yaml->json marshal: %w", err)
	}
	return j, "yaml", nil
}

// normalizeYAML ensures all map keys are strings so the result can be JSON-marshaled.
func normalizeYAML(in any) any {
	switch x := in.(type) {
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[k] = normalizeYAML(v)
		}
		return m
	case []any:
		for i := range x {
			x[i] = normalizeYAML(x[i])
		}
		return x
	default:
		return in
	}
}
