// Package config loads paintboard settings from a YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where commands look for a config file when --config is not given.
const DefaultPath = "paintboard.yaml"

// EnvPrefix prefixes environment overrides, e.g. PAINTBOARD_STORE_REDIS_URL.
const EnvPrefix = "PAINTBOARD_"

// Config is the full set of runtime settings.
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	History HistoryConfig `yaml:"history" mapstructure:"history"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

type ServerConfig struct {
	Port    string `yaml:"port" mapstructure:"port"`
	Metrics bool   `yaml:"metrics" mapstructure:"metrics"`
}

type StoreConfig struct {
	// Backend is "memory" or "redis".
	Backend  string        `yaml:"backend" mapstructure:"backend"`
	RedisURL string        `yaml:"redis_url" mapstructure:"redis_url"`
	Prefix   string        `yaml:"prefix" mapstructure:"prefix"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
	LockTTL  time.Duration `yaml:"lock_ttl" mapstructure:"lock_ttl"`
}

type HistoryConfig struct {
	// RedoPolicy is "truncate" or "retain".
	RedoPolicy string `yaml:"redo_policy" mapstructure:"redo_policy"`
}

type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Server:  ServerConfig{Port: "8080", Metrics: true},
		Store:   StoreConfig{Backend: "memory", Prefix: "paintboard:board:", LockTTL: 30 * time.Second},
		History: HistoryConfig{RedoPolicy: "truncate"},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads path on top of the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := ApplyEnv(&cfg, os.Environ()); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overlays PAINTBOARD_<SECTION>_<KEY>=value entries onto cfg.
func ApplyEnv(cfg *Config, environ []string) error {
	overrides := map[string]map[string]any{}
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		section, key, ok := strings.Cut(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "_")
		if !ok {
			continue
		}
		if overrides[section] == nil {
			overrides[section] = map[string]any{}
		}
		overrides[section][key] = value
	}
	if len(overrides) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return fmt.Errorf("failed to build env decoder: %w", err)
	}
	if err := decoder.Decode(overrides); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}
	return nil
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case "memory":
	case "redis":
		if c.Store.RedisURL == "" {
			return fmt.Errorf("store.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	switch c.History.RedoPolicy {
	case "", "truncate", "retain":
	default:
		return fmt.Errorf("unknown history.redo_policy %q", c.History.RedoPolicy)
	}
	return nil
}
