// Package config resolves feedseed configuration from the environment, with
// an optional YAML file underneath. Environment variables always win.
//
// Resolution is deliberately lax: missing credentials stay empty and are not
// validated here. The first failure for blank credentials must come from the
// feed service itself, not from local checks.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variable names recognized by FromEnv.
const (
	EnvAPIKey    = "STREAM_API_KEY"
	EnvAPISecret = "STREAM_API_SECRET"
	EnvAppID     = "STREAM_APP_ID"
	EnvAPIURL    = "STREAM_API_URL"
)

// Config contains all feedseed settings.
type Config struct {
	// Stream holds the feed service credentials.
	Stream StreamConfig `yaml:"stream"`

	// Logging configures operational log output.
	Logging LoggingConfig `yaml:"logging"`
}

// StreamConfig identifies the application on the feed service.
type StreamConfig struct {
	// APIKey is the application's public key.
	APIKey string `yaml:"api_key"`

	// APISecret is the signing secret. Never logged.
	APISecret string `yaml:"api_secret"`

	// AppID is the application id.
	AppID string `yaml:"app_id"`

	// APIURL optionally overrides the API base location (region).
	APIURL string `yaml:"api_url,omitempty"`
}

// LoggingConfig configures log verbosity.
type LoggingConfig struct {
	// Level is "info" (default), "debug", "warn" or "error".
	Level string `yaml:"level"`
}

// FromEnv builds a Config from the process environment alone. Unset
// variables default to empty strings.
func FromEnv() *Config {
	return &Config{
		Stream: StreamConfig{
			APIKey:    os.Getenv(EnvAPIKey),
			APISecret: os.Getenv(EnvAPISecret),
			AppID:     os.Getenv(EnvAppID),
			APIURL:    os.Getenv(EnvAPIURL),
		},
	}
}

// Load reads the YAML file at path and overlays the environment on top of
// it. A missing file is not an error; the environment alone is used.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Fine: file-based config is optional.
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	env := FromEnv()
	if env.Stream.APIKey != "" {
		cfg.Stream.APIKey = env.Stream.APIKey
	}
	if env.Stream.APISecret != "" {
		cfg.Stream.APISecret = env.Stream.APISecret
	}
	if env.Stream.AppID != "" {
		cfg.Stream.AppID = env.Stream.AppID
	}
	if env.Stream.APIURL != "" {
		cfg.Stream.APIURL = env.Stream.APIURL
	}
	return cfg, nil
}
