// Package config handles configuration loading and validation for scout.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Gateway    GatewayConfig    `yaml:"gateway"`
	Surfaces   []SurfaceConfig  `yaml:"surfaces"`
	Checkpoint CheckpointConfig `yaml:"checkpoint"`
	Personas   PersonasConfig   `yaml:"personas"`
	DataDir    string           `yaml:"-"` // set by caller, not from config file
}

// GatewayConfig configures the remote content API.
type GatewayConfig struct {
	// BaseURL of the API; defaults to the public Notion endpoint.
	BaseURL string `yaml:"base_url"`
	// Version is the API version header value.
	Version string `yaml:"version"`
	// TokenEnv names the environment variable holding the integration
	// token. The token itself never lives in the config file.
	TokenEnv string `yaml:"token_env"`
	// Timeout applies per gateway call.
	Timeout time.Duration `yaml:"timeout"`
	// PageSize for collection queries and comment listings (1-100).
	PageSize int `yaml:"page_size"`
	// PageCap bounds pagination per surface; exceeding it truncates the
	// scan rather than failing it.
	PageCap int `yaml:"page_cap"`
}

// SurfaceConfig names one remote collection to scan.
type SurfaceConfig struct {
	Key        string `yaml:"key"`
	Name       string `yaml:"name"`
	Collection string `yaml:"collection"`
}

// CheckpointConfig configures checkpoint persistence.
type CheckpointConfig struct {
	// Path to the checkpoint file; defaults to <data-dir>/checkpoint.json.
	Path string `yaml:"path"`
	// Retention caps the per-surface seen-id record.
	Retention int `yaml:"retention"`
}

// PersonasConfig configures the persona bundle.
type PersonasConfig struct {
	// Dir holds the persona markdown files; relative paths resolve
	// against the config file's directory.
	Dir string `yaml:"dir"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Gateway: GatewayConfig{
			BaseURL:  "https://api.notion.com",
			Version:  "2022-06-28",
			TokenEnv: "NOTION_TOKEN",
			Timeout:  30 * time.Second,
			PageSize: 50,
			PageCap:  200,
		},
		Checkpoint: CheckpointConfig{
			Retention: 2000,
		},
		Personas: PersonasConfig{
			Dir: "personas",
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the
// provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if cfg.Checkpoint.Path == "" {
		cfg.Checkpoint.Path = filepath.Join(dataDir, "checkpoint.json")
	}
	if cfg.Personas.Dir != "" && !filepath.IsAbs(cfg.Personas.Dir) && configPath != "" {
		cfg.Personas.Dir = filepath.Join(filepath.Dir(configPath), cfg.Personas.Dir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Gateway.BaseURL == "" {
		c.Gateway.BaseURL = defaults.Gateway.BaseURL
	}
	if c.Gateway.Version == "" {
		c.Gateway.Version = defaults.Gateway.Version
	}
	if c.Gateway.TokenEnv == "" {
		c.Gateway.TokenEnv = defaults.Gateway.TokenEnv
	}
	if c.Gateway.Timeout == 0 {
		c.Gateway.Timeout = defaults.Gateway.Timeout
	}
	if c.Gateway.PageSize == 0 {
		c.Gateway.PageSize = defaults.Gateway.PageSize
	}
	if c.Gateway.PageCap == 0 {
		c.Gateway.PageCap = defaults.Gateway.PageCap
	}
	if c.Checkpoint.Retention == 0 {
		c.Checkpoint.Retention = defaults.Checkpoint.Retention
	}
}

// Token reads the gateway token from the configured environment variable.
func (c *Config) Token() (string, error) {
	token := os.Getenv(c.Gateway.TokenEnv)
	if token == "" {
		return "", fmt.Errorf("environment variable %s is not set", c.Gateway.TokenEnv)
	}
	return token, nil
}

// Surface returns the configured surface with the given key.
func (c *Config) Surface(key string) (SurfaceConfig, bool) {
	for _, s := range c.Surfaces {
		if s.Key == key {
			return s, true
		}
	}
	return SurfaceConfig{}, false
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Gateway.TokenEnv == "" {
		return fmt.Errorf("gateway.token_env cannot be empty")
	}

	if c.Gateway.PageSize < 1 || c.Gateway.PageSize > 100 {
		return fmt.Errorf("gateway.page_size must be between 1 and 100")
	}

	if c.Gateway.PageCap < 1 {
		return fmt.Errorf("gateway.page_cap must be at least 1")
	}

	if c.Gateway.Timeout < 0 {
		return fmt.Errorf("gateway.timeout cannot be negative")
	}

	if c.Checkpoint.Retention < 1 {
		return fmt.Errorf("checkpoint.retention must be at least 1")
	}

	keys := make(map[string]bool, len(c.Surfaces))
	for i, s := range c.Surfaces {
		if s.Key == "" {
			return fmt.Errorf("surfaces[%d]: key is required", i)
		}
		if keys[s.Key] {
			return fmt.Errorf("surfaces[%d]: duplicate key %q", i, s.Key)
		}
		keys[s.Key] = true

		if s.Collection == "" {
			return fmt.Errorf("surface %q: collection id is required", s.Key)
		}
	}

	return nil
}
