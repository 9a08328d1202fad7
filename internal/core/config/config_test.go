package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_defaults_when_no_file(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load("", dataDir)
	require.NoError(t, err)

	assert.Equal(t, "https://api.notion.com", cfg.Gateway.BaseURL)
	assert.Equal(t, "NOTION_TOKEN", cfg.Gateway.TokenEnv)
	assert.Equal(t, 30*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, 50, cfg.Gateway.PageSize)
	assert.Equal(t, 200, cfg.Gateway.PageCap)
	assert.Equal(t, 2000, cfg.Checkpoint.Retention)
	assert.Equal(t, filepath.Join(dataDir, "checkpoint.json"), cfg.Checkpoint.Path)
}

func TestLoad_reads_file_and_applies_defaults(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := `
gateway:
  token_env: MY_TOKEN
  page_size: 25
surfaces:
  - key: tasks
    name: Tasks
    collection: 0123456789abcdef0123456789abcdef
checkpoint:
  path: /tmp/scout-checkpoint.json
personas:
  dir: my-personas
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	cfg, err := Load(configPath, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "MY_TOKEN", cfg.Gateway.TokenEnv)
	assert.Equal(t, 25, cfg.Gateway.PageSize)
	// Unset fields keep their defaults.
	assert.Equal(t, "https://api.notion.com", cfg.Gateway.BaseURL)
	assert.Equal(t, 200, cfg.Gateway.PageCap)

	assert.Equal(t, "/tmp/scout-checkpoint.json", cfg.Checkpoint.Path)
	// Relative personas dir resolves against the config file.
	assert.Equal(t, filepath.Join(dir, "my-personas"), cfg.Personas.Dir)

	require.Len(t, cfg.Surfaces, 1)
	s, ok := cfg.Surface("tasks")
	require.True(t, ok)
	assert.Equal(t, "Tasks", s.Name)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		cfg := DefaultConfig()
		cfg.DataDir = "/tmp/data"
		cfg.Surfaces = []SurfaceConfig{
			{Key: "tasks", Name: "Tasks", Collection: "abc"},
		}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing data dir",
			mutate:  func(c *Config) { c.DataDir = "" },
			wantErr: "data directory",
		},
		{
			name:    "missing token env",
			mutate:  func(c *Config) { c.Gateway.TokenEnv = "" },
			wantErr: "token_env",
		},
		{
			name:    "page size too large",
			mutate:  func(c *Config) { c.Gateway.PageSize = 500 },
			wantErr: "page_size",
		},
		{
			name:    "page size too small",
			mutate:  func(c *Config) { c.Gateway.PageSize = -1 },
			wantErr: "page_size",
		},
		{
			name:    "missing surface key",
			mutate:  func(c *Config) { c.Surfaces[0].Key = "" },
			wantErr: "key is required",
		},
		{
			name: "duplicate surface key",
			mutate: func(c *Config) {
				c.Surfaces = append(c.Surfaces, SurfaceConfig{Key: "tasks", Collection: "def"})
			},
			wantErr: "duplicate key",
		},
		{
			name:    "missing collection id",
			mutate:  func(c *Config) { c.Surfaces[0].Collection = "" },
			wantErr: "collection id is required",
		},
		{
			name:    "zero retention",
			mutate:  func(c *Config) { c.Checkpoint.Retention = -5 },
			wantErr: "retention",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestToken(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gateway.TokenEnv = "SCOUT_TEST_TOKEN"

	_, err := cfg.Token()
	assert.ErrorContains(t, err, "SCOUT_TEST_TOKEN")

	t.Setenv("SCOUT_TEST_TOKEN", "sekrit")
	token, err := cfg.Token()
	require.NoError(t, err)
	assert.Equal(t, "sekrit", token)
}

func TestLoad_invalid_yaml(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(":\tnot yaml"), 0o644))

	_, err := Load(configPath, t.TempDir())
	assert.ErrorContains(t, err, "parse config file")
}
