// Package commands wires the scout CLI commands.
package commands

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/colonyops/scout/internal/core/config"
	"github.com/colonyops/scout/internal/core/scan"
	"github.com/colonyops/scout/internal/gateway/notion"
	"github.com/colonyops/scout/internal/store/jsonfile"
)

// Flags holds global flag values and state shared across commands.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// Gateway builds a Notion client from the loaded config. It fails when the
// token environment variable is unset.
func (f *Flags) Gateway() (*notion.Client, error) {
	token, err := f.Config.Token()
	if err != nil {
		return nil, err
	}

	return notion.NewClient(token, notion.ClientOptions{
		BaseURL: f.Config.Gateway.BaseURL,
		Version: f.Config.Gateway.Version,
		HTTPClient: &http.Client{
			Timeout: f.Config.Gateway.Timeout,
		},
	}), nil
}

// CheckpointStore builds the checkpoint store from the loaded config.
func (f *Flags) CheckpointStore() *jsonfile.CheckpointStore {
	return jsonfile.NewCheckpointStore(f.Config.Checkpoint.Path)
}

// Surfaces converts the configured surfaces into scan inputs, optionally
// filtered to the given keys.
func (f *Flags) Surfaces(only []string) ([]scan.Surface, error) {
	var surfaces []scan.Surface

	if len(only) == 0 {
		for _, s := range f.Config.Surfaces {
			surfaces = append(surfaces, scan.Surface{Key: s.Key, Name: s.Name, CollectionID: s.Collection})
		}
		return surfaces, nil
	}

	picked := make(map[string]bool, len(only))
	for _, key := range only {
		if picked[key] {
			continue
		}
		picked[key] = true

		s, ok := f.Config.Surface(key)
		if !ok {
			return nil, fmt.Errorf("unknown surface %q", key)
		}
		surfaces = append(surfaces, scan.Surface{Key: s.Key, Name: s.Name, CollectionID: s.Collection})
	}

	return surfaces, nil
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "scout", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "scout")
}
