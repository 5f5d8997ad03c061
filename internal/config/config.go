// Package config loads the two configuration surfaces of the client:
// the CUE build manifest consumed by the compilation pipeline, and the
// YAML client configuration consumed by the network client.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the conventional client configuration location.
const DefaultConfigFile = "lendclient.yaml"

// Config is the client configuration: where the node is, which
// protocol accounts this client talks to, and where local state lives.
type Config struct {
	RPCEndpoint          string `yaml:"rpc_endpoint"`
	LendingPoolAccountID string `yaml:"lending_pool_account_id,omitempty"`
	PriceOracleAccountID string `yaml:"price_oracle_account_id,omitempty"`
	UserAccountID        string `yaml:"user_account_id,omitempty"`
	StoragePath          string `yaml:"storage_path"`
}

// DefaultConfig returns the configuration used when no config file
// exists yet.
func DefaultConfig() Config {
	return Config{
		RPCEndpoint: "http://localhost:57291",
		StoragePath: ".lendclient",
	}
}

// Load reads the client configuration from path. A missing file yields
// the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.RPCEndpoint == "" {
		return Config{}, fmt.Errorf("config %s: rpc_endpoint must not be empty", path)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories
// as needed.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// StoreFile returns the SQLite store path beneath the storage
// directory.
func (c Config) StoreFile() string {
	return filepath.Join(c.StoragePath, "store.sqlite3")
}
