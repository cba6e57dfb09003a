package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvAPIURL overrides api_url when set.
const EnvAPIURL = "TESTBUILDER_API_URL"

// Store selects a local database instead of the HTTP API.
type Store struct {
	Driver string `yaml:"driver,omitempty"`
	DSN    string `yaml:"dsn,omitempty"`
}

// Config holds CLI configuration stored at ~/.testbuilder/config.
type Config struct {
	APIURL          string `yaml:"api_url,omitempty"`
	APIKey          string `yaml:"api_key,omitempty"`
	Username        string `yaml:"username,omitempty"`
	VimKeys         bool   `yaml:"vim_keys"`
	DefaultCategory int    `yaml:"default_category,omitempty"`
	DebugLog        string `yaml:"debug_log,omitempty"`
	Store           Store  `yaml:"store,omitempty"`
}

// Path returns the config file path.
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".testbuilder", "config")
}

// Load reads and parses the config file. Returns error if missing, insecure,
// or pointing at neither an API nor a local store.
func Load() (*Config, error) {
	path := Path()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config not found: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}

	if cfg.APIURL == "" && cfg.Store.Driver == "" {
		return nil, fmt.Errorf("config missing api_url or store.driver")
	}

	return &cfg, nil
}

// UsesStore reports whether the config points at a local database.
func (c *Config) UsesStore() bool {
	return c.Store.Driver != ""
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}
