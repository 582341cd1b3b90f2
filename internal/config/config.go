// Package config models taskdash.yml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr      string `yaml:"addr"`
		BasePath  string `yaml:"base_path"`
		JWTSecret string `yaml:"jwt_secret"`
		TokenTTL  string `yaml:"token_ttl"`
		Store     string `yaml:"store"`
		Workspace string `yaml:"workspace"`
		Seed      bool   `yaml:"seed"`
	} `yaml:"server"`
	Client struct {
		ServerURL string `yaml:"server_url"`
		Timeout   string `yaml:"timeout"`
	} `yaml:"client"`
	UI struct {
		PageSize int `yaml:"page_size"`
	} `yaml:"ui"`
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "taskdash.yml")
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	cfg.Server.Addr = "127.0.0.1:8080"
	cfg.Server.BasePath = "/api"
	cfg.Server.Store = "memory"
	cfg.Server.Workspace = "."
	cfg.Client.ServerURL = "http://127.0.0.1:8080"
	cfg.Client.Timeout = "10s"
	cfg.UI.PageSize = 10
	return &cfg
}

// Load reads taskdash.yml from the workspace, falling back to defaults
// when the file is absent.
func Load(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// FromYAML parses and validates config from raw YAML bytes. Omitted
// fields keep their defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("config.server.addr is required")
	}
	switch c.Server.Store {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("config.server.store must be 'memory' or 'sqlite'")
	}
	if c.Server.TokenTTL != "" {
		if _, err := time.ParseDuration(c.Server.TokenTTL); err != nil {
			return fmt.Errorf("config.server.token_ttl: %w", err)
		}
	}
	if c.Client.Timeout != "" {
		if _, err := time.ParseDuration(c.Client.Timeout); err != nil {
			return fmt.Errorf("config.client.timeout: %w", err)
		}
	}
	if c.UI.PageSize < 1 {
		return fmt.Errorf("config.ui.page_size must be positive")
	}
	return nil
}

// TokenTTL returns the parsed token lifetime, zero when unset.
func (c *Config) TokenTTL() time.Duration {
	d, _ := time.ParseDuration(c.Server.TokenTTL)
	return d
}

// ClientTimeout returns the parsed client timeout, zero when unset.
func (c *Config) ClientTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Client.Timeout)
	return d
}
