// Package config loads riverwalk configuration from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"riverwalk/internal/renderer"
)

// Config holds all riverwalk configuration.
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Store    StoreConfig     `yaml:"store"`
	Renderer renderer.Config `yaml:"renderer"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// BaseURL is the address the browser reaches report pages at. Defaults
	// to the server's own listen address on loopback.
	BaseURL string `yaml:"base_url"`
}

// StoreConfig configures the survey store.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: "127.0.0.1:8090",
		},
		Store: StoreConfig{
			Path: "data/riverwalk.db",
		},
		Renderer: renderer.DefaultConfig(),
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file, falling back to defaults when
// the file does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides. Deployment
// environments set these instead of shipping a config file.
func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("RIVERWALK_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if url := os.Getenv("RIVERWALK_BASE_URL"); url != "" {
		c.Server.BaseURL = url
	}
	if path := os.Getenv("RIVERWALK_DB"); path != "" {
		c.Store.Path = path
	}
	if bin := os.Getenv("RIVERWALK_BROWSER_PATH"); bin != "" {
		c.Renderer.BrowserPath = bin
	}
	if env := os.Getenv("RIVERWALK_ENV"); env != "" {
		c.Renderer.Env = env
	}
	if level := os.Getenv("RIVERWALK_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}
