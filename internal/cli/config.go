package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds CLI configuration. Values are resolved in order of
// precedence: flags, environment, config file, defaults.
type Config struct {
	ServerURL string
	Transport string
	TokenFile string
	Output    string
	Verbose   bool
}

// fileConfig is the subset of settings readable from the config file
type fileConfig struct {
	Server    string `toml:"server"`
	Transport string `toml:"transport"`
	Output    string `toml:"output"`
}

// DefaultConfig returns a Config resolved from the environment and the
// config file at ~/.gomoku/config.toml
func DefaultConfig() *Config {
	cfg := &Config{
		ServerURL: "http://localhost:8080",
		Transport: "ws",
		TokenFile: defaultConfigPath("token"),
		Output:    "text",
	}

	if fc, err := loadFileConfig(defaultConfigPath("config.toml")); err == nil {
		if fc.Server != "" {
			cfg.ServerURL = fc.Server
		}
		if fc.Transport != "" {
			cfg.Transport = fc.Transport
		}
		if fc.Output != "" {
			cfg.Output = fc.Output
		}
	}

	if v := os.Getenv("GOMOKU_SERVER"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("GOMOKU_TRANSPORT"); v != "" {
		cfg.Transport = v
	}
	if v := os.Getenv("GOMOKU_TOKEN_FILE"); v != "" {
		cfg.TokenFile = v
	}

	return cfg
}

// Validate checks the resolved settings
func (c *Config) Validate() error {
	if c.Transport != "ws" && c.Transport != "tcp" {
		return fmt.Errorf("unsupported transport %q: must be ws or tcp", c.Transport)
	}
	if c.Output != "text" && c.Output != "json" {
		return fmt.Errorf("unsupported output format %q: must be text or json", c.Output)
	}
	return nil
}

func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &fc, nil
}

func defaultConfigPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".gomoku", name)
	}
	return filepath.Join(home, ".gomoku", name)
}
