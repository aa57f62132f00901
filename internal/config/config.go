package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for tokencalc.
type Config struct {
	// CatalogPath points at a catalog directory; empty uses the built-in data.
	CatalogPath     string       `mapstructure:"catalog_path"`
	DefaultProvider string       `mapstructure:"default_provider"`
	DefaultModel    string       `mapstructure:"default_model"`
	OutputTokens    int          `mapstructure:"output_tokens"`
	TopN            int          `mapstructure:"top_n"`
	Output          string       `mapstructure:"output"`
	LogLevel        string       `mapstructure:"log_level"`
	Server          ServerConfig `mapstructure:"server"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr      string  `mapstructure:"addr"`
	RateLimit float64 `mapstructure:"rate_limit"` // requests per second, 0 disables
	Burst     int     `mapstructure:"burst"`
}

// Load reads configuration from file, environment, and defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("catalog_path", "")
	v.SetDefault("default_provider", "openai")
	v.SetDefault("default_model", "gpt-4o-mini")
	v.SetDefault("output_tokens", 0)
	v.SetDefault("top_n", 6)
	v.SetDefault("output", "table")
	v.SetDefault("log_level", "info")
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.burst", 40)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/tokencalc")
	}

	// Environment variables
	v.SetEnvPrefix("TOKENCALC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Resolve catalog path to absolute
	if cfg.CatalogPath != "" {
		path, err := expandHome(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		if !filepath.IsAbs(path) {
			path, err = filepath.Abs(path)
			if err != nil {
				return nil, fmt.Errorf("resolving catalog path: %w", err)
			}
		}
		cfg.CatalogPath = path
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Output {
	case "table", "json":
	default:
		return fmt.Errorf("invalid output %q (expected table or json)", c.Output)
	}
	if c.OutputTokens < 0 {
		return fmt.Errorf("output_tokens must be >= 0, got %d", c.OutputTokens)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be > 0, got %d", c.TopN)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must be >= 0, got %v", c.Server.RateLimit)
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/")), nil
}
