// Package config loads the library configuration from a YAML file and
// the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AI     AIConfig    `yaml:"ai" validate:"required"`
	Store  StoreConfig `yaml:"store" validate:"required"`
	Limits Limits      `yaml:"limits" validate:"required"`
}

type AIConfig struct {
	APIKey  string `yaml:"api_key" validate:"required,min=20"`
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
	Timeout int    `yaml:"timeout" validate:"required,min=10,max=3600"`
}

type StoreConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// Load reads the config file, fills environment overrides, applies
// defaults, and validates. The host application decides when to call
// it; nothing here prompts or writes files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configPath := getConfigPath()
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Config{Limits: DefaultLimits()}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" && cfg.AI.APIKey == "" {
		cfg.AI.APIKey = apiKey
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func getConfigPath() string {
	if path := os.Getenv("PRDTASKS_CONFIG"); path != "" {
		return path
	}
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "prd-to-tasks", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "prd-to-tasks", "config.yaml")
}

func (c *Config) applyDefaults() {
	if c.AI.Timeout == 0 {
		c.AI.Timeout = 60
	}
	if c.Store.Path == "" {
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			c.Store.Path = filepath.Join(xdgData, "prd-to-tasks", "projects.db")
		} else {
			home, _ := os.UserHomeDir()
			c.Store.Path = filepath.Join(home, ".local", "share", "prd-to-tasks", "projects.db")
		}
	}
	if c.Limits == (Limits{}) {
		c.Limits = DefaultLimits()
	}
}

// Validate checks the assembled configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	return c.Limits.Validate()
}
