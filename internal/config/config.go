package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	JWT struct {
		Key             string `yaml:"key"`
		Issuer          string `yaml:"issuer"`
		Audience        string `yaml:"audience"`
		Subject         string `yaml:"subject"`
		LifetimeMinutes int    `yaml:"lifetime_minutes"`
	} `yaml:"jwt"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
}

// TokenLifetime returns the configured token lifetime, defaulting to 60
// minutes when the config omits it.
func (c *Config) TokenLifetime() time.Duration {
	if c.JWT.LifetimeMinutes <= 0 {
		return 60 * time.Minute
	}
	return time.Duration(c.JWT.LifetimeMinutes) * time.Minute
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if config.JWT.Key == "" {
		return nil, fmt.Errorf("jwt signing key must not be empty")
	}

	return config, nil
}
