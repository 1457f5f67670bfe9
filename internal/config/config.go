package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// GeneratorConfig points at the external schedule-generation service
type GeneratorConfig struct {
	URL    string `yaml:"url" validate:"required,url"`
	APIKey string `yaml:"apiKey" validate:"required"`
}

// RulesConfig overrides the soft labour-rule defaults
type RulesConfig struct {
	MaxConsecutiveDays   int     `yaml:"maxConsecutiveDays,omitempty" validate:"omitempty,min=1"`
	FullTimeMonthlyHours float64 `yaml:"fullTimeMonthlyHours,omitempty" validate:"omitempty,gt=0"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL    string          `yaml:"databaseURL" validate:"required"`
	Generator      GeneratorConfig `yaml:"generator"`
	Rules          RulesConfig     `yaml:"rules,omitempty"`
	Holidays       []string        `yaml:"holidays,omitempty" validate:"dive,datetime=2006-01-02"`
	TradingSundays []string        `yaml:"tradingSundays,omitempty" validate:"dive,datetime=2006-01-02"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from zmiana_config.yaml.
// It looks for the config file in the current directory first, then in the
// user's home directory.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// findConfigFile searches for zmiana_config.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "zmiana_config.yaml"

	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
