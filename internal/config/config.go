package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/HaPhanBaoMinh/kusage/help"
)

// Config represents the kusage configuration
type Config struct {
	Kubectl    KubectlConfig    `yaml:"kubectl"`
	Kubernetes KubernetesConfig `yaml:"kubernetes"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
	Mock       MockConfig       `yaml:"mock"`
}

// KubectlConfig selects the metrics command binary
type KubectlConfig struct {
	Binary string `yaml:"binary"`
}

// KubernetesConfig is passed through to kubectl
type KubernetesConfig struct {
	KubeconfigPath string `yaml:"kubeconfig_path"`
	Context        string `yaml:"context"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Color    bool `yaml:"color"`
	Bars     bool `yaml:"bars"`
	BarWidth int  `yaml:"bar_width"`
}

// LoggingConfig represents the logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// MockConfig configures the offline metrics source
type MockConfig struct {
	Enabled bool  `yaml:"enabled"`
	Seed    int64 `yaml:"seed"`
}

// DefaultPath is where Load looks for a config file when none is given.
func DefaultPath() string {
	return filepath.Join(help.ConfigDir(), "config.yaml")
}

func defaults() *Config {
	return &Config{
		Kubectl: KubectlConfig{Binary: "kubectl"},
		Output:  OutputConfig{BarWidth: 20},
		Logging: LoggingConfig{Level: "warn", Format: "console"},
		Mock:    MockConfig{Seed: 1},
	}
}

// Load builds the configuration: defaults, then the YAML file (if any), then
// environment variables. An empty path falls back to DefaultPath when that
// file exists.
func Load(path string) (*Config, error) {
	cfg := defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := mergeFile(cfg, path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config from file %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// mergeFile decodes the file over cfg so unset keys keep their defaults.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Kubectl.Binary = getEnv("KUSAGE_KUBECTL", cfg.Kubectl.Binary)
	cfg.Kubernetes.KubeconfigPath = getEnv("KUSAGE_KUBECONFIG", cfg.Kubernetes.KubeconfigPath)
	cfg.Kubernetes.Context = getEnv("KUSAGE_CONTEXT", cfg.Kubernetes.Context)
	cfg.Output.Color = getEnvBool("KUSAGE_COLOR", cfg.Output.Color)
	cfg.Output.Bars = getEnvBool("KUSAGE_BARS", cfg.Output.Bars)
	cfg.Output.BarWidth = getEnvInt("KUSAGE_BAR_WIDTH", cfg.Output.BarWidth)
	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("KUSAGE_LOG_FORMAT", cfg.Logging.Format)
	cfg.Logging.File = getEnv("KUSAGE_LOG_FILE", cfg.Logging.File)
	cfg.Mock.Enabled = getEnvBool("KUSAGE_MOCK", cfg.Mock.Enabled)
	cfg.Mock.Seed = getEnvInt64("KUSAGE_MOCK_SEED", cfg.Mock.Seed)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Kubectl.Binary) == "" {
		return fmt.Errorf("kubectl binary cannot be empty")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Output.BarWidth < 0 {
		return fmt.Errorf("bar width cannot be negative: %d", c.Output.BarWidth)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}
