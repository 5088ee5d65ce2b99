package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type ConsoleConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFile     string `yaml:"log_file"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// LoadConfig reads a configuration file from the given path and unmarshals it
// into a ConsoleConfig struct.
func LoadConfig(path string) (*ConsoleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg ConsoleConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.LogFile == "" {
		cfg.LogFile = "console.log"
	}
	return &cfg, nil
}
