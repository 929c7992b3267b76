package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// LoadYAMLConfig reads filename and unmarshals it into cfg.
func LoadYAMLConfig(filename string, cfg interface{}) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return yaml.Unmarshal(data, cfg)
}

// InitConfig loads the config file at configPath on top of the defaults.
func InitConfig(configPath string) (*Config, error) {
	conf := DefaultConfig()
	if err := LoadYAMLConfig(configPath, conf); err != nil {
		return nil, err
	}
	return conf, nil
}
