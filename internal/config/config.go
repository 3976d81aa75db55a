// Package config handles loading and validation of stackhook.yaml CLI
// configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config drives the stackhook CLI when exercising a CodeBuild project
// outside a stack.
type Config struct {
	ProjectName       string `yaml:"projectName"`
	Region            string `yaml:"region,omitempty"`
	ResponseURL       string `yaml:"responseUrl,omitempty"`
	BuildOnDelete     bool   `yaml:"buildOnDelete,omitempty"`
	CodeBuildCallback bool   `yaml:"codeBuildCallback,omitempty"`
	IgnoreUpdate      bool   `yaml:"ignoreUpdate,omitempty"`
}

// Load reads and parses stackhook.yaml from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, "stackhook.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.ProjectName == "" {
		return fmt.Errorf("projectName is required")
	}
	return nil
}
