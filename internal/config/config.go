package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/testmeta/internal/version"
	"github.com/vvka-141/testmeta/pkg/testmeta"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// EnvironmentConfig describes the runtime requirements are evaluated against.
type EnvironmentConfig struct {
	Runtime    string            `yaml:"runtime"`
	Framework  string            `yaml:"framework"`
	OS         string            `yaml:"os,omitempty"`
	OSFamily   string            `yaml:"os_family,omitempty"`
	Extensions map[string]string `yaml:"extensions,omitempty"`
	Settings   map[string]string `yaml:"settings,omitempty"`
	Functions  []string          `yaml:"functions,omitempty"`
}

type ProjectConfig struct {
	Manifest     string            `yaml:"manifest"`
	SettingsFile string            `yaml:"settings_file,omitempty"`
	Environment  EnvironmentConfig `yaml:"environment"`
}

const (
	ConfigFileName  = "testmeta.yaml"
	DefaultManifest = "testmeta.manifest.yaml"
)

// Load reads testmeta.yaml from dir. Relative manifest and settings file paths
// are resolved against dir.
func Load(dir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", configPath, err, testmeta.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	cfg.resolvePaths(dir)
	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default(dir string) *ProjectConfig {
	cfg := &ProjectConfig{}
	cfg.resolvePaths(dir)
	return cfg
}

// Validate checks that configured versions can be compared.
func (c *ProjectConfig) Validate() error {
	var errs []error
	if v := c.Environment.Runtime; v != "" {
		if err := version.Validate(v); err != nil {
			errs = append(errs, fmt.Errorf("environment.runtime: %w", err))
		}
	}
	if v := c.Environment.Framework; v != "" {
		if err := version.Validate(v); err != nil {
			errs = append(errs, fmt.Errorf("environment.framework: %w", err))
		}
	}
	for name, v := range c.Environment.Extensions {
		if v == "" {
			continue
		}
		if err := version.Validate(v); err != nil {
			errs = append(errs, fmt.Errorf("environment.extensions.%s: %w", name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", testmeta.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func (c *ProjectConfig) resolvePaths(dir string) {
	if c.Manifest == "" {
		c.Manifest = DefaultManifest
	}
	if !filepath.IsAbs(c.Manifest) {
		c.Manifest = filepath.Join(dir, c.Manifest)
	}
	if c.SettingsFile != "" && !filepath.IsAbs(c.SettingsFile) {
		c.SettingsFile = filepath.Join(dir, c.SettingsFile)
	}
}
