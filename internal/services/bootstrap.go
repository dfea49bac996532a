package services

import (
	"fmt"

	"github.com/vvka-141/testmeta/internal/config"
	"github.com/vvka-141/testmeta/internal/environment"
	"github.com/vvka-141/testmeta/internal/manifest"
	"github.com/vvka-141/testmeta/internal/params"
	"github.com/vvka-141/testmeta/pkg/testmeta"
)

// Overrides are environment values supplied on the command line. They take
// precedence over the settings file, which takes precedence over the config.
type Overrides struct {
	SettingsFile string
	Settings     map[string]string
	Extensions   map[string]string
}

// Project is a loaded manifest together with the service answering queries about it.
type Project struct {
	Manifest    *manifest.Manifest
	Environment *environment.Static
	Service     *ResolutionService
}

// Open loads the manifest and settings named by cfg and wires a ResolutionService.
func Open(cfg *config.ProjectConfig, overrides Overrides, logger testmeta.Logger) (*Project, error) {
	if cfg == nil {
		return nil, fmt.Errorf("project config is nil: %w", testmeta.ErrInvalidConfig)
	}

	m, err := manifest.Load(cfg.Manifest, logger)
	if err != nil {
		return nil, err
	}

	settings, err := loadSettings(cfg, overrides)
	if err != nil {
		return nil, err
	}

	env := environment.FromConfig(cfg.Environment, settings, overrides.Extensions)
	logger.Verbose("environment: runtime %q, framework %q, os %s (%s), %d extensions, %d settings",
		env.RuntimeVersion(), env.FrameworkVersion(), env.OSName(), env.OSFamily(),
		len(env.ExtensionNames()), len(env.Settings))

	return &Project{
		Manifest:    m,
		Environment: env,
		Service:     NewResolutionService(m, m, m, env, logger),
	}, nil
}

func loadSettings(cfg *config.ProjectConfig, overrides Overrides) (map[string]string, error) {
	path := cfg.SettingsFile
	if overrides.SettingsFile != "" {
		path = overrides.SettingsFile
	}
	if path == "" {
		return params.Merge(overrides.Settings), nil
	}
	fromFile, err := params.ReadSettingsFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, testmeta.ErrInvalidConfig)
	}
	return params.Merge(fromFile, overrides.Settings), nil
}
