package cli

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/testmeta/internal/config"
	"github.com/vvka-141/testmeta/internal/logging"
	"github.com/vvka-141/testmeta/internal/params"
	"github.com/vvka-141/testmeta/internal/services"
	"github.com/vvka-141/testmeta/pkg/testmeta"
)

// loadProjectConfig loads godotenv and project configuration.
// A missing testmeta.yaml yields the default configuration.
func loadProjectConfig(dir string) (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(dir)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return config.Default(dir), nil
		}
		return nil, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}
	return cfg, nil
}

// overridesFromFlags collects the environment overrides given on the command line.
func overridesFromFlags(cmd *cobra.Command) (services.Overrides, error) {
	flags := cmd.Flags()
	settingPairs, _ := flags.GetStringArray("setting")
	extensionSpecs, _ := flags.GetStringArray("extension")
	settingsFile, _ := flags.GetString("settings-file")

	settings, err := params.ParseKeyValuePairs(settingPairs)
	if err != nil {
		return services.Overrides{}, fmt.Errorf("--setting: %v: %w", err, testmeta.ErrInvalidConfig)
	}
	extensions, err := params.ParseExtensions(extensionSpecs)
	if err != nil {
		return services.Overrides{}, fmt.Errorf("--extension: %v: %w", err, testmeta.ErrInvalidConfig)
	}
	return services.Overrides{SettingsFile: settingsFile, Settings: settings, Extensions: extensions}, nil
}

// openProject loads configuration and manifest and wires the resolution service.
func openProject(cmd *cobra.Command) (*services.Project, error) {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	dir, _ := cmd.Flags().GetString("dir")
	cfg, err := loadProjectConfig(dir)
	if err != nil {
		return nil, err
	}
	logger.Verbose("project directory: %s", dir)
	logger.Verbose("manifest: %s", cfg.Manifest)

	overrides, err := overridesFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	return services.Open(cfg, overrides, logger)
}
