package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/testmeta/internal/config"
	"github.com/vvka-141/testmeta/internal/logging"
	"github.com/vvka-141/testmeta/internal/params"
	"github.com/vvka-141/testmeta/pkg/testmeta"
)

func writeProject(t *testing.T, settings string) *config.ProjectConfig {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultManifest), []byte(cartManifest), 0o644))

	cfg := config.Default(dir)
	cfg.Environment = config.EnvironmentConfig{
		Runtime:    "9.1.0",
		Framework:  "10.5.0",
		Extensions: map[string]string{"pdo": "9.1.0"},
		Settings:   map[string]string{"memory_limit": "128M", "display_errors": "Off"},
	}
	if settings != "" {
		cfg.SettingsFile = filepath.Join(dir, "settings.env")
		require.NoError(t, os.WriteFile(cfg.SettingsFile, []byte(settings), 0o644))
	}
	return cfg
}

func TestOpen(t *testing.T) {
	cfg := writeProject(t, "")

	project, err := Open(cfg, Overrides{Extensions: map[string]string{"intl": ""}}, logging.NewNullLogger())
	require.NoError(t, err)

	assert.Len(t, project.Manifest.Classes(), 3)
	missing, err := project.Service.MissingRequirements(`App\Tests\CartTest`, "testTotal")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestOpen_SettingsPrecedence(t *testing.T) {
	cfg := writeProject(t, "memory_limit=256M\nerror_reporting=E_ALL\n")

	project, err := Open(cfg, Overrides{Settings: map[string]string{"error_reporting": "0"}}, logging.NewNullLogger())
	require.NoError(t, err)

	env := project.Environment
	v, _ := env.Setting("memory_limit")
	assert.Equal(t, "256M", v, "settings file overrides config")
	v, _ = env.Setting("error_reporting")
	assert.Equal(t, "0", v, "flags override settings file")
	v, _ = env.Setting("display_errors")
	assert.Equal(t, "Off", v)
}

func TestOpen_SettingsFileOverride(t *testing.T) {
	cfg := writeProject(t, "memory_limit=256M\n")
	other := filepath.Join(t.TempDir(), "ci.env")
	require.NoError(t, os.WriteFile(other, []byte("memory_limit=1G\n"), 0o644))

	project, err := Open(cfg, Overrides{SettingsFile: other}, logging.NewNullLogger())
	require.NoError(t, err)

	v, _ := project.Environment.Setting("memory_limit")
	assert.Equal(t, "1G", v)
}

func TestOpen_MissingSettingsFile(t *testing.T) {
	cfg := writeProject(t, "")
	cfg.SettingsFile = filepath.Join(t.TempDir(), "absent.env")

	_, err := Open(cfg, Overrides{}, logging.NewNullLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, params.ErrSettingsFileNotFound)
	assert.ErrorIs(t, err, testmeta.ErrInvalidConfig)
}

func TestOpen_MissingManifest(t *testing.T) {
	cfg := config.Default(t.TempDir())

	_, err := Open(cfg, Overrides{}, logging.NewNullLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, testmeta.ErrInvalidManifest)
}

func TestOpen_NilConfig(t *testing.T) {
	_, err := Open(nil, Overrides{}, logging.NewNullLogger())
	assert.ErrorIs(t, err, testmeta.ErrInvalidConfig)
}
