package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// resetViper clears the global viper state between tests since the loader
// shares it with cobra flag bindings.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func writeConfigFile(t *testing.T, dir string, cfg map[string]any) string {
	t.Helper()

	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	path := filepath.Join(dir, "unfish.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoaderDefaults(t *testing.T) {
	resetViper(t)

	loader := NewLoader()
	cfg, err := loader.LoadWithoutValidation()
	require.NoError(t, err)

	defaults := DefaultConfig()
	assert.Equal(t, defaults.LogLevel, cfg.LogLevel)
	assert.InDelta(t, defaults.Projection.FOV, cfg.Projection.FOV, 1e-12)
	assert.Equal(t, defaults.Projection.CameraType, cfg.Projection.CameraType)
	assert.Equal(t, defaults.Server.Port, cfg.Server.Port)
	assert.Equal(t, defaults.Batch.Workers, cfg.Batch.Workers)
}

func TestLoadWithFile(t *testing.T) {
	resetViper(t)

	path := writeConfigFile(t, t.TempDir(), map[string]any{
		"log_level": "debug",
		"projection": map[string]any{
			"fov":           190,
			"camera_type":   "stereographic",
			"interpolation": "bilinear",
		},
		"server": map[string]any{
			"port": 9090,
		},
	})

	loader := NewLoader()
	cfg, err := loader.LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.InDelta(t, 190.0, cfg.Projection.FOV, 1e-12)
	assert.Equal(t, "stereographic", cfg.Projection.CameraType)
	assert.Equal(t, "bilinear", cfg.Projection.Interpolation)
	assert.Equal(t, 9090, cfg.Server.Port)

	// Unset keys fall back to defaults.
	assert.InDelta(t, 90.0, cfg.Projection.PerspectiveFOV, 1e-12)
	assert.Equal(t, "circular", cfg.Projection.Format)
	assert.Equal(t, path, loader.GetConfigFileUsed())
}

func TestLoadWithFileInvalidValues(t *testing.T) {
	resetViper(t)

	path := writeConfigFile(t, t.TempDir(), map[string]any{
		"projection": map[string]any{
			"camera_type": "pinhole",
		},
	})

	loader := NewLoader()
	_, err := loader.LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadWithFileMissing(t *testing.T) {
	resetViper(t)

	loader := NewLoader()
	_, err := loader.LoadWithFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoadEnvironmentOverride(t *testing.T) {
	resetViper(t)
	t.Setenv("UNFISH_PROJECTION_CAMERA_TYPE", "equisolid")
	t.Setenv("UNFISH_SERVER_PORT", "3000")

	loader := NewLoader()
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "equisolid", cfg.Projection.CameraType)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestGenerateDefaultConfigFile(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), "generated.yaml")
	require.NoError(t, GenerateDefaultConfigFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Contains(t, raw, "projection")
	assert.Contains(t, raw, "server")
}

func TestGetConfigSearchPaths(t *testing.T) {
	paths := GetConfigSearchPaths()
	assert.Contains(t, paths, ".")
	assert.Contains(t, paths, "/etc/unfish")
}
