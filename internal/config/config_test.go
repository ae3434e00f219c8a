package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/unfish/internal/camera"
	"github.com/MeKo-Tech/unfish/internal/projection"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Verbose)
	assert.InDelta(t, 180.0, cfg.Projection.FOV, 1e-12)
	assert.InDelta(t, 90.0, cfg.Projection.PerspectiveFOV, 1e-12)
	assert.Equal(t, "equidistant", cfg.Projection.CameraType)
	assert.Equal(t, "circular", cfg.Projection.Format)
	assert.Equal(t, "bicubic", cfg.Projection.Interpolation)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, "_perspective", cfg.Batch.Suffix)

	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantErr  bool
		contains string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:     "bad log level",
			mutate:   func(c *Config) { c.LogLevel = "trace" },
			wantErr:  true,
			contains: "invalid log level",
		},
		{
			name:     "bad output format",
			mutate:   func(c *Config) { c.Output.Format = "xml" },
			wantErr:  true,
			contains: "invalid output format",
		},
		{
			name:    "unknown camera type",
			mutate:  func(c *Config) { c.Projection.CameraType = "pinhole" },
			wantErr: true,
		},
		{
			name:    "unknown fisheye format",
			mutate:  func(c *Config) { c.Projection.Format = "panorama" },
			wantErr: true,
		},
		{
			name:    "unknown interpolation",
			mutate:  func(c *Config) { c.Projection.Interpolation = "nearest" },
			wantErr: true,
		},
		{
			name: "orthographic fov over 180",
			mutate: func(c *Config) {
				c.Projection.CameraType = "orthographic"
				c.Projection.FOV = 200
			},
			wantErr: true,
		},
		{
			name:    "perspective fov too large",
			mutate:  func(c *Config) { c.Projection.PerspectiveFOV = 180 },
			wantErr: true,
		},
		{
			name:    "half output shape",
			mutate:  func(c *Config) { c.Projection.OutputWidth = 640 },
			wantErr: true,
		},
		{
			name:     "bad port",
			mutate:   func(c *Config) { c.Server.Port = 0 },
			wantErr:  true,
			contains: "invalid server port",
		},
		{
			name:     "bad upload limit",
			mutate:   func(c *Config) { c.Server.MaxUploadMB = 0 },
			wantErr:  true,
			contains: "invalid max upload size",
		},
		{
			name: "rate limit enabled without budget",
			mutate: func(c *Config) {
				c.Server.RateLimitEnabled = true
				c.Server.RateLimitPerMin = 0
			},
			wantErr:  true,
			contains: "invalid rate limit",
		},
		{
			name:     "bad batch workers",
			mutate:   func(c *Config) { c.Batch.Workers = -1 },
			wantErr:  true,
			contains: "invalid batch workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestToConverterOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Projection.CameraType = "equisolid"
	cfg.Projection.Format = "diagonal"
	cfg.Projection.Interpolation = "bilinear"
	cfg.Projection.FOV = 190
	cfg.Projection.OutputWidth = 800
	cfg.Projection.OutputHeight = 600

	opts, err := cfg.ToConverterOptions()
	require.NoError(t, err)

	assert.Equal(t, camera.Equisolid, opts.CameraType)
	assert.Equal(t, projection.Diagonal, opts.Format)
	assert.Equal(t, projection.Bilinear, opts.Interpolation)
	assert.InDelta(t, 190.0, opts.FOV, 1e-12)
	assert.Equal(t, 800, opts.OutputWidth)
	assert.Equal(t, 600, opts.OutputHeight)
}

func TestToConverterOptionsBadTag(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Projection.CameraType = "bogus"

	_, err := cfg.ToConverterOptions()
	require.ErrorIs(t, err, camera.ErrUnsupportedCameraType)
}
