// Package config loads and validates the unfish application configuration
// from files, environment variables, and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/unfish/internal/camera"
	"github.com/MeKo-Tech/unfish/internal/converter"
	"github.com/MeKo-Tech/unfish/internal/projection"
)

// Config represents the complete configuration for the unfish application.
// It includes settings for all commands (convert, batch, serve) and supports
// loading from configuration files, environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Projection parameters
	Projection ProjectionConfig `mapstructure:"projection" yaml:"projection" json:"projection"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Batch processing configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`
}

// ProjectionConfig contains fisheye-to-perspective projection settings.
type ProjectionConfig struct {
	FOV            float64 `mapstructure:"fov" yaml:"fov" json:"fov"`
	PerspectiveFOV float64 `mapstructure:"perspective_fov" yaml:"perspective_fov" json:"perspective_fov"`
	CameraType     string  `mapstructure:"camera_type" yaml:"camera_type" json:"camera_type"`
	Format         string  `mapstructure:"format" yaml:"format" json:"format"`
	OutputWidth    int     `mapstructure:"output_width" yaml:"output_width" json:"output_width"`
	OutputHeight   int     `mapstructure:"output_height" yaml:"output_height" json:"output_height"`
	Interpolation  string  `mapstructure:"interpolation" yaml:"interpolation" json:"interpolation"`
}

// OutputConfig contains output handling settings.
type OutputConfig struct {
	Format    string `mapstructure:"format" yaml:"format" json:"format"`
	File      string `mapstructure:"file" yaml:"file" json:"file"`
	Overwrite bool   `mapstructure:"overwrite" yaml:"overwrite" json:"overwrite"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`

	// Rate limiting
	RateLimitEnabled bool `mapstructure:"rate_limit_enabled" yaml:"rate_limit_enabled" json:"rate_limit_enabled"`
	RateLimitPerMin  int  `mapstructure:"rate_limit_per_min" yaml:"rate_limit_per_min" json:"rate_limit_per_min"`
}

// BatchConfig contains batch processing settings.
type BatchConfig struct {
	Workers         int    `mapstructure:"workers" yaml:"workers" json:"workers"`
	OutputDir       string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
	Suffix          string `mapstructure:"suffix" yaml:"suffix" json:"suffix"`
	ContinueOnError bool   `mapstructure:"continue_on_error" yaml:"continue_on_error" json:"continue_on_error"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	opts := converter.DefaultOptions()
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Projection: ProjectionConfig{
			FOV:            opts.FOV,
			PerspectiveFOV: opts.PerspectiveFOV,
			CameraType:     string(opts.CameraType),
			Format:         string(opts.Format),
			Interpolation:  string(opts.Interpolation),
		},
		Output: OutputConfig{
			Format: "text",
		},
		Server: ServerConfig{
			Host:             "localhost",
			Port:             8080,
			CORSOrigin:       "*",
			MaxUploadMB:      50,
			TimeoutSec:       30,
			ShutdownTimeout:  10,
			RateLimitEnabled: false,
			RateLimitPerMin:  60,
		},
		Batch: BatchConfig{
			Workers:         4,
			Suffix:          "_perspective",
			ContinueOnError: false,
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	validFormats := []string{"text", "json"}
	if c.Output.Format != "" && !contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}

	if err := c.validateProjection(); err != nil {
		return err
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid max upload size: %d (must be positive)", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("invalid timeout: %d (must be positive)", c.Server.TimeoutSec)
	}
	if c.Server.RateLimitEnabled && c.Server.RateLimitPerMin <= 0 {
		return fmt.Errorf("invalid rate limit: %d (must be positive)", c.Server.RateLimitPerMin)
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("invalid batch workers: %d (must be positive)", c.Batch.Workers)
	}

	return nil
}

// validateProjection checks the projection parameters without needing an
// image, so invalid config fails at startup rather than on first conversion.
func (c *Config) validateProjection() error {
	camType, err := camera.ParseType(c.Projection.CameraType)
	if err != nil {
		return err
	}
	format, err := projection.ParseFormat(c.Projection.Format)
	if err != nil {
		return err
	}
	if _, err := projection.ParseInterpolation(c.Projection.Interpolation); err != nil {
		return err
	}

	// Piggyback on request validation with placeholder source dimensions.
	req := projection.Request{
		Width:          1,
		Height:         1,
		FOV:            c.Projection.FOV,
		PerspectiveFOV: c.Projection.PerspectiveFOV,
		CameraType:     camType,
		Format:         format,
		OutputWidth:    c.Projection.OutputWidth,
		OutputHeight:   c.Projection.OutputHeight,
	}
	return req.Validate()
}

// ToConverterOptions converts the projection configuration to converter options.
func (c *Config) ToConverterOptions() (converter.Options, error) {
	camType, err := camera.ParseType(c.Projection.CameraType)
	if err != nil {
		return converter.Options{}, err
	}
	format, err := projection.ParseFormat(c.Projection.Format)
	if err != nil {
		return converter.Options{}, err
	}
	interp, err := projection.ParseInterpolation(c.Projection.Interpolation)
	if err != nil {
		return converter.Options{}, err
	}

	return converter.Options{
		FOV:            c.Projection.FOV,
		PerspectiveFOV: c.Projection.PerspectiveFOV,
		CameraType:     camType,
		Format:         format,
		OutputWidth:    c.Projection.OutputWidth,
		OutputHeight:   c.Projection.OutputHeight,
		Interpolation:  interp,
	}, nil
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
