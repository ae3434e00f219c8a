// Package server provides the HTTP API for fisheye-to-perspective conversion.
package server

import (
	"context"
	"image"
	"net/http"

	"github.com/MeKo-Tech/unfish/internal/converter"
)

// converterInterface defines the methods the server needs from a converter.
type converterInterface interface {
	ConvertImage(ctx context.Context, img image.Image) (*converter.Result, error)
	Options() converter.Options
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	converter   converterInterface
	corsOrigin  string
	maxUploadMB int64
	timeoutSec  int
	rateLimiter *RateLimiter
}

// Config holds server configuration.
type Config struct {
	Host            string
	Port            int
	CORSOrigin      string
	MaxUploadMB     int64
	TimeoutSec      int
	Options         converter.Options
	RateLimitPerMin int // 0 disables rate limiting
}

// Response types for API endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// CameraInfo describes one supported fisheye camera model.
type CameraInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// CapabilitiesResponse lists the supported projection parameters.
type CapabilitiesResponse struct {
	Cameras        []CameraInfo `json:"cameras"`
	Formats        []string     `json:"formats"`
	Interpolations []string     `json:"interpolations"`
}

// ConvertError is the JSON error body for failed conversion requests.
type ConvertError struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// NewServer creates a new conversion server instance.
func NewServer(config Config) (*Server, error) {
	conv, err := converter.NewBuilder().
		WithFOV(config.Options.FOV).
		WithPerspectiveFOV(config.Options.PerspectiveFOV).
		WithCameraType(string(config.Options.CameraType)).
		WithFormat(string(config.Options.Format)).
		WithOutputShape(config.Options.OutputWidth, config.Options.OutputHeight).
		WithInterpolation(string(config.Options.Interpolation)).
		Build()
	if err != nil {
		return nil, err
	}

	s := &Server{
		converter:   conv,
		corsOrigin:  config.CORSOrigin,
		maxUploadMB: config.MaxUploadMB,
		timeoutSec:  config.TimeoutSec,
	}
	if config.RateLimitPerMin > 0 {
		s.rateLimiter = NewRateLimiter(config.RateLimitPerMin)
	}
	return s, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/capabilities", s.corsMiddleware(s.capabilitiesHandler))
	mux.HandleFunc("/convert", s.corsMiddleware(s.rateLimitMiddleware(s.convertImageHandler)))
	mux.HandleFunc("/ws/convert", s.convertWebSocketHandler)
	mux.Handle("/metrics", metricsHandler())
}
