package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/MeKo-Tech/unfish/internal/camera"
	"github.com/MeKo-Tech/unfish/internal/projection"
	"github.com/MeKo-Tech/unfish/internal/version"
)

// cameraDescriptions maps camera types to human-readable projection formulas.
var cameraDescriptions = map[camera.Type]string{
	camera.Equidistant:   "r = f*theta",
	camera.Equisolid:     "r = 2*f*sin(theta/2)",
	camera.Orthographic:  "r = f*sin(theta)",
	camera.Stereographic: "r = 2*f*tan(theta/2)",
}

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode health response", "error", err)
	}
}

// capabilitiesHandler returns the supported camera models, fisheye formats,
// and interpolation kernels.
func (s *Server) capabilitiesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cameras := make([]CameraInfo, 0, len(camera.Types))
	for _, t := range camera.Types {
		cameras = append(cameras, CameraInfo{
			Type:        string(t),
			Description: cameraDescriptions[t],
		})
	}

	formats := make([]string, 0, len(projection.Formats))
	for _, f := range projection.Formats {
		formats = append(formats, string(f))
	}

	response := CapabilitiesResponse{
		Cameras:        cameras,
		Formats:        formats,
		Interpolations: []string{string(projection.Bilinear), string(projection.Bicubic)},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode capabilities response", "error", err)
	}
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ConvertError{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		// Log error, but can't send another response
		slog.Error("Failed to write error response", "error", err)
	}
}
