package server

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/MeKo-Tech/unfish/internal/converter"
	_ "golang.org/x/image/bmp"
)

// convertImageHandler processes fisheye conversion requests. The image is
// uploaded as multipart form field "image"; projection parameters may be
// overridden per request via form values.
func (s *Server) convertImageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Set content length limit
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeErrorResponse(w, "No image file provided", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read image data", http.StatusInternalServerError)
		return
	}
	uploadSizeBytes.Observe(float64(len(imageData)))

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		s.writeErrorResponse(w, "Invalid image format", http.StatusBadRequest)
		return
	}

	conv, err := s.converterForRequest(r)
	if err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Invalid parameters: %v", err), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if s.timeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.timeoutSec)*time.Second)
		defer cancel()
	}

	start := time.Now()
	res, err := conv.ConvertImage(ctx, img)
	duration := time.Since(start)

	if err != nil {
		conversionsTotal.WithLabelValues("http", "error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("Conversion failed: %v", err), http.StatusBadRequest)
		return
	}

	conversionsTotal.WithLabelValues("http", "success").Inc()
	conversionDuration.WithLabelValues("http").Observe(duration.Seconds())
	conversionMapSize.WithLabelValues("http").Observe(float64(res.MapSize))

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, res.Output); err != nil {
		// Headers already sent, nothing more to do
		return
	}
}

// converterForRequest builds a converter from the server defaults overridden
// by per-request form values.
func (s *Server) converterForRequest(r *http.Request) (*converter.Converter, error) {
	opts := s.converter.Options()
	b := converter.NewBuilder().
		WithFOV(opts.FOV).
		WithPerspectiveFOV(opts.PerspectiveFOV).
		WithCameraType(string(opts.CameraType)).
		WithFormat(string(opts.Format)).
		WithOutputShape(opts.OutputWidth, opts.OutputHeight).
		WithInterpolation(string(opts.Interpolation))

	if v := r.FormValue("fov"); v != "" {
		fov, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid fov %q", v)
		}
		b = b.WithFOV(fov)
	}
	if v := r.FormValue("perspective_fov"); v != "" {
		pfov, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid perspective_fov %q", v)
		}
		b = b.WithPerspectiveFOV(pfov)
	}
	if v := r.FormValue("camera_type"); v != "" {
		b = b.WithCameraType(v)
	}
	if v := r.FormValue("format"); v != "" {
		b = b.WithFormat(v)
	}
	if v := r.FormValue("interpolation"); v != "" {
		b = b.WithInterpolation(v)
	}
	if w, h := r.FormValue("width"), r.FormValue("height"); w != "" || h != "" {
		width, err := strconv.Atoi(w)
		if err != nil {
			return nil, fmt.Errorf("invalid width %q", w)
		}
		height, err := strconv.Atoi(h)
		if err != nil {
			return nil, fmt.Errorf("invalid height %q", h)
		}
		b = b.WithOutputShape(width, height)
	}

	return b.Build()
}
