// Package testutil provides helpers for generating synthetic fisheye test
// images and fixtures.
package testutil

import (
	"image"
	"image/color"
	"math"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

// FisheyeImageConfig holds configuration for generating synthetic fisheye images.
type FisheyeImageConfig struct {
	Width      int
	Height     int
	Rings      int // number of concentric rings inside the fisheye circle
	Spokes     int // number of radial spokes
	Background color.Color
	Foreground color.Color
}

// DefaultFisheyeImageConfig returns a config producing a 256x256 radial grid.
func DefaultFisheyeImageConfig() FisheyeImageConfig {
	return FisheyeImageConfig{
		Width:      256,
		Height:     256,
		Rings:      8,
		Spokes:     12,
		Background: color.White,
		Foreground: color.Black,
	}
}

// GenerateFisheyeImage creates a synthetic fisheye-like test image: a filled
// circle inscribed in the frame with concentric rings and radial spokes. The
// pattern makes remapping errors visible and gives tests structure to assert
// against.
func GenerateFisheyeImage(cfg FisheyeImageConfig) *image.NRGBA {
	img := imaging.New(cfg.Width, cfg.Height, cfg.Background)

	cx := float64(cfg.Width-1) / 2
	cy := float64(cfg.Height-1) / 2
	radius := math.Min(cx, cy)

	fg := color.NRGBAModel.Convert(cfg.Foreground).(color.NRGBA)

	for y := range cfg.Height {
		for x := range cfg.Width {
			dx := float64(x) - cx
			dy := float64(y) - cy
			r := math.Hypot(dx, dy)
			if r > radius {
				continue
			}

			// Ring bands.
			if cfg.Rings > 0 {
				band := int(r / radius * float64(cfg.Rings))
				if band%2 == 0 {
					img.SetNRGBA(x, y, fg)
					continue
				}
			}

			// Spokes.
			if cfg.Spokes > 0 && r > 1 {
				angle := math.Atan2(dy, dx) + math.Pi
				sector := int(angle / (2 * math.Pi) * float64(cfg.Spokes))
				if sector%2 == 0 {
					img.SetNRGBA(x, y, fg)
				}
			}
		}
	}

	return img
}

// WriteFisheyeImage generates a synthetic fisheye image and saves it under
// dir, returning the full path.
func WriteFisheyeImage(t *testing.T, dir, name string, cfg FisheyeImageConfig) string {
	t.Helper()

	path := filepath.Join(dir, name)
	img := GenerateFisheyeImage(cfg)
	require.NoError(t, imaging.Save(img, path))
	return path
}
