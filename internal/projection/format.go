// Package projection computes dense per-pixel undistortion maps that convert
// a fisheye image into a rectilinear perspective image, and resamples images
// through those maps.
package projection

import (
	"errors"
	"fmt"
)

// Format describes how the usable perspective-image diameter is derived from
// the source image dimensions.
type Format string

const (
	// Circular uses the inscribed square side (the fisheye circle fills the
	// short dimension).
	Circular = Format("circular")
	// Diagonal uses the pre-crop image diagonal (the fisheye circle
	// circumscribes the frame).
	Diagonal = Format("diagonal")
)

// ErrUnsupportedFormat indicates an unrecognized fisheye format tag.
var ErrUnsupportedFormat = errors.New("unsupported fisheye format")

// Formats lists all supported fisheye formats.
var Formats = []Format{Circular, Diagonal}

// ParseFormat converts a string tag to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case Circular, Diagonal:
		return Format(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}
