package projection

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/unfish/internal/camera"
)

// Default projection parameters, mirrored by the CLI and server shells.
const (
	DefaultFOV            = 180.0
	DefaultPerspectiveFOV = 90.0
)

// Request describes one undistortion map computation. Width and Height are
// the pre-crop source image dimensions; the map itself is built on the
// center-cropped square of side min(Width, Height). OutputWidth and
// OutputHeight (both zero when unset) request a bilinear resize of the map
// away from its natural resolution.
type Request struct {
	Width          int
	Height         int
	FOV            float64 // source fisheye field of view, degrees, full angle
	PerspectiveFOV float64 // target perspective field of view, degrees, full angle
	CameraType     camera.Type
	Format         Format
	OutputWidth    int
	OutputHeight   int
}

// NewRequest returns a request with the default projection parameters for the
// given source dimensions.
func NewRequest(width, height int) Request {
	return Request{
		Width:          width,
		Height:         height,
		FOV:            DefaultFOV,
		PerspectiveFOV: DefaultPerspectiveFOV,
		CameraType:     camera.Equidistant,
		Format:         Circular,
	}
}

// Validate checks the request against the camera model domains. Out-of-domain
// inputs are rejected here instead of surfacing as NaNs in the map.
func (r Request) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: source dimensions %dx%d", camera.ErrInvalidParameter, r.Width, r.Height)
	}
	if r.FOV <= 0 || r.FOV > 360 {
		return fmt.Errorf("%w: fov %g degrees outside (0, 360]", camera.ErrInvalidParameter, r.FOV)
	}
	if r.CameraType == camera.Orthographic && r.FOV > 180 {
		return fmt.Errorf("%w: orthographic model limited to 180 degree fov, got %g",
			camera.ErrInvalidParameter, r.FOV)
	}
	if r.PerspectiveFOV <= 0 || r.PerspectiveFOV >= 180 {
		return fmt.Errorf("%w: perspective fov %g degrees outside (0, 180)",
			camera.ErrInvalidParameter, r.PerspectiveFOV)
	}
	if _, err := camera.ParseType(string(r.CameraType)); err != nil {
		return err
	}
	if _, err := ParseFormat(string(r.Format)); err != nil {
		return err
	}
	if r.OutputWidth < 0 || r.OutputHeight < 0 {
		return fmt.Errorf("%w: output shape %dx%d", camera.ErrInvalidParameter, r.OutputWidth, r.OutputHeight)
	}
	if (r.OutputWidth == 0) != (r.OutputHeight == 0) {
		return fmt.Errorf("%w: output shape must set both dimensions or neither", camera.ErrInvalidParameter)
	}
	return nil
}

// perspectiveWidth computes the usable perspective-image diameter. Diagonal
// format evaluates on the pre-crop dimensions so the corners of a
// diagonally-inscribed fisheye circle stay covered.
func (r Request) perspectiveWidth() (float64, error) {
	switch r.Format {
	case Circular:
		return float64(min(r.Width, r.Height)), nil
	case Diagonal:
		return math.Sqrt(float64(r.Width)*float64(r.Width) + float64(r.Height)*float64(r.Height)), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, r.Format)
	}
}

// perspectiveFocalLength returns the pinhole focal length covering fov
// degrees across width pixels.
func perspectiveFocalLength(fov float64, width float64) float64 {
	return width / (2 * math.Tan(radians(fov)/2))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
