package camera

import (
	"fmt"
	"math"
)

// New constructs a camera model of the given type. The focal length must be
// positive; degenerate models are rejected here rather than producing NaNs
// downstream.
func New(t Type, focalLength float64) (Model, error) {
	if focalLength <= 0 {
		return nil, fmt.Errorf("%w: focal length must be positive, got %g", ErrInvalidParameter, focalLength)
	}
	switch t {
	case Equidistant:
		return equidistant{f: focalLength}, nil
	case Equisolid:
		return equisolid{f: focalLength}, nil
	case Orthographic:
		return orthographic{f: focalLength}, nil
	case Stereographic:
		return stereographic{f: focalLength}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCameraType, t)
	}
}

// FocalLengthFromExtremes derives the focal length that makes the model map
// thetaMax exactly to rMax. This calibrates a fisheye model so the half field
// of view lands on the half usable image diameter.
func FocalLengthFromExtremes(t Type, thetaMax, rMax float64) (float64, error) {
	if thetaMax <= 0 {
		return 0, fmt.Errorf("%w: theta_max must be positive, got %g", ErrInvalidParameter, thetaMax)
	}
	if rMax <= 0 {
		return 0, fmt.Errorf("%w: r_max must be positive, got %g", ErrInvalidParameter, rMax)
	}
	switch t {
	case Equidistant:
		return rMax / thetaMax, nil
	case Equisolid:
		return rMax / (2 * math.Sin(thetaMax/2)), nil
	case Orthographic:
		// sin re-enters [0,1] past pi/2, but the projection itself cannot
		// see beyond a 90 degree half angle.
		if thetaMax > math.Pi/2 {
			return 0, fmt.Errorf("%w: orthographic model limited to a 90 degree half field of view, got %g rad",
				ErrInvalidParameter, thetaMax)
		}
		return rMax / math.Sin(thetaMax), nil
	case Stereographic:
		return rMax / (2 * math.Tan(thetaMax/2)), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedCameraType, t)
	}
}
