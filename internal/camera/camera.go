// Package camera implements the fisheye camera models used to build
// undistortion maps. A camera model is a closed-form relation between the
// angle of incidence theta (radians) and the image radius r (pixels),
// parameterized by a single focal length.
package camera

import (
	"errors"
	"fmt"
	"math"
)

// Type identifies a fisheye projection model.
type Type string

const (
	// Equidistant maps r = f*theta, the most common fisheye projection.
	Equidistant = Type("equidistant")
	// Equisolid maps r = 2f*sin(theta/2), preserving solid angle.
	Equisolid = Type("equisolid")
	// Orthographic maps r = f*sin(theta), valid only up to a 90 degree
	// half field of view.
	Orthographic = Type("orthographic")
	// Stereographic maps r = 2f*tan(theta/2), conformal.
	Stereographic = Type("stereographic")
)

// Types lists all supported camera types.
var Types = []Type{Equidistant, Equisolid, Orthographic, Stereographic}

var (
	// ErrInvalidParameter indicates a parameter outside a model's valid domain,
	// such as a non-positive focal length or a field of view the projection
	// cannot physically cover.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnsupportedCameraType indicates an unrecognized camera type tag.
	ErrUnsupportedCameraType = errors.New("unsupported camera type")
)

// Model is a fisheye camera model. ThetaToR and RToTheta are inverses of
// each other on the model's valid domain.
type Model interface {
	// ThetaToR converts an angle of incidence (radians) to an image radius (pixels).
	ThetaToR(theta float64) float64
	// RToTheta converts an image radius (pixels) to an angle of incidence (radians).
	RToTheta(r float64) float64
	// FocalLength returns the focal length the model was built with.
	FocalLength() float64
	// Type returns the projection type tag.
	Type() Type
}

// ParseType converts a string tag to a camera Type.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case Equidistant, Equisolid, Orthographic, Stereographic:
		return Type(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCameraType, s)
	}
}

type equidistant struct{ f float64 }

func (c equidistant) ThetaToR(theta float64) float64 { return c.f * theta }
func (c equidistant) RToTheta(r float64) float64     { return r / c.f }
func (c equidistant) FocalLength() float64           { return c.f }
func (c equidistant) Type() Type                     { return Equidistant }

type equisolid struct{ f float64 }

func (c equisolid) ThetaToR(theta float64) float64 { return 2 * c.f * math.Sin(theta/2) }
func (c equisolid) RToTheta(r float64) float64     { return 2 * math.Asin(r/(2*c.f)) }
func (c equisolid) FocalLength() float64           { return c.f }
func (c equisolid) Type() Type                     { return Equisolid }

type orthographic struct{ f float64 }

func (c orthographic) ThetaToR(theta float64) float64 { return c.f * math.Sin(theta) }

// RToTheta returns NaN when |r/f| > 1; keeping r in range for the configured
// field of view is the caller's invariant.
func (c orthographic) RToTheta(r float64) float64 { return math.Asin(r / c.f) }
func (c orthographic) FocalLength() float64       { return c.f }
func (c orthographic) Type() Type                 { return Orthographic }

type stereographic struct{ f float64 }

func (c stereographic) ThetaToR(theta float64) float64 { return 2 * c.f * math.Tan(theta/2) }
func (c stereographic) RToTheta(r float64) float64     { return 2 * math.Atan(r/(2*c.f)) }
func (c stereographic) FocalLength() float64           { return c.f }
func (c stereographic) Type() Type                     { return Stereographic }
