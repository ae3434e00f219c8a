package projection

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/unfish/internal/camera"
)

// BuildMap computes the undistortion map for the request: two fields shaped
// like the output image whose values are fractional source coordinates in the
// (center-cropped) fisheye image. Values may fall outside the source bounds;
// the resampler treats those pixels as background.
//
// The map is built on the cropped square of side D = min(Width, Height) with
// center (D-1)/2, then optionally resized to the requested output shape.
func BuildMap(req Request) (mapX, mapY *Field, err error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	d := min(req.Width, req.Height)
	center := float64((d - 1) / 2)

	dim, err := req.perspectiveWidth()
	if err != nil {
		return nil, nil, err
	}
	pfocal := perspectiveFocalLength(req.PerspectiveFOV, dim)

	// Calibrate the fisheye model so the half field of view maps exactly to
	// the half usable diameter.
	ffocal, err := camera.FocalLengthFromExtremes(req.CameraType, radians(req.FOV/2), dim/2)
	if err != nil {
		return nil, nil, err
	}
	cam, err := camera.New(req.CameraType, ffocal)
	if err != nil {
		return nil, nil, err
	}

	mapX = NewField(d, d)
	mapY = NewField(d, d)

	for y := range d {
		dy := float64(y) - center
		for x := range d {
			dx := float64(x) - center
			dr := math.Hypot(dx, dy)
			if dr == 0 {
				// Degenerate center pixel: leave the zero default rather
				// than divide.
				continue
			}
			theta := math.Atan(dr / pfocal)
			pr := cam.ThetaToR(theta)
			scale := pr / dr
			mapX.Set(x, y, float32(scale*dx+center))
			mapY.Set(x, y, float32(scale*dy+center))
		}
	}

	if req.OutputWidth > 0 && req.OutputHeight > 0 &&
		(req.OutputWidth != d || req.OutputHeight != d) {
		rx, err := resizeField(mapX, req.OutputWidth, req.OutputHeight)
		if err != nil {
			mapX.Release()
			mapY.Release()
			return nil, nil, fmt.Errorf("resizing map_x: %w", err)
		}
		ry, err := resizeField(mapY, req.OutputWidth, req.OutputHeight)
		if err != nil {
			rx.Release()
			mapX.Release()
			mapY.Release()
			return nil, nil, fmt.Errorf("resizing map_y: %w", err)
		}
		mapX.Release()
		mapY.Release()
		mapX, mapY = rx, ry
	}

	return mapX, mapY, nil
}
