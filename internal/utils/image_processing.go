package utils

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ImageProcessingError represents errors that can occur during image processing.
type ImageProcessingError struct {
	Operation string
	Err       error
}

func (e *ImageProcessingError) Error() string {
	return fmt.Sprintf("image processing error in %s: %v", e.Operation, e.Err)
}

func (e *ImageProcessingError) Unwrap() error {
	return e.Err
}

// CropCenterSquare crops the image to a centered square of side
// min(width, height). The crop offsets use integer floor division, matching
// the (D-1)/2 center convention the undistortion map is built on.
func CropCenterSquare(img image.Image) (image.Image, error) {
	if img == nil {
		return nil, &ImageProcessingError{Operation: "crop", Err: errors.New("input image is nil")}
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, &ImageProcessingError{Operation: "crop", Err: fmt.Errorf("empty image %dx%d", w, h)}
	}

	d := min(w, h)
	if w == h {
		return img, nil
	}

	offX := (w - d) / 2
	offY := (h - d) / 2
	rect := image.Rect(b.Min.X+offX, b.Min.Y+offY, b.Min.X+offX+d, b.Min.Y+offY+d)
	return imaging.Crop(img, rect), nil
}
