package utils

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x % 256), uint8(y % 256), 0, 255})
		}
	}
	return img
}

func TestCropCenterSquare_Nil(t *testing.T) {
	_, err := CropCenterSquare(nil)
	require.Error(t, err)

	var procErr *ImageProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, "crop", procErr.Operation)
}

func TestCropCenterSquare_AlreadySquare(t *testing.T) {
	img := makeImage(64, 64)
	out, err := CropCenterSquare(img)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), out.Bounds())
}

func TestCropCenterSquare_Landscape(t *testing.T) {
	img := makeImage(640, 480)
	out, err := CropCenterSquare(img)
	require.NoError(t, err)

	b := out.Bounds()
	require.Equal(t, 480, b.Dx())
	require.Equal(t, 480, b.Dy())

	// Offset is (640-480)/2 = 80, so cropped (0,0) shows source x=80.
	c := out.At(b.Min.X, b.Min.Y).(color.NRGBA)
	assert.Equal(t, uint8(80), c.R)
	assert.Equal(t, uint8(0), c.G)
}

func TestCropCenterSquare_PortraitOddOffset(t *testing.T) {
	// 100x105: offset (105-100)/2 = 2 with floor division.
	img := makeImage(100, 105)
	out, err := CropCenterSquare(img)
	require.NoError(t, err)

	b := out.Bounds()
	require.Equal(t, 100, b.Dx())
	require.Equal(t, 100, b.Dy())

	c := out.At(b.Min.X, b.Min.Y).(color.NRGBA)
	assert.Equal(t, uint8(2), c.G)
}
