package projection

import (
	"fmt"

	"github.com/MeKo-Tech/unfish/internal/camera"
)

// resizeField resamples a scalar field to a new shape with bilinear
// interpolation. Imaging libraries resize 8-bit pixels; coordinate fields are
// float32 and lossy quantization would corrupt sub-pixel positions, so the
// resize is done directly on the field.
func resizeField(f *Field, width, height int) (*Field, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: resize target %dx%d", camera.ErrInvalidParameter, width, height)
	}

	out := NewField(width, height)
	sx := float64(f.Width()) / float64(width)
	sy := float64(f.Height()) / float64(height)

	for y := range height {
		// Sample at the source position of the output pixel center.
		srcY := (float64(y)+0.5)*sy - 0.5
		for x := range width {
			srcX := (float64(x)+0.5)*sx - 0.5
			out.Set(x, y, bilinearField(f, srcX, srcY))
		}
	}
	return out, nil
}

// bilinearField samples a field at a fractional position, clamping to the
// edges.
func bilinearField(f *Field, x, y float64) float32 {
	x = clampf(x, 0, float64(f.Width()-1))
	y = clampf(y, 0, float64(f.Height()-1))

	x0, y0 := int(x), int(y)
	x1, y1 := x0+1, y0+1
	if x1 >= f.Width() {
		x1 = f.Width() - 1
	}
	if y1 >= f.Height() {
		y1 = f.Height() - 1
	}
	fx := float32(x - float64(x0))
	fy := float32(y - float64(y0))

	top := lerp32(f.At(x0, y0), f.At(x1, y0), fx)
	bot := lerp32(f.At(x0, y1), f.At(x1, y1), fx)
	return lerp32(top, bot, fy)
}

func lerp32(a, b, t float32) float32 { return a + (b-a)*t }

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
