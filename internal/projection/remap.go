package projection

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"runtime"
	"sync"

	"github.com/MeKo-Tech/unfish/internal/camera"
)

// Interpolation selects the resampling kernel used by Remap.
type Interpolation string

const (
	// Bilinear samples the four surrounding pixels.
	Bilinear = Interpolation("bilinear")
	// Bicubic samples a 4x4 neighborhood with a Catmull-Rom kernel; the
	// default for image output.
	Bicubic = Interpolation("bicubic")
)

// ParseInterpolation converts a string tag to an Interpolation.
func ParseInterpolation(s string) (Interpolation, error) {
	switch Interpolation(s) {
	case Bilinear, Bicubic:
		return Interpolation(s), nil
	default:
		return "", fmt.Errorf("%w: unsupported interpolation %q", camera.ErrInvalidParameter, s)
	}
}

// Remap synthesizes an output image by sampling src at the coordinates given
// by (mapX, mapY). Source coordinates outside the image are filled with
// opaque black. Rows have no data dependency, so they are fanned out across
// a worker pool; ctx cancels between rows.
func Remap(ctx context.Context, src image.Image, mapX, mapY *Field, interp Interpolation) (image.Image, error) {
	if src == nil {
		return nil, errors.New("source image is nil")
	}
	if mapX == nil || mapY == nil {
		return nil, errors.New("coordinate maps are nil")
	}
	if mapX.Width() != mapY.Width() || mapX.Height() != mapY.Height() {
		return nil, fmt.Errorf("coordinate map shapes differ: %dx%d vs %dx%d",
			mapX.Width(), mapX.Height(), mapY.Width(), mapY.Height())
	}

	var sample func(src image.Image, x, y float64) color.RGBA
	switch interp {
	case Bilinear:
		sample = bilinearSample
	case Bicubic, "":
		sample = bicubicSample
	default:
		return nil, fmt.Errorf("unsupported interpolation %q", interp)
	}

	w, h := mapX.Width(), mapX.Height()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	sb := src.Bounds()

	workers := runtime.NumCPU()
	if workers > h {
		workers = h
	}

	rows := make(chan int, h)
	for y := range h {
		rows <- y
	}
	close(rows)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				if ctx.Err() != nil {
					return
				}
				for x := range w {
					sx := float64(mapX.At(x, y)) + float64(sb.Min.X)
					sy := float64(mapY.At(x, y)) + float64(sb.Min.Y)
					out.SetRGBA(x, y, sample(src, sx, sy))
				}
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// bilinearSample interpolates the four pixels around (x, y), painting
// out-of-bounds coordinates black.
func bilinearSample(src image.Image, x, y float64) color.RGBA {
	b := src.Bounds()
	if x < float64(b.Min.X) || y < float64(b.Min.Y) || x > float64(b.Max.X-1) || y > float64(b.Max.Y-1) {
		return color.RGBA{0, 0, 0, 255}
	}
	x0 := int(x)
	y0 := int(y)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 >= b.Max.X {
		x1 = b.Max.X - 1
	}
	if y1 >= b.Max.Y {
		y1 = b.Max.Y - 1
	}
	fx := x - float64(x0)
	fy := y - float64(y0)
	c00 := toRGBA(src.At(x0, y0))
	c10 := toRGBA(src.At(x1, y0))
	c01 := toRGBA(src.At(x0, y1))
	c11 := toRGBA(src.At(x1, y1))
	r := lerp(lerp(c00.R, c10.R, fx), lerp(c01.R, c11.R, fx), fy)
	g := lerp(lerp(c00.G, c10.G, fx), lerp(c01.G, c11.G, fx), fy)
	bl := lerp(lerp(c00.B, c10.B, fx), lerp(c01.B, c11.B, fx), fy)
	a := lerp(lerp(c00.A, c10.A, fx), lerp(c01.A, c11.A, fx), fy)
	return color.RGBA{clampU8(r), clampU8(g), clampU8(bl), clampU8(a)}
}

// bicubicSample interpolates a 4x4 neighborhood around (x, y) with a
// Catmull-Rom kernel, painting out-of-bounds coordinates black.
func bicubicSample(src image.Image, x, y float64) color.RGBA {
	b := src.Bounds()
	if x < float64(b.Min.X) || y < float64(b.Min.Y) || x > float64(b.Max.X-1) || y > float64(b.Max.Y-1) {
		return color.RGBA{0, 0, 0, 255}
	}

	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	var wx, wy [4]float64
	for i := range 4 {
		wx[i] = catmullRom(float64(i-1) - fx)
		wy[i] = catmullRom(float64(i-1) - fy)
	}

	var r, g, bl, a float64
	for j := range 4 {
		py := clampi(y0+j-1, b.Min.Y, b.Max.Y-1)
		for i := range 4 {
			px := clampi(x0+i-1, b.Min.X, b.Max.X-1)
			w := wx[i] * wy[j]
			c := toRGBA(src.At(px, py))
			r += w * c.R
			g += w * c.G
			bl += w * c.B
			a += w * c.A
		}
	}
	return color.RGBA{clampU8(r), clampU8(g), clampU8(bl), clampU8(a)}
}

// catmullRom is the cubic kernel with a = -0.5.
func catmullRom(t float64) float64 {
	t = math.Abs(t)
	switch {
	case t < 1:
		return 1.5*t*t*t - 2.5*t*t + 1
	case t < 2:
		return -0.5*t*t*t + 2.5*t*t - 4*t + 2
	default:
		return 0
	}
}

type rgba struct{ R, G, B, A float64 }

func toRGBA(c color.Color) rgba {
	r, g, b, a := c.RGBA()
	return rgba{R: float64(r >> 8), G: float64(g >> 8), B: float64(b >> 8), A: float64(a >> 8)}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func clampU8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
