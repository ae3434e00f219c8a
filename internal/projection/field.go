package projection

import (
	"github.com/MeKo-Tech/unfish/internal/mempool"
)

// Field is a real-valued 2D scalar field with the shape of an output image.
// A pair of fields (mapX, mapY) gives, for every output pixel, the fractional
// source coordinates to sample. Backing buffers come from the shared pool;
// call Release when the field is no longer needed.
type Field struct {
	width  int
	height int
	data   []float32
}

// NewField allocates a zeroed width x height field.
func NewField(width, height int) *Field {
	buf := mempool.GetFloat32(width * height)
	for i := range buf {
		buf[i] = 0
	}
	return &Field{width: width, height: height, data: buf}
}

// Width returns the field width in samples.
func (f *Field) Width() int { return f.width }

// Height returns the field height in samples.
func (f *Field) Height() int { return f.height }

// At returns the value at (x, y). No bounds checking; callers iterate the
// field's own dimensions.
func (f *Field) At(x, y int) float32 { return f.data[y*f.width+x] }

// Set stores v at (x, y).
func (f *Field) Set(x, y int, v float32) { f.data[y*f.width+x] = v }

// Release returns the backing buffer to the pool. The field must not be used
// afterwards.
func (f *Field) Release() {
	mempool.PutFloat32(f.data)
	f.data = nil
}
