package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewField_Zeroed(t *testing.T) {
	f := NewField(16, 8)
	defer f.Release()

	require.Equal(t, 16, f.Width())
	require.Equal(t, 8, f.Height())
	for y := range 8 {
		for x := range 16 {
			assert.Zero(t, f.At(x, y))
		}
	}
}

func TestField_SetAt(t *testing.T) {
	f := NewField(4, 4)
	defer f.Release()

	f.Set(2, 3, 1.25)
	assert.Equal(t, float32(1.25), f.At(2, 3))
	assert.Zero(t, f.At(3, 2))
}
