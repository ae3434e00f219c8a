package mempool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFloat32_Length(t *testing.T) {
	for _, n := range []int{1, 100, 4096, 4097, 512 * 512} {
		buf := GetFloat32(n)
		require.Len(t, buf, n)
		assert.GreaterOrEqual(t, cap(buf), n)
		PutFloat32(buf)
	}
}

func TestPutFloat32_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() { PutFloat32(nil) })
}

func TestGetFloat32_ReuseAfterPut(t *testing.T) {
	buf := GetFloat32(2048)
	for i := range buf {
		buf[i] = float32(i)
	}
	PutFloat32(buf)

	again := GetFloat32(2048)
	require.Len(t, again, 2048)
	PutFloat32(again)
}
