package server

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3)

	for i := range 3 {
		require.NoError(t, rl.Allow("client"), "request %d should pass", i)
	}
	assert.Equal(t, 3, rl.Usage("client"))

	err := rl.Allow("client")
	require.Error(t, err)

	var rle *RateLimitError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, 3, rle.Limit)
	assert.Positive(t, rle.RetryAfter)
}

func TestRateLimiterPerClient(t *testing.T) {
	rl := NewRateLimiter(1)

	require.NoError(t, rl.Allow("a"))
	require.NoError(t, rl.Allow("b"))
	require.Error(t, rl.Allow("a"))
	require.Error(t, rl.Allow("b"))
}

func TestRateLimiterUsageUnknownClient(t *testing.T) {
	rl := NewRateLimiter(5)
	assert.Zero(t, rl.Usage("nobody"))
}
