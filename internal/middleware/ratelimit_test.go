package middleware

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterBurstThenRefusal(t *testing.T) {
	rl := NewRateLimiter(60, 3)

	for i := 0; i < 3; i++ {
		require.True(t, rl.Allow("/api/v1/auth/login", "1.2.3.4"), "hit %d should fit the burst", i+1)
	}
	require.False(t, rl.Allow("/api/v1/auth/login", "1.2.3.4"))
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(60, 1)

	require.True(t, rl.Allow("/api/v1/auth/login", "1.2.3.4"))
	require.False(t, rl.Allow("/api/v1/auth/login", "1.2.3.4"))

	// different IP, same route
	require.True(t, rl.Allow("/api/v1/auth/login", "5.6.7.8"))

	// same IP, different route
	require.True(t, rl.Allow("/api/v1/auth/register", "1.2.3.4"))
}
