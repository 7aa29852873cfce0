package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGCD(t *testing.T) {
	require.Equal(t, 4, GCD(12, 8))
	require.Equal(t, 5, GCD(0, 5))
	require.Equal(t, 3, GCD(-9, 6))
	require.Equal(t, uint64(1), GCD(uint64(7), uint64(64)))
}

func TestIsPowerOfTwo(t *testing.T) {
	require.True(t, IsPowerOfTwo(1))
	require.True(t, IsPowerOfTwo(uint64(1)<<63))
	require.False(t, IsPowerOfTwo(0))
	require.False(t, IsPowerOfTwo(12))
	require.False(t, IsPowerOfTwo(-4))
}

func TestParity(t *testing.T) {
	require.Equal(t, uint64(0), Parity([]uint64{}))
	require.Equal(t, uint64(1), Parity([]uint64{1, 2, 4}))
	require.Equal(t, uint64(0), Parity([]uint64{1, 3, 5, 7}))
}
