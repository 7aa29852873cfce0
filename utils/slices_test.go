package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRotateSliceInPlace(t *testing.T) {
	slice := []int{1, 2, 3, 4, 5}
	RotateSliceInPlace(slice, 2)
	require.Equal(t, []int{3, 4, 5, 1, 2}, slice)

	slice = []int{1, 2, 3, 4, 5}
	RotateSliceInPlace(slice, -2)
	require.Equal(t, []int{4, 5, 1, 2, 3}, slice)

	slice = []int{1, 2, 3, 4, 5, 6}
	RotateSliceInPlace(slice, 4)
	require.Equal(t, []int{5, 6, 1, 2, 3, 4}, slice)
}

func TestRotateSliceAllocFree(t *testing.T) {
	s := []uint64{0, 1, 2, 3, 4, 5, 6, 7}
	sout := make([]uint64, len(s))

	RotateSliceAllocFree(s, 3, sout)
	require.Equal(t, []uint64{3, 4, 5, 6, 7, 0, 1, 2}, sout)
	require.Equal(t, []uint64{0, 1, 2, 3, 4, 5, 6, 7}, s, "should not modify input slice")

	RotateSliceAllocFree(s, -11, sout)
	require.Equal(t, []uint64{5, 6, 7, 0, 1, 2, 3, 4}, sout)

	RotateSliceAllocFree(s, 1, s)
	require.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 7, 0}, s)
}
