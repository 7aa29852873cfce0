package bignum

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFloat(t *testing.T) {

	x := 1.4142135623730951

	for _, tc := range []struct {
		name string
		f    func(float64) float64
		g    func(*big.Float) *big.Float
	}{
		{"Cos", math.Cos, Cos},
		{"Sin", math.Sin, Sin},
		{"Log2", math.Log2, Log2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			y, _ := tc.g(NewFloat(x, 128)).Float64()
			require.InDelta(t, tc.f(x), y, 1e-15)
		})
	}

	t.Run("Log2Float64", func(t *testing.T) {
		require.InDelta(t, 20.0, Log2Float64(1<<20, 128), 1e-12)
		require.InDelta(t, 3.0, Log2Float64(-8, 128), 1e-12)
		require.True(t, math.IsInf(Log2Float64(0, 128), -1))
	})

	t.Run("CosSin", func(t *testing.T) {
		for _, x := range []float64{0.1, 1, math.Pi / 3, 3} {
			c, s := CosSin(NewFloat(x, 128))
			require.InDelta(t, math.Cos(x), c, 1e-15)
			require.InDelta(t, math.Sin(x), s, 1e-15)
		}
	})

	t.Run("Pi", func(t *testing.T) {
		pi, _ := Pi(64).Float64()
		require.InDelta(t, math.Pi, pi, 1e-15)
	})
}
