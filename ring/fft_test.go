package ring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/ntrutfhe/utils/sampling"
)

func TestFFT(t *testing.T) {

	prng := newTestPRNG(t)

	// signed returns a polynomial with coefficients uniform in [-2^(logBound-1), 2^(logBound-1)).
	signed := func(N, logBound int) Poly {
		p := NewPoly(N)
		for i := range p.Coeffs {
			p.Coeffs[i] = sampling.RandUint64N(prng, 1<<logBound) - 1<<(logBound-1)
		}
		return p
	}

	for _, logN := range []int{2, 4, 10} {

		N := 1 << logN
		r, err := NewRing(N, 64)
		require.NoError(t, err)

		fft := NewFFT(N)

		t.Run(testString("FFT/ForwardBackward", r), func(t *testing.T) {
			p := signed(N, 40)
			fp := NewFourierPoly(N)
			fft.Forward(p, fp)
			have := r.NewPoly()
			fft.Backward(fp, have, NewFourierPoly(N))
			require.True(t, p.Equal(have))
		})

		t.Run(testString("FFT/MulPoly", r), func(t *testing.T) {
			a := signed(N, 12)
			b := signed(N, 12)
			want, have := r.NewPoly(), r.NewPoly()
			r.MulPoly(a, b, want)
			fft.MulPoly(a, b, have)
			require.True(t, want.Equal(have))
		})

		t.Run(testString("FFT/MulAdd/AddBackward", r), func(t *testing.T) {

			a0, b0 := signed(N, 12), signed(N, 12)
			a1, b1 := signed(N, 12), signed(N, 12)
			c := signed(N, 20)

			want := c.CopyNew()
			r.MulPolyThenAdd(a0, b0, want)
			r.MulPolyThenAdd(a1, b1, want)

			fa, fb, acc := NewFourierPoly(N), NewFourierPoly(N), NewFourierPoly(N)
			fft.Forward(a0, fa)
			fft.Forward(b0, fb)
			fft.MulAdd(fa, fb, acc)
			fft.Forward(a1, fa)
			fft.Forward(b1, fb)
			fft.MulAdd(fa, fb, acc)

			// buf aliases the input
			fft.AddBackward(acc, c, acc)
			require.True(t, want.Equal(c))
		})
	}

	t.Run("FFT/ShallowCopy", func(t *testing.T) {
		N := 64
		fft := NewFFT(N)
		cpy := fft.ShallowCopy()
		require.Equal(t, fft.N(), cpy.N())
		require.NotSame(t, fft.dft, cpy.dft)

		p := signed(N, 30)
		f0, f1 := NewFourierPoly(N), NewFourierPoly(N)
		fft.Forward(p, f0)
		cpy.Forward(p, f1)
		require.Equal(t, f0, f1)
	})

	t.Run("FFT/WrapToUint64", func(t *testing.T) {
		for _, tc := range []struct {
			x    float64
			want uint64
		}{
			{0, 0},
			{-1, 0xFFFFFFFFFFFFFFFF},
			{2.4, 2},
			{0x1p64 + 0x1p20, 1 << 20},
			{-0x1p64 - 0x1p20, 0xFFFFFFFFFFF00000},
			{0x1p63, 1 << 63},
			{0x1p66 + 0x1p62, 1 << 62},
		} {
			require.Equal(t, tc.want, wrapToUint64(tc.x), fmt.Sprintf("x=%v", tc.x))
		}
	})
}
