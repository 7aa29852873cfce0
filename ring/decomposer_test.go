package ring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/ntrutfhe/utils/sampling"
)

func TestSignedDecomposer(t *testing.T) {

	prng := newTestPRNG(t)

	for _, bl := range [][2]int{{1, 1}, {4, 4}, {8, 5}, {12, 2}, {16, 4}, {32, 2}} {

		d := NewSignedDecomposer(bl[0], bl[1])
		B := d.BaseLog

		t.Run(fmt.Sprintf("Decompose/B=%d/l=%d", B, d.LevelCount), func(t *testing.T) {

			digits := make([]uint64, d.LevelCount)

			for i := 0; i < 256; i++ {

				x := sampling.RandUint64N(prng, 0)

				d.Decompose(x, digits)

				for _, digit := range digits {
					require.GreaterOrEqual(t, int64(digit), -int64(1)<<(B-1))
					require.Less(t, int64(digit), int64(1)<<(B-1))
				}

				require.Equal(t, d.ClosestRepresentable(x), d.Recompose(digits))
			}
		})

		t.Run(fmt.Sprintf("ClosestRepresentable/B=%d/l=%d", B, d.LevelCount), func(t *testing.T) {
			nonRep := 64 - B*d.LevelCount
			if nonRep == 0 {
				require.Equal(t, uint64(12345), d.ClosestRepresentable(12345))
				return
			}
			v := uint64(0xABCDEF) << nonRep
			require.Equal(t, v, d.ClosestRepresentable(v+1<<(nonRep-1)-1))
			require.Equal(t, v+1<<nonRep, d.ClosestRepresentable(v+1<<(nonRep-1)))
			require.Equal(t, v, d.ClosestRepresentable(v-1<<(nonRep-1)))
		})
	}

	t.Run("DecomposePoly", func(t *testing.T) {

		r, err := NewRing(32, 39)
		require.NoError(t, err)

		d := NewSignedDecomposer(8, 4)

		p := NewUniformSampler(prng, r).ReadNew()

		polys := make([]Poly, d.LevelCount)
		for i := range polys {
			polys[i] = r.NewPoly()
		}

		d.DecomposePoly(p, polys)

		digits := make([]uint64, d.LevelCount)
		for k, c := range p.Coeffs {
			d.Decompose(c, digits)
			for i := range digits {
				require.Equal(t, digits[i], polys[i].Coeffs[k])
			}
		}

		require.Panics(t, func() { d.DecomposePoly(p, polys[:2]) })
	})

	t.Run("Gadget", func(t *testing.T) {
		d := NewSignedDecomposer(8, 4)
		require.Equal(t, uint64(1)<<56, d.Gadget(1))
		require.Equal(t, uint64(1)<<32, d.Gadget(4))
		require.Equal(t, uint64(3)<<48, d.RecompositionSummand(2, 3))
	})

	t.Run("Invalid", func(t *testing.T) {
		require.Panics(t, func() { NewSignedDecomposer(0, 4) })
		require.Panics(t, func() { NewSignedDecomposer(8, 0) })
		require.Panics(t, func() { NewSignedDecomposer(13, 5) })
	})
}
