package ring

import (
	"github.com/tuneinsight/ntrutfhe/utils/sampling"
)

// BinarySampler keeps the state of a sampler of polynomials with coefficients uniform in {0, 1}.
type BinarySampler struct {
	*baseSampler
	*randomBuffer
}

// NewBinarySampler creates a new instance of [BinarySampler] from a PRNG and a ring definition.
func NewBinarySampler(prng sampling.PRNG, baseRing *Ring) (b *BinarySampler) {
	b = new(BinarySampler)
	b.baseSampler = &baseSampler{}
	b.baseRing = baseRing
	b.prng = prng
	b.randomBuffer = newRandomBuffer()
	return
}

// Read samples a binary polynomial on pol.
func (b *BinarySampler) Read(pol Poly) {
	b.read(pol, func(a, c uint64) uint64 {
		return c
	})
}

// ReadNew samples a new binary polynomial.
func (b *BinarySampler) ReadNew() (pol Poly) {
	pol = b.baseRing.NewPoly()
	b.Read(pol)
	return
}

// ReadAndAdd samples a binary polynomial and adds it on pol.
func (b *BinarySampler) ReadAndAdd(pol Poly) {
	b.read(pol, func(a, c uint64) uint64 {
		return a + c
	})
}

// ReadSlice samples len(s) binary values on s.
func (b *BinarySampler) ReadSlice(s []uint64) {
	b.read(Poly{Coeffs: s}, func(a, c uint64) uint64 {
		return c
	})
}

func (b *BinarySampler) read(pol Poly, f func(a, c uint64) uint64) {

	var bits uint64
	var avail int

	coeffs := pol.Coeffs
	for i := range coeffs {
		if avail == 0 {
			bits = b.uint64(b.prng)
			avail = 64
		}
		coeffs[i] = f(coeffs[i], bits&1)
		bits >>= 1
		avail--
	}
}
