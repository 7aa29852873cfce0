package ring

import (
	"github.com/tuneinsight/ntrutfhe/utils/sampling"
)

// UniformSampler wraps a util.PRNG and represents the state of a sampler of uniform polynomials.
type UniformSampler struct {
	*baseSampler
	*randomBuffer
}

// NewUniformSampler creates a new instance of UniformSampler from a PRNG and ring definition.
// Coefficients are sampled uniformly in Z_Q and returned in the native representation.
func NewUniformSampler(prng sampling.PRNG, baseRing *Ring) (u *UniformSampler) {
	u = new(UniformSampler)
	u.baseSampler = &baseSampler{}
	u.baseRing = baseRing
	u.prng = prng
	u.randomBuffer = newRandomBuffer()
	return
}

// Read samples a polynomial into pol.
func (u *UniformSampler) Read(pol Poly) {
	u.read(pol, func(a, b uint64) uint64 {
		return b
	})
}

// ReadAndAdd samples a polynomial and adds it on pol.
func (u *UniformSampler) ReadAndAdd(pol Poly) {
	u.read(pol, func(a, b uint64) uint64 {
		return a + b
	})
}

func (u *UniformSampler) read(pol Poly, f func(a, b uint64) uint64) {

	// Keeps the logQ most significant bits.
	shift := u.baseRing.TorusShift()
	mask := ^uint64(0) << shift

	coeffs := pol.Coeffs

	for i := range coeffs {
		coeffs[i] = f(coeffs[i], u.uint64(u.prng)&mask)
	}
}

// ReadNew generates a new polynomial with coefficients following a uniform distribution over Z_Q.
func (u *UniformSampler) ReadNew() (pol Poly) {
	pol = u.baseRing.NewPoly()
	u.Read(pol)
	return
}
