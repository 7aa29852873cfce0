package ring

import (
	"math"

	"github.com/tuneinsight/ntrutfhe/utils/sampling"
)

// GaussianSampler keeps the state of a truncated Gaussian polynomial sampler.
// Samples are plain signed integers stored in two's complement.
type GaussianSampler struct {
	*baseSampler
	*randomBuffer
	sigma float64
	bound float64
}

// NewGaussianSampler creates a new instance of [GaussianSampler] from a PRNG, a ring definition and the truncated
// Gaussian distribution parameters.
func NewGaussianSampler(prng sampling.PRNG, baseRing *Ring, X DiscreteGaussian) (g *GaussianSampler) {
	g = new(GaussianSampler)
	g.baseSampler = &baseSampler{}
	g.baseRing = baseRing
	g.prng = prng
	g.randomBuffer = newRandomBuffer()
	g.sigma = X.Sigma
	g.bound = X.Bound
	if g.bound == 0 {
		g.bound = 6 * X.Sigma
	}
	return
}

// Read samples a truncated Gaussian polynomial on pol.
func (g *GaussianSampler) Read(pol Poly) {
	g.read(pol, func(a, b uint64) uint64 {
		return b
	})
}

// ReadNew samples a new truncated Gaussian polynomial.
func (g *GaussianSampler) ReadNew() (pol Poly) {
	pol = g.baseRing.NewPoly()
	g.Read(pol)
	return pol
}

// ReadAndAdd samples a truncated Gaussian polynomial and adds it on pol.
func (g *GaussianSampler) ReadAndAdd(pol Poly) {
	g.read(pol, func(a, b uint64) uint64 {
		return a + b
	})
}

// ReadScaledAndAdd samples a truncated Gaussian polynomial, multiplies it by scale and adds it on pol.
func (g *GaussianSampler) ReadScaledAndAdd(pol Poly, scale uint64) {
	g.read(pol, func(a, b uint64) uint64 {
		return a + b*scale
	})
}

func (g *GaussianSampler) read(pol Poly, f func(a, b uint64) uint64) {
	coeffs := pol.Coeffs
	for i := range coeffs {
		coeffs[i] = f(coeffs[i], uint64(g.sample()))
	}
}

// uniformFloat returns a float64 uniformly distributed in (0, 1].
func (g *GaussianSampler) uniformFloat() float64 {
	return (float64(g.uint64(g.prng)>>11) + 1) * 0x1p-53
}

// sample returns a rounded Gaussian sample in [-bound, bound], obtained with the Box-Muller transform.
func (g *GaussianSampler) sample() int64 {

	if g.sigma == 0 {
		return 0
	}

	for {
		r := math.Sqrt(-2*math.Log(g.uniformFloat())) * g.sigma
		theta := 2 * math.Pi * g.uniformFloat()
		x := math.Round(r * math.Cos(theta))
		if math.Abs(x) <= g.bound {
			return int64(x)
		}
	}
}
