package ring

import (
	"encoding/binary"
	"fmt"

	"github.com/tuneinsight/ntrutfhe/utils/sampling"
)

const (
	discreteGaussianName = "DiscreteGaussian"
	binaryDistName       = "Binary"
	uniformDistName      = "Uniform"
)

// Sampler is an interface for random polynomial samplers.
// It has a single Read method which takes as argument the polynomial to be
// populated according to the Sampler's distribution.
type Sampler interface {
	Read(pol Poly)
	ReadNew() (pol Poly)
	ReadAndAdd(pol Poly)
}

// DistributionParameters is an interface for distribution
// parameters in the ring.
// There are three implementation of this interface:
//   - DiscreteGaussian for sampling polynomials with discretized
//     gaussian coefficient of given standard deviation and bound.
//   - Binary for sampling polynomials with coefficients in {0, 1}.
//   - Uniform for sampling polynomial with uniformly random
//     coefficients in the ring.
type DistributionParameters interface {
	// Type returns a string representation of the distribution name.
	Type() string
	mustBeDist()
}

// DiscreteGaussian represents the parameters of a
// discrete Gaussian distribution with standard
// deviation Sigma and bounds [-Bound, Bound].
// A zero Bound defaults to 6*Sigma.
// Samples are plain signed integers stored in two's complement.
type DiscreteGaussian struct {
	Sigma float64
	Bound float64
}

// Binary represents the parameters of the uniform distribution over {0, 1}.
type Binary struct{}

// Uniform represents the parameters of a uniform distribution
// i.e., with coefficients uniformly distributed in the given ring.
// Samples are given in the native representation.
type Uniform struct{}

// NewSampler instantiates a new [Sampler] of the distribution X over baseRing.
// baseRing is only used to allocate the output of ReadNew and, for [Uniform], to
// define the sampling modulus.
func NewSampler(prng sampling.PRNG, baseRing *Ring, X DistributionParameters) (Sampler, error) {
	switch X := X.(type) {
	case DiscreteGaussian:
		return NewGaussianSampler(prng, baseRing, X), nil
	case Binary:
		return NewBinarySampler(prng, baseRing), nil
	case Uniform:
		return NewUniformSampler(prng, baseRing), nil
	default:
		return nil, fmt.Errorf("invalid distribution: want ring.DiscreteGaussian, ring.Binary or ring.Uniform but have %T", X)
	}
}

type baseSampler struct {
	prng     sampling.PRNG
	baseRing *Ring
}

type randomBuffer struct {
	randomBufferN []byte
	ptr           int
}

func newRandomBuffer() *randomBuffer {
	return &randomBuffer{
		randomBufferN: make([]byte, 1024),
		ptr:           1024,
	}
}

// uint64 reads the next 8 random bytes of the buffer, refilling it from prng when empty.
func (b *randomBuffer) uint64(prng sampling.PRNG) uint64 {
	if b.ptr+8 > len(b.randomBufferN) {
		if _, err := prng.Read(b.randomBufferN); err != nil {
			// Sanity check, this error should not happen.
			panic(err)
		}
		b.ptr = 0
	}
	v := binary.BigEndian.Uint64(b.randomBufferN[b.ptr : b.ptr+8])
	b.ptr += 8
	return v
}

func (d DiscreteGaussian) Type() string {
	return discreteGaussianName
}

func (d DiscreteGaussian) mustBeDist() {}

func (d Binary) Type() string {
	return binaryDistName
}

func (d Binary) mustBeDist() {}

func (d Uniform) Type() string {
	return uniformDistName
}

func (d Uniform) mustBeDist() {}
