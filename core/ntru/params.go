package ntru

import (
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/tuneinsight/ntrutfhe/core/lwe"
	"github.com/tuneinsight/ntrutfhe/core/rlwe"
	"github.com/tuneinsight/ntrutfhe/ring"
)

// ParametersLiteral is a literal representation of NTRU parameters.
//
//   - LogN: log2 of the ring degree.
//   - LogQ: log2 of the ciphertext modulus.
//   - Sigma: standard deviation of the encryption noise, in units of Z_Q.
//   - Xs: distribution of the secret key, [ring.Binary] (the default) or [ring.DiscreteGaussian].
type ParametersLiteral struct {
	LogN  int
	LogQ  int
	Sigma float64
	Xs    ring.DistributionParameters
}

// Parameters represents a set of validated NTRU parameters.
type Parameters struct {
	ringQ *ring.Ring
	sigma float64
	xs    ring.DistributionParameters
}

// NewParametersFromLiteral instantiates a set of NTRU [Parameters] from a [ParametersLiteral].
func NewParametersFromLiteral(pl ParametersLiteral) (params Parameters, err error) {

	if pl.LogN < ring.MinLogN || pl.LogN > ring.MaxLogN {
		return params, fmt.Errorf("invalid ring degree: LogN=%d must be in [%d, %d]", pl.LogN, ring.MinLogN, ring.MaxLogN)
	}

	if pl.Sigma < 0 {
		return params, fmt.Errorf("invalid noise standard deviation: Sigma=%f must be non-negative", pl.Sigma)
	}

	switch xs := pl.Xs.(type) {
	case nil:
		params.xs = ring.Binary{}
	case ring.Binary:
		params.xs = xs
	case ring.DiscreteGaussian:
		if xs.Sigma <= 0 {
			return params, fmt.Errorf("invalid secret distribution: Sigma=%f must be positive", xs.Sigma)
		}
		params.xs = xs
	default:
		return params, fmt.Errorf("invalid secret distribution: want ring.Binary or ring.DiscreteGaussian but have %T", pl.Xs)
	}

	if params.ringQ, err = ring.NewRing(1<<pl.LogN, pl.LogQ); err != nil {
		return params, fmt.Errorf("cannot NewParametersFromLiteral: %w", err)
	}

	params.sigma = pl.Sigma

	return
}

// ParametersLiteral returns the [ParametersLiteral] of the target [Parameters].
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		LogN:  p.LogN(),
		LogQ:  p.LogQ(),
		Sigma: p.sigma,
		Xs:    p.xs,
	}
}

// RingQ returns the ring of the ciphertexts.
func (p Parameters) RingQ() *ring.Ring {
	return p.ringQ
}

// N returns the ring degree.
func (p Parameters) N() int {
	return p.ringQ.N()
}

// LogN returns log2 of the ring degree.
func (p Parameters) LogN() int {
	return p.ringQ.LogN()
}

// LogQ returns log2 of the ciphertext modulus.
func (p Parameters) LogQ() int {
	return p.ringQ.LogQ()
}

// Sigma returns the standard deviation of the encryption noise.
func (p Parameters) Sigma() float64 {
	return p.sigma
}

// Xs returns the distribution of the secret key.
func (p Parameters) Xs() ring.DistributionParameters {
	return p.xs
}

// RLWEParameters returns the parameters of the RLWE ciphertexts sharing the ring and the noise of the target.
func (p Parameters) RLWEParameters() rlwe.Parameters {
	params, err := rlwe.NewParametersFromLiteral(rlwe.ParametersLiteral{LogN: p.LogN(), LogQ: p.LogQ(), Sigma: p.sigma})
	if err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}
	return params
}

// LWEParameters returns the parameters of the LWE samples extracted from the ciphertexts.
func (p Parameters) LWEParameters() lwe.Parameters {
	params, err := lwe.NewParametersFromLiteral(lwe.ParametersLiteral{N: p.N(), LogQ: p.LogQ(), Sigma: p.sigma})
	if err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}
	return params
}

// Equal returns true if the two sets of parameters are identical.
func (p Parameters) Equal(other *Parameters) bool {
	return cmp.Equal(p.ParametersLiteral(), other.ParametersLiteral())
}
