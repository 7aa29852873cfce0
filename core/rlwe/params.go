// Package rlwe implements rank-1 RLWE ciphertexts over Z_Q[X]/(X^N+1) with Q a power of two,
// and the GGSW ciphertexts produced by the circuit bootstrapping.
//
// Ciphertexts are pairs (a, b) with b = a*s + m + e, stored in the native
// representation of [ring.Ring].
package rlwe

import (
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/tuneinsight/ntrutfhe/ring"
)

// ParametersLiteral is a literal representation of RLWE parameters.
// Sigma is the standard deviation of the encryption noise, in units of Z_Q.
type ParametersLiteral struct {
	LogN  int
	LogQ  int
	Sigma float64
}

// Parameters represents a set of validated RLWE parameters.
type Parameters struct {
	ringQ *ring.Ring
	sigma float64
}

// NewParametersFromLiteral instantiates a set of RLWE [Parameters] from a [ParametersLiteral].
func NewParametersFromLiteral(pl ParametersLiteral) (params Parameters, err error) {

	if pl.LogN < ring.MinLogN || pl.LogN > ring.MaxLogN {
		return params, fmt.Errorf("invalid ring degree: LogN=%d must be in [%d, %d]", pl.LogN, ring.MinLogN, ring.MaxLogN)
	}

	if pl.Sigma < 0 {
		return params, fmt.Errorf("invalid noise standard deviation: Sigma=%f must be non-negative", pl.Sigma)
	}

	if params.ringQ, err = ring.NewRing(1<<pl.LogN, pl.LogQ); err != nil {
		return params, fmt.Errorf("cannot NewParametersFromLiteral: %w", err)
	}

	params.sigma = pl.Sigma

	return
}

// ParametersLiteral returns the [ParametersLiteral] of the target [Parameters].
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{LogN: p.LogN(), LogQ: p.LogQ(), Sigma: p.sigma}
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

// LogQ returns log2 of the modulus.
func (p Parameters) LogQ() int {
	return p.ringQ.LogQ()
}

// Sigma returns the standard deviation of the encryption noise.
func (p Parameters) Sigma() float64 {
	return p.sigma
}

// Equal returns true if the two sets of parameters are identical.
func (p Parameters) Equal(other *Parameters) bool {
	return cmp.Equal(p.ParametersLiteral(), other.ParametersLiteral())
}
