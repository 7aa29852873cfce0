// Package lwe implements the scalar LWE samples consumed and produced by the bootstrapping procedures.
// Samples are stored in the native representation: a value v mod 2^logQ is stored as v * 2^(64-logQ).
package lwe

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
)

// ParametersLiteral is a literal representation of LWE parameters.
// Sigma is the standard deviation of the encryption noise, in units of Z_Q.
type ParametersLiteral struct {
	N     int
	LogQ  int
	Sigma float64
}

// Parameters represents a set of validated LWE parameters.
type Parameters struct {
	n     int
	logQ  int
	sigma float64
}

// NewParametersFromLiteral instantiates a set of LWE [Parameters] from a [ParametersLiteral].
func NewParametersFromLiteral(pl ParametersLiteral) (params Parameters, err error) {

	if pl.N < 1 {
		return params, fmt.Errorf("invalid LWE dimension: N=%d must be positive", pl.N)
	}

	if pl.LogQ < 1 || pl.LogQ > 64 {
		return params, fmt.Errorf("invalid modulus: LogQ=%d must be in [1, 64]", pl.LogQ)
	}

	if pl.Sigma < 0 {
		return params, fmt.Errorf("invalid noise standard deviation: Sigma=%f must be non-negative", pl.Sigma)
	}

	return Parameters{n: pl.N, logQ: pl.LogQ, sigma: pl.Sigma}, nil
}

// ParametersLiteral returns the [ParametersLiteral] of the target [Parameters].
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{N: p.n, LogQ: p.logQ, Sigma: p.sigma}
}

// N returns the LWE dimension.
func (p Parameters) N() int {
	return p.n
}

// LogQ returns log2 of the modulus.
func (p Parameters) LogQ() int {
	return p.logQ
}

// Sigma returns the standard deviation of the encryption noise.
func (p Parameters) Sigma() float64 {
	return p.sigma
}

// TorusShift returns 64-LogQ.
func (p Parameters) TorusShift() int {
	return 64 - p.logQ
}

// Equal returns true if the two sets of parameters are identical.
func (p Parameters) Equal(other *Parameters) bool {
	return cmp.Equal(p.ParametersLiteral(), other.ParametersLiteral())
}
