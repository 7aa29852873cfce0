// Package ring implements arithmetic over the negacyclic ring Z_Q[X]/(X^N+1)
// for power-of-two moduli Q = 2^logQ.
//
// Ciphertext coefficients are stored in the most significant bits of an uint64:
// a value v mod 2^logQ is represented by v * 2^(64-logQ). Reduction modulo Q is
// then implicit in the wrapping arithmetic of uint64, and every power-of-two
// modulus shares the same code path.
package ring

import (
	"fmt"
	"math/bits"

	"github.com/tuneinsight/ntrutfhe/utils"
)

const (
	// MinLogN is the log2 of the smallest supported ring degree.
	MinLogN = 1
	// MaxLogN is the log2 of the largest supported ring degree.
	MaxLogN = 17
	// GaloisGen is the generator of the automorphism group of Z[X]/(X^N+1) (together with -1).
	GaloisGen uint64 = 5
)

// Ring is a struct storing the degree N and the power-of-two modulus 2^logQ
// of the ring Z_Q[X]/(X^N+1).
type Ring struct {
	n    int
	logN int
	logQ int
}

// NewRing creates a new [Ring] of degree N and modulus 2^logQ.
// N must be a power of two with MinLogN <= log2(N) <= MaxLogN
// and logQ must be in [1, 64].
func NewRing(N, logQ int) (r *Ring, err error) {

	if !utils.IsPowerOfTwo(N) {
		return nil, fmt.Errorf("invalid ring degree: N=%d is not a power of two", N)
	}

	logN := bits.Len64(uint64(N)) - 1

	if logN < MinLogN || logN > MaxLogN {
		return nil, fmt.Errorf("invalid ring degree: logN=%d must be in [%d, %d]", logN, MinLogN, MaxLogN)
	}

	if logQ < 1 || logQ > 64 {
		return nil, fmt.Errorf("invalid modulus: logQ=%d must be in [1, 64]", logQ)
	}

	return &Ring{n: N, logN: logN, logQ: logQ}, nil
}

// N returns the ring degree.
func (r Ring) N() int {
	return r.n
}

// LogN returns log2(N).
func (r Ring) LogN() int {
	return r.logN
}

// LogQ returns log2(Q).
func (r Ring) LogQ() int {
	return r.logQ
}

// IsNative returns true if Q = 2^64.
func (r Ring) IsNative() bool {
	return r.logQ == 64
}

// TorusShift returns 64-logQ, the number of unused least significant bits of each coefficient.
func (r Ring) TorusShift() int {
	return 64 - r.logQ
}

// Scale returns the native representation v * 2^(64-logQ) of v mod Q.
func (r Ring) Scale(v uint64) uint64 {
	return v << r.TorusShift()
}

// Unscale returns the value mod Q of the native representation v.
// The unused least significant bits are discarded without rounding.
func (r Ring) Unscale(v uint64) uint64 {
	return v >> r.TorusShift()
}

// NewPoly allocates a new zero [Poly] of degree N.
func (r Ring) NewPoly() Poly {
	return NewPoly(r.n)
}

// Equal returns true if the two rings share the same degree and modulus.
func (r Ring) Equal(other *Ring) bool {
	return r.n == other.n && r.logQ == other.logQ
}

// String returns a short description of the ring.
func (r Ring) String() string {
	return fmt.Sprintf("N=%d/logQ=%d", r.n, r.logQ)
}
