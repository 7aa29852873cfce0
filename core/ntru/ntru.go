// Package ntru implements NTRU encryption over Z_Q[X]/(X^N+1) with Q a power of two,
// the NGSW ciphertexts, the external product, and the family of key-switching keys
// used by the bootstrapping procedures.
//
// A ciphertext c of m under the secret key f satisfies f*c = m + e mod Q. Ciphertexts are
// stored in the native representation of [ring.Ring].
package ntru

import (
	"fmt"

	"github.com/tuneinsight/ntrutfhe/core/lwe"
	"github.com/tuneinsight/ntrutfhe/ring"
)

// SecretKey is an NTRU secret key.
// F has small coefficients stored in two's complement and FInv is its inverse modulo (X^N+1, 2^64),
// hence also modulo (X^N+1, Q).
type SecretKey struct {
	F    ring.Poly
	FInv ring.Poly
}

// NewSecretKey allocates a new zero [SecretKey].
func NewSecretKey(params Parameters) *SecretKey {
	return &SecretKey{
		F:    params.RingQ().NewPoly(),
		FInv: params.RingQ().NewPoly(),
	}
}

// LWESecretKey returns the LWE secret key of the samples extracted with [SampleExtract].
func (sk SecretKey) LWESecretKey() *lwe.SecretKey {
	return &lwe.SecretKey{Value: append([]uint64{}, sk.F.Coeffs...)}
}

// Ciphertext is an NTRU ciphertext modulo 2^LogQ.
type Ciphertext struct {
	Value ring.Poly
	LogQ  int
}

// NewCiphertext allocates a new zero [Ciphertext].
func NewCiphertext(params Parameters) *Ciphertext {
	return &Ciphertext{Value: params.RingQ().NewPoly(), LogQ: params.LogQ()}
}

// N returns the ring degree of the ciphertext.
func (ct Ciphertext) N() int {
	return ct.Value.N()
}

// CopyNew returns a deep copy of the target.
func (ct Ciphertext) CopyNew() *Ciphertext {
	return &Ciphertext{Value: ct.Value.CopyNew(), LogQ: ct.LogQ}
}

// Copy copies other on the target.
func (ct *Ciphertext) Copy(other *Ciphertext) {
	ct.Value.Copy(other.Value)
	ct.LogQ = other.LogQ
}

// Equal performs a deep equal.
func (ct Ciphertext) Equal(other *Ciphertext) bool {
	return ct.LogQ == other.LogQ && ct.Value.Equal(other.Value)
}

// NGSWCiphertext is a list of LevelCount NTRU ciphertexts modulo 2^LogQ, Value[r] being the
// encryption of the decomposition term of level LevelCount-r.
type NGSWCiphertext struct {
	Value      []Ciphertext
	BaseLog    int
	LevelCount int
	LogQ       int
}

// NewNGSWCiphertext allocates a new zero [NGSWCiphertext].
func NewNGSWCiphertext(params Parameters, baseLog, levelCount int) *NGSWCiphertext {

	// Sanity check of the decomposition parameters
	ring.NewSignedDecomposer(baseLog, levelCount)

	value := make([]Ciphertext, levelCount)
	for r := range value {
		value[r] = *NewCiphertext(params)
	}

	return &NGSWCiphertext{Value: value, BaseLog: baseLog, LevelCount: levelCount, LogQ: params.LogQ()}
}

// Decomposer returns the [ring.SignedDecomposer] of the target.
func (ct NGSWCiphertext) Decomposer() ring.SignedDecomposer {
	return ring.NewSignedDecomposer(ct.BaseLog, ct.LevelCount)
}

// Equal performs a deep equal.
func (ct NGSWCiphertext) Equal(other *NGSWCiphertext) bool {

	if ct.BaseLog != other.BaseLog || ct.LevelCount != other.LevelCount || ct.LogQ != other.LogQ || len(ct.Value) != len(other.Value) {
		return false
	}

	for r := range ct.Value {
		if !ct.Value[r].Equal(&other.Value[r]) {
			return false
		}
	}

	return true
}

func checkN(params Parameters, polys ...ring.Poly) error {
	for _, p := range polys {
		if p.N() != params.N() {
			return fmt.Errorf("ring degree %d does not match parameters ring degree %d", p.N(), params.N())
		}
	}
	return nil
}

// checkCiphertexts checks that each ciphertext has the ring degree and the modulus of params.
func checkCiphertexts(params Parameters, cts ...*Ciphertext) error {
	for _, ct := range cts {
		if err := checkN(params, ct.Value); err != nil {
			return err
		}
		if err := checkLogQ(params, ct.LogQ); err != nil {
			return err
		}
	}
	return nil
}

func checkLogQ(params Parameters, logQ int) error {
	if logQ != params.LogQ() {
		return fmt.Errorf("modulus 2^%d does not match parameters modulus 2^%d", logQ, params.LogQ())
	}
	return nil
}
