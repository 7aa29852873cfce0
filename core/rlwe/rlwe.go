package rlwe

import (
	"fmt"

	"github.com/tuneinsight/ntrutfhe/ring"
	"github.com/tuneinsight/ntrutfhe/utils/sampling"
)

// SecretKey is an RLWE secret key with binary coefficients.
type SecretKey struct {
	Value ring.Poly
}

// NewSecretKey allocates a new zero [SecretKey].
func NewSecretKey(params Parameters) *SecretKey {
	return &SecretKey{Value: params.RingQ().NewPoly()}
}

// Ciphertext is a rank-1 RLWE ciphertext (a, b) with phase b - a*s.
type Ciphertext struct {
	Mask ring.Poly
	Body ring.Poly
}

// NewCiphertext allocates a new zero [Ciphertext].
func NewCiphertext(params Parameters) *Ciphertext {
	return &Ciphertext{
		Mask: params.RingQ().NewPoly(),
		Body: params.RingQ().NewPoly(),
	}
}

// N returns the ring degree of the ciphertext.
func (ct Ciphertext) N() int {
	return ct.Body.N()
}

// CopyNew returns a deep copy of the target.
func (ct Ciphertext) CopyNew() *Ciphertext {
	return &Ciphertext{Mask: ct.Mask.CopyNew(), Body: ct.Body.CopyNew()}
}

// Copy copies other on the target.
func (ct *Ciphertext) Copy(other *Ciphertext) {
	ct.Mask.Copy(other.Mask)
	ct.Body.Copy(other.Body)
}

// Zero sets the target to the trivial encryption of zero.
func (ct *Ciphertext) Zero() {
	ct.Mask.Zero()
	ct.Body.Zero()
}

// Equal performs a deep equal.
func (ct Ciphertext) Equal(other *Ciphertext) bool {
	return ct.Mask.Equal(other.Mask) && ct.Body.Equal(other.Body)
}

// KeyGenerator generates RLWE secret keys.
type KeyGenerator struct {
	params Parameters
	prng   sampling.PRNG
}

// NewKeyGenerator creates a new [KeyGenerator] reading its randomness from crypto/rand.
func NewKeyGenerator(params Parameters) *KeyGenerator {
	prng, err := sampling.NewPRNG()
	if err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}
	return &KeyGenerator{params: params, prng: prng}
}

// WithPRNG returns a copy of the [KeyGenerator] reading its randomness from prng.
func (kgen KeyGenerator) WithPRNG(prng sampling.PRNG) *KeyGenerator {
	return &KeyGenerator{params: kgen.params, prng: prng}
}

// GenSecretKeyNew generates a new [SecretKey] with coefficients uniform in {0, 1}.
func (kgen KeyGenerator) GenSecretKeyNew() (sk *SecretKey) {
	sk = NewSecretKey(kgen.params)
	ring.NewBinarySampler(kgen.prng, kgen.params.RingQ()).Read(sk.Value)
	return
}

func checkN(params Parameters, polys ...ring.Poly) error {
	for _, p := range polys {
		if p.N() != params.N() {
			return fmt.Errorf("ring degree %d does not match parameters ring degree %d", p.N(), params.N())
		}
	}
	return nil
}
