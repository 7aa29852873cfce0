package lwe

import (
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/tuneinsight/ntrutfhe/ring"
	"github.com/tuneinsight/ntrutfhe/utils/sampling"
)

// SecretKey is an LWE secret key. Its coefficients are plain integers
// stored in two's complement.
type SecretKey struct {
	Value []uint64
}

// NewSecretKey allocates a new zero [SecretKey].
func NewSecretKey(params Parameters) *SecretKey {
	return &SecretKey{Value: make([]uint64, params.N())}
}

// Ciphertext is an LWE sample (a, b) with phase b - <a, s>.
type Ciphertext struct {
	Mask []uint64
	Body uint64
}

// NewCiphertext allocates a new zero [Ciphertext].
func NewCiphertext(params Parameters) *Ciphertext {
	return &Ciphertext{Mask: make([]uint64, params.N())}
}

// N returns the dimension of the sample.
func (ct Ciphertext) N() int {
	return len(ct.Mask)
}

// CopyNew returns a deep copy of the target.
func (ct Ciphertext) CopyNew() *Ciphertext {
	return &Ciphertext{Mask: append([]uint64{}, ct.Mask...), Body: ct.Body}
}

// Copy copies other on the target.
func (ct *Ciphertext) Copy(other *Ciphertext) {
	copy(ct.Mask, other.Mask)
	ct.Body = other.Body
}

// Equal performs a deep equal.
func (ct Ciphertext) Equal(other *Ciphertext) bool {
	return ct.Body == other.Body && cmp.Equal(ct.Mask, other.Mask)
}

// KeyGenerator generates LWE secret keys.
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
	ring.NewBinarySampler(kgen.prng, nil).ReadSlice(sk.Value)
	return
}

// Encryptor encrypts plaintexts in Z_Q under a [SecretKey].
type Encryptor struct {
	params    Parameters
	sk        *SecretKey
	prng      sampling.PRNG
	xeSampler *ring.GaussianSampler
}

// NewEncryptor creates a new [Encryptor] reading its randomness from crypto/rand.
func NewEncryptor(params Parameters, sk *SecretKey) *Encryptor {

	if len(sk.Value) != params.N() {
		panic(fmt.Errorf("cannot NewEncryptor: secret key dimension %d does not match parameters dimension %d", len(sk.Value), params.N()))
	}

	prng, err := sampling.NewPRNG()
	if err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}

	return newEncryptor(params, sk, prng)
}

func newEncryptor(params Parameters, sk *SecretKey, prng sampling.PRNG) *Encryptor {
	return &Encryptor{
		params:    params,
		sk:        sk,
		prng:      prng,
		xeSampler: ring.NewGaussianSampler(prng, nil, ring.DiscreteGaussian{Sigma: params.Sigma()}),
	}
}

// WithPRNG returns a copy of the [Encryptor] reading its randomness from prng.
func (enc Encryptor) WithPRNG(prng sampling.PRNG) *Encryptor {
	return newEncryptor(enc.params, enc.sk, prng)
}

// EncryptNew encrypts pt in [0, Q) and returns the result in a new [Ciphertext].
func (enc Encryptor) EncryptNew(pt uint64) (ct *Ciphertext) {
	ct = NewCiphertext(enc.params)
	enc.Encrypt(pt, ct)
	return
}

// Encrypt encrypts pt in [0, Q) and writes the result on ct.
func (enc Encryptor) Encrypt(pt uint64, ct *Ciphertext) {

	if ct.N() != enc.params.N() {
		panic(fmt.Errorf("cannot Encrypt: ciphertext dimension %d does not match parameters dimension %d", ct.N(), enc.params.N()))
	}

	shift := enc.params.TorusShift()
	q := uint64(1) << enc.params.LogQ()

	var body uint64
	for i, si := range enc.sk.Value {
		ct.Mask[i] = sampling.RandUint64N(enc.prng, q) << shift
		body += ct.Mask[i] * si
	}

	var e [1]uint64
	enc.xeSampler.Read(ring.PolyFromBuffer(e[:]))

	ct.Body = body + (pt+e[0])<<shift
}

// Decryptor decrypts LWE samples.
type Decryptor struct {
	params Parameters
	sk     *SecretKey
}

// NewDecryptor creates a new [Decryptor].
func NewDecryptor(params Parameters, sk *SecretKey) *Decryptor {

	if len(sk.Value) != params.N() {
		panic(fmt.Errorf("cannot NewDecryptor: secret key dimension %d does not match parameters dimension %d", len(sk.Value), params.N()))
	}

	return &Decryptor{params: params, sk: sk}
}

// Phase returns b - <a, s> in the native representation.
func (dec Decryptor) Phase(ct *Ciphertext) (phase uint64) {

	if ct.N() != len(dec.sk.Value) {
		panic(fmt.Errorf("cannot Phase: ciphertext dimension %d does not match secret key dimension %d", ct.N(), len(dec.sk.Value)))
	}

	phase = ct.Body
	for i, si := range dec.sk.Value {
		phase -= ct.Mask[i] * si
	}
	return
}

// Decrypt returns the phase of ct in [0, Q). No rounding is performed.
func (dec Decryptor) Decrypt(ct *Ciphertext) uint64 {
	return dec.Phase(ct) >> dec.params.TorusShift()
}
