package rlwe

import (
	"fmt"

	"github.com/tuneinsight/ntrutfhe/ring"
	"github.com/tuneinsight/ntrutfhe/utils/sampling"
)

// Encryptor is a structure used to encrypt plaintexts under a [SecretKey].
type Encryptor struct {
	params         Parameters
	sk             *SecretKey
	prng           sampling.PRNG
	xeSampler      *ring.GaussianSampler
	uniformSampler *ring.UniformSampler
}

// NewEncryptor creates a new [Encryptor] reading its randomness from crypto/rand.
func NewEncryptor(params Parameters, sk *SecretKey) *Encryptor {

	if err := checkN(params, sk.Value); err != nil {
		panic(fmt.Errorf("cannot NewEncryptor: secret key: %w", err))
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
		params:         params,
		sk:             sk,
		prng:           prng,
		xeSampler:      ring.NewGaussianSampler(prng, params.RingQ(), ring.DiscreteGaussian{Sigma: params.Sigma()}),
		uniformSampler: ring.NewUniformSampler(prng, params.RingQ()),
	}
}

// WithPRNG returns a copy of the [Encryptor] reading its randomness from prng.
func (enc Encryptor) WithPRNG(prng sampling.PRNG) *Encryptor {
	return newEncryptor(enc.params, enc.sk, prng)
}

// EncryptZero generates a fresh encryption of zero on ct.
func (enc Encryptor) EncryptZero(ct *Ciphertext) {

	if err := checkN(enc.params, ct.Mask, ct.Body); err != nil {
		panic(fmt.Errorf("cannot EncryptZero: ciphertext: %w", err))
	}

	ringQ := enc.params.RingQ()

	enc.uniformSampler.Read(ct.Mask)
	ringQ.MulPoly(ct.Mask, enc.sk.Value, ct.Body)
	enc.xeSampler.ReadScaledAndAdd(ct.Body, 1<<ringQ.TorusShift())
}

// Encrypt encrypts pt, with coefficients in [0, Q), and writes the result on ct.
func (enc Encryptor) Encrypt(pt ring.Poly, ct *Ciphertext) {
	enc.EncryptZero(ct)
	enc.params.RingQ().MulScalarThenAdd(pt, 1<<enc.params.RingQ().TorusShift(), ct.Body)
}

// EncryptNew encrypts pt, with coefficients in [0, Q), and returns the result in a new [Ciphertext].
func (enc Encryptor) EncryptNew(pt ring.Poly) (ct *Ciphertext) {
	ct = NewCiphertext(enc.params)
	enc.Encrypt(pt, ct)
	return
}

// EncryptGGSW encrypts the small integer m as a [GGSWCiphertext] of the decomposition of ct.
// The level of gadget g adds m*g on the mask of its first row and on the body of its second row.
func (enc Encryptor) EncryptGGSW(m uint64, ct *GGSWCiphertext) {

	d := ring.NewSignedDecomposer(ct.BaseLog, ct.LevelCount)

	for r := range ct.Value {
		factor := d.RecompositionSummand(ct.LevelCount-r, m)
		enc.EncryptZero(&ct.Value[r][0])
		ct.Value[r][0].Mask.Coeffs[0] += factor
		enc.EncryptZero(&ct.Value[r][1])
		ct.Value[r][1].Body.Coeffs[0] += factor
	}
}

// Decryptor is a structure used to decrypt [Ciphertext]. It stores the secret key.
type Decryptor struct {
	params Parameters
	sk     *SecretKey
}

// NewDecryptor instantiates a new [Decryptor].
func NewDecryptor(params Parameters, sk *SecretKey) *Decryptor {

	if err := checkN(params, sk.Value); err != nil {
		panic(fmt.Errorf("cannot NewDecryptor: secret key: %w", err))
	}

	return &Decryptor{params: params, sk: sk}
}

// Phase writes b - a*s on pt, in the native representation.
func (dec Decryptor) Phase(ct *Ciphertext, pt ring.Poly) {

	if err := checkN(dec.params, ct.Mask, ct.Body, pt); err != nil {
		panic(fmt.Errorf("cannot Phase: %w", err))
	}

	ringQ := dec.params.RingQ()
	ringQ.MulPoly(ct.Mask, dec.sk.Value, pt)
	ringQ.Sub(ct.Body, pt, pt)
}

// Decrypt writes the phase of ct on pt, with coefficients in [0, Q).
// No rounding is performed.
func (dec Decryptor) Decrypt(ct *Ciphertext, pt ring.Poly) {
	dec.Phase(ct, pt)
	shift := dec.params.RingQ().TorusShift()
	for i := range pt.Coeffs {
		pt.Coeffs[i] >>= shift
	}
}

// DecryptNew decrypts ct and returns the result in a new polynomial.
func (dec Decryptor) DecryptNew(ct *Ciphertext) (pt ring.Poly) {
	pt = dec.params.RingQ().NewPoly()
	dec.Decrypt(ct, pt)
	return
}
