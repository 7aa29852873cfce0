package ntru

import (
	"fmt"

	"github.com/tuneinsight/ntrutfhe/ring"
	"github.com/tuneinsight/ntrutfhe/utils/sampling"
)

// Encryptor is a structure used to encrypt plaintexts under a [SecretKey].
// An Encryptor is not safe for concurrent use.
type Encryptor struct {
	params    Parameters
	sk        *SecretKey
	prng      sampling.PRNG
	xeSampler *ring.GaussianSampler
	buff      ring.Poly
}

// NewEncryptor creates a new [Encryptor] reading its randomness from crypto/rand.
func NewEncryptor(params Parameters, sk *SecretKey) *Encryptor {

	if err := checkN(params, sk.F, sk.FInv); err != nil {
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
		params:    params,
		sk:        sk,
		prng:      prng,
		xeSampler: ring.NewGaussianSampler(prng, params.RingQ(), ring.DiscreteGaussian{Sigma: params.Sigma()}),
		buff:      params.RingQ().NewPoly(),
	}
}

// WithPRNG returns a copy of the [Encryptor] reading its randomness from prng.
func (enc Encryptor) WithPRNG(prng sampling.PRNG) *Encryptor {
	return newEncryptor(enc.params, enc.sk, prng)
}

// GetNTRUParameters returns the parameters of the target.
func (enc Encryptor) GetNTRUParameters() *Parameters {
	return &enc.params
}

// encryptNative writes on ct the encryption of the buffer, read in the native representation.
func (enc Encryptor) encryptNative(ct *Ciphertext) {
	ringQ := enc.params.RingQ()
	enc.xeSampler.ReadScaledAndAdd(enc.buff, 1<<ringQ.TorusShift())
	ringQ.MulPoly(enc.sk.FInv, enc.buff, ct.Value)
}

// EncryptZero generates a fresh encryption of zero on ct.
func (enc Encryptor) EncryptZero(ct *Ciphertext) {

	if err := checkCiphertexts(enc.params, ct); err != nil {
		panic(fmt.Errorf("cannot EncryptZero: %w", err))
	}

	enc.buff.Zero()
	enc.encryptNative(ct)
}

// Encrypt encrypts pt, with coefficients in [0, Q), and writes the result on ct.
func (enc Encryptor) Encrypt(pt ring.Poly, ct *Ciphertext) {

	if err := checkN(enc.params, pt); err != nil {
		panic(fmt.Errorf("cannot Encrypt: %w", err))
	}

	if err := checkCiphertexts(enc.params, ct); err != nil {
		panic(fmt.Errorf("cannot Encrypt: %w", err))
	}

	ringQ := enc.params.RingQ()
	ringQ.MulScalar(pt, 1<<ringQ.TorusShift(), enc.buff)
	enc.encryptNative(ct)
}

// EncryptNew encrypts pt, with coefficients in [0, Q), and returns the result in a new [Ciphertext].
func (enc Encryptor) EncryptNew(pt ring.Poly) (ct *Ciphertext) {
	ct = NewCiphertext(enc.params)
	enc.Encrypt(pt, ct)
	return
}

// EncryptConstantNGSW encrypts the small integer m as an [NGSWCiphertext].
// The row of level l holds EncryptZero + m * 2^(64 - BaseLog*l) on its constant coefficient.
func (enc Encryptor) EncryptConstantNGSW(m uint64, ct *NGSWCiphertext) {
	enc.EncryptMonomialNGSW(m, 0, ct)
}

// EncryptMonomialNGSW encrypts m * X^degree as an [NGSWCiphertext], for any integer degree.
func (enc Encryptor) EncryptMonomialNGSW(m uint64, degree int, ct *NGSWCiphertext) {

	if err := checkLogQ(enc.params, ct.LogQ); err != nil {
		panic(fmt.Errorf("cannot EncryptMonomialNGSW: %w", err))
	}

	N := enc.params.N()

	degree %= 2 * N
	if degree < 0 {
		degree += 2 * N
	}

	if degree >= N {
		m = -m
		degree -= N
	}

	d := ct.Decomposer()

	for r := range ct.Value {
		enc.EncryptZero(&ct.Value[r])
		ct.Value[r].Value.Coeffs[degree] += d.RecompositionSummand(ct.LevelCount-r, m)
	}
}

// encryptGadget writes on ct the rows FInv * (src * g_l + e) for each level l of the gadget of ct.
// src is read as small integers.
func (enc Encryptor) encryptGadget(src ring.Poly, ct *NGSWCiphertext) {

	if err := checkLogQ(enc.params, ct.LogQ); err != nil {
		panic(fmt.Errorf("cannot encrypt gadget: %w", err))
	}

	ringQ := enc.params.RingQ()
	d := ct.Decomposer()

	for r := range ct.Value {
		ringQ.MulScalar(src, d.Gadget(ct.LevelCount-r), enc.buff)
		enc.encryptNative(&ct.Value[r])
	}
}
