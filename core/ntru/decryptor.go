package ntru

import (
	"fmt"

	"github.com/tuneinsight/ntrutfhe/ring"
)

// Decryptor is a structure used to decrypt [Ciphertext]. It stores the secret key.
type Decryptor struct {
	params Parameters
	sk     *SecretKey
}

// NewDecryptor instantiates a new [Decryptor].
func NewDecryptor(params Parameters, sk *SecretKey) *Decryptor {

	if err := checkN(params, sk.F, sk.FInv); err != nil {
		panic(fmt.Errorf("cannot NewDecryptor: secret key: %w", err))
	}

	return &Decryptor{params: params, sk: sk}
}

// Phase writes f * ct on pt, in the native representation.
// pt can alias ct.Value.
func (dec Decryptor) Phase(ct *Ciphertext, pt ring.Poly) {

	if err := checkCiphertexts(dec.params, ct); err != nil {
		panic(fmt.Errorf("cannot Phase: %w", err))
	}

	if err := checkN(dec.params, pt); err != nil {
		panic(fmt.Errorf("cannot Phase: %w", err))
	}

	dec.params.RingQ().MulPoly(dec.sk.F, ct.Value, pt)
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

// DecryptConstantNGSW returns the small integer m in [0, 2^BaseLog) encrypted by an [NGSWCiphertext]
// generated with [Encryptor.EncryptConstantNGSW].
// The message is read on the row of the largest level, where the noise is the smallest relative to m.
func (dec Decryptor) DecryptConstantNGSW(ct *NGSWCiphertext) uint64 {

	if err := checkLogQ(dec.params, ct.LogQ); err != nil {
		panic(fmt.Errorf("cannot DecryptConstantNGSW: %w", err))
	}

	ringQ := dec.params.RingQ()
	d := ct.Decomposer()
	shift := 64 - ct.BaseLog*ct.LevelCount

	pt := ringQ.NewPoly()
	dec.Phase(&ct.Value[0], pt)

	// f * m * g + e -> f * m mod 2^(BaseLog*LevelCount)
	for i, c := range pt.Coeffs {
		pt.Coeffs[i] = d.ClosestRepresentable(c) >> shift
	}

	ringQ.MulPoly(dec.sk.FInv, pt, pt)

	return pt.Coeffs[0] & (1<<ct.BaseLog - 1)
}
