package ntru

import (
	"github.com/tuneinsight/ntrutfhe/core/rlwe"
	"github.com/tuneinsight/ntrutfhe/ring"
)

// KeyswitchKey is a list of NTRU encryptions of a source polynomial times each level of a gadget.
// It is applied with a decomposition of the input followed by an inner product.
type KeyswitchKey struct {
	NGSWCiphertext
}

// SwitchingKey is a [KeyswitchKey] of the constant 1. It re-encrypts a plaintext given
// in the clear into an NTRU ciphertext.
type SwitchingKey struct {
	KeyswitchKey
}

// AutomorphismKey is a [KeyswitchKey] from f(X^GaloisElement) to f.
type AutomorphismKey struct {
	GaloisElement uint64
	KeyswitchKey
}

// TraceKey is the list of [AutomorphismKey] used by [Evaluator.ReverseTrace].
// Keys[k-1] is the key of the automorphism X -> X^(2^k+1).
type TraceKey struct {
	Keys []AutomorphismKey
}

// NTRUSchemeSwitchKey is a [KeyswitchKey] from f^2 to f.
type NTRUSchemeSwitchKey struct {
	KeyswitchKey
}

// RLWEGadgetCiphertext is a list of RLWE ciphertexts, Value[r] being associated with
// the level LevelCount-r of a gadget.
type RLWEGadgetCiphertext struct {
	Value      []rlwe.Ciphertext
	BaseLog    int
	LevelCount int
	LogQ       int
}

// NewRLWEGadgetCiphertext allocates a new zero [RLWEGadgetCiphertext].
func NewRLWEGadgetCiphertext(params rlwe.Parameters, baseLog, levelCount int) *RLWEGadgetCiphertext {

	// Sanity check of the decomposition parameters
	ring.NewSignedDecomposer(baseLog, levelCount)

	value := make([]rlwe.Ciphertext, levelCount)
	for r := range value {
		value[r] = *rlwe.NewCiphertext(params)
	}

	return &RLWEGadgetCiphertext{Value: value, BaseLog: baseLog, LevelCount: levelCount, LogQ: params.LogQ()}
}

// Decomposer returns the [ring.SignedDecomposer] of the target.
func (ct RLWEGadgetCiphertext) Decomposer() ring.SignedDecomposer {
	return ring.NewSignedDecomposer(ct.BaseLog, ct.LevelCount)
}

// NTRUToRLWEKey maps an NTRU ciphertext under f to an RLWE ciphertext of the same message under s.
// Its row of level l encrypts f * 2^(64 - BaseLog*l) under s.
type NTRUToRLWEKey struct {
	RLWEGadgetCiphertext
}

// RLWESchemeSwitchKey maps an RLWE encryption of m under s to an RLWE encryption of -s*m under s.
type RLWESchemeSwitchKey struct {
	RLWEGadgetCiphertext
}

// FourierKeyswitchKey is the Fourier form of a [KeyswitchKey].
type FourierKeyswitchKey struct {
	FourierNGSWCiphertext
}

// FourierSwitchingKey is the Fourier form of a [SwitchingKey].
type FourierSwitchingKey struct {
	FourierKeyswitchKey
}

// FourierAutomorphismKey is the Fourier form of an [AutomorphismKey].
type FourierAutomorphismKey struct {
	GaloisElement uint64
	FourierKeyswitchKey
}

// FourierTraceKey is the Fourier form of a [TraceKey].
type FourierTraceKey struct {
	Keys []FourierAutomorphismKey
}

// FourierNTRUSchemeSwitchKey is the Fourier form of an [NTRUSchemeSwitchKey].
type FourierNTRUSchemeSwitchKey struct {
	FourierKeyswitchKey
}

// FourierNTRUToRLWEKey is the Fourier form of an [NTRUToRLWEKey].
type FourierNTRUToRLWEKey struct {
	FourierRLWEGadgetCiphertext
}

// FourierRLWESchemeSwitchKey is the Fourier form of an [RLWESchemeSwitchKey].
type FourierRLWESchemeSwitchKey struct {
	FourierRLWEGadgetCiphertext
}
