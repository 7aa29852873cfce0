package cmux

import (
	"fmt"

	"go.dedis.ch/onet/v3/log"

	"github.com/tuneinsight/ntrutfhe/core/lwe"
	"github.com/tuneinsight/ntrutfhe/core/ntru"
	"github.com/tuneinsight/ntrutfhe/core/rlwe"
	"github.com/tuneinsight/ntrutfhe/utils/sampling"
)

// BootstrapKey is the evaluation key of [Evaluator.Bootstrap].
// BRK[i] is an NGSW encryption of the i-th coefficient of the LWE secret under the NTRU secret.
type BootstrapKey struct {
	BRK          []ntru.NGSWCiphertext
	SwitchingKey ntru.SwitchingKey
}

// FourierBootstrapKey is the Fourier form of a [BootstrapKey].
type FourierBootstrapKey struct {
	BRK          []ntru.FourierNGSWCiphertext
	SwitchingKey ntru.FourierSwitchingKey
}

// CircuitBootstrapKey is the evaluation key of [Evaluator.CircuitBootstrap] and [Evaluator.CircuitBootstrapNGSW].
type CircuitBootstrapKey struct {
	BootstrapKey
	TraceKey            ntru.TraceKey
	NTRUToRLWEKey       ntru.NTRUToRLWEKey
	RLWESchemeSwitchKey ntru.RLWESchemeSwitchKey
	NTRUSchemeSwitchKey ntru.NTRUSchemeSwitchKey
}

// FourierCircuitBootstrapKey is the Fourier form of a [CircuitBootstrapKey].
type FourierCircuitBootstrapKey struct {
	FourierBootstrapKey
	TraceKey            ntru.FourierTraceKey
	NTRUToRLWEKey       ntru.FourierNTRUToRLWEKey
	RLWESchemeSwitchKey ntru.FourierRLWESchemeSwitchKey
	NTRUSchemeSwitchKey ntru.FourierNTRUSchemeSwitchKey
}

// KeyGenerator generates the evaluation keys of the bootstrapping procedures.
// The methods of [ntru.KeyGenerator] are available on it, [ntru.KeyGenerator.GenSecretKeyNew] in particular.
type KeyGenerator struct {
	*ntru.KeyGenerator
	params Parameters
}

// NewKeyGenerator creates a new [KeyGenerator] seeded from crypto/rand.
func NewKeyGenerator(params Parameters) *KeyGenerator {
	return &KeyGenerator{KeyGenerator: ntru.NewKeyGenerator(params.NTRUParameters()), params: params}
}

// NewKeyGeneratorFromSeed creates a new [KeyGenerator] whose outputs are fully determined by seed.
func NewKeyGeneratorFromSeed(params Parameters, seed []byte) (*KeyGenerator, error) {
	kgen, err := ntru.NewKeyGeneratorFromSeed(params.NTRUParameters(), seed)
	if err != nil {
		return nil, fmt.Errorf("cannot NewKeyGeneratorFromSeed: %w", err)
	}
	return &KeyGenerator{KeyGenerator: kgen, params: params}, nil
}

// WithPRNG returns a copy of the [KeyGenerator] reading all its randomness from prng.
func (kgen KeyGenerator) WithPRNG(prng sampling.PRNG) *KeyGenerator {
	return &KeyGenerator{KeyGenerator: kgen.KeyGenerator.WithPRNG(prng), params: kgen.params}
}

// GenBootstrapKeyNew generates a [BootstrapKey] from the binary LWE secret skLWE to the NTRU secret sk.
func (kgen KeyGenerator) GenBootstrapKeyNew(skLWE *lwe.SecretKey, sk *ntru.SecretKey) (bsk *BootstrapKey) {

	if n := kgen.params.LWEParameters().N(); len(skLWE.Value) != n {
		panic(fmt.Errorf("cannot GenBootstrapKeyNew: LWE secret dimension %d does not match parameters dimension %d", len(skLWE.Value), n))
	}

	br, swk := kgen.params.BlindRotationGadget(), kgen.params.SwitchingKeyGadget()

	log.Lvl2("Generating", len(skLWE.Value), "blind rotation keys with gadget", br)

	bsk = &BootstrapKey{BRK: make([]ntru.NGSWCiphertext, len(skLWE.Value))}
	for i, si := range skLWE.Value {
		if si > 1 {
			panic(fmt.Errorf("cannot GenBootstrapKeyNew: LWE secret coefficient %d is not binary", i))
		}
		bsk.BRK[i] = *kgen.GenConstantNGSWNew(sk, si, br.BaseLog, br.LevelCount)
	}

	bsk.SwitchingKey = *kgen.GenSwitchingKeyNew(sk, swk.BaseLog, swk.LevelCount)

	return
}

// GenCircuitBootstrapKeyNew generates a [CircuitBootstrapKey] from the binary LWE secret skLWE
// to the NTRU secret sk and the RLWE secret skRLWE.
func (kgen KeyGenerator) GenCircuitBootstrapKeyNew(skLWE *lwe.SecretKey, sk *ntru.SecretKey, skRLWE *rlwe.SecretKey) (cbk *CircuitBootstrapKey) {

	tr, ksk, ss := kgen.params.TraceGadget(), kgen.params.KeyswitchGadget(), kgen.params.SchemeSwitchGadget()
	paramsRLWE := kgen.params.RLWEParameters()

	cbk = &CircuitBootstrapKey{BootstrapKey: *kgen.GenBootstrapKeyNew(skLWE, sk)}

	cbk.TraceKey = *kgen.GenTraceKeyNew(sk, tr.BaseLog, tr.LevelCount)

	log.Lvl2("Generating scheme-switching keys")

	cbk.NTRUToRLWEKey = *kgen.GenNTRUToRLWEKeyNew(sk, paramsRLWE, skRLWE, ksk.BaseLog, ksk.LevelCount)
	cbk.RLWESchemeSwitchKey = *kgen.GenRLWESchemeSwitchKeyNew(paramsRLWE, skRLWE, ss.BaseLog, ss.LevelCount)
	cbk.NTRUSchemeSwitchKey = *kgen.GenNTRUSchemeSwitchKeyNew(sk, ss.BaseLog, ss.LevelCount)

	return
}

// ConvertBootstrapKeyNew returns the Fourier form of bsk, each family of keys with the
// [ntru.FFTType] of its gadget in the parameters.
func (eval Evaluator) ConvertBootstrapKeyNew(bsk *BootstrapKey) (fbsk *FourierBootstrapKey) {

	br := eval.params.BlindRotationGadget().FFTType()
	swk := eval.params.SwitchingKeyGadget().FFTType()

	fbsk = &FourierBootstrapKey{BRK: make([]ntru.FourierNGSWCiphertext, len(bsk.BRK))}
	for i := range bsk.BRK {
		fbsk.BRK[i] = *eval.ConvertNGSWNew(&bsk.BRK[i], br)
	}

	fbsk.SwitchingKey = *eval.ConvertSwitchingKeyNew(&bsk.SwitchingKey, swk)

	return
}

// ConvertCircuitBootstrapKeyNew returns the Fourier form of cbk, each family of keys with the
// [ntru.FFTType] of its gadget in the parameters.
func (eval Evaluator) ConvertCircuitBootstrapKeyNew(cbk *CircuitBootstrapKey) *FourierCircuitBootstrapKey {
	tr := eval.params.TraceGadget().FFTType()
	ksk := eval.params.KeyswitchGadget().FFTType()
	ss := eval.params.SchemeSwitchGadget().FFTType()
	return &FourierCircuitBootstrapKey{
		FourierBootstrapKey: *eval.ConvertBootstrapKeyNew(&cbk.BootstrapKey),
		TraceKey:            *eval.ConvertTraceKeyNew(&cbk.TraceKey, tr),
		NTRUToRLWEKey:       *eval.ConvertNTRUToRLWEKeyNew(&cbk.NTRUToRLWEKey, ksk),
		RLWESchemeSwitchKey: *eval.ConvertRLWESchemeSwitchKeyNew(&cbk.RLWESchemeSwitchKey, ss),
		NTRUSchemeSwitchKey: *eval.ConvertNTRUSchemeSwitchKeyNew(&cbk.NTRUSchemeSwitchKey, ss),
	}
}
