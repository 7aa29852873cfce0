package ntru

import (
	"fmt"

	"go.dedis.ch/onet/v3/log"

	"github.com/tuneinsight/ntrutfhe/core/rlwe"
	"github.com/tuneinsight/ntrutfhe/ring"
	"github.com/tuneinsight/ntrutfhe/utils/sampling"
)

// KeyGenerator is a structure that stores the elements required to create new keys.
// The secret keys and the noise of the evaluation keys are sampled from two
// independent streams derived from a single seed.
type KeyGenerator struct {
	params     Parameters
	secretPRNG sampling.PRNG
	noisePRNG  sampling.PRNG
}

// NewKeyGenerator creates a new [KeyGenerator] seeded from crypto/rand.
func NewKeyGenerator(params Parameters) *KeyGenerator {
	kgen, err := NewKeyGeneratorFromSeed(params, sampling.NewSeed())
	if err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}
	return kgen
}

// NewKeyGeneratorFromSeed creates a new [KeyGenerator] whose outputs are fully determined by seed.
func NewKeyGeneratorFromSeed(params Parameters, seed []byte) (*KeyGenerator, error) {

	secretPRNG, err := sampling.NewDerivedPRNG(seed, "ntru secret")
	if err != nil {
		return nil, fmt.Errorf("cannot NewKeyGeneratorFromSeed: %w", err)
	}

	noisePRNG, err := sampling.NewDerivedPRNG(seed, "ntru noise")
	if err != nil {
		return nil, fmt.Errorf("cannot NewKeyGeneratorFromSeed: %w", err)
	}

	return &KeyGenerator{params: params, secretPRNG: secretPRNG, noisePRNG: noisePRNG}, nil
}

// WithPRNG returns a copy of the [KeyGenerator] reading all its randomness from prng.
func (kgen KeyGenerator) WithPRNG(prng sampling.PRNG) *KeyGenerator {
	return &KeyGenerator{params: kgen.params, secretPRNG: prng, noisePRNG: prng}
}

// GenSecretKeyNew generates a new [SecretKey] with f sampled from the secret distribution
// of the parameters. Samples that are not invertible modulo (X^N+1, 2^64) are rejected.
func (kgen KeyGenerator) GenSecretKeyNew() (sk *SecretKey) {
	sampler, err := ring.NewSampler(kgen.secretPRNG, kgen.params.RingQ(), kgen.params.Xs())
	if err != nil {
		// Sanity check, this error should not happen: the distribution is validated with the parameters.
		panic(err)
	}
	return kgen.genSecretKeyNew(sampler)
}

// GenGaussianSecretKeyNew generates a new [SecretKey] with f sampled from the discrete Gaussian
// distribution of the encryption noise. Samples that are not invertible are rejected.
func (kgen KeyGenerator) GenGaussianSecretKeyNew() (sk *SecretKey) {
	return kgen.genSecretKeyNew(ring.NewGaussianSampler(kgen.secretPRNG, kgen.params.RingQ(), ring.DiscreteGaussian{Sigma: kgen.params.Sigma()}))
}

func (kgen KeyGenerator) genSecretKeyNew(sampler ring.Sampler) (sk *SecretKey) {

	ringQ := kgen.params.RingQ()

	sk = NewSecretKey(kgen.params)

	for i := 0; ; i++ {

		sampler.Read(sk.F)

		var ok bool
		if sk.FInv, ok = ringQ.InverseModPowerOfTwo(sk.F, 64); ok {
			return
		}

		log.Lvl3("NTRU secret key sample", i, "is not invertible, resampling")
	}
}

// GenConstantNGSWNew returns a fresh [NGSWCiphertext] of the small integer m under sk,
// drawing its noise from the key-generation stream.
func (kgen KeyGenerator) GenConstantNGSWNew(sk *SecretKey, m uint64, baseLog, levelCount int) (ct *NGSWCiphertext) {
	ct = NewNGSWCiphertext(kgen.params, baseLog, levelCount)
	newEncryptor(kgen.params, sk, kgen.noisePRNG).EncryptConstantNGSW(m, ct)
	return
}

// GenKeyswitchKeyNew generates a [KeyswitchKey] from skIn to skOut: its row of level l encrypts
// fIn * 2^(64 - baseLog*l) under skOut.
func (kgen KeyGenerator) GenKeyswitchKeyNew(skIn, skOut *SecretKey, baseLog, levelCount int) (ksk *KeyswitchKey) {
	ksk = &KeyswitchKey{NGSWCiphertext: *NewNGSWCiphertext(kgen.params, baseLog, levelCount)}
	kgen.genKeyswitchKey(skIn.F, skOut, &ksk.NGSWCiphertext)
	return
}

func (kgen KeyGenerator) genKeyswitchKey(src ring.Poly, skOut *SecretKey, ct *NGSWCiphertext) {
	newEncryptor(kgen.params, skOut, kgen.noisePRNG).encryptGadget(src, ct)
}

// GenSwitchingKeyNew generates a [SwitchingKey], which re-encrypts plaintexts given in the
// native representation into NTRU ciphertexts under sk.
func (kgen KeyGenerator) GenSwitchingKeyNew(sk *SecretKey, baseLog, levelCount int) (swk *SwitchingKey) {
	one := kgen.params.RingQ().NewPoly()
	one.Coeffs[0] = 1
	swk = &SwitchingKey{KeyswitchKey: KeyswitchKey{NGSWCiphertext: *NewNGSWCiphertext(kgen.params, baseLog, levelCount)}}
	kgen.genKeyswitchKey(one, sk, &swk.NGSWCiphertext)
	return
}

// GenAutomorphismKeyNew generates an [AutomorphismKey] for the automorphism X -> X^galEl.
// galEl must be odd.
func (kgen KeyGenerator) GenAutomorphismKeyNew(sk *SecretKey, galEl uint64, baseLog, levelCount int) (atk *AutomorphismKey) {

	ringQ := kgen.params.RingQ()

	fAut := ringQ.NewPoly()
	ringQ.Automorphism(sk.F, galEl, fAut)

	atk = &AutomorphismKey{
		GaloisElement: galEl & (2*uint64(kgen.params.N()) - 1),
		KeyswitchKey:  KeyswitchKey{NGSWCiphertext: *NewNGSWCiphertext(kgen.params, baseLog, levelCount)},
	}

	kgen.genKeyswitchKey(fAut, sk, &atk.NGSWCiphertext)
	return
}

// GenTraceKeyNew generates the [TraceKey] of the automorphisms X -> X^(2^k+1) for k = 1, ..., LogN.
func (kgen KeyGenerator) GenTraceKeyNew(sk *SecretKey, baseLog, levelCount int) (tk *TraceKey) {

	logN := kgen.params.LogN()

	log.Lvl2("Generating trace key with", logN, "automorphism keys")

	tk = &TraceKey{Keys: make([]AutomorphismKey, logN)}
	for k := 1; k <= logN; k++ {
		tk.Keys[k-1] = *kgen.GenAutomorphismKeyNew(sk, 1<<k+1, baseLog, levelCount)
	}

	return
}

// GenNTRUSchemeSwitchKeyNew generates an [NTRUSchemeSwitchKey], which maps an NTRU encryption of m
// on the corresponding row of an [NGSWCiphertext] of m.
func (kgen KeyGenerator) GenNTRUSchemeSwitchKeyNew(sk *SecretKey, baseLog, levelCount int) (ssk *NTRUSchemeSwitchKey) {

	ringQ := kgen.params.RingQ()

	f2 := ringQ.NewPoly()
	ringQ.MulPoly(sk.F, sk.F, f2)

	ssk = &NTRUSchemeSwitchKey{KeyswitchKey: KeyswitchKey{NGSWCiphertext: *NewNGSWCiphertext(kgen.params, baseLog, levelCount)}}
	kgen.genKeyswitchKey(f2, sk, &ssk.NGSWCiphertext)
	return
}

// GenNTRUToRLWEKeyNew generates an [NTRUToRLWEKey] from the NTRU key sk to the RLWE key skRLWE:
// its row of level l is an RLWE encryption of f * 2^(64 - baseLog*l).
// rlweParams must share the ring of the NTRU parameters.
func (kgen KeyGenerator) GenNTRUToRLWEKeyNew(sk *SecretKey, rlweParams rlwe.Parameters, skRLWE *rlwe.SecretKey, baseLog, levelCount int) (key *NTRUToRLWEKey) {

	kgen.checkRLWEParameters(rlweParams)

	ringQ := rlweParams.RingQ()

	key = &NTRUToRLWEKey{RLWEGadgetCiphertext: *NewRLWEGadgetCiphertext(rlweParams, baseLog, levelCount)}

	enc := rlwe.NewEncryptor(rlweParams, skRLWE).WithPRNG(kgen.noisePRNG)
	d := key.Decomposer()

	for r := range key.Value {
		enc.EncryptZero(&key.Value[r])
		ringQ.MulScalarThenAdd(sk.F, d.Gadget(key.LevelCount-r), key.Value[r].Body)
	}

	return
}

// GenRLWESchemeSwitchKeyNew generates an [RLWESchemeSwitchKey] for the RLWE key skRLWE:
// its row of level l is an RLWE encryption of zero whose mask is shifted by s * 2^(64 - baseLog*l).
// rlweParams must share the ring of the NTRU parameters.
func (kgen KeyGenerator) GenRLWESchemeSwitchKeyNew(rlweParams rlwe.Parameters, skRLWE *rlwe.SecretKey, baseLog, levelCount int) (key *RLWESchemeSwitchKey) {

	kgen.checkRLWEParameters(rlweParams)

	ringQ := rlweParams.RingQ()

	key = &RLWESchemeSwitchKey{RLWEGadgetCiphertext: *NewRLWEGadgetCiphertext(rlweParams, baseLog, levelCount)}

	enc := rlwe.NewEncryptor(rlweParams, skRLWE).WithPRNG(kgen.noisePRNG)
	d := key.Decomposer()

	for r := range key.Value {
		enc.EncryptZero(&key.Value[r])
		ringQ.MulScalarThenAdd(skRLWE.Value, d.Gadget(key.LevelCount-r), key.Value[r].Mask)
	}

	return
}

func (kgen KeyGenerator) checkRLWEParameters(rlweParams rlwe.Parameters) {
	if !kgen.params.RingQ().Equal(rlweParams.RingQ()) {
		panic(fmt.Errorf("RLWE ring %s does not match NTRU ring %s", rlweParams.RingQ(), kgen.params.RingQ()))
	}
}
