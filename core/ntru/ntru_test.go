package ntru

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/ntrutfhe/core/lwe"
	"github.com/tuneinsight/ntrutfhe/core/rlwe"
	"github.com/tuneinsight/ntrutfhe/ring"
	"github.com/tuneinsight/ntrutfhe/utils/sampling"
)

func testString(params Parameters, opname string) string {
	return fmt.Sprintf("%s/logN=%d/logQ=%d/Xs=%s", opname, params.LogN(), params.LogQ(), params.Xs().Type())
}

// <<<<!Insecure parameters!>>>>
var testParams = ParametersLiteral{LogN: 10, LogQ: 39, Sigma: 3.2}

var testFFTTypes = []FFTType{Vanilla, Split(20)}

const logMsg = 4

type testContext struct {
	params Parameters
	prng   sampling.PRNG
	kgen   *KeyGenerator
	sk     *SecretKey
	enc    *Encryptor
	dec    *Decryptor
	eval   *Evaluator
}

func newTestContext(t *testing.T, pl ParametersLiteral) *testContext {

	params, err := NewParametersFromLiteral(pl)
	require.NoError(t, err)

	prng, err := sampling.NewKeyedPRNG([]byte{'n', 't', 'r', 'u'})
	require.NoError(t, err)

	kgen := NewKeyGenerator(params).WithPRNG(prng)
	sk := kgen.GenSecretKeyNew()

	return &testContext{
		params: params,
		prng:   prng,
		kgen:   kgen,
		sk:     sk,
		enc:    NewEncryptor(params, sk).WithPRNG(prng),
		dec:    NewDecryptor(params, sk),
		eval:   NewEvaluator(params),
	}
}

// randomMessage returns a polynomial with coefficients in [0, 2^logMsg) and its encoding in Z_Q.
func (tc *testContext) randomMessage() (msg, pt ring.Poly) {
	ringQ := tc.params.RingQ()
	msg, pt = ringQ.NewPoly(), ringQ.NewPoly()
	for i := range msg.Coeffs {
		msg.Coeffs[i] = sampling.RandUint64N(tc.prng, 1<<logMsg)
		pt.Coeffs[i] = msg.Coeffs[i] << (tc.params.LogQ() - logMsg)
	}
	return
}

// decode rounds each coefficient of pt in [0, Q) to the closest multiple of Q/2^logMsg.
func decode(pt ring.Poly, logQ int) {
	shift := logQ - logMsg
	for i, c := range pt.Coeffs {
		pt.Coeffs[i] = ((c + 1<<(shift-1)) >> shift) & (1<<logMsg - 1)
	}
}

func (tc *testContext) decryptAndDecode(ct *Ciphertext) (have ring.Poly) {
	have = tc.dec.DecryptNew(ct)
	decode(have, tc.params.LogQ())
	return
}

func TestNTRU(t *testing.T) {

	tc := newTestContext(t, testParams)

	for _, testSet := range []func(tc *testContext, t *testing.T){
		testParameters,
		testKeyGenerator,
		testEncryptDecrypt,
		testNGSW,
		testExternalProduct,
		testKeyswitch,
		testAutomorphism,
		testNTRUToRLWE,
		testSchemeSwitch,
		testSampleExtract,
		testModulusMismatch,
	} {
		testSet(tc, t)
		runtime.GC()
	}
}

func testParameters(tc *testContext, t *testing.T) {

	t.Run(testString(tc.params, "Parameters/Equal"), func(t *testing.T) {
		other, err := NewParametersFromLiteral(tc.params.ParametersLiteral())
		require.NoError(t, err)
		require.True(t, tc.params.Equal(&other))
		require.Equal(t, ring.Binary{}, other.Xs())
	})

	t.Run(testString(tc.params, "Parameters/Invalid"), func(t *testing.T) {
		_, err := NewParametersFromLiteral(ParametersLiteral{LogN: 0, LogQ: 39})
		require.Error(t, err)
		_, err = NewParametersFromLiteral(ParametersLiteral{LogN: 10, LogQ: 65})
		require.Error(t, err)
		_, err = NewParametersFromLiteral(ParametersLiteral{LogN: 10, LogQ: 39, Sigma: -1})
		require.Error(t, err)
		_, err = NewParametersFromLiteral(ParametersLiteral{LogN: 10, LogQ: 39, Xs: ring.Uniform{}})
		require.Error(t, err)
	})
}

func testKeyGenerator(tc *testContext, t *testing.T) {

	ringQ := tc.params.RingQ()

	one := ringQ.NewPoly()
	one.Coeffs[0] = 1

	t.Run(testString(tc.params, "KeyGenerator/Inverse"), func(t *testing.T) {
		have := ringQ.NewPoly()
		ringQ.MulPoly(tc.sk.F, tc.sk.FInv, have)
		require.True(t, one.Equal(have))
		for _, c := range tc.sk.F.Coeffs {
			require.LessOrEqual(t, c, uint64(1))
		}
	})

	t.Run(testString(tc.params, "KeyGenerator/Gaussian"), func(t *testing.T) {

		sk := tc.kgen.GenGaussianSecretKeyNew()

		have := ringQ.NewPoly()
		ringQ.MulPoly(sk.F, sk.FInv, have)
		require.True(t, one.Equal(have))

		bound := int64(6 * tc.params.Sigma())
		for _, c := range sk.F.Coeffs {
			require.LessOrEqual(t, int64(c), bound)
			require.GreaterOrEqual(t, int64(c), -bound)
		}

		msg, pt := tc.randomMessage()
		ct := NewEncryptor(tc.params, sk).WithPRNG(tc.prng).EncryptNew(pt)
		have = NewDecryptor(tc.params, sk).DecryptNew(ct)
		decode(have, tc.params.LogQ())
		require.True(t, msg.Equal(have))
	})

	t.Run(testString(tc.params, "KeyGenerator/Seeded"), func(t *testing.T) {

		seed := []byte("ntru key generator seed")

		kgen0, err := NewKeyGeneratorFromSeed(tc.params, seed)
		require.NoError(t, err)
		kgen1, err := NewKeyGeneratorFromSeed(tc.params, seed)
		require.NoError(t, err)

		sk0, sk1 := kgen0.GenSecretKeyNew(), kgen1.GenSecretKeyNew()
		require.True(t, sk0.F.Equal(sk1.F))

		swk0 := kgen0.GenSwitchingKeyNew(sk0, 8, 4)
		swk1 := kgen1.GenSwitchingKeyNew(sk1, 8, 4)
		require.True(t, swk0.Equal(&swk1.NGSWCiphertext))
	})
}

func testEncryptDecrypt(tc *testContext, t *testing.T) {

	t.Run(testString(tc.params, "Encrypt/Decrypt"), func(t *testing.T) {
		msg, pt := tc.randomMessage()
		ct := tc.enc.EncryptNew(pt)
		require.True(t, msg.Equal(tc.decryptAndDecode(ct)))
	})

	t.Run(testString(tc.params, "Encrypt/Zero"), func(t *testing.T) {
		ct := NewCiphertext(tc.params)
		tc.enc.EncryptZero(ct)
		require.True(t, tc.params.RingQ().NewPoly().Equal(tc.decryptAndDecode(ct)))
	})

	t.Run(testString(tc.params, "Encrypt/Norm"), func(t *testing.T) {
		_, pt := tc.randomMessage()
		ct := tc.enc.EncryptNew(pt)
		std, max := Norm(ct, tc.dec, pt)
		require.InDelta(t, 1.68, std, 0.5)
		require.LessOrEqual(t, max, 4.3)
	})
}

func testNGSW(tc *testContext, t *testing.T) {

	baseLog, levelCount := 4, 4

	t.Run(testString(tc.params, "NGSW/Constant"), func(t *testing.T) {
		ct := NewNGSWCiphertext(tc.params, baseLog, levelCount)
		for m := uint64(0); m < 1<<baseLog; m++ {
			tc.enc.EncryptConstantNGSW(m, ct)
			require.Equal(t, m, tc.dec.DecryptConstantNGSW(ct))
		}
	})

	t.Run(testString(tc.params, "NGSW/Norm"), func(t *testing.T) {
		ct := NewNGSWCiphertext(tc.params, baseLog, levelCount)
		tc.enc.EncryptConstantNGSW(3, ct)
		for r := range ct.Value {
			_, max := NormNGSWRow(ct, r, 3, tc.dec)
			require.LessOrEqual(t, max, 4.3)
		}
	})

	t.Run(testString(tc.params, "NGSW/Monomial"), func(t *testing.T) {

		ringQ := tc.params.RingQ()
		N := tc.params.N()

		for _, degree := range []int{0, 1, N - 1, N, N + 7, -3} {

			ngsw := NewNGSWCiphertext(tc.params, 12, 2)
			tc.enc.EncryptMonomialNGSW(1, degree, ngsw)
			fngsw := tc.eval.ConvertNGSWNew(ngsw, Vanilla)

			msg, pt := tc.randomMessage()
			ct := tc.enc.EncryptNew(pt)

			out := NewCiphertext(tc.params)
			tc.eval.ExternalProduct(fngsw, ct, out)

			want := ringQ.NewPoly()
			ringQ.MulByMonomial(msg, degree, want)
			for i := range want.Coeffs {
				want.Coeffs[i] &= 1<<logMsg - 1
			}

			require.True(t, want.Equal(tc.decryptAndDecode(out)), "degree=%d", degree)
		}
	})
}

func testExternalProduct(tc *testContext, t *testing.T) {

	ringQ := tc.params.RingQ()

	for _, typ := range testFFTTypes {

		for _, a := range []uint64{0, 1, 3} {

			t.Run(testString(tc.params, fmt.Sprintf("ExternalProduct/%s/a=%d", typ, a)), func(t *testing.T) {

				ngsw := NewNGSWCiphertext(tc.params, 12, 2)
				tc.enc.EncryptConstantNGSW(a, ngsw)
				fngsw := tc.eval.ConvertNGSWNew(ngsw, typ)

				msg, pt := tc.randomMessage()
				ct := tc.enc.EncryptNew(pt)

				out := NewCiphertext(tc.params)
				tc.eval.ExternalProduct(fngsw, ct, out)

				want := ringQ.NewPoly()
				ringQ.MulScalar(msg, a, want)
				for i := range want.Coeffs {
					want.Coeffs[i] &= 1<<logMsg - 1
				}

				require.True(t, want.Equal(tc.decryptAndDecode(out)))
			})
		}

		t.Run(testString(tc.params, fmt.Sprintf("ExternalProduct/%s/Accumulate", typ)), func(t *testing.T) {

			ngsw := NewNGSWCiphertext(tc.params, 12, 2)
			tc.enc.EncryptConstantNGSW(1, ngsw)
			fngsw := tc.eval.ConvertNGSWNew(ngsw, typ)

			msg, pt := tc.randomMessage()
			ct := tc.enc.EncryptNew(pt)

			// in place: ct = ct + 1 x ct
			tc.eval.ExternalProduct(fngsw, ct, ct)

			want := ringQ.NewPoly()
			ringQ.MulScalar(msg, 2, want)
			for i := range want.Coeffs {
				want.Coeffs[i] &= 1<<logMsg - 1
			}

			require.True(t, want.Equal(tc.decryptAndDecode(ct)))
		})
	}

	t.Run(testString(tc.params, "ExternalProduct/ShallowCopy"), func(t *testing.T) {

		ngsw := NewNGSWCiphertext(tc.params, 12, 2)
		tc.enc.EncryptConstantNGSW(1, ngsw)
		fngsw := tc.eval.ConvertNGSWNew(ngsw, Split(20))

		_, pt := tc.randomMessage()
		ct := tc.enc.EncryptNew(pt)

		out0, out1 := NewCiphertext(tc.params), NewCiphertext(tc.params)
		tc.eval.ExternalProduct(fngsw, ct, out0)
		tc.eval.ShallowCopy().ExternalProduct(fngsw, ct, out1)
		require.True(t, out0.Equal(out1))
	})

	t.Run(testString(tc.params, "ExternalProduct/InvalidSplit"), func(t *testing.T) {
		require.Panics(t, func() { NewFourierNGSWCiphertext(tc.params, 12, 2, Split(tc.params.LogQ())) })
		require.Panics(t, func() { Split(0) })
	})
}

func testKeyswitch(tc *testContext, t *testing.T) {

	for _, typ := range testFFTTypes {

		t.Run(testString(tc.params, fmt.Sprintf("Keyswitch/%s", typ)), func(t *testing.T) {

			skOut := tc.kgen.GenSecretKeyNew()
			ksk := tc.eval.ConvertKeyswitchKeyNew(tc.kgen.GenKeyswitchKeyNew(tc.sk, skOut, 8, 4), typ)

			msg, pt := tc.randomMessage()
			ct := tc.enc.EncryptNew(pt)

			tc.eval.Keyswitch(ksk, ct, ct)

			have := NewDecryptor(tc.params, skOut).DecryptNew(ct)
			decode(have, tc.params.LogQ())
			require.True(t, msg.Equal(have))
		})

		t.Run(testString(tc.params, fmt.Sprintf("SwitchToNTRU/%s", typ)), func(t *testing.T) {

			swk := tc.eval.ConvertSwitchingKeyNew(tc.kgen.GenSwitchingKeyNew(tc.sk, 8, 4), typ)

			msg, pt := tc.randomMessage()
			ct := NewCiphertext(tc.params)
			tc.eval.SwitchToNTRU(swk, pt, ct)

			require.True(t, msg.Equal(tc.decryptAndDecode(ct)))
		})
	}
}

func testAutomorphism(tc *testContext, t *testing.T) {

	ringQ := tc.params.RingQ()

	tk := tc.kgen.GenTraceKeyNew(tc.sk, 9, 4)

	for _, typ := range testFFTTypes {

		for _, galEl := range []uint64{5, uint64(2*tc.params.N() - 1)} {

			t.Run(testString(tc.params, fmt.Sprintf("Automorphism/%s/galEl=%d", typ, galEl)), func(t *testing.T) {

				atk := tc.eval.ConvertAutomorphismKeyNew(tc.kgen.GenAutomorphismKeyNew(tc.sk, galEl, 9, 4), typ)
				require.Equal(t, typ, atk.Type)

				msg, pt := tc.randomMessage()
				ct := tc.enc.EncryptNew(pt)

				tc.eval.Automorphism(atk, ct, ct)

				want := ringQ.NewPoly()
				ringQ.Automorphism(msg, galEl, want)
				for i := range want.Coeffs {
					want.Coeffs[i] &= 1<<logMsg - 1
				}

				require.True(t, want.Equal(tc.decryptAndDecode(ct)))
			})
		}

		t.Run(testString(tc.params, fmt.Sprintf("ReverseTrace/%s", typ)), func(t *testing.T) {

			ftk := tc.eval.ConvertTraceKeyNew(tk, typ)
			require.Len(t, ftk.Keys, tc.params.LogN())
			for i := range ftk.Keys {
				require.Equal(t, typ, ftk.Keys[i].Type)
			}

			msg, pt := tc.randomMessage()
			ct := tc.enc.EncryptNew(pt)

			out := NewCiphertext(tc.params)
			tc.eval.ReverseTrace(ftk, ct, out)

			have := tc.decryptAndDecode(out)
			require.Equal(t, msg.Coeffs[0], have.Coeffs[0])
			for i := 1; i < tc.params.N(); i++ {
				require.Zero(t, have.Coeffs[i], "coefficient %d", i)
			}
		})
	}

	t.Run(testString(tc.params, "ReverseTrace/Scratch"), func(t *testing.T) {

		req := ReverseTraceScratch(tc.params.N(), 4)
		eval := NewEvaluatorWithScratch(tc.params, req)

		ftk := eval.ConvertTraceKeyNew(tk, Vanilla)

		_, pt := tc.randomMessage()
		ct := tc.enc.EncryptNew(pt)

		eval.ReverseTrace(ftk, ct, ct)
		require.Equal(t, req, eval.ScratchSize())
	})
}

func testNTRUToRLWE(tc *testContext, t *testing.T) {

	rlweParams := tc.params.RLWEParameters()
	skRLWE := rlwe.NewKeyGenerator(rlweParams).WithPRNG(tc.prng).GenSecretKeyNew()
	decRLWE := rlwe.NewDecryptor(rlweParams, skRLWE)

	for _, typ := range testFFTTypes {

		t.Run(testString(tc.params, fmt.Sprintf("KeyswitchToRLWE/%s", typ)), func(t *testing.T) {

			key := tc.eval.ConvertNTRUToRLWEKeyNew(tc.kgen.GenNTRUToRLWEKeyNew(tc.sk, rlweParams, skRLWE, 8, 4), typ)

			msg, pt := tc.randomMessage()
			ct := tc.enc.EncryptNew(pt)

			out := rlwe.NewCiphertext(rlweParams)
			tc.eval.KeyswitchToRLWE(key, ct, out)

			have := decRLWE.DecryptNew(out)
			decode(have, tc.params.LogQ())
			require.True(t, msg.Equal(have))
		})
	}
}

func testSchemeSwitch(tc *testContext, t *testing.T) {

	ringQ := tc.params.RingQ()
	rlweParams := tc.params.RLWEParameters()
	skRLWE := rlwe.NewKeyGenerator(rlweParams).WithPRNG(tc.prng).GenSecretKeyNew()
	encRLWE := rlwe.NewEncryptor(rlweParams, skRLWE).WithPRNG(tc.prng)
	decRLWE := rlwe.NewDecryptor(rlweParams, skRLWE)

	t.Run(testString(tc.params, "SchemeSwitchRLWE"), func(t *testing.T) {

		key := tc.eval.ConvertRLWESchemeSwitchKeyNew(tc.kgen.GenRLWESchemeSwitchKeyNew(rlweParams, skRLWE, 8, 4), Vanilla)

		msg, pt := tc.randomMessage()
		ct := encRLWE.EncryptNew(pt)

		out := rlwe.NewCiphertext(rlweParams)
		tc.eval.SchemeSwitchRLWE(key, ct, out)

		// -s * msg mod 2^logMsg
		want := ringQ.NewPoly()
		ringQ.MulPoly(skRLWE.Value, msg, want)
		ringQ.Neg(want, want)
		for i := range want.Coeffs {
			want.Coeffs[i] &= 1<<logMsg - 1
		}

		have := decRLWE.DecryptNew(out)
		decode(have, tc.params.LogQ())
		require.True(t, want.Equal(have))

		require.Panics(t, func() { tc.eval.SchemeSwitchRLWE(key, ct, ct) })
	})

	t.Run(testString(tc.params, "SchemeSwitchNTRU"), func(t *testing.T) {

		baseLog, levelCount := 4, 4

		key := tc.eval.ConvertNTRUSchemeSwitchKeyNew(tc.kgen.GenNTRUSchemeSwitchKeyNew(tc.sk, 8, 4), Vanilla)

		for _, m := range []uint64{0, 1, 5} {

			// NTRU encryptions of m*g_l, mapped on the rows of an NGSW ciphertext of m
			ngsw := NewNGSWCiphertext(tc.params, baseLog, levelCount)
			for r := range ngsw.Value {
				pt := ringQ.NewPoly()
				pt.Coeffs[0] = m << (tc.params.LogQ() - baseLog*(levelCount-r))
				tc.eval.SchemeSwitchNTRU(key, tc.enc.EncryptNew(pt), &ngsw.Value[r])
			}

			require.Equal(t, m, tc.dec.DecryptConstantNGSW(ngsw))
		}
	})
}

func testSampleExtract(tc *testContext, t *testing.T) {

	N := tc.params.N()
	lweParams := tc.params.LWEParameters()
	decLWE := lwe.NewDecryptor(lweParams, tc.sk.LWESecretKey())

	t.Run(testString(tc.params, "SampleExtract"), func(t *testing.T) {

		msg, pt := tc.randomMessage()
		ct := tc.enc.EncryptNew(pt)

		shift := tc.params.LogQ() - logMsg

		for _, nth := range []int{0, 1, N / 2, N - 1} {
			out := lwe.NewCiphertext(lweParams)
			SampleExtract(ct, nth, out)
			have := ((decLWE.Decrypt(out) + 1<<(shift-1)) >> shift) & (1<<logMsg - 1)
			require.Equal(t, msg.Coeffs[nth], have, "nth=%d", nth)
		}

		require.Panics(t, func() { SampleExtract(ct, N, lwe.NewCiphertext(lweParams)) })
	})

	t.Run(testString(tc.params, "SampleExtract/Norm"), func(t *testing.T) {

		_, pt := tc.randomMessage()
		ct := tc.enc.EncryptNew(pt)

		cts := make([]*lwe.Ciphertext, N)
		for i := range cts {
			cts[i] = lwe.NewCiphertext(lweParams)
			SampleExtract(ct, i, cts[i])
		}

		std, max := NormLWE(cts, tc.dec, pt.Coeffs)
		wantStd, wantMax := Norm(ct, tc.dec, pt)
		require.Equal(t, wantStd, std)
		require.Equal(t, wantMax, max)

		require.Panics(t, func() { NormLWE(cts[:1], tc.dec, pt.Coeffs) })
	})
}

// testModulusMismatch checks that operands defined modulo different powers of two are rejected.
func testModulusMismatch(tc *testContext, t *testing.T) {

	pl := tc.params.ParametersLiteral()
	pl.LogQ = 45

	other, err := NewParametersFromLiteral(pl)
	require.NoError(t, err)

	kgen := NewKeyGenerator(other).WithPRNG(tc.prng)
	sk := kgen.GenSecretKeyNew()
	enc := NewEncryptor(other, sk).WithPRNG(tc.prng)
	eval := NewEvaluator(other)

	t.Run(testString(tc.params, "Modulus/Encrypt/Decrypt"), func(t *testing.T) {

		_, pt := tc.randomMessage()
		ct := tc.enc.EncryptNew(pt)
		require.Equal(t, tc.params.LogQ(), ct.LogQ)

		require.Panics(t, func() { NewDecryptor(other, tc.sk).DecryptNew(ct) })
		require.Panics(t, func() { enc.EncryptZero(ct) })
		require.Panics(t, func() { enc.Encrypt(pt, ct) })

		ngsw := NewNGSWCiphertext(tc.params, 4, 4)
		require.Panics(t, func() { enc.EncryptConstantNGSW(1, ngsw) })
		require.Panics(t, func() { NewDecryptor(other, sk).DecryptConstantNGSW(ngsw) })
	})

	t.Run(testString(tc.params, "Modulus/ExternalProduct"), func(t *testing.T) {

		ngsw := NewNGSWCiphertext(other, 12, 2)
		enc.EncryptConstantNGSW(1, ngsw)
		fngsw := eval.ConvertNGSWNew(ngsw, Split(40))
		require.Equal(t, other.LogQ(), fngsw.LogQ)

		_, pt := tc.randomMessage()
		ct := tc.enc.EncryptNew(pt)

		require.Panics(t, func() { eval.ExternalProduct(fngsw, ct, NewCiphertext(other)) })
		require.Panics(t, func() { tc.eval.ExternalProduct(fngsw, ct, NewCiphertext(tc.params)) })
		require.Panics(t, func() { tc.eval.ConvertNGSWNew(ngsw, Vanilla) })
	})

	t.Run(testString(tc.params, "Modulus/Keyswitch"), func(t *testing.T) {

		ksk := eval.ConvertKeyswitchKeyNew(kgen.GenKeyswitchKeyNew(sk, sk, 8, 4), Vanilla)
		swk := eval.ConvertSwitchingKeyNew(kgen.GenSwitchingKeyNew(sk, 8, 4), Vanilla)

		_, pt := tc.randomMessage()
		ct := tc.enc.EncryptNew(pt)

		require.Panics(t, func() { tc.eval.Keyswitch(ksk, ct, ct) })
		require.Panics(t, func() { tc.eval.SwitchToNTRU(swk, pt, ct) })
	})
}
