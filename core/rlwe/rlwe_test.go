package rlwe

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/ntrutfhe/ring"
	"github.com/tuneinsight/ntrutfhe/utils/sampling"
)

func testString(params Parameters, opname string) string {
	return fmt.Sprintf("%s/logN=%d/logQ=%d", opname, params.LogN(), params.LogQ())
}

// <<<<!Insecure parameters!>>>>
var testParams = ParametersLiteral{LogN: 10, LogQ: 39, Sigma: 3.2}

type testContext struct {
	params Parameters
	prng   sampling.PRNG
	sk     *SecretKey
	enc    *Encryptor
	dec    *Decryptor
	eval   *Evaluator
}

func newTestContext(t *testing.T, pl ParametersLiteral) *testContext {

	params, err := NewParametersFromLiteral(pl)
	require.NoError(t, err)

	prng, err := sampling.NewKeyedPRNG([]byte{'r', 'l', 'w', 'e'})
	require.NoError(t, err)

	sk := NewKeyGenerator(params).WithPRNG(prng).GenSecretKeyNew()

	return &testContext{
		params: params,
		prng:   prng,
		sk:     sk,
		enc:    NewEncryptor(params, sk).WithPRNG(prng),
		dec:    NewDecryptor(params, sk),
		eval:   NewEvaluator(params),
	}
}

// randomMessage returns a polynomial with coefficients in [0, 2^logMsg) and its encoding in Z_Q.
func (tc *testContext) randomMessage(logMsg int) (msg, pt ring.Poly) {
	ringQ := tc.params.RingQ()
	msg, pt = ringQ.NewPoly(), ringQ.NewPoly()
	for i := range msg.Coeffs {
		msg.Coeffs[i] = sampling.RandUint64N(tc.prng, 1<<logMsg)
		pt.Coeffs[i] = msg.Coeffs[i] << (tc.params.LogQ() - logMsg)
	}
	return
}

// decode rounds each coefficient of pt in [0, Q) to the closest multiple of Q/2^logMsg.
func decode(pt ring.Poly, logQ, logMsg int) {
	shift := logQ - logMsg
	for i, c := range pt.Coeffs {
		pt.Coeffs[i] = ((c + 1<<(shift-1)) >> shift) & (1<<logMsg - 1)
	}
}

func TestRLWE(t *testing.T) {

	tc := newTestContext(t, testParams)

	for _, testSet := range []func(tc *testContext, t *testing.T){
		testParameters,
		testEncryptDecrypt,
		testExternalProduct,
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
	})

	t.Run(testString(tc.params, "Parameters/Invalid"), func(t *testing.T) {
		_, err := NewParametersFromLiteral(ParametersLiteral{LogN: 0, LogQ: 39})
		require.Error(t, err)
		_, err = NewParametersFromLiteral(ParametersLiteral{LogN: 10, LogQ: 65})
		require.Error(t, err)
		_, err = NewParametersFromLiteral(ParametersLiteral{LogN: 10, LogQ: 39, Sigma: -1})
		require.Error(t, err)
	})
}

func testEncryptDecrypt(tc *testContext, t *testing.T) {

	t.Run(testString(tc.params, "Encrypt/Decrypt"), func(t *testing.T) {
		logMsg := 4
		msg, pt := tc.randomMessage(logMsg)
		ct := tc.enc.EncryptNew(pt)
		have := tc.dec.DecryptNew(ct)
		decode(have, tc.params.LogQ(), logMsg)
		require.True(t, msg.Equal(have))
	})
}

func testExternalProduct(tc *testContext, t *testing.T) {

	logMsg := 4

	for _, m := range []uint64{0, 1} {

		t.Run(testString(tc.params, fmt.Sprintf("ExternalProduct/m=%d", m)), func(t *testing.T) {

			ggsw := NewGGSWCiphertext(tc.params, 4, 4)
			tc.enc.EncryptGGSW(m, ggsw)

			msg, pt := tc.randomMessage(logMsg)
			ct := tc.enc.EncryptNew(pt)

			tc.eval.ExternalProduct(ggsw, ct, ct)

			have := tc.dec.DecryptNew(ct)
			decode(have, tc.params.LogQ(), logMsg)

			want := tc.params.RingQ().NewPoly()
			tc.params.RingQ().MulScalar(msg, m, want)
			require.True(t, want.Equal(have))
		})
	}

	t.Run(testString(tc.params, "ExternalProduct/ShallowCopy"), func(t *testing.T) {

		ggsw := NewGGSWCiphertext(tc.params, 4, 4)
		tc.enc.EncryptGGSW(1, ggsw)

		_, pt := tc.randomMessage(logMsg)
		ct := tc.enc.EncryptNew(pt)

		out0, out1 := NewCiphertext(tc.params), NewCiphertext(tc.params)
		tc.eval.ExternalProduct(ggsw, ct, out0)
		tc.eval.ShallowCopy().ExternalProduct(ggsw, ct, out1)
		require.True(t, out0.Equal(out1))
	})

	t.Run(testString(tc.params, "ExternalProduct/Scratch"), func(t *testing.T) {

		req := ExternalProductScratch(tc.params.N(), 4)
		eval := NewEvaluatorWithScratch(tc.params, req)

		ggsw := NewGGSWCiphertext(tc.params, 4, 4)
		tc.enc.EncryptGGSW(1, ggsw)

		_, pt := tc.randomMessage(logMsg)
		ct := tc.enc.EncryptNew(pt)

		eval.ExternalProduct(ggsw, ct, ct)
		require.Equal(t, req, eval.ScratchSize())
	})
}
