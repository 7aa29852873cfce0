package ntru

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/tuneinsight/ntrutfhe/core/lwe"
	"github.com/tuneinsight/ntrutfhe/ring"
	"github.com/tuneinsight/ntrutfhe/utils/bignum"
)

// Norm returns the log2 of the standard deviation and of the maximum absolute value of the
// noise of ct, in units of Z_Q, given the expected plaintext want with coefficients in [0, Q).
func Norm(ct *Ciphertext, dec *Decryptor, want ring.Poly) (std, max float64) {

	ringQ := dec.params.RingQ()

	if err := checkN(dec.params, want); err != nil {
		panic(fmt.Errorf("cannot Norm: %w", err))
	}

	pt := ringQ.NewPoly()
	dec.Phase(ct, pt)

	diff := ringQ.NewPoly()
	ringQ.MulScalar(want, 1<<ringQ.TorusShift(), diff)
	ringQ.Sub(pt, diff, diff)

	return normNative(diff.Coeffs, ringQ.TorusShift())
}

// NormNGSWRow returns the log2 of the standard deviation and of the maximum absolute value of the
// noise of the row r of an [NGSWCiphertext] of the constant m, in units of Z_Q.
func NormNGSWRow(ct *NGSWCiphertext, r int, m uint64, dec *Decryptor) (std, max float64) {

	ringQ := dec.params.RingQ()

	// f * (FInv * e + m*g) - f * m * g = e
	pt := ringQ.NewPoly()
	dec.Phase(&ct.Value[r], pt)

	want := ringQ.NewPoly()
	ringQ.MulScalar(dec.sk.F, ct.Decomposer().RecompositionSummand(ct.LevelCount-r, m), want)
	ringQ.Sub(pt, want, pt)

	return normNative(pt.Coeffs, ringQ.TorusShift())
}

// NormLWE returns the log2 of the standard deviation and of the maximum absolute value of the noise
// of the LWE samples cts under [SecretKey.LWESecretKey], in units of Z_Q, given their expected
// plaintexts want with values in [0, Q).
func NormLWE(cts []*lwe.Ciphertext, dec *Decryptor, want []uint64) (std, max float64) {

	if len(cts) != len(want) {
		panic(fmt.Errorf("cannot NormLWE: %d samples but %d plaintexts", len(cts), len(want)))
	}

	decLWE := lwe.NewDecryptor(dec.params.LWEParameters(), dec.sk.LWESecretKey())
	shift := dec.params.RingQ().TorusShift()

	diff := make([]uint64, len(cts))
	for i, ct := range cts {
		diff[i] = decLWE.Phase(ct) - want[i]<<shift
	}

	return normNative(diff, shift)
}

// normNative returns the log2 of the standard deviation and of the maximum absolute value of
// coeffs, read as signed values in the native representation.
func normNative(coeffs []uint64, shift int) (std, max float64) {

	scale := float64(uint64(1) << shift)

	values := make([]float64, len(coeffs))
	for i, c := range coeffs {
		values[i] = float64(int64(c)) / scale
	}

	s, err := stats.StandardDeviation(values)
	if err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}

	minV, _ := stats.Min(values)
	maxV, _ := stats.Max(values)

	if -minV > maxV {
		maxV = -minV
	}

	return bignum.Log2Float64(s, 64), bignum.Log2Float64(maxV, 64)
}
