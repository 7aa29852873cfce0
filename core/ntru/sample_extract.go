package ntru

import (
	"fmt"

	"github.com/tuneinsight/ntrutfhe/core/lwe"
)

// SampleExtract writes on out an LWE sample of the nth coefficient of the plaintext of ct,
// under the key [SecretKey.LWESecretKey].
// Since NTRU decryption multiplies by f, the phase b - <a, f> of out is (f*ct)[nth] with b = 0.
func SampleExtract(ct *Ciphertext, nth int, out *lwe.Ciphertext) {

	N := ct.N()

	if out.N() != N {
		panic(fmt.Errorf("cannot SampleExtract: LWE dimension %d does not match ring degree %d", out.N(), N))
	}

	if nth < 0 || nth >= N {
		panic(fmt.Errorf("cannot SampleExtract: nth=%d must be in [0, %d)", nth, N))
	}

	c := ct.Value.Coeffs

	for i := 0; i <= nth; i++ {
		out.Mask[i] = -c[nth-i]
	}

	for i := nth + 1; i < N; i++ {
		out.Mask[i] = c[N+nth-i]
	}

	out.Body = 0
}
