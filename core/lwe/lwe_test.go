package lwe

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/ntrutfhe/utils/sampling"
)

func testString(params Parameters, opname string) string {
	return fmt.Sprintf("%s/n=%d/logQ=%d", opname, params.N(), params.LogQ())
}

// <<<<!Insecure parameters!>>>>
var testParams = []ParametersLiteral{
	{N: 64, LogQ: 12, Sigma: 3.19},
	{N: 64, LogQ: 64, Sigma: 1 << 20},
}

func TestLWE(t *testing.T) {

	t.Run("Parameters/Invalid", func(t *testing.T) {
		_, err := NewParametersFromLiteral(ParametersLiteral{N: 0, LogQ: 12})
		require.Error(t, err)
		_, err = NewParametersFromLiteral(ParametersLiteral{N: 64, LogQ: 65})
		require.Error(t, err)
		_, err = NewParametersFromLiteral(ParametersLiteral{N: 64, LogQ: 12, Sigma: -1})
		require.Error(t, err)
	})

	for _, pl := range testParams {

		params, err := NewParametersFromLiteral(pl)
		require.NoError(t, err)

		prng, err := sampling.NewKeyedPRNG([]byte{'l', 'w', 'e'})
		require.NoError(t, err)

		sk := NewKeyGenerator(params).WithPRNG(prng).GenSecretKeyNew()
		enc := NewEncryptor(params, sk).WithPRNG(prng)
		dec := NewDecryptor(params, sk)

		t.Run(testString(params, "Parameters/Equal"), func(t *testing.T) {
			other, err := NewParametersFromLiteral(params.ParametersLiteral())
			require.NoError(t, err)
			require.True(t, params.Equal(&other))
		})

		t.Run(testString(params, "SecretKey/Binary"), func(t *testing.T) {
			for _, s := range sk.Value {
				require.LessOrEqual(t, s, uint64(1))
			}
		})

		t.Run(testString(params, "Encrypt/Decrypt"), func(t *testing.T) {

			logMsg := 2
			shift := params.LogQ() - logMsg

			for m := uint64(0); m < 1<<logMsg; m++ {

				ct := enc.EncryptNew(m << shift)

				have := dec.Decrypt(ct)
				have = ((have + 1<<(shift-1)) >> shift) & (1<<logMsg - 1)
				require.Equal(t, m, have)
			}
		})

		t.Run(testString(params, "Ciphertext/Copy"), func(t *testing.T) {
			ct := enc.EncryptNew(0)
			other := ct.CopyNew()
			require.True(t, ct.Equal(other))
			other.Body++
			require.False(t, ct.Equal(other))
			other.Copy(ct)
			require.True(t, ct.Equal(other))
		})
	}
}
