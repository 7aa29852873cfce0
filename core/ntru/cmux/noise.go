package cmux

import (
	"math"
	"math/big"

	"github.com/tuneinsight/ntrutfhe/ring"
	"github.com/tuneinsight/ntrutfhe/utils/bignum"
)

const noisePrec = 128

// BootstrapNoise returns the log2 of the standard deviation, in units of Z_Q, expected for the noise
// of the samples produced by [Evaluator.Bootstrap] with params.
//
// Each of the LWEDimension CMux gates adds the inner product of the digits of the accumulator with
// the noises of the rows of its key and, if the key encrypts one, the decomposition error of the
// accumulator multiplied by the NTRU secret. The switching of the lookup table adds the inner product
// of its digits with the noises of the switching key. Digits are taken as uniform, which overestimates
// the noise of the switching of structured lookup tables.
func BootstrapNoise(params Parameters) float64 {

	N := params.N()
	logQ := params.LogQ()
	paramsNTRU := params.NTRUParameters()

	sigma2 := square(bignum.NewFloat(paramsNTRU.Sigma(), noisePrec))

	// E[||f||^2]
	keyWeight := bignum.NewFloat(N, noisePrec)
	if xs, ok := paramsNTRU.Xs().(ring.DiscreteGaussian); ok {
		keyWeight.Mul(keyWeight, square(bignum.NewFloat(xs.Sigma, noisePrec)))
	} else {
		keyWeight.Quo(keyWeight, bignum.NewFloat(2, noisePrec))
	}

	br := params.BlindRotationGadget()

	// half of the keys of a binary LWE secret encrypt one
	gate := roundingNoise(br, logQ)
	gate.Mul(gate, keyWeight)
	gate.Quo(gate, bignum.NewFloat(2, noisePrec))
	gate.Add(gate, gadgetNoise(br, N, sigma2))
	gate.Mul(gate, bignum.NewFloat(params.LWEParameters().N(), noisePrec))

	swk := params.SwitchingKeyGadget()

	total := gadgetNoise(swk, N, sigma2)
	total.Add(total, roundingNoise(swk, logQ))
	total.Add(total, gate)

	if total.Sign() == 0 {
		return math.Inf(-1)
	}

	log2std, _ := bignum.Log2(total).Float64()

	return log2std / 2
}

// gadgetNoise returns the variance of the inner product of LevelCount polynomials of degree N with
// uniform balanced digits in base 2^BaseLog and as many polynomials of Gaussian noise of variance sigma2.
func gadgetNoise(g GadgetLiteral, N int, sigma2 *big.Float) *big.Float {
	v := bignum.NewFloat(g.LevelCount*N, noisePrec)
	v.Mul(v, pow2(2*g.BaseLog))
	v.Quo(v, bignum.NewFloat(12, noisePrec))
	return v.Mul(v, sigma2)
}

// roundingNoise returns the variance of the error of the closest value of the gadget g
// to a uniform element of Z_{2^logQ}.
func roundingNoise(g GadgetLiteral, logQ int) *big.Float {
	d := logQ - g.BaseLog*g.LevelCount
	if d <= 0 {
		return bignum.NewFloat(nil, noisePrec)
	}
	v := pow2(2 * d)
	return v.Quo(v, bignum.NewFloat(12, noisePrec))
}

func pow2(k int) *big.Float {
	return new(big.Float).SetMantExp(bignum.NewFloat(1, noisePrec), k)
}

func square(x *big.Float) *big.Float {
	return x.Mul(x, x)
}
