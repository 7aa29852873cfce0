package cmux

import (
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/tuneinsight/ntrutfhe/core/lwe"
	"github.com/tuneinsight/ntrutfhe/core/ntru"
	"github.com/tuneinsight/ntrutfhe/core/rlwe"
	"github.com/tuneinsight/ntrutfhe/ring"
	"github.com/tuneinsight/ntrutfhe/utils"
)

// GadgetLiteral is the decomposition base 2^BaseLog and number of levels of a family of keys,
// and the Fourier form of these keys: [ntru.Split] with SplitBaseLog if non-zero, [ntru.Vanilla] otherwise.
type GadgetLiteral struct {
	BaseLog      int `toml:"base_log"`
	LevelCount   int `toml:"level_count"`
	SplitBaseLog int `toml:"split_base_log"`
}

// FFTType returns the [ntru.FFTType] of the Fourier form of the keys.
func (g GadgetLiteral) FFTType() ntru.FFTType {
	return ntru.FFTType{SplitBaseLog: g.SplitBaseLog}
}

func (g GadgetLiteral) validate(role string, logQ int) error {
	if g.BaseLog < 1 || g.LevelCount < 1 {
		return fmt.Errorf("invalid %s gadget: BaseLog=%d and LevelCount=%d must be positive", role, g.BaseLog, g.LevelCount)
	}
	if g.BaseLog*g.LevelCount > 64 {
		return fmt.Errorf("invalid %s gadget: BaseLog*LevelCount=%d must be at most 64", role, g.BaseLog*g.LevelCount)
	}
	if g.SplitBaseLog < 0 || g.SplitBaseLog >= logQ {
		return fmt.Errorf("invalid %s gadget: SplitBaseLog=%d must be in [0, %d)", role, g.SplitBaseLog, logQ)
	}
	return nil
}

// ParametersLiteral is a literal representation of the parameters of the bootstrapping procedures.
// It is the unit of the named profiles, see [GetProfile] and [LoadProfiles].
//
//   - LogN, LogQ: ring degree and modulus of the NTRU and RLWE ciphertexts.
//   - NTRUSigma, RLWESigma: standard deviation of the NTRU and RLWE encryption noises, in units of Z_Q.
//   - GaussianSecret: the NTRU secret f is sampled with standard deviation NTRUSigma instead of binary.
//   - LWEDimension, LogQLWE, LWESigma: the input LWE samples.
//   - BlindRotation, SwitchingKey, Trace, Keyswitch, SchemeSwitch: the gadget and Fourier form of each family of keys.
//     SwitchingKey defaults to BlindRotation. Keyswitch is the gadget of the NTRU to RLWE key and
//     SchemeSwitch the one of both scheme-switching keys.
type ParametersLiteral struct {
	Name           string         `toml:"name"`
	LogN           int            `toml:"log_n"`
	LogQ           int            `toml:"log_q"`
	NTRUSigma      float64        `toml:"ntru_sigma"`
	RLWESigma      float64        `toml:"rlwe_sigma"`
	GaussianSecret bool           `toml:"gaussian_secret"`
	LWEDimension   int            `toml:"lwe_dimension"`
	LogQLWE        int            `toml:"log_q_lwe"`
	LWESigma       float64        `toml:"lwe_sigma"`
	BlindRotation  GadgetLiteral  `toml:"br"`
	SwitchingKey   *GadgetLiteral `toml:"swk"`
	Trace          GadgetLiteral  `toml:"tr"`
	Keyswitch      GadgetLiteral  `toml:"ksk"`
	SchemeSwitch   GadgetLiteral  `toml:"ss"`
}

// Equal returns true if the two literals are identical.
func (p ParametersLiteral) Equal(other *ParametersLiteral) bool {
	return cmp.Equal(p, *other)
}

// Parameters represents a set of validated bootstrapping parameters.
type Parameters struct {
	name           string
	paramsNTRU     ntru.Parameters
	paramsRLWE     rlwe.Parameters
	paramsLWE      lwe.Parameters
	gaussianSecret bool
	br             GadgetLiteral
	swk            GadgetLiteral
	tr             GadgetLiteral
	ksk            GadgetLiteral
	ss             GadgetLiteral
}

// NewParametersFromLiteral instantiates a set of [Parameters] from a [ParametersLiteral].
func NewParametersFromLiteral(pl ParametersLiteral) (params Parameters, err error) {

	var xs ring.DistributionParameters = ring.Binary{}
	if pl.GaussianSecret {
		xs = ring.DiscreteGaussian{Sigma: pl.NTRUSigma}
	}

	if params.paramsNTRU, err = ntru.NewParametersFromLiteral(ntru.ParametersLiteral{
		LogN:  pl.LogN,
		LogQ:  pl.LogQ,
		Sigma: pl.NTRUSigma,
		Xs:    xs,
	}); err != nil {
		return params, fmt.Errorf("cannot NewParametersFromLiteral: NTRU: %w", err)
	}

	if params.paramsRLWE, err = rlwe.NewParametersFromLiteral(rlwe.ParametersLiteral{
		LogN:  pl.LogN,
		LogQ:  pl.LogQ,
		Sigma: pl.RLWESigma,
	}); err != nil {
		return params, fmt.Errorf("cannot NewParametersFromLiteral: RLWE: %w", err)
	}

	if params.paramsLWE, err = lwe.NewParametersFromLiteral(lwe.ParametersLiteral{
		N:     pl.LWEDimension,
		LogQ:  pl.LogQLWE,
		Sigma: pl.LWESigma,
	}); err != nil {
		return params, fmt.Errorf("cannot NewParametersFromLiteral: LWE: %w", err)
	}

	swk := pl.BlindRotation
	if pl.SwitchingKey != nil {
		swk = *pl.SwitchingKey
	}

	for _, g := range []struct {
		role string
		lit  GadgetLiteral
	}{
		{"blind rotation", pl.BlindRotation},
		{"switching key", swk},
		{"trace", pl.Trace},
		{"keyswitch", pl.Keyswitch},
		{"scheme switch", pl.SchemeSwitch},
	} {
		if err = g.lit.validate(g.role, pl.LogQ); err != nil {
			return params, fmt.Errorf("cannot NewParametersFromLiteral: %w", err)
		}
	}

	params.name = pl.Name
	params.gaussianSecret = pl.GaussianSecret
	params.br = pl.BlindRotation
	params.swk = swk
	params.tr = pl.Trace
	params.ksk = pl.Keyswitch
	params.ss = pl.SchemeSwitch

	return
}

// ParametersLiteral returns the [ParametersLiteral] of the target [Parameters].
// The switching key gadget is always set.
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		Name:           p.name,
		LogN:           p.paramsNTRU.LogN(),
		LogQ:           p.paramsNTRU.LogQ(),
		NTRUSigma:      p.paramsNTRU.Sigma(),
		RLWESigma:      p.paramsRLWE.Sigma(),
		GaussianSecret: p.gaussianSecret,
		LWEDimension:   p.paramsLWE.N(),
		LogQLWE:        p.paramsLWE.LogQ(),
		LWESigma:       p.paramsLWE.Sigma(),
		BlindRotation:  p.br,
		SwitchingKey:   utils.Pointy(p.swk),
		Trace:          p.tr,
		Keyswitch:      p.ksk,
		SchemeSwitch:   p.ss,
	}
}

// Name returns the name of the profile, if any.
func (p Parameters) Name() string {
	return p.name
}

// NTRUParameters returns the parameters of the NTRU ciphertexts.
func (p Parameters) NTRUParameters() ntru.Parameters {
	return p.paramsNTRU
}

// RLWEParameters returns the parameters of the RLWE ciphertexts of the GGSW output.
func (p Parameters) RLWEParameters() rlwe.Parameters {
	return p.paramsRLWE
}

// LWEParameters returns the parameters of the input LWE samples.
func (p Parameters) LWEParameters() lwe.Parameters {
	return p.paramsLWE
}

// OutputLWEParameters returns the parameters of the LWE samples produced by [Evaluator.Bootstrap],
// which are encrypted under the coefficients of the NTRU secret.
func (p Parameters) OutputLWEParameters() lwe.Parameters {
	return p.paramsNTRU.LWEParameters()
}

// N returns the ring degree.
func (p Parameters) N() int {
	return p.paramsNTRU.N()
}

// LogN returns log2 of the ring degree.
func (p Parameters) LogN() int {
	return p.paramsNTRU.LogN()
}

// LogQ returns log2 of the ring modulus.
func (p Parameters) LogQ() int {
	return p.paramsNTRU.LogQ()
}

// BlindRotationGadget returns the gadget of the blind rotation keys.
func (p Parameters) BlindRotationGadget() GadgetLiteral {
	return p.br
}

// SwitchingKeyGadget returns the gadget of the switching key.
func (p Parameters) SwitchingKeyGadget() GadgetLiteral {
	return p.swk
}

// TraceGadget returns the gadget of the automorphism keys of the trace.
func (p Parameters) TraceGadget() GadgetLiteral {
	return p.tr
}

// KeyswitchGadget returns the gadget of the NTRU to RLWE key.
func (p Parameters) KeyswitchGadget() GadgetLiteral {
	return p.ksk
}

// SchemeSwitchGadget returns the gadget of the scheme-switching keys.
func (p Parameters) SchemeSwitchGadget() GadgetLiteral {
	return p.ss
}

// Equal returns true if the two sets of parameters are identical.
func (p Parameters) Equal(other *Parameters) bool {
	return cmp.Equal(p.ParametersLiteral(), other.ParametersLiteral())
}
