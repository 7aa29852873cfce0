package cmux

import (
	"fmt"

	"github.com/tuneinsight/ntrutfhe/core/lwe"
	"github.com/tuneinsight/ntrutfhe/core/ntru"
	"github.com/tuneinsight/ntrutfhe/ring"
	"github.com/tuneinsight/ntrutfhe/utils/structs"
)

// ModSwitchedCiphertext is an LWE sample whose coefficients have been switched
// from the native representation to Z_{2^LogModulus}.
type ModSwitchedCiphertext struct {
	Mask       []uint64
	Body       uint64
	LogModulus int
}

// ModSwitch switches ct to Z_{2^logModulus}, rounding each coefficient to the closest value.
func ModSwitch(ct *lwe.Ciphertext, logModulus int) (msed *ModSwitchedCiphertext) {

	msed = &ModSwitchedCiphertext{Mask: make([]uint64, ct.N()), LogModulus: logModulus}

	for i, ai := range ct.Mask {
		msed.Mask[i] = ring.ModSwitch(ai, logModulus)
	}

	msed.Body = ring.ModSwitch(ct.Body, logModulus)

	return
}

// ModSwitchManyLUT switches ct to Z_{2^logModulus} with every coefficient rounded to a multiple
// of 2^logLUTCount, so that a single blind rotation evaluates 2^logLUTCount interleaved lookup tables.
// correction, in the native representation, is added to the body beforehand.
func ModSwitchManyLUT(ct *lwe.Ciphertext, correction uint64, logModulus, logLUTCount int) (msed *ModSwitchedCiphertext) {

	msed = &ModSwitchedCiphertext{Mask: make([]uint64, ct.N()), LogModulus: logModulus}

	for i, ai := range ct.Mask {
		msed.Mask[i] = ring.ModSwitchManyLUT(ai, logModulus, logLUTCount)
	}

	msed.Body = ring.ModSwitchManyLUT(ct.Body+correction, logModulus, logLUTCount)

	return
}

// Evaluator evaluates the CMux based bootstrapping procedures.
// The methods of [ntru.Evaluator] are available on it.
// An Evaluator is not safe for concurrent use, see [Evaluator.ShallowCopy].
type Evaluator struct {
	*ntru.Evaluator
	params Parameters

	acc *ntru.Ciphertext
	tmp *ntru.Ciphertext
	row *ntru.Ciphertext
	lut ring.Poly
}

// Scratch returns the scratch memory used by [Evaluator.Bootstrap], [Evaluator.CircuitBootstrap]
// and [Evaluator.CircuitBootstrapNGSW] for the gadgets of params.
func Scratch(params Parameters) structs.StackReq {
	N := params.N()
	br, swk, tr := params.BlindRotationGadget(), params.SwitchingKeyGadget(), params.TraceGadget()
	ksk, ss := params.KeyswitchGadget(), params.SchemeSwitchGadget()
	return ntru.SwitchToNTRUScratch(N, swk.LevelCount).Or(
		ntru.ExternalProductScratch(N, br.LevelCount),
		ntru.ReverseTraceScratch(N, tr.LevelCount),
		ntru.KeyswitchToRLWEScratch(N, ksk.LevelCount),
		ntru.KeyswitchToRLWEScratch(N, ss.LevelCount),
		ntru.KeyswitchScratch(N, ss.LevelCount),
	)
}

// NewEvaluator creates a new [Evaluator] whose scratch stack is pre-allocated to [Scratch].
func NewEvaluator(params Parameters) *Evaluator {
	paramsNTRU := params.NTRUParameters()
	return &Evaluator{
		Evaluator: ntru.NewEvaluatorWithScratch(paramsNTRU, Scratch(params)),
		params:    params,
		acc:       ntru.NewCiphertext(paramsNTRU),
		tmp:       ntru.NewCiphertext(paramsNTRU),
		row:       ntru.NewCiphertext(paramsNTRU),
		lut:       paramsNTRU.RingQ().NewPoly(),
	}
}

// GetParameters returns the parameters of the target.
func (eval Evaluator) GetParameters() *Parameters {
	return &eval.params
}

// ShallowCopy creates a copy of the [Evaluator] sharing the read-only data of the receiver.
// The returned Evaluator can be used concurrently with the receiver.
func (eval Evaluator) ShallowCopy() *Evaluator {
	paramsNTRU := eval.params.NTRUParameters()
	return &Evaluator{
		Evaluator: eval.Evaluator.ShallowCopy(),
		params:    eval.params,
		acc:       ntru.NewCiphertext(paramsNTRU),
		tmp:       ntru.NewCiphertext(paramsNTRU),
		row:       ntru.NewCiphertext(paramsNTRU),
		lut:       paramsNTRU.RingQ().NewPoly(),
	}
}

// BlindRotate multiplies acc by X^-(b - <a, s>) where (a, b) is msed and s the LWE secret of bsk.
// msed must be switched to Z_2N.
func (eval Evaluator) BlindRotate(bsk *FourierBootstrapKey, acc *ntru.Ciphertext, msed *ModSwitchedCiphertext) {

	if msed.LogModulus != eval.params.LogN()+1 {
		panic(fmt.Errorf("cannot BlindRotate: LogModulus=%d does not match 2N=2^%d", msed.LogModulus, eval.params.LogN()+1))
	}

	if len(msed.Mask) != len(bsk.BRK) {
		panic(fmt.Errorf("cannot BlindRotate: LWE dimension %d does not match %d blind rotation keys", len(msed.Mask), len(bsk.BRK)))
	}

	ringQ := eval.params.NTRUParameters().RingQ()

	ringQ.DivByMonomial(acc.Value, int(msed.Body), acc.Value)

	// acc <- acc + NGSW(s_i) x (X^a_i * acc - acc)
	for i, ai := range msed.Mask {
		if ai == 0 {
			continue
		}
		ringQ.MulByMonomialThenSub(acc.Value, int(ai), eval.tmp.Value)
		eval.ExternalProduct(&bsk.BRK[i], eval.tmp, acc)
	}
}

// Bootstrap evaluates the lookup table lut on the LWE sample ct and writes on out an LWE sample
// under [ntru.SecretKey.LWESecretKey], see [NewLookUpTable].
// The phase of ct must leave its most significant bit free.
func (eval Evaluator) Bootstrap(bsk *FourierBootstrapKey, ct *lwe.Ciphertext, lut ring.Poly, out *lwe.Ciphertext) {

	eval.SwitchToNTRU(&bsk.SwitchingKey, lut, eval.acc)

	eval.BlindRotate(bsk, eval.acc, ModSwitch(ct, eval.params.LogN()+1))

	ringQ := eval.params.NTRUParameters().RingQ()
	ringQ.RoundToModulus(eval.acc.Value, eval.acc.Value)

	ntru.SampleExtract(eval.acc, 0, out)
}
