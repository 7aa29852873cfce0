package ntru

import (
	"fmt"

	"github.com/tuneinsight/ntrutfhe/ring"
	"github.com/tuneinsight/ntrutfhe/utils/structs"
)

// Evaluator is a struct that holds the necessary elements to evaluate the external product,
// the key-switchings and the automorphisms on NTRU ciphertexts.
//
// All temporary memory is drawn from an internal [structs.Stack] that grows on demand,
// hence an Evaluator is not safe for concurrent use, see [Evaluator.ShallowCopy].
type Evaluator struct {
	params Parameters
	fft    *ring.FFT
	stack  *structs.Stack
}

// NewEvaluator creates a new [Evaluator].
func NewEvaluator(params Parameters) *Evaluator {
	return &Evaluator{
		params: params,
		fft:    ring.NewFFT(params.N()),
		stack:  structs.NewStack(structs.StackReq{}),
	}
}

// NewEvaluatorWithScratch creates a new [Evaluator] whose stack is pre-allocated to req.
func NewEvaluatorWithScratch(params Parameters, req structs.StackReq) *Evaluator {
	eval := NewEvaluator(params)
	eval.stack = structs.NewStack(req)
	return eval
}

// ScratchSize returns the current capacity of the scratch stack of the target.
func (eval Evaluator) ScratchSize() structs.StackReq {
	return eval.stack.Size()
}

// GetNTRUParameters returns the parameters of the target.
func (eval Evaluator) GetNTRUParameters() *Parameters {
	return &eval.params
}

// ShallowCopy creates a copy of the [Evaluator] sharing the read-only data of the receiver.
// The returned Evaluator can be used concurrently with the receiver.
func (eval Evaluator) ShallowCopy() *Evaluator {
	return &Evaluator{
		params: eval.params,
		fft:    eval.fft.ShallowCopy(),
		stack:  structs.NewStack(eval.stack.Size()),
	}
}

// gadgetProductScratch returns the scratch memory of the inner product between a decomposition
// with levelCount digits and a gadget ciphertext with comps components per row.
func gadgetProductScratch(N, levelCount, comps int) structs.StackReq {
	h := N >> 1
	return structs.Uint64Req((levelCount + comps) * N).And(structs.Complex128Req((levelCount + comps) * h))
}

// ExternalProductScratch returns the scratch memory used by [Evaluator.ExternalProduct].
func ExternalProductScratch(N, levelCount int) structs.StackReq {
	return gadgetProductScratch(N, levelCount, 1)
}

// KeyswitchScratch returns the scratch memory used by [Evaluator.Keyswitch].
func KeyswitchScratch(N, levelCount int) structs.StackReq {
	return gadgetProductScratch(N, levelCount, 1)
}

// SwitchToNTRUScratch returns the scratch memory used by [Evaluator.SwitchToNTRU].
func SwitchToNTRUScratch(N, levelCount int) structs.StackReq {
	return structs.Uint64Req(N).And(KeyswitchScratch(N, levelCount))
}

// AutomorphismScratch returns the scratch memory used by [Evaluator.Automorphism].
func AutomorphismScratch(N, levelCount int) structs.StackReq {
	return structs.Uint64Req(N).And(KeyswitchScratch(N, levelCount))
}

// ReverseTraceScratch returns the scratch memory used by [Evaluator.ReverseTrace].
func ReverseTraceScratch(N, levelCount int) structs.StackReq {
	return structs.Uint64Req(N).And(AutomorphismScratch(N, levelCount))
}

// KeyswitchToRLWEScratch returns the scratch memory used by [Evaluator.KeyswitchToRLWE]
// and [Evaluator.SchemeSwitchRLWE].
func KeyswitchToRLWEScratch(N, levelCount int) structs.StackReq {
	return gadgetProductScratch(N, levelCount, 2)
}

// checkGadget checks that the Fourier gadget ciphertext g is defined modulo the modulus of params.
func checkGadget(params Parameters, g fourierGadget) error {
	if err := checkLogQ(params, g.modulus()); err != nil {
		return fmt.Errorf("gadget ciphertext: %w", err)
	}
	return nil
}

// gadgetProduct evaluates the inner product between the gadget decomposition of in and the rows of g,
// and writes (or adds if accumulate is true) the component c of the result on outs[c].
// Each out can alias in.
func (eval Evaluator) gadgetProduct(g fourierGadget, in ring.Poly, outs []ring.Poly, accumulate bool) {

	baseLog, levelCount, typ := g.gadget()

	N := eval.params.N()
	h := N >> 1
	ringQ := eval.params.RingQ()
	fft := eval.fft

	mark := eval.stack.Mark()
	defer eval.stack.Release(mark)

	d := ring.NewSignedDecomposer(baseLog, levelCount)

	digits := make([]ring.Poly, levelCount)
	for i := range digits {
		digits[i] = ring.PolyFromBuffer(eval.stack.Uint64s(N))
	}

	d.DecomposePoly(in, digits)

	// digits[i] is the digit of level levelCount-i, as are the rows of g
	fdigits := make([]ring.FourierPoly, levelCount)
	for i := range fdigits {
		fdigits[i] = eval.stack.Complex128s(h)
		fft.Forward(digits[i], fdigits[i])
	}

	acc := make([]ring.FourierPoly, len(outs))
	buf := make([]ring.Poly, len(outs))
	for c := range acc {
		acc[c] = eval.stack.Complex128s(h)
		buf[c] = ring.PolyFromBuffer(eval.stack.Uint64s(N))
	}

	// high part first: buf = 2^SplitBaseLog * round(high) + low
	for split := typ.Splits() - 1; split >= 0; split-- {

		for c := range acc {
			acc[c].Zero()
		}

		for r := 0; r < levelCount; r++ {
			row := g.row(split, r)
			for c := range acc {
				fft.MulAdd(fdigits[r], row[c], acc[c])
			}
		}

		for c := range acc {
			fft.AddBackward(acc[c], buf[c], acc[c])
		}

		if split == 1 {
			// the high product is meaningful only on the grid of Z_Q, its float error must not be scaled into it
			for c := range buf {
				ringQ.RoundToModulus(buf[c], buf[c])
				ringQ.MulScalar(buf[c], 1<<typ.SplitBaseLog, buf[c])
			}
		}
	}

	for c, out := range outs {
		if accumulate {
			ringQ.Add(out, buf[c], out)
		} else {
			out.Copy(buf[c])
		}
		ringQ.RoundToModulus(out, out)
	}
}

// ExternalProduct evaluates out = out + ngsw x ct. out can alias ct, in which case
// ct is replaced by ct + ngsw x ct.
func (eval Evaluator) ExternalProduct(ngsw *FourierNGSWCiphertext, ct, out *Ciphertext) {

	if err := checkCiphertexts(eval.params, ct, out); err != nil {
		panic(fmt.Errorf("cannot ExternalProduct: %w", err))
	}

	if err := checkGadget(eval.params, ngsw); err != nil {
		panic(fmt.Errorf("cannot ExternalProduct: %w", err))
	}

	eval.gadgetProduct(ngsw, ct.Value, []ring.Poly{out.Value}, true)
}

// ConvertNGSW writes the Fourier form of ct on fct.
func (eval Evaluator) ConvertNGSW(ct *NGSWCiphertext, fct *FourierNGSWCiphertext) {

	if ct.BaseLog != fct.BaseLog || ct.LevelCount != fct.LevelCount {
		panic(fmt.Errorf("cannot ConvertNGSW: gadget (%d, %d) does not match Fourier gadget (%d, %d)", ct.BaseLog, ct.LevelCount, fct.BaseLog, fct.LevelCount))
	}

	for _, logQ := range []int{ct.LogQ, fct.LogQ} {
		if err := checkLogQ(eval.params, logQ); err != nil {
			panic(fmt.Errorf("cannot ConvertNGSW: %w", err))
		}
	}

	ringQ := eval.params.RingQ()

	mark := eval.stack.Mark()
	defer eval.stack.Release(mark)

	buf := ring.PolyFromBuffer(eval.stack.Uint64s(eval.params.N()))

	for s := range fct.Value {
		for r := range fct.Value[s] {
			fct.Type.split(ringQ, ct.Value[r].Value, s, buf)
			eval.fft.Forward(buf, fct.Value[s][r])
		}
	}
}

// ConvertNGSWNew returns the Fourier form of ct for the given [FFTType].
func (eval Evaluator) ConvertNGSWNew(ct *NGSWCiphertext, typ FFTType) (fct *FourierNGSWCiphertext) {
	fct = NewFourierNGSWCiphertext(eval.params, ct.BaseLog, ct.LevelCount, typ)
	eval.ConvertNGSW(ct, fct)
	return
}

// ConvertRLWEGadget writes the Fourier form of ct on fct.
func (eval Evaluator) ConvertRLWEGadget(ct *RLWEGadgetCiphertext, fct *FourierRLWEGadgetCiphertext) {

	if ct.BaseLog != fct.BaseLog || ct.LevelCount != fct.LevelCount {
		panic(fmt.Errorf("cannot ConvertRLWEGadget: gadget (%d, %d) does not match Fourier gadget (%d, %d)", ct.BaseLog, ct.LevelCount, fct.BaseLog, fct.LevelCount))
	}

	for _, logQ := range []int{ct.LogQ, fct.LogQ} {
		if err := checkLogQ(eval.params, logQ); err != nil {
			panic(fmt.Errorf("cannot ConvertRLWEGadget: %w", err))
		}
	}

	ringQ := eval.params.RingQ()

	mark := eval.stack.Mark()
	defer eval.stack.Release(mark)

	buf := ring.PolyFromBuffer(eval.stack.Uint64s(eval.params.N()))

	for s := range fct.Value {
		for r := range fct.Value[s] {
			for c, p := range [2]ring.Poly{ct.Value[r].Mask, ct.Value[r].Body} {
				fct.Type.split(ringQ, p, s, buf)
				eval.fft.Forward(buf, fct.Value[s][r][c])
			}
		}
	}
}

// ConvertRLWEGadgetNew returns the Fourier form of ct for the given [FFTType].
func (eval Evaluator) ConvertRLWEGadgetNew(ct *RLWEGadgetCiphertext, typ FFTType) (fct *FourierRLWEGadgetCiphertext) {
	fct = NewFourierRLWEGadgetCiphertext(eval.params, ct.BaseLog, ct.LevelCount, typ)
	eval.ConvertRLWEGadget(ct, fct)
	return
}

// ConvertKeyswitchKeyNew returns the Fourier form of ksk.
func (eval Evaluator) ConvertKeyswitchKeyNew(ksk *KeyswitchKey, typ FFTType) *FourierKeyswitchKey {
	return &FourierKeyswitchKey{FourierNGSWCiphertext: *eval.ConvertNGSWNew(&ksk.NGSWCiphertext, typ)}
}

// ConvertSwitchingKeyNew returns the Fourier form of swk.
func (eval Evaluator) ConvertSwitchingKeyNew(swk *SwitchingKey, typ FFTType) *FourierSwitchingKey {
	return &FourierSwitchingKey{FourierKeyswitchKey: *eval.ConvertKeyswitchKeyNew(&swk.KeyswitchKey, typ)}
}

// ConvertAutomorphismKeyNew returns the Fourier form of atk.
func (eval Evaluator) ConvertAutomorphismKeyNew(atk *AutomorphismKey, typ FFTType) *FourierAutomorphismKey {
	return &FourierAutomorphismKey{
		GaloisElement:       atk.GaloisElement,
		FourierKeyswitchKey: *eval.ConvertKeyswitchKeyNew(&atk.KeyswitchKey, typ),
	}
}

// ConvertTraceKeyNew returns the Fourier form of tk.
func (eval Evaluator) ConvertTraceKeyNew(tk *TraceKey, typ FFTType) (ftk *FourierTraceKey) {
	ftk = &FourierTraceKey{Keys: make([]FourierAutomorphismKey, len(tk.Keys))}
	for i := range tk.Keys {
		ftk.Keys[i] = *eval.ConvertAutomorphismKeyNew(&tk.Keys[i], typ)
	}
	return
}

// ConvertNTRUSchemeSwitchKeyNew returns the Fourier form of ssk.
func (eval Evaluator) ConvertNTRUSchemeSwitchKeyNew(ssk *NTRUSchemeSwitchKey, typ FFTType) *FourierNTRUSchemeSwitchKey {
	return &FourierNTRUSchemeSwitchKey{FourierKeyswitchKey: *eval.ConvertKeyswitchKeyNew(&ssk.KeyswitchKey, typ)}
}

// ConvertNTRUToRLWEKeyNew returns the Fourier form of key.
func (eval Evaluator) ConvertNTRUToRLWEKeyNew(key *NTRUToRLWEKey, typ FFTType) *FourierNTRUToRLWEKey {
	return &FourierNTRUToRLWEKey{FourierRLWEGadgetCiphertext: *eval.ConvertRLWEGadgetNew(&key.RLWEGadgetCiphertext, typ)}
}

// ConvertRLWESchemeSwitchKeyNew returns the Fourier form of key.
func (eval Evaluator) ConvertRLWESchemeSwitchKeyNew(key *RLWESchemeSwitchKey, typ FFTType) *FourierRLWESchemeSwitchKey {
	return &FourierRLWESchemeSwitchKey{FourierRLWEGadgetCiphertext: *eval.ConvertRLWEGadgetNew(&key.RLWEGadgetCiphertext, typ)}
}
