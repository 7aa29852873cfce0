package rlwe

import (
	"fmt"

	"github.com/tuneinsight/ntrutfhe/ring"
	"github.com/tuneinsight/ntrutfhe/utils/structs"
)

// GGSWCiphertext is a rank-1 GGSW ciphertext of a small integer m.
// Value[r] is the level LevelCount-r of the gadget g: Value[r][0] encrypts -s*m*g
// and Value[r][1] encrypts m*g.
type GGSWCiphertext struct {
	Value      [][2]Ciphertext
	BaseLog    int
	LevelCount int
}

// NewGGSWCiphertext allocates a new zero [GGSWCiphertext].
func NewGGSWCiphertext(params Parameters, baseLog, levelCount int) *GGSWCiphertext {

	// Sanity check of the decomposition parameters
	ring.NewSignedDecomposer(baseLog, levelCount)

	value := make([][2]Ciphertext, levelCount)
	for r := range value {
		value[r] = [2]Ciphertext{*NewCiphertext(params), *NewCiphertext(params)}
	}

	return &GGSWCiphertext{Value: value, BaseLog: baseLog, LevelCount: levelCount}
}

// Evaluator evaluates the external product between [GGSWCiphertext] and [Ciphertext].
// An Evaluator is not safe for concurrent use, see [Evaluator.ShallowCopy].
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

// ShallowCopy creates a copy of the [Evaluator] sharing the read-only data of the receiver.
// The returned Evaluator can be used concurrently with the receiver.
func (eval Evaluator) ShallowCopy() *Evaluator {
	return &Evaluator{
		params: eval.params,
		fft:    eval.fft.ShallowCopy(),
		stack:  structs.NewStack(eval.stack.Size()),
	}
}

// ExternalProductScratch returns the scratch memory used by [Evaluator.ExternalProduct].
func ExternalProductScratch(N, levelCount int) structs.StackReq {
	h := N >> 1
	return structs.Uint64Req(2 * levelCount * N).And(structs.Complex128Req((2*levelCount + 3) * h))
}

// ExternalProduct evaluates out = ggsw x ct. out can alias ct.
func (eval Evaluator) ExternalProduct(ggsw *GGSWCiphertext, ct, out *Ciphertext) {

	if err := checkN(eval.params, ct.Mask, ct.Body, out.Mask, out.Body); err != nil {
		panic(fmt.Errorf("cannot ExternalProduct: %w", err))
	}

	N := eval.params.N()
	h := N >> 1
	l := ggsw.LevelCount
	ringQ := eval.params.RingQ()
	fft := eval.fft

	mark := eval.stack.Mark()
	defer eval.stack.Release(mark)

	d := ring.NewSignedDecomposer(ggsw.BaseLog, l)

	digits := make([]ring.Poly, 2*l)
	for i := range digits {
		digits[i] = ring.PolyFromBuffer(eval.stack.Uint64s(N))
	}

	d.DecomposePoly(ct.Mask, digits[:l])
	d.DecomposePoly(ct.Body, digits[l:])

	fdigits := make([]ring.FourierPoly, 2*l)
	for i := range fdigits {
		fdigits[i] = eval.stack.Complex128s(h)
		fft.Forward(digits[i], fdigits[i])
	}

	accMask := ring.FourierPoly(eval.stack.Complex128s(h))
	accBody := ring.FourierPoly(eval.stack.Complex128s(h))
	row := ring.FourierPoly(eval.stack.Complex128s(h))

	for r := 0; r < l; r++ {
		for c, term := range [2]ring.FourierPoly{fdigits[r], fdigits[l+r]} {
			g := &ggsw.Value[r][c]
			fft.Forward(g.Mask, row)
			fft.MulAdd(term, row, accMask)
			fft.Forward(g.Body, row)
			fft.MulAdd(term, row, accBody)
		}
	}

	fft.Backward(accMask, out.Mask, accMask)
	fft.Backward(accBody, out.Body, accBody)

	ringQ.RoundToModulus(out.Mask, out.Mask)
	ringQ.RoundToModulus(out.Body, out.Body)
}
