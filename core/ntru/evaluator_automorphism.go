package ntru

import (
	"fmt"

	"github.com/tuneinsight/ntrutfhe/ring"
)

// Automorphism evaluates ctOut = ctIn(X^GaloisElement) re-encrypted under f with atk.
// ctOut can alias ctIn.
func (eval Evaluator) Automorphism(atk *FourierAutomorphismKey, ctIn, ctOut *Ciphertext) {

	if err := checkCiphertexts(eval.params, ctIn, ctOut); err != nil {
		panic(fmt.Errorf("cannot Automorphism: %w", err))
	}

	if err := checkGadget(eval.params, &atk.FourierKeyswitchKey); err != nil {
		panic(fmt.Errorf("cannot Automorphism: %w", err))
	}

	mark := eval.stack.Mark()
	defer eval.stack.Release(mark)

	buf := ring.PolyFromBuffer(eval.stack.Uint64s(eval.params.N()))
	eval.params.RingQ().Automorphism(ctIn.Value, atk.GaloisElement, buf)

	eval.gadgetProduct(&atk.FourierKeyswitchKey, buf, []ring.Poly{ctOut.Value}, false)
}

// ReverseTrace evaluates ctOut = sum_{k=1}^{LogN} (1 + tau_{2^k+1}) ctIn / 2^LogN, which zeroes every
// coefficient of the plaintext but the constant one.
// The message must fit in Q/2^LogN, since each of the LogN rounds halves the ciphertext.
// ctOut can alias ctIn.
func (eval Evaluator) ReverseTrace(tk *FourierTraceKey, ctIn, ctOut *Ciphertext) {

	logN := eval.params.LogN()

	if len(tk.Keys) != logN {
		panic(fmt.Errorf("cannot ReverseTrace: trace key has %d automorphism keys but LogN=%d", len(tk.Keys), logN))
	}

	if err := checkCiphertexts(eval.params, ctIn, ctOut); err != nil {
		panic(fmt.Errorf("cannot ReverseTrace: %w", err))
	}

	ringQ := eval.params.RingQ()

	mark := eval.stack.Mark()
	defer eval.stack.Release(mark)

	tmp := &Ciphertext{Value: ring.PolyFromBuffer(eval.stack.Uint64s(eval.params.N())), LogQ: eval.params.LogQ()}

	if ctIn != ctOut {
		ctOut.Copy(ctIn)
	}

	for k := 1; k <= logN; k++ {
		ringQ.HalveAndRound(ctOut.Value, ctOut.Value)
		eval.Automorphism(&tk.Keys[k-1], ctOut, tmp)
		ringQ.Add(ctOut.Value, tmp.Value, ctOut.Value)
	}
}
