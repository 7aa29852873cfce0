package ntru

import (
	"fmt"

	"github.com/tuneinsight/ntrutfhe/core/rlwe"
	"github.com/tuneinsight/ntrutfhe/ring"
)

// Keyswitch re-encrypts ctIn under the target key of ksk and writes the result on ctOut.
// ctOut can alias ctIn.
func (eval Evaluator) Keyswitch(ksk *FourierKeyswitchKey, ctIn, ctOut *Ciphertext) {

	if err := checkCiphertexts(eval.params, ctIn, ctOut); err != nil {
		panic(fmt.Errorf("cannot Keyswitch: %w", err))
	}

	if err := checkGadget(eval.params, ksk); err != nil {
		panic(fmt.Errorf("cannot Keyswitch: %w", err))
	}

	eval.gadgetProduct(ksk, ctIn.Value, []ring.Poly{ctOut.Value}, false)
}

// SwitchToNTRU encrypts pt, with coefficients in [0, Q), as an NTRU ciphertext, using the
// public [FourierSwitchingKey].
func (eval Evaluator) SwitchToNTRU(swk *FourierSwitchingKey, pt ring.Poly, ct *Ciphertext) {

	if err := checkN(eval.params, pt); err != nil {
		panic(fmt.Errorf("cannot SwitchToNTRU: %w", err))
	}

	if err := checkCiphertexts(eval.params, ct); err != nil {
		panic(fmt.Errorf("cannot SwitchToNTRU: %w", err))
	}

	if err := checkGadget(eval.params, swk); err != nil {
		panic(fmt.Errorf("cannot SwitchToNTRU: %w", err))
	}

	ringQ := eval.params.RingQ()

	mark := eval.stack.Mark()
	defer eval.stack.Release(mark)

	buf := ring.PolyFromBuffer(eval.stack.Uint64s(eval.params.N()))
	ringQ.MulScalar(pt, 1<<ringQ.TorusShift(), buf)

	eval.switchNativeToNTRU(swk, buf, ct)
}

// switchNativeToNTRU is [Evaluator.SwitchToNTRU] for a plaintext in the native representation.
func (eval Evaluator) switchNativeToNTRU(swk *FourierSwitchingKey, pt ring.Poly, ct *Ciphertext) {
	eval.gadgetProduct(swk, pt, []ring.Poly{ct.Value}, false)
}

// KeyswitchToRLWE maps the NTRU ciphertext ctIn to an RLWE ciphertext of the same message
// under the RLWE key of key.
func (eval Evaluator) KeyswitchToRLWE(key *FourierNTRUToRLWEKey, ctIn *Ciphertext, ctOut *rlwe.Ciphertext) {

	if err := checkN(eval.params, ctOut.Mask, ctOut.Body); err != nil {
		panic(fmt.Errorf("cannot KeyswitchToRLWE: %w", err))
	}

	if err := checkCiphertexts(eval.params, ctIn); err != nil {
		panic(fmt.Errorf("cannot KeyswitchToRLWE: %w", err))
	}

	if err := checkGadget(eval.params, key); err != nil {
		panic(fmt.Errorf("cannot KeyswitchToRLWE: %w", err))
	}

	eval.gadgetProduct(key, ctIn.Value, []ring.Poly{ctOut.Mask, ctOut.Body}, false)
}

// SchemeSwitchRLWE maps the RLWE ciphertext ctIn of m under s to an RLWE ciphertext of -s*m under s.
// It derives the mask row of a GGSW level from its body row. ctOut must not alias ctIn.
func (eval Evaluator) SchemeSwitchRLWE(key *FourierRLWESchemeSwitchKey, ctIn, ctOut *rlwe.Ciphertext) {

	if err := checkN(eval.params, ctIn.Mask, ctIn.Body, ctOut.Mask, ctOut.Body); err != nil {
		panic(fmt.Errorf("cannot SchemeSwitchRLWE: %w", err))
	}

	if err := checkGadget(eval.params, key); err != nil {
		panic(fmt.Errorf("cannot SchemeSwitchRLWE: %w", err))
	}

	if ctIn == ctOut {
		panic("cannot SchemeSwitchRLWE: ctOut must not alias ctIn")
	}

	ringQ := eval.params.RingQ()

	// phase(sum dec(a)_l * key_l) = -a*s^2, subtracting b from the mask adds b*s
	eval.gadgetProduct(key, ctIn.Mask, []ring.Poly{ctOut.Mask, ctOut.Body}, false)
	ringQ.Sub(ctOut.Mask, ctIn.Body, ctOut.Mask)
	ringQ.Neg(ctOut.Mask, ctOut.Mask)
	ringQ.Neg(ctOut.Body, ctOut.Body)
}

// SchemeSwitchNTRU maps the NTRU ciphertext ctIn of m*g under f to the NGSW row of level g
// encrypting m under f, that is an NTRU encryption of zero plus m*g.
// ctOut can alias ctIn.
func (eval Evaluator) SchemeSwitchNTRU(key *FourierNTRUSchemeSwitchKey, ctIn, ctOut *Ciphertext) {
	eval.Keyswitch(&key.FourierKeyswitchKey, ctIn, ctOut)
}
