package cmux

import (
	"fmt"

	"go.dedis.ch/onet/v3/log"

	"github.com/tuneinsight/ntrutfhe/core/lwe"
	"github.com/tuneinsight/ntrutfhe/core/ntru"
	"github.com/tuneinsight/ntrutfhe/core/rlwe"
)

// CircuitBootstrap maps the LWE encryption ct of a bit b, encoded as b * Q_in/2, to the
// [rlwe.GGSWCiphertext] out of b under the RLWE secret of cbk, with the gadget of out.
// Each blind rotation produces 2^logLUTCount levels of out.
// out.BaseLog * out.LevelCount must be smaller than LogQ.
func (eval Evaluator) CircuitBootstrap(cbk *FourierCircuitBootstrapKey, ct *lwe.Ciphertext, logLUTCount int, out *rlwe.GGSWCiphertext) {
	eval.circuitBootstrap(cbk, ct, out.BaseLog, out.LevelCount, logLUTCount, func(r, level int, row *ntru.Ciphertext) {

		body := &out.Value[r][1]

		eval.KeyswitchToRLWE(&cbk.NTRUToRLWEKey, row, body)
		body.Body.Coeffs[0] += halfGadget(out.BaseLog, level)

		eval.SchemeSwitchRLWE(&cbk.RLWESchemeSwitchKey, body, &out.Value[r][0])
	})
}

// CircuitBootstrapNGSW is [Evaluator.CircuitBootstrap] with an [ntru.NGSWCiphertext] output,
// encrypting b under the NTRU secret of cbk.
func (eval Evaluator) CircuitBootstrapNGSW(cbk *FourierCircuitBootstrapKey, ct *lwe.Ciphertext, logLUTCount int, out *ntru.NGSWCiphertext) {
	eval.circuitBootstrap(cbk, ct, out.BaseLog, out.LevelCount, logLUTCount, func(r, level int, row *ntru.Ciphertext) {
		eval.SchemeSwitchNTRU(&cbk.NTRUSchemeSwitchKey, row, &out.Value[r])
		out.Value[r].Value.Coeffs[0] += halfGadget(out.BaseLog, level)
	})
}

// halfGadget returns 2^(63 - baseLog*level), half of the gadget of the given level.
func halfGadget(baseLog, level int) uint64 {
	return 1 << (63 - baseLog*level)
}

// circuitBootstrap produces, for each row r of a gadget ciphertext of b, an NTRU encryption of
// (2b-1) * g/2 with g the gadget of the level levelCount-r, and hands it to emit.
func (eval Evaluator) circuitBootstrap(cbk *FourierCircuitBootstrapKey, ct *lwe.Ciphertext, baseLog, levelCount, logLUTCount int, emit func(r, level int, row *ntru.Ciphertext)) {

	logN := eval.params.LogN()
	logQ := eval.params.LogQ()

	if baseLog*levelCount >= logQ {
		panic(fmt.Errorf("cannot CircuitBootstrap: BaseLog*LevelCount=%d must be smaller than LogQ=%d", baseLog*levelCount, logQ))
	}

	if logLUTCount < 0 || logLUTCount > logN {
		panic(fmt.Errorf("cannot CircuitBootstrap: logLUTCount=%d must be in [0, %d]", logLUTCount, logN))
	}

	ringQ := eval.params.NTRUParameters().RingQ()
	mask := uint64(1)<<logQ - 1
	lutCount := 1 << logLUTCount
	chunks := (levelCount + lutCount - 1) / lutCount

	// b * Q_in/2 + Q_in/4 lands in the middle of the positive (b = 0) or negative (b = 1) half of Z_2N
	msed := ModSwitchManyLUT(ct, 1<<62, logN+1, logLUTCount)

	for chunk := 0; chunk < chunks; chunk++ {

		log.Lvl3("Circuit bootstrap: blind rotation", chunk+1, "of", chunks)

		// The coefficient i evaluates the row chunk*lutCount + (i mod lutCount).
		for i := range eval.lut.Coeffs {
			if r := chunk*lutCount + (i & (lutCount - 1)); r < levelCount {
				eval.lut.Coeffs[i] = -(uint64(1) << (logQ - baseLog*(levelCount-r) - 1)) & mask
			} else {
				eval.lut.Coeffs[i] = 0
			}
		}

		eval.SwitchToNTRU(&cbk.SwitchingKey, eval.lut, eval.acc)
		eval.BlindRotate(&cbk.FourierBootstrapKey, eval.acc, msed)

		for t := 0; t < lutCount; t++ {

			r := chunk*lutCount + t
			if r >= levelCount {
				break
			}

			ringQ.DivByMonomial(eval.acc.Value, t, eval.row.Value)
			eval.ReverseTrace(&cbk.TraceKey, eval.row, eval.row)

			emit(r, levelCount-r, eval.row)
		}
	}
}
