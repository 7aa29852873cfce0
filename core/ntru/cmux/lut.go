package cmux

import (
	"fmt"

	"github.com/tuneinsight/ntrutfhe/ring"
	"github.com/tuneinsight/ntrutfhe/utils"
)

// NewLookUpTable returns the accumulator evaluating f on messages of logMsg bits with [Evaluator.Bootstrap].
//
// The input message m is expected to be encoded as m * Q_in/2^(logMsg+1), leaving a padding bit,
// and f(m) is encoded on the output as f(m) * Q/2^(logMsg+1).
func NewLookUpTable(params Parameters, f func(m uint64) uint64, logMsg int) (lut ring.Poly) {

	N := params.N()
	logQ := params.LogQ()

	if logMsg < 1 || logMsg >= params.LogN() {
		panic(fmt.Errorf("cannot NewLookUpTable: logMsg=%d must be in [1, %d)", logMsg, params.LogN()))
	}

	ringQ := params.NTRUParameters().RingQ()
	mask := uint64(1)<<logQ - 1
	delta := uint64(1) << (logQ - 1 - logMsg)
	box := N >> logMsg

	lut = ringQ.NewPoly()

	for m := 0; m < 1<<logMsg; m++ {
		v := (f(uint64(m)) * delta) & mask
		for j := m * box; j < (m+1)*box; j++ {
			lut.Coeffs[j] = v
		}
	}

	// Phases around 0 wrap to the negacyclic side of the accumulator.
	for j := 0; j < box>>1; j++ {
		lut.Coeffs[j] = -lut.Coeffs[j] & mask
	}

	utils.RotateSliceInPlace(lut.Coeffs, box>>1)

	return
}
