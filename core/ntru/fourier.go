package ntru

import (
	"fmt"

	"github.com/tuneinsight/ntrutfhe/ring"
)

// FFTType selects how gadget ciphertexts are stored in the Fourier domain.
//
// The zero value, [Vanilla], transforms each polynomial as is. [Split] cuts each
// coefficient of Z_Q in a low part of SplitBaseLog bits and a high part, and transforms
// both: products against the low part and against the high part are computed separately,
// which keeps the products within the precision of a float64 for large moduli.
type FFTType struct {
	SplitBaseLog int
}

// Vanilla is the [FFTType] without splitting.
var Vanilla = FFTType{}

// Split returns the [FFTType] splitting each coefficient at splitBaseLog bits.
func Split(splitBaseLog int) FFTType {
	if splitBaseLog <= 0 {
		panic(fmt.Errorf("cannot Split: splitBaseLog=%d must be positive", splitBaseLog))
	}
	return FFTType{SplitBaseLog: splitBaseLog}
}

// IsSplit returns true if the target splits the coefficients.
func (t FFTType) IsSplit() bool {
	return t.SplitBaseLog > 0
}

// Splits returns the number of Fourier polynomials stored per polynomial.
func (t FFTType) Splits() int {
	if t.IsSplit() {
		return 2
	}
	return 1
}

func (t FFTType) String() string {
	if t.IsSplit() {
		return fmt.Sprintf("Split(%d)", t.SplitBaseLog)
	}
	return "Vanilla"
}

func (t FFTType) check(logQ int) {
	if t.IsSplit() && t.SplitBaseLog >= logQ {
		panic(fmt.Errorf("invalid FFTType: SplitBaseLog=%d must be smaller than LogQ=%d", t.SplitBaseLog, logQ))
	}
}

// split writes on out the part of p selected by the index split, in the native representation:
// split 0 is the low SplitBaseLog bits of each coefficient of Z_Q and split 1 the remaining high bits.
func (t FFTType) split(r *ring.Ring, p ring.Poly, split int, out ring.Poly) {

	if !t.IsSplit() {
		out.Copy(p)
		return
	}

	b := t.SplitBaseLog
	s := r.TorusShift()
	logQ := r.LogQ()

	switch split {
	case 0:
		for i, c := range p.Coeffs {
			out.Coeffs[i] = (c << (logQ - b)) >> (logQ - b)
		}
	case 1:
		for i, c := range p.Coeffs {
			out.Coeffs[i] = (c >> (s + b)) << s
		}
	}
}

// fourierGadget is a gadget ciphertext in the Fourier domain, the inner product
// of a decomposition is computed against its rows.
type fourierGadget interface {
	gadget() (baseLog, levelCount int, typ FFTType)
	modulus() (logQ int)
	row(split, r int) []ring.FourierPoly
}

// FourierNGSWCiphertext is the Fourier form of an [NGSWCiphertext].
// Value[split][r] is the transform of the split part of the row r.
type FourierNGSWCiphertext struct {
	Value      [][]ring.FourierPoly
	BaseLog    int
	LevelCount int
	LogQ       int
	Type       FFTType
}

// NewFourierNGSWCiphertext allocates a new zero [FourierNGSWCiphertext] backed by a single contiguous buffer.
func NewFourierNGSWCiphertext(params Parameters, baseLog, levelCount int, typ FFTType) *FourierNGSWCiphertext {

	ring.NewSignedDecomposer(baseLog, levelCount)
	typ.check(params.LogQ())

	h := params.N() >> 1
	buf := make([]complex128, typ.Splits()*levelCount*h)

	value := make([][]ring.FourierPoly, typ.Splits())
	for s := range value {
		value[s] = make([]ring.FourierPoly, levelCount)
		for r := range value[s] {
			value[s][r], buf = buf[:h:h], buf[h:]
		}
	}

	return &FourierNGSWCiphertext{Value: value, BaseLog: baseLog, LevelCount: levelCount, LogQ: params.LogQ(), Type: typ}
}

func (ct *FourierNGSWCiphertext) gadget() (baseLog, levelCount int, typ FFTType) {
	return ct.BaseLog, ct.LevelCount, ct.Type
}

func (ct *FourierNGSWCiphertext) modulus() int {
	return ct.LogQ
}

func (ct *FourierNGSWCiphertext) row(split, r int) []ring.FourierPoly {
	return ct.Value[split][r : r+1]
}

// FourierRLWEGadgetCiphertext is the Fourier form of an [RLWEGadgetCiphertext].
// Value[split][r] holds the transforms of the mask and of the body of the split part of the row r.
type FourierRLWEGadgetCiphertext struct {
	Value      [][][2]ring.FourierPoly
	BaseLog    int
	LevelCount int
	LogQ       int
	Type       FFTType
}

// NewFourierRLWEGadgetCiphertext allocates a new zero [FourierRLWEGadgetCiphertext] backed by a single contiguous buffer.
func NewFourierRLWEGadgetCiphertext(params Parameters, baseLog, levelCount int, typ FFTType) *FourierRLWEGadgetCiphertext {

	ring.NewSignedDecomposer(baseLog, levelCount)
	typ.check(params.LogQ())

	h := params.N() >> 1
	buf := make([]complex128, 2*typ.Splits()*levelCount*h)

	value := make([][][2]ring.FourierPoly, typ.Splits())
	for s := range value {
		value[s] = make([][2]ring.FourierPoly, levelCount)
		for r := range value[s] {
			for c := range value[s][r] {
				value[s][r][c], buf = buf[:h:h], buf[h:]
			}
		}
	}

	return &FourierRLWEGadgetCiphertext{Value: value, BaseLog: baseLog, LevelCount: levelCount, LogQ: params.LogQ(), Type: typ}
}

func (ct *FourierRLWEGadgetCiphertext) gadget() (baseLog, levelCount int, typ FFTType) {
	return ct.BaseLog, ct.LevelCount, ct.Type
}

func (ct *FourierRLWEGadgetCiphertext) modulus() int {
	return ct.LogQ
}

func (ct *FourierRLWEGadgetCiphertext) row(split, r int) []ring.FourierPoly {
	return ct.Value[split][r][:]
}
