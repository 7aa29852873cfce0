package ring

import (
	"fmt"
)

// SignedDecomposer is a gadget decomposer in base 2^BaseLog with LevelCount levels,
// operating on the native uint64 representation.
//
// Level j, for 1 <= j <= LevelCount, is associated to the gadget 2^(64 - BaseLog*j),
// level 1 being the most significant. Decompositions are written least significant
// level first: the digit at index i belongs to level LevelCount-i.
type SignedDecomposer struct {
	BaseLog    int
	LevelCount int
}

// NewSignedDecomposer creates a new [SignedDecomposer].
// It panics if baseLog*levelCount is not in [1, 64].
func NewSignedDecomposer(baseLog, levelCount int) SignedDecomposer {
	if baseLog < 1 || levelCount < 1 || baseLog*levelCount > 64 {
		panic(fmt.Errorf("invalid decomposition parameters: baseLog=%d, levelCount=%d", baseLog, levelCount))
	}
	return SignedDecomposer{BaseLog: baseLog, LevelCount: levelCount}
}

// nonRepresentableBits returns the number of least significant bits discarded by the decomposition.
func (d SignedDecomposer) nonRepresentableBits() int {
	return 64 - d.BaseLog*d.LevelCount
}

// Gadget returns 2^(64 - BaseLog*level).
func (d SignedDecomposer) Gadget(level int) uint64 {
	return 1 << (64 - d.BaseLog*level)
}

// RecompositionSummand returns v * 2^(64 - BaseLog*level).
func (d SignedDecomposer) RecompositionSummand(level int, v uint64) uint64 {
	return v << (64 - d.BaseLog*level)
}

// ClosestRepresentable returns the multiple of 2^(64 - BaseLog*LevelCount) closest to x.
// Ties are rounded up.
func (d SignedDecomposer) ClosestRepresentable(x uint64) uint64 {

	nonRep := d.nonRepresentableBits()

	if nonRep == 0 {
		return x
	}

	res := x >> (nonRep - 1)
	res += res & 1
	return (res >> 1) << nonRep
}

// Decompose writes on digits the LevelCount balanced digits of x,
// least significant level first. Each digit is in [-2^(BaseLog-1), 2^(BaseLog-1))
// and is stored as a two's complement uint64.
func (d SignedDecomposer) Decompose(x uint64, digits []uint64) {

	B := d.BaseLog
	mask := uint64(1)<<B - 1

	u := d.ClosestRepresentable(x) >> d.nonRepresentableBits()

	for i := range digits[:d.LevelCount] {
		digit := u & mask
		u >>= B
		carry := digit >> (B - 1)
		u += carry
		digits[i] = digit - carry<<B
	}
}

// DecomposePoly applies [SignedDecomposer.Decompose] on each coefficient of p
// and writes the digits of level LevelCount-i on digits[i].
func (d SignedDecomposer) DecomposePoly(p Poly, digits []Poly) {

	if len(digits) < d.LevelCount {
		panic(fmt.Errorf("cannot DecomposePoly: len(digits)=%d < LevelCount=%d", len(digits), d.LevelCount))
	}

	B := d.BaseLog
	mask := uint64(1)<<B - 1
	nonRep := d.nonRepresentableBits()

	for k, c := range p.Coeffs {

		u := d.ClosestRepresentable(c) >> nonRep

		for i := 0; i < d.LevelCount; i++ {
			digit := u & mask
			u >>= B
			carry := digit >> (B - 1)
			u += carry
			digits[i].Coeffs[k] = digit - carry<<B
		}
	}
}

// Recompose returns sum digits[i] * 2^(64 - BaseLog*(LevelCount-i)).
func (d SignedDecomposer) Recompose(digits []uint64) (x uint64) {
	for i, digit := range digits[:d.LevelCount] {
		x += d.RecompositionSummand(d.LevelCount-i, digit)
	}
	return
}
