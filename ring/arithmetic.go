package ring

import (
	"fmt"
	"math/bits"

	"github.com/tuneinsight/ntrutfhe/utils"
)

// The functions of this file operate on plain integers modulo 2^k
// (not on the native representation of ciphertext coefficients).

// maskPowerOfTwo returns 2^k - 1 for 1 <= k <= 64.
func maskPowerOfTwo(k int) uint64 {
	if k == 64 {
		return 0xFFFFFFFFFFFFFFFF
	}
	return 1<<k - 1
}

// EGCD computes the extended Euclidean algorithm on a and b and returns
// (g, x, y) such that a*x + b*y = g = gcd(a, b).
// Inputs must be smaller than 2^63.
func EGCD(a, b uint64) (g uint64, x, y int64) {

	if a>>63 != 0 || b>>63 != 0 {
		panic(fmt.Errorf("cannot EGCD: inputs must be smaller than 2^63"))
	}

	r0, r1 := int64(a), int64(b)
	x0, x1 := int64(1), int64(0)
	y0, y1 := int64(0), int64(1)

	for r1 != 0 {
		q := r0 / r1
		r0, r1 = r1, r0-q*r1
		x0, x1 = x1, x0-q*x1
		y0, y1 = y1, y0-q*y1
	}

	return uint64(r0), x0, y0
}

// InverseScalarModPowerOfTwo returns the inverse of the odd integer x modulo 2^k.
func InverseScalarModPowerOfTwo(x uint64, k int) uint64 {

	if x&1 == 0 {
		panic(fmt.Errorf("cannot InverseScalarModPowerOfTwo: %d is even", x))
	}

	// Newton iteration, each step doubles the number of correct bits
	// starting from 3 correct bits (x*x = 1 mod 8 for odd x).
	inv := x
	for i := 0; i < 5; i++ {
		inv *= 2 - x*inv
	}

	return inv & maskPowerOfTwo(k)
}

// DivModPowerOfTwo returns q such that rhs * q = lhs mod 2^k.
// The boolean is false if no such quotient exists, that is if, once their
// greatest common divisor is removed, rhs is still even.
// It panics if rhs = 0 mod 2^k.
func DivModPowerOfTwo(lhs, rhs uint64, k int) (q uint64, ok bool) {

	mask := maskPowerOfTwo(k)
	lhs &= mask
	rhs &= mask

	if rhs == 0 {
		panic(fmt.Errorf("cannot DivModPowerOfTwo: divide by zero"))
	}

	if lhs == 0 {
		return 0, true
	}

	// Removes the common power of two, the odd part of gcd(lhs, rhs) is invertible.
	tz := utils.Min(bits.TrailingZeros64(lhs), bits.TrailingZeros64(rhs))
	lhs >>= tz
	rhs >>= tz

	if rhs&1 == 0 {
		return 0, false
	}

	return (lhs * InverseScalarModPowerOfTwo(rhs, k)) & mask, true
}

// degree returns the index of the highest non-zero coefficient of p, or -1 if p is zero.
func degree(p []uint64) int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] != 0 {
			return i
		}
	}
	return -1
}

// PolyDivModPowerOfTwo computes the long division of lhs by rhs in Z_{2^k}[X],
// writing the quotient on quo and the remainder on rem with lhs = rhs * quo + rem mod 2^k.
// The leading coefficient of rhs does not need to be odd: the division stops as soon as
// the leading coefficient of the remainder cannot be divided by the one of rhs.
// The boolean is true if the division went through, that is deg(rem) < deg(rhs) (or rem = 0).
// It panics if rhs = 0.
func (r Ring) PolyDivModPowerOfTwo(lhs, rhs Poly, k int, quo, rem Poly) (ok bool) {

	mask := maskPowerOfTwo(k)

	degB := degree(rhs.Coeffs)

	if degB < 0 {
		panic(fmt.Errorf("cannot PolyDivModPowerOfTwo: divide by zero"))
	}

	lead := rhs.Coeffs[degB] & mask

	if lead == 0 {
		panic(fmt.Errorf("cannot PolyDivModPowerOfTwo: leading coefficient of rhs is zero mod 2^%d", k))
	}

	quo.Zero()

	a := rem.Coeffs
	for i := range a {
		a[i] = lhs.Coeffs[i] & mask
	}
	b := rhs.Coeffs

	for degA := degree(a); degA >= degB; degA = degree(a[:degA]) {

		c, divisible := DivModPowerOfTwo(a[degA], lead, k)

		if !divisible {
			return false
		}

		shift := degA - degB
		quo.Coeffs[shift] = c

		for i := 0; i <= degB; i++ {
			a[i+shift] = (a[i+shift] - c*b[i]) & mask
		}

		// Sanity check, this error should not happen.
		if a[degA] != 0 {
			panic(fmt.Errorf("cannot PolyDivModPowerOfTwo: leading term was not cancelled"))
		}
	}

	return true
}

// PolyEGCDModPowerOfTwo computes the extended Euclidean algorithm on lhs and rhs over Z_{2^k}[X]
// and returns (g, x, y) such that lhs * x + rhs * y = g mod (X^N+1, 2^k).
// The boolean is true if every division went through, in which case g is a greatest common divisor
// of lhs and rhs. Otherwise the Bezout identity still holds but g is not guaranteed to divide lhs and rhs.
func (r Ring) PolyEGCDModPowerOfTwo(lhs, rhs Poly, k int) (g, x, y Poly, ok bool) {

	mask := maskPowerOfTwo(k)

	a, b := lhs.CopyNew(), rhs.CopyNew()
	reduce(a, mask)
	reduce(b, mask)

	x0, x1 := r.NewPoly(), r.NewPoly()
	y0, y1 := r.NewPoly(), r.NewPoly()
	x0.Coeffs[0] = 1
	y1.Coeffs[0] = 1

	quo, rem, tmp := r.NewPoly(), r.NewPoly(), r.NewPoly()

	ok = true

	for degree(b.Coeffs) >= 0 {

		if ok = r.PolyDivModPowerOfTwo(a, b, k, quo, rem); !ok {
			break
		}

		// (a, b) <- (b, a - q * b)
		a, b, rem = b, rem, a

		// (x0, x1) <- (x1, x0 - q * x1)
		r.MulPoly(quo, x1, tmp)
		r.Sub(x0, tmp, x0)
		reduce(x0, mask)
		x0, x1 = x1, x0

		// (y0, y1) <- (y1, y0 - q * y1)
		r.MulPoly(quo, y1, tmp)
		r.Sub(y0, tmp, y0)
		reduce(y0, mask)
		y0, y1 = y1, y0
	}

	return a, x0, y0, ok
}

func reduce(p Poly, mask uint64) {
	for i := range p.Coeffs {
		p.Coeffs[i] &= mask
	}
}

// InverseMod2 returns the inverse of p in GF(2)[X]/(X^N+1), using only the parity of its coefficients.
// The boolean is false if p is not invertible, which happens if and only if p has an even number of odd coefficients.
func (r Ring) InverseMod2(p Poly) (inv Poly, ok bool) {

	// X^N+1 = (X+1)^N mod 2, so p is invertible if and only if p(1) = 1 mod 2
	if utils.Parity(p.Coeffs) == 0 {
		return Poly{}, false
	}

	N := r.N()

	// Almost inverse algorithm, with the invariants b*p = X^k * f and c*p = X^k * g mod (X^N+1, 2).
	f := make([]uint8, N+1)
	g := make([]uint8, N+1)
	b := make([]uint8, N)
	c := make([]uint8, N)

	for i, pi := range p.Coeffs {
		f[i] = uint8(pi & 1)
	}

	g[0], g[N] = 1, 1
	b[0] = 1

	degF, degG := degreeGF2(f, N), N

	var k int
	for degF >= 0 {

		// f <- f / X^shift, c <- c * X^shift
		var shift int
		for f[shift] == 0 {
			shift++
		}

		if shift != 0 {
			copy(f, f[shift:degF+1])
			clear(f[degF+1-shift : degF+1])
			degF -= shift
			// X^N = 1 mod (X^N+1, 2), so multiplying by X is a cyclic rotation
			utils.RotateSliceInPlace(c, -shift)
			k += shift
		}

		if degF == 0 {
			// b * p = X^k mod (X^N+1, 2)
			utils.RotateSliceInPlace(b, k)
			inv = r.NewPoly()
			for i := range b {
				inv.Coeffs[i] = uint64(b[i])
			}
			return inv, true
		}

		if degF < degG {
			f, g = g, f
			b, c = c, b
			degF, degG = degG, degF
		}

		for i := 0; i <= degG; i++ {
			f[i] ^= g[i]
		}

		for i := range b {
			b[i] ^= c[i]
		}

		degF = degreeGF2(f, degF)
	}

	return Poly{}, false
}

// degreeGF2 returns the index of the highest non-zero coefficient of p[:bound+1], or -1 if it is zero.
func degreeGF2(p []uint8, bound int) int {
	for i := bound; i >= 0; i-- {
		if p[i] != 0 {
			return i
		}
	}
	return -1
}

// InverseModPowerOfTwo returns the inverse of p in Z_{2^k}[X]/(X^N+1).
// The inverse modulo 2 is lifted with the Newton-Hensel iteration x <- x * (2 - p * x),
// which doubles the number of correct bits at each step.
// The boolean is false if p is not invertible.
func (r Ring) InverseModPowerOfTwo(p Poly, k int) (inv Poly, ok bool) {

	if k < 1 || k > 64 {
		panic(fmt.Errorf("cannot InverseModPowerOfTwo: k=%d must be in [1, 64]", k))
	}

	if inv, ok = r.InverseMod2(p); !ok {
		return
	}

	tmp := r.NewPoly()

	for precision := 1; precision < k; precision <<= 1 {
		r.MulPoly(p, inv, tmp)
		r.Neg(tmp, tmp)
		tmp.Coeffs[0] += 2
		r.MulPoly(inv, tmp, inv)
	}

	reduce(inv, maskPowerOfTwo(k))

	return inv, true
}
