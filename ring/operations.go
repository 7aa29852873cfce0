package ring

import (
	"github.com/tuneinsight/ntrutfhe/utils"
)

// karatsubaThreshold is the size below which the Karatsuba recursion
// switches to the schoolbook multiplication.
const karatsubaThreshold = 32

// Add evaluates p3 = p1 + p2.
func (r Ring) Add(p1, p2, p3 Poly) {
	a, b, c := p1.Coeffs, p2.Coeffs, p3.Coeffs
	for i := range c {
		c[i] = a[i] + b[i]
	}
}

// Sub evaluates p3 = p1 - p2.
func (r Ring) Sub(p1, p2, p3 Poly) {
	a, b, c := p1.Coeffs, p2.Coeffs, p3.Coeffs
	for i := range c {
		c[i] = a[i] - b[i]
	}
}

// Neg evaluates p2 = -p1.
func (r Ring) Neg(p1, p2 Poly) {
	a, b := p1.Coeffs, p2.Coeffs
	for i := range b {
		b[i] = -a[i]
	}
}

// MulScalar evaluates p2 = p1 * scalar.
func (r Ring) MulScalar(p1 Poly, scalar uint64, p2 Poly) {
	a, b := p1.Coeffs, p2.Coeffs
	for i := range b {
		b[i] = a[i] * scalar
	}
}

// MulScalarThenAdd evaluates p2 = p2 + p1 * scalar.
func (r Ring) MulScalarThenAdd(p1 Poly, scalar uint64, p2 Poly) {
	a, b := p1.Coeffs, p2.Coeffs
	for i := range b {
		b[i] += a[i] * scalar
	}
}

// MulPoly evaluates p3 = p1 * p2 mod (X^N+1, 2^64) exactly.
// Since every power-of-two modulus divides 2^64, the result is also exact for
// operands in the native representation of a smaller modulus, as long as one
// of the two operands is a plain integer polynomial.
// p3 can alias p1 or p2.
func (r Ring) MulPoly(p1, p2, p3 Poly) {
	N := r.N()
	prod := karatsuba(p1.Coeffs[:N], p2.Coeffs[:N])
	c := p3.Coeffs
	for i := 0; i < N; i++ {
		c[i] = prod[i] - prod[i+N]
	}
}

// MulPolyThenAdd evaluates p3 = p3 + p1 * p2 mod (X^N+1, 2^64).
func (r Ring) MulPolyThenAdd(p1, p2, p3 Poly) {
	N := r.N()
	prod := karatsuba(p1.Coeffs[:N], p2.Coeffs[:N])
	c := p3.Coeffs
	for i := 0; i < N; i++ {
		c[i] += prod[i] - prod[i+N]
	}
}

// karatsuba returns the 2n coefficients of the plain product of a and b,
// with len(a) = len(b) = n a power of two.
func karatsuba(a, b []uint64) (c []uint64) {

	n := len(a)
	c = make([]uint64, 2*n)

	if n <= karatsubaThreshold {
		for i, ai := range a {
			if ai == 0 {
				continue
			}
			ci := c[i : i+n]
			for j, bj := range b {
				ci[j] += ai * bj
			}
		}
		return
	}

	h := n >> 1

	z0 := karatsuba(a[:h], b[:h])
	z2 := karatsuba(a[h:], b[h:])

	sa := make([]uint64, h)
	sb := make([]uint64, h)
	for i := 0; i < h; i++ {
		sa[i] = a[i] + a[i+h]
		sb[i] = b[i] + b[i+h]
	}

	z1 := karatsuba(sa, sb)

	for i := range z1 {
		z1[i] -= z0[i] + z2[i]
	}

	for i := 0; i < n; i++ {
		c[i] += z0[i]
		c[i+h] += z1[i]
		c[i+n] += z2[i]
	}

	return
}

// MulByMonomial evaluates p2 = p1 * X^k mod X^N+1 for any integer k.
// p2 can alias p1.
func (r Ring) MulByMonomial(p1 Poly, k int, p2 Poly) {

	N := r.N()
	twoN := N << 1

	k %= twoN
	if k < 0 {
		k += twoN
	}

	negate := k >= N
	if negate {
		k -= N
	}

	// Rotation to the right by k positions.
	utils.RotateSliceAllocFree(p1.Coeffs, -k, p2.Coeffs)

	c := p2.Coeffs
	for i := 0; i < k; i++ {
		c[i] = -c[i]
	}

	if negate {
		for i := range c {
			c[i] = -c[i]
		}
	}
}

// DivByMonomial evaluates p2 = p1 * X^-k mod X^N+1 for any integer k.
// p2 can alias p1.
func (r Ring) DivByMonomial(p1 Poly, k int, p2 Poly) {
	r.MulByMonomial(p1, -k, p2)
}

// MulByMonomialThenSub evaluates p2 = p1 * X^k - p1.
// p2 must not alias p1.
func (r Ring) MulByMonomialThenSub(p1 Poly, k int, p2 Poly) {
	r.MulByMonomial(p1, k, p2)
	r.Sub(p2, p1, p2)
}

// Automorphism evaluates p2 = p1(X^galEl) mod X^N+1.
// galEl must be odd. p2 must not alias p1.
func (r Ring) Automorphism(p1 Poly, galEl uint64, p2 Poly) {

	if galEl&1 == 0 {
		panic("cannot Automorphism: galEl is even")
	}

	N := uint64(r.N())
	logN := r.LogN()
	mask := N - 1
	galEl &= 2*N - 1

	a, b := p1.Coeffs, p2.Coeffs

	b[0] = a[0]

	for i := uint64(1); i < N; i++ {
		j := i * galEl
		if (j>>logN)&1 == 1 {
			b[j&mask] = -a[i]
		} else {
			b[j&mask] = a[i]
		}
	}
}

// RoundToModulus maps each coefficient of p1 to the closest multiple of 2^(64-logQ) and writes the result on p2.
// It is the identity for a native modulus.
func (r Ring) RoundToModulus(p1, p2 Poly) {

	if r.IsNative() {
		if !utils.Alias1D(p1.Coeffs, p2.Coeffs) {
			p2.Copy(p1)
		}
		return
	}

	d := NewSignedDecomposer(r.logQ, 1)
	a, b := p1.Coeffs, p2.Coeffs
	for i := range b {
		b[i] = d.ClosestRepresentable(a[i])
	}
}

// HalveAndRound evaluates p2 = p1 / 2, viewing each coefficient as a signed value,
// and then maps the result back on the representable values of Z_Q.
func (r Ring) HalveAndRound(p1, p2 Poly) {
	a, b := p1.Coeffs, p2.Coeffs
	for i := range b {
		b[i] = uint64(int64(a[i]) >> 1)
	}
	r.RoundToModulus(p2, p2)
}
