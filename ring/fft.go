package ring

import (
	"math"
	"math/big"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/tuneinsight/ntrutfhe/utils/bignum"
)

// twistPrecision is the precision in bits used to compute the twisting factors.
const twistPrecision = 128

// FourierPoly is a polynomial of Z[X]/(X^N+1) evaluated on the N/2 roots of X^{N/2} - i.
type FourierPoly []complex128

// NewFourierPoly allocates a new zero [FourierPoly] for the ring degree N.
func NewFourierPoly(N int) FourierPoly {
	return make(FourierPoly, N>>1)
}

// Zero sets all values of the target to 0.
func (p FourierPoly) Zero() {
	clear(p)
}

// FFT is a negacyclic Fourier transform over Z[X]/(X^N+1) of size N/2.
//
// A polynomial a is first folded into the complex polynomial a(X) mod X^{N/2} - i,
// that is v_j = a_j + i * a_{j+N/2}, twisted by the 2N-th roots of unity zeta^j
// and then mapped with a standard complex DFT of size N/2. In this representation,
// the negacyclic product is the coefficient-wise product.
//
// The DFT itself is delegated to gonum. An [FFT] is not safe for concurrent use,
// use [FFT.ShallowCopy] to obtain an instance for each goroutine.
type FFT struct {
	n        int
	dft      *fourier.CmplxFFT
	twist    []complex128
	invTwist []complex128
}

// NewFFT creates a new [FFT] for the ring degree N.
func NewFFT(N int) *FFT {

	h := N >> 1

	twist := make([]complex128, h)
	invTwist := make([]complex128, h)

	// zeta = exp(i * pi / N)
	pi := bignum.Pi(twistPrecision)
	step := new(big.Float).Quo(pi, bignum.NewFloat(N, twistPrecision))
	angle := new(big.Float).SetPrec(twistPrecision)
	scale := 1 / float64(h)

	for j := 0; j < h; j++ {
		angle.Mul(step, bignum.NewFloat(j, twistPrecision))
		cos, sin := bignum.CosSin(angle)
		twist[j] = complex(cos, sin)
		invTwist[j] = complex(cos*scale, -sin*scale)
	}

	return &FFT{
		n:        N,
		dft:      fourier.NewCmplxFFT(h),
		twist:    twist,
		invTwist: invTwist,
	}
}

// N returns the ring degree of the transform.
func (f *FFT) N() int {
	return f.n
}

// ShallowCopy returns a copy of the receiver sharing the read-only twisting factors.
// The receiver and the returned FFT can be used concurrently.
func (f *FFT) ShallowCopy() *FFT {
	return &FFT{
		n:        f.n,
		dft:      fourier.NewCmplxFFT(f.n >> 1),
		twist:    f.twist,
		invTwist: f.invTwist,
	}
}

// Forward evaluates the forward transform of p, viewing each coefficient as a signed
// integer (equivalently as a torus element scaled by 2^64), and writes the result on out.
func (f *FFT) Forward(p Poly, out FourierPoly) {

	h := f.n >> 1
	a := p.Coeffs

	for j := 0; j < h; j++ {
		out[j] = complex(float64(int64(a[j])), float64(int64(a[j+h]))) * f.twist[j]
	}

	f.dft.Coefficients(out, out)
}

// Backward evaluates the inverse transform of in and writes the result on out,
// reducing each coefficient modulo 2^64. buf is used as scratch and can alias in.
func (f *FFT) Backward(in FourierPoly, out Poly, buf FourierPoly) {
	f.backward(in, out, buf, false)
}

// AddBackward evaluates the inverse transform of in and adds the result on out.
// buf is used as scratch and can alias in.
func (f *FFT) AddBackward(in FourierPoly, out Poly, buf FourierPoly) {
	f.backward(in, out, buf, true)
}

func (f *FFT) backward(in FourierPoly, out Poly, buf FourierPoly, add bool) {

	h := f.n >> 1

	f.dft.Sequence(buf, in)

	c := out.Coeffs

	for j := 0; j < h; j++ {
		v := buf[j] * f.invTwist[j]
		re, im := wrapToUint64(real(v)), wrapToUint64(imag(v))
		if add {
			c[j] += re
			c[j+h] += im
		} else {
			c[j] = re
			c[j+h] = im
		}
	}
}

// wrapToUint64 rounds x to the nearest integer and returns it modulo 2^64.
func wrapToUint64(x float64) uint64 {
	x -= math.Round(x*0x1p-64) * 0x1p64
	x = math.Round(x)
	if x >= 0x1p63 {
		x -= 0x1p64
	}
	return uint64(int64(x))
}

// MulAdd evaluates acc = acc + a * b coefficient-wise.
func (f *FFT) MulAdd(a, b, acc FourierPoly) {
	for j := range acc {
		acc[j] += a[j] * b[j]
	}
}

// MulPoly evaluates p3 = p1 * p2 mod X^N+1 through the Fourier domain.
// The result is exact only if its coefficients fit the precision of a float64.
func (f *FFT) MulPoly(p1, p2, p3 Poly) {
	a := NewFourierPoly(f.n)
	b := NewFourierPoly(f.n)
	f.Forward(p1, a)
	f.Forward(p2, b)
	for j := range a {
		a[j] *= b[j]
	}
	f.Backward(a, p3, a)
}

// ForwardScratch returns the number of complex128 words needed by [FFT.Forward].
func (f *FFT) ForwardScratch() int {
	return 0
}

// BackwardScratch returns the number of complex128 words needed by [FFT.Backward].
func (f *FFT) BackwardScratch() int {
	return f.n >> 1
}
