package ring

import (
	"github.com/google/go-cmp/cmp"
)

// Poly is the structure that contains the N coefficients of a polynomial.
type Poly struct {
	Coeffs []uint64
}

// NewPoly creates a new polynomial with N coefficients set to zero.
func NewPoly(N int) Poly {
	return Poly{Coeffs: make([]uint64, N)}
}

// PolyFromBuffer returns a [Poly] re-slicing buf.
func PolyFromBuffer(buf []uint64) Poly {
	return Poly{Coeffs: buf}
}

// N returns the number of coefficients of the polynomial.
func (pol Poly) N() int {
	return len(pol.Coeffs)
}

// Zero sets all coefficients of the target polynomial to 0.
func (pol Poly) Zero() {
	clear(pol.Coeffs)
}

// CopyNew creates an exact copy of the target polynomial.
func (pol Poly) CopyNew() Poly {
	p1 := NewPoly(pol.N())
	copy(p1.Coeffs, pol.Coeffs)
	return p1
}

// Copy copies the coefficients of p1 on the target polynomial.
func (pol Poly) Copy(p1 Poly) {
	copy(pol.Coeffs, p1.Coeffs)
}

// Equal returns true if the receiver Poly is equal to the provided other Poly.
func (pol Poly) Equal(other Poly) bool {
	return cmp.Equal(pol.Coeffs, other.Coeffs)
}
