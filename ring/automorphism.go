package ring

import (
	"fmt"
)

// AutomorphismIndex is the decomposition a = (-1)^Negative * GaloisGen^Log mod 2N
// of an odd residue a.
type AutomorphismIndex struct {
	Log      int
	Negative bool
}

// AutomorphismGroup is the group of automorphisms X -> X^a of Z[X]/(X^N+1),
// indexed by the odd residues a mod 2N. It is generated by -1 and [GaloisGen],
// the latter being of order N/2.
type AutomorphismGroup struct {
	n     int
	pow   []uint64
	index []AutomorphismIndex
}

// NewAutomorphismGroup creates the [AutomorphismGroup] of the ring of degree N.
func NewAutomorphismGroup(N int) *AutomorphismGroup {

	twoN := uint64(N) << 1
	mask := twoN - 1
	h := N >> 1

	g := &AutomorphismGroup{
		n:     N,
		pow:   make([]uint64, h),
		index: make([]AutomorphismIndex, N),
	}

	var pow uint64 = 1
	for l := 0; l < h; l++ {
		g.pow[l] = pow
		g.index[(pow-1)>>1] = AutomorphismIndex{Log: l}
		g.index[(twoN-pow-1)>>1] = AutomorphismIndex{Log: l, Negative: true}
		pow = (pow * GaloisGen) & mask
	}

	return g
}

// N returns the ring degree.
func (g AutomorphismGroup) N() int {
	return g.n
}

// Order returns the order N/2 of [GaloisGen] mod 2N.
func (g AutomorphismGroup) Order() int {
	return len(g.pow)
}

// GaloisElement returns (-1)^negative * GaloisGen^l mod 2N.
func (g AutomorphismGroup) GaloisElement(l int, negative bool) uint64 {
	h := len(g.pow)
	l %= h
	if l < 0 {
		l += h
	}
	if negative {
		return uint64(g.n<<1) - g.pow[l]
	}
	return g.pow[l]
}

// Decompose returns the index of the odd residue a mod 2N.
func (g AutomorphismGroup) Decompose(a uint64) AutomorphismIndex {
	a &= uint64(g.n<<1) - 1
	if a&1 == 0 {
		panic(fmt.Errorf("cannot Decompose: %d is not odd", a))
	}
	return g.index[a>>1]
}

// IndexSet returns the table of the N odd residues mod 2N,
// entry i holding the decomposition of 2i+1.
func (g AutomorphismGroup) IndexSet() []AutomorphismIndex {
	return append([]AutomorphismIndex{}, g.index...)
}

// LWEIndexSets switches the modulus of the LWE mask coefficients from 2^logQ
// (given in the native representation) to 2N, maps them on odd residues, and groups
// their positions by discrete logarithm: positive[l] (resp. negative[l]) lists the
// indexes i such that the switched a[i] is GaloisGen^l (resp. -GaloisGen^l) mod 2N.
// Coefficients switched to zero are skipped.
func (g AutomorphismGroup) LWEIndexSets(mask []uint64) (positive, negative [][]int) {

	h := len(g.pow)
	positive = make([][]int, h)
	negative = make([][]int, h)

	logTwoN := 1
	for 1<<logTwoN < g.n<<1 {
		logTwoN++
	}

	for i, ai := range mask {

		a := ModSwitch(ai, logTwoN)

		if a == 0 {
			continue
		}

		a |= 1

		idx := g.Decompose(a)

		if idx.Negative {
			negative[idx.Log] = append(negative[idx.Log], i)
		} else {
			positive[idx.Log] = append(positive[idx.Log], i)
		}
	}

	return
}
