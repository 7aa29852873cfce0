// Package structs implements the scratch memory arena shared by the evaluators.
package structs

import (
	"github.com/tuneinsight/ntrutfhe/utils"
)

// StackReq is the amount of scratch memory required by an operation,
// counted in words of each supported type.
type StackReq struct {
	Uint64     int
	Complex128 int
}

// Uint64Req returns the requirement for n uint64 words.
func Uint64Req(n int) StackReq {
	return StackReq{Uint64: n}
}

// Complex128Req returns the requirement for n complex128 words.
func Complex128Req(n int) StackReq {
	return StackReq{Complex128: n}
}

// And returns the requirement of r followed by all the others while r is still alive,
// that is the sum of the requirements.
func (r StackReq) And(others ...StackReq) StackReq {
	for _, o := range others {
		r.Uint64 += o.Uint64
		r.Complex128 += o.Complex128
	}
	return r
}

// Or returns the requirement of mutually exclusive phases,
// that is the maximum of the requirements.
func (r StackReq) Or(others ...StackReq) StackReq {
	for _, o := range others {
		r.Uint64 = utils.Max(r.Uint64, o.Uint64)
		r.Complex128 = utils.Max(r.Complex128, o.Complex128)
	}
	return r
}

// Times returns the requirement of n live copies of r.
func (r StackReq) Times(n int) StackReq {
	return StackReq{Uint64: r.Uint64 * n, Complex128: r.Complex128 * n}
}

// Mark is a position in a [Stack], returned by [Stack.Mark] and consumed by [Stack.Release].
type Mark struct {
	u, c int
}

// Stack is a bump allocator handing out zeroed slices.
// Slices obtained after a [Mark] must not be used after the matching [Stack.Release].
// A Stack is not safe for concurrent use: each goroutine must own its own.
type Stack struct {
	u    []uint64
	c    []complex128
	mark Mark
}

// NewStack allocates a new [Stack] able to serve req without growing.
func NewStack(req StackReq) *Stack {
	return &Stack{
		u: make([]uint64, req.Uint64),
		c: make([]complex128, req.Complex128),
	}
}

// Size returns the capacity of the stack.
func (s *Stack) Size() StackReq {
	return StackReq{Uint64: len(s.u), Complex128: len(s.c)}
}

// Mark returns the current position of the stack.
func (s *Stack) Mark() Mark {
	return s.mark
}

// Release frees every slice obtained since m was taken.
func (s *Stack) Release(m Mark) {
	if m.u > s.mark.u || m.c > s.mark.c {
		panic("cannot Release: mark is above the top of the stack")
	}
	s.mark = m
}

// Uint64s returns a zeroed slice of n uint64.
// The stack grows if it cannot serve the request. Slices already handed
// out stay valid since they keep referencing the previous backing array.
func (s *Stack) Uint64s(n int) (v []uint64) {
	if s.mark.u+n > len(s.u) {
		grown := make([]uint64, utils.Max(2*len(s.u), s.mark.u+n))
		s.u = grown
	}
	v = s.u[s.mark.u : s.mark.u+n : s.mark.u+n]
	s.mark.u += n
	clear(v)
	return
}

// Complex128s returns a zeroed slice of n complex128.
// See [Stack.Uint64s] for the growth policy.
func (s *Stack) Complex128s(n int) (v []complex128) {
	if s.mark.c+n > len(s.c) {
		grown := make([]complex128, utils.Max(2*len(s.c), s.mark.c+n))
		s.c = grown
	}
	v = s.c[s.mark.c : s.mark.c+n : s.mark.c+n]
	s.mark.c += n
	clear(v)
	return
}
