// Package sampling implements secure sampling of bytes and integers.
package sampling

import (
	"encoding/binary"
)

// RandUint64N returns a value in [0, n) read from prng.
// n must be a power of two, with n = 0 standing for 2^64.
func RandUint64N(prng PRNG, n uint64) uint64 {
	var b [8]byte
	if _, err := prng.Read(b[:]); err != nil {
		panic(err)
	}
	return binary.LittleEndian.Uint64(b[:]) & (n - 1)
}
