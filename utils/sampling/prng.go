package sampling

import (
	"crypto/rand"
	"io"
	"sync"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// SeedSize is the size in bytes of the seeds returned by [DeriveSeed] and [NewSeed].
const SeedSize = 32

// PRNG is an interface for secure generation of random bytes
type PRNG interface {
	io.Reader
}

// ThreadSafePRNG is a [PRNG] reading from crypto/rand.
type ThreadSafePRNG struct {
}

// NewPRNG returns a new PRNG that is thread-safe
func NewPRNG() (*ThreadSafePRNG, error) {
	return &ThreadSafePRNG{}, nil
}

// Read reads bytes from crypto/rand on sum.
func (prng *ThreadSafePRNG) Read(sum []byte) (n int, err error) {
	return rand.Read(sum)
}

// KeyedPRNG is a structure storing the parameters used to *deterministically* generate
// sequences of random bytes with the hash function blake2b in XOF mode.
// WARNING: KeyedPRNG should NOT be called by multiple threads. It does not make sense to do so as the resulting
// sequence will not be deterministic for a given key. For a PRNG securely seeded with a private key use [ThreadSafePRNG].
type KeyedPRNG struct {
	mutex sync.Mutex
	key   []byte
	xof   blake2b.XOF
}

// NewKeyedPRNG creates a new instance of KeyedPRNG.
// Accepts an optional key, else set key=nil which is treated as key=[]byte{}
// WARNING: A PRNG INITIALISED WITH key=nil IS INSECURE!
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {
	var err error
	prng := new(KeyedPRNG)
	prng.key = make([]byte, len(key))
	copy(prng.key, key)
	prng.xof, err = blake2b.NewXOF(blake2b.OutputLengthUnknown, key)
	return prng, err
}

// Key returns a copy of the key used to seed the PRNG.
// This value can be used with [NewKeyedPRNG] to instantiate
// a new PRNG that will produce the same stream of bytes.
func (prng *KeyedPRNG) Key() (key []byte) {
	key = make([]byte, len(prng.key))
	copy(key, prng.key)
	return
}

// Read reads bytes from the KeyedPRNG on sum.
func (prng *KeyedPRNG) Read(sum []byte) (n int, err error) {
	prng.mutex.Lock()
	defer prng.mutex.Unlock()
	return prng.xof.Read(sum)
}

// Reset resets the PRNG to its initial state.
func (prng *KeyedPRNG) Reset() {
	prng.mutex.Lock()
	defer prng.mutex.Unlock()
	prng.xof.Reset()
}

// NewSeed returns a fresh [SeedSize] bytes seed read from crypto/rand.
func NewSeed() (seed []byte) {
	seed = make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}
	return
}

// DeriveSeed derives a [SeedSize] bytes sub-seed from seed, bound to the given context string.
// Two distinct contexts yield independent seeds.
func DeriveSeed(seed []byte, context string) (derived []byte) {
	derived = make([]byte, SeedSize)
	blake3.DeriveKey("ntrutfhe "+context, seed, derived)
	return
}

// NewDerivedPRNG returns a [KeyedPRNG] keyed with [DeriveSeed](seed, context).
func NewDerivedPRNG(seed []byte, context string) (*KeyedPRNG, error) {
	return NewKeyedPRNG(DeriveSeed(seed, context))
}
