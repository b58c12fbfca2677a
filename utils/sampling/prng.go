package sampling

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// KeyedPRNG is a structure storing the parameters used to securely and *deterministically* generate
// sequences of random bytes using the extendable output function of blake2b.
// Backward sequence security (given the digest i, compute the digest i-1) is ensured by default,
// however forward sequence security (given the digest i, compute the digest i+1) is only ensured
// if the KeyedPRNG is keyed with a secret.
type KeyedPRNG struct {
	mutex sync.Mutex
	key   []byte
	xof   blake2b.XOF
}

// NewKeyedPRNG creates a new instance of [KeyedPRNG] keyed with the provided key.
// The key must be at most 64 bytes.
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {

	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, key)
	if err != nil {
		return nil, fmt.Errorf("blake2b.NewXOF: %w", err)
	}

	prng := &KeyedPRNG{xof: xof}
	prng.key = append(prng.key, key...)

	return prng, nil
}

// Key returns a copy of the key used to seed the PRNG.
// This value can be used with [NewKeyedPRNG] to instantiate
// a new PRNG that will produce the same stream of bytes.
func (prng *KeyedPRNG) Key() (key []byte) {
	return append(key, prng.key...)
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
