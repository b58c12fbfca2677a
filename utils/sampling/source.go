// Package sampling implements secure and deterministic sampling of bytes and integers.
package sampling

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/zeebo/blake3"
)

// SeedSize is the size in bytes of the seeds used to key a [Source].
const SeedSize = 32

// Source is a cryptographically secure deterministic source of
// random bytes keyed by a 32-byte seed.
// It implements the interface [math/rand/v2.Source].
// A Source must not be used concurrently: derive independent
// instances with [Source.NewSource] instead.
type Source struct {
	prng *KeyedPRNG
	buf  [8]byte
}

// NewSeed returns a new 32-byte seed read from [crypto/rand.Reader].
func NewSeed() (seed [SeedSize]byte) {
	if _, err := rand.Read(seed[:]); err != nil {
		// Sanity check, this error should not happen.
		panic(fmt.Errorf("crypto/rand.Read: %w", err))
	}
	return
}

// NewSource instantiates a new [Source] keyed with the provided seed.
func NewSource(seed [SeedSize]byte) *Source {
	prng, err := NewKeyedPRNG(seed[:])
	if err != nil {
		// Sanity check, this error should not happen with a 32-byte key.
		panic(err)
	}
	return &Source{prng: prng}
}

// DeriveSeed returns the seed keyed by the given label and parent seed.
// Distinct labels yield independent seeds.
func DeriveSeed(seed [SeedSize]byte, label string) (child [SeedSize]byte) {
	hasher := blake3.New()
	hasher.WriteString(label)
	hasher.Write(seed[:])
	copy(child[:], hasher.Sum(nil))
	return
}

// Read fills p with random bytes. It never returns an error.
func (s *Source) Read(p []byte) (n int, err error) {
	return s.prng.Read(p)
}

// Uint64 returns a uniformly random uint64.
func (s *Source) Uint64() uint64 {
	if _, err := s.prng.Read(s.buf[:]); err != nil {
		// Sanity check, this error should not happen.
		panic(fmt.Errorf("prng.Read: %w", err))
	}
	return binary.LittleEndian.Uint64(s.buf[:])
}

// NewSeed returns a new seed read from the receiver.
func (s *Source) NewSeed() (seed [SeedSize]byte) {
	if _, err := s.Read(seed[:]); err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}
	return
}

// NewSource returns a new [Source] keyed with a seed read from the receiver.
func (s *Source) NewSource() *Source {
	return NewSource(s.NewSeed())
}
