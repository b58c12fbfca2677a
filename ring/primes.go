package ring

import (
	"fmt"
	"math/big"
	"math/bits"
)

// IsPrime applies the Baillie-PSW test, which is 100% accurate for numbers below 2^64.
func IsPrime(x uint64) bool {
	return new(big.Int).SetUint64(x).ProbablyPrime(0)
}

// NTTFriendlyPrimesGenerator is a struct used to generate NTT friendly primes,
// i.e. primes of the form 2^{BitSize} +/- k*NthRoot + 1.
type NTTFriendlyPrimesGenerator struct {
	BitSize        uint64
	NthRoot        uint64
	NextPrime      uint64
	PrevPrime      uint64
	CheckNextPrime bool
	CheckPrevPrime bool
	first          bool
}

// NewNTTFriendlyPrimesGenerator instantiates a new [NTTFriendlyPrimesGenerator].
// Primes generated are of the form 2^{BitSize} +/- k * NthRoot + 1.
// NthRoot must be a power of two smaller than 2^{BitSize}.
func NewNTTFriendlyPrimesGenerator(BitSize, NthRoot uint64) NTTFriendlyPrimesGenerator {

	// Sanity check
	if BitSize > MaximumModulusBitSize {
		panic(fmt.Errorf("invalid BitSize: %d > %d", BitSize, MaximumModulusBitSize))
	}

	PrevPrime := uint64(1<<BitSize) + 1 - NthRoot
	NextPrime := uint64(1<<BitSize) + 1 + NthRoot

	return NTTFriendlyPrimesGenerator{
		BitSize:        BitSize,
		NthRoot:        NthRoot,
		NextPrime:      NextPrime,
		PrevPrime:      PrevPrime,
		CheckNextPrime: bits.Len64(NextPrime) <= MaximumModulusBitSize,
		CheckPrevPrime: PrevPrime > NthRoot,
		first:          true,
	}
}

// NextUpstreamPrimes returns the next k primes greater than 2^{BitSize}, in increasing order.
func (n *NTTFriendlyPrimesGenerator) NextUpstreamPrimes(k int) (primes []uint64, err error) {
	primes = make([]uint64, k)
	for i := range primes {
		if primes[i], err = n.NextUpstreamPrime(); err != nil {
			return
		}
	}
	return
}

// NextDownstreamPrimes returns the next k primes smaller than 2^{BitSize}, in decreasing order.
func (n *NTTFriendlyPrimesGenerator) NextDownstreamPrimes(k int) (primes []uint64, err error) {
	primes = make([]uint64, k)
	for i := range primes {
		if primes[i], err = n.NextDownstreamPrime(); err != nil {
			return
		}
	}
	return
}

// NextAlternatingPrimes returns the next k primes closest to 2^{BitSize},
// alternating between primes smaller and greater than 2^{BitSize}.
func (n *NTTFriendlyPrimesGenerator) NextAlternatingPrimes(k int) (primes []uint64, err error) {
	primes = make([]uint64, k)
	for i := range primes {
		if primes[i], err = n.NextAlternatingPrime(); err != nil {
			return
		}
	}
	return
}

// NextUpstreamPrime returns the next prime greater than 2^{BitSize}.
func (n *NTTFriendlyPrimesGenerator) NextUpstreamPrime() (uint64, error) {

	NextPrime := n.NextPrime
	NthRoot := n.NthRoot

	for {

		if !n.CheckNextPrime {
			return 0, fmt.Errorf("cannot NextUpstreamPrime: prime list for upstream primes is exhausted (overflow 2^%d)", MaximumModulusBitSize)
		}

		n.CheckNextPrime = bits.Len64(NextPrime+NthRoot) <= MaximumModulusBitSize

		if IsPrime(NextPrime) {
			n.NextPrime = NextPrime + NthRoot
			return NextPrime, nil
		}

		NextPrime += NthRoot
	}
}

// NextDownstreamPrime returns the next prime smaller than 2^{BitSize}.
func (n *NTTFriendlyPrimesGenerator) NextDownstreamPrime() (uint64, error) {

	PrevPrime := n.PrevPrime
	NthRoot := n.NthRoot

	for {

		if !n.CheckPrevPrime {
			return 0, fmt.Errorf("cannot NextDownstreamPrime: prime list for downstream primes is exhausted (underflow NthRoot=%d)", NthRoot)
		}

		n.CheckPrevPrime = PrevPrime > 2*NthRoot

		if IsPrime(PrevPrime) {
			n.PrevPrime = PrevPrime - NthRoot
			return PrevPrime, nil
		}

		PrevPrime -= NthRoot
	}
}

// NextAlternatingPrime returns the next prime closest to 2^{BitSize},
// starting below 2^{BitSize} and alternating between both sides.
func (n *NTTFriendlyPrimesGenerator) NextAlternatingPrime() (uint64, error) {

	if !n.CheckNextPrime && !n.CheckPrevPrime {
		return 0, fmt.Errorf("cannot NextAlternatingPrime: prime list for both upstream and downstream primes is exhausted")
	}

	if n.first || !n.CheckNextPrime {
		n.first = false
		if n.CheckPrevPrime {
			return n.NextDownstreamPrime()
		}
	}

	if n.NextPrime-(1<<n.BitSize) <= (1<<n.BitSize)-n.PrevPrime || !n.CheckPrevPrime {
		return n.NextUpstreamPrime()
	}

	return n.NextDownstreamPrime()
}
