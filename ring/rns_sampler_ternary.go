package ring

import (
	"fmt"

	"github.com/sealedhe/sealed/utils/sampling"
)

// TernarySampler keeps the state of a polynomial sampler in the ternary distribution.
type TernarySampler struct {
	Moduli []uint64
	*sampling.Source
	X Ternary
}

// NewTernarySampler creates a new instance of [TernarySampler] from a [sampling.Source],
// a moduli chain and and a ternary distribution parameters (see type [Ternary]).
func NewTernarySampler(source *sampling.Source, moduli []uint64, X Ternary) (s *TernarySampler, err error) {

	switch {
	case X.P > 0 && X.P <= 1 && X.H == 0:
	case X.P == 0 && X.H > 0:
	default:
		return nil, fmt.Errorf("invalid Ternary distribution: exactly one of (H, P) should be > 0 and P must be at most 1")
	}

	return &TernarySampler{
		Moduli: moduli,
		Source: source,
		X:      X,
	}, nil
}

// Read samples a polynomial into pol.
func (s *TernarySampler) Read(pol RNSPoly) {
	s.read(pol, set)
}

// ReadNew allocates and samples a polynomial with N coefficients.
func (s *TernarySampler) ReadNew(N int) (pol RNSPoly) {
	pol = NewRNSPoly(N, len(s.Moduli)-1)
	s.Read(pol)
	return pol
}

// ReadAndAdd samples a polynomial and adds it on pol.
func (s *TernarySampler) ReadAndAdd(pol RNSPoly) {
	s.read(pol, add)
}

func (s *TernarySampler) read(pol RNSPoly, f func(a, b, q uint64) uint64) {
	if s.X.H != 0 {
		s.sampleSparse(pol, f)
	} else {
		s.sampleProba(pol, f)
	}
}

// sampleProba sets each coefficient to 0 with probability 1-P
// and to -1 or 1 with probability P/2 each.
func (s *TernarySampler) sampleProba(pol RNSPoly, f func(a, b, q uint64) uint64) {

	// P is compared against the 53 most significant bits of each draw.
	threshold := uint64(s.X.P * (1 << 53))

	for j := range pol[0] {

		r := s.Uint64()

		var c int64
		if r>>11 < threshold {
			c = 1 - 2*int64(r&1)
		}

		setSigned(pol, s.Moduli, j, c, f)
	}
}

// sampleSparse samples a ternary polynomial with exactly H non-zero coefficients
// at uniformly random positions.
func (s *TernarySampler) sampleSparse(pol RNSPoly, f func(a, b, q uint64) uint64) {

	N := len(pol[0])

	hw := min(s.X.H, N)

	index := make([]int, N)
	for i := range index {
		index[i] = i
	}

	coeffs := make([]int64, N)

	// Partial Fisher-Yates shuffle.
	for i := 0; i < hw; i++ {
		k := i + s.uniformIndex(N-i)
		index[i], index[k] = index[k], index[i]
		coeffs[index[i]] = 1 - 2*int64(s.Uint64()&1)
	}

	for j, c := range coeffs {
		setSigned(pol, s.Moduli, j, c, f)
	}
}

// uniformIndex returns a uniform integer in [0, n).
func (s *TernarySampler) uniformIndex(n int) int {
	bound := uint64(n)
	limit := -bound % bound // 2^64 mod n
	for {
		if r := s.Uint64(); r >= limit {
			return int(r % bound)
		}
	}
}
