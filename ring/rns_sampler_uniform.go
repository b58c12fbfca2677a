package ring

import (
	"math/bits"

	"github.com/sealedhe/sealed/utils/sampling"
)

// UniformSampler wraps a [sampling.Source] and represents
// the state of a sampler of uniform polynomials.
type UniformSampler struct {
	Moduli []uint64
	*sampling.Source
}

// NewUniformSampler creates a new instance of [UniformSampler] from a
// [sampling.Source] and a list of moduli.
func NewUniformSampler(source *sampling.Source, moduli []uint64) (u *UniformSampler) {
	return &UniformSampler{
		Moduli: moduli,
		Source: source,
	}
}

// Read samples a polynomial with coefficients uniformly distributed in [0, q_i-1] on pol.
func (u *UniformSampler) Read(pol RNSPoly) {
	u.read(pol, set)
}

// ReadAndAdd samples a uniform polynomial and adds it on pol.
func (u *UniformSampler) ReadAndAdd(pol RNSPoly) {
	u.read(pol, add)
}

// ReadNew generates a new polynomial with N coefficients following a
// uniform distribution over [0, q_i-1].
func (u *UniformSampler) ReadNew(N int) (pol RNSPoly) {
	pol = NewRNSPoly(N, len(u.Moduli)-1)
	u.Read(pol)
	return
}

// read uses rejection sampling on the masked output of the source,
// independently for each modulus.
func (u *UniformSampler) read(pol RNSPoly, f func(a, b, q uint64) uint64) {

	var c, mask uint64

	r := u.Source

	for j, qi := range u.Moduli {

		mask = (1 << uint64(bits.Len64(qi-1))) - 1

		coeffs := pol.At(j)

		for i := range coeffs {

			c = r.Uint64() & mask

			for c >= qi {
				c = r.Uint64() & mask
			}

			coeffs[i] = f(coeffs[i], c, qi)
		}
	}
}
