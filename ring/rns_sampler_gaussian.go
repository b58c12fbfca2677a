package ring

import (
	"math"
	"math/rand/v2"

	"github.com/sealedhe/sealed/utils/sampling"
)

// GaussianSampler keeps the state of a truncated Gaussian polynomial sampler.
type GaussianSampler struct {
	*sampling.Source
	Xe     DiscreteGaussian
	Moduli []uint64
}

// NewGaussianSampler creates a new instance of [GaussianSampler] from a [sampling.Source],
// a moduli chain and a [DiscreteGaussian] distribution parameter.
func NewGaussianSampler(source *sampling.Source, moduli []uint64, Xe DiscreteGaussian) (g *GaussianSampler) {
	return &GaussianSampler{
		Source: source,
		Moduli: moduli,
		Xe:     Xe,
	}
}

// Read samples a truncated Gaussian polynomial on pol.
func (g *GaussianSampler) Read(pol RNSPoly) {
	g.read(pol, set)
}

// ReadNew samples a new truncated Gaussian polynomial with N coefficients.
func (g *GaussianSampler) ReadNew(N int) (pol RNSPoly) {
	pol = NewRNSPoly(N, len(g.Moduli)-1)
	g.Read(pol)
	return pol
}

// ReadAndAdd samples a truncated Gaussian polynomial and adds it on pol.
func (g *GaussianSampler) ReadAndAdd(pol RNSPoly) {
	g.read(pol, add)
}

// read draws each coefficient as round(x*sigma) with x ~ N(0, 1),
// rejecting samples of absolute value larger than the bound.
func (g *GaussianSampler) read(pol RNSPoly, f func(a, b, q uint64) uint64) {

	bound := g.Xe.Bound
	sigma := g.Xe.Sigma

	/* #nosec G404: Source is cryptographically secure */
	r := rand.New(g.Source)

	for j := range pol[0] {

		var v float64
		for {
			if v = r.NormFloat64() * sigma; math.Abs(v) <= bound {
				break
			}
		}

		setSigned(pol, g.Moduli, j, int64(math.Round(v)), f)
	}
}
