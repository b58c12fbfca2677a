package ring

import (
	"fmt"

	"github.com/sealedhe/sealed/utils/sampling"
)

// Sampler is an interface for random polynomial samplers.
// It has a single Read method which takes as argument the polynomial to be
// populated according to the Sampler's distribution.
type Sampler interface {
	Read(pol RNSPoly)
	ReadNew(N int) (pol RNSPoly)
	ReadAndAdd(pol RNSPoly)
}

// NewSampler instantiates a new [Sampler] interface from the provided [sampling.Source],
// moduli chain and [DistributionParameters].
func NewSampler(source *sampling.Source, moduli []uint64, X DistributionParameters) (Sampler, error) {
	switch X := X.(type) {
	case *DiscreteGaussian:
		return NewGaussianSampler(source, moduli, *X), nil
	case *Ternary:
		return NewTernarySampler(source, moduli, *X)
	case *Uniform:
		return NewUniformSampler(source, moduli), nil
	default:
		return nil, fmt.Errorf("invalid distribution: want *ring.DiscreteGaussian, *ring.Ternary or *ring.Uniform but have %T", X)
	}
}

// setSigned writes the signed value c on the j-th coefficient of pol for
// each modulus, combined with the previous value through f.
func setSigned(pol RNSPoly, moduli []uint64, j int, c int64, f func(a, b, q uint64) uint64) {
	for k, qi := range moduli {
		var v uint64
		switch {
		case c > 0:
			v = uint64(c) % qi
		case c < 0:
			if v = uint64(-c) % qi; v != 0 {
				v = qi - v
			}
		}
		pol[k][j] = f(pol[k][j], v, qi)
	}
}

func set(a, b, q uint64) uint64 {
	return b
}

func add(a, b, q uint64) uint64 {
	return CRed(a+b, q)
}
