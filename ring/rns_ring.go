// Package ring implements RNS-accelerated modular arithmetic operations for polynomials
// of Z_Q[X]/(X^N+1), including: number theoretic transform (NTT), CRT reconstruction,
// negacyclic multiplication and uniform, Gaussian and ternary sampling.
package ring

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"

	"github.com/sealedhe/sealed/utils"
	"github.com/sealedhe/sealed/utils/bignum"
)

// RNSRing is a list of [Ring] sharing the same degree N, whose
// moduli q_0, ..., q_{L} form the RNS basis of Q = prod q_i.
type RNSRing []*Ring

// NewRNSRing creates a new [RNSRing] with degree N and coefficient moduli Moduli.
// N must be a power of two. Moduli should be a non-empty []uint64 with distinct prime
// elements, all equal to 1 modulo 2*N.
// An error is returned with a nil [RNSRing] in the case of non NTT-enabling parameters.
func NewRNSRing(N int, Moduli []uint64) (r RNSRing, err error) {

	if len(Moduli) == 0 {
		return nil, fmt.Errorf("invalid ModuliChain (must be a non-empty []uint64)")
	}

	if !utils.AllDistinct(Moduli) {
		return nil, fmt.Errorf("invalid ModuliChain (moduli are not distinct)")
	}

	r = make([]*Ring, len(Moduli))

	for i := range r {
		if r[i], err = NewRing(N, Moduli[i]); err != nil {
			return nil, fmt.Errorf("NewRing(%d, %d): %w", N, Moduli[i], err)
		}
	}

	return
}

// N returns the ring degree.
func (r RNSRing) N() int {
	return r[0].N
}

// LogN returns log2(ring degree).
func (r RNSRing) LogN() int {
	return bits.Len64(uint64(r.N() - 1))
}

// LogModuli returns the size of the modulus Q in bits.
func (r RNSRing) LogModuli() (logmod float64) {
	for _, qi := range r.ModuliChain() {
		logmod += math.Log2(float64(qi))
	}
	return
}

// NthRoot returns the multiplicative order of the primitive root.
func (r RNSRing) NthRoot() uint64 {
	return r[0].NthRoot
}

// ModuliChainLength returns the number of primes in the RNS basis of the ring.
func (r RNSRing) ModuliChainLength() int {
	return len(r)
}

// Level returns the level of the current ring.
func (r RNSRing) Level() int {
	return len(r) - 1
}

// ModuliChain returns the list of primes in the modulus chain.
func (r RNSRing) ModuliChain() (moduli []uint64) {
	moduli = make([]uint64, len(r))
	for i := range r {
		moduli[i] = r[i].Modulus
	}
	return
}

// Modulus returns the full modulus Q = prod q_i.
func (r RNSRing) Modulus() (modulus *big.Int) {
	modulus = bignum.NewInt(r[0].Modulus)
	for _, s := range r[1:] {
		modulus.Mul(modulus, bignum.NewInt(s.Modulus))
	}
	return
}

// Concat concatenates other to the receiver producing a new extended [RNSRing].
func (r RNSRing) Concat(other RNSRing) (rnew RNSRing) {
	rnew = make([]*Ring, 0, len(r)+len(other))
	rnew = append(rnew, r...)
	return append(rnew, other...)
}

// AddModuli returns an instance of the receiver extended with the given moduli.
func (r RNSRing) AddModuli(moduli []uint64) (rNew RNSRing, err error) {

	if !utils.AllDistinct(append(r.ModuliChain(), moduli...)) {
		return nil, fmt.Errorf("invalid ModuliChain (moduli are not distinct)")
	}

	var rExt RNSRing
	if rExt, err = NewRNSRing(r.N(), moduli); err != nil {
		return nil, err
	}

	return r.Concat(rExt), nil
}

// NewRNSPoly creates a new [RNSPoly] with all coefficients set to 0.
func (r RNSRing) NewRNSPoly() RNSPoly {
	return NewRNSPoly(r.N(), len(r)-1)
}

// NewMonomialXi returns a polynomial X^{i}.
func (r RNSRing) NewMonomialXi(i int) (p RNSPoly) {

	p = r.NewRNSPoly()

	N := r.N()

	i &= (N << 1) - 1

	if i >= N {
		i -= N << 1
	}

	for k, s := range r {

		if i < 0 {
			p.At(k)[N+i] = s.Modulus - 1
		} else {
			p.At(k)[i] = 1
		}
	}

	return
}

// SetCoefficientsBigint sets the coefficients of p1 from an array of Int variables.
func (r RNSRing) SetCoefficientsBigint(coeffs []big.Int, p1 RNSPoly) {
	for i, s := range r {
		s.SetCoefficientsBigint(coeffs, p1.At(i))
	}
}

// SetCoefficientsInt64 sets the coefficients of p1 from an array of signed integers.
func (r RNSRing) SetCoefficientsInt64(coeffs []int64, p1 RNSPoly) {
	for i, s := range r {
		qi := s.Modulus
		p1Coeffs := p1.At(i)
		for j, c := range coeffs {
			if c < 0 {
				p1Coeffs[j] = qi - BRedAdd(uint64(-c), qi, s.BRedConstant)
				if p1Coeffs[j] == qi {
					p1Coeffs[j] = 0
				}
			} else {
				p1Coeffs[j] = BRedAdd(uint64(c), qi, s.BRedConstant)
			}
		}
	}
}

// crtConstants returns (Q/q_i) * ((Q/q_i)^{-1} mod q_i) for each q_i.
func (r RNSRing) crtConstants() (crt []big.Int, Q *big.Int) {

	Q = r.Modulus()

	crt = make([]big.Int, len(r))

	QiB := new(big.Int)
	tmp := new(big.Int)

	for i, s := range r {
		QiB.SetUint64(s.Modulus)
		crt[i].Quo(Q, QiB)
		tmp.ModInverse(&crt[i], QiB)
		crt[i].Mul(&crt[i], tmp)
	}

	return
}

// PolyToBigint reconstructs p1 and returns the result in an array of Int
// with coefficients in [0, Q).
// gap defines coefficients X^{i*gap} that will be reconstructed.
// For example, if gap = 1, then all coefficients are reconstructed, while
// if gap = 2 then only coefficients X^{2*i} are reconstructed.
func (r RNSRing) PolyToBigint(p1 RNSPoly, gap int, coeffsBigint []big.Int) {

	crt, Q := r.crtConstants()

	tmp := new(big.Int)

	N := r.N()

	for i, j := 0, 0; j < N; i, j = i+1, j+gap {
		coeffsBigint[i].SetUint64(0)
		for k := range r {
			coeffsBigint[i].Add(&coeffsBigint[i], tmp.Mul(tmp.SetUint64(p1.At(k)[j]), &crt[k]))
		}
		coeffsBigint[i].Mod(&coeffsBigint[i], Q)
	}
}

// PolyToBigintCentered reconstructs p1 and returns the result in an array of Int.
// Coefficients are centered in (-Q/2, Q/2].
// gap defines coefficients X^{i*gap} that will be reconstructed.
func (r RNSRing) PolyToBigintCentered(p1 RNSPoly, gap int, values []big.Int) {

	r.PolyToBigint(p1, gap, values)

	Q := r.Modulus()
	QHalf := new(big.Int).Rsh(Q, 1)

	for i := 0; i < (r.N()+gap-1)/gap; i++ {
		if values[i].Cmp(QHalf) > 0 {
			values[i].Sub(&values[i], Q)
		}
	}
}

// PolyToString reconstructs p1 and returns the result in an array of string.
func (r RNSRing) PolyToString(p1 RNSPoly) []string {

	coeffsBigint := make([]big.Int, r.N())
	r.PolyToBigint(p1, 1, coeffsBigint)
	coeffsString := make([]string, len(coeffsBigint))

	for i := range coeffsBigint {
		coeffsString[i] = coeffsBigint[i].String()
	}

	return coeffsString
}

// Equal checks if p1 = p2 in the given Ring.
// Both inputs are reduced modulo Q in place.
func (r RNSRing) Equal(p1, p2 RNSPoly) bool {

	for i := 0; i < r.Level()+1; i++ {
		if len(p1.At(i)) != len(p2.At(i)) {
			return false
		}
	}

	r.Reduce(p1, p1)
	r.Reduce(p2, p2)

	return p1.Equal(&p2)
}

// Stats returns base 2 logarithm of the standard deviation
// and the mean of the centered coefficients of the polynomial.
func (r RNSRing) Stats(poly RNSPoly) [2]float64 {
	values := make([]big.Int, r.N())
	r.PolyToBigintCentered(poly, 1, values)
	return bignum.Stats(values)
}
