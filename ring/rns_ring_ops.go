package ring

import (
	"math/big"
)

// Add evaluates p3 = p1 + p2 coefficient-wise in the ring.
func (r RNSRing) Add(p1, p2, p3 RNSPoly) {
	for i, s := range r {
		s.Add(p1.At(i), p2.At(i), p3.At(i))
	}
}

// Sub evaluates p3 = p1 - p2 coefficient-wise in the ring.
func (r RNSRing) Sub(p1, p2, p3 RNSPoly) {
	for i, s := range r {
		s.Sub(p1.At(i), p2.At(i), p3.At(i))
	}
}

// Neg evaluates p2 = -p1 coefficient-wise in the ring.
func (r RNSRing) Neg(p1, p2 RNSPoly) {
	for i, s := range r {
		s.Neg(p1.At(i), p2.At(i))
	}
}

// Reduce evaluates p2 = p1 coefficient-wise mod modulus in the ring.
func (r RNSRing) Reduce(p1, p2 RNSPoly) {
	for i, s := range r {
		s.Reduce(p1.At(i), p2.At(i))
	}
}

// MulCoeffsBarrett evaluates p3 = p1 * p2 coefficient-wise in the ring, with Barrett reduction.
func (r RNSRing) MulCoeffsBarrett(p1, p2, p3 RNSPoly) {
	for i, s := range r {
		s.MulCoeffsBarrett(p1.At(i), p2.At(i), p3.At(i))
	}
}

// MulCoeffsBarrettThenAdd evaluates p3 = p3 + p1 * p2 coefficient-wise in the ring, with Barrett reduction.
func (r RNSRing) MulCoeffsBarrettThenAdd(p1, p2, p3 RNSPoly) {
	for i, s := range r {
		s.MulCoeffsBarrettThenAdd(p1.At(i), p2.At(i), p3.At(i))
	}
}

// AddScalar evaluates p2 = p1 + scalar coefficient-wise in the ring.
func (r RNSRing) AddScalar(p1 RNSPoly, scalar uint64, p2 RNSPoly) {
	for i, s := range r {
		s.AddScalar(p1.At(i), scalar, p2.At(i))
	}
}

// AddScalarBigint evaluates p2 = p1 + scalar coefficient-wise in the ring.
func (r RNSRing) AddScalarBigint(p1 RNSPoly, scalar *big.Int, p2 RNSPoly) {
	tmp := new(big.Int)
	for i, s := range r {
		s.AddScalar(p1.At(i), tmp.Mod(scalar, tmp.SetUint64(s.Modulus)).Uint64(), p2.At(i))
	}
}

// MulScalar evaluates p2 = p1 * scalar coefficient-wise in the ring.
func (r RNSRing) MulScalar(p1 RNSPoly, scalar uint64, p2 RNSPoly) {
	for i, s := range r {
		s.MulScalar(p1.At(i), scalar, p2.At(i))
	}
}

// MulScalarBigint evaluates p2 = p1 * scalar coefficient-wise in the ring.
func (r RNSRing) MulScalarBigint(p1 RNSPoly, scalar *big.Int, p2 RNSPoly) {
	for i, s := range r {
		s.MulScalarBigint(p1.At(i), scalar, p2.At(i))
	}
}

// MulScalarBigintThenAdd evaluates p2 = p2 + p1 * scalar coefficient-wise in the ring.
func (r RNSRing) MulScalarBigintThenAdd(p1 RNSPoly, scalar *big.Int, p2 RNSPoly) {
	scalarQi := new(big.Int)
	for i, s := range r {
		scalarQi.Mod(scalar, scalarQi.SetUint64(s.Modulus))
		s.MulScalarMontgomeryThenAdd(p1.At(i), MForm(scalarQi.Uint64(), s.Modulus, s.BRedConstant), p2.At(i))
	}
}

// MForm evaluates p2 = p1 * 2^64 coefficient-wise in the ring.
func (r RNSRing) MForm(p1, p2 RNSPoly) {
	for i, s := range r {
		s.MForm(p1.At(i), p2.At(i))
	}
}

// IMForm evaluates p2 = p1 * (2^64)^-1 coefficient-wise in the ring.
func (r RNSRing) IMForm(p1, p2 RNSPoly) {
	for i, s := range r {
		s.IMForm(p1.At(i), p2.At(i))
	}
}

// NTT evaluates p2 = NTT(p1).
func (r RNSRing) NTT(p1, p2 RNSPoly) {
	for i, s := range r {
		s.NTT(p1.At(i), p2.At(i))
	}
}

// INTT evaluates p2 = INTT(p1).
func (r RNSRing) INTT(p1, p2 RNSPoly) {
	for i, s := range r {
		s.INTT(p1.At(i), p2.At(i))
	}
}

// MulPoly evaluates p3 = p1 * p2 in Z_Q[X]/(X^N+1) through the NTT.
// Inputs and output are in the coefficient domain.
// p3 can alias p1 or p2.
func (r RNSRing) MulPoly(p1, p2, p3 RNSPoly) {

	buff := r.NewRNSPoly()

	r.NTT(p1, buff)
	r.NTT(p2, p3)
	r.MulCoeffsBarrett(buff, p3, p3)
	r.INTT(p3, p3)
}

// MulPolyNaive evaluates p3 = p1 * p2 in Z_Q[X]/(X^N+1) with the
// schoolbook negacyclic convolution. p3 can alias p1 or p2.
func (r RNSRing) MulPolyNaive(p1, p2, p3 RNSPoly) {

	N := r.N()

	acc := NewPoly(N)

	for k, s := range r {

		ZeroVec(acc)

		a, b := p1.At(k), p2.At(k)
		qi := s.Modulus
		brc := s.BRedConstant

		for i := 0; i < N; i++ {

			if a[i] == 0 {
				continue
			}

			for j := 0; j < N-i; j++ {
				acc[i+j] = CRed(acc[i+j]+BRed(a[i], b[j], qi, brc), qi)
			}

			// X^N = -1
			for j := N - i; j < N; j++ {
				acc[i+j-N] = CRed(acc[i+j-N]+qi-BRed(a[i], b[j], qi, brc), qi)
			}
		}

		copy(p3.At(k), acc)
	}
}
