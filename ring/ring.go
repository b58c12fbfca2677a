package ring

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/sealedhe/sealed/utils"
)

const (
	// MinimumRingDegree is the minimum supported ring degree.
	MinimumRingDegree = 2

	// MaximumModulusBitSize is the maximum bit-size of a modulus
	// supported by the lazy reductions of the NTT.
	MaximumModulusBitSize = 61
)

// Ring is a struct storing precomputation
// for fast modular reduction and NTT for
// a given modulus in Z_q[X]/(X^N+1).
type Ring struct {

	// Polynomial nb.Coefficients
	N int

	// Prime modulus q = 1 mod 2N
	Modulus uint64

	// 2^bit_length(Modulus) - 1
	Mask uint64

	// Fast reduction constants
	BRedConstant [2]uint64 // Barrett Reduction
	MRedConstant uint64    // Montgomery Reduction

	*NTTTable // NTT related constants
}

// NewRing creates a new [Ring] of degree N and modulus Modulus and generates its NTT tables.
// An error is returned with a nil *Ring in the case of non NTT-enabling parameters.
func NewRing(N int, Modulus uint64) (r *Ring, err error) {

	// Checks if N is a power of 2
	if N < MinimumRingDegree || !utils.IsPowerOfTwo(N) {
		return nil, fmt.Errorf("invalid ring degree: must be a power of 2 greater or equal to %d but is %d", MinimumRingDegree, N)
	}

	if bits.Len64(Modulus) > MaximumModulusBitSize {
		return nil, fmt.Errorf("invalid modulus: %d > 2^%d", Modulus, MaximumModulusBitSize)
	}

	r = &Ring{}

	r.N = N

	r.Modulus = Modulus

	r.Mask = (1 << uint64(bits.Len64(r.Modulus-1))) - 1

	// Computes the fast modular reduction constants for the Ring
	r.BRedConstant = GetBRedConstant(r.Modulus)

	// Montgomery form does not exist for even moduli.
	if r.Modulus&1 == 1 {
		r.MRedConstant = GetMRedConstant(r.Modulus)
	}

	r.NTTTable = &NTTTable{NthRoot: uint64(N) << 1}

	return r, r.GenNTTTable()
}

// LogN returns log2(N).
func (r Ring) LogN() int {
	return bits.Len64(uint64(r.N) - 1)
}

// NewPoly allocates a new [Poly] of N coefficients.
func (r Ring) NewPoly() Poly {
	return NewPoly(r.N)
}

// GenNTTTable generates the NTT tables for the target Ring.
// The 2N-th primitive root of unity is found without factoring Modulus-1:
// for g = 2, 3, ... the candidate psi = g^((q-1)/2N) is accepted as soon as
// psi^N = -1 mod q, which implies that psi is of order exactly 2N.
func (r *Ring) GenNTTTable() (err error) {

	if r.N == 0 || r.Modulus == 0 {
		return fmt.Errorf("invalid ring parameters (missing)")
	}

	Modulus := r.Modulus
	NthRoot := r.NthRoot

	// Checks if each qi is prime and equal to 1 mod NthRoot
	if !IsPrime(Modulus) {
		return fmt.Errorf("invalid modulus: %d is not prime", Modulus)
	}

	if Modulus&(NthRoot-1) != 1 {
		return fmt.Errorf("invalid modulus: %d != 1 mod NthRoot=%d", Modulus, NthRoot)
	}

	var Psi uint64
	if r.PrimitiveRoot, Psi, err = PrimitiveNthRoot(Modulus, NthRoot); err != nil {
		return
	}

	logNthRoot := bits.Len64(NthRoot>>1) - 1

	// 1.1 Computes N^(-1) mod Q in Montgomery form
	r.NInv = MForm(ModExp(NthRoot>>1, Modulus-2, Modulus), Modulus, r.BRedConstant)

	// 1.2 Computes Psi and PsiInv in Montgomery form
	PsiMont := MForm(Psi, Modulus, r.BRedConstant)
	PsiInvMont := MForm(ModExp(Psi, Modulus-2, Modulus), Modulus, r.BRedConstant)

	r.RootsForward = make([]uint64, NthRoot>>1)
	r.RootsBackward = make([]uint64, NthRoot>>1)

	r.RootsForward[0] = MForm(1, Modulus, r.BRedConstant)
	r.RootsBackward[0] = MForm(1, Modulus, r.BRedConstant)

	// Computes nttPsi[j] = nttPsi[j-1]*Psi and RootsBackward[j] = RootsBackward[j-1]*PsiInv
	for j := uint64(1); j < NthRoot>>1; j++ {

		indexReversePrev := utils.BitReverse64(j-1, logNthRoot)
		indexReverseNext := utils.BitReverse64(j, logNthRoot)

		r.RootsForward[indexReverseNext] = MRed(r.RootsForward[indexReversePrev], PsiMont, Modulus, r.MRedConstant)
		r.RootsBackward[indexReverseNext] = MRed(r.RootsBackward[indexReversePrev], PsiInvMont, Modulus, r.MRedConstant)
	}

	return
}

// PrimitiveNthRoot returns the smallest g >= 2 such that psi = g^((q-1)/NthRoot) mod q
// is a primitive NthRoot-th root of unity, along with psi.
// NthRoot must be a power of two dividing q-1.
func PrimitiveNthRoot(q, NthRoot uint64) (g, psi uint64, err error) {

	if (q-1)%NthRoot != 0 {
		return 0, 0, fmt.Errorf("invalid modulus: %d != 1 mod %d", q, NthRoot)
	}

	// For a power of two NthRoot, psi^(NthRoot/2) = -1 mod q if and only if
	// psi is of order exactly NthRoot.
	for g = 2; g < q; g++ {
		psi = ModExp(g, (q-1)/NthRoot, q)
		if ModExp(psi, NthRoot>>1, q) == q-1 {
			return
		}
	}

	return 0, 0, fmt.Errorf("cannot find a primitive %d-th root of unity modulo %d", NthRoot, q)
}

// SetCoefficientsBigint sets the coefficients of p1 from an array of Int variables.
func (r Ring) SetCoefficientsBigint(coeffs []big.Int, p1 []uint64) {
	QiBigint := new(big.Int).SetUint64(r.Modulus)
	coeffTmp := new(big.Int)
	for j := range coeffs {
		p1[j] = coeffTmp.Mod(&coeffs[j], QiBigint).Uint64()
	}
}
