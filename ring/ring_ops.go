package ring

import (
	"math/big"
)

// Add evaluates p3 = p1 + p2 (mod modulus).
func (r Ring) Add(p1, p2, p3 []uint64) {
	AddVec(p1[:r.N], p2[:r.N], p3[:r.N], r.Modulus)
}

// Sub evaluates p3 = p1 - p2 (mod modulus).
func (r Ring) Sub(p1, p2, p3 []uint64) {
	SubVec(p1[:r.N], p2[:r.N], p3[:r.N], r.Modulus)
}

// Neg evaluates p2 = -p1 (mod modulus).
func (r Ring) Neg(p1, p2 []uint64) {
	NegVec(p1[:r.N], p2[:r.N], r.Modulus)
}

// Reduce evaluates p2 = p1 (mod modulus).
func (r Ring) Reduce(p1, p2 []uint64) {
	BarrettReduceVec(p1[:r.N], p2[:r.N], r.Modulus, r.BRedConstant)
}

// MulCoeffsBarrett evaluates p3 = p1*p2 (mod modulus).
func (r Ring) MulCoeffsBarrett(p1, p2, p3 []uint64) {
	MulBarrettReduceVec(p1[:r.N], p2[:r.N], p3[:r.N], r.Modulus, r.BRedConstant)
}

// MulCoeffsBarrettThenAdd evaluates p3 = p3 + (p1*p2) (mod modulus).
func (r Ring) MulCoeffsBarrettThenAdd(p1, p2, p3 []uint64) {
	MulBarrettReduceThenAddVec(p1[:r.N], p2[:r.N], p3[:r.N], r.Modulus, r.BRedConstant)
}

// AddScalar evaluates p2 = p1 + scalar (mod modulus).
func (r Ring) AddScalar(p1 []uint64, scalar uint64, p2 []uint64) {
	AddScalarVec(p1[:r.N], BRedAdd(scalar, r.Modulus, r.BRedConstant), p2[:r.N], r.Modulus)
}

// MulScalar evaluates p2 = p1*scalar (mod modulus).
func (r Ring) MulScalar(p1 []uint64, scalar uint64, p2 []uint64) {
	r.MulScalarMontgomery(p1, MForm(BRedAdd(scalar, r.Modulus, r.BRedConstant), r.Modulus, r.BRedConstant), p2)
}

// MulScalarMontgomery evaluates p2 = p1*scalarMont (mod modulus) with scalarMont in Montgomery form.
func (r Ring) MulScalarMontgomery(p1 []uint64, scalarMont uint64, p2 []uint64) {
	MulScalarMontgomeryReduceVec(p1[:r.N], scalarMont, p2[:r.N], r.Modulus, r.MRedConstant)
}

// MulScalarMontgomeryThenAdd evaluates p2 = p2 + p1*scalarMont (mod modulus) with scalarMont in Montgomery form.
func (r Ring) MulScalarMontgomeryThenAdd(p1 []uint64, scalarMont uint64, p2 []uint64) {
	MulScalarMontgomeryReduceThenAddVec(p1[:r.N], scalarMont, p2[:r.N], r.Modulus, r.MRedConstant)
}

// MulScalarBigint evaluates p2 = p1*scalar (mod modulus).
func (r Ring) MulScalarBigint(p1 []uint64, scalar *big.Int, p2 []uint64) {
	scalarQi := new(big.Int).Mod(scalar, new(big.Int).SetUint64(r.Modulus))
	r.MulScalarMontgomery(p1, MForm(scalarQi.Uint64(), r.Modulus, r.BRedConstant), p2)
}

// MForm evaluates p2 = p1 * 2^64 (mod modulus).
func (r Ring) MForm(p1, p2 []uint64) {
	MFormVec(p1[:r.N], p2[:r.N], r.Modulus, r.BRedConstant)
}

// IMForm evaluates p2 = p1 * (2^64)^-1 (mod modulus).
func (r Ring) IMForm(p1, p2 []uint64) {
	IMFormVec(p1[:r.N], p2[:r.N], r.Modulus, r.MRedConstant)
}
