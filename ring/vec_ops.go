package ring

import (
	"fmt"
)

// AddVec evaluates p3 = p1 + p2 mod modulus.
// p1, p2, p3 must be of the same size.
func AddVec(p1, p2, p3 []uint64, modulus uint64) {

	N := len(p1)

	if len(p2) != N || len(p3) != N {
		panic(fmt.Errorf("len(p1)=%d len(p2)=%d len(p3)=%d", N, len(p2), len(p3)))
	}

	for i := range p1 {
		p3[i] = CRed(p1[i]+p2[i], modulus)
	}
}

// SubVec evaluates p3 = p1 - p2 mod modulus.
// p1, p2, p3 must be of the same size.
func SubVec(p1, p2, p3 []uint64, modulus uint64) {

	N := len(p1)

	if len(p2) != N || len(p3) != N {
		panic(fmt.Errorf("len(p1)=%d len(p2)=%d len(p3)=%d", N, len(p2), len(p3)))
	}

	for i := range p1 {
		p3[i] = CRed(p1[i]+modulus-p2[i], modulus)
	}
}

// NegVec evaluates p2 = -p1 mod modulus.
// p1, p2 must be of the same size.
func NegVec(p1, p2 []uint64, modulus uint64) {

	N := len(p1)

	if len(p2) != N {
		panic(fmt.Errorf("len(p1)=%d len(p2)=%d", N, len(p2)))
	}

	for i := range p1 {
		p2[i] = CRed(modulus-p1[i], modulus)
	}
}

// BarrettReduceVec evaluates p2 = p1 % modulus with Barrett reduction.
// p1, p2 must be of the same size.
func BarrettReduceVec(p1, p2 []uint64, modulus uint64, bredconstant [2]uint64) {

	N := len(p1)

	if len(p2) != N {
		panic(fmt.Errorf("len(p1)=%d len(p2)=%d", N, len(p2)))
	}

	for i := range p1 {
		p2[i] = BRedAdd(p1[i], modulus, bredconstant)
	}
}

// MulBarrettReduceVec evaluates p3 = (p1 * p2) % modulus with Barrett reduction.
// p1, p2, p3 must be of the same size.
func MulBarrettReduceVec(p1, p2, p3 []uint64, modulus uint64, bredconstant [2]uint64) {

	N := len(p1)

	if len(p2) != N || len(p3) != N {
		panic(fmt.Errorf("len(p1)=%d len(p2)=%d len(p3)=%d", N, len(p2), len(p3)))
	}

	for i := range p1 {
		p3[i] = BRed(p1[i], p2[i], modulus, bredconstant)
	}
}

// MulBarrettReduceThenAddVec evaluates p3 = (p3 + (p1 * p2)) % modulus with Barrett reduction.
// p1, p2, p3 must be of the same size.
func MulBarrettReduceThenAddVec(p1, p2, p3 []uint64, modulus uint64, bredconstant [2]uint64) {

	N := len(p1)

	if len(p2) != N || len(p3) != N {
		panic(fmt.Errorf("len(p1)=%d len(p2)=%d len(p3)=%d", N, len(p2), len(p3)))
	}

	for i := range p1 {
		p3[i] = CRed(p3[i]+BRed(p1[i], p2[i], modulus, bredconstant), modulus)
	}
}

// MulScalarMontgomeryReduceVec evaluates p2 = p1 * scalarMont % modulus,
// with scalarMont in Montgomery form.
// p1, p2 must be of the same size.
func MulScalarMontgomeryReduceVec(p1 []uint64, scalarMont uint64, p2 []uint64, modulus, mredconstant uint64) {

	N := len(p1)

	if len(p2) != N {
		panic(fmt.Errorf("len(p1)=%d len(p2)=%d", N, len(p2)))
	}

	for i := range p1 {
		p2[i] = MRed(p1[i], scalarMont, modulus, mredconstant)
	}
}

// MulScalarMontgomeryReduceThenAddVec evaluates p2 = (p2 + p1 * scalarMont) % modulus,
// with scalarMont in Montgomery form.
// p1, p2 must be of the same size.
func MulScalarMontgomeryReduceThenAddVec(p1 []uint64, scalarMont uint64, p2 []uint64, modulus, mredconstant uint64) {

	N := len(p1)

	if len(p2) != N {
		panic(fmt.Errorf("len(p1)=%d len(p2)=%d", N, len(p2)))
	}

	for i := range p1 {
		p2[i] = CRed(p2[i]+MRed(p1[i], scalarMont, modulus, mredconstant), modulus)
	}
}

// AddScalarVec evaluates p2 = p1 + scalar % modulus.
// p1, p2 must be of the same size.
func AddScalarVec(p1 []uint64, scalar uint64, p2 []uint64, modulus uint64) {

	N := len(p1)

	if len(p2) != N {
		panic(fmt.Errorf("len(p1)=%d len(p2)=%d", N, len(p2)))
	}

	for i := range p1 {
		p2[i] = CRed(p1[i]+scalar, modulus)
	}
}

// MFormVec evaluates p2 = p1 * 2^64 % modulus.
// p1, p2 must be of the same size.
func MFormVec(p1, p2 []uint64, modulus uint64, bredconstant [2]uint64) {

	N := len(p1)

	if len(p2) != N {
		panic(fmt.Errorf("len(p1)=%d len(p2)=%d", N, len(p2)))
	}

	for i := range p1 {
		p2[i] = MForm(p1[i], modulus, bredconstant)
	}
}

// IMFormVec evaluates p2 = p1 * 2^-64 % modulus.
// p1, p2 must be of the same size.
func IMFormVec(p1, p2 []uint64, modulus, mredconstant uint64) {

	N := len(p1)

	if len(p2) != N {
		panic(fmt.Errorf("len(p1)=%d len(p2)=%d", N, len(p2)))
	}

	for i := range p1 {
		p2[i] = IMForm(p1[i], modulus, mredconstant)
	}
}

// ZeroVec sets all values of p1 to zero.
func ZeroVec(p1 []uint64) {
	for i := range p1 {
		p1[i] = 0
	}
}
