package ring

import (
	"math/big"
	"math/bits"
)

// MForm switches a to the Montgomery domain by computing
// a*2^64 mod q.
func MForm(a, q uint64, bredconstant [2]uint64) (r uint64) {
	mhi, _ := bits.Mul64(a, bredconstant[1])
	r = -(a*bredconstant[0] + mhi) * q
	if r >= q {
		r -= q
	}
	return
}

// MFormLazy switches a to the Montgomery domain by computing
// a*2^64 mod q in constant time.
// The result is between 0 and 2*q-1.
func MFormLazy(a, q uint64, bredconstant [2]uint64) (r uint64) {
	mhi, _ := bits.Mul64(a, bredconstant[1])
	r = -(a*bredconstant[0] + mhi) * q
	return
}

// IMForm switches a from the Montgomery domain back to the
// standard domain by computing a*(1/2^64) mod q.
func IMForm(a, q, mredconstant uint64) (r uint64) {
	r, _ = bits.Mul64(a*mredconstant, q)
	r = q - r
	if r >= q {
		r -= q
	}
	return
}

// GetMRedConstant computes the constant mredconstant = (q^-1) mod 2^64 required for MRed.
func GetMRedConstant(q uint64) (mredconstant uint64) {
	mredconstant = 1
	x := q
	for i := 0; i < 63; i++ {
		mredconstant *= x
		x *= x
	}
	return
}

// MRed computes x * y * (1/2^64) mod q.
func MRed(x, y, q, mredconstant uint64) (r uint64) {
	mhi, mlo := bits.Mul64(x, y)
	hhi, _ := bits.Mul64(mlo*mredconstant, q)
	r = mhi - hhi + q
	if r >= q {
		r -= q
	}
	return
}

// MRedLazy computes x * y * (1/2^64) mod q in constant time.
// The result is between 0 and 2*q-1.
func MRedLazy(x, y, q, mredconstant uint64) (r uint64) {
	ahi, alo := bits.Mul64(x, y)
	H, _ := bits.Mul64(alo*mredconstant, q)
	r = ahi - H + q
	return
}

// GetBRedConstant computes the constant for the BRed algorithm.
// Returns ((2^128)/q)/(2^64) and (2^128)/q mod 2^64.
func GetBRedConstant(q uint64) [2]uint64 {
	bigR := new(big.Int).Lsh(big.NewInt(1), 128)
	bigR.Quo(bigR, new(big.Int).SetUint64(q))

	mlo := bigR.Uint64()
	mhi := bigR.Rsh(bigR, 64).Uint64()

	return [2]uint64{mhi, mlo}
}

// BRedAdd computes a mod q.
func BRedAdd(a, q uint64, bredconstant [2]uint64) (r uint64) {
	mhi, _ := bits.Mul64(a, bredconstant[0])
	r = a - mhi*q
	if r >= q {
		r -= q
	}
	return
}

// BRedAddLazy computes a mod q in constant time.
// The result is between 0 and 2*q-1.
func BRedAddLazy(x, q uint64, bredconstant [2]uint64) uint64 {
	s0, _ := bits.Mul64(x, bredconstant[0])
	return x - s0*q
}

// BRed computes x*y mod q.
func BRed(x, y, q uint64, bredconstant [2]uint64) (r uint64) {

	var lhi, mhi, mlo, s0, s1, carry uint64

	ahi, alo := bits.Mul64(x, y)

	// (alo*ulo)>>64

	lhi, _ = bits.Mul64(alo, bredconstant[1])

	// ((ahi*ulo + alo*uhi) + (alo*ulo))>>64

	mhi, mlo = bits.Mul64(alo, bredconstant[0])

	s0, carry = bits.Add64(mlo, lhi, 0)

	s1 = mhi + carry

	mhi, mlo = bits.Mul64(ahi, bredconstant[1])

	_, carry = bits.Add64(mlo, s0, 0)

	lhi = mhi + carry

	// (ahi*uhi) + (((ahi*ulo + alo*uhi) + (alo*ulo))>>64)

	s0 = ahi*bredconstant[0] + s1 + lhi

	r = alo - s0*q

	if r >= q {
		r -= q
	}

	return
}

// CRed reduce returns a mod q where a is between 0 and 2*q-1.
func CRed(a, q uint64) uint64 {
	if a >= q {
		return a - q
	}
	return a
}
