package rlwe

import (
	"fmt"

	"github.com/sealedhe/sealed/utils"
)

const (
	// DefaultSecurity is the security level in bits used when none is specified.
	DefaultSecurity = 128

	// MaxLimbBitSize is the maximum bit-size of a prime of the
	// modulus chain generated from the security table.
	MaxLimbBitSize = 55
)

// SecurityTable maps a security level in bits to the maximum total bit-size
// of the ciphertext modulus Q for each supported ring degree, for a ternary
// secret and a Gaussian error of standard deviation 3.2 against classical
// adversaries (HomomorphicEncryption.org standard).
var SecurityTable = map[int]map[int]int{
	128: {
		1024:  27,
		2048:  54,
		4096:  109,
		8192:  218,
		16384: 438,
		32768: 881,
	},
	192: {
		1024:  19,
		2048:  37,
		4096:  75,
		8192:  152,
		16384: 305,
		32768: 611,
	},
	256: {
		1024:  14,
		2048:  29,
		4096:  58,
		8192:  118,
		16384: 237,
		32768: 476,
	},
}

// MaxLogQ returns the maximum total bit-size of Q for the ring degree N
// at the given security level.
func MaxLogQ(N, security int) (logQ int, err error) {

	table, ok := SecurityTable[security]
	if !ok {
		return 0, fmt.Errorf("%w: unsupported security level %d, supported levels are %v", ErrParameter, security, utils.GetSortedKeys(SecurityTable))
	}

	if logQ, ok = table[N]; !ok {
		return 0, fmt.Errorf("%w: no entry for N=%d at %d-bit security, supported degrees are %v", ErrParameter, N, security, utils.GetSortedKeys(table))
	}

	return
}

// SplitLogQ splits a total bit-size into the smallest number of limbs of
// at most [MaxLimbBitSize] bits, with sizes differing by at most one bit.
func SplitLogQ(logQ int) (logQi []int) {

	count := (logQ + MaxLimbBitSize - 1) / MaxLimbBitSize

	logQi = make([]int, count)
	for i := range logQi {
		logQi[i] = logQ / count
		if i < logQ%count {
			logQi[i]++
		}
	}

	return
}
