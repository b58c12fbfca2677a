// Package utils implements various helper functions.
package utils

import (
	"math/bits"
	"slices"

	"golang.org/x/exp/constraints"
)

// AllDistinct returns true if all elements in s are distinct, and false otherwise.
func AllDistinct[V comparable](s []V) bool {
	m := make(map[V]struct{}, len(s))
	for _, si := range s {
		if _, exists := m[si]; exists {
			return false
		}
		m[si] = struct{}{}
	}
	return true
}

// BitReverse64 returns the bit-reverse value of the input value, within a context of 2^bitLen.
func BitReverse64[T constraints.Integer](index uint64, bitLen T) uint64 {
	return bits.Reverse64(index) >> (64 - bitLen)
}

// Alias1D returns true if x and y share the same base array.
// Taken from http://golang.org/src/pkg/math/big/nat.go#L340 .
func Alias1D[V any](x, y []V) bool {
	return cap(x) > 0 && cap(y) > 0 && &x[0:cap(x)][cap(x)-1] == &y[0:cap(y)][cap(y)-1]
}

// GetSortedKeys returns the sorted keys of the input map.
func GetSortedKeys[K constraints.Ordered, V any](m map[K]V) (keys []K) {
	keys = make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return
}

// Abs returns the absolute value of x.
func Abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// IsPowerOfTwo returns true if x is a power of two.
func IsPowerOfTwo[T constraints.Integer](x T) bool {
	return x > 0 && x&(x-1) == 0
}
