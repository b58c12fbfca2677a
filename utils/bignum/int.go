// Package bignum implements arbitrary precision arithmetic helpers on top of [math/big].
package bignum

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// NewInt allocates a new *big.Int.
// Accepted types are: string, uint, uint64, int64, int, *big.Float or *big.Int.
func NewInt(x interface{}) (y *big.Int) {

	y = new(big.Int)

	if x == nil {
		return
	}

	switch x := x.(type) {
	case string:
		y.SetString(x, 0)
	case uint:
		y.SetUint64(uint64(x))
	case uint64:
		y.SetUint64(x)
	case int64:
		y.SetInt64(x)
	case int:
		y.SetInt64(int64(x))
	case *big.Float:
		x.Int(y)
	case *big.Int:
		y.Set(x)
	default:
		panic(fmt.Sprintf("cannot NewInt: accepted types are string, uint, uint64, int, int64, *big.Float, *big.Int, but is %T", x))
	}

	return
}

// RandInt generates a random Int in [0, max-1].
func RandInt(reader io.Reader, max *big.Int) (n *big.Int) {
	var err error
	if n, err = rand.Int(reader, max); err != nil {
		panic(fmt.Errorf("rand.Int: %w", err))
	}
	return
}

// DivRound sets the target i to round(a/b), rounding half away from zero.
func DivRound(a, b, i *big.Int) {
	_a := new(big.Int).Set(a)
	r := new(big.Int)
	i.QuoRem(_a, b, r)
	r.Lsh(r, 1)
	if r.CmpAbs(b) != -1 {
		if _a.Sign() == b.Sign() {
			i.Add(i, NewInt(1))
		} else {
			i.Sub(i, NewInt(1))
		}
	}
}

// ScaleRound sets the target i to floor((2*num*a + den) / (2*den)) = round(num*a/den),
// rounding half up. The division is Euclidean, so a may be negative; den must be positive.
func ScaleRound(a, num, den, i *big.Int) {
	x := new(big.Int).Mul(a, num)
	x.Lsh(x, 1)
	x.Add(x, den)
	d := new(big.Int).Lsh(den, 1)
	i.Div(x, d)
}

// CenterMod sets the target i to the balanced representative of a mod m in (-m/2, m/2].
func CenterMod(a, m, i *big.Int) {
	i.Mod(a, m)
	if h := new(big.Int).Rsh(m, 1); i.Cmp(h) > 0 {
		i.Sub(i, m)
	}
}

// MaxAbs returns max |values[i]|.
func MaxAbs(values []big.Int) (max *big.Int) {
	max = new(big.Int)
	abs := new(big.Int)
	for i := range values {
		if abs.Abs(&values[i]).Cmp(max) > 0 {
			max.Set(abs)
		}
	}
	return
}
