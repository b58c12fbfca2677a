package bignum

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
)

// DefaultPrecision is the number of bits of precision used by helpers
// that need an arbitrary precision intermediate value.
const DefaultPrecision = 128

// NewFloat creates a new big.Float element with "prec" bits of precision.
// Valid types for x are: int, int64, uint, uint64, float64, *big.Int or *big.Float.
func NewFloat(x interface{}, prec uint) (y *big.Float) {

	y = new(big.Float)
	y.SetPrec(prec)

	if x == nil {
		return
	}

	switch x := x.(type) {
	case int:
		y.SetInt64(int64(x))
	case int64:
		y.SetInt64(x)
	case uint:
		y.SetUint64(uint64(x))
	case uint64:
		y.SetUint64(x)
	case float64:
		y.SetFloat64(x)
	case *big.Int:
		y.SetInt(x)
	case *big.Float:
		y.Set(x)
	default:
		panic(fmt.Errorf("invalid x.(type): valid types are int, int64, uint, uint64, float64, *big.Int or *big.Float but is %T", x))
	}

	return
}

// Log2 returns log2(|x|) evaluated with [DefaultPrecision] bits of precision.
// Returns -Inf if x = 0.
func Log2(x *big.Int) float64 {

	if x.Sign() == 0 {
		return math.Inf(-1)
	}

	xf := NewFloat(new(big.Int).Abs(x), DefaultPrecision)

	// log2(x) = ln(x)/ln(2)
	lnx := bigfloat.Log(xf)
	lnx.Quo(lnx, bigfloat.Log(NewFloat(2, DefaultPrecision)))

	f, _ := lnx.Float64()
	return f
}

// Round returns round(x), rounding half away from zero.
func Round(x *big.Float) (r *big.Int) {
	f := new(big.Float).Copy(x)
	half := NewFloat(0.5, x.Prec())
	if f.Sign() >= 0 {
		f.Add(f, half)
	} else {
		f.Sub(f, half)
	}
	r, _ = f.Int(nil)
	return
}

// Pow sets the target to x^k for k >= 0.
func Pow(x *big.Float, k int) (y *big.Float) {
	y = NewFloat(1, x.Prec())
	b := new(big.Float).Copy(x)
	for ; k > 0; k >>= 1 {
		if k&1 == 1 {
			y.Mul(y, b)
		}
		b.Mul(b, b)
	}
	return
}
