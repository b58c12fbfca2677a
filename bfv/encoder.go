package bfv

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"

	"github.com/sealedhe/sealed/rlwe"
	"github.com/sealedhe/sealed/utils/bignum"
)

// Encoder is a structure that encodes integers and fixed-point reals on
// plaintexts as base-b digit expansions, one digit per coefficient.
//
// The digit of weight b^i is placed on X^i for the integral part and the
// digit of weight b^-i on X^{N-i} with a negated sign for the fractional
// part (X^-i = -X^{N-i} mod X^N+1), so that the product of two encodings
// is the encoding of the product as long as no coefficient wraps around T.
type Encoder struct {
	params rlwe.Parameters
}

// NewEncoder creates a new [Encoder] from the provided parameters.
func NewEncoder(params rlwe.ParameterProvider) *Encoder {
	return &Encoder{params: *params.GetRLWEParameters()}
}

// GetRLWEParameters returns the underlying [rlwe.Parameters].
func (ecd Encoder) GetRLWEParameters() *rlwe.Parameters {
	return &ecd.params
}

// Encode encodes value on a new plaintext with the given encoding.
// The following types are accepted for value:
//   - int, int64, int32, uint, uint64, uint32, *big.Int
//   - float64, float32, *big.Float
//
// Integers are encoded exactly and the returned plaintext has FractionalDigits
// set to zero. Reals are rounded to enc.FractionalDigits fractional digits.
//
// Returns [ErrEncodingOverflow] if the value needs more than enc.IntegralDigits
// integral digits or if a negative value is given with an unsigned encoding.
func (ecd Encoder) Encode(value interface{}, enc rlwe.Encoding) (pt *rlwe.Plaintext, err error) {
	return ecd.encode(value, enc, false)
}

// EncodeAs is identical to [Encoder.Encode] except that the returned plaintext
// always carries enc: integers are encoded as reals when enc.FractionalDigits
// is not zero. It is used to combine a scalar with a ciphertext.
//
// Returns [ErrTypeIncompatibility] if value is a real and enc.FractionalDigits is zero.
func (ecd Encoder) EncodeAs(value interface{}, enc rlwe.Encoding) (pt *rlwe.Plaintext, err error) {
	return ecd.encode(value, enc, true)
}

func (ecd Encoder) encode(value interface{}, enc rlwe.Encoding, keepEncoding bool) (pt *rlwe.Plaintext, err error) {

	if err = enc.Validate(ecd.params); err != nil {
		return nil, fmt.Errorf("cannot Encode: %w", err)
	}

	var v *big.Int

	switch value := value.(type) {
	case int, int64, uint, uint64, *big.Int:

		if x, ok := value.(*big.Int); ok && x == nil {
			return nil, fmt.Errorf("cannot Encode: value is nil")
		}

		v = bignum.NewInt(value)

		if keepEncoding {
			v.Mul(v, new(big.Int).Exp(new(big.Int).SetUint64(enc.Base), big.NewInt(int64(enc.FractionalDigits)), nil))
		} else {
			enc.FractionalDigits = 0
		}

	case int32:
		return ecd.encode(int64(value), enc, keepEncoding)
	case uint32:
		return ecd.encode(uint64(value), enc, keepEncoding)
	case float32:
		return ecd.encode(float64(value), enc, keepEncoding)

	case float64:

		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("cannot Encode: %w: value is %v", ErrEncodingOverflow, value)
		}

		if err = checkReal(enc, keepEncoding); err != nil {
			return
		}

		v = ecd.scale(bignum.NewFloat(value, 53), enc)

	case *big.Float:

		if value == nil || value.IsInf() {
			return nil, fmt.Errorf("cannot Encode: %w: value is %v", ErrEncodingOverflow, value)
		}

		if err = checkReal(enc, keepEncoding); err != nil {
			return
		}

		v = ecd.scale(value, enc)

	default:
		return nil, fmt.Errorf("cannot Encode: invalid value.(type), accepted types are int, int64, int32, uint, uint64, uint32, *big.Int, float64, float32 and *big.Float but is %T", value)
	}

	if v.Sign() < 0 && !enc.Signed {
		return nil, fmt.Errorf("cannot Encode: %w: negative value with an unsigned encoding", ErrEncodingOverflow)
	}

	digits := Digits(v, enc.Base, enc.Signed)

	if integral := len(digits) - enc.FractionalDigits; integral > enc.IntegralDigits {
		return nil, fmt.Errorf("cannot Encode: %w: value needs %d integral digits but the encoding allows %d", ErrEncodingOverflow, integral, enc.IntegralDigits)
	}

	pt = rlwe.NewPlaintext(ecd.params, enc)

	N := ecd.params.N()
	T := new(big.Int).SetUint64(ecd.params.T())
	tmp := new(big.Int)

	for i := range digits {

		if digits[i].Sign() == 0 {
			continue
		}

		// X^{i-f}, with X^-k = -X^{N-k}
		if idx := i - enc.FractionalDigits; idx >= 0 {
			pt.Value[idx] = tmp.Mod(&digits[i], T).Uint64()
		} else {
			pt.Value[N+idx] = tmp.Mod(tmp.Neg(&digits[i]), T).Uint64()
		}
	}

	return
}

// checkReal rejects a real value that would be rounded to an integer
// encoding imposed by a ciphertext.
func checkReal(enc rlwe.Encoding, keepEncoding bool) (err error) {
	if keepEncoding && enc.FractionalDigits == 0 {
		return fmt.Errorf("cannot Encode: %w: real value with the integer encoding %s", ErrTypeIncompatibility, enc)
	}
	return
}

// scale returns round(x * base^FractionalDigits).
func (ecd Encoder) scale(x *big.Float, enc rlwe.Encoding) *big.Int {
	prec := max(x.Prec(), 53) + uint(enc.FractionalDigits*bits.Len64(enc.Base)) + 1
	scaled := bignum.NewFloat(x, prec)
	scaled.Mul(scaled, bignum.Pow(bignum.NewFloat(enc.Base, prec), enc.FractionalDigits))
	return bignum.Round(scaled)
}

// Digits returns the base-b digits of v, least significant first.
//   - unsigned: digits are in [0, b-1], v must be non-negative.
//   - signed with an odd base: balanced digits in [-(b-1)/2, (b-1)/2].
//   - signed with an even base: the digits of |v| with the sign of v.
func Digits(v *big.Int, base uint64, signed bool) (digits []big.Int) {

	B := new(big.Int).SetUint64(base)
	half := new(big.Int).SetUint64((base - 1) >> 1)
	one := big.NewInt(1)

	balanced := signed && base&1 == 1

	x := new(big.Int).Set(v)
	if !balanced {
		x.Abs(x)
	}

	neg := v.Sign() < 0 && !balanced

	r := new(big.Int)
	for x.Sign() != 0 {

		// Euclidean: r in [0, b)
		x.DivMod(x, B, r)

		if balanced && r.Cmp(half) > 0 {
			r.Sub(r, B)
			x.Add(x, one)
		}

		if neg {
			r.Neg(r)
		}

		digits = append(digits, *new(big.Int).Set(r))
	}

	return
}

// Decode decodes pt and returns the encoded value.
// Coefficients are read as balanced representatives of Z_T.
func (ecd Encoder) Decode(pt *rlwe.Plaintext) (value *big.Float, err error) {

	num, den, err := ecd.decode(pt)
	if err != nil {
		return nil, err
	}

	prec := uint(max(bignum.DefaultPrecision, num.BitLen()+64))

	return new(big.Float).SetPrec(prec).SetRat(new(big.Rat).SetFrac(num, den)), nil
}

// DecodeInt decodes pt and returns the encoded value rounded to the nearest integer.
func (ecd Encoder) DecodeInt(pt *rlwe.Plaintext) (value *big.Int, err error) {

	num, den, err := ecd.decode(pt)
	if err != nil {
		return nil, err
	}

	value = new(big.Int)
	bignum.DivRound(num, den, value)

	return
}

// decode returns value = num/den with den = b^F and F the deepest
// fractional position with a non-zero coefficient.
func (ecd Encoder) decode(pt *rlwe.Plaintext) (num, den *big.Int, err error) {

	if pt == nil || !ecd.params.Equal(pt.GetRLWEParameters()) {
		return nil, nil, fmt.Errorf("cannot Decode: %w: plaintext parameters do not match", rlwe.ErrParameter)
	}

	if pt.Encoding.Base < 2 {
		return nil, nil, fmt.Errorf("cannot Decode: %w: invalid base %d", rlwe.ErrParameter, pt.Encoding.Base)
	}

	N := ecd.params.N()
	half := N >> 1
	T := ecd.params.T()

	center := func(c uint64) int64 {
		if c > T>>1 {
			return -int64(T - c)
		}
		return int64(c)
	}

	// Deepest fractional position.
	F := 0
	for i := half; i < N; i++ {
		if pt.Value[i] != 0 {
			F = N - i
			break
		}
	}

	// Highest integral position.
	top := -1
	for i := half - 1; i >= 0; i-- {
		if pt.Value[i] != 0 {
			top = i
			break
		}
	}

	B := new(big.Int).SetUint64(pt.Encoding.Base)
	c := new(big.Int)

	// Horner evaluation from b^top down to b^-F.
	num = new(big.Int)
	for e := max(top, 0); e >= -F; e-- {

		num.Mul(num, B)

		if e >= 0 {
			c.SetInt64(center(pt.Value[e]))
		} else {
			c.SetInt64(-center(pt.Value[N+e]))
		}

		num.Add(num, c)
	}

	den = new(big.Int).Exp(B, big.NewInt(int64(F)), nil)

	return
}
