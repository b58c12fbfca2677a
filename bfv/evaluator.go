package bfv

import (
	"fmt"
	"math"
	"math/big"

	"github.com/sealedhe/sealed/ring"
	"github.com/sealedhe/sealed/rlwe"
	"github.com/sealedhe/sealed/utils/bignum"
	"github.com/sealedhe/sealed/utils/concurrency"
)

// Evaluator is a struct that holds the necessary elements to perform the
// homomorphic operations between ciphertexts and/or plaintexts.
// It holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	params  rlwe.Parameters
	rlk     *rlwe.RelinearizationKey
	encoder *Encoder
}

// NewEvaluator creates a new [Evaluator]. rlk can be nil, in which case
// the methods relinearizing their result return an error.
func NewEvaluator(params rlwe.ParameterProvider, rlk *rlwe.RelinearizationKey) *Evaluator {
	p := *params.GetRLWEParameters()
	return &Evaluator{
		params:  p,
		rlk:     rlk,
		encoder: NewEncoder(p),
	}
}

// GetRLWEParameters returns the underlying [rlwe.Parameters].
func (eval Evaluator) GetRLWEParameters() *rlwe.Parameters {
	return &eval.params
}

// WithKey creates a shallow copy of the receiver with rlk as relinearization key.
func (eval Evaluator) WithKey(rlk *rlwe.RelinearizationKey) *Evaluator {
	return &Evaluator{
		params:  eval.params,
		rlk:     rlk,
		encoder: eval.encoder,
	}
}

// Add adds op1 to op0 and returns the result in op2.
// See [Operand] for the accepted types of op1.
// Returns [ErrTypeIncompatibility] if the encodings of the operands differ.
func (eval Evaluator) Add(op0 *rlwe.Ciphertext, op1 Operand, op2 *rlwe.Ciphertext) (err error) {
	return eval.addition(op0, op1, op2, true)
}

// AddNew adds op1 to op0 and returns the result in a new [rlwe.Ciphertext] op2.
func (eval Evaluator) AddNew(op0 *rlwe.Ciphertext, op1 Operand) (op2 *rlwe.Ciphertext, err error) {
	if op2, err = eval.newCiphertext(op0, 1); err != nil {
		return nil, err
	}
	return op2, eval.Add(op0, op1, op2)
}

// Sub subtracts op1 to op0 and returns the result in op2.
// See [Operand] for the accepted types of op1.
// Returns [ErrTypeIncompatibility] if the encodings of the operands differ.
func (eval Evaluator) Sub(op0 *rlwe.Ciphertext, op1 Operand, op2 *rlwe.Ciphertext) (err error) {
	return eval.addition(op0, op1, op2, false)
}

// SubNew subtracts op1 to op0 and returns the result in a new [rlwe.Ciphertext] op2.
func (eval Evaluator) SubNew(op0 *rlwe.Ciphertext, op1 Operand) (op2 *rlwe.Ciphertext, err error) {
	if op2, err = eval.newCiphertext(op0, 1); err != nil {
		return nil, err
	}
	return op2, eval.Sub(op0, op1, op2)
}

func (eval Evaluator) addition(op0 *rlwe.Ciphertext, op1 Operand, op2 *rlwe.Ciphertext, positive bool) (err error) {

	if err = eval.checkCiphertexts(op0, op2); err != nil {
		return
	}

	rQ := eval.params.RingQ()

	switch op1 := unwrap(op1).(type) {
	case *rlwe.Ciphertext:

		if err = eval.checkCiphertexts(op1); err != nil {
			return
		}

		if err = checkEncodings(op0.Encoding, op1.Encoding); err != nil {
			return
		}

		d0, d1 := op0.Degree(), op1.Degree()

		// op2 may alias op0 or op1.
		a, b := op0.Value, op1.Value

		resize(rQ, op2, max(d0, d1))

		for i := range op2.Value {
			switch {
			case i <= d0 && i <= d1:
				if positive {
					rQ.Add(a[i], b[i], op2.Value[i])
				} else {
					rQ.Sub(a[i], b[i], op2.Value[i])
				}
			case i <= d0:
				op2.Value[i].Copy(&a[i])
			case positive:
				op2.Value[i].Copy(&b[i])
			default:
				rQ.Neg(b[i], op2.Value[i])
			}
		}

	default:

		var pt *rlwe.Plaintext
		if pt, err = eval.operandToPlaintext(op1, op0.Encoding); err != nil {
			return
		}

		a := op0.Value

		resize(rQ, op2, op0.Degree())

		for i := range op2.Value {
			op2.Value[i].Copy(&a[i])
		}

		if positive {
			rlwe.AddScaledPlaintext(eval.params, pt, op2.Value[0])
		} else {
			scaled := rQ.NewRNSPoly()
			rlwe.AddScaledPlaintext(eval.params, pt, scaled)
			rQ.Sub(op2.Value[0], scaled, op2.Value[0])
		}
	}

	op2.Encoding = op0.Encoding

	return
}

// Neg negates op0 and returns the result in op1.
func (eval Evaluator) Neg(op0, op1 *rlwe.Ciphertext) (err error) {

	if err = eval.checkCiphertexts(op0, op1); err != nil {
		return
	}

	rQ := eval.params.RingQ()

	a := op0.Value

	resize(rQ, op1, op0.Degree())

	for i := range op1.Value {
		rQ.Neg(a[i], op1.Value[i])
	}

	op1.Encoding = op0.Encoding

	return
}

// NegNew negates op0 and returns the result in a new [rlwe.Ciphertext] op1.
func (eval Evaluator) NegNew(op0 *rlwe.Ciphertext) (op1 *rlwe.Ciphertext, err error) {
	if op1, err = eval.newCiphertext(op0, 1); err != nil {
		return nil, err
	}
	return op1, eval.Neg(op0, op1)
}

// Mul multiplies op0 by op1 without relinearization and returns the result in op2.
// See [Operand] for the accepted types of op1.
//
// If op1 is a ciphertext, both operands must be of degree one and op2 is of degree two.
// Else op2 has the degree of op0.
func (eval Evaluator) Mul(op0 *rlwe.Ciphertext, op1 Operand, op2 *rlwe.Ciphertext) (err error) {

	if err = eval.checkCiphertexts(op0, op2); err != nil {
		return
	}

	switch op1 := unwrap(op1).(type) {
	case *rlwe.Ciphertext:

		if err = eval.checkCiphertexts(op1); err != nil {
			return
		}

		if err = checkEncodings(op0.Encoding, op1.Encoding); err != nil {
			return
		}

		if op0.Degree() != 1 || op1.Degree() != 1 {
			return fmt.Errorf("cannot Mul: input ciphertexts must be of degree 1 but are of degree %d and %d", op0.Degree(), op1.Degree())
		}

		return eval.tensor(op0, op1, op2)

	default:

		var pt *rlwe.Plaintext
		if pt, err = eval.operandToPlaintext(op1, op0.Encoding); err != nil {
			return
		}

		eval.mulPlaintext(op0, pt, op2)

		return
	}
}

// MulNew multiplies op0 by op1 without relinearization and returns the result in a new [rlwe.Ciphertext] op2.
func (eval Evaluator) MulNew(op0 *rlwe.Ciphertext, op1 Operand) (op2 *rlwe.Ciphertext, err error) {
	if op2, err = eval.newCiphertext(op0, 1); err != nil {
		return nil, err
	}
	return op2, eval.Mul(op0, op1, op2)
}

// MulRelin multiplies op0 by op1, relinearizes and returns the result in op2,
// which is always of degree one.
// See [Operand] for the accepted types of op1.
func (eval Evaluator) MulRelin(op0 *rlwe.Ciphertext, op1 Operand, op2 *rlwe.Ciphertext) (err error) {

	if _, ok := unwrap(op1).(*rlwe.Ciphertext); !ok {
		return eval.Mul(op0, op1, op2)
	}

	if err = eval.checkRelinearizationKey(); err != nil {
		return
	}

	if err = eval.Mul(op0, op1, op2); err != nil {
		return
	}

	return eval.Relinearize(op2, op2)
}

// MulRelinNew multiplies op0 by op1, relinearizes and returns the result in a new [rlwe.Ciphertext] op2.
func (eval Evaluator) MulRelinNew(op0 *rlwe.Ciphertext, op1 Operand) (op2 *rlwe.Ciphertext, err error) {
	if op2, err = eval.newCiphertext(op0, 2); err != nil {
		return nil, err
	}
	return op2, eval.MulRelin(op0, op1, op2)
}

// mulPlaintext evaluates op2 = op0 * pt with pt centered modulo T.
func (eval Evaluator) mulPlaintext(op0 *rlwe.Ciphertext, pt *rlwe.Plaintext, op2 *rlwe.Ciphertext) {

	rQ := eval.params.RingQ()

	N := eval.params.N()
	T := eval.params.T()

	m := make([]big.Int, N)
	for i, c := range pt.Value {
		if c > T>>1 {
			m[i].SetUint64(T - c)
			m[i].Neg(&m[i])
		} else {
			m[i].SetUint64(c)
		}
	}

	mNTT := rQ.NewRNSPoly()
	rQ.SetCoefficientsBigint(m, mNTT)
	rQ.NTT(mNTT, mNTT)

	a := op0.Value

	resize(rQ, op2, op0.Degree())

	for i := range op2.Value {
		rQ.NTT(a[i], op2.Value[i])
		rQ.MulCoeffsBarrett(op2.Value[i], mNTT, op2.Value[i])
		rQ.INTT(op2.Value[i], op2.Value[i])
	}

	op2.Encoding = op0.Encoding
}

// tensor evaluates op2 = round(T/Q * (op0 x op1)) mod Q.
//
// The operands are lifted to their centered representatives in Z_{QP},
// with P > 2NQ, such that the tensor product is computed exactly before
// being scaled back.
func (eval Evaluator) tensor(op0, op1, op2 *rlwe.Ciphertext) (err error) {

	rQ := eval.params.RingQ()
	rQP := eval.params.RingQP()

	N := eval.params.N()

	buffers := make([][]big.Int, 3)
	for i := range buffers {
		buffers[i] = make([]big.Int, N)
	}

	rm := concurrency.NewResourceManager(buffers)

	// (a0, a1, b0, b1) in Z_{QP} in the NTT domain.
	in := []ring.RNSPoly{op0.Value[0], op0.Value[1], op1.Value[0], op1.Value[1]}
	lifted := make([]ring.RNSPoly, len(in))

	for i := range in {
		lifted[i] = rQP.NewRNSPoly()
		rm.Run(func(buf []big.Int) (err error) {
			rQ.PolyToBigintCentered(in[i], 1, buf)
			rQP.SetCoefficientsBigint(buf, lifted[i])
			rQP.NTT(lifted[i], lifted[i])
			return
		})
	}

	if err = rm.Wait(); err != nil {
		return
	}

	a0, a1, b0, b1 := lifted[0], lifted[1], lifted[2], lifted[3]

	resize(rQ, op2, 2)

	T := new(big.Int).SetUint64(eval.params.T())
	Q := eval.params.QBigint()

	for i := 0; i < 3; i++ {
		rm.Run(func(buf []big.Int) (err error) {

			d := rQP.NewRNSPoly()

			switch i {
			case 0:
				rQP.MulCoeffsBarrett(a0, b0, d)
			case 1:
				rQP.MulCoeffsBarrett(a0, b1, d)
				rQP.MulCoeffsBarrettThenAdd(a1, b0, d)
			case 2:
				rQP.MulCoeffsBarrett(a1, b1, d)
			}

			rQP.INTT(d, d)
			rQP.PolyToBigintCentered(d, 1, buf)

			for j := range buf {
				bignum.ScaleRound(&buf[j], T, Q, &buf[j])
			}

			rQ.SetCoefficientsBigint(buf, op2.Value[i])

			return
		})
	}

	if err = rm.Wait(); err != nil {
		return
	}

	op2.Encoding = op0.Encoding

	return
}

// Relinearize relinearizes op0, of degree two, and returns the result in op1, of degree one.
//
// For each limb q_j and each digit k, the base-2^LogBase digits D_{j,k} of [c2]_{q_j}
// are multiplied with the k-th key pair of the limb:
//
//	(c0, c1) + sum_{j,k} D_{j,k} * rlk[j][k]
func (eval Evaluator) Relinearize(op0, op1 *rlwe.Ciphertext) (err error) {

	if err = eval.checkRelinearizationKey(); err != nil {
		return
	}

	if err = eval.checkCiphertexts(op0, op1); err != nil {
		return
	}

	if op0.Degree() != 2 {
		return fmt.Errorf("cannot Relinearize: input ciphertext must be of degree 2 but is of degree %d", op0.Degree())
	}

	rQ := eval.params.RingQ()

	rlk := eval.rlk

	acc0 := rQ.NewRNSPoly()
	acc1 := rQ.NewRNSPoly()
	digit := rQ.NewRNSPoly()

	mask := uint64(1)<<rlk.LogBase - 1

	c2 := op0.Value[2]

	for j := range rlk.Value {

		limb := c2.At(j)

		for k := range rlk.Value[j] {

			shift := uint(rlk.LogBase * k)

			for i, s := range rQ {
				qi, bredconstant := s.Modulus, s.BRedConstant
				d := digit.At(i)
				for n, c := range limb {
					d[n] = ring.BRedAdd((c>>shift)&mask, qi, bredconstant)
				}
			}

			rQ.NTT(digit, digit)
			rQ.MulCoeffsBarrettThenAdd(digit, rlk.Value[j][k][0], acc0)
			rQ.MulCoeffsBarrettThenAdd(digit, rlk.Value[j][k][1], acc1)
		}
	}

	rQ.INTT(acc0, acc0)
	rQ.INTT(acc1, acc1)

	c0, c1 := op0.Value[0], op0.Value[1]

	resize(rQ, op1, 1)

	rQ.Add(c0, acc0, op1.Value[0])
	rQ.Add(c1, acc1, op1.Value[1])

	op1.Encoding = op0.Encoding

	return
}

// RelinearizeNew relinearizes op0 and returns the result in a new [rlwe.Ciphertext] op1.
func (eval Evaluator) RelinearizeNew(op0 *rlwe.Ciphertext) (op1 *rlwe.Ciphertext, err error) {
	if op1, err = eval.newCiphertext(op0, 1); err != nil {
		return nil, err
	}
	return op1, eval.Relinearize(op0, op1)
}

// Power evaluates op0^k with k >= 1 by square-and-multiply and returns the result in op1.
// The multiplicative depth is floor(log2(k)) + popcount(k) - 1.
// Returns [ErrInvalidExponent] if k < 1.
func (eval Evaluator) Power(op0 *rlwe.Ciphertext, k int, op1 *rlwe.Ciphertext) (err error) {

	if k < 1 {
		return fmt.Errorf("cannot Power: %w: k=%d must be at least 1", ErrInvalidExponent, k)
	}

	if err = eval.checkCiphertexts(op0, op1); err != nil {
		return
	}

	if k > 1 {
		if err = eval.checkRelinearizationKey(); err != nil {
			return
		}
	}

	acc := op0.Clone()

	var res *rlwe.Ciphertext

	for ; k > 0; k >>= 1 {

		if k&1 == 1 {
			if res == nil {
				res = acc.Clone()
			} else if err = eval.MulRelin(res, acc, res); err != nil {
				return
			}
		}

		if k > 1 {
			if err = eval.MulRelin(acc, acc, acc); err != nil {
				return
			}
		}
	}

	resize(eval.params.RingQ(), op1, res.Degree())

	for i := range op1.Value {
		op1.Value[i].Copy(&res.Value[i])
	}

	op1.Encoding = res.Encoding

	return
}

// PowerNew evaluates op0^k and returns the result in a new [rlwe.Ciphertext] op1.
func (eval Evaluator) PowerNew(op0 *rlwe.Ciphertext, k int) (op1 *rlwe.Ciphertext, err error) {
	if op1, err = eval.newCiphertext(op0, 1); err != nil {
		return nil, err
	}
	return op1, eval.Power(op0, k, op1)
}

// NoiseBudget returns the number of bits of noise that ct can still absorb
// before decryption fails:
//
//	max(0, floor(log2(Q) - log2(||[T * (c0 + c1*s)]_Q||) - 1))
//
// A ciphertext with a budget of zero decrypts to an unpredictable value.
func (eval Evaluator) NoiseBudget(ct *rlwe.Ciphertext, sk *rlwe.SecretKey) (budget int, err error) {

	dec, err := rlwe.NewDecryptor(eval.params, sk)
	if err != nil {
		return 0, fmt.Errorf("cannot NoiseBudget: %w", err)
	}

	rQ := eval.params.RingQ()

	phase := rQ.NewRNSPoly()
	if err = dec.Phase(ct, phase); err != nil {
		return 0, fmt.Errorf("cannot NoiseBudget: %w", err)
	}

	values := make([]big.Int, eval.params.N())
	rQ.PolyToBigint(phase, 1, values)

	T := new(big.Int).SetUint64(eval.params.T())
	Q := eval.params.QBigint()

	for i := range values {
		values[i].Mul(&values[i], T)
		bignum.CenterMod(&values[i], Q, &values[i])
	}

	norm := bignum.MaxAbs(values)

	if norm.Sign() == 0 {
		return int(math.Floor(eval.params.LogQ() - 1)), nil
	}

	return max(0, int(math.Floor(eval.params.LogQ()-bignum.Log2(norm)-1))), nil
}

// operandToPlaintext returns op1 as a plaintext with encoding enc.
func (eval Evaluator) operandToPlaintext(op1 Operand, enc rlwe.Encoding) (pt *rlwe.Plaintext, err error) {

	switch op1 := op1.(type) {
	case *rlwe.Plaintext:

		if op1 == nil || !eval.params.Equal(op1.GetRLWEParameters()) {
			return nil, fmt.Errorf("%w: plaintext parameters do not match", rlwe.ErrParameter)
		}

		if err = checkEncodings(enc, op1.Encoding); err != nil {
			return
		}

		return op1, nil

	default:
		return eval.encoder.EncodeAs(op1, enc)
	}
}

func (eval Evaluator) checkCiphertexts(cts ...*rlwe.Ciphertext) (err error) {
	for _, ct := range cts {

		if ct == nil {
			return fmt.Errorf("%w: ciphertext is nil", rlwe.ErrParameter)
		}

		if !eval.params.Equal(ct.GetRLWEParameters()) {
			return fmt.Errorf("%w: ciphertext parameters do not match", rlwe.ErrParameter)
		}

		if ct.Degree() < 1 {
			return fmt.Errorf("invalid ciphertext: degree must be at least 1 but is %d", ct.Degree())
		}
	}
	return
}

func (eval Evaluator) checkRelinearizationKey() (err error) {

	if eval.rlk == nil {
		return fmt.Errorf("%w: relinearization key is missing", rlwe.ErrParameter)
	}

	if !eval.params.Equal(eval.rlk.GetRLWEParameters()) {
		return fmt.Errorf("%w: relinearization key parameters do not match", rlwe.ErrParameter)
	}

	return
}

func (eval Evaluator) newCiphertext(op0 *rlwe.Ciphertext, degree int) (*rlwe.Ciphertext, error) {
	if err := eval.checkCiphertexts(op0); err != nil {
		return nil, err
	}
	return rlwe.NewCiphertext(eval.params, degree, op0.Encoding), nil
}

func checkEncodings(a, b rlwe.Encoding) (err error) {
	if !a.Equal(&b) {
		return fmt.Errorf("%w: encodings %s and %s differ", ErrTypeIncompatibility, a, b)
	}
	return
}

// resize sets the degree of ct, allocating the missing polynomials.
func resize(rQ ring.RNSRing, ct *rlwe.Ciphertext, degree int) {
	for ct.Degree() < degree {
		ct.Value = append(ct.Value, rQ.NewRNSPoly())
	}
	ct.Value = ct.Value[:degree+1]
}

// unwrap returns the underlying [rlwe.Ciphertext] of a [Ciphertext].
func unwrap(op Operand) Operand {
	if ct, ok := op.(*Ciphertext); ok && ct != nil {
		return ct.Ciphertext
	}
	return op
}
