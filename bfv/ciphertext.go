package bfv

import (
	"fmt"
	"math/big"

	"github.com/sealedhe/sealed/rlwe"
)

// Ciphertext is an [rlwe.Ciphertext] bound to the [CipherScheme] that created it.
// Its methods never modify the receiver and always return a new Ciphertext.
type Ciphertext struct {
	*rlwe.Ciphertext
	scheme *CipherScheme
}

// Scheme returns the scheme the ciphertext is bound to.
func (ct *Ciphertext) Scheme() *CipherScheme {
	return ct.scheme
}

// Add returns ct + op1. See [Operand] for the accepted types of op1.
func (ct *Ciphertext) Add(op1 Operand) (*Ciphertext, error) {
	return ct.apply(op1, (*Evaluator).AddNew)
}

// Sub returns ct - op1. See [Operand] for the accepted types of op1.
func (ct *Ciphertext) Sub(op1 Operand) (*Ciphertext, error) {
	return ct.apply(op1, (*Evaluator).SubNew)
}

// Mul returns the relinearized product ct * op1.
// See [Operand] for the accepted types of op1.
func (ct *Ciphertext) Mul(op1 Operand) (*Ciphertext, error) {
	return ct.apply(op1, (*Evaluator).MulRelinNew)
}

// AddPlaintext returns ct + pt.
func (ct *Ciphertext) AddPlaintext(pt *rlwe.Plaintext) (*Ciphertext, error) {
	return ct.Add(pt)
}

// MulPlaintext returns ct * pt.
func (ct *Ciphertext) MulPlaintext(pt *rlwe.Plaintext) (*Ciphertext, error) {
	return ct.Mul(pt)
}

// AddScalar returns ct + value, with value encoded with the encoding of ct.
func (ct *Ciphertext) AddScalar(value interface{}) (*Ciphertext, error) {
	if err := checkScalar(value); err != nil {
		return nil, err
	}
	return ct.Add(value)
}

// MulScalar returns ct * value, with value encoded with the encoding of ct.
func (ct *Ciphertext) MulScalar(value interface{}) (*Ciphertext, error) {
	if err := checkScalar(value); err != nil {
		return nil, err
	}
	return ct.Mul(value)
}

// Neg returns -ct.
func (ct *Ciphertext) Neg() (*Ciphertext, error) {

	if err := ct.check(); err != nil {
		return nil, err
	}

	res, err := ct.scheme.Evaluator().NegNew(ct.Ciphertext)
	if err != nil {
		return nil, err
	}

	return ct.scheme.NewCiphertext(res), nil
}

// Pow returns ct^k for k >= 1.
func (ct *Ciphertext) Pow(k int) (*Ciphertext, error) {

	if err := ct.check(); err != nil {
		return nil, err
	}

	res, err := ct.scheme.Evaluator().PowerNew(ct.Ciphertext, k)
	if err != nil {
		return nil, err
	}

	return ct.scheme.NewCiphertext(res), nil
}

// NoiseBudget returns the remaining noise budget of ct in bits.
// See [Evaluator.NoiseBudget].
func (ct *Ciphertext) NoiseBudget(sk *rlwe.SecretKey) (int, error) {
	if err := ct.check(); err != nil {
		return 0, err
	}
	return ct.scheme.Evaluator().NoiseBudget(ct.Ciphertext, sk)
}

// Decrypt decrypts ct with sk. See [CipherScheme.Decrypt].
func (ct *Ciphertext) Decrypt(sk *rlwe.SecretKey) (*big.Float, error) {
	if err := ct.check(); err != nil {
		return nil, err
	}
	return ct.scheme.Decrypt(sk, ct)
}

// DecryptInt decrypts ct with sk. See [CipherScheme.DecryptInt].
func (ct *Ciphertext) DecryptInt(sk *rlwe.SecretKey) (*big.Int, error) {
	if err := ct.check(); err != nil {
		return nil, err
	}
	return ct.scheme.DecryptInt(sk, ct)
}

func (ct *Ciphertext) apply(op1 Operand, f func(eval *Evaluator, op0 *rlwe.Ciphertext, op1 Operand) (*rlwe.Ciphertext, error)) (*Ciphertext, error) {

	if err := ct.check(); err != nil {
		return nil, err
	}

	res, err := f(ct.scheme.Evaluator(), ct.Ciphertext, op1)
	if err != nil {
		return nil, err
	}

	return ct.scheme.NewCiphertext(res), nil
}

func (ct *Ciphertext) check() error {
	if ct == nil || ct.Ciphertext == nil || ct.scheme == nil {
		return fmt.Errorf("%w: ciphertext is not bound to a scheme", rlwe.ErrParameter)
	}
	return nil
}

func checkScalar(value interface{}) error {
	switch value.(type) {
	case *Ciphertext, *rlwe.Ciphertext, *rlwe.Plaintext:
		return fmt.Errorf("invalid scalar: %T", value)
	}
	return nil
}
