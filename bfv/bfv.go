// Package bfv implements the Brakerski/Fan-Vercauteren scale invariant homomorphic
// encryption scheme over integers and fixed-point reals.
//
// Values are encoded as base-b digit expansions in the coefficients of a plaintext
// polynomial (see [Encoder]), encrypted under an [rlwe.PublicKey] and evaluated with
// an [Evaluator]. [CipherScheme] bundles all of it behind a single object.
//
// The scheme is leveled: every operation consumes part of the noise budget of its
// operands and a ciphertext whose budget is exhausted silently decrypts to a wrong
// value. Use [Evaluator.NoiseBudget] to track it.
package bfv

import (
	"github.com/sealedhe/sealed/rlwe"
)

// Operand is an empty interface whose goal is to indicate the accepted
// types of second operand of the [Evaluator] methods:
//   - [*rlwe.Ciphertext] or [*Ciphertext]
//   - [*rlwe.Plaintext]
//   - int, int64, uint64, *big.Int, float64, float32 or *big.Float, encoded
//     with the [rlwe.Encoding] of the first operand.
type Operand interface {
}

// NewCiphertext allocates a new [rlwe.Ciphertext] of the given degree.
func NewCiphertext(params rlwe.ParameterProvider, degree int, enc rlwe.Encoding) *rlwe.Ciphertext {
	return rlwe.NewCiphertext(params, degree, enc)
}

// NewPlaintext allocates a new [rlwe.Plaintext].
func NewPlaintext(params rlwe.ParameterProvider, enc rlwe.Encoding) *rlwe.Plaintext {
	return rlwe.NewPlaintext(params, enc)
}
