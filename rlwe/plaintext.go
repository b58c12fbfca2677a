package rlwe

import (
	"github.com/sealedhe/sealed/ring"
)

// Plaintext is a polynomial of Z_T[X]/(X^N+1) with coefficients in [0, T),
// along with the [Encoding] used to produce it.
type Plaintext struct {
	params   Parameters
	Value    ring.Poly
	Encoding Encoding
}

// NewPlaintext returns a new [Plaintext] with zero values.
func NewPlaintext(params ParameterProvider, enc Encoding) (pt *Plaintext) {
	p := params.GetRLWEParameters()
	return &Plaintext{params: *p, Value: ring.NewPoly(p.N()), Encoding: enc}
}

// GetRLWEParameters returns the parameters of the plaintext.
func (pt Plaintext) GetRLWEParameters() *Parameters {
	return &pt.params
}

// N returns the number of coefficients of the plaintext.
func (pt Plaintext) N() int {
	return len(pt.Value)
}

// Clone returns a deep copy of the receiver.
func (pt Plaintext) Clone() *Plaintext {
	return &Plaintext{params: pt.params, Value: *pt.Value.Clone(), Encoding: pt.Encoding}
}

// Equal performs a deep equal.
func (pt Plaintext) Equal(other *Plaintext) bool {
	return other != nil && pt.params.Equal(&other.params) && pt.Encoding.Equal(&other.Encoding) && pt.Value.Equal(&other.Value)
}
