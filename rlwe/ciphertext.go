package rlwe

import (
	"fmt"
	"io"

	"github.com/sealedhe/sealed/ring"
	"github.com/sealedhe/sealed/utils/buffer"
)

// Ciphertext is a vector of Degree+1 polynomials of Z_Q[X]/(X^N+1) in the
// coefficient domain, along with the [Encoding] of the encrypted plaintext.
// Fresh and evaluated ciphertexts have degree one. Degree two only exists
// transiently between a tensor product and its relinearization.
type Ciphertext struct {
	params   Parameters
	Value    []ring.RNSPoly
	Encoding Encoding
}

// NewCiphertext returns a new [Ciphertext] with zero values.
func NewCiphertext(params ParameterProvider, degree int, enc Encoding) (ct *Ciphertext) {

	p := params.GetRLWEParameters()

	value := make([]ring.RNSPoly, degree+1)
	for i := range value {
		value[i] = p.RingQ().NewRNSPoly()
	}

	return &Ciphertext{params: *p, Value: value, Encoding: enc}
}

// GetRLWEParameters returns the parameters of the ciphertext.
func (ct Ciphertext) GetRLWEParameters() *Parameters {
	return &ct.params
}

// Degree returns the degree of the ciphertext.
func (ct Ciphertext) Degree() int {
	return len(ct.Value) - 1
}

// Size returns the number of polynomials of the ciphertext.
func (ct Ciphertext) Size() int {
	return len(ct.Value)
}

// Clone returns a deep copy of the receiver.
func (ct Ciphertext) Clone() *Ciphertext {
	value := make([]ring.RNSPoly, len(ct.Value))
	for i := range value {
		value[i] = *ct.Value[i].Clone()
	}
	return &Ciphertext{params: ct.params, Value: value, Encoding: ct.Encoding}
}

// Equal performs a deep equal.
func (ct Ciphertext) Equal(other *Ciphertext) bool {

	if other == nil || !ct.params.Equal(&other.params) || !ct.Encoding.Equal(&other.Encoding) || len(ct.Value) != len(other.Value) {
		return false
	}

	for i := range ct.Value {
		if !ct.Value[i].Equal(&other.Value[i]) {
			return false
		}
	}

	return true
}

func (ct Ciphertext) payloadSize(params *Parameters) int {
	return ct.Encoding.BinarySize() + polysSize(params, 2)
}

func (ct Ciphertext) writePayload(w buffer.Writer) (n int64, err error) {

	if len(ct.Value) != 2 {
		return 0, fmt.Errorf("cannot write ciphertext: degree must be 1 but is %d", ct.Degree())
	}

	var inc int64

	if inc, err = ct.Encoding.WriteTo(w); err != nil {
		return n + inc, fmt.Errorf("ct.Encoding.WriteTo: %w", err)
	}

	n += inc

	inc, err = writePolys(w, ct.Value...)

	return n + inc, err
}

func (ct *Ciphertext) readPayload(r buffer.Reader, params *Parameters) (n int64, err error) {

	var inc int64

	if inc, err = ct.Encoding.ReadFrom(r); err != nil {
		return n + inc, fmt.Errorf("ct.Encoding.ReadFrom: %w", err)
	}

	n += inc

	ct.Value = make([]ring.RNSPoly, 2)

	inc, err = readPolys(r, params, &ct.Value[0], &ct.Value[1])

	return n + inc, err
}

// BinarySize returns the serialized size of the object in bytes.
func (ct Ciphertext) BinarySize() int {
	return objectSize(&ct.params, &ct, true)
}

// WriteTo writes the object along with its parameters on an io.Writer.
// It implements the io.WriterTo interface, and will write exactly
// object.BinarySize() bytes on w.
func (ct Ciphertext) WriteTo(w io.Writer) (n int64, err error) {
	return writeObject(w, &ct.params, &ct, true)
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface. Returns [ErrMissingContext] if the object
// was written without its parameters.
func (ct *Ciphertext) ReadFrom(r io.Reader) (n int64, err error) {
	ct.params, n, err = readObject(r, nil, ct)
	return
}

// MarshalBinary encodes the object along with its parameters into a binary form
// on a newly allocated slice of bytes.
func (ct Ciphertext) MarshalBinary() (data []byte, err error) {
	return marshal(&ct.params, &ct, true)
}

// MarshalBinaryDetached encodes the object without its parameters.
func (ct Ciphertext) MarshalBinaryDetached() (data []byte, err error) {
	return marshal(&ct.params, &ct, false)
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (ct *Ciphertext) UnmarshalBinary(data []byte) (err error) {
	ct.params, _, err = readObject(buffer.NewBuffer(data), nil, ct)
	return
}

// UnmarshalBinaryWithParameters decodes a slice of bytes generated by
// MarshalBinaryDetached, MarshalBinary or WriteTo on the object.
func (ct *Ciphertext) UnmarshalBinaryWithParameters(params ParameterProvider, data []byte) (err error) {
	ct.params, _, err = readObject(buffer.NewBuffer(data), params.GetRLWEParameters(), ct)
	return
}
