package rlwe

import (
	"fmt"
	"io"
	"math/bits"

	"github.com/sealedhe/sealed/ring"
	"github.com/sealedhe/sealed/utils/buffer"
)

// DefaultRelinearizationLogBase is the log2 of the base of the digit
// decomposition of the [RelinearizationKey].
const DefaultRelinearizationLogBase = 8

// SecretKey is a type for generic RLWE secret keys.
// The secret is a ternary polynomial stored in the coefficient domain.
type SecretKey struct {
	params Parameters
	Value  ring.RNSPoly
}

// NewSecretKey generates a new [SecretKey] with zero values.
func NewSecretKey(params ParameterProvider) *SecretKey {
	p := params.GetRLWEParameters()
	return &SecretKey{params: *p, Value: p.RingQ().NewRNSPoly()}
}

// GetRLWEParameters returns the parameters of the key.
func (sk SecretKey) GetRLWEParameters() *Parameters {
	return &sk.params
}

// Equal performs a deep equal.
func (sk SecretKey) Equal(other *SecretKey) bool {
	return other != nil && sk.params.Equal(&other.params) && sk.Value.Equal(&other.Value)
}

func (sk SecretKey) payloadSize(params *Parameters) int {
	return polysSize(params, 1)
}

func (sk SecretKey) writePayload(w buffer.Writer) (n int64, err error) {
	return writePolys(w, sk.Value)
}

func (sk *SecretKey) readPayload(r buffer.Reader, params *Parameters) (n int64, err error) {
	return readPolys(r, params, &sk.Value)
}

// BinarySize returns the serialized size of the object in bytes.
func (sk SecretKey) BinarySize() int {
	return objectSize(&sk.params, &sk, true)
}

// WriteTo writes the object along with its parameters on an io.Writer.
// It implements the io.WriterTo interface, and will write exactly
// object.BinarySize() bytes on w.
func (sk SecretKey) WriteTo(w io.Writer) (n int64, err error) {
	return writeObject(w, &sk.params, &sk, true)
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface. Returns [ErrMissingContext] if the object
// was written without its parameters.
func (sk *SecretKey) ReadFrom(r io.Reader) (n int64, err error) {
	sk.params, n, err = readObject(r, nil, sk)
	return
}

// MarshalBinary encodes the object along with its parameters into a binary form
// on a newly allocated slice of bytes.
func (sk SecretKey) MarshalBinary() (data []byte, err error) {
	return marshal(&sk.params, &sk, true)
}

// MarshalBinaryDetached encodes the object without its parameters.
// It must be decoded with [SecretKey.UnmarshalBinaryWithParameters].
func (sk SecretKey) MarshalBinaryDetached() (data []byte, err error) {
	return marshal(&sk.params, &sk, false)
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (sk *SecretKey) UnmarshalBinary(data []byte) (err error) {
	sk.params, _, err = readObject(buffer.NewBuffer(data), nil, sk)
	return
}

// UnmarshalBinaryWithParameters decodes a slice of bytes generated by
// MarshalBinaryDetached, MarshalBinary or WriteTo on the object.
func (sk *SecretKey) UnmarshalBinaryWithParameters(params ParameterProvider, data []byte) (err error) {
	sk.params, _, err = readObject(buffer.NewBuffer(data), params.GetRLWEParameters(), sk)
	return
}

// PublicKey is a type for generic RLWE public keys.
// The pair (p0, p1) = (-(a*s + e), a) is stored in the coefficient domain.
type PublicKey struct {
	params Parameters
	Value  [2]ring.RNSPoly
}

// NewPublicKey returns a new [PublicKey] with zero values.
func NewPublicKey(params ParameterProvider) (pk *PublicKey) {
	p := params.GetRLWEParameters()
	return &PublicKey{params: *p, Value: [2]ring.RNSPoly{p.RingQ().NewRNSPoly(), p.RingQ().NewRNSPoly()}}
}

// GetRLWEParameters returns the parameters of the key.
func (pk PublicKey) GetRLWEParameters() *Parameters {
	return &pk.params
}

// Equal performs a deep equal.
func (pk PublicKey) Equal(other *PublicKey) bool {
	return other != nil && pk.params.Equal(&other.params) && pk.Value[0].Equal(&other.Value[0]) && pk.Value[1].Equal(&other.Value[1])
}

func (pk PublicKey) payloadSize(params *Parameters) int {
	return polysSize(params, 2)
}

func (pk PublicKey) writePayload(w buffer.Writer) (n int64, err error) {
	return writePolys(w, pk.Value[0], pk.Value[1])
}

func (pk *PublicKey) readPayload(r buffer.Reader, params *Parameters) (n int64, err error) {
	return readPolys(r, params, &pk.Value[0], &pk.Value[1])
}

// BinarySize returns the serialized size of the object in bytes.
func (pk PublicKey) BinarySize() int {
	return objectSize(&pk.params, &pk, true)
}

// WriteTo writes the object along with its parameters on an io.Writer.
// It implements the io.WriterTo interface, and will write exactly
// object.BinarySize() bytes on w.
func (pk PublicKey) WriteTo(w io.Writer) (n int64, err error) {
	return writeObject(w, &pk.params, &pk, true)
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface. Returns [ErrMissingContext] if the object
// was written without its parameters.
func (pk *PublicKey) ReadFrom(r io.Reader) (n int64, err error) {
	pk.params, n, err = readObject(r, nil, pk)
	return
}

// MarshalBinary encodes the object along with its parameters into a binary form
// on a newly allocated slice of bytes.
func (pk PublicKey) MarshalBinary() (data []byte, err error) {
	return marshal(&pk.params, &pk, true)
}

// MarshalBinaryDetached encodes the object without its parameters.
func (pk PublicKey) MarshalBinaryDetached() (data []byte, err error) {
	return marshal(&pk.params, &pk, false)
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (pk *PublicKey) UnmarshalBinary(data []byte) (err error) {
	pk.params, _, err = readObject(buffer.NewBuffer(data), nil, pk)
	return
}

// UnmarshalBinaryWithParameters decodes a slice of bytes generated by
// MarshalBinaryDetached, MarshalBinary or WriteTo on the object.
func (pk *PublicKey) UnmarshalBinaryWithParameters(params ParameterProvider, data []byte) (err error) {
	pk.params, _, err = readObject(buffer.NewBuffer(data), params.GetRLWEParameters(), pk)
	return
}

// RelinearizationKey is a type for the keys used to compress a ciphertext
// of degree two back to degree one.
//
// Value[j][k] encrypts 2^{LogBase*k} * s^2 on the j-th prime of Q only (zero
// on all other primes), i.e. it is the pair
// (-(a*s + e) + 2^{LogBase*k} * [(Q/q_j)^{-1}]_{q_j} * (Q/q_j) * s^2, a).
// The pairs are stored in the NTT domain.
type RelinearizationKey struct {
	params  Parameters
	LogBase int
	Value   [][][2]ring.RNSPoly
}

// RelinearizationDigits returns the number of base 2^logBase digits of each prime of Q.
func RelinearizationDigits(params ParameterProvider, logBase int) (digits []int) {
	Q := params.GetRLWEParameters().Q()
	digits = make([]int, len(Q))
	for i, qi := range Q {
		digits[i] = (bits.Len64(qi-1) + logBase - 1) / logBase
	}
	return
}

// NewRelinearizationKey returns a new [RelinearizationKey] with zero values.
func NewRelinearizationKey(params ParameterProvider, logBase int) *RelinearizationKey {

	p := params.GetRLWEParameters()

	if logBase < 1 || logBase > 32 {
		panic(fmt.Errorf("invalid logBase: %d is not in [1, 32]", logBase))
	}

	rQ := p.RingQ()
	digits := RelinearizationDigits(p, logBase)

	value := make([][][2]ring.RNSPoly, len(digits))
	for j := range value {
		value[j] = make([][2]ring.RNSPoly, digits[j])
		for k := range value[j] {
			value[j][k] = [2]ring.RNSPoly{rQ.NewRNSPoly(), rQ.NewRNSPoly()}
		}
	}

	return &RelinearizationKey{params: *p, LogBase: logBase, Value: value}
}

// GetRLWEParameters returns the parameters of the key.
func (rlk RelinearizationKey) GetRLWEParameters() *Parameters {
	return &rlk.params
}

// Count returns the number of pairs of polynomials of the key.
func (rlk RelinearizationKey) Count() (count int) {
	for j := range rlk.Value {
		count += len(rlk.Value[j])
	}
	return
}

// Equal performs a deep equal.
func (rlk RelinearizationKey) Equal(other *RelinearizationKey) bool {

	if other == nil || !rlk.params.Equal(&other.params) || rlk.LogBase != other.LogBase || len(rlk.Value) != len(other.Value) {
		return false
	}

	for j := range rlk.Value {

		if len(rlk.Value[j]) != len(other.Value[j]) {
			return false
		}

		for k := range rlk.Value[j] {
			if !rlk.Value[j][k][0].Equal(&other.Value[j][k][0]) || !rlk.Value[j][k][1].Equal(&other.Value[j][k][1]) {
				return false
			}
		}
	}

	return true
}

func (rlk RelinearizationKey) payloadSize(params *Parameters) int {
	return 1 + 4 + polysSize(params, 2*rlk.Count())
}

func (rlk RelinearizationKey) writePayload(w buffer.Writer) (n int64, err error) {

	var inc int64

	if inc, err = buffer.WriteAsUint8[int](w, rlk.LogBase); err != nil {
		return n + inc, fmt.Errorf("buffer.WriteAsUint8[int]: %w", err)
	}

	n += inc

	if inc, err = buffer.WriteAsUint32[int](w, rlk.Count()); err != nil {
		return n + inc, fmt.Errorf("buffer.WriteAsUint32[int]: %w", err)
	}

	n += inc

	for j := range rlk.Value {
		for k := range rlk.Value[j] {
			if inc, err = writePolys(w, rlk.Value[j][k][0], rlk.Value[j][k][1]); err != nil {
				return n + inc, err
			}
			n += inc
		}
	}

	return
}

func (rlk *RelinearizationKey) readPayload(r buffer.Reader, params *Parameters) (n int64, err error) {

	var inc int64

	var logBase uint8
	if inc, err = buffer.ReadUint8(r, &logBase); err != nil {
		return n + inc, fmt.Errorf("buffer.ReadUint8: %w", err)
	}

	n += inc

	if logBase < 1 || logBase > 32 {
		return n, fmt.Errorf("invalid relinearization key: logBase=%d is not in [1, 32]", logBase)
	}

	var count uint32
	if inc, err = buffer.ReadUint32(r, &count); err != nil {
		return n + inc, fmt.Errorf("buffer.ReadUint32: %w", err)
	}

	n += inc

	*rlk = *NewRelinearizationKey(params, int(logBase))

	if int(count) != rlk.Count() {
		return n, fmt.Errorf("invalid relinearization key: has %d pairs but parameters require %d", count, rlk.Count())
	}

	for j := range rlk.Value {
		for k := range rlk.Value[j] {
			if inc, err = readPolys(r, params, &rlk.Value[j][k][0], &rlk.Value[j][k][1]); err != nil {
				return n + inc, err
			}
			n += inc
		}
	}

	return
}

// BinarySize returns the serialized size of the object in bytes.
func (rlk RelinearizationKey) BinarySize() int {
	return objectSize(&rlk.params, &rlk, true)
}

// WriteTo writes the object along with its parameters on an io.Writer.
// It implements the io.WriterTo interface, and will write exactly
// object.BinarySize() bytes on w.
func (rlk RelinearizationKey) WriteTo(w io.Writer) (n int64, err error) {
	return writeObject(w, &rlk.params, &rlk, true)
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface. Returns [ErrMissingContext] if the object
// was written without its parameters.
func (rlk *RelinearizationKey) ReadFrom(r io.Reader) (n int64, err error) {
	var params Parameters
	if params, n, err = readObject(r, nil, rlk); err != nil {
		return
	}
	rlk.params = params
	return
}

// MarshalBinary encodes the object along with its parameters into a binary form
// on a newly allocated slice of bytes.
func (rlk RelinearizationKey) MarshalBinary() (data []byte, err error) {
	return marshal(&rlk.params, &rlk, true)
}

// MarshalBinaryDetached encodes the object without its parameters.
func (rlk RelinearizationKey) MarshalBinaryDetached() (data []byte, err error) {
	return marshal(&rlk.params, &rlk, false)
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (rlk *RelinearizationKey) UnmarshalBinary(data []byte) (err error) {
	_, err = rlk.ReadFrom(buffer.NewBuffer(data))
	return
}

// UnmarshalBinaryWithParameters decodes a slice of bytes generated by
// MarshalBinaryDetached, MarshalBinary or WriteTo on the object.
func (rlk *RelinearizationKey) UnmarshalBinaryWithParameters(params ParameterProvider, data []byte) (err error) {
	var p Parameters
	if p, _, err = readObject(buffer.NewBuffer(data), params.GetRLWEParameters(), rlk); err != nil {
		return
	}
	rlk.params = p
	return
}

func marshal(params *Parameters, obj payload, inline bool) (data []byte, err error) {
	buf := buffer.NewBufferSize(objectSize(params, obj, inline))
	_, err = writeObject(buf, params, obj, inline)
	return buf.Bytes(), err
}
