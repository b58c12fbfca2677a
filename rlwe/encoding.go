package rlwe

import (
	"bufio"
	"fmt"
	"io"

	"github.com/google/go-cmp/cmp"

	"github.com/sealedhe/sealed/utils/buffer"
)

// Encoding stores the parameters of the base-b fixed-point
// representation of a value in a plaintext polynomial.
// Plaintexts and ciphertexts can only be combined if their
// Encoding are equal.
type Encoding struct {
	// Base is the radix of the digit expansion.
	Base uint64

	// Signed selects signed digits. With an odd base the digits are balanced
	// in [-(b-1)/2, (b-1)/2], with an even base the digits of |v| are taken
	// with the sign of v. Unsigned digits are in [0, b-1].
	Signed bool

	// IntegralDigits is the maximum number of digits of the integral part.
	IntegralDigits int

	// FractionalDigits is the number of digits of the fractional part.
	// It is zero for integers.
	FractionalDigits int
}

// DefaultEncoding returns the default [Encoding]: signed base 2
// with 64 integral and 32 fractional digits.
func DefaultEncoding() Encoding {
	return Encoding{
		Base:             2,
		Signed:           true,
		IntegralDigits:   64,
		FractionalDigits: 32,
	}
}

// Validate checks that the encoding can be used with the given parameters.
// The integral digits occupy the coefficients [0, N/2) and the fractional
// digits the coefficients [N/2, N) of the plaintext.
func (e Encoding) Validate(params ParameterProvider) (err error) {

	p := params.GetRLWEParameters()

	if e.Base < 2 || e.Base >= p.T() {
		return fmt.Errorf("%w: invalid encoding: Base=%d is not in [2, T=%d)", ErrParameter, e.Base, p.T())
	}

	if half := p.N() >> 1; e.IntegralDigits < 1 || e.IntegralDigits > half {
		return fmt.Errorf("%w: invalid encoding: IntegralDigits=%d is not in [1, N/2=%d]", ErrParameter, e.IntegralDigits, half)
	}

	if half := p.N() >> 1; e.FractionalDigits < 0 || e.FractionalDigits > half {
		return fmt.Errorf("%w: invalid encoding: FractionalDigits=%d is not in [0, N/2=%d]", ErrParameter, e.FractionalDigits, half)
	}

	return
}

// Equal returns true if the receiver and other are identical.
func (e Encoding) Equal(other *Encoding) bool {
	return other != nil && cmp.Equal(e, *other)
}

func (e Encoding) String() string {
	sign := "unsigned"
	if e.Signed {
		sign = "signed"
	}
	return fmt.Sprintf("{base %d, %s, %d integral, %d fractional}", e.Base, sign, e.IntegralDigits, e.FractionalDigits)
}

// BinarySize returns the serialized size of the object in bytes.
func (e Encoding) BinarySize() int {
	return 8 + 1 + 4 + 4
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (e Encoding) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64

		if inc, err = buffer.WriteUint64(w, e.Base); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteUint64: %w", err)
		}

		n += inc

		if inc, err = buffer.WriteAsUint8[bool](w, e.Signed); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteAsUint8[bool]: %w", err)
		}

		n += inc

		if inc, err = buffer.WriteAsUint32[int](w, e.IntegralDigits); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteAsUint32[int]: %w", err)
		}

		n += inc

		if inc, err = buffer.WriteAsUint32[int](w, e.FractionalDigits); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteAsUint32[int]: %w", err)
		}

		n += inc

		return n, w.Flush()

	default:
		return e.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
func (e *Encoding) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var inc int64

		if inc, err = buffer.ReadUint64(r, &e.Base); err != nil {
			return n + inc, fmt.Errorf("buffer.ReadUint64: %w", err)
		}

		n += inc

		var signed uint8
		if inc, err = buffer.ReadUint8(r, &signed); err != nil {
			return n + inc, fmt.Errorf("buffer.ReadUint8: %w", err)
		}

		n += inc

		e.Signed = signed == 1

		var integral, fractional uint32

		if inc, err = buffer.ReadUint32(r, &integral); err != nil {
			return n + inc, fmt.Errorf("buffer.ReadUint32: %w", err)
		}

		n += inc

		if inc, err = buffer.ReadUint32(r, &fractional); err != nil {
			return n + inc, fmt.Errorf("buffer.ReadUint32: %w", err)
		}

		n += inc

		e.IntegralDigits = int(integral)
		e.FractionalDigits = int(fractional)

		return

	default:
		return e.ReadFrom(bufio.NewReader(r))
	}
}
