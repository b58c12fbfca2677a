package ring

import (
	"bufio"
	"fmt"
	"io"

	"github.com/sealedhe/sealed/utils/buffer"
)

// Poly is the coefficient vector of a polynomial of Z_q[X]/(X^N+1)
// for a single modulus q.
type Poly []uint64

// NewPoly allocates a new [Poly] of N zero coefficients.
func NewPoly(N int) Poly {
	return make([]uint64, N)
}

// N returns the number of coefficients of the receiver.
func (p Poly) N() int {
	return len(p)
}

// Clone returns a deep copy of the receiver.
func (p Poly) Clone() *Poly {
	pCpy := make(Poly, len(p))
	copy(pCpy, p)
	return &pCpy
}

// Equal returns true if the receiver and other have the same coefficients.
func (p Poly) Equal(other *Poly) bool {
	if other == nil || len(p) != len(*other) {
		return false
	}
	return buffer.EqualAsUint64Slice([]uint64(p), []uint64(*other))
}

// BinarySize returns the serialized size of the object in bytes.
func (p Poly) BinarySize() int {
	return 8 + 8*len(p)
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (p Poly) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64
		if inc, err = buffer.WriteAsUint64[int](w, len(p)); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteAsUint64[int]: %w", err)
		}

		n += inc

		if inc, err = buffer.WriteUint64Slice(w, p); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteUint64Slice: %w", err)
		}

		n += inc

		return n, w.Flush()

	default:
		return p.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
func (p *Poly) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var inc int64
		var N int
		if inc, err = buffer.ReadAsUint64[int](r, &N); err != nil {
			return n + inc, fmt.Errorf("buffer.ReadAsUint64[int]: %w", err)
		}

		n += inc

		if N < 0 || N > 1<<20 {
			return n, fmt.Errorf("invalid polynomial degree: %d", N)
		}

		if cap(*p) < N {
			*p = make([]uint64, N)
		}

		*p = (*p)[:N]

		if inc, err = buffer.ReadUint64Slice(r, *p); err != nil {
			return n + inc, fmt.Errorf("buffer.ReadUint64Slice: %w", err)
		}

		return n + inc, nil

	default:
		return p.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (p Poly) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(p.BinarySize())
	_, err = p.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (p *Poly) UnmarshalBinary(data []byte) (err error) {
	_, err = p.ReadFrom(buffer.NewBuffer(data))
	return
}
