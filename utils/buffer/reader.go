package buffer

import (
	"encoding/binary"
	"fmt"
	"io"
	"unsafe"
)

// ReadAsUint64 reads an uint64 from r and stores the result into c with pointer type casting into type T.
func ReadAsUint64[T any](r Reader, c *T) (n int64, err error) {
	/* #nosec G103 -- behavior and consequences well understood, pointer type cast */
	return ReadUint64(r, (*uint64)(unsafe.Pointer(c)))
}

// ReadAsUint32 reads an uint32 from r and stores the result into c with pointer type casting into type T.
func ReadAsUint32[T any](r Reader, c *T) (n int64, err error) {
	/* #nosec G103 -- behavior and consequences well understood, pointer type cast */
	return ReadUint32(r, (*uint32)(unsafe.Pointer(c)))
}

// ReadAsUint8 reads an uint8 from r and stores the result into c with pointer type casting into type T.
func ReadAsUint8[T any](r Reader, c *T) (n int64, err error) {
	/* #nosec G103 -- behavior and consequences well understood, pointer type cast */
	return ReadUint8(r, (*uint8)(unsafe.Pointer(c)))
}

// ReadAsUint64Slice reads a slice of uint64 from r and stores the result into c with pointer type casting into type T.
func ReadAsUint64Slice[T any](r Reader, c []T) (n int64, err error) {
	/* #nosec G103 -- behavior and consequences well understood, pointer type cast */
	return ReadUint64Slice(r, *(*[]uint64)(unsafe.Pointer(&c)))
}

// ReadAsUint32Slice reads a slice of uint32 from r and stores the result into c with pointer type casting into type T.
func ReadAsUint32Slice[T any](r Reader, c []T) (n int64, err error) {
	/* #nosec G103 -- behavior and consequences well understood, pointer type cast */
	return ReadUint32Slice(r, *(*[]uint32)(unsafe.Pointer(&c)))
}

// ReadAsUint8Slice reads a slice of uint8 from r and stores the result into c with pointer type casting into type T.
func ReadAsUint8Slice[T any](r Reader, c []T) (n int64, err error) {
	/* #nosec G103 -- behavior and consequences well understood, pointer type cast */
	return Read(r, *(*[]uint8)(unsafe.Pointer(&c)))
}

// Read reads exactly len(c) bytes from r into c.
func Read(r Reader, c []byte) (n int64, err error) {
	nint, err := io.ReadFull(r, c)
	return int64(nint), err
}

// ReadUint8 reads a byte from r and stores the result into *c.
func ReadUint8(r Reader, c *uint8) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint8: c is nil")
	}

	var b [1]byte
	if n, err = Read(r, b[:]); err != nil {
		return
	}

	*c = b[0]

	return
}

// ReadUint32 reads an uint32 from r and stores the result into *c.
func ReadUint32(r Reader, c *uint32) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint32: c is nil")
	}

	var b [4]byte
	if n, err = Read(r, b[:]); err != nil {
		return
	}

	*c = binary.LittleEndian.Uint32(b[:])

	return
}

// ReadUint64 reads an uint64 from r and stores the result into *c.
func ReadUint64(r Reader, c *uint64) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint64: c is nil")
	}

	var b [8]byte
	if n, err = Read(r, b[:]); err != nil {
		return
	}

	*c = binary.LittleEndian.Uint64(b[:])

	return
}

// ReadUint32Slice reads a slice of uint32 from r and stores the result into c.
func ReadUint32Slice(r Reader, c []uint32) (n int64, err error) {
	var inc int64
	for i := range c {
		if inc, err = ReadUint32(r, &c[i]); err != nil {
			return n + inc, err
		}
		n += inc
	}
	return
}

// ReadUint64Slice reads a slice of uint64 from r and stores the result into c.
// Values are read by chunks of at most 1024 elements.
func ReadUint64Slice(r Reader, c []uint64) (n int64, err error) {

	var chunk [1024 << 3]byte

	var inc int64
	for len(c) > 0 {

		m := min(len(c), 1024)

		if inc, err = Read(r, chunk[:m<<3]); err != nil {
			return n + inc, err
		}

		n += inc

		for i := 0; i < m; i++ {
			c[i] = binary.LittleEndian.Uint64(chunk[i<<3:])
		}

		c = c[m:]
	}

	return
}
