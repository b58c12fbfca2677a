package buffer

import (
	"encoding/binary"
	"unsafe"
)

// WriteAsUint64 casts &T to an *uint64 and writes it to w.
// User must ensure that T can be stored in an uint64.
func WriteAsUint64[T any](w Writer, c T) (n int64, err error) {
	/* #nosec G103 -- behavior and consequences well understood, pointer type cast */
	return WriteUint64(w, *(*uint64)(unsafe.Pointer(&c)))
}

// WriteAsUint32 casts &T to an *uint32 and writes it to w.
// User must ensure that T can be stored in an uint32.
func WriteAsUint32[T any](w Writer, c T) (n int64, err error) {
	/* #nosec G103 -- behavior and consequences well understood, pointer type cast */
	return WriteUint32(w, *(*uint32)(unsafe.Pointer(&c)))
}

// WriteAsUint8 casts &T to an *uint8 and writes it to w.
// User must ensure that T can be stored in an uint8.
func WriteAsUint8[T any](w Writer, c T) (n int64, err error) {
	/* #nosec G103 -- behavior and consequences well understood, pointer type cast */
	return WriteUint8(w, *(*uint8)(unsafe.Pointer(&c)))
}

// WriteAsUint64Slice casts &[]T into *[]uint64 and writes it to w.
// User must ensure that T can be stored in an uint64.
func WriteAsUint64Slice[T any](w Writer, c []T) (n int64, err error) {
	/* #nosec G103 -- behavior and consequences well understood, pointer type cast */
	return WriteUint64Slice(w, *(*[]uint64)(unsafe.Pointer(&c)))
}

// WriteAsUint32Slice casts &[]T into *[]uint32 and writes it to w.
// User must ensure that T can be stored in an uint32.
func WriteAsUint32Slice[T any](w Writer, c []T) (n int64, err error) {
	/* #nosec G103 -- behavior and consequences well understood, pointer type cast */
	return WriteUint32Slice(w, *(*[]uint32)(unsafe.Pointer(&c)))
}

// WriteAsUint8Slice casts &[]T into *[]uint8 and writes it to w.
// User must ensure that T can be stored in an uint8.
func WriteAsUint8Slice[T any](w Writer, c []T) (n int64, err error) {
	/* #nosec G103 -- behavior and consequences well understood, pointer type cast */
	return Write(w, *(*[]uint8)(unsafe.Pointer(&c)))
}

// Write writes a slice of bytes to w.
func Write(w Writer, c []byte) (n int64, err error) {
	nint, err := w.Write(c)
	return int64(nint), err
}

// WriteUint8 writes a byte c to w.
func WriteUint8(w Writer, c uint8) (n int64, err error) {
	return Write(w, []byte{c})
}

// WriteUint32 writes an uint32 c into w.
func WriteUint32(w Writer, c uint32) (n int64, err error) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], c)
	return Write(w, b[:])
}

// WriteUint64 writes an uint64 c into w.
func WriteUint64(w Writer, c uint64) (n int64, err error) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], c)
	return Write(w, b[:])
}

// WriteUint32Slice writes a slice of uint32 c into w.
func WriteUint32Slice(w Writer, c []uint32) (n int64, err error) {
	var inc int64
	for _, ci := range c {
		if inc, err = WriteUint32(w, ci); err != nil {
			return n + inc, err
		}
		n += inc
	}
	return
}

// WriteUint64Slice writes a slice of uint64 c into w.
// Values are written by chunks of at most 1024 elements.
func WriteUint64Slice(w Writer, c []uint64) (n int64, err error) {

	var chunk [1024 << 3]byte

	var inc int64
	for len(c) > 0 {

		m := min(len(c), 1024)

		for i := 0; i < m; i++ {
			binary.LittleEndian.PutUint64(chunk[i<<3:], c[i])
		}

		if inc, err = Write(w, chunk[:m<<3]); err != nil {
			return n + inc, err
		}

		n += inc

		c = c[m:]
	}

	return
}
