package buffer

import (
	"encoding"
	"io"
	"reflect"
	"slices"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// BinarySerializer is a testing interface for byte encoding and decoding.
type BinarySerializer interface {
	BinarySize() int
	io.WriterTo
	io.ReaderFrom
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// RequireSerializerCorrect tests that:
//   - input and output implement BinarySerializer
//   - input.WriteTo(io.Writer) writes a number of bytes on the writer equal to both the number of bytes returned and input.BinarySize()
//   - output.ReadFrom(io.Reader) reads a number of bytes on the reader equal to the number of bytes written using input.WriteTo(io.Writer)
//   - input.MarshalBinary() and output.MarshalBinary() produce identical bytes
//   - output.UnmarshalBinary(input.MarshalBinary()) reads back the same object
//
// The input must be a pointer to a struct or a slice-based type.
func RequireSerializerCorrect(t *testing.T, input BinarySerializer) {

	data := NewBufferSize(input.BinarySize())

	// Check io.Writer
	bytesWritten, err := input.WriteTo(data)
	require.NoError(t, err)
	require.Equal(t, input.BinarySize(), int(bytesWritten))

	output := reflect.New(reflect.TypeOf(input).Elem()).Interface().(BinarySerializer)

	// Check io.Reader
	bytesRead, err := output.ReadFrom(NewBuffer(data.Bytes()))
	require.NoError(t, err)
	require.Equal(t, bytesWritten, bytesRead)

	// Check encoding.BinaryMarshaler
	data0, err := input.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, data.Bytes(), data0)

	data1, err := output.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, data0, data1)

	// Check encoding.BinaryUnmarshaler
	output = reflect.New(reflect.TypeOf(input).Elem()).Interface().(BinarySerializer)
	require.NoError(t, output.UnmarshalBinary(data0))

	data2, err := output.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, data0, data2)
}

// EqualAsUint64Slice casts &[]T into *[]uint64 and checks equality.
func EqualAsUint64Slice[T any](a, b []T) bool {
	/* #nosec G103 -- behavior and consequences well understood, pointer type cast */
	return slices.Equal(*(*[]uint64)(unsafe.Pointer(&a)), *(*[]uint64)(unsafe.Pointer(&b)))
}

// EqualAsUint32Slice casts &[]T into *[]uint32 and checks equality.
func EqualAsUint32Slice[T any](a, b []T) bool {
	/* #nosec G103 -- behavior and consequences well understood, pointer type cast */
	return slices.Equal(*(*[]uint32)(unsafe.Pointer(&a)), *(*[]uint32)(unsafe.Pointer(&b)))
}

// EqualAsUint8Slice casts &[]T into *[]uint8 and checks equality.
func EqualAsUint8Slice[T any](a, b []T) bool {
	/* #nosec G103 -- behavior and consequences well understood, pointer type cast */
	return slices.Equal(*(*[]uint8)(unsafe.Pointer(&a)), *(*[]uint8)(unsafe.Pointer(&b)))
}
