// Package structs implements generic vectors of components along with their binary serialization.
package structs

// Equatable is implemented by components that can be compared for equality.
type Equatable[T any] interface {
	Equal(*T) bool
}

// Cloner is implemented by components that can be deep-copied.
type Cloner[V any] interface {
	Clone() *V
}

// BinarySizer is implemented by components that know their serialized size.
type BinarySizer interface {
	BinarySize() int
}
