package bfv

import (
	"errors"
)

var (
	// ErrEncodingOverflow is returned when a value does not fit in the digits of an encoding.
	ErrEncodingOverflow = errors.New("encoding overflow")

	// ErrTypeIncompatibility is returned when operands carry different encodings.
	ErrTypeIncompatibility = errors.New("incompatible operand types")

	// ErrInvalidExponent is returned by [Evaluator.Power] for exponents smaller than one.
	ErrInvalidExponent = errors.New("invalid exponent")
)
