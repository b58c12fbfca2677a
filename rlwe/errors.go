package rlwe

import (
	"errors"
)

var (
	// ErrParameter is returned when a set of parameters is invalid or unsupported.
	ErrParameter = errors.New("invalid parameters")

	// ErrMissingContext is returned when a key or a ciphertext is decoded
	// without the parameters needed to interpret it.
	ErrMissingContext = errors.New("missing parameters context")
)
