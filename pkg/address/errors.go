// Package address error types.
//
// Decode failures on external input are returned as these typed errors
// (or as the underlying codec's error types); they are never panics.
// Violations of a constructor's contract by the calling code are the
// ErrInvalidArgument family instead.
package address

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument tags contract violations by the caller (empty
// element set, duplicate type codes, wrong buffer lengths). These
// indicate a programming bug, not bad user input, and are distinct from
// decode errors.
var ErrInvalidArgument = errors.New("invalid argument")

// ParseError is returned when a well-recognized encoding carries a
// structurally invalid payload (wrong length, trailing bytes).
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return "address: " + e.Message
}

// UnrecognizedError is returned when no known prefix or version matches
// the input.
type UnrecognizedError struct {
	Prefix string
}

func (e *UnrecognizedError) Error() string {
	if e.Prefix == "" {
		return "address: empty input"
	}
	return fmt.Sprintf("address: unrecognized prefix %q", e.Prefix)
}

// TypeError is returned when a unified viewing key carries an element
// type code the decoder cannot interpret. Viewing keys require full
// cryptographic interpretation of every element, so unknown codes are
// rejected rather than preserved (unlike unified addresses).
type TypeError struct {
	TypeCode byte
	Kind     ContainerKind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("address: unsupported element type 0x%02x in %s", e.TypeCode, e.Kind)
}

// DuplicateTypeError is returned when a decoded container carries two
// elements with the same type code.
type DuplicateTypeError struct {
	TypeCode byte
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("address: duplicate element type 0x%02x", e.TypeCode)
}
