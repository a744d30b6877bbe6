// Package bech32 error types.
//
// Decoding malformed external input returns a *DecodeError carrying a
// structured code, never a panic, so callers (UI, CLI, URI parsers) can map
// failures to user-facing validation messages without string matching.
package bech32

import "fmt"

// ErrorCode identifies a specific decode failure mode.
//
// Codes are surfaced in pipeline order: separator location, character
// validation, checksum verification, and finally bit regrouping. A string
// that fails an earlier stage never reports a later stage's code.
type ErrorCode string

// Error codes returned by Decode and friends.
const (
	CodeNoSeparator      ErrorCode = "NO_SEPARATOR"      // No '1' separator in the string
	CodeInvalidCharacter ErrorCode = "INVALID_CHARACTER" // Unknown character, or mixed upper/lower case
	CodeInvalidChecksum  ErrorCode = "INVALID_CHECKSUM"  // Checksum verification failed for the selected variant
	CodeBadPadding       ErrorCode = "BAD_PADDING"       // Non-zero bits in the final padding group
	CodeInvalidLength    ErrorCode = "INVALID_LENGTH"    // Data section too short, or an impossible group count
	CodeBufferTooSmall   ErrorCode = "BUFFER_TOO_SMALL"  // Caller-provided output buffer cannot hold the result
	CodeInvalidHRP       ErrorCode = "INVALID_HRP"       // Human-readable part empty or contains out-of-range characters
)

// DecodeError is the error type returned for malformed Bech32/Bech32m input.
type DecodeError struct {
	Code    ErrorCode // Structured failure code
	Message string    // Human-readable detail
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("bech32: %s: %s", e.Code, e.Message)
}

func errorf(code ErrorCode, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Code: code, Message: fmt.Sprintf(format, args...)}
}
