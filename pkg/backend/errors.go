package backend

import (
	"errors"
	"fmt"
)

// ErrInvalidDiversifier is returned by SaplingReceiver when the given
// diversifier index does not map onto the curve. Callers retry with
// another index (or use SaplingFindReceiver).
var ErrInvalidDiversifier = errors.New("backend: diversifier index yields no valid receiver")

// InvalidKeyError is returned when key material fails the backend's
// group-membership or range checks. It is distinct from the text-codec
// decode errors: a string whose checksum fails never reaches the
// backend.
type InvalidKeyError struct {
	Op      string // Backend operation that rejected the input
	Message string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("backend: %s: invalid key: %s", e.Op, e.Message)
}
