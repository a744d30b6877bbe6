// Package backend defines the boundary to the native crypto library that
// performs shielded-pool curve arithmetic.
//
// The codec and derivation layers above this package only marshal
// fixed-size buffers in and out; the actual Pallas/Jubjub group
// operations (deriving viewing keys from key material, computing raw
// receivers, decrypting diversifiers) happen behind the Backend
// interface. A cgo bridge to librustzcash can satisfy the interface
// unchanged; the in-process SoftwareBackend keeps the rest of the
// library testable without linking a native library.
//
// Operation signatures mirror the native FFI surface: every call is a
// pure function over fixed-size byte buffers, reentrant and free of side
// effects, so implementations need no synchronization.
package backend

// Buffer sizes exchanged with the backend.
const (
	OrchardSpendingKeyLen = 32
	OrchardFVKLen         = 96 // ak || nk || rivk
	OrchardIVKLen         = 64 // dk || ivk
	SaplingSpendingKeyLen = 32
	SaplingExpandedSKLen  = 96 // ask || nsk || ovk
	SaplingFVKLen         = 96 // ak || nk || ovk
	SaplingIVKLen         = 32
	DiversifierKeyLen     = 32
	DiversifierIndexLen   = 11
	ReceiverLen           = 43 // diversifier || pk_d
)

// Backend is the narrow, swappable interface to the native crypto
// library.
//
// Key-material inputs that fail the backend's group or range checks
// yield an *InvalidKeyError. Ownership checks (diversifier decryption)
// distinguish "valid inputs, not my receiver", reported via the bool
// result, from invalid inputs, which are errors.
type Backend interface {
	// OrchardFVKFromSpendingKey derives the 96-byte full viewing key
	// (ak || nk || rivk) from a 32-byte Orchard spending key.
	OrchardFVKFromSpendingKey(sk [32]byte) ([96]byte, error)

	// OrchardIVKFromFVK derives the 64-byte incoming viewing key
	// (dk || ivk) from a full viewing key.
	OrchardIVKFromFVK(fvk [96]byte) ([64]byte, error)

	// OrchardReceiver computes the 43-byte raw receiver for a
	// diversifier index under an incoming viewing key. Every Orchard
	// index yields a valid receiver.
	OrchardReceiver(ivk [64]byte, index [11]byte) ([43]byte, error)

	// OrchardDecryptDiversifier recovers the diversifier index that
	// produced receiver under ivk. The bool result is false when the
	// inputs are valid but the receiver was not produced by this key.
	OrchardDecryptDiversifier(ivk [64]byte, receiver [43]byte) ([11]byte, bool, error)

	// ToScalarRepr reduces 64 uniform bytes to the canonical 32-byte
	// scalar representative.
	ToScalarRepr(uniform [64]byte) ([32]byte, error)

	// SaplingExpandSpendingKey expands a 32-byte Sapling spending key
	// into ask || nsk || ovk.
	SaplingExpandSpendingKey(sk [32]byte) ([96]byte, error)

	// SaplingFVKFromExpanded computes the full viewing key
	// (ak || nk || ovk) from an expanded spending key.
	SaplingFVKFromExpanded(expsk [96]byte) ([96]byte, error)

	// SaplingIVKFromFVK derives the 32-byte incoming viewing key from
	// the ak and nk components of a full viewing key.
	SaplingIVKFromFVK(ak, nk [32]byte) ([32]byte, error)

	// SaplingReceiver computes the receiver for exactly the given
	// index. Not every Sapling index yields a valid receiver; invalid
	// indices return ErrInvalidDiversifier.
	SaplingReceiver(ivk, dk [32]byte, index [11]byte) ([43]byte, error)

	// SaplingFindReceiver scans forward from index to the first valid
	// diversifier and returns the index actually used along with its
	// receiver.
	SaplingFindReceiver(ivk, dk [32]byte, index [11]byte) ([11]byte, [43]byte, error)

	// SaplingDecryptDiversifier recovers the diversifier index that
	// produced receiver under (ivk, dk); false when the receiver is
	// valid but belongs to a different key.
	SaplingDecryptDiversifier(ivk, dk [32]byte, receiver [43]byte) ([11]byte, bool, error)
}

// defaultBackend is the process-wide backend used when callers do not
// inject one. It defaults to the deterministic software implementation.
var defaultBackend Backend = NewSoftwareBackend()

// Default returns the process-wide backend.
func Default() Backend { return defaultBackend }

// SetDefault replaces the process-wide backend (e.g. with a cgo bridge
// to the native library). Intended for program initialization, before
// concurrent use.
func SetDefault(b Backend) {
	if b == nil {
		panic("backend: SetDefault(nil)")
	}
	defaultBackend = b
}
