// Orchard key hierarchy.
//
// An Orchard spending key is 32 opaque bytes; its full viewing key
// (ak || nk || rivk, 96 bytes) and incoming viewing key (dk || ivk, 64
// bytes) are derived one-way through the native backend. Unlike Sapling,
// every diversifier index yields a valid Orchard receiver.
package keys

import (
	"fmt"

	blake2b "github.com/minio/blake2b-simd"

	"github.com/suffix-labs/zcash-keys/pkg/address"
	"github.com/suffix-labs/zcash-keys/pkg/backend"
	"github.com/suffix-labs/zcash-keys/pkg/bech32"
)

// Bech32m HRPs for Orchard spending key text encodings.
const (
	hrpOrchardSKMain = "secret-orchard-sk-main"
	hrpOrchardSKTest = "secret-orchard-sk-test"
)

// Scope distinguishes externally shared receivers from internal
// (change/auto-shielding) receivers.
type Scope uint8

const (
	External Scope = iota
	Internal
)

func (s Scope) String() string {
	if s == Internal {
		return "internal"
	}
	return "external"
}

// OrchardSpendingKey is the secret authority to spend Orchard notes.
type OrchardSpendingKey struct {
	net address.Network
	sk  [32]byte
}

// NewOrchardSpendingKey wraps raw spending key bytes. Key material that
// the backend rejects (out of range) is an *backend.InvalidKeyError.
func NewOrchardSpendingKey(net address.Network, sk [32]byte) (OrchardSpendingKey, error) {
	// Validate eagerly so a bad import fails at construction, not at
	// first use.
	if _, err := backend.Default().OrchardFVKFromSpendingKey(sk); err != nil {
		return OrchardSpendingKey{}, err
	}
	return OrchardSpendingKey{net: net, sk: sk}, nil
}

// OrchardSpendingKeyFromBytes wraps a byte slice; a wrong length is a
// caller contract violation.
func OrchardSpendingKeyFromBytes(net address.Network, b []byte) (OrchardSpendingKey, error) {
	if len(b) != backend.OrchardSpendingKeyLen {
		return OrchardSpendingKey{}, fmt.Errorf("%w: orchard spending key must be %d bytes, got %d",
			address.ErrInvalidArgument, backend.OrchardSpendingKeyLen, len(b))
	}
	var sk [32]byte
	copy(sk[:], b)
	return NewOrchardSpendingKey(net, sk)
}

// DecodeOrchardSpendingKey parses the secret-orchard-sk-* text encoding.
func DecodeOrchardSpendingKey(s string) (OrchardSpendingKey, error) {
	hrp, data, err := bech32.DecodeM(s)
	if err != nil {
		return OrchardSpendingKey{}, err
	}
	var net address.Network
	switch hrp {
	case hrpOrchardSKMain:
		net = address.Mainnet
	case hrpOrchardSKTest:
		net = address.Testnet
	default:
		return OrchardSpendingKey{}, &address.UnrecognizedError{Prefix: hrp}
	}
	if len(data) != backend.OrchardSpendingKeyLen {
		return OrchardSpendingKey{}, &address.ParseError{
			Message: fmt.Sprintf("orchard spending key payload must be %d bytes, got %d", backend.OrchardSpendingKeyLen, len(data)),
		}
	}
	var sk [32]byte
	copy(sk[:], data)
	return NewOrchardSpendingKey(net, sk)
}

func (k OrchardSpendingKey) Network() address.Network { return k.net }

// Bytes returns the raw spending key. The caller owns secure erasure of
// any copies it makes.
func (k OrchardSpendingKey) Bytes() [32]byte { return k.sk }

// FullViewingKey derives the external-scope full viewing key.
func (k OrchardSpendingKey) FullViewingKey() (OrchardFullViewingKey, error) {
	fvk, err := backend.Default().OrchardFVKFromSpendingKey(k.sk)
	if err != nil {
		return OrchardFullViewingKey{}, err
	}
	return OrchardFullViewingKey{net: k.net, fvk: fvk, scope: External}, nil
}

// String returns the Bech32m secret-orchard-sk-* encoding.
func (k OrchardSpendingKey) String() string {
	hrp := hrpOrchardSKMain
	if k.net == address.Testnet {
		hrp = hrpOrchardSKTest
	}
	s, err := bech32.EncodeM(hrp, k.sk[:])
	if err != nil {
		panic(err) // fixed hrp and length
	}
	return s
}

// OrchardFullViewingKey can detect incoming and outgoing Orchard
// payments but cannot spend. It never reveals its spending key.
type OrchardFullViewingKey struct {
	net   address.Network
	fvk   [96]byte
	scope Scope
}

// OrchardFullViewingKeyFromBytes wraps a raw 96-byte encoding.
func OrchardFullViewingKeyFromBytes(net address.Network, b []byte) (OrchardFullViewingKey, error) {
	if len(b) != backend.OrchardFVKLen {
		return OrchardFullViewingKey{}, fmt.Errorf("%w: orchard full viewing key must be %d bytes, got %d",
			address.ErrInvalidArgument, backend.OrchardFVKLen, len(b))
	}
	var fvk [96]byte
	copy(fvk[:], b)
	if _, err := backend.Default().OrchardIVKFromFVK(fvk); err != nil {
		return OrchardFullViewingKey{}, err
	}
	return OrchardFullViewingKey{net: net, fvk: fvk, scope: External}, nil
}

func (k OrchardFullViewingKey) Network() address.Network { return k.net }
func (k OrchardFullViewingKey) Scope() Scope             { return k.scope }

// Bytes returns the raw ak || nk || rivk encoding.
func (k OrchardFullViewingKey) Bytes() [96]byte { return k.fvk }

// Element returns the unified-container element for this key.
func (k OrchardFullViewingKey) Element() address.OrchardFVKElement {
	return address.OrchardFVKElement(k.fvk)
}

// IncomingViewingKey derives the incoming viewing key for this key's
// scope.
func (k OrchardFullViewingKey) IncomingViewingKey() (OrchardIncomingViewingKey, error) {
	ivk, err := backend.Default().OrchardIVKFromFVK(k.fvk)
	if err != nil {
		return OrchardIncomingViewingKey{}, err
	}
	return OrchardIncomingViewingKey{net: k.net, ivk: ivk}, nil
}

// orchardInternalDomain is the PRF^expand domain byte for internal-scope
// rivk derivation (ZIP 32, Orchard internal key derivation).
const orchardInternalDomain = 0x83

// Internal derives the internal-scope full viewing key used for change
// and auto-shielding. Internal receivers are not diversifier-linkable to
// the externally shared ones: ak and nk carry over, but rivk (and with
// it dk and ivk) is re-derived through a domain-separated PRF^expand.
func (k OrchardFullViewingKey) Internal() OrchardFullViewingKey {
	var rivk [32]byte
	copy(rivk[:], k.fvk[64:])
	expanded := prfExpand(rivk[:], orchardInternalDomain, k.fvk[:32], k.fvk[32:64])
	repr, err := backend.Default().ToScalarRepr(expanded)
	if err != nil {
		panic(err) // expansion of a validated key
	}

	internal := k
	internal.scope = Internal
	copy(internal.fvk[64:], repr[:])
	return internal
}

// DefaultAddress returns the receiver at the all-zero diversifier index
// wrapped as a single-receiver unified address.
func (k OrchardFullViewingKey) DefaultAddress() (*address.OrchardAddress, error) {
	ivk, err := k.IncomingViewingKey()
	if err != nil {
		return nil, err
	}
	r, err := ivk.CreateDefaultReceiver()
	if err != nil {
		return nil, err
	}
	return address.NewOrchardAddress(k.net, [43]byte(r)), nil
}

// OrchardIncomingViewingKey derives receivers and recovers their
// diversifier indices.
type OrchardIncomingViewingKey struct {
	net address.Network
	ivk [64]byte
}

// OrchardIncomingViewingKeyFromBytes wraps a raw dk || ivk encoding.
func OrchardIncomingViewingKeyFromBytes(net address.Network, b []byte) (OrchardIncomingViewingKey, error) {
	if len(b) != backend.OrchardIVKLen {
		return OrchardIncomingViewingKey{}, fmt.Errorf("%w: orchard incoming viewing key must be %d bytes, got %d",
			address.ErrInvalidArgument, backend.OrchardIVKLen, len(b))
	}
	var ivk [64]byte
	copy(ivk[:], b)
	return OrchardIncomingViewingKey{net: net, ivk: ivk}, nil
}

func (k OrchardIncomingViewingKey) Network() address.Network { return k.net }

// Bytes returns the raw dk || ivk encoding.
func (k OrchardIncomingViewingKey) Bytes() [64]byte { return k.ivk }

// Element returns the unified-container element for this key.
func (k OrchardIncomingViewingKey) Element() address.OrchardIVKElement {
	return address.OrchardIVKElement(k.ivk)
}

// CreateReceiver produces the receiver for a diversifier index. Orchard
// admits every index.
func (k OrchardIncomingViewingKey) CreateReceiver(index DiversifierIndex) (address.OrchardReceiver, error) {
	r, err := backend.Default().OrchardReceiver(k.ivk, index)
	if err != nil {
		return address.OrchardReceiver{}, err
	}
	return address.OrchardReceiver(r), nil
}

// CreateDefaultReceiver produces the receiver at the all-zero index.
func (k OrchardIncomingViewingKey) CreateDefaultReceiver() (address.OrchardReceiver, error) {
	return k.CreateReceiver(DiversifierIndex{})
}

// CheckReceiver reports whether this key's authority produced the
// receiver. It is a trial decryption of the diversifier, not a search.
func (k OrchardIncomingViewingKey) CheckReceiver(r address.OrchardReceiver) bool {
	_, owned, err := backend.Default().OrchardDecryptDiversifier(k.ivk, r)
	return err == nil && owned
}

// TryGetDiversifierIndex recovers the index that produced the receiver
// under this key; ok is false when the receiver belongs to a different
// key.
func (k OrchardIncomingViewingKey) TryGetDiversifierIndex(r address.OrchardReceiver) (DiversifierIndex, bool) {
	index, owned, err := backend.Default().OrchardDecryptDiversifier(k.ivk, r)
	if err != nil || !owned {
		return DiversifierIndex{}, false
	}
	return DiversifierIndex(index), true
}

// prfExpand is PRF^expand from the protocol spec: a BLAKE2b-512 with
// personalization "Zcash_ExpandSeed" over sk || t, where t begins with a
// domain separation byte.
func prfExpand(sk []byte, domain byte, data ...[]byte) [64]byte {
	h, err := blake2b.New(&blake2b.Config{Size: 64, Person: []byte("Zcash_ExpandSeed")})
	if err != nil {
		panic(err)
	}
	h.Write(sk)
	h.Write([]byte{domain})
	for _, d := range data {
		h.Write(d)
	}
	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}
