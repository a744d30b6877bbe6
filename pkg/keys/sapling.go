// Sapling key hierarchy.
//
// Sapling spending authority expands into ask || nsk || ovk; the full
// viewing key is ak || nk || ovk and, together with the diversifier key
// dk, forms the diversifiable full viewing key that unified viewing keys
// carry. Receiver creation can fail for a given diversifier index
// (roughly half of all diversifiers do not map onto the curve), so
// callers either retry or use FindReceiver.
package keys

import (
	"fmt"

	"github.com/suffix-labs/zcash-keys/pkg/address"
	"github.com/suffix-labs/zcash-keys/pkg/backend"
)

// SaplingExpandedSpendingKey is ask || nsk || ovk, 96 bytes.
type SaplingExpandedSpendingKey struct {
	net   address.Network
	expsk [96]byte
}

// ExpandSaplingSpendingKey expands a 32-byte Sapling spending key.
func ExpandSaplingSpendingKey(net address.Network, sk [32]byte) (SaplingExpandedSpendingKey, error) {
	expsk, err := backend.Default().SaplingExpandSpendingKey(sk)
	if err != nil {
		return SaplingExpandedSpendingKey{}, err
	}
	return SaplingExpandedSpendingKey{net: net, expsk: expsk}, nil
}

// SaplingExpandedSpendingKeyFromBytes wraps an already-expanded 96-byte
// ask || nsk || ovk key, as carried by extended-key encodings.
func SaplingExpandedSpendingKeyFromBytes(net address.Network, b []byte) (SaplingExpandedSpendingKey, error) {
	if len(b) != 96 {
		return SaplingExpandedSpendingKey{}, fmt.Errorf(
			"%w: expanded spending key must be 96 bytes, got %d", address.ErrInvalidArgument, len(b))
	}
	var k SaplingExpandedSpendingKey
	k.net = net
	copy(k.expsk[:], b)
	return k, nil
}

func (k SaplingExpandedSpendingKey) Network() address.Network { return k.net }

// Bytes returns the raw ask || nsk || ovk encoding.
func (k SaplingExpandedSpendingKey) Bytes() [96]byte { return k.expsk }

// FullViewingKey derives the full viewing key.
func (k SaplingExpandedSpendingKey) FullViewingKey() (SaplingFullViewingKey, error) {
	fvk, err := backend.Default().SaplingFVKFromExpanded(k.expsk)
	if err != nil {
		return SaplingFullViewingKey{}, err
	}
	return SaplingFullViewingKey{net: k.net, fvk: fvk}, nil
}

// SaplingFullViewingKey is ak || nk || ovk, 96 bytes.
type SaplingFullViewingKey struct {
	net address.Network
	fvk [96]byte
}

// SaplingFullViewingKeyFromBytes wraps a raw 96-byte encoding.
func SaplingFullViewingKeyFromBytes(net address.Network, b []byte) (SaplingFullViewingKey, error) {
	if len(b) != backend.SaplingFVKLen {
		return SaplingFullViewingKey{}, fmt.Errorf("%w: sapling full viewing key must be %d bytes, got %d",
			address.ErrInvalidArgument, backend.SaplingFVKLen, len(b))
	}
	var fvk [96]byte
	copy(fvk[:], b)
	return SaplingFullViewingKey{net: net, fvk: fvk}, nil
}

func (k SaplingFullViewingKey) Network() address.Network { return k.net }

// Bytes returns the raw ak || nk || ovk encoding.
func (k SaplingFullViewingKey) Bytes() [96]byte { return k.fvk }

// AK returns the spend validating key component.
func (k SaplingFullViewingKey) AK() [32]byte {
	var ak [32]byte
	copy(ak[:], k.fvk[:32])
	return ak
}

// NK returns the nullifier deriving key component.
func (k SaplingFullViewingKey) NK() [32]byte {
	var nk [32]byte
	copy(nk[:], k.fvk[32:64])
	return nk
}

// OVK returns the outgoing viewing key component.
func (k SaplingFullViewingKey) OVK() [32]byte {
	var ovk [32]byte
	copy(ovk[:], k.fvk[64:])
	return ovk
}

// WithDiversifierKey pairs the full viewing key with its diversifier
// key, forming the diversifiable full viewing key.
func (k SaplingFullViewingKey) WithDiversifierKey(dk [32]byte) SaplingDiversifiableFullViewingKey {
	return SaplingDiversifiableFullViewingKey{fvk: k, dk: dk}
}

// SaplingDiversifiableFullViewingKey is the 128-byte fvk || dk pairing
// that appears in unified full viewing keys.
type SaplingDiversifiableFullViewingKey struct {
	fvk SaplingFullViewingKey
	dk  [32]byte
}

// SaplingDFVKFromBytes wraps a raw 128-byte ak || nk || ovk || dk
// encoding.
func SaplingDFVKFromBytes(net address.Network, b []byte) (SaplingDiversifiableFullViewingKey, error) {
	if len(b) != backend.SaplingFVKLen+backend.DiversifierKeyLen {
		return SaplingDiversifiableFullViewingKey{}, fmt.Errorf("%w: sapling dfvk must be %d bytes, got %d",
			address.ErrInvalidArgument, backend.SaplingFVKLen+backend.DiversifierKeyLen, len(b))
	}
	fvk, err := SaplingFullViewingKeyFromBytes(net, b[:96])
	if err != nil {
		return SaplingDiversifiableFullViewingKey{}, err
	}
	var dk [32]byte
	copy(dk[:], b[96:])
	return SaplingDiversifiableFullViewingKey{fvk: fvk, dk: dk}, nil
}

func (k SaplingDiversifiableFullViewingKey) Network() address.Network { return k.fvk.net }

// FullViewingKey returns the fvk component.
func (k SaplingDiversifiableFullViewingKey) FullViewingKey() SaplingFullViewingKey { return k.fvk }

// DiversifierKey returns the dk component.
func (k SaplingDiversifiableFullViewingKey) DiversifierKey() [32]byte { return k.dk }

// Bytes returns the 128-byte ak || nk || ovk || dk encoding.
func (k SaplingDiversifiableFullViewingKey) Bytes() [128]byte {
	var out [128]byte
	copy(out[:96], k.fvk.fvk[:])
	copy(out[96:], k.dk[:])
	return out
}

// Element returns the unified-container element for this key.
func (k SaplingDiversifiableFullViewingKey) Element() address.SaplingDFVKElement {
	return address.SaplingDFVKElement(k.Bytes())
}

// IncomingViewingKey derives the incoming viewing key, carrying the
// diversifier key along.
func (k SaplingDiversifiableFullViewingKey) IncomingViewingKey() (SaplingIncomingViewingKey, error) {
	ivk, err := backend.Default().SaplingIVKFromFVK(k.fvk.AK(), k.fvk.NK())
	if err != nil {
		return SaplingIncomingViewingKey{}, err
	}
	return SaplingIncomingViewingKey{net: k.fvk.net, ivk: ivk, dk: k.dk}, nil
}

// SaplingIncomingViewingKey derives receivers and recovers their
// diversifier indices. The dk component is what makes diversifier
// recovery a decryption rather than a search.
type SaplingIncomingViewingKey struct {
	net address.Network
	ivk [32]byte
	dk  [32]byte
}

// SaplingIVKFromBytes wraps a raw 64-byte dk || ivk encoding (the
// unified-container element layout).
func SaplingIVKFromBytes(net address.Network, b []byte) (SaplingIncomingViewingKey, error) {
	if len(b) != backend.SaplingIVKLen+backend.DiversifierKeyLen {
		return SaplingIncomingViewingKey{}, fmt.Errorf("%w: sapling incoming viewing key must be %d bytes, got %d",
			address.ErrInvalidArgument, backend.SaplingIVKLen+backend.DiversifierKeyLen, len(b))
	}
	var k SaplingIncomingViewingKey
	k.net = net
	copy(k.dk[:], b[:32])
	copy(k.ivk[:], b[32:])
	return k, nil
}

func (k SaplingIncomingViewingKey) Network() address.Network { return k.net }

// Bytes returns the dk || ivk element layout.
func (k SaplingIncomingViewingKey) Bytes() [64]byte {
	var out [64]byte
	copy(out[:32], k.dk[:])
	copy(out[32:], k.ivk[:])
	return out
}

// Element returns the unified-container element for this key.
func (k SaplingIncomingViewingKey) Element() address.SaplingIVKElement {
	return address.SaplingIVKElement(k.Bytes())
}

// CreateReceiver produces the receiver for exactly the given index.
// Indices whose diversifier does not map onto the curve return
// backend.ErrInvalidDiversifier; callers retry with another index or
// use FindReceiver.
func (k SaplingIncomingViewingKey) CreateReceiver(index DiversifierIndex) (address.SaplingReceiver, error) {
	r, err := backend.Default().SaplingReceiver(k.ivk, k.dk, index)
	if err != nil {
		return address.SaplingReceiver{}, err
	}
	return address.SaplingReceiver(r), nil
}

// CreateDefaultReceiver returns the receiver at the first valid index
// scanning forward from zero.
func (k SaplingIncomingViewingKey) CreateDefaultReceiver() (DiversifierIndex, address.SaplingReceiver, error) {
	return k.FindReceiver(DiversifierIndex{})
}

// FindReceiver scans forward from index to the first valid diversifier,
// returning the index actually used alongside the receiver.
func (k SaplingIncomingViewingKey) FindReceiver(index DiversifierIndex) (DiversifierIndex, address.SaplingReceiver, error) {
	used, r, err := backend.Default().SaplingFindReceiver(k.ivk, k.dk, index)
	if err != nil {
		return DiversifierIndex{}, address.SaplingReceiver{}, err
	}
	return DiversifierIndex(used), address.SaplingReceiver(r), nil
}

// CheckReceiver reports whether this key's authority produced the
// receiver.
func (k SaplingIncomingViewingKey) CheckReceiver(r address.SaplingReceiver) bool {
	_, owned, err := backend.Default().SaplingDecryptDiversifier(k.ivk, k.dk, r)
	return err == nil && owned
}

// TryGetDiversifierIndex recovers the index that produced the receiver
// under this key; ok is false when the receiver belongs to a different
// key.
func (k SaplingIncomingViewingKey) TryGetDiversifierIndex(r address.SaplingReceiver) (DiversifierIndex, bool) {
	index, owned, err := backend.Default().SaplingDecryptDiversifier(k.ivk, k.dk, r)
	if err != nil || !owned {
		return DiversifierIndex{}, false
	}
	return DiversifierIndex(index), true
}
