package zip32

import (
	"fmt"

	"github.com/suffix-labs/zcash-keys/pkg/address"
	"github.com/suffix-labs/zcash-keys/pkg/keys"
)

// ============================================================================
// Orchard extended keys
// ============================================================================

// OrchardExtendedKey is a node in the Orchard derivation tree: 32 bytes
// of spending key material plus BIP 32-style bookkeeping.
type OrchardExtendedKey struct {
	net          address.Network
	sk           [32]byte
	chainCode    [32]byte
	parentFVKTag [4]byte
	depth        byte
	childNumber  uint32
}

// MasterOrchard derives the Orchard master key from a seed.
func MasterOrchard(net address.Network, seed []byte) (OrchardExtendedKey, error) {
	if err := checkSeedLen(seed); err != nil {
		return OrchardExtendedKey{}, err
	}
	sk, chain := masterExpand(persOrchardMaster, seed)
	return OrchardExtendedKey{net: net, sk: sk, chainCode: chain}, nil
}

func (k OrchardExtendedKey) Network() address.Network { return k.net }
func (k OrchardExtendedKey) Depth() byte              { return k.depth }
func (k OrchardExtendedKey) ChildNumber() uint32      { return k.childNumber }
func (k OrchardExtendedKey) ChainCode() [32]byte      { return k.chainCode }

// ParentFVKTag is the fingerprint of the parent node's full viewing key,
// all zero for the master key.
func (k OrchardExtendedKey) ParentFVKTag() [4]byte { return k.parentFVKTag }

// SpendingKey returns the pool spending key held at this node.
func (k OrchardExtendedKey) SpendingKey() (keys.OrchardSpendingKey, error) {
	return keys.NewOrchardSpendingKey(k.net, k.sk)
}

// tag fingerprints this node's own full viewing key, for use as the
// child's parentFVKTag.
func (k OrchardExtendedKey) tag() ([4]byte, error) {
	sk, err := k.SpendingKey()
	if err != nil {
		return [4]byte{}, err
	}
	fvk, err := sk.FullViewingKey()
	if err != nil {
		return [4]byte{}, err
	}
	raw := fvk.Bytes()
	return fvkTag(persOrchardFVFP, raw[:]), nil
}

// Child derives the hardened child at the given number. Orchard has no
// public-derivation path, so non-hardened requests fail with
// ErrUnsupportedDerivation.
func (k OrchardExtendedKey) Child(childNumber uint32) (OrchardExtendedKey, error) {
	if childNumber < HardenedOffset {
		return OrchardExtendedKey{}, ErrUnsupportedDerivation
	}
	if k.depth >= maxDepth {
		return OrchardExtendedKey{}, fmt.Errorf("%w: derivation depth exceeds %d",
			address.ErrInvalidArgument, maxDepth)
	}
	tag, err := k.tag()
	if err != nil {
		return OrchardExtendedKey{}, err
	}
	i := PRFExpand(k.chainCode[:], domainOrchardChild, k.sk[:], le32(childNumber))
	child := OrchardExtendedKey{
		net:          k.net,
		parentFVKTag: tag,
		depth:        k.depth + 1,
		childNumber:  childNumber,
	}
	copy(child.sk[:], i[:32])
	copy(child.chainCode[:], i[32:])
	return child, nil
}

// DeriveOrchardAccount derives the account-level key at the ZIP 32 path
// m/32'/coin'/account'.
func DeriveOrchardAccount(net address.Network, seed []byte, account uint32) (OrchardExtendedKey, error) {
	master, err := MasterOrchard(net, seed)
	if err != nil {
		return OrchardExtendedKey{}, err
	}
	node := master
	for _, step := range []uint32{32, net.CoinType(), account} {
		node, err = node.Child(step | HardenedOffset)
		if err != nil {
			return OrchardExtendedKey{}, err
		}
	}
	return node, nil
}
