package zip32

import (
	"fmt"

	"github.com/suffix-labs/zcash-keys/pkg/address"
	"github.com/suffix-labs/zcash-keys/pkg/backend"
	"github.com/suffix-labs/zcash-keys/pkg/bech32"
	"github.com/suffix-labs/zcash-keys/pkg/keys"
)

// ============================================================================
// Sapling extended keys
// ============================================================================

// Human-readable prefixes for the Sapling extended key text encodings.
const (
	hrpSaplingExtSKMain  = "secret-extended-key-main"
	hrpSaplingExtSKTest  = "secret-extended-key-test"
	hrpSaplingExtFVKMain = "zxviews"
	hrpSaplingExtFVKTest = "zxviewtestsapling"
)

// saplingExtLen is the serialized size of both Sapling extended key
// forms: depth(1) + parentFVKTag(4) + childNumber(4) + chainCode(32) +
// 96-byte key part + dk(32).
const saplingExtLen = 169

// SaplingExtendedSpendingKey is a node in the Sapling derivation tree.
// Its key material is the expanded spending key (ask, nsk, ovk) together
// with the diversifier key, which is what the serialized form carries and
// what child derivation consumes.
type SaplingExtendedSpendingKey struct {
	net          address.Network
	expsk        [96]byte
	dk           [32]byte
	chainCode    [32]byte
	parentFVKTag [4]byte
	depth        byte
	childNumber  uint32
}

// MasterSapling derives the Sapling master key from a seed.
func MasterSapling(net address.Network, seed []byte) (SaplingExtendedSpendingKey, error) {
	if err := checkSeedLen(seed); err != nil {
		return SaplingExtendedSpendingKey{}, err
	}
	sk, chain := masterExpand(persSaplingMaster, seed)
	node := SaplingExtendedSpendingKey{net: net, chainCode: chain}
	if err := node.fillFromSK(sk); err != nil {
		return SaplingExtendedSpendingKey{}, err
	}
	return node, nil
}

// fillFromSK expands 32 bytes of fresh key material into the node's
// expanded spending key and diversifier key.
func (k *SaplingExtendedSpendingKey) fillFromSK(sk [32]byte) error {
	expsk, err := backend.Default().SaplingExpandSpendingKey(sk)
	if err != nil {
		return err
	}
	k.expsk = expsk
	dk := PRFExpand(sk[:], domainSaplingDK)
	copy(k.dk[:], dk[:32])
	return nil
}

func (k SaplingExtendedSpendingKey) Network() address.Network { return k.net }
func (k SaplingExtendedSpendingKey) Depth() byte              { return k.depth }
func (k SaplingExtendedSpendingKey) ChildNumber() uint32      { return k.childNumber }
func (k SaplingExtendedSpendingKey) ChainCode() [32]byte      { return k.chainCode }
func (k SaplingExtendedSpendingKey) ParentFVKTag() [4]byte    { return k.parentFVKTag }

// DiversifierKey returns the key that drives address diversification.
func (k SaplingExtendedSpendingKey) DiversifierKey() [32]byte { return k.dk }

// ExpandedSpendingKey returns the pool spending authority at this node.
func (k SaplingExtendedSpendingKey) ExpandedSpendingKey() (keys.SaplingExpandedSpendingKey, error) {
	return keys.SaplingExpandedSpendingKeyFromBytes(k.net, k.expsk[:])
}

// FullViewingKey returns the extended full viewing key for this node.
func (k SaplingExtendedSpendingKey) FullViewingKey() (SaplingExtendedFullViewingKey, error) {
	fvk, err := backend.Default().SaplingFVKFromExpanded(k.expsk)
	if err != nil {
		return SaplingExtendedFullViewingKey{}, err
	}
	return SaplingExtendedFullViewingKey{
		net:          k.net,
		fvk:          fvk,
		dk:           k.dk,
		chainCode:    k.chainCode,
		parentFVKTag: k.parentFVKTag,
		depth:        k.depth,
		childNumber:  k.childNumber,
	}, nil
}

// Child derives the hardened child at the given number. Sapling has no
// public-derivation path, so non-hardened requests fail with
// ErrUnsupportedDerivation.
func (k SaplingExtendedSpendingKey) Child(childNumber uint32) (SaplingExtendedSpendingKey, error) {
	if childNumber < HardenedOffset {
		return SaplingExtendedSpendingKey{}, ErrUnsupportedDerivation
	}
	if k.depth >= maxDepth {
		return SaplingExtendedSpendingKey{}, fmt.Errorf("%w: derivation depth exceeds %d",
			address.ErrInvalidArgument, maxDepth)
	}
	fvk, err := k.FullViewingKey()
	if err != nil {
		return SaplingExtendedSpendingKey{}, err
	}
	i := PRFExpand(k.chainCode[:], domainSaplingChild, k.expsk[:], k.dk[:], le32(childNumber))
	child := SaplingExtendedSpendingKey{
		net:          k.net,
		parentFVKTag: fvk.tag(),
		depth:        k.depth + 1,
		childNumber:  childNumber,
	}
	copy(child.chainCode[:], i[32:])
	var sk [32]byte
	copy(sk[:], i[:32])
	if err := child.fillFromSK(sk); err != nil {
		return SaplingExtendedSpendingKey{}, err
	}
	return child, nil
}

// Bytes returns the 169-byte serialized extended spending key.
func (k SaplingExtendedSpendingKey) Bytes() [saplingExtLen]byte {
	return saplingExtEncode(k.depth, k.parentFVKTag, k.childNumber, k.chainCode, k.expsk, k.dk)
}

// String encodes the extended spending key as Bech32 with the
// network-specific secret-extended-key prefix.
func (k SaplingExtendedSpendingKey) String() string {
	hrp := hrpSaplingExtSKMain
	if k.net == address.Testnet {
		hrp = hrpSaplingExtSKTest
	}
	raw := k.Bytes()
	s, err := bech32.Encode(hrp, raw[:])
	if err != nil {
		panic("zip32: sapling extended key encoding: " + err.Error())
	}
	return s
}

// DecodeSaplingExtendedSpendingKey parses a secret-extended-key string.
func DecodeSaplingExtendedSpendingKey(s string) (SaplingExtendedSpendingKey, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return SaplingExtendedSpendingKey{}, err
	}
	var net address.Network
	switch hrp {
	case hrpSaplingExtSKMain:
		net = address.Mainnet
	case hrpSaplingExtSKTest:
		net = address.Testnet
	default:
		return SaplingExtendedSpendingKey{}, &address.UnrecognizedError{Prefix: hrp}
	}
	if len(data) != saplingExtLen {
		return SaplingExtendedSpendingKey{}, &address.ParseError{
			Message: fmt.Sprintf("sapling extended spending key must be %d bytes, got %d", saplingExtLen, len(data)),
		}
	}
	k := SaplingExtendedSpendingKey{net: net}
	k.depth, k.parentFVKTag, k.childNumber, k.chainCode = saplingExtDecodeHeader(data)
	copy(k.expsk[:], data[41:137])
	copy(k.dk[:], data[137:169])
	return k, nil
}

// SaplingExtendedFullViewingKey is the viewing side of a Sapling
// derivation node: full viewing key, diversifier key, and the same
// bookkeeping as the spending form.
type SaplingExtendedFullViewingKey struct {
	net          address.Network
	fvk          [96]byte
	dk           [32]byte
	chainCode    [32]byte
	parentFVKTag [4]byte
	depth        byte
	childNumber  uint32
}

func (k SaplingExtendedFullViewingKey) Network() address.Network { return k.net }
func (k SaplingExtendedFullViewingKey) Depth() byte              { return k.depth }
func (k SaplingExtendedFullViewingKey) ChildNumber() uint32      { return k.childNumber }
func (k SaplingExtendedFullViewingKey) ParentFVKTag() [4]byte    { return k.parentFVKTag }

// tag fingerprints this full viewing key for child bookkeeping.
func (k SaplingExtendedFullViewingKey) tag() [4]byte {
	return fvkTag(persSaplingFVFP, k.fvk[:])
}

// DiversifiableFullViewingKey strips the derivation bookkeeping, leaving
// the 128-byte key that unified containers and receivers work with.
func (k SaplingExtendedFullViewingKey) DiversifiableFullViewingKey() (keys.SaplingDiversifiableFullViewingKey, error) {
	fvk, err := keys.SaplingFullViewingKeyFromBytes(k.net, k.fvk[:])
	if err != nil {
		return keys.SaplingDiversifiableFullViewingKey{}, err
	}
	return fvk.WithDiversifierKey(k.dk), nil
}

// Bytes returns the 169-byte serialized extended full viewing key.
func (k SaplingExtendedFullViewingKey) Bytes() [saplingExtLen]byte {
	return saplingExtEncode(k.depth, k.parentFVKTag, k.childNumber, k.chainCode, k.fvk, k.dk)
}

// String encodes the extended full viewing key as Bech32 with the
// network-specific zxviews prefix.
func (k SaplingExtendedFullViewingKey) String() string {
	hrp := hrpSaplingExtFVKMain
	if k.net == address.Testnet {
		hrp = hrpSaplingExtFVKTest
	}
	raw := k.Bytes()
	s, err := bech32.Encode(hrp, raw[:])
	if err != nil {
		panic("zip32: sapling extended fvk encoding: " + err.Error())
	}
	return s
}

// DecodeSaplingExtendedFullViewingKey parses a zxviews string.
func DecodeSaplingExtendedFullViewingKey(s string) (SaplingExtendedFullViewingKey, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return SaplingExtendedFullViewingKey{}, err
	}
	var net address.Network
	switch hrp {
	case hrpSaplingExtFVKMain:
		net = address.Mainnet
	case hrpSaplingExtFVKTest:
		net = address.Testnet
	default:
		return SaplingExtendedFullViewingKey{}, &address.UnrecognizedError{Prefix: hrp}
	}
	if len(data) != saplingExtLen {
		return SaplingExtendedFullViewingKey{}, &address.ParseError{
			Message: fmt.Sprintf("sapling extended full viewing key must be %d bytes, got %d", saplingExtLen, len(data)),
		}
	}
	k := SaplingExtendedFullViewingKey{net: net}
	k.depth, k.parentFVKTag, k.childNumber, k.chainCode = saplingExtDecodeHeader(data)
	copy(k.fvk[:], data[41:137])
	copy(k.dk[:], data[137:169])
	return k, nil
}

// saplingExtEncode lays out depth || tag || LE32(childNumber) ||
// chainCode || keyPart || dk.
func saplingExtEncode(depth byte, tag [4]byte, childNumber uint32, chain [32]byte, keyPart [96]byte, dk [32]byte) [saplingExtLen]byte {
	var out [saplingExtLen]byte
	out[0] = depth
	copy(out[1:5], tag[:])
	copy(out[5:9], le32(childNumber))
	copy(out[9:41], chain[:])
	copy(out[41:137], keyPart[:])
	copy(out[137:169], dk[:])
	return out
}

func saplingExtDecodeHeader(data []byte) (depth byte, tag [4]byte, childNumber uint32, chain [32]byte) {
	depth = data[0]
	copy(tag[:], data[1:5])
	childNumber = uint32(data[5]) | uint32(data[6])<<8 | uint32(data[7])<<16 | uint32(data[8])<<24
	copy(chain[:], data[9:41])
	return depth, tag, childNumber, chain
}

// DeriveSaplingAccount derives the account-level key at the ZIP 32 path
// m/32'/coin'/account'.
func DeriveSaplingAccount(net address.Network, seed []byte, account uint32) (SaplingExtendedSpendingKey, error) {
	master, err := MasterSapling(net, seed)
	if err != nil {
		return SaplingExtendedSpendingKey{}, err
	}
	node := master
	for _, step := range []uint32{32, net.CoinType(), account} {
		node, err = node.Child(step | HardenedOffset)
		if err != nil {
			return SaplingExtendedSpendingKey{}, err
		}
	}
	return node, nil
}
