package zip32

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil"
	"github.com/btcsuite/btcutil/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/suffix-labs/zcash-keys/pkg/address"
	"github.com/suffix-labs/zcash-keys/pkg/keys"
)

// ============================================================================
// Transparent (BIP 32) extended keys
// ============================================================================

// Extended-key version bytes. Zcash reuses Bitcoin's values, so xprv/xpub
// and tprv/tpub prefixes carry over unchanged.
var (
	versionXprv = [4]byte{0x04, 0x88, 0xad, 0xe4}
	versionXpub = [4]byte{0x04, 0x88, 0xb2, 0x1e}
	versionTprv = [4]byte{0x04, 0x35, 0x83, 0x94}
	versionTpub = [4]byte{0x04, 0x35, 0x87, 0xcf}
)

// transparentExtLen is the BIP 32 serialized size: version(4) + depth(1) +
// parentFP(4) + childNumber(4) + chainCode(32) + keyData(33).
const transparentExtLen = 78

// ErrInvalidChildKey is returned for the statistically negligible case
// where BIP 32 child derivation produces an out-of-range or zero key.
// BIP 32 prescribes skipping to the next index; the caller decides.
var ErrInvalidChildKey = errors.New("zip32: derived child key is invalid, use the next index")

// TransparentExtendedKey is a BIP 32 node over secp256k1. Unlike the
// shielded pools, both hardened and normal derivation are supported.
type TransparentExtendedKey struct {
	net         address.Network
	key         *secp256k1.PrivateKey
	chainCode   [32]byte
	parentFP    [4]byte
	depth       byte
	childNumber uint32
}

// MasterTransparent derives the BIP 32 master key from a seed using the
// standard "Bitcoin seed" HMAC key.
func MasterTransparent(net address.Network, seed []byte) (*TransparentExtendedKey, error) {
	if err := checkSeedLen(seed); err != nil {
		return nil, err
	}
	mac := hmac.New(sha512.New, []byte("Bitcoin seed"))
	mac.Write(seed)
	i := mac.Sum(nil)

	var s secp256k1.ModNScalar
	if overflow := s.SetByteSlice(i[:32]); overflow || s.IsZero() {
		return nil, ErrInvalidChildKey
	}
	k := &TransparentExtendedKey{net: net, key: secp256k1.NewPrivateKey(&s)}
	copy(k.chainCode[:], i[32:])
	return k, nil
}

func (k *TransparentExtendedKey) Network() address.Network { return k.net }
func (k *TransparentExtendedKey) Depth() byte              { return k.depth }
func (k *TransparentExtendedKey) ChildNumber() uint32      { return k.childNumber }
func (k *TransparentExtendedKey) ChainCode() [32]byte      { return k.chainCode }

// ParentFingerprint is Hash160(parent compressed pubkey)[:4], all zero
// for the master key.
func (k *TransparentExtendedKey) ParentFingerprint() [4]byte { return k.parentFP }

// fingerprint identifies this node for its children.
func (k *TransparentExtendedKey) fingerprint() [4]byte {
	var fp [4]byte
	copy(fp[:], btcutil.Hash160(k.key.PubKey().SerializeCompressed())[:4])
	return fp
}

// SpendingKey returns the transparent pool spending key at this node.
func (k *TransparentExtendedKey) SpendingKey() (*keys.TransparentSpendingKey, error) {
	return keys.TransparentSpendingKeyFromBytes(k.net, k.key.Serialize())
}

// ser32BE encodes the child number big-endian, as BIP 32's HMAC input
// requires. Note the shielded pools use little-endian; the two trees do
// not share wire conventions.
func ser32BE(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// Child derives the child at the given number. Hardened derivation mixes
// the private key; normal derivation mixes the public key.
func (k *TransparentExtendedKey) Child(childNumber uint32) (*TransparentExtendedKey, error) {
	if k.depth >= maxDepth {
		return nil, fmt.Errorf("%w: derivation depth exceeds %d", address.ErrInvalidArgument, maxDepth)
	}
	mac := hmac.New(sha512.New, k.chainCode[:])
	if childNumber >= HardenedOffset {
		mac.Write([]byte{0x00})
		mac.Write(k.key.Serialize())
	} else {
		mac.Write(k.key.PubKey().SerializeCompressed())
	}
	mac.Write(ser32BE(childNumber))
	i := mac.Sum(nil)

	var il secp256k1.ModNScalar
	if overflow := il.SetByteSlice(i[:32]); overflow {
		return nil, ErrInvalidChildKey
	}
	il.Add(&k.key.Key)
	if il.IsZero() {
		return nil, ErrInvalidChildKey
	}
	child := &TransparentExtendedKey{
		net:         k.net,
		key:         secp256k1.NewPrivateKey(&il),
		parentFP:    k.fingerprint(),
		depth:       k.depth + 1,
		childNumber: childNumber,
	}
	copy(child.chainCode[:], i[32:])
	return child, nil
}

// Bytes returns the 78-byte BIP 32 serialization of the private form.
func (k *TransparentExtendedKey) Bytes() [transparentExtLen]byte {
	version := versionXprv
	if k.net == address.Testnet {
		version = versionTprv
	}
	var keyData [33]byte
	copy(keyData[1:], k.key.Serialize())
	return transparentExtEncode(version, k.depth, k.parentFP, k.childNumber, k.chainCode, keyData)
}

// String encodes the private form as Base58Check (xprv / tprv).
func (k *TransparentExtendedKey) String() string {
	raw := k.Bytes()
	return base58WithChecksum(raw[:])
}

// Neuter strips the private key, leaving a public extended key that can
// serialize and produce addresses but not spend.
func (k *TransparentExtendedKey) Neuter() *TransparentExtendedPublicKey {
	return &TransparentExtendedPublicKey{
		net:         k.net,
		key:         k.key.PubKey(),
		chainCode:   k.chainCode,
		parentFP:    k.parentFP,
		depth:       k.depth,
		childNumber: k.childNumber,
	}
}

// TransparentExtendedPublicKey is the neutered form of a BIP 32 node.
type TransparentExtendedPublicKey struct {
	net         address.Network
	key         *secp256k1.PublicKey
	chainCode   [32]byte
	parentFP    [4]byte
	depth       byte
	childNumber uint32
}

func (k *TransparentExtendedPublicKey) Network() address.Network { return k.net }
func (k *TransparentExtendedPublicKey) Depth() byte              { return k.depth }
func (k *TransparentExtendedPublicKey) ChildNumber() uint32      { return k.childNumber }

// FullViewingKey returns the pool viewing key at this node.
func (k *TransparentExtendedPublicKey) FullViewingKey() (*keys.TransparentFullViewingKey, error) {
	return keys.TransparentFVKFromBytes(k.net, k.key.SerializeCompressed())
}

// Bytes returns the 78-byte BIP 32 serialization of the public form.
func (k *TransparentExtendedPublicKey) Bytes() [transparentExtLen]byte {
	version := versionXpub
	if k.net == address.Testnet {
		version = versionTpub
	}
	var keyData [33]byte
	copy(keyData[:], k.key.SerializeCompressed())
	return transparentExtEncode(version, k.depth, k.parentFP, k.childNumber, k.chainCode, keyData)
}

// String encodes the public form as Base58Check (xpub / tpub).
func (k *TransparentExtendedPublicKey) String() string {
	raw := k.Bytes()
	return base58WithChecksum(raw[:])
}

func transparentExtEncode(version [4]byte, depth byte, parentFP [4]byte, childNumber uint32, chain [32]byte, keyData [33]byte) [transparentExtLen]byte {
	var out [transparentExtLen]byte
	copy(out[0:4], version[:])
	out[4] = depth
	copy(out[5:9], parentFP[:])
	copy(out[9:13], ser32BE(childNumber))
	copy(out[13:45], chain[:])
	copy(out[45:78], keyData[:])
	return out
}

// base58WithChecksum appends the 4-byte double-SHA256 checksum and
// Base58-encodes. The 4-byte version field rules out the single-version
// btcutil CheckEncode helper.
func base58WithChecksum(payload []byte) string {
	h1 := sha256.Sum256(payload)
	h2 := sha256.Sum256(h1[:])
	return base58.Encode(append(payload, h2[:4]...))
}

// DecodeTransparentExtendedKey parses an xprv/tprv string back into the
// private extended key form.
func DecodeTransparentExtendedKey(s string) (*TransparentExtendedKey, error) {
	decoded := base58.Decode(s)
	if len(decoded) != transparentExtLen+4 {
		return nil, &address.ParseError{Message: "transparent extended key has wrong length"}
	}
	payload := decoded[:transparentExtLen]
	h1 := sha256.Sum256(payload)
	h2 := sha256.Sum256(h1[:])
	for j := 0; j < 4; j++ {
		if decoded[transparentExtLen+j] != h2[j] {
			return nil, &address.ParseError{Message: "transparent extended key checksum mismatch"}
		}
	}
	var net address.Network
	switch [4]byte(payload[0:4]) {
	case versionXprv:
		net = address.Mainnet
	case versionTprv:
		net = address.Testnet
	default:
		return nil, &address.UnrecognizedError{Prefix: s[:4]}
	}
	if payload[45] != 0x00 {
		return nil, &address.ParseError{Message: "private extended key data must start with 0x00"}
	}
	var s256 secp256k1.ModNScalar
	if overflow := s256.SetByteSlice(payload[46:78]); overflow || s256.IsZero() {
		return nil, &address.ParseError{Message: "private extended key is out of range"}
	}
	k := &TransparentExtendedKey{net: net, key: secp256k1.NewPrivateKey(&s256)}
	k.depth = payload[4]
	copy(k.parentFP[:], payload[5:9])
	k.childNumber = uint32(payload[9])<<24 | uint32(payload[10])<<16 | uint32(payload[11])<<8 | uint32(payload[12])
	copy(k.chainCode[:], payload[13:45])
	return k, nil
}

// DeriveTransparentAccount derives the account-level key at the BIP 44
// path m/44'/coin'/account'.
func DeriveTransparentAccount(net address.Network, seed []byte, account uint32) (*TransparentExtendedKey, error) {
	master, err := MasterTransparent(net, seed)
	if err != nil {
		return nil, err
	}
	node := master
	for _, step := range []uint32{44, net.CoinType(), account} {
		node, err = node.Child(step | HardenedOffset)
		if err != nil {
			return nil, err
		}
	}
	return node, nil
}

// ExternalAddressKey derives the non-hardened /0/index leaf under an
// account-level key, the chain BIP 44 assigns to receiving addresses.
func (k *TransparentExtendedKey) ExternalAddressKey(index uint32) (*TransparentExtendedKey, error) {
	external, err := k.Child(0)
	if err != nil {
		return nil, err
	}
	return external.Child(index)
}
