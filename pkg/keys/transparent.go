// Transparent pool keys: Bitcoin-style secp256k1 key pairs. The receiver
// is the 20-byte Hash160 of the compressed public key; the "viewing key"
// of the transparent pool is simply the public key. WIF import/export is
// provided for interoperability with transparent wallet tooling.

package keys

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil"
	"github.com/btcsuite/btcutil/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/suffix-labs/zcash-keys/pkg/address"
)

// TransparentSpendingKey is a secp256k1 private key bound to a network.
type TransparentSpendingKey struct {
	net address.Network
	key *secp256k1.PrivateKey
}

// TransparentSpendingKeyFromBytes wraps a raw 32-byte private key.
func TransparentSpendingKeyFromBytes(net address.Network, b []byte) (*TransparentSpendingKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("%w: transparent spending key must be 32 bytes, got %d",
			address.ErrInvalidArgument, len(b))
	}
	return &TransparentSpendingKey{net: net, key: secp256k1.PrivKeyFromBytes(b)}, nil
}

func (k *TransparentSpendingKey) Network() address.Network { return k.net }

// Bytes returns the raw 32-byte private key.
func (k *TransparentSpendingKey) Bytes() []byte { return k.key.Serialize() }

// FullViewingKey returns the public-key side of the pair.
func (k *TransparentSpendingKey) FullViewingKey() *TransparentFullViewingKey {
	return &TransparentFullViewingKey{net: k.net, key: k.key.PubKey()}
}

// WIF returns the wallet-import-format encoding (compressed flag set).
func (k *TransparentSpendingKey) WIF() string {
	version := byte(0x80)
	if k.net == address.Testnet {
		version = 0xef
	}
	payload := append([]byte{version}, k.key.Serialize()...)
	payload = append(payload, 0x01) // compressed
	h1 := sha256.Sum256(payload)
	h2 := sha256.Sum256(h1[:])
	payload = append(payload, h2[:4]...)
	return base58.Encode(payload)
}

// ParseWIF decodes a WIF-encoded transparent spending key.
func ParseWIF(wif string) (*TransparentSpendingKey, error) {
	decoded := base58.Decode(wif)
	if len(decoded) != 37 && len(decoded) != 38 {
		return nil, errors.New("keys: invalid WIF length")
	}
	var net address.Network
	switch decoded[0] {
	case 0x80:
		net = address.Mainnet
	case 0xef:
		net = address.Testnet
	default:
		return nil, fmt.Errorf("keys: invalid WIF version byte 0x%02x", decoded[0])
	}
	payload := decoded[:len(decoded)-4]
	h1 := sha256.Sum256(payload)
	h2 := sha256.Sum256(h1[:])
	for i := 0; i < 4; i++ {
		if decoded[len(decoded)-4+i] != h2[i] {
			return nil, errors.New("keys: WIF checksum mismatch")
		}
	}
	return TransparentSpendingKeyFromBytes(net, payload[1:33])
}

// TransparentFullViewingKey is the public key; it can derive receivers
// and addresses but not spend.
type TransparentFullViewingKey struct {
	net address.Network
	key *secp256k1.PublicKey
}

// TransparentFVKFromBytes parses a compressed 33-byte public key.
func TransparentFVKFromBytes(net address.Network, b []byte) (*TransparentFullViewingKey, error) {
	if len(b) != 33 {
		return nil, fmt.Errorf("%w: compressed public key must be 33 bytes, got %d",
			address.ErrInvalidArgument, len(b))
	}
	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("keys: invalid public key: %w", err)
	}
	return &TransparentFullViewingKey{net: net, key: pub}, nil
}

func (k *TransparentFullViewingKey) Network() address.Network { return k.net }

// Bytes returns the compressed 33-byte public key.
func (k *TransparentFullViewingKey) Bytes() []byte { return k.key.SerializeCompressed() }

// Receiver returns the P2PKH receiver: Hash160 of the compressed key.
func (k *TransparentFullViewingKey) Receiver() address.P2PKHReceiver {
	var r address.P2PKHReceiver
	copy(r[:], btcutil.Hash160(k.key.SerializeCompressed()))
	return r
}

// Address returns the Base58Check transparent address.
func (k *TransparentFullViewingKey) Address() *address.TransparentAddress {
	return address.NewTransparentAddress(k.net, address.P2PKH, [20]byte(k.Receiver()))
}

// CheckReceiver reports whether the receiver is this key's Hash160.
func (k *TransparentFullViewingKey) CheckReceiver(r address.P2PKHReceiver) bool {
	return r == k.Receiver()
}
