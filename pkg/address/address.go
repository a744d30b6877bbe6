// Package address implements Zcash address encoding and decoding for all
// four value pools: transparent Base58Check addresses, legacy Sprout
// addresses, Sapling Bech32 addresses, and ZIP 316 unified containers
// (unified addresses and unified viewing keys) carrying one receiver or
// viewing key per pool.
//
// The package is pure data plumbing: it validates structure, prefixes and
// checksums, and round-trips byte layouts. Cryptographic interpretation of
// the payloads (key validity, diversifier recovery) lives in pkg/keys.
//
// References:
//   - ZIP 316: https://zips.z.cash/zip-0316 (unified addresses)
//   - Zcash protocol spec §5.6 (address and key encodings)
package address

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/suffix-labs/zcash-keys/pkg/base58check"
	"github.com/suffix-labs/zcash-keys/pkg/bech32"
)

// Network selects the Zcash chain an address or key belongs to.
type Network uint8

const (
	Mainnet Network = iota
	Testnet
)

func (n Network) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	default:
		return fmt.Sprintf("network(%d)", uint8(n))
	}
}

// CoinType returns the SLIP 44 coin type used in derivation paths.
func (n Network) CoinType() uint32 {
	if n == Mainnet {
		return 133
	}
	return 1
}

// Pool identifies one of the value-transfer protocols coexisting in Zcash.
type Pool uint8

const (
	PoolTransparent Pool = iota
	PoolSprout
	PoolSapling
	PoolOrchard
)

func (p Pool) String() string {
	switch p {
	case PoolTransparent:
		return "transparent"
	case PoolSprout:
		return "sprout"
	case PoolSapling:
		return "sapling"
	case PoolOrchard:
		return "orchard"
	default:
		return fmt.Sprintf("pool(%d)", uint8(p))
	}
}

// Two-byte Base58Check version prefixes (Zcash protocol spec §5.6.1).
var (
	versionP2PKHMain  = [2]byte{0x1c, 0xb8} // "t1"
	versionP2SHMain   = [2]byte{0x1c, 0xbd} // "t3"
	versionP2PKHTest  = [2]byte{0x1d, 0x25} // "tm"
	versionP2SHTest   = [2]byte{0x1c, 0xba} // "t2"
	versionSproutMain = [2]byte{0x16, 0x9a} // "zc"
	versionSproutTest = [2]byte{0x16, 0xb6} // "zt"
)

// Bech32 HRPs for Sapling payment addresses.
const (
	hrpSaplingMain = "zs"
	hrpSaplingTest = "ztestsapling"
)

// knownBech32HRP reports whether hrp belongs to a Zcash bech32 or
// bech32m encoding this package decodes.
func knownBech32HRP(hrp string) bool {
	if hrp == hrpSaplingMain || hrp == hrpSaplingTest {
		return true
	}
	_, _, ok := containerForHRP(hrp)
	return ok
}

// Address is a decoded Zcash address of any kind.
type Address interface {
	// Network reports which chain the address belongs to.
	Network() Network
	// String returns the canonical text encoding.
	String() string
}

// ============================================================================
// Transparent
// ============================================================================

// TransparentKind distinguishes pay-to-public-key-hash from
// pay-to-script-hash transparent addresses.
type TransparentKind uint8

const (
	P2PKH TransparentKind = iota
	P2SH
)

// TransparentAddress is a Base58Check transparent address wrapping a
// 20-byte Hash160.
type TransparentAddress struct {
	net  Network
	kind TransparentKind
	hash [20]byte
}

// NewTransparentAddress builds a transparent address from a 20-byte hash.
func NewTransparentAddress(net Network, kind TransparentKind, hash [20]byte) *TransparentAddress {
	return &TransparentAddress{net: net, kind: kind, hash: hash}
}

func (a *TransparentAddress) Network() Network      { return a.net }
func (a *TransparentAddress) Kind() TransparentKind { return a.kind }

// Hash returns the 20-byte Hash160 receiver.
func (a *TransparentAddress) Hash() [20]byte { return a.hash }

// Receiver returns the typed element for inclusion in a unified address.
func (a *TransparentAddress) Receiver() Element {
	if a.kind == P2SH {
		return P2SHReceiver(a.hash)
	}
	return P2PKHReceiver(a.hash)
}

func (a *TransparentAddress) String() string {
	var version [2]byte
	switch {
	case a.net == Mainnet && a.kind == P2PKH:
		version = versionP2PKHMain
	case a.net == Mainnet && a.kind == P2SH:
		version = versionP2SHMain
	case a.net == Testnet && a.kind == P2PKH:
		version = versionP2PKHTest
	default:
		version = versionP2SHTest
	}
	return base58check.CheckEncode(version, a.hash[:])
}

// ============================================================================
// Sprout (legacy, decode/encode only)
// ============================================================================

// SproutAddress is a legacy Sprout shielded address: a_pk followed by
// pk_enc, 64 bytes total, Base58Check encoded. The Sprout pool is
// read-only; no key operations are provided for it.
type SproutAddress struct {
	net  Network
	data [64]byte
}

// NewSproutAddress wraps raw Sprout address bytes.
func NewSproutAddress(net Network, data [64]byte) *SproutAddress {
	return &SproutAddress{net: net, data: data}
}

func (a *SproutAddress) Network() Network { return a.net }

// Raw returns the 64-byte a_pk || pk_enc payload.
func (a *SproutAddress) Raw() [64]byte { return a.data }

func (a *SproutAddress) String() string {
	version := versionSproutMain
	if a.net == Testnet {
		version = versionSproutTest
	}
	return base58check.CheckEncode(version, a.data[:])
}

// ============================================================================
// Sapling
// ============================================================================

// SaplingAddress is a single-receiver Sapling payment address, Bech32
// encoded: 11-byte diversifier followed by the 32-byte transmission key.
type SaplingAddress struct {
	net      Network
	receiver [43]byte
}

// NewSaplingAddress wraps a raw 43-byte Sapling receiver.
func NewSaplingAddress(net Network, receiver [43]byte) *SaplingAddress {
	return &SaplingAddress{net: net, receiver: receiver}
}

func (a *SaplingAddress) Network() Network { return a.net }

// Raw returns the 43-byte receiver (diversifier || pk_d).
func (a *SaplingAddress) Raw() [43]byte { return a.receiver }

// Diversifier returns the leading 11 diversifier bytes.
func (a *SaplingAddress) Diversifier() [11]byte {
	var d [11]byte
	copy(d[:], a.receiver[:11])
	return d
}

// Receiver returns the typed element for inclusion in a unified address.
func (a *SaplingAddress) Receiver() Element { return SaplingReceiver(a.receiver) }

func (a *SaplingAddress) String() string {
	hrp := hrpSaplingMain
	if a.net == Testnet {
		hrp = hrpSaplingTest
	}
	s, err := bech32.Encode(hrp, a.receiver[:])
	if err != nil {
		// The HRP and payload length are fixed; encoding cannot fail.
		panic(err)
	}
	return s
}

// ============================================================================
// Orchard
// ============================================================================

// OrchardAddress is a single-receiver Orchard address. Orchard has no
// standalone text encoding; it is rendered as a unified address holding
// exactly one Orchard receiver.
type OrchardAddress struct {
	net      Network
	receiver [43]byte
}

// NewOrchardAddress wraps a raw 43-byte Orchard receiver.
func NewOrchardAddress(net Network, receiver [43]byte) *OrchardAddress {
	return &OrchardAddress{net: net, receiver: receiver}
}

func (a *OrchardAddress) Network() Network { return a.net }

// Raw returns the 43-byte receiver (diversifier || pk_d).
func (a *OrchardAddress) Raw() [43]byte { return a.receiver }

// Diversifier returns the leading 11 diversifier bytes.
func (a *OrchardAddress) Diversifier() [11]byte {
	var d [11]byte
	copy(d[:], a.receiver[:11])
	return d
}

// Receiver returns the typed element for inclusion in a unified address.
func (a *OrchardAddress) Receiver() Element { return OrchardReceiver(a.receiver) }

func (a *OrchardAddress) String() string {
	ua, err := NewUnifiedAddress(a.net, OrchardReceiver(a.receiver))
	if err != nil {
		panic(err)
	}
	return ua.String()
}

// ============================================================================
// Decoding
// ============================================================================

// Decode parses any supported Zcash address encoding, dispatching on the
// prefix. Malformed input yields a typed error (*bech32.DecodeError, a
// base58check error, or this package's error types); Decode never panics
// on external input.
func Decode(s string) (Address, error) {
	if s == "" {
		return nil, &UnrecognizedError{Prefix: ""}
	}

	// Base58Check encodings carry no separator; dispatch on the leading
	// characters first since base58 decoding is the cheaper failure.
	switch {
	case strings.HasPrefix(s, "t1"), strings.HasPrefix(s, "t3"),
		strings.HasPrefix(s, "tm"), strings.HasPrefix(s, "t2"),
		strings.HasPrefix(s, "zc"), strings.HasPrefix(s, "zt") && !strings.HasPrefix(s, "ztestsapling"):
		return decodeBase58(s)
	}

	// Reject foreign HRPs before checksum and bit-regrouping run, so a
	// well-formed string for some other scheme reports "unrecognized"
	// rather than a codec error from its unrelated payload shape.
	if i := strings.LastIndexByte(s, '1'); i > 0 {
		if hrp := strings.ToLower(s[:i]); !knownBech32HRP(hrp) {
			return nil, &UnrecognizedError{Prefix: hrp}
		}
	}

	hrp, data, variant, err := bech32.DecodeAny(s)
	if err != nil {
		return nil, err
	}
	switch {
	case variant == bech32.VariantBech32 && (hrp == hrpSaplingMain || hrp == hrpSaplingTest):
		if len(data) != SaplingReceiverLen {
			return nil, &ParseError{Message: fmt.Sprintf("sapling address payload must be %d bytes, got %d", SaplingReceiverLen, len(data))}
		}
		var r [43]byte
		copy(r[:], data)
		net := Mainnet
		if hrp == hrpSaplingTest {
			net = Testnet
		}
		return NewSaplingAddress(net, r), nil
	case variant == bech32.VariantBech32m:
		kind, net, ok := containerForHRP(hrp)
		if !ok || kind != KindAddress {
			return nil, &UnrecognizedError{Prefix: hrp}
		}
		elems, err := decodeUnifiedPayload(kind, net, data)
		if err != nil {
			return nil, err
		}
		return &UnifiedAddress{net: net, elements: elems}, nil
	}
	return nil, &UnrecognizedError{Prefix: hrp}
}

// Parse is the convenience wrapper around Decode for call sites where a
// malformed address is truly exceptional; the returned error is wrapped
// with context.
func Parse(s string) (Address, error) {
	a, err := Decode(s)
	if err != nil {
		return nil, fmt.Errorf("parse address %q: %w", s, err)
	}
	return a, nil
}

// MustParse is like Parse but panics on error. For tests and literals.
func MustParse(s string) Address {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func decodeBase58(s string) (Address, error) {
	version, payload, err := base58check.CheckDecode(s)
	if err != nil {
		return nil, err
	}
	switch version {
	case versionP2PKHMain, versionP2SHMain, versionP2PKHTest, versionP2SHTest:
		if len(payload) != TransparentReceiverLen {
			return nil, &ParseError{Message: fmt.Sprintf("transparent address payload must be %d bytes, got %d", TransparentReceiverLen, len(payload))}
		}
		var hash [20]byte
		copy(hash[:], payload)
		net := Mainnet
		if version == versionP2PKHTest || version == versionP2SHTest {
			net = Testnet
		}
		kind := P2PKH
		if version == versionP2SHMain || version == versionP2SHTest {
			kind = P2SH
		}
		return NewTransparentAddress(net, kind, hash), nil
	case versionSproutMain, versionSproutTest:
		if len(payload) != SproutReceiverLen {
			return nil, &ParseError{Message: fmt.Sprintf("sprout address payload must be %d bytes, got %d", SproutReceiverLen, len(payload))}
		}
		var data [64]byte
		copy(data[:], payload)
		net := Mainnet
		if version == versionSproutTest {
			net = Testnet
		}
		return NewSproutAddress(net, data), nil
	}
	return nil, &UnrecognizedError{Prefix: fmt.Sprintf("%x", version)}
}

// Equal reports whether two addresses have identical canonical encodings.
func Equal(a, b Address) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Network() == b.Network() && bytes.Equal([]byte(a.String()), []byte(b.String()))
}
