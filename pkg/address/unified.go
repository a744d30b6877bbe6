// Unified container codec (ZIP 316).
//
// A unified container composes an ordered, type-code-unique set of typed
// elements into a single Bech32m string. Three container kinds exist:
// unified addresses, unified full viewing keys, and unified incoming
// viewing keys, each with its own HRP per network.
//
// Wire layout: elements are sorted by ascending type code and written
// back-to-back as [type code][payload]. There is no length field; each
// type code implies a fixed payload length through the container kind's
// registry.
package address

import (
	"fmt"
	"sort"

	"github.com/suffix-labs/zcash-keys/pkg/bech32"
)

// ContainerKind distinguishes what a unified container carries.
type ContainerKind uint8

const (
	KindAddress ContainerKind = iota
	KindFullViewingKey
	KindIncomingViewingKey
)

func (k ContainerKind) String() string {
	switch k {
	case KindAddress:
		return "unified address"
	case KindFullViewingKey:
		return "unified full viewing key"
	case KindIncomingViewingKey:
		return "unified incoming viewing key"
	default:
		return fmt.Sprintf("container(%d)", uint8(k))
	}
}

// hrpTable maps {container kind, network} to the Bech32m HRP.
var hrpTable = map[ContainerKind][2]string{
	KindAddress:            {"u", "utest"},
	KindFullViewingKey:     {"uview", "uviewtest"},
	KindIncomingViewingKey: {"uivk", "uivktest"},
}

// HRP returns the human-readable part for a container kind on a network.
func HRP(kind ContainerKind, net Network) string {
	pair := hrpTable[kind]
	if net == Testnet {
		return pair[1]
	}
	return pair[0]
}

// containerForHRP is the reverse mapping.
func containerForHRP(hrp string) (ContainerKind, Network, bool) {
	for kind, pair := range hrpTable {
		switch hrp {
		case pair[0]:
			return kind, Mainnet, true
		case pair[1]:
			return kind, Testnet, true
		}
	}
	return 0, 0, false
}

// registryFor returns the element registry for a container kind.
func registryFor(kind ContainerKind) map[byte]registryEntry {
	switch kind {
	case KindFullViewingKey:
		return fvkRegistry
	case KindIncomingViewingKey:
		return ivkRegistry
	default:
		return addressRegistry
	}
}

// canonicalize validates an element set for composition and returns it
// sorted by ascending type code. Zero elements or duplicate type codes
// are contract violations.
func canonicalize(elems []Element) ([]Element, error) {
	if len(elems) == 0 {
		return nil, fmt.Errorf("%w: unified container requires at least one element", ErrInvalidArgument)
	}
	sorted := make([]Element, len(elems))
	copy(sorted, elems)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TypeCode() < sorted[j].TypeCode()
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].TypeCode() == sorted[i-1].TypeCode() {
			return nil, fmt.Errorf("%w: duplicate element type 0x%02x", ErrInvalidArgument, sorted[i].TypeCode())
		}
	}
	return sorted, nil
}

// EncodeUnified composes elements into one Bech32m container string.
// The input order of elements does not matter; the encoding is canonical.
func EncodeUnified(kind ContainerKind, net Network, elems ...Element) (string, error) {
	sorted, err := canonicalize(elems)
	if err != nil {
		return "", err
	}
	var blob []byte
	for _, e := range sorted {
		blob = append(blob, e.TypeCode())
		blob = e.AppendData(blob)
	}
	return bech32.EncodeM(HRP(kind, net), blob)
}

// DecodeUnified decodes a Bech32m unified container of any kind.
func DecodeUnified(s string) (ContainerKind, Network, []Element, error) {
	hrp, blob, err := bech32.DecodeM(s)
	if err != nil {
		return 0, 0, nil, err
	}
	kind, net, ok := containerForHRP(hrp)
	if !ok {
		return 0, 0, nil, &UnrecognizedError{Prefix: hrp}
	}
	elems, err := decodeUnifiedPayload(kind, net, blob)
	if err != nil {
		return 0, 0, nil, err
	}
	return kind, net, elems, nil
}

// decodeUnifiedPayload walks the container blob, consuming one type code
// and its registry-known payload length per element.
//
// Unknown type codes split the two container families: addresses must
// preserve them opaquely (forward compatibility with future pools), while
// viewing keys reject them, since a viewing key with an uninterpretable
// component cannot honor its detection contract. Because canonical order
// is ascending and every known code is below the unknown one, the opaque
// run is always the container's tail.
func decodeUnifiedPayload(kind ContainerKind, net Network, blob []byte) ([]Element, error) {
	if len(blob) == 0 {
		return nil, &ParseError{Message: "empty unified container"}
	}
	registry := registryFor(kind)
	var elems []Element
	seen := make(map[byte]bool)
	prev := -1
	for off := 0; off < len(blob); {
		code := blob[off]
		off++
		if seen[code] {
			return nil, &DuplicateTypeError{TypeCode: code}
		}
		seen[code] = true
		if int(code) <= prev {
			return nil, &ParseError{Message: fmt.Sprintf("element type 0x%02x out of canonical order", code)}
		}
		prev = int(code)

		entry, known := registry[code]
		if !known {
			if kind != KindAddress {
				return nil, &TypeError{TypeCode: code, Kind: kind}
			}
			// Opaque tail: without a registry entry the length of this
			// and any following element is unknowable, so the remainder
			// is preserved verbatim under the first unknown code.
			elems = append(elems, OpaqueReceiver{Code: code, Data: append([]byte(nil), blob[off:]...)})
			return elems, nil
		}
		if len(blob)-off < entry.length {
			return nil, &ParseError{Message: fmt.Sprintf("element type 0x%02x truncated: need %d bytes, have %d", code, entry.length, len(blob)-off)}
		}
		e, err := entry.read(blob[off:off+entry.length], net)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		off += entry.length
	}
	return elems, nil
}

// ============================================================================
// UnifiedAddress
// ============================================================================

// UnifiedAddress is a unified container of receivers decoded from or
// destined for a "u1..." string.
type UnifiedAddress struct {
	net      Network
	elements []Element
}

// NewUnifiedAddress composes receivers into a unified address. At least
// one element is required and type codes must be unique; violations are
// ErrInvalidArgument contract errors.
func NewUnifiedAddress(net Network, receivers ...Element) (*UnifiedAddress, error) {
	sorted, err := canonicalize(receivers)
	if err != nil {
		return nil, err
	}
	return &UnifiedAddress{net: net, elements: sorted}, nil
}

func (a *UnifiedAddress) Network() Network { return a.net }

// Elements returns the receivers in canonical (ascending type code)
// order. The slice must not be mutated.
func (a *UnifiedAddress) Elements() []Element { return a.elements }

// Orchard returns the Orchard receiver, if present.
func (a *UnifiedAddress) Orchard() (OrchardReceiver, bool) {
	for _, e := range a.elements {
		if r, ok := e.(OrchardReceiver); ok {
			return r, true
		}
	}
	return OrchardReceiver{}, false
}

// Sapling returns the Sapling receiver, if present.
func (a *UnifiedAddress) Sapling() (SaplingReceiver, bool) {
	for _, e := range a.elements {
		if r, ok := e.(SaplingReceiver); ok {
			return r, true
		}
	}
	return SaplingReceiver{}, false
}

// Transparent returns the transparent receiver element (P2PKH or P2SH),
// if present.
func (a *UnifiedAddress) Transparent() (Element, bool) {
	for _, e := range a.elements {
		switch e.(type) {
		case P2PKHReceiver, P2SHReceiver:
			return e, true
		}
	}
	return nil, false
}

func (a *UnifiedAddress) String() string {
	s, err := EncodeUnified(KindAddress, a.net, a.elements...)
	if err != nil {
		// Elements were canonicalized at construction; re-encoding a
		// decoded container cannot fail.
		panic(err)
	}
	return s
}

// ============================================================================
// Unified viewing keys
// ============================================================================

// UnifiedViewingKey is a unified container of per-pool viewing keys
// (full or incoming, per Kind).
type UnifiedViewingKey struct {
	kind     ContainerKind
	net      Network
	elements []Element
}

// NewUnifiedViewingKey composes viewing key elements into a container of
// the given kind (KindFullViewingKey or KindIncomingViewingKey).
func NewUnifiedViewingKey(kind ContainerKind, net Network, elems ...Element) (*UnifiedViewingKey, error) {
	if kind != KindFullViewingKey && kind != KindIncomingViewingKey {
		return nil, fmt.Errorf("%w: kind must be a viewing key container, got %s", ErrInvalidArgument, kind)
	}
	sorted, err := canonicalize(elems)
	if err != nil {
		return nil, err
	}
	return &UnifiedViewingKey{kind: kind, net: net, elements: sorted}, nil
}

// DecodeUnifiedViewingKey decodes a uview/uivk string. Every element
// must be interpretable; unknown type codes are a TypeError.
func DecodeUnifiedViewingKey(s string) (*UnifiedViewingKey, error) {
	kind, net, elems, err := DecodeUnified(s)
	if err != nil {
		return nil, err
	}
	if kind == KindAddress {
		return nil, &ParseError{Message: "string is a unified address, not a viewing key"}
	}
	return &UnifiedViewingKey{kind: kind, net: net, elements: elems}, nil
}

func (k *UnifiedViewingKey) Kind() ContainerKind { return k.kind }
func (k *UnifiedViewingKey) Network() Network    { return k.net }

// Elements returns the viewing key elements in canonical order.
func (k *UnifiedViewingKey) Elements() []Element { return k.elements }

func (k *UnifiedViewingKey) String() string {
	s, err := EncodeUnified(k.kind, k.net, k.elements...)
	if err != nil {
		panic(err)
	}
	return s
}
