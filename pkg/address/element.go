// Typed element contract for unified containers.
//
// Every receiver or viewing key that can appear inside a unified
// container implements Element: a protocol-assigned one-byte type code, a
// fixed payload length, and symmetric write/read. Composition is keyed by
// type code through per-container registries, not by a type hierarchy;
// the per-pool payloads are otherwise unrelated in shape.
//
// The registry layout follows the record-dispatch style of TLV streams
// (type code implies payload length and reader), with ZIP 316 type codes.
package address

// Protocol-assigned element type codes (ZIP 316).
const (
	TypeP2PKH   byte = 0x00
	TypeP2SH    byte = 0x01
	TypeSapling byte = 0x02
	TypeOrchard byte = 0x03
)

// Fixed receiver payload lengths per pool.
const (
	TransparentReceiverLen = 20
	SaplingReceiverLen     = 43 // 11-byte diversifier || 32-byte pk_d
	OrchardReceiverLen     = 43 // 11-byte diversifier || 32-byte pk_d
	SproutReceiverLen      = 64 // a_pk || pk_enc (never appears in unified containers)
)

// Viewing key payload lengths per pool (ZIP 316 unified viewing keys).
const (
	TransparentFVKLen = 65  // chain code || compressed pubkey
	SaplingDFVKLen    = 128 // ak || nk || ovk || dk
	OrchardFVKLen     = 96  // ak || nk || rivk
	TransparentIVKLen = 65  // chain code || external pubkey
	SaplingIVKLen     = 64  // dk || ivk
	OrchardIVKLen     = 64  // dk || ivk
)

// Element is one typed payload inside a unified container.
type Element interface {
	// TypeCode returns the protocol-assigned one-byte code, used for
	// canonical ordering and dispatch.
	TypeCode() byte
	// DataLen returns the payload length in bytes for this element.
	DataLen() int
	// AppendData appends the element's payload bytes to dst and returns
	// the extended slice.
	AppendData(dst []byte) []byte
}

// elementReader reconstructs a typed element from its payload bytes.
// Readers receive the container's network so pool types that embed it
// can carry it; most payloads are network-independent.
type elementReader func(data []byte, network Network) (Element, error)

// ============================================================================
// Receiver elements (unified addresses)
// ============================================================================

// P2PKHReceiver is a transparent pay-to-public-key-hash receiver.
type P2PKHReceiver [TransparentReceiverLen]byte

func (P2PKHReceiver) TypeCode() byte                { return TypeP2PKH }
func (P2PKHReceiver) DataLen() int                  { return TransparentReceiverLen }
func (r P2PKHReceiver) AppendData(dst []byte) []byte { return append(dst, r[:]...) }

// P2SHReceiver is a transparent pay-to-script-hash receiver.
type P2SHReceiver [TransparentReceiverLen]byte

func (P2SHReceiver) TypeCode() byte                { return TypeP2SH }
func (P2SHReceiver) DataLen() int                  { return TransparentReceiverLen }
func (r P2SHReceiver) AppendData(dst []byte) []byte { return append(dst, r[:]...) }

// SaplingReceiver is a raw Sapling payment target.
type SaplingReceiver [SaplingReceiverLen]byte

func (SaplingReceiver) TypeCode() byte                { return TypeSapling }
func (SaplingReceiver) DataLen() int                  { return SaplingReceiverLen }
func (r SaplingReceiver) AppendData(dst []byte) []byte { return append(dst, r[:]...) }

// OrchardReceiver is a raw Orchard payment target.
type OrchardReceiver [OrchardReceiverLen]byte

func (OrchardReceiver) TypeCode() byte                { return TypeOrchard }
func (OrchardReceiver) DataLen() int                  { return OrchardReceiverLen }
func (r OrchardReceiver) AppendData(dst []byte) []byte { return append(dst, r[:]...) }

// OpaqueReceiver preserves a receiver of a type this library does not
// recognize. Unified addresses must carry unknown receiver types through
// decode/re-encode unchanged so that older software remains compatible
// with addresses minted for future pools. The Data bytes are kept
// verbatim, including any further elements that follow the unknown code
// (their lengths cannot be determined without knowing the code).
type OpaqueReceiver struct {
	Code byte
	Data []byte
}

func (r OpaqueReceiver) TypeCode() byte { return r.Code }
func (r OpaqueReceiver) DataLen() int   { return len(r.Data) }
func (r OpaqueReceiver) AppendData(dst []byte) []byte {
	return append(dst, r.Data...)
}

// ============================================================================
// Viewing key elements (unified full/incoming viewing keys)
// ============================================================================

// TransparentFVKElement is the transparent component of a unified full
// viewing key: a BIP 32 chain code followed by the compressed account
// public key.
type TransparentFVKElement [TransparentFVKLen]byte

func (TransparentFVKElement) TypeCode() byte                { return TypeP2PKH }
func (TransparentFVKElement) DataLen() int                  { return TransparentFVKLen }
func (e TransparentFVKElement) AppendData(dst []byte) []byte { return append(dst, e[:]...) }

// SaplingDFVKElement is the Sapling component of a unified full viewing
// key: the diversifiable full viewing key ak || nk || ovk || dk.
type SaplingDFVKElement [SaplingDFVKLen]byte

func (SaplingDFVKElement) TypeCode() byte                { return TypeSapling }
func (SaplingDFVKElement) DataLen() int                  { return SaplingDFVKLen }
func (e SaplingDFVKElement) AppendData(dst []byte) []byte { return append(dst, e[:]...) }

// OrchardFVKElement is the Orchard component of a unified full viewing
// key: ak || nk || rivk.
type OrchardFVKElement [OrchardFVKLen]byte

func (OrchardFVKElement) TypeCode() byte                { return TypeOrchard }
func (OrchardFVKElement) DataLen() int                  { return OrchardFVKLen }
func (e OrchardFVKElement) AppendData(dst []byte) []byte { return append(dst, e[:]...) }

// TransparentIVKElement is the transparent component of a unified
// incoming viewing key.
type TransparentIVKElement [TransparentIVKLen]byte

func (TransparentIVKElement) TypeCode() byte                { return TypeP2PKH }
func (TransparentIVKElement) DataLen() int                  { return TransparentIVKLen }
func (e TransparentIVKElement) AppendData(dst []byte) []byte { return append(dst, e[:]...) }

// SaplingIVKElement is the Sapling component of a unified incoming
// viewing key: dk || ivk.
type SaplingIVKElement [SaplingIVKLen]byte

func (SaplingIVKElement) TypeCode() byte                { return TypeSapling }
func (SaplingIVKElement) DataLen() int                  { return SaplingIVKLen }
func (e SaplingIVKElement) AppendData(dst []byte) []byte { return append(dst, e[:]...) }

// OrchardIVKElement is the Orchard component of a unified incoming
// viewing key: dk || ivk.
type OrchardIVKElement [OrchardIVKLen]byte

func (OrchardIVKElement) TypeCode() byte                { return TypeOrchard }
func (OrchardIVKElement) DataLen() int                  { return OrchardIVKLen }
func (e OrchardIVKElement) AppendData(dst []byte) []byte { return append(dst, e[:]...) }

// ============================================================================
// Registries
// ============================================================================

// registryEntry binds a type code to its fixed payload length and reader
// within one container kind.
type registryEntry struct {
	length int
	read   elementReader
}

func fixedReader(length int, build func([]byte, Network) Element) registryEntry {
	return registryEntry{
		length: length,
		read: func(data []byte, net Network) (Element, error) {
			return build(data, net), nil
		},
	}
}

var addressRegistry = map[byte]registryEntry{
	TypeP2PKH: fixedReader(TransparentReceiverLen, func(d []byte, _ Network) Element {
		var r P2PKHReceiver
		copy(r[:], d)
		return r
	}),
	TypeP2SH: fixedReader(TransparentReceiverLen, func(d []byte, _ Network) Element {
		var r P2SHReceiver
		copy(r[:], d)
		return r
	}),
	TypeSapling: fixedReader(SaplingReceiverLen, func(d []byte, _ Network) Element {
		var r SaplingReceiver
		copy(r[:], d)
		return r
	}),
	TypeOrchard: fixedReader(OrchardReceiverLen, func(d []byte, _ Network) Element {
		var r OrchardReceiver
		copy(r[:], d)
		return r
	}),
}

var fvkRegistry = map[byte]registryEntry{
	TypeP2PKH: fixedReader(TransparentFVKLen, func(d []byte, _ Network) Element {
		var e TransparentFVKElement
		copy(e[:], d)
		return e
	}),
	TypeSapling: fixedReader(SaplingDFVKLen, func(d []byte, _ Network) Element {
		var e SaplingDFVKElement
		copy(e[:], d)
		return e
	}),
	TypeOrchard: fixedReader(OrchardFVKLen, func(d []byte, _ Network) Element {
		var e OrchardFVKElement
		copy(e[:], d)
		return e
	}),
}

var ivkRegistry = map[byte]registryEntry{
	TypeP2PKH: fixedReader(TransparentIVKLen, func(d []byte, _ Network) Element {
		var e TransparentIVKElement
		copy(e[:], d)
		return e
	}),
	TypeSapling: fixedReader(SaplingIVKLen, func(d []byte, _ Network) Element {
		var e SaplingIVKElement
		copy(e[:], d)
		return e
	}),
	TypeOrchard: fixedReader(OrchardIVKLen, func(d []byte, _ Network) Element {
		var e OrchardIVKElement
		copy(e[:], d)
		return e
	}),
}
