// Package bech32 implements the Bech32 and Bech32m checked base32 encodings.
//
// Bech32 is defined in BIP 173 and Bech32m in BIP 350; the two differ only
// in the constant the checksum is verified against. Zcash uses Bech32 for
// Sapling addresses and extended keys (ZIP 32) and Bech32m for unified
// addresses and unified viewing keys (ZIP 316), so both variants are
// exposed here and a string is never accepted under both.
//
// Unlike the Bitcoin segwit usage, Zcash payloads routinely exceed the
// 90-character limit of BIP 173 (a unified full viewing key is several
// hundred characters), so this implementation enforces the relaxed
// ZIP 316 limit instead.
//
// References:
//   - BIP 173: https://github.com/bitcoin/bips/blob/master/bip-0173.mediawiki
//   - BIP 350: https://github.com/bitcoin/bips/blob/master/bip-0350.mediawiki
//   - ZIP 316: https://zips.z.cash/zip-0316
package bech32

import "strings"

// Variant selects the checksum constant.
type Variant uint32

// Checksum constants. The algorithm is identical for both variants; only
// the value the polymod must equal differs.
const (
	VariantBech32  Variant = 1
	VariantBech32m Variant = 0x2bc830a3
)

func (v Variant) String() string {
	switch v {
	case VariantBech32:
		return "bech32"
	case VariantBech32m:
		return "bech32m"
	default:
		return "unknown"
	}
}

// maxLength is the relaxed overall string limit (ZIP 316 padded encodings
// stay far below this; BIP 173's 90-character limit is deliberately not
// enforced).
const maxLength = 8192

// charset is the 32-character data alphabet shared by both variants.
const charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// generator holds the five fixed polymod generator constants.
var generator = [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}

// charsetRev maps an ASCII byte to its 5-bit value, or -1.
var charsetRev [128]int8

func init() {
	for i := range charsetRev {
		charsetRev[i] = -1
	}
	for i := 0; i < len(charset); i++ {
		charsetRev[charset[i]] = int8(i)
	}
}

// polymod computes the Bech32 checksum polynomial over 5-bit values.
func polymod(values []byte) uint32 {
	chk := uint32(1)
	for _, v := range values {
		top := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i := 0; i < 5; i++ {
			if (top>>uint(i))&1 == 1 {
				chk ^= generator[i]
			}
		}
	}
	return chk
}

// hrpExpand expands the human-readable part per BIP 173: the high bits of
// each character, a zero, then the low bits.
func hrpExpand(hrp string) []byte {
	out := make([]byte, 0, len(hrp)*2+1)
	for i := 0; i < len(hrp); i++ {
		out = append(out, hrp[i]>>5)
	}
	out = append(out, 0)
	for i := 0; i < len(hrp); i++ {
		out = append(out, hrp[i]&31)
	}
	return out
}

// createChecksum computes the six checksum groups for hrp+data under the
// given variant.
func createChecksum(hrp string, data []byte, variant Variant) []byte {
	values := append(hrpExpand(hrp), data...)
	values = append(values, 0, 0, 0, 0, 0, 0)
	mod := polymod(values) ^ uint32(variant)
	checksum := make([]byte, 6)
	for i := 0; i < 6; i++ {
		checksum[i] = byte(mod >> uint(5*(5-i)) & 31)
	}
	return checksum
}

// verifyChecksum reports whether the trailing six groups of data verify
// against hrp under the given variant.
func verifyChecksum(hrp string, data []byte, variant Variant) bool {
	return polymod(append(hrpExpand(hrp), data...)) == uint32(variant)
}

// validateHRP checks the human-readable part for encoding.
func validateHRP(hrp string) *DecodeError {
	if len(hrp) == 0 {
		return errorf(CodeInvalidHRP, "human-readable part must not be empty")
	}
	for i := 0; i < len(hrp); i++ {
		c := hrp[i]
		if c < 33 || c > 126 {
			return errorf(CodeInvalidHRP, "human-readable part contains invalid character %q at position %d", c, i)
		}
		if c >= 'A' && c <= 'Z' {
			return errorf(CodeInvalidHRP, "human-readable part must be lowercase for encoding")
		}
	}
	return nil
}

// convertBits regroups data from fromBits-wide groups to toBits-wide
// groups, MSB first. With pad set, a final partial group is zero-padded;
// without it, a non-zero or over-long final group is rejected.
func convertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, *DecodeError) {
	var acc uint32
	var bits uint
	maxv := uint32(1)<<toBits - 1
	out := make([]byte, 0, len(data)*int(fromBits)/int(toBits)+1)
	for _, b := range data {
		if uint(b)>>fromBits != 0 {
			return nil, errorf(CodeInvalidCharacter, "value %d exceeds %d bits", b, fromBits)
		}
		acc = acc<<fromBits | uint32(b)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, byte(acc>>bits&maxv))
		}
	}
	if pad {
		if bits > 0 {
			out = append(out, byte(acc<<(toBits-bits)&maxv))
		}
	} else {
		// The final 5-bit group carries at most 4 bits of padding. More
		// leftover bits than that means a whole group of padding was
		// appended; any set padding bit means the payload was mangled.
		if bits >= fromBits {
			return nil, errorf(CodeInvalidLength, "excess padding group (%d leftover bits)", bits)
		}
		if acc<<(toBits-bits)&maxv != 0 {
			return nil, errorf(CodeBadPadding, "non-zero bits in final padding group")
		}
	}
	return out, nil
}

// Encode encodes data under hrp with a Bech32 checksum.
//
// The HRP must be non-empty, lowercase, and within the printable ASCII
// range; data may be arbitrary bytes.
func Encode(hrp string, data []byte) (string, error) {
	return encode(hrp, data, VariantBech32)
}

// EncodeM encodes data under hrp with a Bech32m checksum.
func EncodeM(hrp string, data []byte) (string, error) {
	return encode(hrp, data, VariantBech32m)
}

func encode(hrp string, data []byte, variant Variant) (string, error) {
	if err := validateHRP(hrp); err != nil {
		return "", err
	}
	grouped, cErr := convertBits(data, 8, 5, true)
	if cErr != nil {
		return "", cErr
	}
	if len(hrp)+1+len(grouped)+6 > maxLength {
		return "", errorf(CodeInvalidLength, "encoded string would exceed %d characters", maxLength)
	}

	var sb strings.Builder
	sb.Grow(len(hrp) + 1 + len(grouped) + 6)
	sb.WriteString(hrp)
	sb.WriteByte('1')
	for _, v := range grouped {
		sb.WriteByte(charset[v])
	}
	for _, v := range createChecksum(hrp, grouped, variant) {
		sb.WriteByte(charset[v])
	}
	return sb.String(), nil
}

// Decode decodes a Bech32 string, returning its HRP and payload bytes.
func Decode(s string) (string, []byte, error) {
	hrp, data, err := decode(s, VariantBech32)
	if err != nil {
		return "", nil, err
	}
	return hrp, data, nil
}

// DecodeM decodes a Bech32m string, returning its HRP and payload bytes.
func DecodeM(s string) (string, []byte, error) {
	hrp, data, err := decode(s, VariantBech32m)
	if err != nil {
		return "", nil, err
	}
	return hrp, data, nil
}

// DecodeAny decodes a string under whichever variant its checksum
// verifies against, and reports that variant. A given string can only
// ever verify under one of the two constants.
func DecodeAny(s string) (string, []byte, Variant, error) {
	hrp, data, err := decode(s, VariantBech32)
	if err == nil {
		return hrp, data, VariantBech32, nil
	}
	if de, ok := err.(*DecodeError); ok && de.Code == CodeInvalidChecksum {
		hrp, data, err = decode(s, VariantBech32m)
		if err == nil {
			return hrp, data, VariantBech32m, nil
		}
	}
	return "", nil, 0, err
}

// DecodeInto decodes a Bech32/Bech32m string into a caller-provided
// buffer and returns the HRP, the number of payload bytes written, and
// the verified variant. If dst is too small the buffer is left untouched
// and a CodeBufferTooSmall error is returned.
func DecodeInto(dst []byte, s string) (string, int, Variant, error) {
	hrp, data, variant, err := DecodeAny(s)
	if err != nil {
		return "", 0, 0, err
	}
	if len(dst) < len(data) {
		return "", 0, 0, errorf(CodeBufferTooSmall, "need %d bytes, have %d", len(data), len(dst))
	}
	copy(dst, data)
	return hrp, len(data), variant, nil
}

// decode runs the ordered validation pipeline: separator location, case
// and character checks, checksum verification under the requested
// variant, then bit regrouping with strict padding.
func decode(s string, variant Variant) (string, []byte, error) {
	if len(s) > maxLength {
		return "", nil, errorf(CodeInvalidLength, "string exceeds %d characters", maxLength)
	}

	// The HRP may itself contain '1'; the separator is the last one.
	sep := strings.LastIndexByte(s, '1')
	if sep < 0 {
		return "", nil, errorf(CodeNoSeparator, "no separator character")
	}
	if sep < 1 {
		return "", nil, errorf(CodeInvalidHRP, "human-readable part must not be empty")
	}
	if len(s)-sep-1 < 6 {
		return "", nil, errorf(CodeInvalidLength, "data section shorter than checksum")
	}

	var hasLower, hasUpper bool
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 33 || c > 126 {
			return "", nil, errorf(CodeInvalidCharacter, "invalid character %q at position %d", c, i)
		}
		hasLower = hasLower || (c >= 'a' && c <= 'z')
		hasUpper = hasUpper || (c >= 'A' && c <= 'Z')
	}
	if hasLower && hasUpper {
		return "", nil, errorf(CodeInvalidCharacter, "string mixes upper and lower case")
	}
	s = strings.ToLower(s)
	hrp := s[:sep]

	data := make([]byte, 0, len(s)-sep-1)
	for i := sep + 1; i < len(s); i++ {
		v := charsetRev[s[i]]
		if v < 0 {
			return "", nil, errorf(CodeInvalidCharacter, "invalid data character %q at position %d", s[i], i)
		}
		data = append(data, byte(v))
	}

	if !verifyChecksum(hrp, data, variant) {
		return "", nil, errorf(CodeInvalidChecksum, "checksum verification failed (%s)", variant)
	}

	payload, cErr := convertBits(data[:len(data)-6], 5, 8, false)
	if cErr != nil {
		return "", nil, cErr
	}
	return hrp, payload, nil
}
