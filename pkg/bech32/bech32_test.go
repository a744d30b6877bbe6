package bech32

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Valid checksum vectors from BIP 173.
var validBech32 = []string{
	"A12UEL5L",
	"a12uel5l",
	"an83characterlonghumanreadablepartthatcontainsthenumber1andtheexcludedcharactersbio1tt5tgs",
	"abcdef1qpzry9x8gf2tvdw0s3jn54khce6mu7lq81jx",
	"split1checkupstagehandshakeupstreamerranterredcaperred2y9e3w",
	"?1ezyfcl",
}

// Valid checksum vectors from BIP 350.
var validBech32m = []string{
	"A1LQFN3A",
	"a1lqfn3a",
	"an83characterlonghumanreadablepartthatcontainsthetheexcludedcharactersbioandnumber11sg7hg6",
	"abcdef1l7aum6echk45nj3s0wdvt2fg8x9yrzpqzd3ryx",
	"split1checkupstagehandshakeupstreamerranterredcaperredlc445v",
	"?1v759aa",
}

func TestValidChecksums(t *testing.T) {
	for _, s := range validBech32 {
		_, _, err := Decode(s)
		assert.NoError(t, err, "bech32 %q", s)
	}
	for _, s := range validBech32m {
		_, _, err := DecodeM(s)
		assert.NoError(t, err, "bech32m %q", s)
	}
}

// A string must never verify under both constants.
func TestVariantsAreExclusive(t *testing.T) {
	for _, s := range validBech32 {
		_, _, err := DecodeM(s)
		assert.Error(t, err, "bech32 string %q accepted as bech32m", s)
	}
	for _, s := range validBech32m {
		_, _, err := Decode(s)
		assert.Error(t, err, "bech32m string %q accepted as bech32", s)
	}
}

func TestDecodeAnyReportsVariant(t *testing.T) {
	_, _, variant, err := DecodeAny("a12uel5l")
	require.NoError(t, err)
	assert.Equal(t, VariantBech32, variant)

	_, _, variant, err = DecodeAny("a1lqfn3a")
	require.NoError(t, err)
	assert.Equal(t, VariantBech32m, variant)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code ErrorCode
	}{
		{"no separator", "pzry9x8gf2tvdw0s3jn54khce6mu7l", CodeNoSeparator},
		{"empty hrp", "1pzry9x8gf2tvdw0s3jn54khce6mu7l", CodeInvalidHRP},
		{"empty hrp short", "10a06t8", CodeInvalidHRP},
		{"out of range hrp char", " 1nwldj5", CodeInvalidCharacter},
		{"control char", "\x7f1axkwrx", CodeInvalidCharacter},
		{"invalid data char", "x1b4n0q5v", CodeInvalidCharacter},
		{"mixed case", "aBcdef1qpzry9x8gf2tvdw0s3jn54khce6mu7lq81jx", CodeInvalidCharacter},
		{"checksum too short", "li1dgmt3", CodeInvalidLength},
		{"invalid char in checksum", "de1lg7wt\xff", CodeInvalidCharacter},
		{"wrong checksum", "A1G7SGD8", CodeInvalidChecksum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.in)
			require.Error(t, err)
			de, ok := err.(*DecodeError)
			require.True(t, ok, "expected *DecodeError, got %T", err)
			assert.Equal(t, tt.code, de.Code)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	payloads := [][]byte{
		{},
		{0x00},
		{0xff},
		{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07},
		[]byte("the quick brown fox jumps over the lazy dog"),
	}
	for _, payload := range payloads {
		for _, hrp := range []string{"zs", "zxviews", "u", "secret-orchard-sk-test"} {
			s, err := Encode(hrp, payload)
			require.NoError(t, err)
			gotHRP, gotData, err := Decode(s)
			require.NoError(t, err)
			assert.Equal(t, hrp, gotHRP)
			assert.Equal(t, len(payload), len(gotData))
			assert.Equal(t, append([]byte{}, payload...), append([]byte{}, gotData...))

			m, err := EncodeM(hrp, payload)
			require.NoError(t, err)
			gotHRP, gotData, err = DecodeM(m)
			require.NoError(t, err)
			assert.Equal(t, hrp, gotHRP)
			assert.Equal(t, len(payload), len(gotData))
		}
	}
}

// The data alphabet must cover all 32 values bijectively; payloads whose
// 5-bit groups land on the high values must encode to the exact BIP 173
// characters and decode back.
func TestAlphabetCoversAllValues(t *testing.T) {
	require.Len(t, charset, 32)
	for i := 0; i < len(charset); i++ {
		require.Equal(t, int8(i), charsetRev[charset[i]], "charset[%d] = %q", i, charset[i])
	}

	// 0xEF7BDEF7BD is eight repetitions of the 5-bit group 29 ('a');
	// 0xFFFFFFFFFF is eight repetitions of 31 ('l').
	s, err := Encode("test", []byte{0xef, 0x7b, 0xde, 0xf7, 0xbd})
	require.NoError(t, err)
	assert.Equal(t, "test1aaaaaaaaj6e9ee", s)

	s, err = Encode("zs", []byte{0xff, 0xff, 0xff, 0xff, 0xff})
	require.NoError(t, err)
	assert.Equal(t, "zs1llllllllxddvdt", s)

	m, err := EncodeM("zs", []byte{0xff, 0xff, 0xff, 0xff, 0xff})
	require.NoError(t, err)
	assert.Equal(t, "zs1lllllllln3aqgf", m)

	_, data, err := Decode("test1aaaaaaaaj6e9ee")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xef, 0x7b, 0xde, 0xf7, 0xbd}, data)
}

// Flipping any single data character of a valid string must break the
// checksum (the BCH code detects all single-character errors).
func TestSingleCharacterMutationDetected(t *testing.T) {
	s, err := Encode("test", []byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x23})
	require.NoError(t, err)

	sep := strings.LastIndexByte(s, '1')
	for i := sep + 1; i < len(s); i++ {
		for j := 0; j < len(charset); j++ {
			if charset[j] == s[i] {
				continue
			}
			mutated := s[:i] + string(charset[j]) + s[i+1:]
			_, _, err := Decode(mutated)
			assert.Error(t, err, "mutation at %d to %q not detected", i, charset[j])
		}
	}
}

func TestEncodeRejectsBadHRP(t *testing.T) {
	_, err := Encode("", []byte{1})
	assert.Error(t, err)
	_, err = Encode("UPPER", []byte{1})
	assert.Error(t, err)
	_, err = Encode("sp ace", []byte{1})
	assert.Error(t, err)
}

func TestDecodeInto(t *testing.T) {
	s, err := Encode("buf", []byte{1, 2, 3, 4})
	require.NoError(t, err)

	dst := make([]byte, 4)
	hrp, n, variant, err := DecodeInto(dst, s)
	require.NoError(t, err)
	assert.Equal(t, "buf", hrp)
	assert.Equal(t, 4, n)
	assert.Equal(t, VariantBech32, variant)
	assert.Equal(t, []byte{1, 2, 3, 4}, dst)

	// Undersized buffer: error reported before any mutation.
	small := []byte{0xaa, 0xbb}
	_, _, _, err = DecodeInto(small, s)
	require.Error(t, err)
	de, ok := err.(*DecodeError)
	require.True(t, ok)
	assert.Equal(t, CodeBufferTooSmall, de.Code)
	assert.Equal(t, []byte{0xaa, 0xbb}, small)
}

func TestCaseNormalization(t *testing.T) {
	// Uppercase input decodes to the same payload as lowercase.
	upperHRP, upperData, err := Decode("A12UEL5L")
	require.NoError(t, err)
	lowerHRP, lowerData, err := Decode("a12uel5l")
	require.NoError(t, err)
	assert.Equal(t, lowerHRP, upperHRP)
	assert.Equal(t, lowerData, upperData)
}
