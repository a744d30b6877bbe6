package base58check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	versions := [][2]byte{
		{0x1c, 0xb8}, // t1 (mainnet P2PKH)
		{0x1c, 0xbd}, // t3 (mainnet P2SH)
		{0x1d, 0x25}, // tm (testnet P2PKH)
		{0x16, 0x9a}, // zc (mainnet Sprout)
	}
	payloads := [][]byte{
		make([]byte, 20),
		{0xde, 0xad, 0xbe, 0xef},
		make([]byte, 64),
	}
	for _, v := range versions {
		for _, p := range payloads {
			s := CheckEncode(v, p)
			gotV, gotP, err := CheckDecode(s)
			require.NoError(t, err)
			assert.Equal(t, v, gotV)
			assert.Equal(t, p, gotP)
		}
	}
}

func TestMainnetPrefixes(t *testing.T) {
	// The two-byte versions were chosen by the protocol so that encoded
	// addresses carry recognizable prefixes.
	h160 := make([]byte, 20)
	assert.Equal(t, "t1", CheckEncode([2]byte{0x1c, 0xb8}, h160)[:2])
	assert.Equal(t, "t3", CheckEncode([2]byte{0x1c, 0xbd}, h160)[:2])
	assert.Equal(t, "tm", CheckEncode([2]byte{0x1d, 0x25}, h160)[:2])
	assert.Equal(t, "zc", CheckEncode([2]byte{0x16, 0x9a}, make([]byte, 64))[:2])
}

func TestCorruptionDetected(t *testing.T) {
	s := CheckEncode([2]byte{0x1c, 0xb8}, []byte{1, 2, 3, 4, 5})

	// Swap one character for a different alphabet character.
	var mutated string
	if s[3] != '2' {
		mutated = s[:3] + "2" + s[4:]
	} else {
		mutated = s[:3] + "3" + s[4:]
	}
	_, _, err := CheckDecode(mutated)
	require.Error(t, err)

	_, _, err = CheckDecode("0OIl") // non-alphabet characters
	assert.Error(t, err)

	_, _, err = CheckDecode("2g") // too short to hold version + checksum
	assert.Error(t, err)
}
