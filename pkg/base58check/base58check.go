// Package base58check implements the Base58Check encoding used by Zcash
// transparent and Sprout addresses.
//
// The encoding is the Bitcoin scheme with one difference: Zcash version
// prefixes are two bytes (chosen so mainnet transparent addresses start
// with "t1"/"t3" and Sprout addresses with "zc"), where Bitcoin uses one.
// The checksum is the first four bytes of SHA256(SHA256(version || payload)).
//
// The Base58 alphabet conversion itself is delegated to
// github.com/btcsuite/btcutil/base58.
package base58check

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
)

const checksumLen = 4

// ErrChecksum is returned when the trailing four checksum bytes do not
// match the decoded payload.
type ErrChecksum struct {
	Want [4]byte
	Got  [4]byte
}

func (e *ErrChecksum) Error() string {
	return fmt.Sprintf("base58check: checksum mismatch (want %x, got %x)", e.Want, e.Got)
}

// ErrInvalidFormat is returned for strings too short to carry a version
// and checksum, or containing non-alphabet characters.
type ErrInvalidFormat struct {
	Message string
}

func (e *ErrInvalidFormat) Error() string {
	return "base58check: " + e.Message
}

// checksum computes the first four bytes of a double SHA256.
func checksum(input []byte) (sum [4]byte) {
	h := sha256.Sum256(input)
	h2 := sha256.Sum256(h[:])
	copy(sum[:], h2[:checksumLen])
	return
}

// CheckEncode encodes payload under the two-byte version prefix with a
// trailing double-SHA256 checksum.
func CheckEncode(version [2]byte, payload []byte) string {
	b := make([]byte, 0, 2+len(payload)+checksumLen)
	b = append(b, version[0], version[1])
	b = append(b, payload...)
	sum := checksum(b)
	b = append(b, sum[:]...)
	return base58.Encode(b)
}

// CheckDecode decodes a Base58Check string, returning its two-byte
// version prefix and payload after verifying the checksum.
func CheckDecode(s string) (version [2]byte, payload []byte, err error) {
	decoded := base58.Decode(s)
	if len(decoded) == 0 && len(s) != 0 {
		return version, nil, &ErrInvalidFormat{Message: "invalid base58 character"}
	}
	if len(decoded) < 2+checksumLen {
		return version, nil, &ErrInvalidFormat{Message: "string too short"}
	}
	var got [4]byte
	copy(got[:], decoded[len(decoded)-checksumLen:])
	want := checksum(decoded[:len(decoded)-checksumLen])
	if want != got {
		return version, nil, &ErrChecksum{Want: want, Got: got}
	}
	version[0] = decoded[0]
	version[1] = decoded[1]
	payload = decoded[2 : len(decoded)-checksumLen]
	return version, payload, nil
}
