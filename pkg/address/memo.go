// Memo field interpretation (ZIP 302).
//
// Shielded outputs carry a fixed 512-byte memo whose leading byte is a
// sentinel: 0xF6 followed by zeros means "no memo", bytes at or below
// 0xF4 begin a UTF-8 text memo, 0xFF marks arbitrary proprietary data,
// and the range 0xF5..0xFE is reserved for future formats.
package address

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// MemoSize is the fixed memo field length in bytes.
const MemoSize = 512

// MemoKind classifies a decoded memo.
type MemoKind uint8

const (
	// MemoNone means the sentinel "no memo" value (0xF6 then zeros).
	MemoNone MemoKind = iota
	// MemoText means a UTF-8 text message.
	MemoText
	// MemoArbitrary means opaque proprietary data (leading 0xFF).
	MemoArbitrary
	// MemoFuture means a reserved leading byte this library does not
	// interpret (0xF5..0xFE other than 0xF6).
	MemoFuture
)

func (k MemoKind) String() string {
	switch k {
	case MemoNone:
		return "none"
	case MemoText:
		return "text"
	case MemoArbitrary:
		return "arbitrary"
	case MemoFuture:
		return "future"
	default:
		return fmt.Sprintf("memokind(%d)", uint8(k))
	}
}

// Memo is a decoded 512-byte memo field.
type Memo struct {
	Kind MemoKind
	// Text is set for MemoText memos: the UTF-8 message with trailing
	// zero padding removed.
	Text string
	// Data is set for MemoArbitrary memos: the 511 bytes following the
	// 0xFF sentinel, verbatim.
	Data []byte
}

// NoMemo returns the canonical "no memo" 512-byte buffer.
func NoMemo() [MemoSize]byte {
	var m [MemoSize]byte
	m[0] = 0xf6
	return m
}

// DecodeMemo interprets a 512-byte memo field.
func DecodeMemo(raw [MemoSize]byte) (Memo, error) {
	switch {
	case raw[0] == 0xf6:
		// Only the exact sentinel (all remaining bytes zero) is "no
		// memo"; 0xF6 followed by other data is a future format.
		if len(bytes.TrimRight(raw[1:], "\x00")) == 0 {
			return Memo{Kind: MemoNone}, nil
		}
		return Memo{Kind: MemoFuture}, nil
	case raw[0] == 0xff:
		return Memo{Kind: MemoArbitrary, Data: append([]byte(nil), raw[1:]...)}, nil
	case raw[0] >= 0xf5:
		return Memo{Kind: MemoFuture}, nil
	default:
		text := bytes.TrimRight(raw[:], "\x00")
		if !utf8.Valid(text) {
			return Memo{}, &ParseError{Message: "memo text is not valid UTF-8"}
		}
		return Memo{Kind: MemoText, Text: string(text)}, nil
	}
}

// EncodeTextMemo builds a 512-byte memo field from a UTF-8 message.
// Messages longer than MemoSize bytes are a contract violation.
func EncodeTextMemo(text string) ([MemoSize]byte, error) {
	var m [MemoSize]byte
	if len(text) > MemoSize {
		return m, fmt.Errorf("%w: memo text exceeds %d bytes", ErrInvalidArgument, MemoSize)
	}
	if len(text) > 0 && text[0] >= 0xf5 {
		// A leading byte in the sentinel range would change the memo's
		// meaning on decode; valid UTF-8 text never starts with one.
		return m, fmt.Errorf("%w: memo text must not begin with a sentinel byte", ErrInvalidArgument)
	}
	copy(m[:], text)
	return m, nil
}
