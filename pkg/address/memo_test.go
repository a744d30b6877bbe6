package address

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func memoWith(first byte, rest []byte) [MemoSize]byte {
	var m [MemoSize]byte
	m[0] = first
	copy(m[1:], rest)
	return m
}

func TestDecodeMemoNone(t *testing.T) {
	m, err := DecodeMemo(NoMemo())
	require.NoError(t, err)
	require.Equal(t, MemoNone, m.Kind)
}

func TestDecodeMemoText(t *testing.T) {
	raw, err := EncodeTextMemo("thanks for lunch")
	require.NoError(t, err)
	m, err := DecodeMemo(raw)
	require.NoError(t, err)
	require.Equal(t, MemoText, m.Kind)
	require.Equal(t, "thanks for lunch", m.Text)
}

func TestDecodeMemoTextTrimsTrailingZeros(t *testing.T) {
	var raw [MemoSize]byte
	copy(raw[:], "hi")
	m, err := DecodeMemo(raw)
	require.NoError(t, err)
	require.Equal(t, "hi", m.Text)
}

func TestDecodeMemoUTF8(t *testing.T) {
	raw, err := EncodeTextMemo("日本語のメモ ✓")
	require.NoError(t, err)
	m, err := DecodeMemo(raw)
	require.NoError(t, err)
	require.Equal(t, "日本語のメモ ✓", m.Text)
}

func TestDecodeMemoInvalidUTF8(t *testing.T) {
	raw := memoWith('a', []byte{0xff, 0xfe})
	var parse *ParseError
	if _, err := DecodeMemo(raw); !errors.As(err, &parse) {
		t.Fatalf("expected ParseError for invalid UTF-8, got %v", err)
	}
}

func TestDecodeMemoArbitrary(t *testing.T) {
	data := make([]byte, MemoSize-1)
	for i := range data {
		data[i] = byte(i)
	}
	raw := memoWith(0xff, data)
	m, err := DecodeMemo(raw)
	require.NoError(t, err)
	require.Equal(t, MemoArbitrary, m.Kind)
	require.Equal(t, data, m.Data)
}

func TestDecodeMemoFutureSentinels(t *testing.T) {
	// 0xF6 followed by non-zero data, and any first byte in [0xF5, 0xFF)
	// other than 0xF6-with-zeros, are reserved for future formats.
	cases := [][MemoSize]byte{
		memoWith(0xf6, []byte{0x01}),
		memoWith(0xf5, nil),
		memoWith(0xfe, nil),
	}
	for i, raw := range cases {
		m, err := DecodeMemo(raw)
		require.NoError(t, err, "case %d", i)
		require.Equal(t, MemoFuture, m.Kind, "case %d", i)
	}
}

func TestEncodeTextMemoBounds(t *testing.T) {
	long := make([]byte, MemoSize+1)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := EncodeTextMemo(string(long)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid-argument for oversize memo, got %v", err)
	}

	// A leading sentinel byte cannot be represented as text.
	if _, err := EncodeTextMemo("\xf5odd"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid-argument for sentinel first byte, got %v", err)
	}

	exact := make([]byte, MemoSize)
	for i := range exact {
		exact[i] = 'b'
	}
	raw, err := EncodeTextMemo(string(exact))
	require.NoError(t, err)
	m, err := DecodeMemo(raw)
	require.NoError(t, err)
	require.Equal(t, string(exact), m.Text)
}
