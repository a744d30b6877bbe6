package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiversifierIndexUint64RoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 255, 256, 1 << 32, ^uint64(0)} {
		d := DiversifierIndexFromUint64(v)
		got, ok := d.Uint64()
		require.True(t, ok)
		require.Equal(t, v, got)
	}
}

func TestDiversifierIndexLittleEndian(t *testing.T) {
	d := DiversifierIndexFromUint64(0x0102030405060708)
	require.Equal(t, byte(0x08), d[0])
	require.Equal(t, byte(0x01), d[7])
	require.Equal(t, byte(0x00), d[8])
}

func TestDiversifierIndexBeyondUint64(t *testing.T) {
	var d DiversifierIndex
	d[10] = 1
	if _, ok := d.Uint64(); ok {
		t.Fatal("index above 2^64 should not report a uint64 value")
	}
}

func TestDiversifierIndexNext(t *testing.T) {
	d := DiversifierIndexFromUint64(255)
	n, err := d.Next()
	require.NoError(t, err)
	got, ok := n.Uint64()
	require.True(t, ok)
	require.Equal(t, uint64(256), got)

	// Carry propagates across all 11 bytes; the maximum value overflows.
	var max DiversifierIndex
	for i := range max {
		max[i] = 0xff
	}
	if _, err := max.Next(); err == nil {
		t.Fatal("expected overflow error at maximum index")
	}
}
