package keys

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/zcash-keys/pkg/address"
	"github.com/suffix-labs/zcash-keys/pkg/backend"
)

func TestSaplingDerivationChain(t *testing.T) {
	expsk, err := ExpandSaplingSpendingKey(address.Mainnet, testSeed(0x10))
	require.NoError(t, err)

	fvk, err := expsk.FullViewingKey()
	require.NoError(t, err)

	// ask, nsk, ovk are distinct 32-byte components.
	raw := expsk.Bytes()
	require.NotEqual(t, raw[0:32], raw[32:64])
	require.NotEqual(t, raw[32:64], raw[64:96])

	// Expansion is deterministic.
	again, err := ExpandSaplingSpendingKey(address.Mainnet, testSeed(0x10))
	require.NoError(t, err)
	require.Equal(t, expsk.Bytes(), again.Bytes())

	fvk2, err := expsk.FullViewingKey()
	require.NoError(t, err)
	require.Equal(t, fvk.Bytes(), fvk2.Bytes())
}

func testSaplingIVK(t *testing.T, tag byte) SaplingIncomingViewingKey {
	t.Helper()
	expsk, err := ExpandSaplingSpendingKey(address.Mainnet, testSeed(tag))
	require.NoError(t, err)
	fvk, err := expsk.FullViewingKey()
	require.NoError(t, err)
	var dk [32]byte
	copy(dk[:], prfExpandLocalForTest(testSeed(tag)))
	dfvk := fvk.WithDiversifierKey(dk)
	ivk, err := dfvk.IncomingViewingKey()
	require.NoError(t, err)
	return ivk
}

// prfExpandLocalForTest derives a diversifier key for tests the same way
// the HD layer does, without depending on it.
func prfExpandLocalForTest(sk [32]byte) []byte {
	out := prfExpand(sk[:], 0x10)
	return out[:32]
}

func TestSaplingDFVKRoundTrip(t *testing.T) {
	expsk, err := ExpandSaplingSpendingKey(address.Testnet, testSeed(0x11))
	require.NoError(t, err)
	fvk, err := expsk.FullViewingKey()
	require.NoError(t, err)
	var dk [32]byte
	copy(dk[:], prfExpandLocalForTest(testSeed(0x11)))
	dfvk := fvk.WithDiversifierKey(dk)

	raw := dfvk.Bytes()
	back, err := SaplingDFVKFromBytes(address.Testnet, raw[:])
	require.NoError(t, err)
	require.Equal(t, dfvk.Bytes(), back.Bytes())
	require.Equal(t, dk, back.DiversifierKey())
}

func TestSaplingReceiverSearch(t *testing.T) {
	ivk := testSaplingIVK(t, 0x22)

	// Not every index yields a valid diversifier; FindReceiver must land
	// on the first valid one at or after the start.
	index, r, err := ivk.FindReceiver(DiversifierIndexFromUint64(0))
	require.NoError(t, err)

	// The found index itself must be directly usable.
	direct, err := ivk.CreateReceiver(index)
	require.NoError(t, err)
	require.Equal(t, r, direct)

	// Every index before the found one must be invalid.
	v, ok := index.Uint64()
	require.True(t, ok)
	for i := uint64(0); i < v; i++ {
		_, err := ivk.CreateReceiver(DiversifierIndexFromUint64(i))
		if !errors.Is(err, backend.ErrInvalidDiversifier) {
			t.Fatalf("index %d before default should be invalid, got %v", i, err)
		}
	}

	// Default receiver is the scan from index zero.
	di, dr, err := ivk.CreateDefaultReceiver()
	require.NoError(t, err)
	require.Equal(t, index, di)
	require.Equal(t, r, dr)
}

func TestSaplingReceiverRecognition(t *testing.T) {
	ivk := testSaplingIVK(t, 0x23)

	index, r, err := ivk.FindReceiver(DiversifierIndexFromUint64(0))
	require.NoError(t, err)

	if !ivk.CheckReceiver(r) {
		t.Fatal("key did not recognize its own receiver")
	}
	got, ok := ivk.TryGetDiversifierIndex(r)
	require.True(t, ok)
	require.Equal(t, index, got)

	other := testSaplingIVK(t, 0x24)
	if other.CheckReceiver(r) {
		t.Fatal("unrelated key recognized a foreign receiver")
	}
}

func TestSaplingIVKRoundTrip(t *testing.T) {
	ivk := testSaplingIVK(t, 0x25)
	raw := ivk.Bytes()
	back, err := SaplingIVKFromBytes(address.Mainnet, raw[:])
	require.NoError(t, err)
	require.Equal(t, ivk.Bytes(), back.Bytes())
}

func TestSaplingFromBytesLengths(t *testing.T) {
	if _, err := SaplingDFVKFromBytes(address.Mainnet, make([]byte, 127)); !errors.Is(err, address.ErrInvalidArgument) {
		t.Fatalf("expected invalid-argument for short dfvk, got %v", err)
	}
	if _, err := SaplingIVKFromBytes(address.Mainnet, make([]byte, 65)); !errors.Is(err, address.ErrInvalidArgument) {
		t.Fatalf("expected invalid-argument for long ivk, got %v", err)
	}
}
