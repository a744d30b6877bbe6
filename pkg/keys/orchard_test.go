package keys

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/zcash-keys/pkg/address"
)

func testSeed(tag byte) [32]byte {
	var sk [32]byte
	for i := range sk {
		sk[i] = tag ^ byte(i)
	}
	return sk
}

func TestOrchardSpendingKeyEncoding(t *testing.T) {
	sk, err := NewOrchardSpendingKey(address.Mainnet, testSeed(0x5a))
	require.NoError(t, err)

	encoded := sk.String()
	if !strings.HasPrefix(encoded, "secret-orchard-sk-main1") {
		t.Fatalf("unexpected mainnet encoding prefix: %s", encoded)
	}

	decoded, err := DecodeOrchardSpendingKey(encoded)
	require.NoError(t, err)
	require.Equal(t, sk.Bytes(), decoded.Bytes())
	require.Equal(t, address.Mainnet, decoded.Network())

	tsk, err := NewOrchardSpendingKey(address.Testnet, testSeed(0x5a))
	require.NoError(t, err)
	if !strings.HasPrefix(tsk.String(), "secret-orchard-sk-test1") {
		t.Fatalf("unexpected testnet encoding prefix: %s", tsk.String())
	}
}

func TestOrchardSpendingKeyRejectsZero(t *testing.T) {
	var zero [32]byte
	if _, err := NewOrchardSpendingKey(address.Mainnet, zero); err == nil {
		t.Fatal("expected zero spending key to be rejected")
	}
}

func TestOrchardSpendingKeyFromBytesLength(t *testing.T) {
	_, err := OrchardSpendingKeyFromBytes(address.Mainnet, make([]byte, 31))
	require.ErrorIs(t, err, address.ErrInvalidArgument)
}

func TestOrchardDerivationChain(t *testing.T) {
	sk, err := NewOrchardSpendingKey(address.Testnet, testSeed(0x01))
	require.NoError(t, err)

	fvk, err := sk.FullViewingKey()
	require.NoError(t, err)
	ivk, err := fvk.IncomingViewingKey()
	require.NoError(t, err)

	// Derivation is deterministic.
	fvk2, err := sk.FullViewingKey()
	require.NoError(t, err)
	require.Equal(t, fvk.Bytes(), fvk2.Bytes())

	r0, err := ivk.CreateReceiver(DiversifierIndexFromUint64(0))
	require.NoError(t, err)
	r1, err := ivk.CreateReceiver(DiversifierIndexFromUint64(1))
	require.NoError(t, err)
	if r0 == r1 {
		t.Fatal("distinct diversifier indexes produced the same receiver")
	}

	rd, err := ivk.CreateDefaultReceiver()
	require.NoError(t, err)
	require.Equal(t, r0, rd)
}

func TestOrchardReceiverRecognition(t *testing.T) {
	sk, err := NewOrchardSpendingKey(address.Mainnet, testSeed(0x33))
	require.NoError(t, err)
	fvk, err := sk.FullViewingKey()
	require.NoError(t, err)
	ivk, err := fvk.IncomingViewingKey()
	require.NoError(t, err)

	index := DiversifierIndexFromUint64(7)
	r, err := ivk.CreateReceiver(index)
	require.NoError(t, err)

	if !ivk.CheckReceiver(r) {
		t.Fatal("key did not recognize its own receiver")
	}
	got, ok := ivk.TryGetDiversifierIndex(r)
	require.True(t, ok)
	require.Equal(t, index, got)

	// A different account's key must not recognize it.
	other, err := NewOrchardSpendingKey(address.Mainnet, testSeed(0x34))
	require.NoError(t, err)
	ofvk, err := other.FullViewingKey()
	require.NoError(t, err)
	oivk, err := ofvk.IncomingViewingKey()
	require.NoError(t, err)
	if oivk.CheckReceiver(r) {
		t.Fatal("unrelated key recognized a foreign receiver")
	}
}

func TestOrchardInternalScope(t *testing.T) {
	sk, err := NewOrchardSpendingKey(address.Mainnet, testSeed(0x44))
	require.NoError(t, err)
	fvk, err := sk.FullViewingKey()
	require.NoError(t, err)

	internal := fvk.Internal()
	require.Equal(t, Internal, internal.Scope())
	require.Equal(t, External, fvk.Scope())
	if internal.Bytes() == fvk.Bytes() {
		t.Fatal("internal key must differ from external key")
	}
	// ak and nk are shared; only rivk is re-derived.
	ext, in := fvk.Bytes(), internal.Bytes()
	require.Equal(t, ext[:64], in[:64])

	// Deterministic.
	require.Equal(t, internal.Bytes(), fvk.Internal().Bytes())
}

func TestOrchardDefaultAddress(t *testing.T) {
	sk, err := NewOrchardSpendingKey(address.Mainnet, testSeed(0x21))
	require.NoError(t, err)
	fvk, err := sk.FullViewingKey()
	require.NoError(t, err)

	addr, err := fvk.DefaultAddress()
	require.NoError(t, err)
	require.Equal(t, address.Mainnet, addr.Network())
	if !strings.HasPrefix(addr.String(), "u1") {
		t.Fatalf("orchard address should encode as unified: %s", addr.String())
	}
}
