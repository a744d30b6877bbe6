package zip32

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"

	"github.com/suffix-labs/zcash-keys/pkg/address"
	"github.com/suffix-labs/zcash-keys/pkg/keys"
)

// A fixed 32-byte entropy mnemonic used across derivation tests.
const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon abandon abandon art"

func testVectorSeed(t *testing.T) []byte {
	t.Helper()
	seed, err := SeedFromPhrase(testMnemonic, "")
	require.NoError(t, err)
	require.Len(t, seed, 64)
	return seed
}

func TestSeedFromPhraseRejectsBadChecksum(t *testing.T) {
	bad := "abandon abandon abandon abandon abandon abandon abandon abandon " +
		"abandon abandon abandon abandon abandon abandon abandon abandon " +
		"abandon abandon abandon abandon abandon abandon abandon abandon"
	if _, err := SeedFromPhrase(bad, ""); !errors.Is(err, address.ErrInvalidArgument) {
		t.Fatalf("expected invalid-argument for bad mnemonic, got %v", err)
	}
}

func TestSeedFromPhrasePassphraseChangesSeed(t *testing.T) {
	a, err := SeedFromPhrase(testMnemonic, "")
	require.NoError(t, err)
	b, err := SeedFromPhrase(testMnemonic, "trezor")
	require.NoError(t, err)
	if bytes.Equal(a, b) {
		t.Fatal("passphrase did not change the seed")
	}
	// Matches the reference BIP 39 expansion.
	require.Equal(t, bip39.NewSeed(testMnemonic, "trezor"), b)
}

func TestSeedLengthBounds(t *testing.T) {
	if _, err := MasterOrchard(address.Mainnet, make([]byte, 31)); !errors.Is(err, address.ErrInvalidArgument) {
		t.Fatalf("31-byte seed should be rejected, got %v", err)
	}
	if _, err := MasterSapling(address.Mainnet, make([]byte, 253)); !errors.Is(err, address.ErrInvalidArgument) {
		t.Fatalf("253-byte seed should be rejected, got %v", err)
	}
	if _, err := MasterTransparent(address.Mainnet, make([]byte, 16)); !errors.Is(err, address.ErrInvalidArgument) {
		t.Fatalf("16-byte seed should be rejected, got %v", err)
	}
}

func TestPRFExpandDomainSeparation(t *testing.T) {
	key := bytes.Repeat([]byte{0xab}, 32)
	a := PRFExpand(key, 0x11, []byte("data"))
	b := PRFExpand(key, 0x12, []byte("data"))
	if a == b {
		t.Fatal("different domains must produce different expansions")
	}
	require.Equal(t, a, PRFExpand(key, 0x11, []byte("data")))
}

func TestMasterKeysDifferPerPool(t *testing.T) {
	seed := testVectorSeed(t)
	orchard, err := MasterOrchard(address.Mainnet, seed)
	require.NoError(t, err)
	sapling, err := MasterSapling(address.Mainnet, seed)
	require.NoError(t, err)
	if orchard.ChainCode() == sapling.ChainCode() {
		t.Fatal("pool personalizations must separate the derivation trees")
	}
}

func TestOrchardDerivationDeterminism(t *testing.T) {
	seed := testVectorSeed(t)

	a, err := DeriveOrchardAccount(address.Testnet, seed, 0)
	require.NoError(t, err)
	b, err := DeriveOrchardAccount(address.Testnet, seed, 0)
	require.NoError(t, err)

	ska, err := a.SpendingKey()
	require.NoError(t, err)
	skb, err := b.SpendingKey()
	require.NoError(t, err)
	require.Equal(t, ska.Bytes(), skb.Bytes())
	require.Equal(t, a.ChainCode(), b.ChainCode())
	require.Equal(t, byte(3), a.Depth())

	other, err := DeriveOrchardAccount(address.Testnet, seed, 1)
	require.NoError(t, err)
	sko, err := other.SpendingKey()
	require.NoError(t, err)
	if ska.Bytes() == sko.Bytes() {
		t.Fatal("distinct accounts derived the same spending key")
	}
}

func TestOrchardNonHardenedRejected(t *testing.T) {
	seed := testVectorSeed(t)
	master, err := MasterOrchard(address.Mainnet, seed)
	require.NoError(t, err)
	if _, err := master.Child(0); !errors.Is(err, ErrUnsupportedDerivation) {
		t.Fatalf("expected ErrUnsupportedDerivation, got %v", err)
	}
	if _, err := master.Child(HardenedOffset - 1); !errors.Is(err, ErrUnsupportedDerivation) {
		t.Fatalf("expected ErrUnsupportedDerivation, got %v", err)
	}
}

func TestOrchardParentTagBookkeeping(t *testing.T) {
	seed := testVectorSeed(t)
	master, err := MasterOrchard(address.Mainnet, seed)
	require.NoError(t, err)
	require.Equal(t, [4]byte{}, master.ParentFVKTag())

	child, err := master.Child(HardenedOffset)
	require.NoError(t, err)
	require.Equal(t, byte(1), child.Depth())
	require.Equal(t, HardenedOffset, child.ChildNumber())
	if child.ParentFVKTag() == ([4]byte{}) {
		t.Fatal("child should record the parent fingerprint")
	}

	tag, err := master.tag()
	require.NoError(t, err)
	require.Equal(t, tag, child.ParentFVKTag())
}

func TestOrchardAccountSpendingKeyEncoding(t *testing.T) {
	seed := testVectorSeed(t)
	node, err := DeriveOrchardAccount(address.Testnet, seed, 0)
	require.NoError(t, err)
	sk, err := node.SpendingKey()
	require.NoError(t, err)

	// The Orchard account key at m/32'/1'/0' is a pure PRF^expand chain
	// over the fixed mnemonic, so its encoding is stable across backends.
	const want = "secret-orchard-sk-test1zd2gee9v9mrvc6un4rmx75xaeeg7nc2kesyy6080y7v8x3r0rvdsu7c4yk"
	require.Equal(t, want, sk.String())

	back, err := keys.DecodeOrchardSpendingKey(want)
	require.NoError(t, err)
	require.Equal(t, sk.Bytes(), back.Bytes())
	require.Equal(t, address.Testnet, back.Network())
}
