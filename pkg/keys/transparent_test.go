package keys

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/zcash-keys/pkg/address"
)

func TestTransparentKeyChain(t *testing.T) {
	seed := testSeed(0x60)
	sk, err := TransparentSpendingKeyFromBytes(address.Mainnet, seed[:])
	require.NoError(t, err)

	fvk := sk.FullViewingKey()
	require.Len(t, fvk.Bytes(), 33)

	addr := fvk.Address()
	require.Equal(t, address.Mainnet, addr.Network())
	if !strings.HasPrefix(addr.String(), "t1") {
		t.Fatalf("mainnet P2PKH address should start with t1: %s", addr.String())
	}

	r := fvk.Receiver()
	require.True(t, fvk.CheckReceiver(r))

	seed2 := testSeed(0x61)
	sk2, err := TransparentSpendingKeyFromBytes(address.Mainnet, seed2[:])
	require.NoError(t, err)
	require.False(t, sk2.FullViewingKey().CheckReceiver(r))
}

func TestTransparentTestnetPrefix(t *testing.T) {
	seed := testSeed(0x62)
	sk, err := TransparentSpendingKeyFromBytes(address.Testnet, seed[:])
	require.NoError(t, err)
	addr := sk.FullViewingKey().Address()
	if !strings.HasPrefix(addr.String(), "tm") {
		t.Fatalf("testnet P2PKH address should start with tm: %s", addr.String())
	}
}

func TestTransparentFVKRoundTrip(t *testing.T) {
	seed := testSeed(0x63)
	sk, err := TransparentSpendingKeyFromBytes(address.Testnet, seed[:])
	require.NoError(t, err)
	fvk := sk.FullViewingKey()

	back, err := TransparentFVKFromBytes(address.Testnet, fvk.Bytes())
	require.NoError(t, err)
	require.Equal(t, fvk.Bytes(), back.Bytes())
	require.Equal(t, fvk.Receiver(), back.Receiver())
}

func TestWIFRoundTrip(t *testing.T) {
	seed := testSeed(0x64)
	sk, err := TransparentSpendingKeyFromBytes(address.Mainnet, seed[:])
	require.NoError(t, err)

	wif := sk.WIF()
	back, err := ParseWIF(wif)
	require.NoError(t, err)
	require.Equal(t, sk.Bytes(), back.Bytes())
	require.Equal(t, address.Mainnet, back.Network())
}

func TestParseWIFRejectsCorruption(t *testing.T) {
	seed := testSeed(0x65)
	sk, err := TransparentSpendingKeyFromBytes(address.Testnet, seed[:])
	require.NoError(t, err)

	wif := sk.WIF()
	mutated := []byte(wif)
	if mutated[4] == 'z' {
		mutated[4] = 'x'
	} else {
		mutated[4] = 'z'
	}
	if _, err := ParseWIF(string(mutated)); err == nil {
		t.Fatal("corrupted WIF accepted")
	}
}

func TestTransparentKeyLengthContracts(t *testing.T) {
	if _, err := TransparentSpendingKeyFromBytes(address.Mainnet, make([]byte, 31)); err == nil {
		t.Fatal("short private key accepted")
	}
	if _, err := TransparentFVKFromBytes(address.Mainnet, make([]byte, 32)); err == nil {
		t.Fatal("short public key accepted")
	}
}
