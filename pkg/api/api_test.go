package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/zcash-keys/pkg/address"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon abandon abandon art"

func testAccount(t *testing.T, net address.Network, index uint32) *Account {
	t.Helper()
	acct, err := NewAccount(testMnemonic, "", net, index)
	require.NoError(t, err)
	return acct
}

func TestNewAccountDeterminism(t *testing.T) {
	a := testAccount(t, address.Mainnet, 0)
	b := testAccount(t, address.Mainnet, 0)
	require.Equal(t, a.Orchard.Bytes(), b.Orchard.Bytes())
	require.Equal(t, a.Sapling.Bytes(), b.Sapling.Bytes())
	require.Equal(t, a.Transparent.Bytes(), b.Transparent.Bytes())
}

func TestNewAccountRejectsBadMnemonic(t *testing.T) {
	if _, err := NewAccount("definitely not a mnemonic", "", address.Mainnet, 0); err == nil {
		t.Fatal("invalid mnemonic accepted")
	}
}

func TestAccountsAreIsolated(t *testing.T) {
	a := testAccount(t, address.Mainnet, 0)
	b := testAccount(t, address.Mainnet, 1)
	if a.Orchard.Bytes() == b.Orchard.Bytes() {
		t.Fatal("accounts share an orchard key")
	}
	if a.Sapling.Bytes() == b.Sapling.Bytes() {
		t.Fatal("accounts share a sapling key")
	}
}

func TestUnifiedAddressRoundTrip(t *testing.T) {
	acct := testAccount(t, address.Mainnet, 0)
	ua, err := acct.UnifiedAddress()
	require.NoError(t, err)

	s := ua.String()
	require.True(t, strings.HasPrefix(s, "u1"), "got %s", s)

	parsed, err := ParseAddress(s)
	require.NoError(t, err)
	back, ok := parsed.(*address.UnifiedAddress)
	require.True(t, ok)
	require.Equal(t, s, back.String())

	// The address carries all three pools.
	_, ok = back.Orchard()
	require.True(t, ok)
	_, ok = back.Sapling()
	require.True(t, ok)
	_, ok = back.Transparent()
	require.True(t, ok)
}

func TestUnifiedAddressIsRecognizedByAccountKeys(t *testing.T) {
	acct := testAccount(t, address.Testnet, 0)
	ua, err := acct.UnifiedAddress()
	require.NoError(t, err)

	orchardReceiver, ok := ua.Orchard()
	require.True(t, ok)
	ofvk, err := acct.Orchard.FullViewingKey()
	require.NoError(t, err)
	oivk, err := ofvk.IncomingViewingKey()
	require.NoError(t, err)
	require.True(t, oivk.CheckReceiver(orchardReceiver))

	saplingReceiver, ok := ua.Sapling()
	require.True(t, ok)
	sivk, err := acct.saplingIVK()
	require.NoError(t, err)
	require.True(t, sivk.CheckReceiver(saplingReceiver))
}

func TestUnifiedViewingKeyEncodings(t *testing.T) {
	acct := testAccount(t, address.Mainnet, 0)

	ufvk, err := acct.UnifiedFullViewingKey()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ufvk, "uview1"), "got %s", ufvk)

	uivk, err := acct.UnifiedIncomingViewingKey()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uivk, "uivk1"), "got %s", uivk)

	// Both decode back to the same canonical string.
	decoded, err := address.DecodeUnifiedViewingKey(ufvk)
	require.NoError(t, err)
	require.Equal(t, ufvk, decoded.String())
	require.Equal(t, address.KindFullViewingKey, decoded.Kind())
}

func TestTransparentAddressSequence(t *testing.T) {
	acct := testAccount(t, address.Mainnet, 0)
	a0, err := acct.TransparentAddress(0)
	require.NoError(t, err)
	a1, err := acct.TransparentAddress(1)
	require.NoError(t, err)
	require.NotEqual(t, a0.String(), a1.String())
	require.True(t, strings.HasPrefix(a0.String(), "t1"))
}

func TestParsePaymentRequest(t *testing.T) {
	acct := testAccount(t, address.Mainnet, 0)
	ta, err := acct.TransparentAddress(0)
	require.NoError(t, err)

	req, err := ParsePaymentRequest("zcash:" + ta.String() + "?amount=0.5")
	require.NoError(t, err)
	require.Len(t, req.Payments, 1)
	require.Equal(t, ta.String(), req.Payments[0].Address.String())
	require.Equal(t, 0.5, *req.Payments[0].Amount)
}
