// Package api provides the high-level public API for Zcash key and
// address handling.
//
// This is the main entry point for applications using the zcash-keys
// library. It covers the operations wallets need most:
//
//  1. ParseAddress - Decodes any supported Zcash address encoding
//  2. NewAccount - Derives a full per-pool account from a mnemonic
//  3. Account.UnifiedAddress - The account's default unified address
//  4. Account.UnifiedFullViewingKey / UnifiedIncomingViewingKey -
//     Unified viewing key encodings for the account
//  5. ParsePaymentRequest - ZIP 321 payment URI parsing
//
// Everything here composes the lower-level address, keys, and zip32
// packages; nothing in this package touches the wire formats directly.
package api

import (
	"fmt"

	"github.com/suffix-labs/zcash-keys/pkg/address"
	"github.com/suffix-labs/zcash-keys/pkg/keys"
	"github.com/suffix-labs/zcash-keys/pkg/zip32"
	"github.com/suffix-labs/zcash-keys/pkg/zip321"
)

// ============================================================================
// Address parsing
// ============================================================================

// ParseAddress decodes a Zcash address of any supported kind:
// transparent Base58Check, Sprout, Sapling Bech32, or unified Bech32m.
func ParseAddress(s string) (address.Address, error) {
	return address.Decode(s)
}

// ParsePaymentRequest parses a ZIP 321 payment URI, validating every
// recipient address.
func ParsePaymentRequest(uri string) (*zip321.PaymentRequest, error) {
	return zip321.Parse(uri)
}

// ============================================================================
// Account derivation
// ============================================================================

// Account bundles the per-pool keys derived for one account index from
// a single seed, the way a wallet tracks an account.
type Account struct {
	Network address.Network
	Index   uint32

	Orchard     keys.OrchardSpendingKey
	Sapling     zip32.SaplingExtendedSpendingKey
	Transparent *zip32.TransparentExtendedKey
}

// NewAccount derives the account at the given index from a BIP 39
// mnemonic phrase. Shielded pools use the ZIP 32 path m/32'/coin'/account';
// the transparent pool uses BIP 44's m/44'/coin'/account'.
func NewAccount(mnemonic, passphrase string, net address.Network, index uint32) (*Account, error) {
	seed, err := zip32.SeedFromPhrase(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	return NewAccountFromSeed(seed, net, index)
}

// NewAccountFromSeed derives the account at the given index directly
// from seed bytes.
func NewAccountFromSeed(seed []byte, net address.Network, index uint32) (*Account, error) {
	orchardNode, err := zip32.DeriveOrchardAccount(net, seed, index)
	if err != nil {
		return nil, fmt.Errorf("orchard derivation: %w", err)
	}
	orchard, err := orchardNode.SpendingKey()
	if err != nil {
		return nil, fmt.Errorf("orchard derivation: %w", err)
	}
	sapling, err := zip32.DeriveSaplingAccount(net, seed, index)
	if err != nil {
		return nil, fmt.Errorf("sapling derivation: %w", err)
	}
	transparent, err := zip32.DeriveTransparentAccount(net, seed, index)
	if err != nil {
		return nil, fmt.Errorf("transparent derivation: %w", err)
	}
	return &Account{
		Network:     net,
		Index:       index,
		Orchard:     orchard,
		Sapling:     sapling,
		Transparent: transparent,
	}, nil
}

// ============================================================================
// Unified encodings
// ============================================================================

// receivers assembles the account's default receiver for each pool.
func (a *Account) receivers() ([]address.Element, error) {
	ofvk, err := a.Orchard.FullViewingKey()
	if err != nil {
		return nil, err
	}
	oivk, err := ofvk.IncomingViewingKey()
	if err != nil {
		return nil, err
	}
	orchardReceiver, err := oivk.CreateDefaultReceiver()
	if err != nil {
		return nil, err
	}

	sivk, err := a.saplingIVK()
	if err != nil {
		return nil, err
	}
	_, saplingReceiver, err := sivk.CreateDefaultReceiver()
	if err != nil {
		return nil, err
	}

	tleaf, err := a.Transparent.ExternalAddressKey(0)
	if err != nil {
		return nil, err
	}
	tsk, err := tleaf.SpendingKey()
	if err != nil {
		return nil, err
	}
	return []address.Element{
		orchardReceiver,
		saplingReceiver,
		tsk.FullViewingKey().Receiver(),
	}, nil
}

func (a *Account) saplingIVK() (keys.SaplingIncomingViewingKey, error) {
	extFVK, err := a.Sapling.FullViewingKey()
	if err != nil {
		return keys.SaplingIncomingViewingKey{}, err
	}
	dfvk, err := extFVK.DiversifiableFullViewingKey()
	if err != nil {
		return keys.SaplingIncomingViewingKey{}, err
	}
	return dfvk.IncomingViewingKey()
}

// UnifiedAddress returns the account's default unified address,
// containing the Orchard, Sapling, and transparent receivers.
func (a *Account) UnifiedAddress() (*address.UnifiedAddress, error) {
	elems, err := a.receivers()
	if err != nil {
		return nil, err
	}
	return address.NewUnifiedAddress(a.Network, elems...)
}

// UnifiedFullViewingKey returns the account's UFVK encoding, combining
// the Orchard and Sapling full viewing keys.
func (a *Account) UnifiedFullViewingKey() (string, error) {
	ofvk, err := a.Orchard.FullViewingKey()
	if err != nil {
		return "", err
	}
	extFVK, err := a.Sapling.FullViewingKey()
	if err != nil {
		return "", err
	}
	dfvk, err := extFVK.DiversifiableFullViewingKey()
	if err != nil {
		return "", err
	}
	uvk, err := address.NewUnifiedViewingKey(address.KindFullViewingKey, a.Network,
		ofvk.Element(), dfvk.Element())
	if err != nil {
		return "", err
	}
	return uvk.String(), nil
}

// UnifiedIncomingViewingKey returns the account's UIVK encoding,
// combining the Orchard and Sapling incoming viewing keys.
func (a *Account) UnifiedIncomingViewingKey() (string, error) {
	ofvk, err := a.Orchard.FullViewingKey()
	if err != nil {
		return "", err
	}
	oivk, err := ofvk.IncomingViewingKey()
	if err != nil {
		return "", err
	}
	sivk, err := a.saplingIVK()
	if err != nil {
		return "", err
	}
	uvk, err := address.NewUnifiedViewingKey(address.KindIncomingViewingKey, a.Network,
		oivk.Element(), sivk.Element())
	if err != nil {
		return "", err
	}
	return uvk.String(), nil
}

// TransparentAddress returns the account's transparent receiving
// address at the given BIP 44 external index.
func (a *Account) TransparentAddress(index uint32) (*address.TransparentAddress, error) {
	leaf, err := a.Transparent.ExternalAddressKey(index)
	if err != nil {
		return nil, err
	}
	sk, err := leaf.SpendingKey()
	if err != nil {
		return nil, err
	}
	return sk.FullViewingKey().Address(), nil
}
