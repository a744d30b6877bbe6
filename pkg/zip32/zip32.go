// Package zip32 implements hierarchical deterministic key derivation for
// the Zcash shielded and transparent pools.
//
// Shielded derivation follows the ZIP 32 structure: BIP 32's chain-code
// bookkeeping (depth, parent fingerprint, child number) combined with
// domain-separated PRF^expand in place of HMAC-SHA512, and hardened-only
// child derivation. Transparent derivation is plain BIP 32 over secp256k1.
//
// References:
//   - ZIP 32: https://zips.z.cash/zip-0032
//   - BIP 32: https://github.com/bitcoin/bips/blob/master/bip-0032.mediawiki
package zip32

import (
	"errors"
	"fmt"

	"github.com/minio/blake2b-simd"
	"github.com/tyler-smith/go-bip39"

	"github.com/suffix-labs/zcash-keys/pkg/address"
)

// ============================================================================
// Constants and Errors
// ============================================================================

// HardenedOffset is the child-number offset that marks hardened derivation.
const HardenedOffset uint32 = 0x80000000

// Personalization strings for the BLAKE2b instances used across pools.
// Each must be exactly 16 bytes.
const (
	persExpand        = "Zcash_ExpandSeed"
	persOrchardMaster = "ZcashIP32Orchard"
	persSaplingMaster = "ZcashIP32Sapling"
	persOrchardFVFP   = "ZcashOrchardFVFP"
	persSaplingFVFP   = "ZcashSaplingFVFP"
)

// Domain-separation bytes for PRF^expand within child derivation.
const (
	domainOrchardChild byte = 0x81
	domainSaplingChild byte = 0x11
	domainSaplingDK    byte = 0x10
)

// ErrUnsupportedDerivation is returned when non-hardened derivation is
// requested on a shielded pool. There is no public-derivation path for
// these pools; the request indicates a caller bug, not bad input data.
var ErrUnsupportedDerivation = errors.New("zip32: shielded pools support hardened derivation only")

// maxDepth is the deepest representable node; depth is a single byte.
const maxDepth = 0xff

// ============================================================================
// PRF^expand and master-key expansion
// ============================================================================

// PRFExpand computes BLAKE2b-512 with personalization Zcash_ExpandSeed
// over key || domain || data..., the PRF^expand construction of the
// Zcash protocol specification.
func PRFExpand(key []byte, domain byte, data ...[]byte) [64]byte {
	h, err := blake2b.New(&blake2b.Config{
		Size:   64,
		Person: []byte(persExpand),
	})
	if err != nil {
		panic("zip32: blake2b config: " + err.Error())
	}
	h.Write(key)
	h.Write([]byte{domain})
	for _, d := range data {
		h.Write(d)
	}
	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}

// masterExpand hashes a seed under a pool-specific personalization and
// splits the 64-byte result into master key material and chain code.
func masterExpand(person string, seed []byte) (key, chain [32]byte) {
	h, err := blake2b.New(&blake2b.Config{
		Size:   64,
		Person: []byte(person),
	})
	if err != nil {
		panic("zip32: blake2b config: " + err.Error())
	}
	h.Write(seed)
	sum := h.Sum(nil)
	copy(key[:], sum[:32])
	copy(chain[:], sum[32:])
	return key, chain
}

// fvkTag computes the 4-byte full-viewing-key fingerprint: the leading
// bytes of a personalized BLAKE2b-256 over the FVK encoding.
func fvkTag(person string, fvk []byte) [4]byte {
	h, err := blake2b.New(&blake2b.Config{
		Size:   32,
		Person: []byte(person),
	})
	if err != nil {
		panic("zip32: blake2b config: " + err.Error())
	}
	h.Write(fvk)
	var tag [4]byte
	copy(tag[:], h.Sum(nil)[:4])
	return tag
}

// ============================================================================
// Seed handling
// ============================================================================

// SeedFromPhrase converts a BIP-39 mnemonic phrase and optional passphrase
// into the 64-byte seed that roots all derivation trees. The phrase's
// checksum is verified before expansion.
func SeedFromPhrase(mnemonic, passphrase string) ([]byte, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("%w: invalid mnemonic phrase", address.ErrInvalidArgument)
	}
	return bip39.NewSeed(mnemonic, passphrase), nil
}

// checkSeedLen enforces the ZIP 32 seed length bounds (32 to 252 bytes).
func checkSeedLen(seed []byte) error {
	if len(seed) < 32 || len(seed) > 252 {
		return fmt.Errorf("%w: seed must be 32 to 252 bytes, got %d",
			address.ErrInvalidArgument, len(seed))
	}
	return nil
}

// le32 encodes a child number in the little-endian form mixed into
// PRF^expand during derivation.
func le32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}
