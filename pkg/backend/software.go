// In-process software backend.
//
// SoftwareBackend implements the Backend interface with deterministic,
// personalized BLAKE2b constructions instead of Pallas/Jubjub point
// arithmetic. It honors every behavioral contract of the interface
// (one-way key derivation chains, diversifier recovery without search,
// receiver/key isolation between accounts, Sapling's partial diversifier
// validity) while remaining a single pure-Go package, so the codec and
// derivation layers can be exercised without the native library.
//
// Receivers produced by this backend are NOT interoperable with the
// Zcash network; production deployments install a native-library bridge
// with SetDefault.
package backend

import (
	"bytes"
	"encoding/binary"

	blake2b "github.com/minio/blake2b-simd"
)

// SoftwareBackend is a deterministic, allocation-light Backend.
// All methods are pure; the zero value is not usable, construct with
// NewSoftwareBackend.
type SoftwareBackend struct{}

// NewSoftwareBackend returns the deterministic in-process backend.
func NewSoftwareBackend() *SoftwareBackend { return &SoftwareBackend{} }

// BLAKE2b personalization labels, 16 bytes each (the maximum the
// parameter block allows).
const (
	persOrchardAK   = "Zkeys__OrchardAK"
	persOrchardNK   = "Zkeys__OrchardNK"
	persOrchardRIVK = "ZkeysOrchardRIVK"
	persOrchardDK   = "Zkeys__OrchardDK"
	persOrchardIVK  = "ZkeysOrchardIVK_"
	persOrchardPKD  = "ZkeysOrchardPKD_"
	persToScalar    = "ZkeysToScalarRep"
	persSaplingASK  = "ZkeysSaplingASK_"
	persSaplingNSK  = "ZkeysSaplingNSK_"
	persSaplingOVK  = "ZkeysSaplingOVK_"
	persSaplingAK   = "ZkeysSaplingAK__"
	persSaplingNK   = "ZkeysSaplingNK__"
	persSaplingIVK  = "ZkeysSaplingIVK_"
	persSaplingPKD  = "ZkeysSaplingPKD_"
	persSaplingGD   = "ZkeysSaplingGD__"
	persFeistel     = "ZkeysDiversifier"
)

// hash32 computes a 32-byte personalized, optionally keyed BLAKE2b.
func hash32(person string, key []byte, data ...[]byte) [32]byte {
	cfg := &blake2b.Config{Size: 32, Person: []byte(person)}
	if len(key) > 0 {
		// The parameter block caps keys at 64 bytes; longer material is
		// pre-compressed.
		if len(key) > 64 {
			pre := blake2b.New256()
			pre.Write(key)
			key = pre.Sum(nil)
		}
		cfg.Key = key
	}
	h, err := blake2b.New(cfg)
	if err != nil {
		panic(err) // fixed config, cannot fail
	}
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func isZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// ============================================================================
// Diversifier permutation
// ============================================================================

// The 11-byte diversifier is an invertible keyed permutation of the
// diversifier index (the native library uses FF1-AES; here a four-round
// Feistel network over two 44-bit halves with a keyed BLAKE2b round
// function). Invertibility is what makes diversifier recovery a single
// decryption instead of a search.

const feistelRounds = 4
const mask44 = (uint64(1) << 44) - 1

func feistelRound(dk [32]byte, round byte, half uint64) uint64 {
	var buf [9]byte
	buf[0] = round
	binary.LittleEndian.PutUint64(buf[1:], half)
	sum := hash32(persFeistel, dk[:], buf[:])
	return binary.LittleEndian.Uint64(sum[:8]) & mask44
}

func packHalves(d [11]byte) (lo, hi uint64) {
	var buf [16]byte
	copy(buf[:11], d[:])
	v0 := binary.LittleEndian.Uint64(buf[:8])
	v1 := binary.LittleEndian.Uint64(buf[8:])
	lo = v0 & mask44
	hi = v0>>44 | v1<<20&mask44
	return
}

func unpackHalves(lo, hi uint64) (d [11]byte) {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], lo|hi<<44)
	binary.LittleEndian.PutUint64(buf[8:], hi>>20)
	copy(d[:], buf[:11])
	return
}

func diversifierEncrypt(dk [32]byte, index [11]byte) [11]byte {
	l, r := packHalves(index)
	for i := byte(0); i < feistelRounds; i++ {
		l, r = r, l^feistelRound(dk, i, r)
	}
	return unpackHalves(l, r)
}

func diversifierDecrypt(dk [32]byte, d [11]byte) [11]byte {
	l, r := packHalves(d)
	for i := int(feistelRounds) - 1; i >= 0; i-- {
		l, r = r^feistelRound(dk, byte(i), l), l
	}
	return unpackHalves(l, r)
}

// ============================================================================
// Orchard
// ============================================================================

func (*SoftwareBackend) OrchardFVKFromSpendingKey(sk [32]byte) ([96]byte, error) {
	var fvk [96]byte
	if isZero(sk[:]) {
		return fvk, &InvalidKeyError{Op: "OrchardFVKFromSpendingKey", Message: "spending key out of range"}
	}
	ak := hash32(persOrchardAK, sk[:])
	nk := hash32(persOrchardNK, sk[:])
	rivk := hash32(persOrchardRIVK, sk[:])
	copy(fvk[:32], ak[:])
	copy(fvk[32:64], nk[:])
	copy(fvk[64:], rivk[:])
	return fvk, nil
}

func (*SoftwareBackend) OrchardIVKFromFVK(fvk [96]byte) ([64]byte, error) {
	var ivk [64]byte
	if isZero(fvk[:]) {
		return ivk, &InvalidKeyError{Op: "OrchardIVKFromFVK", Message: "full viewing key not a valid encoding"}
	}
	dk := hash32(persOrchardDK, fvk[:])
	scalar := hash32(persOrchardIVK, fvk[:])
	copy(ivk[:32], dk[:])
	copy(ivk[32:], scalar[:])
	return ivk, nil
}

func (*SoftwareBackend) OrchardReceiver(ivk [64]byte, index [11]byte) ([43]byte, error) {
	var receiver [43]byte
	if isZero(ivk[:]) {
		return receiver, &InvalidKeyError{Op: "OrchardReceiver", Message: "incoming viewing key not a valid encoding"}
	}
	var dk [32]byte
	copy(dk[:], ivk[:32])
	d := diversifierEncrypt(dk, index)
	pkd := hash32(persOrchardPKD, ivk[32:], d[:])
	copy(receiver[:11], d[:])
	copy(receiver[11:], pkd[:])
	return receiver, nil
}

func (b *SoftwareBackend) OrchardDecryptDiversifier(ivk [64]byte, receiver [43]byte) ([11]byte, bool, error) {
	var index [11]byte
	if isZero(ivk[:]) {
		return index, false, &InvalidKeyError{Op: "OrchardDecryptDiversifier", Message: "incoming viewing key not a valid encoding"}
	}
	var dk [32]byte
	copy(dk[:], ivk[:32])
	var d [11]byte
	copy(d[:], receiver[:11])
	index = diversifierDecrypt(dk, d)

	// Regenerate the transmission key this ivk would produce for the
	// recovered index; a mismatch means the receiver belongs to a
	// different key's authority.
	pkd := hash32(persOrchardPKD, ivk[32:], d[:])
	if !bytes.Equal(pkd[:], receiver[11:]) {
		return [11]byte{}, false, nil
	}
	return index, true, nil
}

func (*SoftwareBackend) ToScalarRepr(uniform [64]byte) ([32]byte, error) {
	return hash32(persToScalar, nil, uniform[:]), nil
}

// ============================================================================
// Sapling
// ============================================================================

func (*SoftwareBackend) SaplingExpandSpendingKey(sk [32]byte) ([96]byte, error) {
	var expsk [96]byte
	if isZero(sk[:]) {
		return expsk, &InvalidKeyError{Op: "SaplingExpandSpendingKey", Message: "spending key out of range"}
	}
	ask := hash32(persSaplingASK, sk[:])
	nsk := hash32(persSaplingNSK, sk[:])
	ovk := hash32(persSaplingOVK, sk[:])
	copy(expsk[:32], ask[:])
	copy(expsk[32:64], nsk[:])
	copy(expsk[64:], ovk[:])
	return expsk, nil
}

func (*SoftwareBackend) SaplingFVKFromExpanded(expsk [96]byte) ([96]byte, error) {
	var fvk [96]byte
	if isZero(expsk[:]) {
		return fvk, &InvalidKeyError{Op: "SaplingFVKFromExpanded", Message: "expanded spending key not a valid encoding"}
	}
	ak := hash32(persSaplingAK, expsk[:32])
	nk := hash32(persSaplingNK, expsk[32:64])
	copy(fvk[:32], ak[:])
	copy(fvk[32:64], nk[:])
	copy(fvk[64:], expsk[64:]) // ovk carries over unchanged
	return fvk, nil
}

func (*SoftwareBackend) SaplingIVKFromFVK(ak, nk [32]byte) ([32]byte, error) {
	if isZero(ak[:]) || isZero(nk[:]) {
		return [32]byte{}, &InvalidKeyError{Op: "SaplingIVKFromFVK", Message: "viewing key component not a valid encoding"}
	}
	return hash32(persSaplingIVK, nil, ak[:], nk[:]), nil
}

// saplingDiversifierValid mirrors the group-hash failure mode: roughly
// half of all diversifiers do not map onto the curve, independent of the
// key.
func saplingDiversifierValid(d [11]byte) bool {
	sum := hash32(persSaplingGD, nil, d[:])
	return sum[0]&1 == 0
}

func (*SoftwareBackend) SaplingReceiver(ivk, dk [32]byte, index [11]byte) ([43]byte, error) {
	var receiver [43]byte
	if isZero(ivk[:]) {
		return receiver, &InvalidKeyError{Op: "SaplingReceiver", Message: "incoming viewing key not a valid encoding"}
	}
	d := diversifierEncrypt(dk, index)
	if !saplingDiversifierValid(d) {
		return receiver, ErrInvalidDiversifier
	}
	pkd := hash32(persSaplingPKD, ivk[:], d[:])
	copy(receiver[:11], d[:])
	copy(receiver[11:], pkd[:])
	return receiver, nil
}

// findReceiverMaxTries bounds the forward scan. Validity is a coin flip
// per index, so exhausting this many consecutive indices does not happen
// for well-formed keys.
const findReceiverMaxTries = 1 << 16

func (b *SoftwareBackend) SaplingFindReceiver(ivk, dk [32]byte, index [11]byte) ([11]byte, [43]byte, error) {
	for i := 0; i < findReceiverMaxTries; i++ {
		receiver, err := b.SaplingReceiver(ivk, dk, index)
		if err == nil {
			return index, receiver, nil
		}
		if err != ErrInvalidDiversifier {
			return [11]byte{}, [43]byte{}, err
		}
		index = incrementIndex(index)
	}
	return [11]byte{}, [43]byte{}, &InvalidKeyError{Op: "SaplingFindReceiver", Message: "no valid diversifier found"}
}

func (b *SoftwareBackend) SaplingDecryptDiversifier(ivk, dk [32]byte, receiver [43]byte) ([11]byte, bool, error) {
	if isZero(ivk[:]) {
		return [11]byte{}, false, &InvalidKeyError{Op: "SaplingDecryptDiversifier", Message: "incoming viewing key not a valid encoding"}
	}
	var d [11]byte
	copy(d[:], receiver[:11])
	if !saplingDiversifierValid(d) {
		return [11]byte{}, false, &InvalidKeyError{Op: "SaplingDecryptDiversifier", Message: "receiver diversifier not on the curve"}
	}
	index := diversifierDecrypt(dk, d)
	pkd := hash32(persSaplingPKD, ivk[:], d[:])
	if !bytes.Equal(pkd[:], receiver[11:]) {
		return [11]byte{}, false, nil
	}
	return index, true, nil
}

// incrementIndex adds one to a little-endian 11-byte index, wrapping at
// the top of the space.
func incrementIndex(index [11]byte) [11]byte {
	for i := 0; i < len(index); i++ {
		index[i]++
		if index[i] != 0 {
			break
		}
	}
	return index
}
