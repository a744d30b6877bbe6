// Package keys implements the per-pool Zcash key hierarchies: spending
// key → full viewing key → incoming viewing key → diversified receiver,
// for the transparent, Sapling and Orchard pools (Sprout is read-only
// legacy and has no key operations).
//
// All types are immutable fixed-size values, safe to share across
// goroutines; identical inputs always produce identical outputs. The
// shielded-pool group arithmetic is delegated to pkg/backend.
package keys

import (
	"encoding/binary"
	"fmt"

	"github.com/suffix-labs/zcash-keys/pkg/address"
)

// DiversifierIndex is the 11-byte little-endian selector that lets one
// incoming viewing key produce many unlinkable receivers.
type DiversifierIndex [11]byte

// DiversifierIndexFromUint64 builds an index from a small integer.
func DiversifierIndexFromUint64(v uint64) DiversifierIndex {
	var d DiversifierIndex
	binary.LittleEndian.PutUint64(d[:8], v)
	return d
}

// Uint64 returns the index as a uint64; ok is false when the value
// exceeds 64 bits.
func (d DiversifierIndex) Uint64() (v uint64, ok bool) {
	if d[8] != 0 || d[9] != 0 || d[10] != 0 {
		return 0, false
	}
	return binary.LittleEndian.Uint64(d[:8]), true
}

// Next returns the following index. Overflowing the 88-bit space is a
// contract violation.
func (d DiversifierIndex) Next() (DiversifierIndex, error) {
	for i := 0; i < len(d); i++ {
		d[i]++
		if d[i] != 0 {
			return d, nil
		}
	}
	return DiversifierIndex{}, fmt.Errorf("%w: diversifier index space exhausted", address.ErrInvalidArgument)
}

func (d DiversifierIndex) String() string {
	if v, ok := d.Uint64(); ok {
		return fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf("%x", d[:])
}
