package hashkey

import (
	"bytes"
	"errors"

	"github.com/cespare/xxhash/v2"
)

var (
	// ErrKeyNil is returned when a byte-string key has no buffer.
	ErrKeyNil = errors.New("byte-string key is nil")

	// ErrKeyEmpty is returned when a byte-string key has zero length or
	// carries no non-NUL byte before its declared length.
	ErrKeyEmpty = errors.New("byte-string key is empty")
)

// Hasher hashes a byte-string key to a 64-bit value.
type Hasher func(b []byte) uint64

// XX is an xxhash-backed Hasher. Unlike DJB2 it consumes the full declared
// buffer, embedded NUL bytes included.
func XX(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// Ops bundles the operations the bucket store needs for one key flavor.
// A store instance is created with exactly one Ops value and never mixes
// flavors afterwards.
type Ops[K any] struct {
	// Hash diffuses a key into a 64-bit value.
	Hash func(key K) uint64

	// Equal reports whether two keys are the same key.
	Equal func(a, b K) bool

	// Validate rejects keys the store must not accept.
	Validate func(key K) error

	// Clone returns a copy of key owned by the store, independent of any
	// buffer the caller may mutate or discard later.
	Clone func(key K) K
}

// UintOps returns the operations for unsigned-integer keys. Every uint64 is
// a valid key.
func UintOps() Ops[uint64] {
	return Ops[uint64]{
		Hash:     Mix,
		Equal:    func(a, b uint64) bool { return a == b },
		Validate: func(uint64) error { return nil },
		Clone:    func(k uint64) uint64 { return k },
	}
}

// BytesOps returns the operations for byte-string keys. If h is nil, DJB2 is
// used. Equality compares the full declared length byte for byte; validation
// requires a genuine non-empty byte sequence.
func BytesOps(h Hasher) Ops[[]byte] {
	if h == nil {
		h = DJB2
	}
	return Ops[[]byte]{
		Hash:     h,
		Equal:    bytes.Equal,
		Validate: validateBytes,
		Clone:    func(k []byte) []byte { return append([]byte(nil), k...) },
	}
}

func validateBytes(k []byte) error {
	if k == nil {
		return ErrKeyNil
	}
	// The effective length of a byte-string key is bounded by the first NUL
	// byte; a key whose first byte is already NUL has nothing to hash.
	if len(k) == 0 || k[0] == 0 {
		return ErrKeyEmpty
	}
	return nil
}
