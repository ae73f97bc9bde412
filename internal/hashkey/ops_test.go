package hashkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUintOps(t *testing.T) {
	ops := UintOps()

	require.NoError(t, ops.Validate(0))
	require.NoError(t, ops.Validate(^uint64(0)))

	assert.True(t, ops.Equal(7, 7))
	assert.False(t, ops.Equal(7, 8))

	assert.Equal(t, Mix(42), ops.Hash(42))
	assert.Equal(t, uint64(42), ops.Clone(42))
}

func TestBytesOps_Validate(t *testing.T) {
	ops := BytesOps(nil)

	assert.ErrorIs(t, ops.Validate(nil), ErrKeyNil)
	assert.ErrorIs(t, ops.Validate([]byte{}), ErrKeyEmpty)
	assert.ErrorIs(t, ops.Validate([]byte{0}), ErrKeyEmpty)
	assert.ErrorIs(t, ops.Validate([]byte("\x00abc")), ErrKeyEmpty)

	assert.NoError(t, ops.Validate([]byte("a")))
	assert.NoError(t, ops.Validate([]byte("a\x00")))
}

func TestBytesOps_Equal(t *testing.T) {
	ops := BytesOps(nil)

	assert.True(t, ops.Equal([]byte("abc"), []byte("abc")))
	assert.False(t, ops.Equal([]byte("abc"), []byte("abd")))
	assert.False(t, ops.Equal([]byte("abc"), []byte("ab")))

	// Equality covers the full declared length, beyond any NUL terminator.
	assert.False(t, ops.Equal([]byte("a\x00b"), []byte("a\x00c")))
}

func TestBytesOps_Clone(t *testing.T) {
	ops := BytesOps(nil)

	orig := []byte("key")
	clone := ops.Clone(orig)
	require.Equal(t, orig, clone)

	orig[0] = 'X'
	assert.Equal(t, []byte("key"), clone, "clone must be independent of the source buffer")
}

func TestBytesOps_Hashers(t *testing.T) {
	djb := BytesOps(nil)
	xx := BytesOps(XX)

	// Both are deterministic.
	assert.Equal(t, djb.Hash([]byte("hello")), djb.Hash([]byte("hello")))
	assert.Equal(t, xx.Hash([]byte("hello")), xx.Hash([]byte("hello")))

	// DJB2 truncates at NUL; xxhash consumes the full buffer.
	assert.Equal(t, djb.Hash([]byte("a")), djb.Hash([]byte("a\x00b")))
	assert.NotEqual(t, xx.Hash([]byte("a")), xx.Hash([]byte("a\x00b")))
}
