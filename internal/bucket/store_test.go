package bucket

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/hashgo/internal/hashkey"
)

func newUintStore(t *testing.T, size uint64) *Store[uint64] {
	t.Helper()
	st, _, err := New(size, hashkey.UintOps())
	require.NoError(t, err)
	return st
}

func TestNew_RoundsToPowerOfTwo(t *testing.T) {
	st, adjusted, err := New(10, hashkey.UintOps())
	require.NoError(t, err)
	assert.True(t, adjusted)
	assert.Equal(t, uint64(16), st.Size())

	st, adjusted, err = New(16, hashkey.UintOps())
	require.NoError(t, err)
	assert.False(t, adjusted)
	assert.Equal(t, uint64(16), st.Size())
}

func TestNew_ZeroSize(t *testing.T) {
	_, _, err := New(0, hashkey.UintOps())
	assert.ErrorIs(t, err, ErrZeroSize)
}

func TestStore_InsertLookupRemove(t *testing.T) {
	st := newUintStore(t, 8)

	require.NoError(t, st.Insert(1, Managed([]byte("one")), nil))
	require.NoError(t, st.Insert(2, Managed([]byte("two")), nil))
	assert.Equal(t, uint64(2), st.Count())

	slot, err := st.Lookup(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), slot.Value())
	assert.Equal(t, ModeManaged, slot.Mode())

	require.NoError(t, st.Remove(1))
	assert.Equal(t, uint64(1), st.Count())

	_, err = st.Lookup(1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, st.Remove(1), ErrNotFound)
}

func TestStore_OverwriteKeepsCount(t *testing.T) {
	st := newUintStore(t, 8)

	require.NoError(t, st.Insert(7, Managed([]byte("first")), nil))
	require.NoError(t, st.Insert(7, Managed([]byte("second")), nil))
	assert.Equal(t, uint64(1), st.Count())

	slot, err := st.Lookup(7)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), slot.Value())
}

func TestStore_OverwriteSwitchesMode(t *testing.T) {
	st := newUintStore(t, 8)

	ref := &struct{ n int }{n: 1}
	require.NoError(t, st.Insert(7, Borrowed(ref), nil))

	var released []any
	rel := func(v any) { released = append(released, v) }

	// Borrowed -> managed: the displaced reference goes to the releaser.
	require.NoError(t, st.Insert(7, Managed([]byte("m")), rel))
	require.Len(t, released, 1)
	assert.Same(t, ref, released[0])

	slot, err := st.Lookup(7)
	require.NoError(t, err)
	assert.Equal(t, ModeManaged, slot.Mode())

	// Managed -> borrowed: the managed copy is dropped, not released.
	require.NoError(t, st.Insert(7, Borrowed(ref), rel))
	assert.Len(t, released, 1)

	slot, err = st.Lookup(7)
	require.NoError(t, err)
	assert.Equal(t, ModeBorrowed, slot.Mode())
}

func TestStore_InvalidSlot(t *testing.T) {
	st := newUintStore(t, 8)
	assert.ErrorIs(t, st.Insert(1, Slot{}, nil), ErrInvalidSlot)
}

func TestStore_ManagedCopyIsIndependent(t *testing.T) {
	st := newUintStore(t, 8)

	buf := []byte("payload")
	require.NoError(t, st.Insert(1, Managed(buf), nil))
	buf[0] = 'X'

	slot, err := st.Lookup(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), slot.Value())
}

func TestStore_GrowthIsMonotonicDoubling(t *testing.T) {
	st := newUintStore(t, 4)

	prev := st.Size()
	for i := uint64(0); i < 1000; i++ {
		require.NoError(t, st.Insert(i, Managed([]byte{byte(i)}), nil))

		size := st.Size()
		require.GreaterOrEqual(t, size, prev, "bucket count must never shrink")
		if size != prev {
			require.Equal(t, prev*2, size, "growth must double")
		}
		prev = size

		lf := float64(st.Count()) / float64(size)
		require.LessOrEqual(t, lf, LoadFactor, "load factor exceeded after insert %d", i)
	}

	// Everything is still reachable after the rehashes.
	for i := uint64(0); i < 1000; i++ {
		slot, err := st.Lookup(i)
		require.NoError(t, err)
		require.Equal(t, []byte{byte(i)}, slot.Value())
	}
}

func TestStore_GrowFailureDegradesGracefully(t *testing.T) {
	st := newUintStore(t, 4)

	var failedTarget uint64
	st.OnGrowFailure(func(target uint64) { failedTarget = target })

	AllocHook = func(uint64) bool { return false }
	defer func() { AllocHook = nil }()

	// Fill beyond the load factor; growth fails but inserts keep landing in
	// the original array.
	for i := uint64(0); i < 32; i++ {
		require.NoError(t, st.Insert(i, Managed([]byte{1}), nil))
	}

	assert.Equal(t, uint64(4), st.Size(), "table must stay on its pre-grow array")
	assert.Equal(t, uint64(32), st.Count())
	assert.Equal(t, uint64(8), failedTarget)
	assert.Greater(t, float64(st.Count())/float64(st.Size()), LoadFactor)

	// A later successful grow picks the table back up.
	AllocHook = nil
	require.NoError(t, st.Insert(100, Managed([]byte{1}), nil))
	assert.Greater(t, st.Size(), uint64(4))

	for i := uint64(0); i < 32; i++ {
		_, err := st.Lookup(i)
		require.NoError(t, err)
	}
}

func TestStore_BytesKeysAreCloned(t *testing.T) {
	st, _, err := New(8, hashkey.BytesOps(nil))
	require.NoError(t, err)

	key := []byte("alpha")
	require.NoError(t, st.Insert(key, Managed([]byte("v")), nil))

	// Clobber the caller's buffer; the store must still find its own copy.
	key[0] = 'Z'
	_, err = st.Lookup([]byte("alpha"))
	assert.NoError(t, err)
	_, err = st.Lookup(key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_InvalidKeyRejectedBeforeMutation(t *testing.T) {
	st, _, err := New(8, hashkey.BytesOps(nil))
	require.NoError(t, err)

	assert.ErrorIs(t, st.Insert(nil, Managed([]byte("v")), nil), hashkey.ErrKeyNil)
	assert.ErrorIs(t, st.Insert([]byte{}, Managed([]byte("v")), nil), hashkey.ErrKeyEmpty)
	assert.Equal(t, uint64(0), st.Count())

	_, err = st.Lookup(nil)
	assert.ErrorIs(t, err, hashkey.ErrKeyNil)
	assert.ErrorIs(t, st.Remove([]byte{0, 0}), hashkey.ErrKeyEmpty)
}

func TestStore_CollectValues(t *testing.T) {
	st := newUintStore(t, 8)

	require.NoError(t, st.Insert(1, Managed([]byte("v1")), nil))
	require.NoError(t, st.Insert(2, Borrowed("v2"), nil))

	values := st.CollectValues()
	require.Len(t, values, 2)
	assert.ElementsMatch(t, []any{[]byte("v1"), "v2"}, values)
}

func TestStore_ChainOrderIsMostRecentFirst(t *testing.T) {
	// Pin the store to a single bucket so every entry shares one chain.
	st := newUintStore(t, 1)
	AllocHook = func(uint64) bool { return false }
	defer func() { AllocHook = nil }()

	require.NoError(t, st.Insert(1, Borrowed("a"), nil))
	require.NoError(t, st.Insert(2, Borrowed("b"), nil))
	require.NoError(t, st.Insert(3, Borrowed("c"), nil))

	assert.Equal(t, []any{"c", "b", "a"}, st.CollectValues())
}

func TestStore_Walk(t *testing.T) {
	st := newUintStore(t, 8)
	for i := uint64(0); i < 5; i++ {
		require.NoError(t, st.Insert(i, Managed([]byte(fmt.Sprintf("v%d", i))), nil))
	}

	seen := make(map[uint64]bool)
	st.Walk(func(key uint64, _ Slot) bool {
		seen[key] = true
		return true
	})
	assert.Len(t, seen, 5)

	// Early termination.
	visits := 0
	st.Walk(func(uint64, Slot) bool {
		visits++
		return false
	})
	assert.Equal(t, 1, visits)
}

func TestStore_DestroyPolicies(t *testing.T) {
	t.Run("release values hits every mode", func(t *testing.T) {
		st := newUintStore(t, 8)
		ref := &struct{ n int }{}
		require.NoError(t, st.Insert(1, Managed([]byte("m")), nil))
		require.NoError(t, st.Insert(2, Borrowed(ref), nil))

		var released []any
		st.Destroy(ReleaseValues, func(v any) { released = append(released, v) })

		assert.Len(t, released, 2)
		assert.Contains(t, released, ref)
		assert.Equal(t, uint64(0), st.Count())
	})

	t.Run("keep values releases nothing", func(t *testing.T) {
		st := newUintStore(t, 8)
		require.NoError(t, st.Insert(1, Borrowed("borrowed"), nil))

		released := 0
		st.Destroy(KeepValues, func(any) { released++ })
		assert.Zero(t, released)
	})
}
