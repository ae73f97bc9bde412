package bucket

import (
	"errors"

	"github.com/hupe1980/hashgo/internal/hashkey"
)

// LoadFactor is the entries/buckets ratio that triggers growth. The store
// doubles its bucket array before an insert would push the ratio past it.
const LoadFactor = 0.75

var (
	// ErrNotFound is returned by Lookup and Remove for absent keys. It is a
	// normal outcome, not a store failure.
	ErrNotFound = errors.New("key not found")

	// ErrAllocFailed is returned when the bucket-array allocator reports
	// failure (only reachable through the AllocHook test hook).
	ErrAllocFailed = errors.New("bucket array allocation failed")

	// ErrZeroSize is returned by New for a zero bucket count.
	ErrZeroSize = errors.New("bucket count must be positive")

	// ErrInvalidSlot is returned when a slot was not built by Managed or
	// Borrowed.
	ErrInvalidSlot = errors.New("slot has no ownership mode")
)

// AllocHook, when non-nil, is consulted before every bucket-array allocation
// with the requested bucket count. Returning false simulates an allocation
// failure. It exists for fault-injection tests and must stay nil in
// production use.
var AllocHook func(buckets uint64) bool

// ReleasePolicy selects what happens to stored values when the store is torn
// down.
type ReleasePolicy uint8

const (
	// KeepValues drops chain nodes and cloned keys but leaves every stored
	// value untouched.
	KeepValues ReleasePolicy = iota

	// ReleaseValues additionally hands every stored value to the releaser,
	// borrowed references included. Callers must not double-own a released
	// value.
	ReleaseValues
)

// String implements fmt.Stringer.
func (p ReleasePolicy) String() string {
	if p == ReleaseValues {
		return "release-values"
	}
	return "keep-values"
}

// Releaser is invoked for values whose release responsibility lies with the
// store: overwritten borrowed references, and every value on a
// ReleaseValues teardown. A nil Releaser is a no-op.
type Releaser func(value any)

type node[K any] struct {
	key  K
	slot Slot
	next *node[K]
}

// Store is a chained hashtable over a fixed key flavor. It is not safe for
// concurrent use; the caller provides serialization.
type Store[K any] struct {
	ops        hashkey.Ops[K]
	buckets    []*node[K]
	count      uint64
	onGrowFail func(target uint64)
}

// New creates a store with at least size buckets, rounded up to the next
// power of two. The returned adjusted flag reports whether rounding changed
// the requested size.
func New[K any](size uint64, ops hashkey.Ops[K]) (st *Store[K], adjusted bool, err error) {
	if size == 0 {
		return nil, false, ErrZeroSize
	}

	rounded := hashkey.NextPowerOfTwo(size)
	if rounded == 0 {
		return nil, false, ErrZeroSize
	}

	buckets := allocBuckets[K](rounded)
	if buckets == nil {
		return nil, false, ErrAllocFailed
	}

	return &Store[K]{ops: ops, buckets: buckets}, rounded != size, nil
}

func allocBuckets[K any](n uint64) []*node[K] {
	if AllocHook != nil && !AllocHook(n) {
		return nil
	}
	return make([]*node[K], n)
}

// OnGrowFailure registers a callback invoked when doubling the bucket array
// fails; target is the bucket count that could not be allocated.
func (s *Store[K]) OnGrowFailure(fn func(target uint64)) {
	s.onGrowFail = fn
}

// Count returns the number of live entries.
func (s *Store[K]) Count() uint64 {
	return s.count
}

// Size returns the current bucket count, always a power of two.
func (s *Store[K]) Size() uint64 {
	return uint64(len(s.buckets))
}

func (s *Store[K]) index(key K, buckets uint64) uint64 {
	return hashkey.Index(s.ops.Hash(key), buckets)
}

// Insert adds or overwrites the entry for key. New entries are head-inserted
// with a cloned key. Overwrites replace the slot in place: a previously
// borrowed reference is handed to rel before being replaced, previously
// managed bytes are simply dropped. If the post-insert load factor would
// exceed LoadFactor the bucket array doubles first; a failed doubling is
// tolerated and the insert proceeds into the un-grown array.
func (s *Store[K]) Insert(key K, slot Slot, rel Releaser) error {
	if err := s.ops.Validate(key); err != nil {
		return err
	}
	if !slot.valid() {
		return ErrInvalidSlot
	}

	if float64(s.count+1)/float64(len(s.buckets)) > LoadFactor {
		s.grow()
	}

	idx := s.index(key, uint64(len(s.buckets)))
	for n := s.buckets[idx]; n != nil; n = n.next {
		if s.ops.Equal(n.key, key) {
			if n.slot.mode == ModeBorrowed && rel != nil {
				rel(n.slot.ref)
			}
			n.slot = slot
			return nil
		}
	}

	s.buckets[idx] = &node[K]{key: s.ops.Clone(key), slot: slot, next: s.buckets[idx]}
	s.count++
	return nil
}

// grow doubles the bucket array and relinks every node into its new chain.
// Nodes move, values do not. On allocation failure the store stays in its
// pre-grow state.
func (s *Store[K]) grow() {
	target := uint64(len(s.buckets)) * 2
	fresh := allocBuckets[K](target)
	if fresh == nil {
		if s.onGrowFail != nil {
			s.onGrowFail(target)
		}
		return
	}

	for _, n := range s.buckets {
		for n != nil {
			next := n.next
			idx := s.index(n.key, target)
			n.next = fresh[idx]
			fresh[idx] = n
			n = next
		}
	}

	s.buckets = fresh
}

// Lookup returns the slot stored for key, or ErrNotFound.
func (s *Store[K]) Lookup(key K) (Slot, error) {
	if err := s.ops.Validate(key); err != nil {
		return Slot{}, err
	}

	idx := s.index(key, uint64(len(s.buckets)))
	for n := s.buckets[idx]; n != nil; n = n.next {
		if s.ops.Equal(n.key, key) {
			return n.slot, nil
		}
	}

	return Slot{}, ErrNotFound
}

// Remove unlinks the entry for key. Managed value bytes and the cloned key
// are dropped with the node; borrowed references stay with their owner.
func (s *Store[K]) Remove(key K) error {
	if err := s.ops.Validate(key); err != nil {
		return err
	}

	idx := s.index(key, uint64(len(s.buckets)))
	var prev *node[K]
	for n := s.buckets[idx]; n != nil; n = n.next {
		if s.ops.Equal(n.key, key) {
			if prev != nil {
				prev.next = n.next
			} else {
				s.buckets[idx] = n.next
			}
			n.next = nil
			s.count--
			return nil
		}
		prev = n
	}

	return ErrNotFound
}

// CollectValues gathers every live value reference in bucket order. Within a
// chain the order is most-recently-inserted first, a consequence of head
// insertion; no other ordering is promised.
func (s *Store[K]) CollectValues() []any {
	out := make([]any, 0, s.count)
	for _, n := range s.buckets {
		for ; n != nil; n = n.next {
			out = append(out, n.slot.Value())
		}
	}
	return out
}

// Walk applies fn to every entry until fn returns false. The store must not
// be mutated during the walk.
func (s *Store[K]) Walk(fn func(key K, slot Slot) bool) {
	for _, n := range s.buckets {
		for ; n != nil; n = n.next {
			if !fn(n.key, n.slot) {
				return
			}
		}
	}
}

// Destroy tears the store down. Under ReleaseValues every stored value is
// handed to rel regardless of its mode; under KeepValues values are left
// untouched. Chain nodes, cloned keys, and the bucket array are always
// dropped. The store is unusable afterwards.
func (s *Store[K]) Destroy(policy ReleasePolicy, rel Releaser) {
	for i, n := range s.buckets {
		for n != nil {
			next := n.next
			if policy == ReleaseValues && rel != nil {
				rel(n.slot.Value())
			}
			n.next = nil
			n = next
		}
		s.buckets[i] = nil
	}
	s.buckets = nil
	s.count = 0
}
