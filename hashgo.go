package hashgo

import (
	"time"

	"github.com/hupe1980/hashgo/internal/bucket"
	"github.com/hupe1980/hashgo/internal/hashkey"
)

// Key constrains the key flavors a Table supports: unsigned-integer keys
// (uint64) or byte-string keys ([]byte). A table is created for exactly one
// flavor by NewUint or NewBytes; mixing flavors is a compile-time error.
type Key interface {
	~uint64 | ~[]byte
}

// DestroyPolicy selects what Destroy does with the values a table still
// holds.
type DestroyPolicy uint8

const (
	// KeepValues drops the table's own structures but leaves every stored
	// value untouched. Use it when the table held borrowed references whose
	// lifetime stays with the caller, or when stored values point at other
	// tables that are destroyed separately.
	KeepValues DestroyPolicy = iota

	// ReleaseValues additionally hands every stored value, borrowed
	// references included, to the table's ValueReleaser. This transfers
	// release responsibility onto the table: never release a value through
	// this path that something else still owns.
	ReleaseValues
)

// String implements fmt.Stringer.
func (p DestroyPolicy) String() string {
	if p == ReleaseValues {
		return "release-values"
	}
	return "keep-values"
}

func (p DestroyPolicy) bucketPolicy() bucket.ReleasePolicy {
	if p == ReleaseValues {
		return bucket.ReleaseValues
	}
	return bucket.KeepValues
}

// Table is a thread-safe chained hashtable over one key flavor. All
// instances share a single process-wide lock, so every operation is globally
// linearized; see the package documentation for the trade-off.
//
// A Table handle stays valid until Destroy or Shutdown. Operations on a
// destroyed or swept handle return ErrInvalidHandle.
type Table[K Key] struct {
	tid      uint64
	kind     KeyKind
	store    *bucket.Store[K]
	logger   *Logger
	metrics  MetricsCollector
	releaser ValueReleaser
}

// NewUint creates a table keyed by unsigned integers. initialSize is rounded
// up to the next power of two; sizing it near the expected entry count
// avoids growth rehashes.
func NewUint(initialSize int, opts ...Option) (*Table[uint64], error) {
	o := applyOptions(opts)
	return newTable[uint64](initialSize, KeyKindUint, hashkey.UintOps(), &o)
}

// NewBytes creates a table keyed by byte strings. The table owns independent
// copies of its keys: mutating or discarding a caller's key buffer after an
// operation does not affect the table. initialSize is rounded up to the next
// power of two.
func NewBytes(initialSize int, opts ...Option) (*Table[[]byte], error) {
	o := applyOptions(opts)
	var h hashkey.Hasher
	if o.byteHasher == HasherXX {
		h = hashkey.XX
	}
	return newTable[[]byte](initialSize, KeyKindBytes, hashkey.BytesOps(h), &o)
}

func newTable[K Key](initialSize int, kind KeyKind, ops hashkey.Ops[K], o *options) (*Table[K], error) {
	const op = "New"

	gate.Lock()
	defer gate.Unlock()

	if initialSize <= 0 {
		return nil, recordErrorLocked(op, ErrInvalidSize)
	}
	if err := ensureRegistriesLocked(); err != nil {
		return nil, recordErrorLocked(op, err)
	}

	st, adjusted, err := bucket.New(uint64(initialSize), ops)
	if err != nil {
		return nil, recordErrorLocked(op, translateError(err))
	}
	if adjusted {
		o.logger.LogSizeAdjusted(initialSize, st.Size())
	}

	t := &Table[K]{
		tid:      nextID.Add(1),
		kind:     kind,
		store:    st,
		logger:   o.logger.WithKeyKind(kind),
		metrics:  o.metrics,
		releaser: o.releaser,
	}
	t.logger = t.logger.WithTable(t.tid)
	st.OnGrowFailure(func(target uint64) {
		t.logger.LogGrowFailure(target, st.Count())
	})

	rec := &trackRecord{
		handle:     t,
		kind:       kind,
		createdAt:  callSite(2),
		warnOnLeak: o.warnOnLeak,
	}
	if err := registerTableLocked(t.tid, rec); err != nil {
		return nil, recordErrorLocked(op, translateError(err))
	}

	return t, nil
}

// Set stores an independent copy of value under key (managed mode). The
// table owns the copy: it is dropped on overwrite, Delete, and Destroy.
// Overwriting an existing key replaces its value without growing the entry
// count; if the slot previously held a borrowed reference, that reference is
// handed to the table's ValueReleaser first.
func (t *Table[K]) Set(key K, value []byte) error {
	const op = "Set"
	start := time.Now()

	gate.Lock()
	err := t.setLocked(op, key, value)
	gate.Unlock()

	if t != nil {
		t.metrics.RecordSet(time.Since(start), err)
	}
	return err
}

func (t *Table[K]) setLocked(op string, key K, value []byte) error {
	if err := t.validateLocked(); err != nil {
		return recordErrorLocked(op, err)
	}
	if value == nil {
		return recordErrorLocked(op, ErrNilValue)
	}
	if len(value) == 0 {
		return recordErrorLocked(op, ErrZeroSize)
	}
	if err := t.store.Insert(key, bucket.Managed(value), bucket.Releaser(t.releaser)); err != nil {
		return recordErrorLocked(op, translateError(err))
	}
	return nil
}

// SetRaw stores value verbatim under key (borrowed mode). The table takes no
// copy; the value's lifetime remains the caller's responsibility unless a
// later Destroy with ReleaseValues transfers it. Never let the table release
// a value something else still owns.
func (t *Table[K]) SetRaw(key K, value any) error {
	const op = "SetRaw"
	start := time.Now()

	gate.Lock()
	err := t.setRawLocked(op, key, value)
	gate.Unlock()

	if t != nil {
		t.metrics.RecordSet(time.Since(start), err)
	}
	return err
}

func (t *Table[K]) setRawLocked(op string, key K, value any) error {
	if err := t.validateLocked(); err != nil {
		return recordErrorLocked(op, err)
	}
	if value == nil {
		return recordErrorLocked(op, ErrNilValue)
	}
	if err := t.store.Insert(key, bucket.Borrowed(value), bucket.Releaser(t.releaser)); err != nil {
		return recordErrorLocked(op, translateError(err))
	}
	return nil
}

// Get returns the value reference stored under key: the table's managed copy
// for Set entries, the borrowed reference for SetRaw entries. Absent keys
// return ErrNotFound.
func (t *Table[K]) Get(key K) (any, error) {
	const op = "Get"
	start := time.Now()

	gate.Lock()
	value, err := t.getLocked(op, key)
	gate.Unlock()

	if t != nil {
		t.metrics.RecordGet(time.Since(start), err)
	}
	return value, err
}

func (t *Table[K]) getLocked(op string, key K) (any, error) {
	if err := t.validateLocked(); err != nil {
		return nil, recordErrorLocked(op, err)
	}
	slot, err := t.store.Lookup(key)
	if err != nil {
		return nil, recordErrorLocked(op, translateError(err))
	}
	return slot.Value(), nil
}

// Delete removes the entry for key. The table's managed copy (and its key
// copy) are dropped; a borrowed reference stays with its owner. Absent keys
// return ErrNotFound.
func (t *Table[K]) Delete(key K) error {
	const op = "Delete"
	start := time.Now()

	gate.Lock()
	err := t.deleteLocked(op, key)
	gate.Unlock()

	if t != nil {
		t.metrics.RecordDelete(time.Since(start), err)
	}
	return err
}

func (t *Table[K]) deleteLocked(op string, key K) error {
	if err := t.validateLocked(); err != nil {
		return recordErrorLocked(op, err)
	}
	if err := t.store.Remove(key); err != nil {
		return recordErrorLocked(op, translateError(err))
	}
	return nil
}

// Values collects every live value reference into a Snapshot sized exactly
// to the current entry count. The order is bucket order; within one chain it
// is most-recently-inserted first. The snapshot is registered by identity so
// it can be released later (or swept at Shutdown if forgotten).
func (t *Table[K]) Values() (*Snapshot, error) {
	const op = "Values"
	start := time.Now()

	gate.Lock()
	s, err := t.valuesLocked(op)
	gate.Unlock()

	if t != nil {
		t.metrics.RecordSnapshot(s.Len(), time.Since(start), err)
	}
	return s, err
}

func (t *Table[K]) valuesLocked(op string) (*Snapshot, error) {
	if err := t.validateLocked(); err != nil {
		return nil, recordErrorLocked(op, err)
	}
	if snapshots == nil {
		return nil, recordErrorLocked(op, ErrNotInitialized)
	}

	s := &Snapshot{
		id:     nextID.Add(1),
		values: t.store.CollectValues(),
	}
	if err := snapshots.Insert(s.id, bucket.Borrowed(s), nil); err != nil {
		return nil, recordErrorLocked(op, translateError(err))
	}
	return s, nil
}

// Destroy tears the table down and invalidates its handle. Under
// ReleaseValues every stored value is handed to the table's ValueReleaser,
// borrowed references included; under KeepValues values are left untouched.
// The registry entry is removed only after the teardown completes. Calls on
// an already-destroyed handle are logged and skipped with ErrInvalidHandle.
func (t *Table[K]) Destroy(policy DestroyPolicy) error {
	const op = "Destroy"
	start := time.Now()

	gate.Lock()
	err := t.destroyLocked(op, policy)
	gate.Unlock()

	if t != nil {
		t.metrics.RecordDestroy(time.Since(start), err)
	}
	return err
}

func (t *Table[K]) destroyLocked(op string, policy DestroyPolicy) error {
	if err := t.validateLocked(); err != nil {
		if t != nil {
			t.logger.LogDestroySkipped(err)
		}
		return recordErrorLocked(op, err)
	}

	t.store.Destroy(policy.bucketPolicy(), bucket.Releaser(t.releaser))
	unregisterTableLocked(t.tid)
	return nil
}

// sweepLocked is the Shutdown path: release every remaining value and drop
// the table's structures. Registry bookkeeping is the sweeper's business.
func (t *Table[K]) sweepLocked() {
	t.store.Destroy(bucket.ReleaseValues, bucket.Releaser(t.releaser))
}

// Len returns the number of live entries, or 0 for an invalid handle.
func (t *Table[K]) Len() int {
	gate.Lock()
	defer gate.Unlock()

	if err := t.validateLocked(); err != nil {
		return 0
	}
	return int(t.store.Count())
}

// Stats returns the table's current geometry.
func (t *Table[K]) Stats() (Stats, error) {
	const op = "Stats"

	gate.Lock()
	defer gate.Unlock()

	if err := t.validateLocked(); err != nil {
		return Stats{}, recordErrorLocked(op, err)
	}
	return Stats{
		Entries:    int(t.store.Count()),
		Buckets:    int(t.store.Size()),
		LoadFactor: float64(t.store.Count()) / float64(t.store.Size()),
		KeyKind:    t.kind,
	}, nil
}

func (t *Table[K]) validateLocked() error {
	if t == nil {
		return ErrNilHandle
	}
	return validateHandleLocked(t.tid, t)
}
