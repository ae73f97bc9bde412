package hashgo

// Snapshot is a point-in-time array of all value references a table held
// when Values was called. It is registered in the library's snapshot
// registry by identity, so forgetting to release it is only a bookkeeping
// inefficiency: Shutdown sweeps unreleased snapshots.
//
// The snapshot does not follow later table mutations, and the references it
// carries are the stored values themselves, not copies.
type Snapshot struct {
	id     uint64
	values []any
}

// Values returns the collected value references. The slice is owned by the
// snapshot; callers must not grow it.
func (s *Snapshot) Values() []any {
	if s == nil {
		return nil
	}
	return s.values
}

// Len returns the number of collected values.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Release unregisters the snapshot. Releasing twice returns
// ErrSnapshotNotFound. Equivalent to ReleaseSnapshot(s).
func (s *Snapshot) Release() error {
	return ReleaseSnapshot(s)
}

// ReleaseSnapshot removes s from the snapshot registry by identity. After a
// successful release the snapshot must not be released again; a second call
// returns ErrSnapshotNotFound.
func ReleaseSnapshot(s *Snapshot) error {
	const op = "ReleaseSnapshot"

	gate.Lock()
	defer gate.Unlock()

	if s == nil {
		return recordErrorLocked(op, ErrNilHandle)
	}
	if snapshots == nil {
		return recordErrorLocked(op, ErrNotInitialized)
	}
	if err := snapshots.Remove(s.id); err != nil {
		return recordErrorLocked(op, ErrSnapshotNotFound)
	}
	return nil
}
