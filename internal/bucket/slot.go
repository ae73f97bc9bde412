package bucket

// Mode tells who owns the memory behind a stored value.
type Mode uint8

const (
	// ModeManaged marks a value the store copied and owns.
	ModeManaged Mode = iota + 1

	// ModeBorrowed marks a caller-owned reference stored verbatim.
	ModeBorrowed
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeManaged:
		return "managed"
	case ModeBorrowed:
		return "borrowed"
	default:
		return "unknown"
	}
}

// Slot is the value cell of an entry. It is a two-armed sum: either the store
// owns an independent copy of the value bytes (managed) or it holds a
// caller-owned reference verbatim (borrowed). The arm is fixed per insertion;
// overwriting a key with the other arm switches that slot's mode.
type Slot struct {
	mode  Mode
	owned []byte
	ref   any
}

// Managed returns a slot owning an independent copy of data. Mutating the
// caller's buffer afterwards does not affect the stored value.
func Managed(data []byte) Slot {
	return Slot{mode: ModeManaged, owned: append([]byte(nil), data...)}
}

// Borrowed returns a slot holding ref verbatim. The referenced value's
// lifetime stays with the caller unless a destroy with ReleaseValues
// transfers release responsibility to the store.
func Borrowed(ref any) Slot {
	return Slot{mode: ModeBorrowed, ref: ref}
}

// Mode returns the slot's ownership mode.
func (s Slot) Mode() Mode {
	return s.mode
}

// Value returns the stored value reference: the owned byte copy for managed
// slots, the borrowed reference otherwise.
func (s Slot) Value() any {
	if s.mode == ModeManaged {
		return s.owned
	}
	return s.ref
}

// valid reports whether the slot was built by Managed or Borrowed.
func (s Slot) valid() bool {
	return s.mode == ModeManaged || s.mode == ModeBorrowed
}
