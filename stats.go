package hashgo

// KeyKind identifies a table's key flavor.
type KeyKind uint8

const (
	// KeyKindUint marks tables keyed by unsigned integers.
	KeyKindUint KeyKind = iota + 1

	// KeyKindBytes marks tables keyed by byte strings.
	KeyKindBytes
)

// String implements fmt.Stringer.
func (k KeyKind) String() string {
	switch k {
	case KeyKindUint:
		return "uint"
	case KeyKindBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// Stats is a point-in-time view of a table's geometry.
type Stats struct {
	// Entries is the number of live entries.
	Entries int

	// Buckets is the current bucket count, always a power of two. It only
	// ever grows, by doubling.
	Buckets int

	// LoadFactor is Entries/Buckets. It stays at or below 0.75 unless a
	// bucket-array growth failed.
	LoadFactor float64

	// KeyKind is the table's key flavor.
	KeyKind KeyKind
}
