// Package hashgo provides an embedded, thread-safe hashtable library for Go.
//
// Hashgo is a generic key/value store for use inside larger programs. It
// supports unsigned-integer and byte-string keys, caller-selectable value
// ownership (managed copies vs. borrowed references), and a self-tracking
// instance registry that validates handles and sweeps forgotten tables at
// shutdown.
//
// # Quick Start
//
//	t, _ := hashgo.NewUint(1024)
//	defer t.Destroy(hashgo.ReleaseValues)
//
//	t.Set(42, []byte("hello"))       // managed: the table owns a copy
//	v, _ := t.Get(42)                 // []byte("hello")
//	t.Delete(42)
//
// Byte-string keys get their own table flavor; the table copies every key,
// so caller buffers can be reused immediately:
//
//	t, _ := hashgo.NewBytes(256)
//	t.Set([]byte("alpha"), []byte{1, 2, 3})
//
// # Value Ownership
//
// Every entry is either managed or borrowed, fixed per insertion:
//
//	t.Set(k, data)      // managed: independent copy, dropped on overwrite/delete/destroy
//	t.SetRaw(k, &thing) // borrowed: stored verbatim, lifetime stays with the caller
//
// Destroy takes an explicit policy instead of a boolean:
//
//	t.Destroy(hashgo.KeepValues)    // values untouched
//	t.Destroy(hashgo.ReleaseValues) // every value handed to the ValueReleaser
//
// ReleaseValues applies to borrowed references too; never route a value
// through it that something else still owns.
//
// # Snapshots
//
//	s, _ := t.Values() // all value references, count exact
//	_ = s.Release()    // or leave it for Shutdown to sweep
//
// # Concurrency Model
//
// A single process-wide lock serializes every operation across every table.
// Correctness is trivial to reason about at the cost of serializing
// unrelated tables' traffic; keep simultaneous access modest in hot paths.
//
// # Shutdown
//
// Tables still registered when hashgo.Shutdown runs are destroyed
// automatically, with their creation site logged. Treat that as a safety
// net, not a lifecycle strategy.
//
// # Key Features
//
//   - Chained buckets, power-of-two sizing, growth by doubling at 0.75 load
//   - Thomas Wang integer mixes, DJB2 or xxhash byte-string hashing
//   - Handle validation via the instance registry (stale handles error out)
//   - Structured logging (log/slog), pluggable metrics collection
package hashgo
