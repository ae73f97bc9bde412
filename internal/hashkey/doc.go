// Package hashkey provides the hash functions and per-key-flavor operations
// used by the bucket store.
//
// # Hash Functions
//
// Integer keys are diffused with Thomas Wang's avalanche mixes (Wang32/Wang64).
// Byte-string keys default to a DJB2-style multiply-by-33 accumulation; an
// xxhash-based alternative (XX) is available for workloads with long keys.
//
// None of these functions provide any cryptographic guarantee. They exist to
// spread key bits across bucket indices, nothing more.
//
// # Key Operations
//
// Ops bundles hashing, equality, validation, and cloning for one key flavor.
// The bucket store is generic over Ops, so it never inspects key variants at
// runtime; the two supported flavors are built by UintOps and BytesOps.
package hashkey
