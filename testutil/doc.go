// Package testutil provides testing utilities for hashgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random source and helpers for
// generating keys and values.
//
// # Random Key/Value Generation
//
//	rng := testutil.NewRNG(seed)
//	k := rng.Uint64()          // unsigned-integer key
//	b := rng.BytesKey(16)      // valid byte-string key (no NUL bytes)
//	v := rng.Value(64)         // arbitrary value bytes
package testutil
