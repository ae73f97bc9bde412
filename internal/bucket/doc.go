// Package bucket implements the chained hashtable engine backing hashgo
// tables.
//
// A Store owns an array of bucket chains, doubles the array when the load
// factor would pass 0.75, and resolves collisions by head insertion into the
// matching chain. Rehashing relinks existing nodes into the new array; values
// are never copied during growth.
//
// The store performs no locking of its own. Callers serialize access; in
// hashgo that is the package-wide concurrency gate.
package bucket
