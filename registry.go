package hashgo

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/hashgo/internal/bucket"
	"github.com/hupe1980/hashgo/internal/hashkey"
)

const (
	// registryInitialSize is the starting bucket count of the instance
	// registry.
	registryInitialSize = 256

	// snapshotRegistryInitialSize is the starting bucket count of the
	// snapshot registry.
	snapshotRegistryInitialSize = 16

	// registryBootstrapAttempts bounds the size-doubling creation retries
	// for the instance registry before the library gives up.
	registryBootstrapAttempts = 4
)

// gate is the process-wide concurrency gate. Every public operation of every
// table serializes on it, the registries included. It is not reentrant:
// public operations call *Locked helpers instead of each other.
var gate sync.Mutex

// tables is the instance registry: a table of tables, itself an instance of
// the bucket store it tracks, keyed by table identity. Nil until the first
// table is created and again after Shutdown.
var tables *bucket.Store[uint64]

// snapshots is the snapshot registry, keyed by snapshot identity.
var snapshots *bucket.Store[uint64]

// nextID hands out table and snapshot identities.
var nextID atomic.Uint64

// lastOp and lastErr form the last-error side channel; written only under
// the gate.
var (
	lastOp  string
	lastErr error
)

// libLogger reports library-level events that have no table to attach to:
// registry bootstrap failures and the shutdown sweep. Replaceable via
// SetLogger.
var libLogger = NewLogger(nil)

// exitFn is called when the instance registry cannot be bootstrapped.
// Injectable for tests.
var exitFn = os.Exit

// destroyer is the non-generic face a Table shows the registry, so tables of
// different key flavors can share one registry.
type destroyer interface {
	sweepLocked()
}

// trackRecord is the bookkeeping entry the instance registry keeps per live
// table.
type trackRecord struct {
	handle     destroyer
	kind       KeyKind
	createdAt  string
	warnOnLeak bool
}

// SetLogger replaces the logger used for library-level events (registry
// bootstrap failure, shutdown sweep). Pass nil to silence them.
func SetLogger(l *Logger) {
	gate.Lock()
	defer gate.Unlock()
	if l == nil {
		l = NoopLogger()
	}
	libLogger = l
}

// ensureRegistriesLocked bootstraps the instance and snapshot registries on
// first use. The instance registry is the one allocation the library cannot
// operate without: after registryBootstrapAttempts size-doubling retries the
// process is terminated, since handle validation would otherwise be
// impossible. The caller must hold the gate.
func ensureRegistriesLocked() error {
	if tables != nil {
		return nil
	}

	size := uint64(registryInitialSize)
	for i := 0; i < registryBootstrapAttempts; i++ {
		st, _, err := bucket.New(size, hashkey.UintOps())
		if err == nil {
			tables = st
			break
		}
		size *= 2
	}
	if tables == nil {
		libLogger.Error("failed to bootstrap instance registry; terminating",
			"attempts", registryBootstrapAttempts,
		)
		exitFn(1)
		// Reached only when exitFn is stubbed in tests.
		return ErrNotInitialized
	}

	// The snapshot registry is dispensable: without it Values and
	// ReleaseSnapshot fail cleanly while everything else keeps working.
	st, _, err := bucket.New(snapshotRegistryInitialSize, hashkey.UintOps())
	if err != nil {
		libLogger.Error("failed to bootstrap snapshot registry", "error", err)
		_ = recordErrorLocked("init", translateError(err))
		return nil
	}
	snapshots = st

	return nil
}

// registerTableLocked records a table in the instance registry. The
// registry's own storage is the trusted bootstrap path: the record is stored
// borrowed and no handle validation applies to the registry itself.
func registerTableLocked(id uint64, rec *trackRecord) error {
	return tables.Insert(id, bucket.Borrowed(rec), nil)
}

// validateHandleLocked is the pre-execution check every public table
// operation runs: the registries must be live and the handle's identity must
// map back to this very handle. This turns stale, foreign, and destroyed
// handles into reported errors instead of undefined behavior.
func validateHandleLocked(id uint64, handle destroyer) error {
	if tables == nil {
		return ErrNotInitialized
	}
	slot, err := tables.Lookup(id)
	if err != nil {
		return ErrInvalidHandle
	}
	rec, ok := slot.Value().(*trackRecord)
	if !ok || rec.handle != handle {
		return ErrInvalidHandle
	}
	return nil
}

// unregisterTableLocked removes a table's identity from the instance
// registry. Called only after the table's own teardown has completed, so a
// concurrent validation of the same handle never observes a half-destroyed
// table.
func unregisterTableLocked(id uint64) {
	_ = tables.Remove(id)
}

// recordErrorLocked stores the failing operation's name and error in the
// last-error side channel and passes err through. The caller must hold the
// gate.
func recordErrorLocked(op string, err error) error {
	if err != nil {
		lastOp, lastErr = op, err
	}
	return err
}

// LastError returns the name of the most recent failing public operation and
// its error, or ("", nil) if nothing has failed since the last Shutdown.
// It is a debugging aid; the error returned by each call is the primary
// contract. The channel is process-wide: concurrent callers observe each
// other's failures.
func LastError() (op string, err error) {
	gate.Lock()
	defer gate.Unlock()
	return lastOp, lastErr
}

// Shutdown performs the orderly-shutdown sweep: every table still registered
// is destroyed with ReleaseValues (its creation site logged), unreleased
// snapshots are dropped, and the registries themselves are torn down. The
// library bootstraps again on the next table creation, invalidating all
// handles from before the sweep. Safe to call repeatedly.
//
// Call it once during process shutdown, after all goroutines using tables
// have stopped.
func Shutdown() {
	gate.Lock()
	defer gate.Unlock()

	if snapshots != nil {
		snapshots.Destroy(bucket.KeepValues, nil)
		snapshots = nil
	}

	if tables != nil {
		tables.Walk(func(id uint64, slot bucket.Slot) bool {
			rec, ok := slot.Value().(*trackRecord)
			if !ok {
				return true
			}
			libLogger.LogLeakedTable(id, rec.kind, rec.createdAt, rec.warnOnLeak)
			rec.handle.sweepLocked()
			return true
		})
		tables.Destroy(bucket.KeepValues, nil)
		tables = nil
	}

	lastOp, lastErr = "", nil
}

// callSite captures the caller's file:line for leak diagnostics, skipping
// skip stack frames above the caller of callSite.
func callSite(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", file, line)
}
