package hashgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/hashgo/internal/bucket"
	"github.com/hupe1980/hashgo/internal/hashkey"
)

var (
	// ErrNotFound is returned by Get and Delete when the key has no entry.
	// This is a normal outcome, not a table failure.
	ErrNotFound = errors.New("key not found")

	// ErrSnapshotNotFound is returned when releasing a snapshot that is not
	// registered, typically because it was already released.
	ErrSnapshotNotFound = errors.New("snapshot not registered")

	// ErrNilHandle is returned when a nil table or snapshot handle is used.
	ErrNilHandle = errors.New("nil handle")

	// ErrInvalidHandle is returned when a handle is not present in the
	// instance registry: it was destroyed, belongs to a swept shutdown
	// generation, or never came from this library.
	ErrInvalidHandle = errors.New("handle not registered")

	// ErrNotInitialized is returned when the library's registries are gone,
	// e.g. a handle from before Shutdown is used afterwards.
	ErrNotInitialized = errors.New("library not initialized")

	// ErrInvalidKey wraps key validation failures (nil or empty byte-string
	// keys). The underlying reason is available via errors.Unwrap.
	ErrInvalidKey = errors.New("invalid key")

	// ErrNilValue is returned by Set and SetRaw for a nil value.
	ErrNilValue = errors.New("value must not be nil")

	// ErrZeroSize is returned by Set for an empty managed value. Store a
	// borrowed reference with SetRaw if there are no bytes to copy.
	ErrZeroSize = errors.New("managed value must not be empty")

	// ErrInvalidSize is returned when a table is created with size < 1.
	ErrInvalidSize = errors.New("initial size must be at least 1")

	// ErrAllocFailed wraps bucket-array allocation failures. Outside of
	// fault-injection tests this does not occur.
	ErrAllocFailed = errors.New("allocation failed")
)

// translateError maps engine-layer errors onto the public error contract.
// Engine sentinels stay reachable through errors.Is for callers that dig.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bucket.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, hashkey.ErrKeyNil), errors.Is(err, hashkey.ErrKeyEmpty):
		return fmt.Errorf("%w: %w", ErrInvalidKey, err)
	case errors.Is(err, bucket.ErrAllocFailed):
		return fmt.Errorf("%w: %w", ErrAllocFailed, err)
	case errors.Is(err, bucket.ErrZeroSize):
		return fmt.Errorf("%w: %w", ErrInvalidSize, err)
	default:
		return err
	}
}
