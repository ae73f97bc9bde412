package hashgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordSet is called after each Set or SetRaw operation.
	// duration is the total time taken, err is nil if successful.
	RecordSet(duration time.Duration, err error)

	// RecordGet is called after each Get operation.
	RecordGet(duration time.Duration, err error)

	// RecordDelete is called after each Delete operation.
	RecordDelete(duration time.Duration, err error)

	// RecordSnapshot is called after each Values operation.
	// count is the number of value references collected.
	RecordSnapshot(count int, duration time.Duration, err error)

	// RecordDestroy is called after each Destroy operation.
	RecordDestroy(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSet(time.Duration, error)           {}
func (NoopMetricsCollector) RecordGet(time.Duration, error)           {}
func (NoopMetricsCollector) RecordDelete(time.Duration, error)        {}
func (NoopMetricsCollector) RecordSnapshot(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordDestroy(time.Duration, error)       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SetCount       atomic.Int64
	SetErrors      atomic.Int64
	SetTotalNanos  atomic.Int64
	GetCount       atomic.Int64
	GetErrors      atomic.Int64
	GetTotalNanos  atomic.Int64
	DeleteCount    atomic.Int64
	DeleteErrors   atomic.Int64
	SnapshotCount  atomic.Int64
	SnapshotErrors atomic.Int64
	SnapshotValues atomic.Int64
	DestroyCount   atomic.Int64
	DestroyErrors  atomic.Int64
}

// RecordSet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSet(duration time.Duration, err error) {
	b.SetCount.Add(1)
	b.SetTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SetErrors.Add(1)
	}
}

// RecordGet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGet(duration time.Duration, err error) {
	b.GetCount.Add(1)
	b.GetTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.GetErrors.Add(1)
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(duration time.Duration, err error) {
	b.DeleteCount.Add(1)
	if err != nil {
		b.DeleteErrors.Add(1)
	}
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(count int, duration time.Duration, err error) {
	b.SnapshotCount.Add(1)
	b.SnapshotValues.Add(int64(count))
	if err != nil {
		b.SnapshotErrors.Add(1)
	}
}

// RecordDestroy implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDestroy(duration time.Duration, err error) {
	b.DestroyCount.Add(1)
	if err != nil {
		b.DestroyErrors.Add(1)
	}
}

// GetStats returns a consistent snapshot of the collected metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SetCount:       b.SetCount.Load(),
		SetErrors:      b.SetErrors.Load(),
		SetAvgNanos:    avgNanos(b.SetTotalNanos.Load(), b.SetCount.Load()),
		GetCount:       b.GetCount.Load(),
		GetErrors:      b.GetErrors.Load(),
		GetAvgNanos:    avgNanos(b.GetTotalNanos.Load(), b.GetCount.Load()),
		DeleteCount:    b.DeleteCount.Load(),
		DeleteErrors:   b.DeleteErrors.Load(),
		SnapshotCount:  b.SnapshotCount.Load(),
		SnapshotErrors: b.SnapshotErrors.Load(),
		SnapshotValues: b.SnapshotValues.Load(),
		DestroyCount:   b.DestroyCount.Load(),
		DestroyErrors:  b.DestroyErrors.Load(),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SetCount       int64
	SetErrors      int64
	SetAvgNanos    int64
	GetCount       int64
	GetErrors      int64
	GetAvgNanos    int64
	DeleteCount    int64
	DeleteErrors   int64
	SnapshotCount  int64
	SnapshotErrors int64
	SnapshotValues int64
	DestroyCount   int64
	DestroyErrors  int64
}
