package hashgo

import (
	"io"
	"log/slog"
)

// ValueReleaser is invoked for values whose release responsibility has moved
// to the table: a borrowed reference displaced by an overwrite, and every
// stored value when a table is destroyed with ReleaseValues (or swept at
// Shutdown).
//
// The default releaser closes values implementing io.Closer and ignores
// everything else.
type ValueReleaser func(value any)

func defaultReleaser(value any) {
	if c, ok := value.(io.Closer); ok {
		_ = c.Close()
	}
}

// ByteHasher selects the hash function for byte-string keys. It has no
// effect on unsigned-integer tables.
type ByteHasher int

const (
	// HasherDJB2 is the default: multiply-by-33 accumulation seeded at 5381,
	// scanning up to the first NUL byte or the declared length.
	HasherDJB2 ByteHasher = iota

	// HasherXX uses xxhash over the full declared buffer. Faster on long
	// keys; embedded NUL bytes participate in the hash.
	HasherXX
)

type options struct {
	logger     *Logger
	metrics    MetricsCollector
	releaser   ValueReleaser
	byteHasher ByteHasher
	warnOnLeak bool
}

// Option configures table construction.
//
// Options exist to keep the constructor surface small; a table's
// configuration is immutable after NewUint/NewBytes returns.
type Option func(*options)

// WithLogger configures structured logging for the table.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := hashgo.NewJSONLogger(slog.LevelInfo)
//	t, _ := hashgo.NewUint(64, hashgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &hashgo.BasicMetricsCollector{}
//	t, _ := hashgo.NewUint(64, hashgo.WithMetricsCollector(metrics))
//	// ... use t ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metrics = mc
	}
}

// WithValueReleaser configures the release hook invoked when the table takes
// over responsibility for a stored value. See ValueReleaser for when that
// happens. Pass nil to restore the default io.Closer behavior.
func WithValueReleaser(r ValueReleaser) Option {
	return func(o *options) {
		o.releaser = r
	}
}

// WithByteHasher selects the byte-string hash function for a table created
// by NewBytes. Ignored by NewUint.
func WithByteHasher(h ByteHasher) Option {
	return func(o *options) {
		o.byteHasher = h
	}
}

// WithLeakWarning raises the log level of the shutdown-sweep report for this
// table from Debug to Warn, so a forgotten Destroy shows up in production
// logs.
func WithLeakWarning() Option {
	return func(o *options) {
		o.warnOnLeak = true
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:   NoopLogger(),
		metrics:  NoopMetricsCollector{},
		releaser: defaultReleaser,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metrics == nil {
		o.metrics = NoopMetricsCollector{}
	}
	if o.releaser == nil {
		o.releaser = defaultReleaser
	}
	return o
}
