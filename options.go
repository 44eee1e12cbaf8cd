package geoterm

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/geoterm/blobstore"
	"github.com/hupe1980/geoterm/codec"
	"github.com/hupe1980/geoterm/index"
	"github.com/hupe1980/geoterm/internal/compress"
	"github.com/hupe1980/geoterm/terms"
)

// DefaultSnapshotName is the blob name used by Engine.Save and Engine.Load.
const DefaultSnapshotName = "geoterm.snapshot"

// DefaultCoveringCacheSize is the number of query coverings kept by default.
const DefaultCoveringCacheSize = 1024

type options struct {
	terms             terms.Options
	store             blobstore.BlobStore
	snapshotName      string
	snapshot          index.SnapshotOptions
	coveringCacheSize int
	cellLimitFactor   int
	concurrency       int
	metricsCollector  MetricsCollector
	logger            *Logger
}

// Option configures Engine construction.
type Option func(*options)

// WithTerms configures the levels and cell budgets of the engine.
// Documents indexed with one configuration can only be searched with the
// same MinLevel, MaxLevel and LevelMod.
func WithTerms(o terms.Options) Option {
	return func(opts *options) {
		opts.terms = o
	}
}

// WithStore configures the blob store used by Save and Load.
//
// Example:
//
//	store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("geo/"))
//	eng, _ := geoterm.New(geoterm.WithStore(store))
func WithStore(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithSnapshotName configures the blob name of the snapshot.
func WithSnapshotName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.snapshotName = name
		}
	}
}

// WithSnapshotOptions configures the snapshot codec and compression.
func WithSnapshotOptions(so index.SnapshotOptions) Option {
	return func(o *options) {
		o.snapshot = so
	}
}

// WithCodec configures the codec used for snapshot bodies.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.snapshot.Codec = c
	}
}

// WithCompression configures snapshot compression.
func WithCompression(t compress.Type) Option {
	return func(o *options) {
		o.snapshot.Compression = t
	}
}

// WithCoveringCacheSize configures how many query coverings are cached.
// A size <= 0 disables the cache.
func WithCoveringCacheSize(n int) Option {
	return func(o *options) {
		o.coveringCacheSize = n
	}
}

// WithCellLimitFactor rejects polygons and regions that would need more
// than n times the cell budget at MinLevel. 0 selects
// DefaultCellLimitFactor; a negative n disables the check.
func WithCellLimitFactor(n int) Option {
	return func(o *options) {
		o.cellLimitFactor = n
	}
}

// WithConcurrency bounds the number of documents BatchIndex covers in
// parallel. Values <= 0 select runtime.GOMAXPROCS(0).
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &geoterm.BasicMetricsCollector{}
//	eng, _ := geoterm.New(geoterm.WithMetricsCollector(metrics))
//	// ... use eng ...
//	stats := metrics.GetStats()
//	fmt.Printf("Indexed: %d, Searches: %d\n", stats.IndexCount, stats.SearchCount)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := geoterm.NewJSONLogger(slog.LevelInfo)
//	eng, _ := geoterm.New(geoterm.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
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

func applyOptions(optFns []Option) options {
	o := options{
		terms:             terms.DefaultOptions(),
		snapshotName:      DefaultSnapshotName,
		snapshot:          index.DefaultSnapshotOptions(),
		coveringCacheSize: DefaultCoveringCacheSize,
		metricsCollector:  NoopMetricsCollector{},
		logger:            NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.concurrency <= 0 {
		o.concurrency = runtime.GOMAXPROCS(0)
	}
	return o
}
