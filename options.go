package colarray

import (
	"log/slog"

	"github.com/hupe1980/colarray/codec"
	"github.com/hupe1980/colarray/colfile"
	"github.com/hupe1980/colarray/internal/cache"
	"github.com/hupe1980/colarray/internal/resource"
)

type options struct {
	codec              codec.Codec
	compression        colfile.Compression
	metricsCollector   MetricsCollector
	logger             *Logger
	resourceController *resource.Controller
	blockCache         cache.BlockCache
	blockSize          int64
}

// Option configures a Catalog.
type Option func(*options)

// WithCodec configures the codec used for column file headers and manifests.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures the block compression of saved tables.
func WithCompression(c colfile.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &colarray.BasicMetricsCollector{}
//	cat, _ := colarray.Open(ctx, store, colarray.WithMetricsCollector(metrics))
//	// ... use cat ...
//	stats := metrics.GetStats()
//	fmt.Printf("Saves: %d, Avg latency: %dns\n", stats.SaveCount, stats.SaveAvgNanos)
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

// WithResourceController bounds the memory, workers and write bandwidth
// used when saving tables.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resourceController = rc
	}
}

// WithBlockCache caches blob reads in blocks of blockSize bytes. A
// blockSize <= 0 selects blobstore.DefaultBlockSize. The caller owns c.
func WithBlockCache(c cache.BlockCache, blockSize int64) Option {
	return func(o *options) {
		o.blockCache = c
		o.blockSize = blockSize
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		compression:      colfile.CompressionNone,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o options) fileOptions() []colfile.Option {
	return []colfile.Option{
		colfile.WithCodec(o.codec),
		colfile.WithCompression(o.compression),
		colfile.WithResourceController(o.resourceController),
	}
}
