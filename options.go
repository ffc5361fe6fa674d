package colorman

import (
	"log/slog"

	"github.com/gogpu/colorman/engine"
	"github.com/gogpu/colorman/registry"
)

// Option configures a Manager during creation.
//
// Example:
//
//	// Built-in configuration, one worker per CPU
//	m := colorman.NewManager()
//
//	// Custom configuration with a bounded per-image cache
//	m := colorman.NewManager(colorman.WithConfig(cfg), colorman.WithCacheCapacity(8))
type Option func(*managerOptions)

// managerOptions holds optional configuration for Manager creation.
type managerOptions struct {
	registry      *registry.Registry
	config        *engine.Config
	workers       int
	cacheCapacity int
	logger        *slog.Logger
}

// defaultOptions returns the default manager options.
func defaultOptions() managerOptions {
	return managerOptions{
		workers:       0, // GOMAXPROCS
		cacheCapacity: DefaultCacheCapacity,
	}
}

// WithRegistry uses an already loaded registry. It takes precedence over
// WithConfig. The Manager takes ownership and closes it in Close.
func WithRegistry(r *registry.Registry) Option {
	return func(o *managerOptions) {
		o.registry = r
	}
}

// WithConfig loads cfg into a new registry instead of engine.Builtin.
func WithConfig(cfg *engine.Config) Option {
	return func(o *managerOptions) {
		o.config = cfg
	}
}

// WithWorkers sets the number of pixel workers. Zero or negative selects
// GOMAXPROCS; one runs every transform on the calling goroutine.
func WithWorkers(n int) Option {
	return func(o *managerOptions) {
		o.workers = n
	}
}

// WithCacheCapacity bounds the number of display buffers cached per image.
// Pass cache.Unlimited to disable eviction.
func WithCacheCapacity(n int) Option {
	return func(o *managerOptions) {
		o.cacheCapacity = n
	}
}

// WithLogger sets a logger for this Manager only. Without it the Manager
// logs through the package logger configured with SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(o *managerOptions) {
		o.logger = l
	}
}
