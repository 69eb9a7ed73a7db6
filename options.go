package chring

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/chring/digest"
	"github.com/arloliu/chring/internal/metrics"
)

// Option configures a Router with optional dependencies.
type Option func(*routerOptions)

type routerOptions struct {
	hooks   *Hooks
	metrics MetricsCollector
	logger  Logger
	hasher  digest.Hasher
}

// WithHooks sets membership event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions; nil callbacks are ignored
//
// Returns:
//   - Option: Functional option for NewRouter
//
// Example:
//
//	hooks := &chring.Hooks{
//	    OnDestinationRemoved: func(ctx context.Context, id string, vnodes int) error {
//	        return drain(ctx, id)
//	    },
//	}
//	router, err := chring.NewRouter(&cfg, chring.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *routerOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Example:
//
//	m := chring.NewPrometheusMetrics(prometheus.DefaultRegisterer, cfg.Metrics.Namespace)
//	router, err := chring.NewRouter(&cfg, chring.WithMetrics(m))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *routerOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (see internal/logging for slog and zap adapters)
//
// Returns:
//   - Option: Functional option for NewRouter
func WithLogger(logger Logger) Option {
	return func(o *routerOptions) {
		o.logger = logger
	}
}

// WithHasher overrides the digest selected by Config.Hash. The hasher must
// produce at least PositionBits/8 bytes.
func WithHasher(hasher digest.Hasher) Option {
	return func(o *routerOptions) {
		o.hasher = hasher
	}
}

// NewPrometheusMetrics returns a MetricsCollector that registers its collectors
// lazily on reg (prometheus.DefaultRegisterer if nil) under namespace
// ("chring" if empty).
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) MetricsCollector {
	return metrics.NewPrometheus(reg, namespace)
}
