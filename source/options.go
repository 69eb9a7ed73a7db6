package source

import (
	"time"

	"github.com/arloliu/chring/internal/logger"
	"github.com/arloliu/chring/types"
)

// Defaults applied by NewKV when the corresponding option is not supplied.
const (
	DefaultKeyPrefix        = "destinations"
	DefaultResyncInterval   = 5 * time.Second
	DefaultOperationTimeout = 10 * time.Second

	// DefaultKeepAliveInterval pairs with a bucket TTL of about three times its value.
	DefaultKeepAliveInterval = 2 * time.Second

	// watchDebounce batches bursts of KV updates into a single notification.
	watchDebounce = 100 * time.Millisecond
)

// Option configures a destination source.
type Option func(*options)

type options struct {
	logger           types.Logger
	keyPrefix        string
	resyncInterval   time.Duration
	operationTimeout time.Duration
}

func defaultOptions() options {
	return options{
		logger:           logger.NewNop(),
		keyPrefix:        DefaultKeyPrefix,
		resyncInterval:   DefaultResyncInterval,
		operationTimeout: DefaultOperationTimeout,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithLogger sets the logger used for watch diagnostics.
func WithLogger(l types.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithKeyPrefix sets the KV key prefix; destination "node-a" is stored under "<prefix>.node-a".
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.keyPrefix = prefix
		}
	}
}

// WithResyncInterval sets the polling fallback interval used by KV.Watch.
func WithResyncInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.resyncInterval = d
		}
	}
}

// WithOperationTimeout bounds each individual KV request.
func WithOperationTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.operationTimeout = d
		}
	}
}
