package heartbeat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/chring/internal/logger"
	"github.com/arloliu/chring/types"
)

// Common errors for heartbeat operations.
var (
	ErrNotStarted     = errors.New("publisher not started")
	ErrAlreadyStarted = errors.New("publisher already started")
	ErrNoKey          = errors.New("heartbeat key not set")
)

const publishTimeout = 5 * time.Second

// Publisher keeps a registration key alive by rewriting it periodically.
//
// Paired with a bucket TTL of roughly three intervals, a destination whose
// process dies stops refreshing its key and drops out of the bucket, so
// routers stop sending it traffic without an explicit deregistration.
type Publisher struct {
	kv       jetstream.KeyValue
	key      string
	interval time.Duration
	logger   types.Logger

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a heartbeat publisher for a single key.
//
// Parameters:
//   - kv: JetStream KV bucket holding registrations
//   - key: Full KV key to refresh (e.g., "destinations.10.0.0.1")
//   - interval: Refresh interval (typically 2s)
//   - log: Logger for refresh failures (nop if nil)
//
// Returns:
//   - *Publisher: Stopped publisher; call Start to begin refreshing
//
// Example:
//
//	kv, _ := js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
//	    Bucket: "chring-destinations",
//	    TTL:    6 * time.Second, // 3x interval
//	})
//	publisher := heartbeat.New(kv, "destinations.10.0.0.1", 2*time.Second, nil)
func New(kv jetstream.KeyValue, key string, interval time.Duration, log types.Logger) *Publisher {
	if log == nil {
		log = logger.NewNop()
	}

	return &Publisher{
		kv:       kv,
		key:      key,
		interval: interval,
		logger:   log,
	}
}

// Start writes the key immediately, then keeps refreshing it in the background
// until Stop is called. A stopped publisher can be started again.
//
// Returns:
//   - error: ErrAlreadyStarted, ErrNoKey, or the error of the first write
func (p *Publisher) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrAlreadyStarted
	}

	if p.key == "" {
		return ErrNoKey
	}

	if err := p.publish(ctx); err != nil {
		return fmt.Errorf("failed to publish initial heartbeat: %w", err)
	}

	p.started = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})

	go p.publishLoop(p.stopCh, p.doneCh)

	return nil
}

// Stop stops refreshing and deletes the key so routers drop the destination
// right away instead of waiting for the TTL.
//
// Blocks until the background goroutine has exited.
//
// Returns:
//   - error: ErrNotStarted if not running, or the delete error
func (p *Publisher) Stop() error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return ErrNotStarted
	}

	close(p.stopCh)
	doneCh := p.doneCh
	p.started = false
	p.mu.Unlock()

	<-doneCh

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := p.kv.Delete(ctx, p.key); err != nil {
		return fmt.Errorf("stopped but failed to delete heartbeat: %w", err)
	}

	return nil
}

func (p *Publisher) publishLoop(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
			err := p.publish(ctx)
			cancel()

			if err != nil {
				// Keep trying; the key survives until the TTL runs out.
				p.logger.Warn("heartbeat refresh failed", "key", p.key, "error", err)
			}
		}
	}
}

func (p *Publisher) publish(ctx context.Context) error {
	value := []byte(time.Now().UTC().Format(time.RFC3339Nano))
	if _, err := p.kv.Put(ctx, p.key, value); err != nil {
		return fmt.Errorf("failed to publish heartbeat for %s: %w", p.key, err)
	}

	return nil
}

// Key returns the refreshed KV key.
func (p *Publisher) Key() string {
	return p.key
}

// IsStarted reports whether the publisher is currently running.
func (p *Publisher) IsStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.started
}
