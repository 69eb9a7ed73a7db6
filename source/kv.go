package source

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/chring/internal/heartbeat"
	"github.com/arloliu/chring/internal/natsutil"
	"github.com/arloliu/chring/types"
)

// KV is a destination source backed by a NATS JetStream KeyValue bucket.
//
// Every key of the form "<prefix>.<destination>" registers one destination;
// the value is informational. Destinations join with Register and leave with
// Deregister (or when a bucket TTL expires their key).
//
// Watch combines a KV watcher for fast detection with periodic polling as a
// fallback, so membership converges even if watch updates are lost.
type KV struct {
	kv   jetstream.KeyValue
	opts options
}

var _ types.DestinationWatcher = (*KV)(nil)

// NewKV creates a KV-backed destination source.
//
// Parameters:
//   - kv: JetStream KV bucket (see internal/kvutil.EnsureBucket)
//   - opts: WithKeyPrefix, WithResyncInterval, WithOperationTimeout, WithLogger
//
// Returns:
//   - *KV: Initialized source
//
// Example:
//
//	js, _ := jetstream.New(nc)
//	bucket, _ := js.KeyValue(ctx, "chring-destinations")
//	src := source.NewKV(bucket, source.WithKeyPrefix("cache"))
//	go router.Watch(ctx, src)
func NewKV(kv jetstream.KeyValue, opts ...Option) *KV {
	return &KV{kv: kv, opts: applyOptions(opts)}
}

// Key returns the KV key that registers a destination.
func (s *KV) Key(id string) string {
	return s.opts.keyPrefix + "." + id
}

// ListDestinations scans the bucket for registered destinations.
//
// An empty bucket yields an empty list rather than an error.
//
// Returns:
//   - []string: Destination identifiers in lexical order
//   - error: KV access error, wrapped with types.ErrConnectivity when the server is unreachable
func (s *KV) ListDestinations(ctx context.Context) ([]string, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.opts.operationTimeout)
	defer cancel()

	keys, err := s.kv.Keys(opCtx)
	if err != nil {
		if types.IsNoKeysFoundError(err) {
			return []string{}, nil
		}

		return nil, fmt.Errorf("failed to list destination keys: %w", natsutil.WrapConnectivity(err))
	}

	prefix := s.opts.keyPrefix + "."
	destinations := make([]string, 0, len(keys))
	for _, key := range keys {
		id, ok := strings.CutPrefix(key, prefix)
		if !ok || id == "" {
			continue
		}
		destinations = append(destinations, id)
	}
	slices.Sort(destinations)

	return destinations, nil
}

// Register adds a destination to the bucket.
//
// The id becomes part of a NATS subject, so it must only contain characters
// valid in KV keys (letters, digits, "-", "_", "=", "/" and ".").
func (s *KV) Register(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: destination id must not be empty", types.ErrInvalidArgument)
	}

	opCtx, cancel := context.WithTimeout(ctx, s.opts.operationTimeout)
	defer cancel()

	if _, err := s.kv.PutString(opCtx, s.Key(id), id); err != nil {
		return fmt.Errorf("failed to register destination %q: %w", id, natsutil.WrapConnectivity(err))
	}

	return nil
}

// Deregister removes a destination from the bucket. Removing an unknown
// destination is not an error.
func (s *KV) Deregister(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: destination id must not be empty", types.ErrInvalidArgument)
	}

	opCtx, cancel := context.WithTimeout(ctx, s.opts.operationTimeout)
	defer cancel()

	if err := s.kv.Delete(opCtx, s.Key(id)); err != nil {
		return fmt.Errorf("failed to deregister destination %q: %w", id, natsutil.WrapConnectivity(err))
	}

	return nil
}

// KeepAlive registers a destination and keeps refreshing its key every
// interval until ctx is done, then deregisters it.
//
// Use it together with a bucket TTL of roughly three intervals: if the
// process dies without deregistering, its key ages out and routers drop
// the destination on their next resync.
//
// Parameters:
//   - ctx: Lifetime of the registration
//   - id: Destination identifier (non-empty, valid KV key characters)
//   - interval: Refresh interval (DefaultKeepAliveInterval if <= 0)
//
// Returns:
//   - error: ErrInvalidArgument, or a connectivity error from the first write;
//     nil once ctx is done
//
// Example:
//
//	g.Go(func() error { return src.KeepAlive(ctx, "10.0.0.1:6379", 2*time.Second) })
func (s *KV) KeepAlive(ctx context.Context, id string, interval time.Duration) error {
	if id == "" {
		return fmt.Errorf("%w: destination id must not be empty", types.ErrInvalidArgument)
	}
	if interval <= 0 {
		interval = DefaultKeepAliveInterval
	}

	publisher := heartbeat.New(s.kv, s.Key(id), interval, s.opts.logger)

	startCtx, cancel := context.WithTimeout(ctx, s.opts.operationTimeout)
	err := publisher.Start(startCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to register destination %q: %w", id, natsutil.WrapConnectivity(err))
	}
	s.opts.logger.Info("destination keep-alive started", "id", id, "interval", interval)

	<-ctx.Done()

	if err := publisher.Stop(); err != nil {
		s.opts.logger.Warn("failed to deregister destination on shutdown", "id", id, "error", err)
	} else {
		s.opts.logger.Info("destination keep-alive stopped", "id", id)
	}

	return nil
}

// Watch invokes onChange whenever registrations may have changed, until ctx is done.
//
// Detection is hybrid:
//   - KV watcher (primary): updates are debounced for 100ms, then onChange runs once
//   - Polling (fallback): onChange also runs every resync interval
//
// Repeated puts of a key already seen (KeepAlive refreshes) do not trigger
// onChange. Keys that age out through the bucket TTL are picked up by polling.
//
// If the watcher cannot be created, Watch logs a warning and relies on polling alone.
//
// Returns:
//   - error: Always nil; cancellation is a normal shutdown
func (s *KV) Watch(ctx context.Context, onChange func(ctx context.Context) error) error {
	pattern := s.opts.keyPrefix + ".>"

	var updates <-chan jetstream.KeyValueEntry
	watcher, err := s.kv.Watch(ctx, pattern, jetstream.UpdatesOnly())
	if err != nil {
		s.opts.logger.Warn("failed to start KV watcher, falling back to polling only",
			"pattern", pattern,
			"error", err,
		)
	} else {
		updates = watcher.Updates()
		s.opts.logger.Info("KV watcher started", "pattern", pattern)
		defer func() {
			if err := watcher.Stop(); err != nil {
				s.opts.logger.Warn("failed to stop KV watcher", "error", err)
			}
		}()
	}

	ticker := time.NewTicker(s.opts.resyncInterval)
	defer ticker.Stop()

	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()
	defer debounce.Stop()
	pending := false

	// Keys already seen as puts; a repeated put is a keep-alive refresh.
	live := make(map[string]struct{})

	notify := func(trigger string) {
		if err := onChange(ctx); err != nil {
			s.opts.logger.Error("destination change handler failed", "trigger", trigger, "error", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case entry, ok := <-updates:
			if !ok {
				s.opts.logger.Warn("KV watcher closed, continuing with polling only")
				updates = nil

				continue
			}
			if entry == nil {
				continue
			}
			s.opts.logger.Debug("KV watcher update", "key", entry.Key(), "operation", entry.Operation().String())

			if entry.Operation() == jetstream.KeyValuePut {
				if _, ok := live[entry.Key()]; ok {
					continue
				}
				live[entry.Key()] = struct{}{}
			} else {
				delete(live, entry.Key())
			}

			if !pending {
				pending = true
				debounce.Reset(watchDebounce)
			}

		case <-debounce.C:
			if pending {
				pending = false
				notify("watch")
			}

		case <-ticker.C:
			notify("poll")
		}
	}
}
