package chring

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/chring/digest"
	"github.com/arloliu/chring/internal/hash"
	"github.com/arloliu/chring/internal/hooks"
	"github.com/arloliu/chring/internal/logger"
	"github.com/arloliu/chring/internal/metrics"
)

// Router routes lookup keys to destinations through a consistent-hash ring.
//
// Router wraps a single ring and adds what the ring itself leaves out:
//   - Concurrency: membership changes take an exclusive lock, lookups a shared one
//   - Reconciliation against a DestinationSource (Sync, Watch)
//   - Logging, metrics and membership hooks
//
// Thread Safety:
//   - All public methods are safe for concurrent use
//   - A lookup observes the ring either entirely before or entirely after a
//     membership change, never in between
//   - Hooks run in their own goroutines after the lock is released
type Router struct {
	cfg     Config
	logger  Logger
	metrics MetricsCollector
	hooks   Hooks

	// lookups counts successful lookups per destination.
	lookups *xsync.Map[string, *xsync.Counter]

	mu     sync.RWMutex
	engine hash.Engine

	// syncMu serializes Sync passes so two reconciliations never interleave.
	syncMu sync.Mutex
}

// NewRouter creates a Router with an empty ring.
//
// Parameters:
//   - cfg: Configuration; missing values are filled with defaults (modified in place)
//   - opts: Optional dependencies (WithLogger, WithMetrics, WithHooks, WithHasher)
//
// Returns:
//   - *Router: Initialized router with no destinations
//   - error: ErrInvalidConfig (possibly wrapping ErrInvalidWidth or ErrUnknownHash)
//
// Example:
//
//	cfg := chring.DefaultConfig()
//	cfg.ReplicationCount = 100
//	router, err := chring.NewRouter(&cfg, chring.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
func NewRouter(cfg *Config, opts ...Option) (*Router, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}

	SetDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	options := &routerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logger.NewNop()
	}

	cfg.ValidateWithWarnings(loggerInstance)

	hasher := options.hasher
	if hasher == nil {
		var err error
		if hasher, err = digest.ByName(cfg.Hash); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	engine, err := hash.NewEngine(cfg.PositionBits, cfg.ReplicationCount, cfg.RingSlotCount, hasher)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	r := &Router{
		cfg:     *cfg,
		logger:  loggerInstance,
		metrics: metricsCollector,
		hooks:   hooks.Fill(options.hooks),
		lookups: xsync.NewMap[string, *xsync.Counter](),
		engine:  engine,
	}

	r.logger.Debug("router created",
		"position_bits", cfg.PositionBits,
		"replicas", cfg.ReplicationCount,
		"hash", hasher.Name(),
		"ring_slot_count", cfg.RingSlotCount,
	)

	return r, nil
}

// AddDestination places a destination on the ring.
//
// Adding a destination that already owns its virtual nodes is a no-op: no
// hook fires and no metric is recorded. On error the ring is left unchanged.
//
// Parameters:
//   - ctx: Context for cancellation; hooks receive a non-cancelable copy
//   - id: Destination identifier (non-empty)
//
// Returns:
//   - error: ErrInvalidArgument for an empty id, a digest error, or ctx.Err()
func (r *Router) AddDestination(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	ownedBefore := r.engine.Owned(id)
	collisionsBefore := r.engine.Collisions()
	err := r.engine.Add(id)
	owned := r.engine.Owned(id)
	collisions := r.engine.Collisions() - collisionsBefore
	destinations, size := r.engine.DestinationCount(), r.engine.Size()
	r.mu.Unlock()

	if err != nil {
		r.logger.Error("failed to add destination", "id", id, "error", err)
		return fmt.Errorf("failed to add destination %q: %w", id, err)
	}

	added := owned - ownedBefore
	if added == 0 {
		r.logger.Debug("destination already on ring", "id", id)
		return nil
	}

	r.metrics.RecordDestinationChange("add", added)
	r.metrics.RecordPositionCollisions(int(collisions)) //nolint:gosec // per-call delta is bounded by replicas attempts
	r.metrics.RecordRingSize(destinations, size)

	r.logger.Info("destination added",
		"id", id,
		"virtual_nodes", added,
		"collisions", collisions,
		"destinations", destinations,
	)

	hookCtx := context.WithoutCancel(ctx)
	go func() {
		if err := r.hooks.OnDestinationAdded(hookCtx, id, owned); err != nil {
			r.logger.Error("destination added hook error", "id", id, "error", err)
		}
	}()

	return nil
}

// RemoveDestination erases every virtual node of a destination.
//
// Removing an unknown destination is a no-op and not an error.
//
// Returns:
//   - error: ctx.Err() if the context is already done, nil otherwise
func (r *Router) RemoveDestination(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	removed := r.engine.Remove(id)
	destinations, size := r.engine.DestinationCount(), r.engine.Size()
	r.mu.Unlock()

	if removed == 0 {
		r.logger.Debug("destination not on ring", "id", id)
		return nil
	}

	r.metrics.RecordDestinationChange("remove", removed)
	r.metrics.RecordRingSize(destinations, size)

	r.logger.Info("destination removed",
		"id", id,
		"virtual_nodes", removed,
		"destinations", destinations,
	)

	hookCtx := context.WithoutCancel(ctx)
	go func() {
		if err := r.hooks.OnDestinationRemoved(hookCtx, id, removed); err != nil {
			r.logger.Error("destination removed hook error", "id", id, "error", err)
		}
	}()

	return nil
}

// FindDestination returns the destination responsible for a key.
//
// The key may be empty; it is hashed like any other byte string.
//
// Returns:
//   - string: Destination identifier
//   - error: ErrNoDestinationsAvailable when the ring is empty
func (r *Router) FindDestination(key []byte) (string, error) {
	start := time.Now()

	r.mu.RLock()
	dest, err := r.engine.Find(key)
	r.mu.RUnlock()

	r.metrics.RecordLookup(err == nil, time.Since(start).Seconds())
	if err != nil {
		return "", err
	}
	r.countLookup(dest)

	return dest, nil
}

// FindDestinationString is FindDestination for string keys.
func (r *Router) FindDestinationString(key string) (string, error) {
	return r.FindDestination([]byte(key))
}

// FindDestinations returns up to n distinct destinations for a key in ring
// order, starting with the one FindDestination would return. Useful for
// picking replicas or fallbacks.
//
// Returns:
//   - []string: Between 1 and min(n, destinations) identifiers
//   - error: ErrInvalidArgument for n < 1, ErrNoDestinationsAvailable on an empty ring
func (r *Router) FindDestinations(key []byte, n int) ([]string, error) {
	start := time.Now()

	r.mu.RLock()
	dests, err := r.engine.FindN(key, n)
	r.mu.RUnlock()

	r.metrics.RecordLookup(err == nil, time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	r.countLookup(dests[0])

	return dests, nil
}

func (r *Router) countLookup(dest string) {
	counter, ok := r.lookups.Load(dest)
	if !ok {
		counter, _ = r.lookups.LoadOrStore(dest, xsync.NewCounter())
	}
	counter.Inc()
}

// Destinations returns the registered destinations in lexical order.
func (r *Router) Destinations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.engine.Destinations()
}

// VirtualNodes returns the positions owned by a destination as fixed-width hex
// strings, in generation order. Unknown destinations yield an empty slice.
func (r *Router) VirtualNodes(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.engine.VirtualNodes(id)
}

// Size returns the total number of virtual nodes on the ring.
func (r *Router) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.engine.Size()
}

// Bits returns the position width in bits.
func (r *Router) Bits() int {
	return r.engine.Bits()
}

// Replicas returns the number of virtual nodes per destination.
func (r *Router) Replicas() int {
	return r.engine.Replicas()
}

// SlotCount returns the configured ring slot count (metadata only).
func (r *Router) SlotCount() uint64 {
	return r.engine.SlotCount()
}

// Collisions returns the number of generated positions discarded because they
// were already occupied.
func (r *Router) Collisions() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.engine.Collisions()
}

// Config returns a copy of the effective configuration.
func (r *Router) Config() Config {
	return r.cfg
}

// LookupCounts returns the number of successful lookups resolved to each
// destination since the router was created, including destinations that have
// since been removed.
func (r *Router) LookupCounts() map[string]int64 {
	counts := make(map[string]int64, r.lookups.Size())
	r.lookups.Range(func(dest string, counter *xsync.Counter) bool {
		counts[dest] = counter.Value()
		return true
	})

	return counts
}

// Verify checks the ring's internal invariants. It is intended for tests and
// debug endpoints.
func (r *Router) Verify() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.engine.Verify()
}

// Sync reconciles ring membership with a destination source.
//
// Destinations missing from the source are removed first, then new ones are
// added. Empty identifiers reported by the source are skipped with a warning.
// A failure to add one destination does not stop the others; all failures are
// joined into the returned error.
//
// Parameters:
//   - ctx: Context for cancellation, passed to the source
//   - src: Destination source
//
// Returns:
//   - error: ErrSourceRequired, a listing error, or joined add errors
func (r *Router) Sync(ctx context.Context, src DestinationSource) error {
	if src == nil {
		return ErrSourceRequired
	}

	r.syncMu.Lock()
	defer r.syncMu.Unlock()

	start := time.Now()

	desired, err := src.ListDestinations(ctx)
	if err != nil {
		r.metrics.RecordSourceSync(false, time.Since(start).Seconds())
		err = fmt.Errorf("failed to list destinations: %w", err)
		r.reportError(ctx, err)

		return err
	}

	want := make(map[string]struct{}, len(desired))
	for _, id := range desired {
		if id == "" {
			r.logger.Warn("skipping empty destination id from source")
			continue
		}
		want[id] = struct{}{}
	}

	current := r.Destinations()
	have := make(map[string]struct{}, len(current))
	var toRemove []string
	for _, id := range current {
		have[id] = struct{}{}
		if _, ok := want[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}

	var toAdd []string
	for id := range want {
		if _, ok := have[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	slices.Sort(toAdd)

	var errs []error
	removed := 0
	for _, id := range toRemove {
		if err := r.RemoveDestination(ctx, id); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}

	added := 0
	for _, id := range toAdd {
		if err := r.AddDestination(ctx, id); err != nil {
			errs = append(errs, err)
			continue
		}
		added++
	}

	err = errors.Join(errs...)
	r.metrics.RecordSourceSync(err == nil, time.Since(start).Seconds())
	r.metrics.RecordSourceChange(added, removed)

	if added > 0 || removed > 0 {
		r.logger.Info("ring synced with source",
			"added", added,
			"removed", removed,
			"destinations", len(current)+added-removed,
		)
	}

	if err != nil {
		r.reportError(ctx, err)
		return err
	}

	return nil
}

// Watch keeps ring membership in sync with a watchable source until ctx is done.
//
// An initial Sync runs before watching; if it fails the error is logged and
// the next change notification retries. Every notification triggers a full Sync.
//
// Returns:
//   - error: ErrSourceRequired, or whatever the source's Watch returns
//
// Example:
//
//	src := source.NewKV(bucket)
//	g.Go(func() error { return router.Watch(ctx, src) })
func (r *Router) Watch(ctx context.Context, src DestinationWatcher) error {
	if src == nil {
		return ErrSourceRequired
	}

	if err := r.Sync(ctx, src); err != nil {
		r.logger.Warn("initial sync failed, waiting for the next change", "error", err)
	}

	return src.Watch(ctx, func(ctx context.Context) error {
		return r.Sync(ctx, src)
	})
}

func (r *Router) reportError(ctx context.Context, err error) {
	hookCtx := context.WithoutCancel(ctx)
	go func() {
		if hookErr := r.hooks.OnError(hookCtx, err); hookErr != nil {
			r.logger.Error("error hook failed", "error", hookErr, "original_error", err)
		}
	}()
}
