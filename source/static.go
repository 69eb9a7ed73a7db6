package source

import (
	"context"
	"slices"
	"sync"

	"github.com/arloliu/chring/types"
)

// Static is a destination source backed by an in-memory list.
//
// Update replaces the list and wakes every active Watch call, which makes
// Static convenient for tests and for topologies managed by the application.
type Static struct {
	mu           sync.RWMutex
	destinations []string
	watchers     map[chan struct{}]struct{}
	opts         options
}

var _ types.DestinationWatcher = (*Static)(nil)

// NewStatic creates a static source.
//
// Parameters:
//   - destinations: Initial destination identifiers (copied)
//   - opts: Only WithLogger is relevant for Static
//
// Returns:
//   - *Static: Initialized static source
//
// Example:
//
//	src := source.NewStatic([]string{"10.0.0.1", "10.0.0.2"})
//	if err := router.Sync(ctx, src); err != nil {
//	    return err
//	}
func NewStatic(destinations []string, opts ...Option) *Static {
	return &Static{
		destinations: slices.Clone(destinations),
		watchers:     make(map[chan struct{}]struct{}),
		opts:         applyOptions(opts),
	}
}

// ListDestinations returns a copy of the current list. It never fails.
func (s *Static) ListDestinations(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.destinations), nil
}

// Update replaces the destination list and notifies active watchers.
//
// Example:
//
//	src.Update([]string{"10.0.0.1", "10.0.0.2", "10.0.0.3"})
func (s *Static) Update(destinations []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.destinations = slices.Clone(destinations)
	for ch := range s.watchers {
		// Buffered with capacity 1; a pending notification already covers this update.
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Watch invokes onChange after every Update until ctx is done.
//
// Returns:
//   - error: Always nil; cancellation is a normal shutdown
func (s *Static) Watch(ctx context.Context, onChange func(ctx context.Context) error) error {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.watchers, ch)
		s.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ch:
			if err := onChange(ctx); err != nil {
				s.opts.logger.Error("static source change handler failed", "error", err)
			}
		}
	}
}

// watcherCount reports active Watch calls.
func (s *Static) watcherCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.watchers)
}
