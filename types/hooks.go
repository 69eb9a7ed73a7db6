package types

import "context"

// Hooks defines callbacks for Router membership events.
//
// All hooks are optional and called asynchronously in background goroutines
// after the ring lock has been released, so a slow hook never blocks lookups.
//
// IMPORTANT: Hook execution behavior:
//   - Hooks run concurrently and may complete after the triggering call returns
//   - Hook errors are logged but don't fail ring operations
//
// Example:
//
//	hooks := &chring.Hooks{
//	    OnDestinationAdded: func(ctx context.Context, id string, vnodes int) error {
//	        log.Printf("destination %s joined with %d virtual nodes", id, vnodes)
//	        return nil
//	    },
//	}
type Hooks struct {
	// OnDestinationAdded is called after a destination has been placed on the ring.
	// vnodes is the number of virtual nodes the destination now owns.
	OnDestinationAdded func(ctx context.Context, id string, vnodes int) error

	// OnDestinationRemoved is called after a destination has been erased from the ring.
	// vnodes is the number of virtual nodes that were released.
	OnDestinationRemoved func(ctx context.Context, id string, vnodes int) error

	// OnError is called when a recoverable error occurs during Sync or Watch.
	OnError func(ctx context.Context, err error) error
}
