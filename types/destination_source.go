package types

import "context"

// DestinationSource discovers the set of destinations that should be on the ring.
//
// Implementations can query various backends:
//   - NATS KV: one key per registered destination
//   - Static: fixed list for testing
//   - Custom: any service discovery logic
//
// The Router calls ListDestinations during Sync and on every Watch notification.
type DestinationSource interface {
	// ListDestinations returns the identifiers of all destinations that should be registered.
	//
	// Implementations should:
	//   - Return consistent results for the same backend state
	//   - Handle context cancellation gracefully
	//   - Return errors for transient failures (will be retried on the next notification)
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//
	// Returns:
	//   - []string: Destination identifiers
	//   - error: Discovery error (nil on success)
	ListDestinations(ctx context.Context) ([]string, error)
}

// DestinationWatcher is a DestinationSource that can push change notifications.
type DestinationWatcher interface {
	DestinationSource

	// Watch blocks until ctx is done, invoking onChange whenever the destination
	// set may have changed. Errors returned by onChange are logged by the
	// implementation and do not stop the watch.
	Watch(ctx context.Context, onChange func(ctx context.Context) error) error
}
