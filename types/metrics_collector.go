package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// Methods are called from any goroutine using the Router and must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	RingMetrics
	SourceMetrics
}

// RingMetrics defines metrics for ring membership changes and lookups.
type RingMetrics interface {
	// RecordDestinationChange records a membership change.
	//
	// Parameters:
	//   - op: Operation type ("add", "remove")
	//   - virtualNodes: Number of virtual nodes inserted or erased
	RecordDestinationChange(op string, virtualNodes int)

	// RecordLookup records a key lookup.
	//
	// Parameters:
	//   - success: false when the lookup failed (e.g. empty ring)
	//   - duration: Time taken in seconds
	RecordLookup(success bool, duration float64)

	// RecordPositionCollisions records generated positions that were discarded
	// because another virtual node already occupied them.
	RecordPositionCollisions(count int)

	// RecordRingSize sets the current ring size (gauge metrics).
	//
	// Parameters:
	//   - destinations: Number of registered destinations
	//   - virtualNodes: Total number of positions on the ring
	RecordRingSize(destinations, virtualNodes int)
}

// SourceMetrics defines metrics for membership reconciliation against a DestinationSource.
type SourceMetrics interface {
	// RecordSourceSync records a reconciliation pass.
	//
	// Parameters:
	//   - success: true if the pass completed without errors
	//   - duration: Time taken in seconds
	RecordSourceSync(success bool, duration float64)

	// RecordSourceChange records membership deltas discovered by a sync.
	//
	// Parameters:
	//   - added: Number of destinations added (0 if none)
	//   - removed: Number of destinations removed (0 if none)
	RecordSourceChange(added, removed int)
}
