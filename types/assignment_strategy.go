package types

// AssignmentStrategy places a batch of keys onto a set of destinations.
//
// Strategies implement different placement algorithms:
//   - ConsistentHash: hash ring with virtual nodes (minimal movement on membership change)
//   - Jump: jump consistent hash over a sorted destination list (baseline)
//   - Custom: User-defined algorithms
//
// Strategy implementations should:
//   - Be deterministic (same input → same output)
//   - Handle edge cases (no destinations, no keys)
//   - Be stateless (no side effects)
type AssignmentStrategy interface {
	// Assign calculates the owner of every key.
	//
	// Parameters:
	//   - destinations: Destination identifiers
	//   - keys: Lookup keys to place
	//
	// Returns:
	//   - map[string][]string: Map from destination to the keys it owns
	//   - error: Assignment error (e.g., no destinations)
	Assign(destinations []string, keys []string) (map[string][]string, error)
}
