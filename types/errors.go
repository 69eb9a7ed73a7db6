package types

import (
	"errors"
	"strings"
)

// Sentinel errors for the chring library.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// All components should use these sentinel errors for known error conditions
// and wrap external errors with context using fmt.Errorf("%s: %w", msg, err).
//
// Error Naming Convention:
//   - Use descriptive names with Err prefix
//   - Group by component (Position, Ring, Router, Source)
//   - Use consistent messages across similar error types

// Position errors - returned while constructing fixed-width ring coordinates.
var (
	// ErrInvalidWidth is returned when a byte buffer (usually a digest) is shorter
	// than the configured position width.
	ErrInvalidWidth = errors.New("invalid width")

	// ErrOverflow is returned when a native integer is wider than the destination position type.
	ErrOverflow = errors.New("overflow")
)

// Ring errors - returned by the hash ring and the router wrapping it.
var (
	// ErrInvalidArgument is returned for empty or malformed destination identifiers
	// and other out-of-range arguments.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoDestinationsAvailable is returned when a lookup runs against a ring
	// that holds zero positions.
	ErrNoDestinationsAvailable = errors.New("no destinations available")

	// ErrUnknownHash is returned when a digest function name cannot be resolved.
	ErrUnknownHash = errors.New("unknown hash function")
)

// Router errors - public API errors returned by the Router.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSourceRequired is returned when a nil destination source is passed to Sync or Watch.
	ErrSourceRequired = errors.New("destination source is required")
)

// Source errors - shared by destination sources backed by external stores.
var (
	// ErrConnectivity indicates a NATS/KV connectivity issue.
	// This is used to distinguish network failures from application errors.
	ErrConnectivity = errors.New("connectivity issue")

	// ErrNoKeysFound is returned when NATS KV returns no keys (expected condition).
	ErrNoKeysFound = errors.New("no keys found")
)

// IsNoKeysFoundError checks if an error indicates that no keys were found in NATS KV.
//
// This function handles NATS-specific "no keys found" errors which may come as:
//   - Direct error: "nats: no keys found"
//   - Wrapped error: "failed to list KV keys: nats: no keys found"
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: true if the error indicates no keys were found, false otherwise
func IsNoKeysFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNoKeysFound) {
		return true
	}

	return strings.Contains(err.Error(), "no keys found")
}
