// Package types provides core type definitions and interfaces for the chring library.
//
// This package contains shared types that are used across multiple packages in the
// library. By keeping these types in a separate package, we avoid import cycles
// between the main chring package and its internal implementations.
//
// Key types:
//   - Sentinel errors: ErrInvalidWidth, ErrNoDestinationsAvailable, ...
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
//   - Hooks: Membership event callbacks
//   - DestinationSource / DestinationWatcher: Membership discovery
//   - AssignmentStrategy: Bulk key placement
package types
