// Package strategy provides batch key placement strategies.
//
// A strategy maps a whole set of keys onto a set of destinations in one call,
// which is convenient for offline planning and for measuring how many keys move
// when membership changes. Two strategies are included:
//
//   - ConsistentHash: the same ring the Router uses (virtual nodes, wide positions)
//   - Jump: jump consistent hash over the sorted destination list
//
// # Strategy Selection Guide
//
// ConsistentHash:
//   - Use when destinations join and leave in arbitrary order
//   - Only keys owned by the changed destination move
//   - Configuration: replicas, position width, digest
//
// Jump:
//   - No per-destination state and near-perfect balance
//   - Keys only move cleanly when destinations are appended at the end of the
//     sorted order; removing from the middle reshuffles many keys
//   - Useful as a baseline for Movement comparisons
//
// Custom strategies can be implemented by satisfying the types.AssignmentStrategy interface.
package strategy
