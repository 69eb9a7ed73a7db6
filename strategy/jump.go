package strategy

import (
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-jump"

	"github.com/arloliu/chring/types"
)

// Jump places keys with jump consistent hash (Lamping and Veach) over the
// sorted destination list. Keys are reduced to 64 bits with xxhash.
type Jump struct{}

var _ types.AssignmentStrategy = (*Jump)(nil)

// NewJump creates a new jump hash strategy.
func NewJump() *Jump {
	return &Jump{}
}

// Assign calculates the owner of every key using jump consistent hash.
//
// Destinations are sorted and deduplicated first, so the result does not
// depend on input order.
//
// Returns:
//   - map[string][]string: Map from destination to owned keys
//   - error: ErrNoDestinations if destinations is empty
func (j *Jump) Assign(destinations []string, keys []string) (map[string][]string, error) {
	if len(destinations) == 0 {
		return nil, ErrNoDestinations
	}

	buckets := slices.Clone(destinations)
	slices.Sort(buckets)
	buckets = slices.Compact(buckets)

	assignments := make(map[string][]string, len(buckets))
	for _, d := range buckets {
		assignments[d] = []string{}
	}

	for _, key := range keys {
		idx := jump.Hash(xxhash.Sum64String(key), len(buckets))
		dest := buckets[idx]
		assignments[dest] = append(assignments[dest], key)
	}

	return assignments, nil
}
