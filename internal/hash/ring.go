package hash

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/arloliu/chring/digest"
	"github.com/arloliu/chring/types"
	"github.com/arloliu/chring/wideint"
)

// Ring implements a consistent hash ring with virtual nodes.
//
// The ring maps lookup keys to destinations using consistent hashing, which
// provides stable placement with minimal changes when destinations join or leave.
//
// Ring is not safe for concurrent use; the Router serializes access.
type Ring[P wideint.Word[P]] struct {
	// positions contains every virtual node on the ring, sorted ascending, no duplicates
	positions []P

	// owners maps each position back to the destination that owns it
	owners map[P]string

	// vnodes groups positions by destination in generation order
	vnodes map[string][]P

	replicas  int
	slotCount uint64
	hasher    digest.Hasher

	// collisions counts generated positions discarded because they were already taken
	collisions uint64
}

// NewRing creates an empty ring.
//
// Parameters:
//   - replicas: Number of virtual nodes per destination (must be >= 1)
//   - slotCount: Theoretical address-space size, kept as metadata only
//   - hasher: Digest function; must be at least as wide as P
//
// Returns:
//   - *Ring[P]: Initialized empty ring
//   - error: types.ErrInvalidArgument or types.ErrInvalidWidth
//
// Example:
//
//	ring, err := hash.NewRing[wideint.Uint256](5, 1<<32, digest.SHA256())
//	_ = ring.Add("10.0.0.1")
//	dest, err := ring.Find([]byte("user:42"))
func NewRing[P wideint.Word[P]](replicas int, slotCount uint64, hasher digest.Hasher) (*Ring[P], error) {
	if replicas < 1 {
		return nil, fmt.Errorf("%w: replicas must be >= 1, got %d", types.ErrInvalidArgument, replicas)
	}
	if hasher == nil {
		return nil, fmt.Errorf("%w: hasher is required", types.ErrInvalidArgument)
	}

	var zero P
	if hasher.Size() < zero.Size() {
		return nil, fmt.Errorf("%w: %s digest is %d bytes, %d-bit positions need %d",
			types.ErrInvalidWidth, hasher.Name(), hasher.Size(), zero.Size()*8, zero.Size())
	}

	return &Ring[P]{
		positions: make([]P, 0),
		owners:    make(map[P]string),
		vnodes:    make(map[string][]P),
		replicas:  replicas,
		slotCount: slotCount,
		hasher:    hasher,
	}, nil
}

// Add places replicas virtual nodes for a destination on the ring.
//
// Seeds are the destination id followed by a decimal sequence number ("node-a0",
// "node-a1", ...). A generated position that is already occupied, by any
// destination, is skipped and the next sequence number is tried.
//
// Adding a destination that already owns its quota is a no-op. Positions are
// staged and committed only once the quota is reached, so an error leaves the
// ring unchanged.
//
// Parameters:
//   - id: Destination identifier (non-empty)
//
// Returns:
//   - error: types.ErrInvalidArgument for an empty id, or a digest/width error
func (r *Ring[P]) Add(id string) error {
	if id == "" {
		return fmt.Errorf("%w: destination id must not be empty", types.ErrInvalidArgument)
	}

	owned := len(r.vnodes[id])
	if owned >= r.replicas {
		return nil
	}

	staged := make([]P, 0, r.replicas-owned)
	stagedSet := make(map[P]struct{}, r.replicas-owned)
	var collisions uint64

	seed := make([]byte, 0, len(id)+4)
	for i := 0; owned+len(staged) < r.replicas; i++ {
		seed = strconv.AppendInt(append(seed[:0], id...), int64(i), 10)

		pos, err := r.derivePosition(seed)
		if err != nil {
			return fmt.Errorf("failed to derive position for %q: %w", seed, err)
		}

		if _, taken := r.owners[pos]; taken {
			collisions++
			continue
		}
		if _, taken := stagedSet[pos]; taken {
			collisions++
			continue
		}

		staged = append(staged, pos)
		stagedSet[pos] = struct{}{}
	}

	for _, pos := range staged {
		r.insert(pos)
		r.owners[pos] = id
	}
	r.vnodes[id] = append(r.vnodes[id], staged...)
	r.collisions += collisions

	return nil
}

// Remove erases every virtual node owned by a destination.
//
// Removing an unknown destination is a no-op.
//
// Returns:
//   - int: Number of positions removed
func (r *Ring[P]) Remove(id string) int {
	owned, ok := r.vnodes[id]
	if !ok {
		return 0
	}

	for _, pos := range owned {
		delete(r.owners, pos)
		r.erase(pos)
	}
	delete(r.vnodes, id)

	return len(owned)
}

// Find returns the destination responsible for a key.
//
// Uses binary search to find the first position >= hash(key).
// If no such position exists (key hash > all positions), wraps around to the first one.
//
// Returns:
//   - string: Destination identifier
//   - error: types.ErrNoDestinationsAvailable on an empty ring, or a digest error
func (r *Ring[P]) Find(key []byte) (string, error) {
	idx, err := r.search(key)
	if err != nil {
		return "", err
	}

	return r.owners[r.positions[idx]], nil
}

// FindN returns up to n distinct destinations for a key, walking clockwise
// from the position Find would pick. The first element equals Find(key).
//
// Returns:
//   - []string: Between 1 and min(n, destinations) identifiers
//   - error: types.ErrInvalidArgument for n < 1, types.ErrNoDestinationsAvailable on an empty ring
func (r *Ring[P]) FindN(key []byte, n int) ([]string, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: n must be >= 1, got %d", types.ErrInvalidArgument, n)
	}

	idx, err := r.search(key)
	if err != nil {
		return nil, err
	}

	n = min(n, len(r.vnodes))
	seen := make(map[string]struct{}, n)
	result := make([]string, 0, n)
	for i := 0; i < len(r.positions) && len(result) < n; i++ {
		owner := r.owners[r.positions[(idx+i)%len(r.positions)]]
		if _, dup := seen[owner]; dup {
			continue
		}
		seen[owner] = struct{}{}
		result = append(result, owner)
	}

	return result, nil
}

// VirtualNodes returns a copy of the positions owned by a destination, in generation order.
func (r *Ring[P]) VirtualNodes(id string) []P {
	return slices.Clone(r.vnodes[id])
}

// Owned returns how many positions a destination currently owns.
func (r *Ring[P]) Owned(id string) int {
	return len(r.vnodes[id])
}

// Owner returns the destination owning an exact position.
func (r *Ring[P]) Owner(pos P) (string, bool) {
	id, ok := r.owners[pos]

	return id, ok
}

// Positions returns a copy of the sorted ring.
func (r *Ring[P]) Positions() []P {
	return slices.Clone(r.positions)
}

// Destinations returns the registered destinations in lexical order.
func (r *Ring[P]) Destinations() []string {
	return slices.Sorted(maps.Keys(r.vnodes))
}

// DestinationCount returns the number of registered destinations.
func (r *Ring[P]) DestinationCount() int {
	return len(r.vnodes)
}

// Size returns the total number of virtual nodes on the ring.
func (r *Ring[P]) Size() int {
	return len(r.positions)
}

// Replicas returns the virtual node quota per destination.
func (r *Ring[P]) Replicas() int {
	return r.replicas
}

// SlotCount returns the configured address-space size. It does not affect placement.
func (r *Ring[P]) SlotCount() uint64 {
	return r.slotCount
}

// Bits returns the position width in bits.
func (r *Ring[P]) Bits() int {
	return wideint.Bits[P]()
}

// Collisions returns how many generated positions have been discarded since the ring was created.
func (r *Ring[P]) Collisions() uint64 {
	return r.collisions
}

// Verify checks the ring invariants and returns the first violation found.
//
// Checked invariants:
//  1. positions and the key set of owners are identical
//  2. every position of a destination maps back to it, and each destination owns exactly replicas positions
//  3. positions are strictly ascending (therefore unique)
func (r *Ring[P]) Verify() error {
	if len(r.positions) != len(r.owners) {
		return fmt.Errorf("ring has %d positions but %d owners", len(r.positions), len(r.owners))
	}

	for i, pos := range r.positions {
		if i > 0 && r.positions[i-1].Compare(pos) >= 0 {
			return fmt.Errorf("positions not strictly ascending at index %d", i)
		}
		if _, ok := r.owners[pos]; !ok {
			return fmt.Errorf("position %d has no owner", i)
		}
	}

	total := 0
	for id, owned := range r.vnodes {
		if len(owned) != r.replicas {
			return fmt.Errorf("destination %q owns %d positions, want %d", id, len(owned), r.replicas)
		}
		for _, pos := range owned {
			if owner := r.owners[pos]; owner != id {
				return fmt.Errorf("position of %q is owned by %q", id, owner)
			}
		}
		total += len(owned)
	}
	if total != len(r.positions) {
		return fmt.Errorf("destinations own %d positions, ring has %d", total, len(r.positions))
	}

	return nil
}

// derivePosition hashes a seed and truncates the digest to a position.
func (r *Ring[P]) derivePosition(seed []byte) (P, error) {
	var zero P

	sum, err := r.hasher.Sum(seed)
	if err != nil {
		return zero, fmt.Errorf("%s digest failed: %w", r.hasher.Name(), err)
	}

	return zero.FromBytes(sum)
}

// search returns the index of the first position >= hash(key), wrapping to 0.
func (r *Ring[P]) search(key []byte) (int, error) {
	if len(r.positions) == 0 {
		return 0, types.ErrNoDestinationsAvailable
	}

	target, err := r.derivePosition(key)
	if err != nil {
		return 0, err
	}

	idx, _ := slices.BinarySearchFunc(r.positions, target, compare[P])
	if idx >= len(r.positions) {
		idx = 0
	}

	return idx, nil
}

// insert adds a position keeping the slice sorted. The caller guarantees it is absent.
func (r *Ring[P]) insert(pos P) {
	idx, _ := slices.BinarySearchFunc(r.positions, pos, compare[P])
	r.positions = slices.Insert(r.positions, idx, pos)
}

// erase removes a position from the sorted slice if present.
func (r *Ring[P]) erase(pos P) {
	if idx, found := slices.BinarySearchFunc(r.positions, pos, compare[P]); found {
		r.positions = slices.Delete(r.positions, idx, idx+1)
	}
}

func compare[P wideint.Word[P]](a, b P) int {
	return a.Compare(b)
}
