package hash

import (
	"fmt"

	"github.com/arloliu/chring/digest"
	"github.com/arloliu/chring/types"
	"github.com/arloliu/chring/wideint"
)

// Engine is a Ring with its position type erased, so the width can be chosen
// from configuration at runtime. Positions are exposed as fixed-width hex strings.
type Engine interface {
	Add(id string) error
	Remove(id string) int
	Find(key []byte) (string, error)
	FindN(key []byte, n int) ([]string, error)
	VirtualNodes(id string) []string
	Owned(id string) int
	Destinations() []string
	DestinationCount() int
	Size() int
	Replicas() int
	SlotCount() uint64
	Bits() int
	Collisions() uint64
	Verify() error
}

// NewEngine creates an empty ring with the requested position width.
//
// Parameters:
//   - bits: Position width, one of 64, 128 or 256
//   - replicas: Number of virtual nodes per destination
//   - slotCount: Address-space size metadata
//   - hasher: Digest function, at least bits/8 bytes wide
//
// Returns:
//   - Engine: Initialized empty ring
//   - error: types.ErrInvalidArgument for an unsupported width, or any NewRing error
func NewEngine(bits int, replicas int, slotCount uint64, hasher digest.Hasher) (Engine, error) {
	switch bits {
	case 64:
		return newEngine[wideint.Uint64](replicas, slotCount, hasher)
	case 128:
		return newEngine[wideint.Uint128](replicas, slotCount, hasher)
	case 256:
		return newEngine[wideint.Uint256](replicas, slotCount, hasher)
	default:
		return nil, fmt.Errorf("%w: position width must be 64, 128 or 256 bits, got %d", types.ErrInvalidArgument, bits)
	}
}

func newEngine[P wideint.Word[P]](replicas int, slotCount uint64, hasher digest.Hasher) (Engine, error) {
	ring, err := NewRing[P](replicas, slotCount, hasher)
	if err != nil {
		return nil, err
	}

	return engine[P]{ring}, nil
}

// engine adapts Ring[P] to Engine by rendering positions as hex.
type engine[P wideint.Word[P]] struct {
	*Ring[P]
}

func (e engine[P]) VirtualNodes(id string) []string {
	owned := e.Ring.VirtualNodes(id)
	out := make([]string, len(owned))
	for i, pos := range owned {
		out[i] = wideint.Hex(pos)
	}

	return out
}
