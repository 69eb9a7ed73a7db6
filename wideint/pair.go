package wideint

import (
	"encoding/hex"
	"fmt"

	"github.com/arloliu/chring/types"
)

// Pair is an unsigned integer twice as wide as H, valued High·2^bits(H) + Low.
type Pair[H Word[H]] struct {
	Low  H
	High H
}

// Fixed-width aliases used as ring positions.
type (
	Uint64  = Pair[U32]
	Uint128 = Pair[Uint64]
	Uint256 = Pair[Uint128]
)

// Compare orders by High, then by Low.
func (p Pair[H]) Compare(other Pair[H]) int {
	if c := p.High.Compare(other.High); c != 0 {
		return c
	}

	return p.Low.Compare(other.Low)
}

// Equal reports whether both halves are equal.
func (p Pair[H]) Equal(other Pair[H]) bool {
	return p == other
}

// Less reports whether p < other.
func (p Pair[H]) Less(other Pair[H]) bool {
	return p.Compare(other) < 0
}

// LessOrEqual reports whether p <= other.
func (p Pair[H]) LessOrEqual(other Pair[H]) bool {
	return p.Compare(other) <= 0
}

// Greater reports whether p > other.
func (p Pair[H]) Greater(other Pair[H]) bool {
	return p.Compare(other) > 0
}

// GreaterOrEqual reports whether p >= other.
func (p Pair[H]) GreaterOrEqual(other Pair[H]) bool {
	return p.Compare(other) >= 0
}

// Size returns twice the size of H.
func (p Pair[H]) Size() int {
	return 2 * p.Low.Size()
}

// FromBytes reads High from the first half of the width and Low from the second.
// Bytes beyond Size() are ignored.
func (p Pair[H]) FromBytes(b []byte) (Pair[H], error) {
	var h H
	half := h.Size()
	if len(b) < 2*half {
		return Pair[H]{}, fmt.Errorf("%w: need %d bytes, got %d", types.ErrInvalidWidth, 2*half, len(b))
	}

	high, err := h.FromBytes(b[:half])
	if err != nil {
		return Pair[H]{}, err
	}
	low, err := h.FromBytes(b[half : 2*half])
	if err != nil {
		return Pair[H]{}, err
	}

	return Pair[H]{Low: low, High: high}, nil
}

// FromUint64 places v at the low end. When H is narrower than 64 bits the
// value is split across both halves; the result overflows only if v does not
// fit in the whole pair.
func (p Pair[H]) FromUint64(v uint64) (Pair[H], error) {
	var h H
	bits := h.Size() * 8
	if bits >= 64 {
		low, err := h.FromUint64(v)
		if err != nil {
			return Pair[H]{}, err
		}

		return Pair[H]{Low: low}, nil
	}

	low, err := h.FromUint64(v & (1<<bits - 1))
	if err != nil {
		return Pair[H]{}, err
	}
	high, err := h.FromUint64(v >> bits)
	if err != nil {
		return Pair[H]{}, fmt.Errorf("%w: %d does not fit in %d bits", types.ErrOverflow, v, 2*bits)
	}

	return Pair[H]{Low: low, High: high}, nil
}

// AppendBytes appends High then Low, both big-endian.
func (p Pair[H]) AppendBytes(b []byte) []byte {
	b = p.High.AppendBytes(b)

	return p.Low.AppendBytes(b)
}

// String returns the value as zero-padded lowercase hex.
func (p Pair[H]) String() string {
	return hex.EncodeToString(p.AppendBytes(make([]byte, 0, p.Size())))
}
