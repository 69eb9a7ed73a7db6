package wideint

import (
	"cmp"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"unsafe"

	"golang.org/x/exp/constraints"

	"github.com/arloliu/chring/types"
)

// Word is the constraint satisfied by every fixed-width unsigned type in this package.
//
// The constructor methods ignore their receiver; they exist on the value so
// generic code can build a T from its zero value.
type Word[T any] interface {
	comparable

	// Compare returns -1, 0 or +1 depending on whether the receiver is
	// numerically less than, equal to, or greater than other.
	Compare(other T) int

	// Size returns the width of the type in bytes.
	Size() int

	// FromBytes builds a value from the first Size() bytes of b (big-endian).
	FromBytes(b []byte) (T, error)

	// FromUint64 builds a value holding v.
	FromUint64(v uint64) (T, error)

	// AppendBytes appends the big-endian encoding of the receiver to b.
	AppendBytes(b []byte) []byte
}

// U32 is the 32-bit base half every wider type is composed from.
type U32 uint32

// Instantiations fail to compile unless the type satisfies Word.
var (
	_ = Bits[U32]
	_ = Bits[Uint64]
	_ = Bits[Uint128]
	_ = Bits[Uint256]
)

// Compare orders two U32 values numerically.
func (u U32) Compare(other U32) int {
	return cmp.Compare(u, other)
}

// Size returns 4.
func (U32) Size() int {
	return 4
}

// FromBytes reads a big-endian uint32 from the first four bytes of b.
func (U32) FromBytes(b []byte) (U32, error) {
	if len(b) < 4 {
		return 0, fmt.Errorf("%w: need 4 bytes, got %d", types.ErrInvalidWidth, len(b))
	}

	return U32(binary.BigEndian.Uint32(b)), nil
}

// FromUint64 converts v, failing with types.ErrOverflow when v exceeds 32 bits.
func (U32) FromUint64(v uint64) (U32, error) {
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d does not fit in 32 bits", types.ErrOverflow, v)
	}

	return U32(v), nil
}

// AppendBytes appends the big-endian encoding of u to b.
func (u U32) AppendBytes(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, uint32(u))
}

// String returns u as 8 lowercase hex digits.
func (u U32) String() string {
	return fmt.Sprintf("%08x", uint32(u))
}

// FromBytes builds a T from the first T.Size() bytes of b.
//
// Returns types.ErrInvalidWidth when b is shorter than the type width.
func FromBytes[T Word[T]](b []byte) (T, error) {
	var zero T

	return zero.FromBytes(b)
}

// FromUint64 builds a T holding v, zero-extending the high end.
func FromUint64[T Word[T]](v uint64) (T, error) {
	var zero T

	return zero.FromUint64(v)
}

// FromNative builds a T from any unsigned integer whose Go type is not wider than T.
//
// The check is on the type, not the value: FromNative[U32](uint64(1)) fails with
// types.ErrOverflow even though 1 would fit.
func FromNative[T Word[T], N constraints.Unsigned](n N) (T, error) {
	var zero T
	if width := int(unsafe.Sizeof(n)); width > zero.Size() {
		return zero, fmt.Errorf("%w: %d-byte source into %d-byte destination", types.ErrOverflow, width, zero.Size())
	}

	return zero.FromUint64(uint64(n))
}

// Bytes returns the big-endian encoding of v.
func Bytes[T Word[T]](v T) []byte {
	return v.AppendBytes(make([]byte, 0, v.Size()))
}

// Hex returns the big-endian encoding of v as lowercase hex, zero padded to the full width.
func Hex[T Word[T]](v T) string {
	return hex.EncodeToString(Bytes(v))
}

// ToBig returns v as a big.Int.
func ToBig[T Word[T]](v T) *big.Int {
	return new(big.Int).SetBytes(Bytes(v))
}

// Bits returns the width of T in bits.
func Bits[T Word[T]]() int {
	var zero T

	return zero.Size() * 8
}
