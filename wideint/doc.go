// Package wideint provides fixed-width unsigned integers used as ring coordinates.
//
// A wide integer is a pair of half-width unsigned halves composed recursively
// from a 32-bit base:
//
//	U32                      32 bits
//	Uint64  = Pair[U32]      64 bits
//	Uint128 = Pair[Uint64]   128 bits
//	Uint256 = Pair[Uint128]  256 bits
//
// Values are immutable, comparable with == (usable as map keys) and totally
// ordered by numeric magnitude (high half first, then low half). No arithmetic
// is provided: the hash ring only needs construction and comparison.
//
// # Byte layout
//
// FromBytes reads big-endian: the first half of the buffer is the high half.
// Byte-lexicographic order of a buffer therefore equals numeric order of the
// resulting value, and AppendBytes/Bytes round-trip exactly. Buffers shorter
// than the type width are rejected with types.ErrInvalidWidth; extra trailing
// bytes are ignored, which is how digests wider than a position are truncated.
package wideint
