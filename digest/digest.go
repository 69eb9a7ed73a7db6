// Package digest provides the hash functions that turn seeds and lookup keys
// into ring positions.
//
// The ring only relies on determinism and collision resistance; it never
// needs secrecy. A digest must be at least as wide as the configured position
// width, otherwise position construction fails with types.ErrInvalidWidth.
package digest

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"

	"github.com/arloliu/chring/types"
)

// Hash function names accepted by ByName and the "hash" configuration key.
const (
	NameSHA256   = "sha256"
	NameXXH3     = "xxh3"
	NameXXHash64 = "xxhash64"
)

// Hasher computes a fixed-length digest of arbitrary bytes.
type Hasher interface {
	// Sum returns the digest of data. Implementations must be deterministic.
	Sum(data []byte) ([]byte, error)

	// Size returns the digest length in bytes.
	Size() int

	// Name returns a short identifier used in logs and configuration.
	Name() string
}

type sha256Hasher struct{}

// SHA256 returns the default 32-byte hasher, wide enough for every position width.
func SHA256() Hasher {
	return sha256Hasher{}
}

func (sha256Hasher) Sum(data []byte) ([]byte, error) {
	sum := sha256.Sum256(data)

	return sum[:], nil
}

func (sha256Hasher) Size() int {
	return sha256.Size
}

func (sha256Hasher) Name() string {
	return NameSHA256
}

type xxh3Hasher struct{}

// XXH3 returns a 16-byte hasher built on XXH3-128. It supports 64- and 128-bit positions.
func XXH3() Hasher {
	return xxh3Hasher{}
}

func (xxh3Hasher) Sum(data []byte) ([]byte, error) {
	h := xxh3.Hash128(data)
	out := make([]byte, 0, 16)
	out = binary.BigEndian.AppendUint64(out, h.Hi)

	return binary.BigEndian.AppendUint64(out, h.Lo), nil
}

func (xxh3Hasher) Size() int {
	return 16
}

func (xxh3Hasher) Name() string {
	return NameXXH3
}

type xxhash64Hasher struct{}

// XXHash64 returns an 8-byte hasher built on xxHash64. It supports 64-bit positions only.
func XXHash64() Hasher {
	return xxhash64Hasher{}
}

func (xxhash64Hasher) Sum(data []byte) ([]byte, error) {
	return binary.BigEndian.AppendUint64(make([]byte, 0, 8), xxhash.Sum64(data)), nil
}

func (xxhash64Hasher) Size() int {
	return 8
}

func (xxhash64Hasher) Name() string {
	return NameXXHash64
}

// Func adapts a plain function into a Hasher. It is mainly useful for
// injecting deterministic stubs in tests.
type Func struct {
	Fn     func(data []byte) ([]byte, error)
	Length int
	Label  string
}

// Sum calls f.Fn.
func (f Func) Sum(data []byte) ([]byte, error) {
	return f.Fn(data)
}

// Size returns f.Length.
func (f Func) Size() int {
	return f.Length
}

// Name returns f.Label, or "func" when unset.
func (f Func) Name() string {
	if f.Label == "" {
		return "func"
	}

	return f.Label
}

// ByName resolves a hasher from its configuration name (case-insensitive).
//
// Returns types.ErrUnknownHash for unrecognized names.
func ByName(name string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameSHA256, "sha-256":
		return SHA256(), nil
	case NameXXH3:
		return XXH3(), nil
	case NameXXHash64, "xxhash":
		return XXHash64(), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownHash, name)
	}
}
