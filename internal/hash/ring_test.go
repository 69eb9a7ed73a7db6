package hash

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/chring/digest"
	"github.com/arloliu/chring/types"
	"github.com/arloliu/chring/wideint"
)

// stubHasher returns fixed 8-byte digests for known seeds and a truncated
// SHA-256 for everything else.
func stubHasher(values map[string]uint64) digest.Func {
	return digest.Func{
		Label:  "stub",
		Length: 8,
		Fn: func(data []byte) ([]byte, error) {
			if v, ok := values[string(data)]; ok {
				return binary.BigEndian.AppendUint64(nil, v), nil
			}
			sum := sha256.Sum256(data)

			return sum[:8], nil
		},
	}
}

func pos64(v uint64) wideint.Uint64 {
	p, _ := wideint.FromUint64[wideint.Uint64](v)

	return p
}

func newTestRing[P wideint.Word[P]](t *testing.T, replicas int, hasher digest.Hasher) *Ring[P] {
	t.Helper()

	ring, err := NewRing[P](replicas, 1<<32, hasher)
	require.NoError(t, err)

	return ring
}

func TestNewRing(t *testing.T) {
	t.Run("creates empty ring", func(t *testing.T) {
		ring := newTestRing[wideint.Uint256](t, 5, digest.SHA256())

		require.Equal(t, 0, ring.Size())
		require.Empty(t, ring.Destinations())
		require.Equal(t, 5, ring.Replicas())
		require.Equal(t, uint64(1<<32), ring.SlotCount())
		require.Equal(t, 256, ring.Bits())
		require.NoError(t, ring.Verify())
	})

	t.Run("rejects zero replicas", func(t *testing.T) {
		_, err := NewRing[wideint.Uint64](0, 0, digest.SHA256())
		require.ErrorIs(t, err, types.ErrInvalidArgument)
	})

	t.Run("rejects nil hasher", func(t *testing.T) {
		_, err := NewRing[wideint.Uint64](1, 0, nil)
		require.ErrorIs(t, err, types.ErrInvalidArgument)
	})

	t.Run("rejects digest narrower than position", func(t *testing.T) {
		_, err := NewRing[wideint.Uint256](5, 0, digest.XXH3())
		require.ErrorIs(t, err, types.ErrInvalidWidth)

		_, err = NewRing[wideint.Uint128](5, 0, digest.XXHash64())
		require.ErrorIs(t, err, types.ErrInvalidWidth)

		_, err = NewRing[wideint.Uint128](5, 0, digest.XXH3())
		require.NoError(t, err)
	})
}

func TestRing_Add(t *testing.T) {
	t.Run("places replicas positions owned by the destination", func(t *testing.T) {
		ring := newTestRing[wideint.Uint256](t, 5, digest.SHA256())

		require.NoError(t, ring.Add("10.0.0.1"))

		require.Equal(t, 5, ring.Size())
		require.Equal(t, []string{"10.0.0.1"}, ring.Destinations())
		require.Equal(t, 1, ring.DestinationCount())
		require.Equal(t, 5, ring.Owned("10.0.0.1"))
		owned := ring.VirtualNodes("10.0.0.1")
		require.Len(t, owned, 5)
		for _, pos := range owned {
			owner, ok := ring.Owner(pos)
			require.True(t, ok)
			require.Equal(t, "10.0.0.1", owner)
		}
		require.NoError(t, ring.Verify())
	})

	t.Run("derives positions from id plus decimal sequence", func(t *testing.T) {
		ring := newTestRing[wideint.Uint256](t, 3, digest.SHA256())
		require.NoError(t, ring.Add("ab"))

		owned := ring.VirtualNodes("ab")
		for i, pos := range owned {
			sum := sha256.Sum256([]byte(fmt.Sprintf("ab%d", i)))
			require.Equal(t, sum[:], wideint.Bytes(pos))
		}
	})

	t.Run("is idempotent once the quota is met", func(t *testing.T) {
		ring := newTestRing[wideint.Uint128](t, 4, digest.SHA256())
		require.NoError(t, ring.Add("node-a"))
		before := ring.Positions()

		require.NoError(t, ring.Add("node-a"))

		require.Equal(t, before, ring.Positions())
		require.Len(t, ring.VirtualNodes("node-a"), 4)
	})

	t.Run("continues generating when a destination is under quota", func(t *testing.T) {
		ring := newTestRing[wideint.Uint64](t, 2, digest.SHA256())
		require.NoError(t, ring.Add("node-a"))
		first := ring.VirtualNodes("node-a")

		ring.replicas = 3
		require.NoError(t, ring.Add("node-a"))

		owned := ring.VirtualNodes("node-a")
		require.Len(t, owned, 3)
		require.Equal(t, first, owned[:2], "existing positions are kept")
		require.NoError(t, ring.Verify())
	})

	t.Run("rejects empty id", func(t *testing.T) {
		ring := newTestRing[wideint.Uint64](t, 3, digest.SHA256())

		err := ring.Add("")

		require.ErrorIs(t, err, types.ErrInvalidArgument)
		require.Equal(t, 0, ring.Size())
	})

	t.Run("skips positions owned by other destinations", func(t *testing.T) {
		ring := newTestRing[wideint.Uint64](t, 2, stubHasher(map[string]uint64{
			"a0": 10, "a1": 20,
			"b0": 10, "b1": 20, "b2": 30, "b3": 40,
		}))

		require.NoError(t, ring.Add("a"))
		require.NoError(t, ring.Add("b"))

		require.Equal(t, []wideint.Uint64{pos64(10), pos64(20)}, ring.VirtualNodes("a"))
		require.Equal(t, []wideint.Uint64{pos64(30), pos64(40)}, ring.VirtualNodes("b"))
		require.Equal(t, uint64(2), ring.Collisions())
		require.NoError(t, ring.Verify())
	})

	t.Run("skips positions generated earlier in the same call", func(t *testing.T) {
		ring := newTestRing[wideint.Uint64](t, 2, stubHasher(map[string]uint64{
			"c0": 50, "c1": 50, "c2": 60,
		}))

		require.NoError(t, ring.Add("c"))

		require.Equal(t, []wideint.Uint64{pos64(50), pos64(60)}, ring.VirtualNodes("c"))
		require.Equal(t, uint64(1), ring.Collisions())
	})

	t.Run("digest failure leaves ring unchanged", func(t *testing.T) {
		boom := errors.New("digest unavailable")
		base := stubHasher(map[string]uint64{"a0": 1, "a1": 2, "d0": 3})
		failing := digest.Func{
			Length: 8,
			Fn: func(data []byte) ([]byte, error) {
				if string(data) == "d1" {
					return nil, boom
				}

				return base.Sum(data)
			},
		}
		ring := newTestRing[wideint.Uint64](t, 2, failing)
		require.NoError(t, ring.Add("a"))
		before := ring.Positions()

		err := ring.Add("d")

		require.ErrorIs(t, err, boom)
		require.Equal(t, before, ring.Positions())
		require.Equal(t, []string{"a"}, ring.Destinations())
		require.Empty(t, ring.VirtualNodes("d"))
		_, owned := ring.Owner(pos64(3))
		require.False(t, owned)
		require.NoError(t, ring.Verify())
	})

	t.Run("short digest fails with invalid width and leaves ring unchanged", func(t *testing.T) {
		liar := digest.Func{
			Length: 32,
			Fn: func(data []byte) ([]byte, error) {
				return []byte{1, 2, 3}, nil
			},
		}
		ring := newTestRing[wideint.Uint256](t, 2, liar)

		err := ring.Add("node-a")

		require.ErrorIs(t, err, types.ErrInvalidWidth)
		require.Equal(t, 0, ring.Size())
		require.Empty(t, ring.Destinations())
	})
}

func TestRing_Remove(t *testing.T) {
	t.Run("erases every trace of the destination", func(t *testing.T) {
		ring := newTestRing[wideint.Uint256](t, 5, digest.SHA256())
		require.NoError(t, ring.Add("node-a"))
		require.NoError(t, ring.Add("node-b"))
		ownedA := ring.VirtualNodes("node-a")

		removed := ring.Remove("node-a")

		require.Equal(t, 5, removed)
		require.Equal(t, 5, ring.Size())
		require.Equal(t, []string{"node-b"}, ring.Destinations())
		require.Empty(t, ring.VirtualNodes("node-a"))
		for _, pos := range ownedA {
			_, ok := ring.Owner(pos)
			require.False(t, ok)
		}
		for _, pos := range ring.Positions() {
			owner, _ := ring.Owner(pos)
			require.NotEqual(t, "node-a", owner)
		}
		require.NoError(t, ring.Verify())
	})

	t.Run("unknown destination is a no-op", func(t *testing.T) {
		ring := newTestRing[wideint.Uint64](t, 3, digest.SHA256())
		require.NoError(t, ring.Add("node-a"))

		require.Equal(t, 0, ring.Remove("node-z"))
		require.Equal(t, 0, ring.Remove(""))

		require.Equal(t, 3, ring.Size())
		require.NoError(t, ring.Verify())
	})

	t.Run("re-adding restores the quota", func(t *testing.T) {
		ring := newTestRing[wideint.Uint64](t, 3, digest.SHA256())
		require.NoError(t, ring.Add("node-a"))
		require.NoError(t, ring.Add("node-b"))

		ring.Remove("node-a")
		require.NoError(t, ring.Add("node-a"))

		require.Len(t, ring.VirtualNodes("node-a"), 3)
		require.Equal(t, 6, ring.Size())
		require.NoError(t, ring.Verify())
	})
}

func TestRing_Find(t *testing.T) {
	t.Run("empty ring fails explicitly", func(t *testing.T) {
		ring := newTestRing[wideint.Uint256](t, 5, digest.SHA256())

		dest, err := ring.Find([]byte("any-key"))

		require.ErrorIs(t, err, types.ErrNoDestinationsAvailable)
		require.Empty(t, dest)
	})

	t.Run("ring emptied by removal fails explicitly", func(t *testing.T) {
		ring := newTestRing[wideint.Uint64](t, 2, digest.SHA256())
		require.NoError(t, ring.Add("node-a"))
		ring.Remove("node-a")

		_, err := ring.Find([]byte("any-key"))
		require.ErrorIs(t, err, types.ErrNoDestinationsAvailable)
	})

	t.Run("picks smallest position greater or equal to the key", func(t *testing.T) {
		ring := newTestRing[wideint.Uint64](t, 1, stubHasher(map[string]uint64{
			"a0": 10, "b0": 20, "c0": 30,
			"k5": 5, "k10": 10, "k15": 15, "k20": 20, "k29": 29, "k30": 30,
		}))
		for _, id := range []string{"a", "b", "c"} {
			require.NoError(t, ring.Add(id))
		}

		tests := map[string]string{
			"k5":  "a",
			"k10": "a",
			"k15": "b",
			"k20": "b",
			"k29": "c",
			"k30": "c",
		}
		for key, want := range tests {
			got, err := ring.Find([]byte(key))
			require.NoError(t, err)
			require.Equal(t, want, got, "key %s", key)
		}
	})

	t.Run("wraps around to the smallest position", func(t *testing.T) {
		ring := newTestRing[wideint.Uint64](t, 3, stubHasher(map[string]uint64{
			"solo0": 300, "solo1": 100, "solo2": 200,
			"other0": 250, "other1": 260, "other2": 270,
			"beyond": 1000,
		}))
		require.NoError(t, ring.Add("solo"))

		got, err := ring.Find([]byte("beyond"))
		require.NoError(t, err)
		require.Equal(t, "solo", got)

		require.NoError(t, ring.Add("other"))
		require.Equal(t, pos64(100), ring.Positions()[0])
		owner, _ := ring.Owner(ring.Positions()[0])
		require.Equal(t, "solo", owner)

		got, err = ring.Find([]byte("beyond"))
		require.NoError(t, err)
		require.Equal(t, "solo", got, "key beyond the last position belongs to the owner of the first")
	})

	t.Run("is deterministic", func(t *testing.T) {
		ring := newTestRing[wideint.Uint256](t, 5, digest.SHA256())
		for _, id := range []string{"node-a", "node-b", "node-c"} {
			require.NoError(t, ring.Add(id))
		}

		for i := range 100 {
			key := []byte(fmt.Sprintf("key-%d", i))
			first, err := ring.Find(key)
			require.NoError(t, err)
			second, err := ring.Find(key)
			require.NoError(t, err)
			require.Equal(t, first, second)
		}
	})

	t.Run("empty key is a valid lookup", func(t *testing.T) {
		ring := newTestRing[wideint.Uint64](t, 2, digest.SHA256())
		require.NoError(t, ring.Add("node-a"))

		got, err := ring.Find(nil)
		require.NoError(t, err)
		require.Equal(t, "node-a", got)
	})
}

func TestRing_FindN(t *testing.T) {
	ring := newTestRing[wideint.Uint64](t, 2, stubHasher(map[string]uint64{
		"a0": 10, "a1": 40,
		"b0": 20, "b1": 50,
		"c0": 30, "c1": 60,
		"k": 15, "tail": 70,
	}))
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, ring.Add(id))
	}

	t.Run("walks clockwise collecting distinct owners", func(t *testing.T) {
		got, err := ring.FindN([]byte("k"), 3)
		require.NoError(t, err)
		require.Equal(t, []string{"b", "c", "a"}, got)
	})

	t.Run("wraps around", func(t *testing.T) {
		got, err := ring.FindN([]byte("tail"), 2)
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b"}, got)
	})

	t.Run("caps at the number of destinations", func(t *testing.T) {
		got, err := ring.FindN([]byte("k"), 10)
		require.NoError(t, err)
		require.Len(t, got, 3)
	})

	t.Run("first element matches Find", func(t *testing.T) {
		for _, key := range []string{"k", "tail", "x", "y"} {
			one, err := ring.Find([]byte(key))
			require.NoError(t, err)
			many, err := ring.FindN([]byte(key), 2)
			require.NoError(t, err)
			require.Equal(t, one, many[0])
		}
	})

	t.Run("rejects n below one", func(t *testing.T) {
		_, err := ring.FindN([]byte("k"), 0)
		require.ErrorIs(t, err, types.ErrInvalidArgument)
	})
}

// TestRing_Scenario walks the 64-bit, three-replica example end to end.
func TestRing_Scenario(t *testing.T) {
	ring := newTestRing[wideint.Uint64](t, 3, digest.SHA256())

	require.NoError(t, ring.Add("node-a"))
	require.Equal(t, 3, ring.Size())
	for _, pos := range ring.VirtualNodes("node-a") {
		owner, _ := ring.Owner(pos)
		require.Equal(t, "node-a", owner)
	}

	require.NoError(t, ring.Add("node-b"))
	require.Equal(t, 6, ring.Size())
	for _, pos := range ring.VirtualNodes("node-b") {
		owner, _ := ring.Owner(pos)
		require.Equal(t, "node-b", owner)
	}
	require.NoError(t, ring.Verify())

	first, err := ring.Find([]byte("key-1"))
	require.NoError(t, err)
	require.Contains(t, []string{"node-a", "node-b"}, first)
	again, err := ring.Find([]byte("key-1"))
	require.NoError(t, err)
	require.Equal(t, first, again)

	ring.Remove("node-a")
	for i := range 200 {
		got, err := ring.Find([]byte(fmt.Sprintf("key-%d", i)))
		require.NoError(t, err)
		require.Equal(t, "node-b", got)
	}
}

func TestRing_MinimalMovement(t *testing.T) {
	keys := make([][]byte, 2000)
	for i := range keys {
		keys[i] = []byte(fmt.Sprintf("object-%d", i))
	}

	snapshot := func(ring *Ring[wideint.Uint128]) []string {
		owners := make([]string, len(keys))
		for i, key := range keys {
			owner, err := ring.Find(key)
			require.NoError(t, err)
			owners[i] = owner
		}

		return owners
	}

	ring := newTestRing[wideint.Uint128](t, 50, digest.SHA256())
	for _, id := range []string{"node-0", "node-1", "node-2"} {
		require.NoError(t, ring.Add(id))
	}
	before := snapshot(ring)

	t.Run("adding moves keys only to the new destination", func(t *testing.T) {
		require.NoError(t, ring.Add("node-3"))
		after := snapshot(ring)

		moved := 0
		for i := range keys {
			if before[i] != after[i] {
				require.Equal(t, "node-3", after[i])
				moved++
			}
		}
		require.Positive(t, moved)
		require.Less(t, moved, len(keys)/2)
	})

	t.Run("removing moves only the removed destination's keys", func(t *testing.T) {
		ring.Remove("node-3")
		withoutNew := snapshot(ring)
		require.Equal(t, before, withoutNew, "re-removal restores the original placement")

		ring.Remove("node-1")
		after := snapshot(ring)
		for i := range keys {
			if before[i] != "node-1" {
				require.Equal(t, before[i], after[i])
			} else {
				require.NotEqual(t, "node-1", after[i])
			}
		}
	})
}

func TestRing_Distribution(t *testing.T) {
	ring := newTestRing[wideint.Uint256](t, 150, digest.SHA256())
	destinations := []string{"node-0", "node-1", "node-2"}
	for _, id := range destinations {
		require.NoError(t, ring.Add(id))
	}

	counts := make(map[string]int)
	for i := range 3000 {
		owner, err := ring.Find([]byte(fmt.Sprintf("key-%d", i)))
		require.NoError(t, err)
		counts[owner]++
	}

	for _, id := range destinations {
		share := float64(counts[id]) / 3000
		require.Greater(t, share, 0.15, "destination %s under-assigned", id)
		require.Less(t, share, 0.55, "destination %s over-assigned", id)
	}
}

func BenchmarkRing_Find(b *testing.B) {
	ring, _ := NewRing[wideint.Uint256](5, 1<<32, digest.SHA256())
	for i := range 100 {
		_ = ring.Add(fmt.Sprintf("10.0.0.%d", i))
	}
	key := []byte("user:42")

	for b.Loop() {
		_, _ = ring.Find(key)
	}
}

func BenchmarkRing_Add(b *testing.B) {
	for b.Loop() {
		ring, _ := NewRing[wideint.Uint256](5, 1<<32, digest.SHA256())
		for i := range 50 {
			_ = ring.Add(fmt.Sprintf("10.0.0.%d", i))
		}
	}
}
