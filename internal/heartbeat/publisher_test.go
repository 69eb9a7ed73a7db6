package heartbeat

import (
	"fmt"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	chringtest "github.com/arloliu/chring/testing"
)

func TestPublisher_Start(t *testing.T) {
	t.Run("starts successfully and publishes heartbeat", func(t *testing.T) {
		ctx := t.Context()

		_, nc := chringtest.StartEmbeddedNATS(t)
		kv := chringtest.CreateJetStreamKV(t, nc, "test-hb-start-1")

		publisher := New(kv, "destinations.node-1", 100*time.Millisecond, chringtest.NewTestLogger(t))

		err := publisher.Start(ctx)
		require.NoError(t, err)
		require.True(t, publisher.IsStarted())
		require.Equal(t, "destinations.node-1", publisher.Key())

		entry, err := kv.Get(ctx, "destinations.node-1")
		require.NoError(t, err)
		require.NotNil(t, entry)

		require.NoError(t, publisher.Stop())
	})

	t.Run("returns error if key not set", func(t *testing.T) {
		_, nc := chringtest.StartEmbeddedNATS(t)
		kv := chringtest.CreateJetStreamKV(t, nc, "test-hb-start-2")

		publisher := New(kv, "", 2*time.Second, nil)

		err := publisher.Start(t.Context())
		require.ErrorIs(t, err, ErrNoKey)
		require.False(t, publisher.IsStarted())
	})

	t.Run("returns error if already started", func(t *testing.T) {
		ctx := t.Context()

		_, nc := chringtest.StartEmbeddedNATS(t)
		kv := chringtest.CreateJetStreamKV(t, nc, "test-hb-start-3")

		publisher := New(kv, "destinations.node-1", 2*time.Second, nil)
		require.NoError(t, publisher.Start(ctx))

		err := publisher.Start(ctx)
		require.ErrorIs(t, err, ErrAlreadyStarted)

		require.NoError(t, publisher.Stop())
	})

	t.Run("can restart after stop", func(t *testing.T) {
		ctx := t.Context()

		_, nc := chringtest.StartEmbeddedNATS(t)
		kv := chringtest.CreateJetStreamKV(t, nc, "test-hb-start-4")

		publisher := New(kv, "destinations.node-1", 50*time.Millisecond, nil)
		require.NoError(t, publisher.Start(ctx))
		require.NoError(t, publisher.Stop())

		require.NoError(t, publisher.Start(ctx))
		_, err := kv.Get(ctx, "destinations.node-1")
		require.NoError(t, err)
		require.NoError(t, publisher.Stop())
	})
}

func TestPublisher_Stop(t *testing.T) {
	t.Run("stops and deletes the key", func(t *testing.T) {
		ctx := t.Context()

		_, nc := chringtest.StartEmbeddedNATS(t)
		kv := chringtest.CreateJetStreamKV(t, nc, "test-hb-stop-1")

		publisher := New(kv, "destinations.node-1", 2*time.Second, nil)
		require.NoError(t, publisher.Start(ctx))

		require.NoError(t, publisher.Stop())
		require.False(t, publisher.IsStarted())

		_, err := kv.Get(ctx, "destinations.node-1")
		require.ErrorIs(t, err, jetstream.ErrKeyNotFound)
	})

	t.Run("returns error if not started", func(t *testing.T) {
		_, nc := chringtest.StartEmbeddedNATS(t)
		kv := chringtest.CreateJetStreamKV(t, nc, "test-hb-stop-2")

		publisher := New(kv, "destinations.node-1", 2*time.Second, nil)

		require.ErrorIs(t, publisher.Stop(), ErrNotStarted)
	})
}

func TestPublisher_PeriodicHeartbeats(t *testing.T) {
	ctx := t.Context()

	_, nc := chringtest.StartEmbeddedNATS(t)
	kv := chringtest.CreateJetStreamKV(t, nc, "test-hb-periodic")

	publisher := New(kv, "destinations.node-1", 100*time.Millisecond, nil)
	require.NoError(t, publisher.Start(ctx))
	defer func() { _ = publisher.Stop() }()

	entry, err := kv.Get(ctx, "destinations.node-1")
	require.NoError(t, err)
	firstRevision := entry.Revision()

	firstTimestamp, err := time.Parse(time.RFC3339Nano, string(entry.Value()))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		entry, err = kv.Get(ctx, "destinations.node-1")
		return err == nil && entry.Revision() > firstRevision
	}, 2*time.Second, 20*time.Millisecond)

	secondTimestamp, err := time.Parse(time.RFC3339Nano, string(entry.Value()))
	require.NoError(t, err)
	require.True(t, secondTimestamp.After(firstTimestamp))
}

func TestPublisher_TTLExpiry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping TTL test in short mode")
	}

	ctx := t.Context()

	_, nc := chringtest.StartEmbeddedNATS(t)
	kv := chringtest.CreateJetStreamKV(t, nc, "test-hb-ttl", chringtest.WithTTL(time.Second))

	t.Run("refreshed key outlives the TTL", func(t *testing.T) {
		publisher := New(kv, "destinations.alive", 200*time.Millisecond, nil)
		require.NoError(t, publisher.Start(ctx))
		defer func() { _ = publisher.Stop() }()

		time.Sleep(1500 * time.Millisecond)

		_, err := kv.Get(ctx, "destinations.alive")
		require.NoError(t, err)
	})

	t.Run("abandoned key expires", func(t *testing.T) {
		_, err := kv.PutString(ctx, "destinations.crashed", "crashed")
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			_, err := kv.Get(ctx, "destinations.crashed")
			return err != nil
		}, 5*time.Second, 100*time.Millisecond)
	})
}

func TestPublisher_MultipleDestinations(t *testing.T) {
	ctx := t.Context()

	_, nc := chringtest.StartEmbeddedNATS(t)
	kv := chringtest.CreateJetStreamKV(t, nc, "test-hb-multiple")

	publishers := make([]*Publisher, 3)
	for i := range publishers {
		publishers[i] = New(kv, fmt.Sprintf("destinations.node-%d", i+1), 100*time.Millisecond, nil)
		require.NoError(t, publishers[i].Start(ctx))
	}

	for i := range publishers {
		entry, err := kv.Get(ctx, fmt.Sprintf("destinations.node-%d", i+1))
		require.NoError(t, err)
		require.NotNil(t, entry)
	}

	for _, publisher := range publishers {
		require.NoError(t, publisher.Stop())
	}

	keys, err := kv.Keys(ctx)
	if err == nil {
		require.Empty(t, keys)
	} else {
		require.ErrorIs(t, err, jetstream.ErrNoKeysFound)
	}
}
