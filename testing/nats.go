package testing

import (
	"fmt"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const serverReadyTimeout = 5 * time.Second

// StartEmbeddedNATS runs an in-process NATS server with JetStream enabled and
// returns it together with a connected client.
//
// The server listens on a random loopback port and keeps its JetStream store
// under t.TempDir(), so parallel tests never share state. The client and the
// server are torn down through t.Cleanup, client first.
//
// Example:
//
//	func TestKVSource(t *testing.T) {
//	    _, nc := chringtest.StartEmbeddedNATS(t)
//	    kv := chringtest.CreateJetStreamKV(t, nc, "destinations")
//	}
func StartEmbeddedNATS(t testing.TB) (*server.Server, *nats.Conn) {
	t.Helper()

	ns, err := server.NewServer(&server.Options{
		Host:      "127.0.0.1",
		Port:      server.RANDOM_PORT,
		JetStream: true,
		StoreDir:  t.TempDir(),
		NoLog:     true,
		NoSigs:    true,
	})
	if err != nil {
		t.Fatalf("embedded NATS: create server: %v", err)
	}

	ns.Start()
	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})

	if !ns.ReadyForConnections(serverReadyTimeout) {
		t.Fatalf("embedded NATS: server not ready after %s", serverReadyTimeout)
	}

	nc, err := nats.Connect(ns.ClientURL(), nats.Name(t.Name()), nats.Timeout(2*time.Second))
	if err != nil {
		t.Fatalf("embedded NATS: connect to %s: %v", ns.ClientURL(), err)
	}
	// Registered after the server cleanup, so it runs first.
	t.Cleanup(nc.Close)

	return ns, nc
}

// KVOption adjusts the bucket configuration used by CreateJetStreamKV.
type KVOption func(*jetstream.KeyValueConfig)

// WithTTL expires keys that are not rewritten within ttl, which is how
// crashed destinations age out of a registration bucket.
func WithTTL(ttl time.Duration) KVOption {
	return func(cfg *jetstream.KeyValueConfig) {
		cfg.TTL = ttl
	}
}

// WithHistory keeps up to n revisions per key (1 by default).
func WithHistory(n uint8) KVOption {
	return func(cfg *jetstream.KeyValueConfig) {
		cfg.History = n
	}
}

// CreateJetStreamKV creates an in-memory, single-replica KV bucket.
//
// Parameters:
//   - t: Testing context; creation failures abort the test
//   - nc: Connection from StartEmbeddedNATS
//   - bucket: Bucket name, unique per server
//   - opts: WithTTL, WithHistory
//
// Returns:
//   - jetstream.KeyValue: Ready-to-use bucket
func CreateJetStreamKV(t testing.TB, nc *nats.Conn, bucket string, opts ...KVOption) jetstream.KeyValue {
	t.Helper()

	cfg := jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: fmt.Sprintf("chring test bucket %q", bucket),
		History:     1,
		Storage:     jetstream.MemoryStorage,
		Replicas:    1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	kv, err := NewJetStream(t, nc).CreateKeyValue(t.Context(), cfg)
	if err != nil {
		t.Fatalf("embedded NATS: create bucket %q: %v", bucket, err)
	}

	return kv
}

// NewJetStream returns a JetStream context for nc or aborts the test.
func NewJetStream(t testing.TB, nc *nats.Conn) jetstream.JetStream {
	t.Helper()

	js, err := jetstream.New(nc)
	if err != nil {
		t.Fatalf("embedded NATS: JetStream context: %v", err)
	}

	return js
}
