// Package testing provides test helpers for code built on chring.
//
// It follows the net/http/httptest convention of shipping test utilities in a
// dedicated package:
//   - StartEmbeddedNATS: in-process NATS server with JetStream
//   - CreateJetStreamKV: in-memory KV bucket for KV destination sources (WithTTL, WithHistory)
//   - NewJetStream: JetStream context for bucket management in tests
//   - NewTestLogger: types.Logger writing through testing.TB
//
// Example usage:
//
//	import (
//	    "testing"
//	    chringtest "github.com/arloliu/chring/testing"
//	)
//
//	func TestWatch(t *testing.T) {
//	    _, nc := chringtest.StartEmbeddedNATS(t)
//	    kv := chringtest.CreateJetStreamKV(t, nc, "destinations")
//	}
package testing
