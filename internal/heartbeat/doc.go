// Package heartbeat keeps destination registrations alive in NATS KV.
//
// A destination that registers itself in a KV bucket with a TTL has to
// rewrite its key more often than the TTL, otherwise the key ages out and
// routers drop it. Publisher does that rewriting in the background:
//
//   - Refresh interval of ~2 seconds
//   - Bucket TTL of ~6 seconds (3x interval), so three missed refreshes evict
//   - Stop deletes the key for an immediate, graceful exit
//
// Example:
//
//	publisher := heartbeat.New(kv, "destinations.10.0.0.1", 2*time.Second, logger)
//	if err := publisher.Start(ctx); err != nil {
//	    return err
//	}
//	defer publisher.Stop()
//
// Most callers use source.KV.KeepAlive instead of this package directly.
package heartbeat
