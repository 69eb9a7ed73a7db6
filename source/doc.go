// Package source provides built-in destination sources for the Router.
//
// A destination source tells the Router which destinations should currently
// be on the ring:
//
//   - Static: in-memory list, updated explicitly (tests, fixed topologies)
//   - KV: NATS JetStream KV bucket where each key registers one destination
//
// Both implement types.DestinationWatcher, so a Router can follow membership
// changes with Router.Watch. Custom sources only need to satisfy
// types.DestinationSource to be used with Router.Sync.
//
// Destinations registering themselves in a KV bucket with a TTL should run
// KV.KeepAlive for as long as they serve traffic:
//
//	g.Go(func() error { return src.KeepAlive(ctx, "10.0.0.1:6379", source.DefaultKeepAliveInterval) })
package source
