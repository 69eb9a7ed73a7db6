// Package chring provides a consistent-hash ring for routing keys to a dynamic
// set of destinations.
//
// Each destination is placed on a circular, ordered coordinate space at
// several pseudo-random positions (virtual nodes). A key is owned by the first
// position at or after the key's own coordinate, wrapping around to the
// smallest position. Adding or removing a destination therefore only moves the
// keys adjacent to that destination's positions.
//
// # Quick Start
//
//	cfg := chring.DefaultConfig()
//	router, err := chring.NewRouter(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	_ = router.AddDestination(ctx, "10.0.0.1")
//	_ = router.AddDestination(ctx, "10.0.0.2")
//
//	dest, err := router.FindDestinationString("user:42")
//
// # Coordinates
//
// Positions are fixed-width unsigned integers (64, 128 or 256 bits, see
// package wideint) taken from the leading bytes of a digest (SHA-256 by
// default, see package digest). The i-th position of a destination comes from
// the seed id + decimal(i). A seed whose position is already taken is skipped
// and the next index is tried, so every destination owns exactly
// ReplicationCount distinct positions.
//
// # Membership
//
// Membership can be managed directly with AddDestination/RemoveDestination,
// reconciled from a DestinationSource with Sync, or followed continuously with
// Watch (see package source for static and NATS JetStream KV sources).
//
// # Observability
//
//	router, err := chring.NewRouter(&cfg,
//	    chring.WithLogger(logger),
//	    chring.WithMetrics(chring.NewPrometheusMetrics(prometheus.DefaultRegisterer, "")),
//	    chring.WithHooks(&chring.Hooks{
//	        OnDestinationAdded: func(ctx context.Context, id string, vnodes int) error {
//	            return nil
//	        },
//	    }),
//	)
//
// See the examples/ directory for complete programs.
package chring
