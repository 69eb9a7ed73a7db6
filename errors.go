package chring

import "github.com/arloliu/chring/types"

// Sentinel errors returned by the Router and its collaborators. They are
// re-exported from the types package so callers only import chring.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrInvalidArgument is returned for empty destination ids and out-of-range arguments.
	ErrInvalidArgument = types.ErrInvalidArgument

	// ErrNoDestinationsAvailable is returned by lookups against an empty ring.
	ErrNoDestinationsAvailable = types.ErrNoDestinationsAvailable

	// ErrInvalidWidth is returned when a digest is narrower than the position width.
	ErrInvalidWidth = types.ErrInvalidWidth

	// ErrOverflow is returned when a native integer does not fit a position type.
	ErrOverflow = types.ErrOverflow

	// ErrUnknownHash is returned when the configured hash name cannot be resolved.
	ErrUnknownHash = types.ErrUnknownHash

	// ErrSourceRequired is returned when Sync or Watch receive a nil source.
	ErrSourceRequired = types.ErrSourceRequired

	// ErrConnectivity marks failures caused by an unreachable NATS server.
	ErrConnectivity = types.ErrConnectivity
)
