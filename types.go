package chring

import "github.com/arloliu/chring/types"

// Re-export interfaces from the types package.
//
// Internal packages depend on types rather than on the root package, which
// avoids import cycles while still letting users write chring.Logger,
// chring.Hooks and so on.
type (
	Logger             = types.Logger
	MetricsCollector   = types.MetricsCollector
	Hooks              = types.Hooks
	DestinationSource  = types.DestinationSource
	DestinationWatcher = types.DestinationWatcher
	AssignmentStrategy = types.AssignmentStrategy
)
