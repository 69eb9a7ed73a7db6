// Package metrics provides types.MetricsCollector implementations.
package metrics

import "github.com/arloliu/chring/types"

// NopMetrics discards every metric. It is the Router default when
// WithMetrics is not supplied.
type NopMetrics struct{}

var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a no-op metrics collector.
//
// Example:
//
//	router, _ := chring.NewRouter(&cfg, chring.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RingMetrics implementation

// RecordDestinationChange discards the membership change metric.
func (n *NopMetrics) RecordDestinationChange(_ string, _ int) {}

// RecordLookup discards the lookup metric.
func (n *NopMetrics) RecordLookup(_ bool, _ float64) {}

// RecordPositionCollisions discards the collision metric.
func (n *NopMetrics) RecordPositionCollisions(_ int) {}

// RecordRingSize discards the ring size gauges.
func (n *NopMetrics) RecordRingSize(_, _ int) {}

// SourceMetrics implementation

// RecordSourceSync discards the sync metric.
func (n *NopMetrics) RecordSourceSync(_ bool, _ float64) {}

// RecordSourceChange discards the membership delta metric.
func (n *NopMetrics) RecordSourceChange(_, _ int) {}
