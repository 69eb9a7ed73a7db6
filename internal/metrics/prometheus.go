package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/chring/types"
)

// DefaultNamespace is used when NewPrometheus receives an empty namespace.
const DefaultNamespace = "chring"

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use, so constructing a
// PrometheusCollector that is never exercised leaves the registry untouched.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	// ring metrics
	destinationChanges *prometheus.CounterVec
	virtualNodeChanges *prometheus.CounterVec
	lookups            *prometheus.CounterVec
	lookupLatency      prometheus.Histogram
	collisions         prometheus.Counter
	destinations       prometheus.Gauge
	virtualNodes       prometheus.Gauge

	// source metrics
	syncs         *prometheus.CounterVec
	syncLatency   prometheus.Histogram
	sourceChanges *prometheus.CounterVec
}

var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Metrics namespace (defaults to "chring" if empty)
//
// Returns:
//   - *PrometheusCollector: MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.destinationChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "ring",
			Name:      "destination_changes_total",
			Help:      "Total destination membership changes by operation (add/remove).",
		}, []string{"op"})

		p.virtualNodeChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "ring",
			Name:      "virtual_node_changes_total",
			Help:      "Total virtual nodes inserted or erased by operation (add/remove).",
		}, []string{"op"})

		p.lookups = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "ring",
			Name:      "lookups_total",
			Help:      "Total key lookups by result (success/failure).",
		}, []string{"result"})

		p.lookupLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "ring",
			Name:      "lookup_duration_seconds",
			Help:      "Latency of key lookups in seconds.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 10), // 100ns .. ~26ms
		})

		p.collisions = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "ring",
			Name:      "position_collisions_total",
			Help:      "Generated positions discarded because they were already occupied.",
		})

		p.destinations = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "ring",
			Name:      "destinations",
			Help:      "Current number of registered destinations.",
		})

		p.virtualNodes = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "ring",
			Name:      "virtual_nodes",
			Help:      "Current number of positions on the ring.",
		})

		p.syncs = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "source",
			Name:      "syncs_total",
			Help:      "Total reconciliation passes against the destination source by result.",
		}, []string{"result"})

		p.syncLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "source",
			Name:      "sync_duration_seconds",
			Help:      "Duration of reconciliation passes in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		})

		p.sourceChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "source",
			Name:      "changes_total",
			Help:      "Destinations added or removed by reconciliation, by kind (add/remove).",
		}, []string{"kind"})

		p.reg.MustRegister(
			p.destinationChanges,
			p.virtualNodeChanges,
			p.lookups,
			p.lookupLatency,
			p.collisions,
			p.destinations,
			p.virtualNodes,
			p.syncs,
			p.syncLatency,
			p.sourceChanges,
		)
	})
}

// RingMetrics implementation

// RecordDestinationChange counts a membership change and the virtual nodes it touched.
func (p *PrometheusCollector) RecordDestinationChange(op string, virtualNodes int) {
	p.ensureRegistered()
	p.destinationChanges.WithLabelValues(op).Inc()
	p.virtualNodeChanges.WithLabelValues(op).Add(float64(virtualNodes))
}

// RecordLookup counts a lookup by result and observes its latency.
func (p *PrometheusCollector) RecordLookup(success bool, duration float64) {
	p.ensureRegistered()
	p.lookups.WithLabelValues(resultLabel(success)).Inc()
	p.lookupLatency.Observe(duration)
}

// RecordPositionCollisions adds discarded positions to the collision counter.
func (p *PrometheusCollector) RecordPositionCollisions(count int) {
	if count <= 0 {
		return
	}
	p.ensureRegistered()
	p.collisions.Add(float64(count))
}

// RecordRingSize sets the destination and virtual node gauges.
func (p *PrometheusCollector) RecordRingSize(destinations, virtualNodes int) {
	p.ensureRegistered()
	p.destinations.Set(float64(destinations))
	p.virtualNodes.Set(float64(virtualNodes))
}

// SourceMetrics implementation

// RecordSourceSync counts a reconciliation pass by result and observes its duration.
func (p *PrometheusCollector) RecordSourceSync(success bool, duration float64) {
	p.ensureRegistered()
	p.syncs.WithLabelValues(resultLabel(success)).Inc()
	p.syncLatency.Observe(duration)
}

// RecordSourceChange counts destinations added and removed by a reconciliation pass.
func (p *PrometheusCollector) RecordSourceChange(added, removed int) {
	p.ensureRegistered()
	if added > 0 {
		p.sourceChanges.WithLabelValues("add").Add(float64(added))
	}
	if removed > 0 {
		p.sourceChanges.WithLabelValues("remove").Add(float64(removed))
	}
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}

	return "failure"
}

