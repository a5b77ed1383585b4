package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/onflow/corruptible-validator/module"
)

type CorruptionCollector struct {
	decisions           *prometheus.CounterVec
	fetchFailures       *prometheus.CounterVec
	fabricationDuration prometheus.Histogram
}

var _ module.CorruptionMetrics = (*CorruptionCollector)(nil)

func NewCorruptionCollector(registerer prometheus.Registerer) *CorruptionCollector {
	factory := promauto.With(registerer)

	return &CorruptionCollector{
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "intercepted_messages_total",
			Namespace: namespaceCorruption,
			Subsystem: subsystemInterceptor,
			Help:      "the number of intercepted messages, by message kind and interception decision",
		}, []string{LabelKind, LabelDecision}),

		fetchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "fetch_failures_total",
			Namespace: namespaceCorruption,
			Subsystem: subsystemFabricator,
			Help:      "the number of fabrications aborted because the chain-state fetch failed",
		}, []string{LabelReason}),

		fabricationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:      "fabrication_duration_seconds",
			Namespace: namespaceCorruption,
			Subsystem: subsystemFabricator,
			Help:      "the time it took to fabricate a corrupted candidate, chain-state fetch included",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}),
	}
}

func (cc *CorruptionCollector) InterceptionDecision(kind string, decision string) {
	cc.decisions.With(prometheus.Labels{LabelKind: kind, LabelDecision: decision}).Inc()
}

func (cc *CorruptionCollector) FetchFailed(reason string) {
	cc.fetchFailures.With(prometheus.Labels{LabelReason: reason}).Inc()
}

func (cc *CorruptionCollector) CandidateFabricated(duration time.Duration) {
	cc.fabricationDuration.Observe(duration.Seconds())
}
