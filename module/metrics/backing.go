package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/onflow/corruptible-validator/module"
)

type BackingCollector struct {
	backed   prometheus.Counter
	rejected *prometheus.CounterVec
}

var _ module.BackingMetrics = (*BackingCollector)(nil)

func NewBackingCollector(registerer prometheus.Registerer) *BackingCollector {
	factory := promauto.With(registerer)

	return &BackingCollector{
		backed: factory.NewCounter(prometheus.CounterOpts{
			Name:      "backed_total",
			Namespace: namespaceBacking,
			Subsystem: subsystemCandidates,
			Help:      "the number of candidates backed by this node",
		}),
		rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "rejected_total",
			Namespace: namespaceBacking,
			Subsystem: subsystemCandidates,
			Help:      "the number of candidates rejected by this node, by the stage that rejected them",
		}, []string{LabelStage}),
	}
}

func (bc *BackingCollector) CandidateBacked() {
	bc.backed.Inc()
}

func (bc *BackingCollector) CandidateRejected(stage string) {
	bc.rejected.With(prometheus.Labels{LabelStage: stage}).Inc()
}
