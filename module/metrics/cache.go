package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/onflow/corruptible-validator/module"
)

type CacheCollector struct {
	entries *prometheus.GaugeVec
	hits    *prometheus.CounterVec
	misses  *prometheus.CounterVec
}

var _ module.CacheMetrics = (*CacheCollector)(nil)

func NewCacheCollector(registerer prometheus.Registerer) *CacheCollector {
	factory := promauto.With(registerer)

	return &CacheCollector{
		entries: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:      "entries_total",
			Namespace: namespaceStorage,
			Subsystem: subsystemBadger,
			Help:      "the number of entries in the storage layer cache",
		}, []string{LabelResource}),

		hits: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "hits_total",
			Namespace: namespaceStorage,
			Subsystem: subsystemBadger,
			Help:      "the number of hits for the storage layer cache",
		}, []string{LabelResource}),

		misses: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "misses_total",
			Namespace: namespaceStorage,
			Subsystem: subsystemBadger,
			Help:      "the number of times a queried item was not found in the cache",
		}, []string{LabelResource}),
	}
}

// CacheEntries records the size of the cache for the given resource.
func (cc *CacheCollector) CacheEntries(resource string, entries uint) {
	cc.entries.With(prometheus.Labels{LabelResource: resource}).Set(float64(entries))
}

// CacheHit records a hit in the cache for the given resource.
func (cc *CacheCollector) CacheHit(resource string) {
	cc.hits.With(prometheus.Labels{LabelResource: resource}).Inc()
}

// CacheMiss records the number of times the queried item was not found in the cache.
func (cc *CacheCollector) CacheMiss(resource string) {
	cc.misses.With(prometheus.Labels{LabelResource: resource}).Inc()
}
