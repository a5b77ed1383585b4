package metrics

import (
	"time"

	"github.com/onflow/corruptible-validator/module"
)

type NoopCollector struct{}

var _ module.CorruptionMetrics = (*NoopCollector)(nil)
var _ module.BackingMetrics = (*NoopCollector)(nil)
var _ module.CacheMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) InterceptionDecision(kind string, decision string) {}
func (nc *NoopCollector) FetchFailed(reason string)                         {}
func (nc *NoopCollector) CandidateFabricated(duration time.Duration)        {}
func (nc *NoopCollector) CandidateBacked()                                  {}
func (nc *NoopCollector) CandidateRejected(stage string)                    {}
func (nc *NoopCollector) CacheEntries(resource string, entries uint)        {}
func (nc *NoopCollector) CacheHit(resource string)                          {}
func (nc *NoopCollector) CacheMiss(resource string)                         {}
