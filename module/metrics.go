package module

import (
	"time"
)

// CorruptionMetrics captures the decisions taken by the message interceptors of a corrupted node.
type CorruptionMetrics interface {
	// InterceptionDecision records the outcome of intercepting a message of the given kind,
	// e.g. pass-through, corrupted or suppressed.
	InterceptionDecision(kind string, decision string)

	// FetchFailed records a chain-state fetch that failed and aborted a fabrication.
	FetchFailed(reason string)

	// CandidateFabricated records the time it took to fabricate a candidate.
	CandidateFabricated(duration time.Duration)
}

// BackingMetrics captures the outcome of the candidate-backing pipeline.
type BackingMetrics interface {
	// CandidateBacked records a candidate that passed all checks and was backed.
	CandidateBacked()

	// CandidateRejected records a candidate rejected at the given stage of the pipeline.
	CandidateRejected(stage string)
}

// CacheMetrics captures hit and miss rates of the storage caches.
type CacheMetrics interface {
	// CacheEntries report the total number of cached items
	CacheEntries(resource string, entries uint)
	// CacheHit report the number of times the queried item is found in the cache
	CacheHit(resource string)
	// CacheMiss report the number of times the queried item is not found in the cache
	CacheMiss(resource string)
}
