package backing

import (
	"github.com/onflow/corruptible-validator/model/flow"
)

// Consumer is notified of the outcome of every candidate handled by the backing engine.
// Implementations must be non-blocking, they are called on the engine's goroutine.
type Consumer interface {
	// OnCandidateBacked is called when a candidate passed all checks and was backed.
	OnCandidateBacked(receipt *flow.CandidateReceipt)

	// OnCandidateRejected is called when a candidate failed the check of the given stage.
	OnCandidateRejected(receipt *flow.CandidateReceipt, stage string, err error)
}

// NoopConsumer ignores all notifications.
type NoopConsumer struct{}

var _ Consumer = (*NoopConsumer)(nil)

func (*NoopConsumer) OnCandidateBacked(*flow.CandidateReceipt)                   {}
func (*NoopConsumer) OnCandidateRejected(*flow.CandidateReceipt, string, error) {}
