package messages

import (
	"github.com/onflow/corruptible-validator/model/flow"
)

// CandidateBackingMessage is a message handled by the candidate-backing subsystem.
type CandidateBackingMessage interface {
	isCandidateBackingMessage()
}

// SecondCandidate asks the backing subsystem to validate a candidate received from a producer
// and, if it is valid, to second it. It is the single message through which new candidates
// enter the backing pipeline.
type SecondCandidate struct {
	RelayParent    flow.Identifier
	Candidate      *flow.CandidateReceipt
	ValidationData *flow.ValidationData
	Payload        *flow.Payload
}

// GetBackedCandidates requests the candidates backed so far for a relay parent.
type GetBackedCandidates struct {
	RelayParent flow.Identifier
	Reply       chan<- []*flow.CandidateReceipt
}

func (*SecondCandidate) isCandidateBackingMessage()     {}
func (*GetBackedCandidates) isCandidateBackingMessage() {}
