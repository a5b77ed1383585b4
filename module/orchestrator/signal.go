package orchestrator

import (
	"github.com/onflow/corruptible-validator/model/flow"
)

// Signal is a lifecycle notification broadcast by the orchestrator to every subsystem.
type Signal interface {
	isSignal()
}

// ActiveLeavesUpdate notifies subsystems of relay-chain blocks that became or stopped being
// heads of the chain the node builds upon.
type ActiveLeavesUpdate struct {
	Activated   []flow.Identifier
	Deactivated []flow.Identifier
}

// BlockFinalized notifies subsystems of a newly finalized relay-chain block.
type BlockFinalized struct {
	BlockID flow.Identifier
	Height  uint32
}

// Conclude asks subsystems to shut down.
type Conclude struct{}

func (*ActiveLeavesUpdate) isSignal() {}
func (*BlockFinalized) isSignal()     {}
func (*Conclude) isSignal()           {}

// FromOrchestrator is what a subsystem receives from the orchestrator: either a signal or a
// message of the subsystem's message type M.
type FromOrchestrator[M any] struct {
	Signal Signal
	Msg    M
}

// Communication wraps a message addressed to a subsystem.
func Communication[M any](msg M) FromOrchestrator[M] {
	return FromOrchestrator[M]{Msg: msg}
}

// SignalMessage wraps a signal delivered to a subsystem.
func SignalMessage[M any](signal Signal) FromOrchestrator[M] {
	return FromOrchestrator[M]{Signal: signal}
}

// IsSignal returns true if the wrapped value is a signal rather than a message.
func (f FromOrchestrator[M]) IsSignal() bool {
	return f.Signal != nil
}
