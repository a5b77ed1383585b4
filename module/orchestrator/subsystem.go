package orchestrator

import (
	"context"

	"github.com/onflow/corruptible-validator/module/irrecoverable"
	"github.com/onflow/corruptible-validator/module/spawner"
)

// Sender routes messages to the subsystem handling their type.
type Sender interface {
	// SendMessage delivers the message, blocking until the recipient's mailbox has room or
	// the context is cancelled.
	// Expected errors:
	//   - ErrUnroutable if no subsystem handles the message type
	//   - the context error if the context is done before the message is delivered
	SendMessage(ctx context.Context, msg any) error

	// TrySendMessage delivers the message without blocking.
	// Expected errors:
	//   - ErrUnroutable if no subsystem handles the message type
	//   - ErrMailboxFull if the recipient's mailbox has no room
	TrySendMessage(msg any) error
}

// Context is the view of the orchestrator given to a running subsystem.
type Context[M any] interface {
	// Recv blocks until the next signal or message for the subsystem arrives, or the context is done.
	Recv(ctx context.Context) (FromOrchestrator[M], error)

	// Sender returns the handle used to send messages to other subsystems.
	Sender() Sender

	// Spawner returns the pool for work that must not block the subsystem's goroutine.
	Spawner() spawner.Spawner
}

// Subsystem is a protocol component driven by the orchestrator. It handles the messages of type M,
// one at a time, on a goroutine of its own.
type Subsystem[M any] interface {
	Name() string

	// Run processes signals and messages until the context is cancelled or a Conclude signal is
	// received. Irrecoverable errors are thrown on ctx.
	Run(ctx irrecoverable.SignalerContext, sctx Context[M])
}

type subsystemContext[M any] struct {
	mailbox <-chan FromOrchestrator[M]
	sender  Sender
	spawner spawner.Spawner
}

var _ Context[any] = (*subsystemContext[any])(nil)

func (c *subsystemContext[M]) Recv(ctx context.Context) (FromOrchestrator[M], error) {
	select {
	case <-ctx.Done():
		return FromOrchestrator[M]{}, ctx.Err()
	case msg := <-c.mailbox:
		return msg, nil
	}
}

func (c *subsystemContext[M]) Sender() Sender {
	return c.sender
}

func (c *subsystemContext[M]) Spawner() spawner.Spawner {
	return c.spawner
}
