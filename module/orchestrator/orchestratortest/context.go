// Package orchestratortest runs a single subsystem outside of an orchestrator, for tests.
package orchestratortest

import (
	"context"
	"testing"
	"time"

	"github.com/onflow/corruptible-validator/module/irrecoverable"
	"github.com/onflow/corruptible-validator/module/orchestrator"
	"github.com/onflow/corruptible-validator/module/spawner"
	"github.com/onflow/corruptible-validator/utils/unittest"
)

// Context is an orchestrator.Context fed by the test.
type Context[M any] struct {
	mailbox chan orchestrator.FromOrchestrator[M]
	sender  orchestrator.Sender
	spawner spawner.Spawner
}

var _ orchestrator.Context[any] = (*Context[any])(nil)

func NewContext[M any](sender orchestrator.Sender, spawner spawner.Spawner) *Context[M] {
	return &Context[M]{
		mailbox: make(chan orchestrator.FromOrchestrator[M], 16),
		sender:  sender,
		spawner: spawner,
	}
}

func (c *Context[M]) Recv(ctx context.Context) (orchestrator.FromOrchestrator[M], error) {
	select {
	case <-ctx.Done():
		return orchestrator.FromOrchestrator[M]{}, ctx.Err()
	case msg := <-c.mailbox:
		return msg, nil
	}
}

func (c *Context[M]) Sender() orchestrator.Sender {
	return c.sender
}

func (c *Context[M]) Spawner() spawner.Spawner {
	return c.spawner
}

// Send delivers a message to the subsystem.
func (c *Context[M]) Send(msg M) {
	c.mailbox <- orchestrator.Communication[M](msg)
}

// Signal delivers a signal to the subsystem.
func (c *Context[M]) Signal(signal orchestrator.Signal) {
	c.mailbox <- orchestrator.SignalMessage[M](signal)
}

// Run runs the subsystem on a goroutine until the returned function is called. The subsystem must
// return within a second of its context being cancelled.
func Run[M any](t *testing.T, s orchestrator.Subsystem[M], sctx orchestrator.Context[M]) func() {
	ctx, cancel := context.WithCancel(context.Background())
	signalerCtx := irrecoverable.NewMockSignalerContext(t, ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(signalerCtx, sctx)
	}()

	return func() {
		cancel()
		unittest.RequireCloseBefore(t, done, time.Second, "subsystem did not stop")
	}
}
