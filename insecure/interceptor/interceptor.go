// Package interceptor substitutes a subsystem by a wrapper that observes, rewrites or drops the
// messages flowing between the subsystem and the orchestrator, without the subsystem noticing.
package interceptor

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/onflow/corruptible-validator/module/irrecoverable"
	"github.com/onflow/corruptible-validator/module/orchestrator"
	"github.com/onflow/corruptible-validator/module/spawner"
	"github.com/onflow/corruptible-validator/utils/logging"
)

// Interceptor decides the fate of every message flowing to and from a wrapped subsystem.
type Interceptor[M any] interface {
	// InterceptIncoming is called for every signal and message delivered to the wrapped subsystem,
	// on the subsystem's goroutine. It returns the value to deliver, and false to drop it.
	// The sender bypasses the interceptor, it is meant for requests the interceptor issues itself.
	InterceptIncoming(ctx irrecoverable.SignalerContext, sender orchestrator.Sender, msg orchestrator.FromOrchestrator[M]) (orchestrator.FromOrchestrator[M], bool)

	// InterceptOutgoing is called for every message the wrapped subsystem sends. It returns the
	// message to send, and false to drop it.
	InterceptOutgoing(msg any) (any, bool)
}

// Subsystem wraps a subsystem so that all its traffic goes through an interceptor.
type Subsystem[M any] struct {
	log         zerolog.Logger
	inner       orchestrator.Subsystem[M]
	interceptor Interceptor[M]
}

var _ orchestrator.Subsystem[any] = (*Subsystem[any])(nil)

func New[M any](log zerolog.Logger, inner orchestrator.Subsystem[M], interceptor Interceptor[M]) *Subsystem[M] {
	return &Subsystem[M]{
		log:         log.With().Str("component", "interceptor").Str("subsystem", inner.Name()).Logger(),
		inner:       inner,
		interceptor: interceptor,
	}
}

// Name returns the name of the wrapped subsystem.
func (s *Subsystem[M]) Name() string {
	return s.inner.Name()
}

func (s *Subsystem[M]) Run(ctx irrecoverable.SignalerContext, sctx orchestrator.Context[M]) {
	s.inner.Run(ctx, &interceptedContext[M]{
		log:         s.log,
		signalerCtx: ctx,
		inner:       sctx,
		interceptor: s.interceptor,
		sender: &interceptedSender[M]{
			log:         s.log,
			inner:       sctx.Sender(),
			interceptor: s.interceptor,
		},
	})
}

type interceptedContext[M any] struct {
	log         zerolog.Logger
	signalerCtx irrecoverable.SignalerContext
	inner       orchestrator.Context[M]
	interceptor Interceptor[M]
	sender      *interceptedSender[M]
}

var _ orchestrator.Context[any] = (*interceptedContext[any])(nil)

// Recv returns the next value the interceptor lets through, skipping dropped ones.
func (c *interceptedContext[M]) Recv(ctx context.Context) (orchestrator.FromOrchestrator[M], error) {
	for {
		msg, err := c.inner.Recv(ctx)
		if err != nil {
			return msg, err
		}

		intercepted, forward := c.interceptor.InterceptIncoming(c.signalerCtx, c.inner.Sender(), msg)
		lg := c.log.Debug().Str("msg_type", typeOf(msg))
		if !forward {
			lg.Msg("incoming message dropped")
			continue
		}
		lg.Msg("incoming message forwarded")
		return intercepted, nil
	}
}

func (c *interceptedContext[M]) Sender() orchestrator.Sender {
	return c.sender
}

func (c *interceptedContext[M]) Spawner() spawner.Spawner {
	return c.inner.Spawner()
}

type interceptedSender[M any] struct {
	log         zerolog.Logger
	inner       orchestrator.Sender
	interceptor Interceptor[M]
}

var _ orchestrator.Sender = (*interceptedSender[any])(nil)

func (s *interceptedSender[M]) SendMessage(ctx context.Context, msg any) error {
	out, forward := s.intercept(msg)
	if !forward {
		return nil
	}
	return s.inner.SendMessage(ctx, out)
}

func (s *interceptedSender[M]) TrySendMessage(msg any) error {
	out, forward := s.intercept(msg)
	if !forward {
		return nil
	}
	return s.inner.TrySendMessage(out)
}

func (s *interceptedSender[M]) intercept(msg any) (any, bool) {
	out, forward := s.interceptor.InterceptOutgoing(msg)
	lg := s.log.Debug().Str("msg_type", logging.Type(msg))
	if !forward {
		lg.Msg("outgoing message dropped")
		return nil, false
	}
	lg.Msg("outgoing message forwarded")
	return out, true
}

func typeOf[M any](msg orchestrator.FromOrchestrator[M]) string {
	if msg.IsSignal() {
		return logging.Type(msg.Signal)
	}
	return logging.Type(msg.Msg)
}
