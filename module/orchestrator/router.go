package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/onflow/corruptible-validator/model/messages"
)

var (
	ErrUnroutable  = errors.New("no subsystem handles message")
	ErrMailboxFull = errors.New("subsystem mailbox full")
)

// router delivers messages to the mailbox of the subsystem handling their type.
type router struct {
	backing    chan FromOrchestrator[messages.CandidateBackingMessage]
	validation chan FromOrchestrator[messages.CandidateValidationMessage]
	runtimeAPI chan FromOrchestrator[messages.RuntimeAPIMessage]
}

var _ Sender = (*router)(nil)

func newRouter(mailboxSize int) *router {
	return &router{
		backing:    make(chan FromOrchestrator[messages.CandidateBackingMessage], mailboxSize),
		validation: make(chan FromOrchestrator[messages.CandidateValidationMessage], mailboxSize),
		runtimeAPI: make(chan FromOrchestrator[messages.RuntimeAPIMessage], mailboxSize),
	}
}

func (r *router) SendMessage(ctx context.Context, msg any) error {
	switch m := msg.(type) {
	case messages.CandidateBackingMessage:
		return send(ctx, r.backing, Communication(m))
	case messages.CandidateValidationMessage:
		return send(ctx, r.validation, Communication(m))
	case messages.RuntimeAPIMessage:
		return send(ctx, r.runtimeAPI, Communication(m))
	default:
		return fmt.Errorf("%T: %w", msg, ErrUnroutable)
	}
}

func (r *router) TrySendMessage(msg any) error {
	switch m := msg.(type) {
	case messages.CandidateBackingMessage:
		return trySend(r.backing, Communication(m))
	case messages.CandidateValidationMessage:
		return trySend(r.validation, Communication(m))
	case messages.RuntimeAPIMessage:
		return trySend(r.runtimeAPI, Communication(m))
	default:
		return fmt.Errorf("%T: %w", msg, ErrUnroutable)
	}
}

// broadcast delivers the signal to every subsystem, in a fixed order.
func (r *router) broadcast(ctx context.Context, signal Signal) error {
	err := send(ctx, r.runtimeAPI, SignalMessage[messages.RuntimeAPIMessage](signal))
	if err != nil {
		return fmt.Errorf("could not signal runtime api: %w", err)
	}
	err = send(ctx, r.validation, SignalMessage[messages.CandidateValidationMessage](signal))
	if err != nil {
		return fmt.Errorf("could not signal candidate validation: %w", err)
	}
	err = send(ctx, r.backing, SignalMessage[messages.CandidateBackingMessage](signal))
	if err != nil {
		return fmt.Errorf("could not signal candidate backing: %w", err)
	}
	return nil
}

func send[M any](ctx context.Context, mailbox chan FromOrchestrator[M], msg FromOrchestrator[M]) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case mailbox <- msg:
		return nil
	}
}

func trySend[M any](mailbox chan FromOrchestrator[M], msg FromOrchestrator[M]) error {
	select {
	case mailbox <- msg:
		return nil
	default:
		return ErrMailboxFull
	}
}
