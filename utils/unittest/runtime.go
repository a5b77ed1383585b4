package unittest

import (
	"context"
	"sync"

	"github.com/onflow/corruptible-validator/model/flow"
	"github.com/onflow/corruptible-validator/model/messages"
)

// RuntimeStub is a message sender answering runtime API requests synchronously from a fixed chain
// state, and recording every other message sent through it.
type RuntimeStub struct {
	Validators    flow.IdentifierList
	ValidatorsErr error
	Code          map[flow.Identifier]flow.ValidationCode
	CodeErr       error
	// Silent makes the stub accept requests without ever answering them.
	Silent bool

	mu       sync.Mutex
	requests []messages.RuntimeRequest
	sent     []any
}

// NewRuntimeStub returns a stub with n validators that knows the given validation codes.
func NewRuntimeStub(n int, codes ...flow.ValidationCode) *RuntimeStub {
	stub := &RuntimeStub{
		Validators: IdentifierListFixture(n),
		Code:       make(map[flow.Identifier]flow.ValidationCode),
	}
	for _, code := range codes {
		stub.Code[code.Hash()] = code
	}
	return stub
}

func (s *RuntimeStub) SendMessage(_ context.Context, msg any) error {
	return s.TrySendMessage(msg)
}

func (s *RuntimeStub) TrySendMessage(msg any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := msg.(*messages.RuntimeAPIRequest)
	if !ok {
		s.sent = append(s.sent, msg)
		return nil
	}
	s.requests = append(s.requests, request.Request)
	if s.Silent {
		return nil
	}

	switch r := request.Request.(type) {
	case *messages.ValidatorsRequest:
		r.Reply <- messages.ValidatorsResponse{Validators: s.Validators, Err: s.ValidatorsErr}
	case *messages.ValidationCodeByHashRequest:
		r.Reply <- messages.ValidationCodeResponse{Code: s.Code[r.CodeHash], Err: s.CodeErr}
	}
	return nil
}

// Requests returns the runtime requests received so far.
func (s *RuntimeStub) Requests() []messages.RuntimeRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]messages.RuntimeRequest(nil), s.requests...)
}

// Sent returns the messages other than runtime requests sent so far.
func (s *RuntimeStub) Sent() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]any(nil), s.sent...)
}
