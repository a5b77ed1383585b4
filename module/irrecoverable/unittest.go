package irrecoverable

import (
	"context"
	"errors"
	"runtime"
	"testing"
)

// MockSignalerContext is a SignalerContext that fails the test when an error is thrown, unless
// the thrown error is the one the test expects.
type MockSignalerContext struct {
	context.Context
	t           *testing.T
	expectError error
	thrown      chan error
}

var _ SignalerContext = &MockSignalerContext{}

func (m *MockSignalerContext) sealed() {}

// Throw fails the test if the thrown error is not the expected one, then terminates the calling
// goroutine as a real signaler would. Code expected to throw must hence not run on the test goroutine.
func (m *MockSignalerContext) Throw(err error) {
	if m.expectError != nil && errors.Is(err, m.expectError) {
		m.t.Logf("mock signaler context received expected error: %v", err)
	} else {
		m.t.Errorf("mock signaler context received error: %v", err)
	}
	select {
	case m.thrown <- err:
	default:
	}
	runtime.Goexit()
}

// Thrown returns a channel receiving the first error thrown on this context.
func (m *MockSignalerContext) Thrown() <-chan error {
	return m.thrown
}

func NewMockSignalerContext(t *testing.T, ctx context.Context) *MockSignalerContext {
	return &MockSignalerContext{
		Context: ctx,
		t:       t,
		thrown:  make(chan error, 1),
	}
}

// NewMockSignalerContextExpectError creates a signaler context which tolerates the given error being thrown.
func NewMockSignalerContextExpectError(t *testing.T, ctx context.Context, err error) *MockSignalerContext {
	if err == nil {
		t.Fatal("expected error must not be nil")
	}
	m := NewMockSignalerContext(t, ctx)
	m.expectError = err
	return m
}

func NewMockSignalerContextWithCancel(t *testing.T, parent context.Context) (*MockSignalerContext, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	return NewMockSignalerContext(t, ctx), cancel
}
