package irrecoverable

import (
	"context"
	"fmt"
	"log"
	"runtime"
)

// Signaler forwards the first exception of a component to its supervisor.
type Signaler struct {
	errChan chan error
}

func newSignaler() (*Signaler, <-chan error) {
	errChan := make(chan error, 1)
	return &Signaler{
		errChan: errChan,
	}, errChan
}

// Throw reports err and terminates the calling goroutine. Only the first error
// reaches the supervisor; later ones are logged and dropped.
func (s *Signaler) Throw(err error) {
	defer runtime.Goexit()
	select {
	case s.errChan <- err:
	default:
		log.Printf("unhandled irrecoverable error: %v", err)
	}
}

// SignalerContext is a context.Context workers can throw exceptions on.
type SignalerContext interface {
	context.Context
	Throw(err error) // delegates to the signaler
	sealed()
}

type signalerCtx struct {
	context.Context
	*Signaler
}

func (sc signalerCtx) sealed() {}

// WithSignaler derives a SignalerContext from parent. The returned channel yields
// the first thrown exception.
func WithSignaler(parent context.Context) (SignalerContext, <-chan error) {
	sig, errChan := newSignaler()
	return &signalerCtx{parent, sig}, errChan
}

// NewExceptionf wraps a formatted error as an irrecoverable exception.
func NewExceptionf(msg string, args ...interface{}) error {
	return &exception{err: fmt.Errorf(msg, args...)}
}

type exception struct {
	err error
}

func (e *exception) Error() string {
	return e.err.Error()
}

func (e *exception) Unwrap() error {
	return e.err
}
