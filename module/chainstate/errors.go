package chainstate

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrValidationCodeNotFound is returned when the chain does not know the requested validation code.
	ErrValidationCodeNotFound = errors.New("validation code not found")

	// ErrNoValidators is returned when the relay parent has an empty validator set, in which case
	// there is nobody to distribute chunks to.
	ErrNoValidators = errors.New("no validators at relay parent")

	// ErrNoResponse is returned when the responder dropped a request without answering it.
	ErrNoResponse = errors.New("request dropped without response")
)

// FetchTimeoutError is returned when a chain-state query is not answered within the fetch deadline.
type FetchTimeoutError struct {
	Request string
	Timeout time.Duration
}

func (e FetchTimeoutError) Error() string {
	return fmt.Sprintf("%s request not answered within %s", e.Request, e.Timeout)
}

// IsFetchTimeoutError returns whether the given error is a FetchTimeoutError
func IsFetchTimeoutError(err error) bool {
	var target FetchTimeoutError
	return errors.As(err, &target)
}

// failure reasons, used as metric labels
const (
	ReasonNotFound     = "not_found"
	ReasonNoValidators = "no_validators"
	ReasonTimeout      = "timeout"
	ReasonCancelled    = "cancelled"
	ReasonRuntimeError = "runtime_error"
)

// FailureReason classifies a fetch error.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, ErrValidationCodeNotFound):
		return ReasonNotFound
	case errors.Is(err, ErrNoValidators):
		return ReasonNoValidators
	case IsFetchTimeoutError(err):
		return ReasonTimeout
	case errors.Is(err, context.Canceled):
		return ReasonCancelled
	default:
		return ReasonRuntimeError
	}
}
