package fabricator

import (
	"errors"
	"fmt"

	"github.com/onflow/corruptible-validator/module/chainstate"
	"github.com/onflow/corruptible-validator/module/spawner"
)

var (
	// ErrRendezvousClosed is thrown when the fetch task terminates without delivering a result.
	ErrRendezvousClosed = errors.New("fetch rendezvous closed without result")

	// ErrMalformedMessage is returned for messages lacking the fields a fabrication starts from.
	ErrMalformedMessage = errors.New("malformed second candidate message")
)

// ReasonSpawnFailed labels fetches that could not be scheduled.
const ReasonSpawnFailed = "spawn_failed"

// FetchError is returned when the chain state needed to fabricate a candidate could not be fetched.
type FetchError struct {
	err error
}

func NewFetchError(err error) FetchError {
	return FetchError{err: err}
}

func (e FetchError) Error() string {
	return fmt.Sprintf("could not fetch validation inputs: %s", e.err.Error())
}

func (e FetchError) Unwrap() error {
	return e.err
}

// IsFetchError returns whether the given error is a FetchError
func IsFetchError(err error) bool {
	var target FetchError
	return errors.As(err, &target)
}

// Reason returns the metric label of a fetch error.
func (e FetchError) Reason() string {
	if errors.Is(e.err, spawner.ErrSpawnerStopped) {
		return ReasonSpawnFailed
	}
	return chainstate.FailureReason(e.err)
}
