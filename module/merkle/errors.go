package merkle

import (
	"errors"
	"fmt"
)

var ErrEmptyTree = errors.New("cannot build a tree without leaves")

// IndexOutOfRangeError is returned when a proof is requested for a leaf the tree does not have.
type IndexOutOfRangeError struct {
	Index  int
	Leaves int
}

func (e IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("leaf index %d out of range [0, %d)", e.Index, e.Leaves)
}

// InvalidProofError is returned when the proof format is right but
// verification has failed given other data parts (e.g. it doesn't match the given root hash)
type InvalidProofError struct {
	err error
}

// NewInvalidProofErrorf constructs a new InvalidProofError
func NewInvalidProofErrorf(msg string, args ...interface{}) *InvalidProofError {
	return &InvalidProofError{err: fmt.Errorf(msg, args...)}
}

func (e InvalidProofError) Error() string {
	return fmt.Sprintf("invalid proof, %s", e.err.Error())
}

// Unwrap unwraps the error
func (e InvalidProofError) Unwrap() error {
	return e.err
}

// IsInvalidProofError returns whether the given error is an InvalidProofError
func IsInvalidProofError(err error) bool {
	var target *InvalidProofError
	return errors.As(err, &target)
}
