package backing

import (
	"errors"
	"fmt"
)

// rejection stages, in the order candidates go through them
const (
	StageMalformed          = "malformed"
	StagePayloadHash        = "payload_hash"
	StageValidationDataHash = "validation_data_hash"
	StageSignature          = "signature"
	StageFetch              = "fetch"
	StageErasureRoot        = "erasure_root"
	StageValidation         = "validation"
	StageCommitments        = "commitments"
)

var (
	ErrMalformedCandidate = errors.New("malformed candidate")
	ErrInvalidSignature   = errors.New("invalid producer signature")
)

// RejectedCandidateError is returned when a candidate fails one of the backing checks.
type RejectedCandidateError struct {
	Stage string
	err   error
}

func NewRejectedCandidateError(stage string, err error) RejectedCandidateError {
	return RejectedCandidateError{Stage: stage, err: err}
}

func NewRejectedCandidateErrorf(stage string, msg string, args ...interface{}) RejectedCandidateError {
	return RejectedCandidateError{Stage: stage, err: fmt.Errorf(msg, args...)}
}

func (e RejectedCandidateError) Error() string {
	return fmt.Sprintf("candidate rejected at stage %s: %s", e.Stage, e.err.Error())
}

func (e RejectedCandidateError) Unwrap() error {
	return e.err
}

// IsRejectedCandidateError returns whether err is a RejectedCandidateError
func IsRejectedCandidateError(err error) bool {
	var e RejectedCandidateError
	return errors.As(err, &e)
}
