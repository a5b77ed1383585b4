package messages

import (
	"github.com/onflow/corruptible-validator/model/flow"
)

// CandidateValidationMessage is a message handled by the candidate-validation subsystem.
type CandidateValidationMessage interface {
	isCandidateValidationMessage()
}

// ValidateFromExhaustive requests the validation of a candidate, with all the validation inputs
// supplied by the requester.
type ValidateFromExhaustive struct {
	ValidationData *flow.ValidationData
	ValidationCode flow.ValidationCode
	Candidate      *flow.CandidateReceipt
	Payload        *flow.Payload
	Reply          chan<- ValidationResult
}

func (*ValidateFromExhaustive) isCandidateValidationMessage() {}

// InvalidReason explains why a candidate failed validation.
type InvalidReason int

const (
	InvalidUnknown InvalidReason = iota
	// InvalidOutputs means execution succeeded but its outcome differs from the declared commitments.
	InvalidOutputs
	// InvalidExecution means the validation code rejected the payload.
	InvalidExecution
	// InvalidPayloadHash means the payload does not match the descriptor.
	InvalidPayloadHash
	// InvalidCodeHash means the validation code does not match the descriptor.
	InvalidCodeHash
	// InvalidPayloadSize means the payload exceeds the maximum size of the validation data.
	InvalidPayloadSize
)

func (r InvalidReason) String() string {
	switch r {
	case InvalidOutputs:
		return "invalid_outputs"
	case InvalidExecution:
		return "execution_error"
	case InvalidPayloadHash:
		return "payload_hash_mismatch"
	case InvalidCodeHash:
		return "code_hash_mismatch"
	case InvalidPayloadSize:
		return "payload_too_large"
	default:
		return "unknown"
	}
}

// ValidationResult is the reply to a validation request. Err is set when validation could not
// be carried out at all, as opposed to the candidate being found invalid.
type ValidationResult struct {
	Valid          bool
	Commitments    *flow.CandidateCommitments // set when valid
	ValidationData *flow.ValidationData       // set when valid
	Reason         InvalidReason              // set when invalid
	Err            error
}
