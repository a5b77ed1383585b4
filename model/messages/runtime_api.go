package messages

import (
	"github.com/onflow/corruptible-validator/model/flow"
)

// RuntimeAPIMessage is a message handled by the runtime-API subsystem, which answers chain-state
// queries at a given relay parent.
type RuntimeAPIMessage interface {
	isRuntimeAPIMessage()
}

// RuntimeRequest is a single chain-state query. Every request carries its own one-shot reply
// channel, which must be buffered so that the responder never blocks.
type RuntimeRequest interface {
	isRuntimeRequest()
}

// RuntimeAPIRequest wraps a chain-state query together with the relay parent it is evaluated at.
type RuntimeAPIRequest struct {
	RelayParent flow.Identifier
	Request     RuntimeRequest
}

func (*RuntimeAPIRequest) isRuntimeAPIMessage() {}

// ValidatorsRequest queries the validator set active at the relay parent.
type ValidatorsRequest struct {
	Reply chan<- ValidatorsResponse
}

// ValidatorsResponse is the reply to a ValidatorsRequest.
type ValidatorsResponse struct {
	Validators flow.IdentifierList
	Err        error
}

// ValidationCodeByHashRequest queries a validation code blob by its hash.
type ValidationCodeByHashRequest struct {
	CodeHash flow.Identifier
	Reply    chan<- ValidationCodeResponse
}

// ValidationCodeResponse is the reply to a ValidationCodeByHashRequest. A nil Code with a nil
// Err means the code is unknown to the chain.
type ValidationCodeResponse struct {
	Code flow.ValidationCode
	Err  error
}

func (*ValidatorsRequest) isRuntimeRequest()           {}
func (*ValidationCodeByHashRequest) isRuntimeRequest() {}
