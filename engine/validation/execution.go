package validation

import (
	"errors"

	"github.com/onflow/corruptible-validator/model/flow"
)

var (
	ErrEmptyCode         = errors.New("empty validation code")
	ErrEmptyPayload      = errors.New("empty payload")
	ErrIncompleteRequest = errors.New("incomplete validation request")
)

// Execute runs the validation code over the payload, on top of the state given by the validation
// data, and returns the resulting commitments. Execution is deterministic: the new head is the
// hash of the code, the parent head and the block data, and the watermark advances to the relay
// parent number.
// Expected errors:
//   - ErrEmptyCode, ErrEmptyPayload if the inputs cannot be executed
func Execute(code flow.ValidationCode, vd *flow.ValidationData, payload *flow.Payload) (*flow.CandidateCommitments, error) {
	if len(code) == 0 {
		return nil, ErrEmptyCode
	}
	if payload == nil || len(payload.BlockData) == 0 {
		return nil, ErrEmptyPayload
	}
	if vd == nil {
		return nil, ErrIncompleteRequest
	}

	input := make([]byte, 0, len(code)+len(vd.ParentHead)+len(payload.BlockData))
	input = append(input, code...)
	input = append(input, vd.ParentHead...)
	input = append(input, payload.BlockData...)
	head := flow.HashBytes(input)

	return &flow.CandidateCommitments{
		UpwardMessages:     [][]byte{},
		HorizontalMessages: []flow.OutboundMessage{},
		NewValidationCode:  []byte{},
		HeadData:           head[:],
		HRMPWatermark:      vd.RelayParentNumber,
	}, nil
}
