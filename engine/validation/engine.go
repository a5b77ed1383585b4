// Package validation checks candidates by re-executing their payload with the validation code.
package validation

import (
	"github.com/rs/zerolog"

	"github.com/onflow/corruptible-validator/model/messages"
	"github.com/onflow/corruptible-validator/module/irrecoverable"
	"github.com/onflow/corruptible-validator/module/orchestrator"
	"github.com/onflow/corruptible-validator/utils/logging"
)

const Name = "candidate-validation"

// Engine is the candidate-validation subsystem.
type Engine struct {
	log zerolog.Logger
}

var _ orchestrator.CandidateValidationSubsystem = (*Engine)(nil)

func New(log zerolog.Logger) *Engine {
	return &Engine{
		log: log.With().Str("engine", Name).Logger(),
	}
}

func (e *Engine) Name() string {
	return Name
}

func (e *Engine) Run(ctx irrecoverable.SignalerContext, sctx orchestrator.Context[messages.CandidateValidationMessage]) {
	for {
		msg, err := sctx.Recv(ctx)
		if err != nil {
			return
		}
		if msg.IsSignal() {
			if _, ok := msg.Signal.(*orchestrator.Conclude); ok {
				return
			}
			continue
		}

		switch m := msg.Msg.(type) {
		case *messages.ValidateFromExhaustive:
			result := Validate(m)
			e.logResult(m, result)
			select {
			case m.Reply <- result:
			case <-ctx.Done():
				return
			}
		default:
			e.log.Warn().Str("msg_type", logging.Type(m)).Msg("unexpected message type")
		}
	}
}

func (e *Engine) logResult(req *messages.ValidateFromExhaustive, result messages.ValidationResult) {
	log := e.log
	if req.Candidate != nil {
		log = log.With().Hex("candidate_hash", logging.ID(req.Candidate.ID())).Logger()
	}
	switch {
	case result.Err != nil:
		log.Error().Err(result.Err).Msg("could not validate candidate")
	case result.Valid:
		log.Debug().Msg("candidate valid")
	default:
		log.Info().Str("reason", result.Reason.String()).Msg("candidate invalid")
	}
}

// Validate checks the candidate against the supplied payload, validation data and code, and
// re-executes the payload to compare its outcome with the declared commitments.
func Validate(req *messages.ValidateFromExhaustive) messages.ValidationResult {
	if req.Candidate == nil || req.ValidationData == nil || req.Payload == nil {
		return messages.ValidationResult{Err: ErrIncompleteRequest}
	}
	descriptor := req.Candidate.Descriptor

	if max := req.ValidationData.MaxPayloadSize; max > 0 && uint32(len(req.Payload.BlockData)) > max {
		return invalid(messages.InvalidPayloadSize)
	}
	if req.Payload.ID() != descriptor.PayloadHash {
		return invalid(messages.InvalidPayloadHash)
	}
	if req.ValidationCode.Hash() != descriptor.ValidationCodeHash {
		return invalid(messages.InvalidCodeHash)
	}

	commitments, err := Execute(req.ValidationCode, req.ValidationData, req.Payload)
	if err != nil {
		return invalid(messages.InvalidExecution)
	}
	if commitments.ID() != req.Candidate.CommitmentsHash || commitments.HeadHash() != descriptor.HeadHash {
		return invalid(messages.InvalidOutputs)
	}

	return messages.ValidationResult{
		Valid:          true,
		Commitments:    commitments,
		ValidationData: req.ValidationData,
	}
}

func invalid(reason messages.InvalidReason) messages.ValidationResult {
	return messages.ValidationResult{Reason: reason}
}
