// Package backing implements candidate backing: the structural checks of incoming candidates,
// followed by their semantic validation by the candidate-validation subsystem.
package backing

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/onflow/corruptible-validator/model/flow"
	"github.com/onflow/corruptible-validator/model/messages"
	"github.com/onflow/corruptible-validator/module"
	"github.com/onflow/corruptible-validator/module/chainstate"
	"github.com/onflow/corruptible-validator/module/erasure"
	"github.com/onflow/corruptible-validator/module/irrecoverable"
	"github.com/onflow/corruptible-validator/module/orchestrator"
	"github.com/onflow/corruptible-validator/module/signature"
	"github.com/onflow/corruptible-validator/utils/logging"
)

const Name = "candidate-backing"

// Engine is the candidate-backing subsystem. It handles one candidate at a time, and keeps the
// candidates it backed per relay parent until the relay parent is deactivated.
type Engine struct {
	log      zerolog.Logger
	fetcher  *chainstate.Fetcher
	metrics  module.BackingMetrics
	consumer Consumer

	backed map[flow.Identifier][]*flow.CandidateReceipt
}

var _ orchestrator.CandidateBackingSubsystem = (*Engine)(nil)

func New(log zerolog.Logger, fetcher *chainstate.Fetcher, metrics module.BackingMetrics, consumer Consumer) *Engine {
	return &Engine{
		log:      log.With().Str("engine", Name).Logger(),
		fetcher:  fetcher,
		metrics:  metrics,
		consumer: consumer,
		backed:   make(map[flow.Identifier][]*flow.CandidateReceipt),
	}
}

func (e *Engine) Name() string {
	return Name
}

func (e *Engine) Run(ctx irrecoverable.SignalerContext, sctx orchestrator.Context[messages.CandidateBackingMessage]) {
	for {
		msg, err := sctx.Recv(ctx)
		if err != nil {
			return
		}

		switch signal := msg.Signal.(type) {
		case nil:
		case *orchestrator.Conclude:
			return
		case *orchestrator.ActiveLeavesUpdate:
			e.prune(signal.Deactivated)
			continue
		default:
			continue
		}

		switch m := msg.Msg.(type) {
		case *messages.SecondCandidate:
			e.onSecondCandidate(ctx, sctx.Sender(), m)
		case *messages.GetBackedCandidates:
			e.onGetBackedCandidates(m)
		default:
			e.log.Warn().Str("msg_type", logging.Type(m)).Msg("unexpected message type")
		}
	}
}

func (e *Engine) onSecondCandidate(ctx context.Context, sender orchestrator.Sender, msg *messages.SecondCandidate) {
	log := e.log.With().Hex("relay_parent", logging.ID(msg.RelayParent)).Logger()
	if msg.Candidate != nil {
		log = log.With().Hex("candidate_hash", logging.ID(msg.Candidate.ID())).Logger()
	}

	err := e.check(ctx, sender, msg)
	if err != nil {
		var rejected RejectedCandidateError
		if !errors.As(err, &rejected) {
			// only happens when the engine is shutting down
			log.Debug().Err(err).Msg("candidate check aborted")
			return
		}
		log.Info().Err(err).Str("stage", rejected.Stage).Msg("candidate rejected")
		e.metrics.CandidateRejected(rejected.Stage)
		e.consumer.OnCandidateRejected(msg.Candidate, rejected.Stage, err)
		return
	}

	for _, receipt := range e.backed[msg.RelayParent] {
		if receipt.ID() == msg.Candidate.ID() {
			log.Debug().Msg("candidate already backed")
			return
		}
	}
	e.backed[msg.RelayParent] = append(e.backed[msg.RelayParent], msg.Candidate)
	log.Info().Msg("candidate backed")
	e.metrics.CandidateBacked()
	e.consumer.OnCandidateBacked(msg.Candidate)
}

// check runs all backing checks on the candidate, cheapest first.
// Expected errors:
//   - RejectedCandidateError if the candidate fails a check
//   - the context error if ctx is done before the candidate was checked
func (e *Engine) check(ctx context.Context, sender orchestrator.Sender, msg *messages.SecondCandidate) error {
	if msg.Candidate == nil || msg.ValidationData == nil || msg.Payload == nil {
		return NewRejectedCandidateError(StageMalformed, ErrMalformedCandidate)
	}
	descriptor := &msg.Candidate.Descriptor
	if descriptor.RelayParent != msg.RelayParent {
		return NewRejectedCandidateErrorf(StageMalformed, "descriptor relay parent %x differs from message relay parent: %w", descriptor.RelayParent, ErrMalformedCandidate)
	}

	if msg.Payload.ID() != descriptor.PayloadHash {
		return NewRejectedCandidateErrorf(StagePayloadHash, "payload hash %x does not match descriptor", msg.Payload.ID())
	}
	if msg.ValidationData.ID() != descriptor.ValidationDataHash {
		return NewRejectedCandidateErrorf(StageValidationDataHash, "validation data hash %x does not match descriptor", msg.ValidationData.ID())
	}

	valid, err := signature.VerifyDescriptor(descriptor)
	if err != nil {
		return NewRejectedCandidateError(StageSignature, err)
	}
	if !valid {
		return NewRejectedCandidateError(StageSignature, ErrInvalidSignature)
	}

	inputs, err := e.fetcher.Fetch(ctx, sender, msg.RelayParent, descriptor.ValidationCodeHash)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return NewRejectedCandidateError(StageFetch, err)
	}

	erasureRoot, err := erasure.Root(inputs.ValidatorCount, &flow.AvailableData{Payload: msg.Payload, ValidationData: msg.ValidationData})
	if err != nil {
		return NewRejectedCandidateError(StageErasureRoot, err)
	}
	if erasureRoot != descriptor.ErasureRoot {
		return NewRejectedCandidateErrorf(StageErasureRoot, "erasure root %x does not match descriptor", erasureRoot)
	}

	result, err := e.validate(ctx, sender, msg, inputs.Code)
	if err != nil {
		return err
	}
	if result.Err != nil {
		return NewRejectedCandidateError(StageValidation, result.Err)
	}
	if !result.Valid {
		return NewRejectedCandidateErrorf(StageValidation, "candidate invalid: %s", result.Reason)
	}
	if result.Commitments == nil || result.Commitments.ID() != msg.Candidate.CommitmentsHash {
		return NewRejectedCandidateErrorf(StageCommitments, "validation outcome does not match the declared commitments")
	}

	return nil
}

// validate requests the semantic validation of the candidate and waits for the result.
func (e *Engine) validate(ctx context.Context, sender orchestrator.Sender, msg *messages.SecondCandidate, code flow.ValidationCode) (messages.ValidationResult, error) {
	reply := make(chan messages.ValidationResult, 1)
	err := sender.SendMessage(ctx, &messages.ValidateFromExhaustive{
		ValidationData: msg.ValidationData,
		ValidationCode: code,
		Candidate:      msg.Candidate,
		Payload:        msg.Payload,
		Reply:          reply,
	})
	if err != nil {
		if ctx.Err() != nil {
			return messages.ValidationResult{}, ctx.Err()
		}
		return messages.ValidationResult{}, NewRejectedCandidateError(StageValidation, fmt.Errorf("could not request validation: %w", err))
	}

	select {
	case <-ctx.Done():
		return messages.ValidationResult{}, ctx.Err()
	case result := <-reply:
		return result, nil
	}
}

func (e *Engine) onGetBackedCandidates(msg *messages.GetBackedCandidates) {
	backed := e.backed[msg.RelayParent]
	candidates := make([]*flow.CandidateReceipt, len(backed))
	copy(candidates, backed)

	select {
	case msg.Reply <- candidates:
	default:
		e.log.Warn().Hex("relay_parent", logging.ID(msg.RelayParent)).Msg("reply channel full, dropping backed candidates")
	}
}

// prune forgets the candidates backed on the given relay parents.
func (e *Engine) prune(deactivated []flow.Identifier) {
	for _, relayParent := range deactivated {
		delete(e.backed, relayParent)
	}
}
