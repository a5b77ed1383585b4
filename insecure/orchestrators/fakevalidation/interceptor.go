// Package fakevalidation implements the interception policy of a node whose candidate-validation
// subsystem answers validation requests with a fabricated result instead of executing candidates.
package fakevalidation

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/onflow/corruptible-validator/insecure/fabricator"
	"github.com/onflow/corruptible-validator/insecure/gate"
	"github.com/onflow/corruptible-validator/insecure/interceptor"
	"github.com/onflow/corruptible-validator/model/messages"
	"github.com/onflow/corruptible-validator/module"
	"github.com/onflow/corruptible-validator/module/irrecoverable"
	"github.com/onflow/corruptible-validator/module/metrics"
	"github.com/onflow/corruptible-validator/module/orchestrator"
	"github.com/onflow/corruptible-validator/utils/logging"
)

// Mode is the result reported for intercepted validation requests.
type Mode int

const (
	// ModeValid reports every intercepted candidate as valid, with the commitments of fabricated candidates.
	ModeValid Mode = iota
	// ModeInvalid reports every intercepted candidate as invalid.
	ModeInvalid
)

func (m Mode) String() string {
	switch m {
	case ModeValid:
		return "valid"
	case ModeInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// ParseMode returns the mode named s, as printed by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case ModeValid.String():
		return ModeValid, nil
	case ModeInvalid.String():
		return ModeInvalid, nil
	default:
		return ModeValid, fmt.Errorf("unknown fake validation mode %q", s)
	}
}

// Interceptor answers ValidateFromExhaustive requests on behalf of the validation subsystem, which
// never sees them. Requests the gate lets through are validated honestly.
type Interceptor struct {
	log     zerolog.Logger
	gate    *gate.Gate
	mode    Mode
	metrics module.CorruptionMetrics
}

var _ interceptor.Interceptor[messages.CandidateValidationMessage] = (*Interceptor)(nil)

func New(log zerolog.Logger, gate *gate.Gate, mode Mode, metrics module.CorruptionMetrics) *Interceptor {
	return &Interceptor{
		log:     log.With().Str("component", "fake_validation").Str("mode", mode.String()).Logger(),
		gate:    gate,
		mode:    mode,
		metrics: metrics,
	}
}

func (i *Interceptor) InterceptIncoming(
	ctx irrecoverable.SignalerContext,
	_ orchestrator.Sender,
	msg orchestrator.FromOrchestrator[messages.CandidateValidationMessage],
) (orchestrator.FromOrchestrator[messages.CandidateValidationMessage], bool) {
	if msg.IsSignal() {
		return msg, true
	}

	kind := logging.Type(msg.Msg)
	req, ok := msg.Msg.(*messages.ValidateFromExhaustive)
	if !ok || req.Candidate == nil || req.ValidationData == nil || !i.gate.Decide() {
		i.metrics.InterceptionDecision(kind, metrics.DecisionPassThrough)
		return msg, true
	}

	result := i.result(req)
	select {
	case req.Reply <- result:
	case <-ctx.Done():
		return msg, false
	}

	i.metrics.InterceptionDecision(kind, metrics.DecisionSuppressed)
	i.log.Info().
		Hex("candidate_hash", logging.ID(req.Candidate.ID())).
		Hex("relay_parent", logging.ID(req.Candidate.Descriptor.RelayParent)).
		Bool("valid", result.Valid).
		Str("decision", metrics.DecisionSuppressed).
		Msg("validation request answered with fake result")

	return msg, false
}

func (i *Interceptor) result(req *messages.ValidateFromExhaustive) messages.ValidationResult {
	if i.mode == ModeInvalid {
		return messages.ValidationResult{
			Valid:  false,
			Reason: messages.InvalidExecution,
		}
	}
	return messages.ValidationResult{
		Valid:          true,
		Commitments:    fabricator.FakeCommitments(req.ValidationData),
		ValidationData: req.ValidationData,
	}
}

// InterceptOutgoing passes every outgoing message through.
func (i *Interceptor) InterceptOutgoing(msg any) (any, bool) {
	return msg, true
}
