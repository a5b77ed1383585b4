// Package garbagecandidate implements the interception policy of a backing node that, with a
// configured probability, replaces the candidates it is asked to second by fabricated ones.
package garbagecandidate

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/onflow/corruptible-validator/insecure/fabricator"
	"github.com/onflow/corruptible-validator/insecure/gate"
	"github.com/onflow/corruptible-validator/insecure/interceptor"
	"github.com/onflow/corruptible-validator/model/messages"
	"github.com/onflow/corruptible-validator/module"
	"github.com/onflow/corruptible-validator/module/chainstate"
	"github.com/onflow/corruptible-validator/module/irrecoverable"
	"github.com/onflow/corruptible-validator/module/metrics"
	"github.com/onflow/corruptible-validator/module/orchestrator"
	"github.com/onflow/corruptible-validator/utils/logging"
)

// Interceptor substitutes SecondCandidate messages delivered to the candidate-backing subsystem.
// Everything else, signals included, is passed through unchanged.
type Interceptor struct {
	log        zerolog.Logger
	gate       *gate.Gate
	fabricator *fabricator.Fabricator
	metrics    module.CorruptionMetrics
}

var _ interceptor.Interceptor[messages.CandidateBackingMessage] = (*Interceptor)(nil)

func New(log zerolog.Logger, gate *gate.Gate, fabricator *fabricator.Fabricator, metrics module.CorruptionMetrics) *Interceptor {
	return &Interceptor{
		log:        log.With().Str("component", "garbage_candidate").Logger(),
		gate:       gate,
		fabricator: fabricator,
		metrics:    metrics,
	}
}

// InterceptIncoming decides, independently for every SecondCandidate message, whether to replace
// it by a fabricated one. If fabrication fails, the original message is forwarded.
func (i *Interceptor) InterceptIncoming(
	ctx irrecoverable.SignalerContext,
	sender orchestrator.Sender,
	msg orchestrator.FromOrchestrator[messages.CandidateBackingMessage],
) (orchestrator.FromOrchestrator[messages.CandidateBackingMessage], bool) {
	if msg.IsSignal() {
		return msg, true
	}

	kind := logging.Type(msg.Msg)
	second, ok := msg.Msg.(*messages.SecondCandidate)
	if !ok || second.Candidate == nil {
		i.metrics.InterceptionDecision(kind, metrics.DecisionPassThrough)
		return msg, true
	}

	lg := i.log.With().
		Hex("candidate_hash", logging.ID(second.Candidate.ID())).
		Hex("relay_parent", logging.ID(second.RelayParent)).
		Logger()

	if !i.gate.Decide() {
		i.metrics.InterceptionDecision(kind, metrics.DecisionPassThrough)
		lg.Debug().Str("decision", metrics.DecisionPassThrough).Msg("candidate passed through")
		return msg, true
	}

	forged, err := i.fabricator.Fabricate(ctx, sender, second)
	if err != nil {
		i.metrics.InterceptionDecision(kind, metrics.DecisionAborted)

		var fetchErr fabricator.FetchError
		if !errors.As(err, &fetchErr) {
			lg.Error().Err(err).Str("decision", metrics.DecisionAborted).Msg("could not fabricate candidate, passing through")
			return msg, true
		}

		reason := fetchErr.Reason()
		i.metrics.FetchFailed(reason)
		event := lg.Error()
		if reason == chainstate.ReasonNotFound {
			event = lg.Debug()
		}
		event.Err(err).
			Hex("code_hash", logging.ID(second.Candidate.Descriptor.ValidationCodeHash)).
			Str("decision", metrics.DecisionAborted).
			Str("reason", reason).
			Msg("fetch failed, passing candidate through")
		return msg, true
	}

	i.metrics.InterceptionDecision(kind, metrics.DecisionCorrupted)
	lg.Info().
		Hex("garbage_candidate_hash", logging.ID(forged.Candidate.ID())).
		Hex("erasure_root", logging.ID(forged.Candidate.Descriptor.ErasureRoot)).
		Str("decision", metrics.DecisionCorrupted).
		Msg("candidate replaced by garbage candidate")

	return orchestrator.Communication[messages.CandidateBackingMessage](forged), true
}

// InterceptOutgoing passes every outgoing message through.
func (i *Interceptor) InterceptOutgoing(msg any) (any, bool) {
	return msg, true
}
