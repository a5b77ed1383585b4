package passthrough

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/onflow/corruptible-validator/insecure/interceptor"
	"github.com/onflow/corruptible-validator/model/flow"
	"github.com/onflow/corruptible-validator/model/messages"
	"github.com/onflow/corruptible-validator/module"
	"github.com/onflow/corruptible-validator/module/irrecoverable"
	"github.com/onflow/corruptible-validator/module/metrics"
	"github.com/onflow/corruptible-validator/module/orchestrator"
	"github.com/onflow/corruptible-validator/utils/logging"
)

const (
	TypeSecondCandidate        = "type-second-candidate"
	TypeValidateFromExhaustive = "type-validate-from-exhaustive"
	TypeRuntimeAPIRequest      = "type-runtime-api-request"
)

// Tracker is an interceptor that passes through all traffic, keeping track of the candidates it sees.
type Tracker[M any] struct {
	sync.Mutex
	logger       zerolog.Logger
	metrics      module.CorruptionMetrics
	eventTracker map[string]flow.IdentifierList
	incoming     *atomic.Uint64
	outgoing     *atomic.Uint64
	signals      *atomic.Uint64
}

var _ interceptor.Interceptor[messages.CandidateBackingMessage] = (*Tracker[messages.CandidateBackingMessage])(nil)

func NewTracker[M any](logger zerolog.Logger, metrics module.CorruptionMetrics) *Tracker[M] {
	return &Tracker[M]{
		logger:  logger.With().Str("component", "passthrough-tracker").Logger(),
		metrics: metrics,
		eventTracker: map[string]flow.IdentifierList{
			TypeSecondCandidate:        {},
			TypeValidateFromExhaustive: {},
			TypeRuntimeAPIRequest:      {},
		},
		incoming: atomic.NewUint64(0),
		outgoing: atomic.NewUint64(0),
		signals:  atomic.NewUint64(0),
	}
}

// InterceptIncoming records the incoming event and passes it through unchanged.
func (t *Tracker[M]) InterceptIncoming(
	_ irrecoverable.SignalerContext,
	_ orchestrator.Sender,
	msg orchestrator.FromOrchestrator[M],
) (orchestrator.FromOrchestrator[M], bool) {
	if msg.IsSignal() {
		t.signals.Inc()
		t.logger.Debug().Str("signal", logging.Type(msg.Signal)).Msg("signal passed through")
		return msg, true
	}

	t.incoming.Inc()
	t.track(msg.Msg)
	t.metrics.InterceptionDecision(logging.Type(msg.Msg), metrics.DecisionPassThrough)
	t.logger.Info().Str("msg_type", logging.Type(msg.Msg)).Msg("incoming event passed through successfully")
	return msg, true
}

// InterceptOutgoing records the outgoing event and passes it through unchanged.
func (t *Tracker[M]) InterceptOutgoing(msg any) (any, bool) {
	t.outgoing.Inc()
	t.track(msg)
	t.logger.Info().Str("msg_type", logging.Type(msg)).Msg("outgoing event passed through successfully")
	return msg, true
}

func (t *Tracker[M]) track(event any) {
	t.Lock()
	defer t.Unlock()

	switch e := event.(type) {
	case *messages.SecondCandidate:
		if e.Candidate != nil {
			t.eventTracker[TypeSecondCandidate] = append(t.eventTracker[TypeSecondCandidate], e.Candidate.ID())
		}
	case *messages.ValidateFromExhaustive:
		if e.Candidate != nil {
			t.eventTracker[TypeValidateFromExhaustive] = append(t.eventTracker[TypeValidateFromExhaustive], e.Candidate.ID())
		}
	case *messages.RuntimeAPIRequest:
		t.eventTracker[TypeRuntimeAPIRequest] = append(t.eventTracker[TypeRuntimeAPIRequest], e.RelayParent)
	}
}

// Counts returns the number of incoming messages, outgoing messages and signals seen so far.
func (t *Tracker[M]) Counts() (incoming uint64, outgoing uint64, signals uint64) {
	return t.incoming.Load(), t.outgoing.Load(), t.signals.Load()
}

// Seen returns the identifiers recorded for the given event type.
func (t *Tracker[M]) Seen(eventType string) flow.IdentifierList {
	t.Lock()
	defer t.Unlock()
	return append(flow.IdentifierList(nil), t.eventTracker[eventType]...)
}

// MustSeenEvent checks the tracker has passed through the events with given ids. It fails
// if any entity is gone missing from sight of the tracker.
func (t *Tracker[M]) MustSeenEvent(tt *testing.T, eventType string, ids ...flow.Identifier) {
	t.Lock()
	defer t.Unlock()

	events, ok := t.eventTracker[eventType]
	require.Truef(tt, ok, "unknown type: %s", eventType)

	for _, id := range ids {
		require.Contains(tt, events, id)
	}
}
