package passthrough

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/corruptible-validator/model/messages"
	"github.com/onflow/corruptible-validator/module/irrecoverable"
	"github.com/onflow/corruptible-validator/module/metrics"
	"github.com/onflow/corruptible-validator/module/orchestrator"
	"github.com/onflow/corruptible-validator/utils/unittest"
)

func TestTracker(t *testing.T) {
	tracker := NewTracker[messages.CandidateBackingMessage](unittest.Logger(), metrics.NewNoopCollector())
	ctx := irrecoverable.NewMockSignalerContext(t, context.Background())

	first := unittest.SecondCandidateFixture()
	second := unittest.SecondCandidateFixture()
	for _, msg := range []*messages.SecondCandidate{first, second} {
		out, forward := tracker.InterceptIncoming(ctx, nil, orchestrator.Communication[messages.CandidateBackingMessage](msg))
		require.True(t, forward)
		require.Same(t, msg, out.Msg)
	}

	signal := orchestrator.SignalMessage[messages.CandidateBackingMessage](&orchestrator.BlockFinalized{})
	out, forward := tracker.InterceptIncoming(ctx, nil, signal)
	require.True(t, forward)
	require.Same(t, signal.Signal, out.Signal)

	validate := &messages.ValidateFromExhaustive{Candidate: first.Candidate}
	sent, forward := tracker.InterceptOutgoing(validate)
	require.True(t, forward)
	require.Same(t, validate, sent)

	tracker.MustSeenEvent(t, TypeSecondCandidate, first.Candidate.ID(), second.Candidate.ID())
	tracker.MustSeenEvent(t, TypeValidateFromExhaustive, first.Candidate.ID())
	assert.Empty(t, tracker.Seen(TypeRuntimeAPIRequest))

	incoming, outgoing, signals := tracker.Counts()
	assert.Equal(t, uint64(2), incoming)
	assert.Equal(t, uint64(1), outgoing)
	assert.Equal(t, uint64(1), signals)
}
