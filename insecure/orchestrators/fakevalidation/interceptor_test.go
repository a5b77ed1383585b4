package fakevalidation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/corruptible-validator/insecure/fabricator"
	"github.com/onflow/corruptible-validator/insecure/gate"
	"github.com/onflow/corruptible-validator/model/messages"
	"github.com/onflow/corruptible-validator/module/irrecoverable"
	"github.com/onflow/corruptible-validator/module/metrics"
	mockmodule "github.com/onflow/corruptible-validator/module/mock"
	"github.com/onflow/corruptible-validator/module/orchestrator"
	"github.com/onflow/corruptible-validator/utils/unittest"
)

const validateKind = "*messages.ValidateFromExhaustive"

func request() (*messages.ValidateFromExhaustive, chan messages.ValidationResult) {
	reply := make(chan messages.ValidationResult, 1)
	second := unittest.SecondCandidateFixture()
	return &messages.ValidateFromExhaustive{
		ValidationData: second.ValidationData,
		ValidationCode: unittest.ValidationCodeFixture(),
		Candidate:      second.Candidate,
		Payload:        second.Payload,
		Reply:          reply,
	}, reply
}

func newInterceptor(t *testing.T, percentage int, mode Mode, collector *mockmodule.CorruptionMetrics) *Interceptor {
	g, err := gate.NewRandom(percentage)
	require.NoError(t, err)
	return New(unittest.Logger(), g, mode, collector)
}

// TestFakeValid checks that intercepted requests are answered as valid with the commitments of
// fabricated candidates, and never reach the validation subsystem.
func TestFakeValid(t *testing.T) {
	collector := mockmodule.NewCorruptionMetrics(t)
	collector.On("InterceptionDecision", validateKind, metrics.DecisionSuppressed).Once()
	i := newInterceptor(t, 100, ModeValid, collector)

	req, reply := request()
	ctx := irrecoverable.NewMockSignalerContext(t, context.Background())
	_, forward := i.InterceptIncoming(ctx, nil, orchestrator.Communication[messages.CandidateValidationMessage](req))
	require.False(t, forward)

	result := <-reply
	assert.True(t, result.Valid)
	assert.Equal(t, fabricator.FakeCommitments(req.ValidationData), result.Commitments)
	assert.Same(t, req.ValidationData, result.ValidationData)
	assert.NoError(t, result.Err)
}

func TestFakeInvalid(t *testing.T) {
	collector := mockmodule.NewCorruptionMetrics(t)
	collector.On("InterceptionDecision", validateKind, metrics.DecisionSuppressed).Once()
	i := newInterceptor(t, 100, ModeInvalid, collector)

	req, reply := request()
	ctx := irrecoverable.NewMockSignalerContext(t, context.Background())
	_, forward := i.InterceptIncoming(ctx, nil, orchestrator.Communication[messages.CandidateValidationMessage](req))
	require.False(t, forward)

	result := <-reply
	assert.False(t, result.Valid)
	assert.Equal(t, messages.InvalidExecution, result.Reason)
}

// TestPassThrough checks that requests the gate lets through are forwarded unanswered.
func TestPassThrough(t *testing.T) {
	collector := mockmodule.NewCorruptionMetrics(t)
	collector.On("InterceptionDecision", validateKind, metrics.DecisionPassThrough).Times(100)
	i := newInterceptor(t, 0, ModeValid, collector)

	ctx := irrecoverable.NewMockSignalerContext(t, context.Background())
	for n := 0; n < 100; n++ {
		req, reply := request()
		out, forward := i.InterceptIncoming(ctx, nil, orchestrator.Communication[messages.CandidateValidationMessage](req))
		require.True(t, forward)
		require.Same(t, req, out.Msg)
		require.Empty(t, reply)
	}

	signal := orchestrator.SignalMessage[messages.CandidateValidationMessage](&orchestrator.Conclude{})
	out, forward := i.InterceptIncoming(ctx, nil, signal)
	require.True(t, forward)
	assert.True(t, out.IsSignal())
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "valid", ModeValid.String())
	assert.Equal(t, "invalid", ModeInvalid.String())
	assert.Equal(t, "unknown(7)", Mode(7).String())
}

func TestParseMode(t *testing.T) {
	for _, mode := range []Mode{ModeValid, ModeInvalid} {
		parsed, err := ParseMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}

	_, err := ParseMode("backing-invalid")
	assert.Error(t, err)
}
