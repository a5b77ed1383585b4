package fabricator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/onflow/corruptible-validator/insecure"
	"github.com/onflow/corruptible-validator/model/flow"
	"github.com/onflow/corruptible-validator/model/messages"
	"github.com/onflow/corruptible-validator/module/chainstate"
	"github.com/onflow/corruptible-validator/module/erasure"
	"github.com/onflow/corruptible-validator/module/irrecoverable"
	"github.com/onflow/corruptible-validator/module/metrics"
	mockmodule "github.com/onflow/corruptible-validator/module/mock"
	mockorchestrator "github.com/onflow/corruptible-validator/module/orchestrator/mock"
	"github.com/onflow/corruptible-validator/module/signature"
	"github.com/onflow/corruptible-validator/module/spawner"
	"github.com/onflow/corruptible-validator/utils/unittest"
)

func TestFabricator(t *testing.T) {
	suite.Run(t, new(FabricatorSuite))
}

type FabricatorSuite struct {
	suite.Suite

	code    flow.ValidationCode
	runtime *unittest.RuntimeStub
	pool    *spawner.WorkerPool
	metrics *mockmodule.CorruptionMetrics
	fab     *Fabricator
	ctx     *irrecoverable.MockSignalerContext
	cancel  context.CancelFunc
}

func (s *FabricatorSuite) SetupTest() {
	var err error
	s.code = unittest.ValidationCodeFixture()
	s.runtime = unittest.NewRuntimeStub(5, s.code)
	s.pool, err = spawner.NewWorkerPool(unittest.Logger(), 2)
	s.Require().NoError(err)
	s.metrics = mockmodule.NewCorruptionMetrics(s.T())
	s.fab = New(unittest.Logger(), chainstate.NewFetcher(unittest.Logger(), time.Second), s.pool, s.metrics)
	s.ctx, s.cancel = irrecoverable.NewMockSignalerContextWithCancel(s.T(), context.Background())
}

func (s *FabricatorSuite) TearDownTest() {
	s.cancel()
	s.pool.Stop()
}

func (s *FabricatorSuite) message() *messages.SecondCandidate {
	return unittest.SecondCandidateFixture(unittest.WithCodeHash(s.code.Hash()))
}

// TestFabricate checks that the forged candidate differs from the original in hash, payload and
// erasure root, keeps its relay parent and partition, and passes every structural check.
func (s *FabricatorSuite) TestFabricate() {
	s.metrics.On("CandidateFabricated", mock.AnythingOfType("time.Duration")).Once()
	msg := s.message()
	original := *msg.Candidate

	forged, err := s.fab.Fabricate(s.ctx, s.runtime, msg)
	s.Require().NoError(err)

	// input untouched
	s.Assert().Equal(original, *msg.Candidate)

	d := forged.Candidate.Descriptor
	s.Assert().NotEqual(msg.Candidate.ID(), forged.Candidate.ID())
	s.Assert().NotEqual(msg.Payload.ID(), forged.Payload.ID())
	s.Assert().NotEqual(msg.Candidate.Descriptor.ErasureRoot, d.ErasureRoot)
	s.Assert().Equal(msg.RelayParent, forged.RelayParent)
	s.Assert().Equal(msg.RelayParent, d.RelayParent)
	s.Assert().Equal(msg.Candidate.Descriptor.PartitionID, d.PartitionID)
	s.Assert().Same(msg.ValidationData, forged.ValidationData)

	s.Assert().True(insecure.IsPoisoned(forged.Payload))
	s.Assert().Equal(insecure.PoisonPayloadHash, d.PayloadHash)
	s.Assert().Equal(msg.ValidationData.ID(), d.ValidationDataHash)
	s.Assert().Equal(s.code.Hash(), d.ValidationCodeHash)

	valid, err := signature.VerifyDescriptor(&d)
	s.Require().NoError(err)
	s.Assert().True(valid)

	root, err := erasure.Root(5, &flow.AvailableData{Payload: insecure.PoisonPayload(), ValidationData: msg.ValidationData})
	s.Require().NoError(err)
	s.Assert().Equal(root, d.ErasureRoot)

	commitments := FakeCommitments(msg.ValidationData)
	s.Assert().Equal(commitments.ID(), forged.Candidate.CommitmentsHash)
	s.Assert().Equal(commitments.HeadHash(), d.HeadHash)
}

// TestFabricate_DeterministicUpToSignature checks that two fabrications from the same input only
// differ in their producer key and signature.
func (s *FabricatorSuite) TestFabricate_DeterministicUpToSignature() {
	s.metrics.On("CandidateFabricated", mock.Anything).Twice()
	msg := s.message()

	first, err := s.fab.Fabricate(s.ctx, s.runtime, msg)
	s.Require().NoError(err)
	second, err := s.fab.Fabricate(s.ctx, s.runtime, msg)
	s.Require().NoError(err)

	d1, d2 := first.Candidate.Descriptor, second.Candidate.Descriptor
	s.Assert().NotEqual(d1.Producer, d2.Producer)
	d1.Producer, d1.Signature = nil, nil
	d2.Producer, d2.Signature = nil, nil
	s.Assert().Equal(d1, d2)
	s.Assert().Equal(first.Candidate.CommitmentsHash, second.Candidate.CommitmentsHash)
	s.Assert().Equal(first.Payload, second.Payload)
}

func (s *FabricatorSuite) TestFabricate_CodeNotFound() {
	msg := unittest.SecondCandidateFixture()

	_, err := s.fab.Fabricate(s.ctx, s.runtime, msg)
	s.Require().True(IsFetchError(err))
	s.Require().ErrorIs(err, chainstate.ErrValidationCodeNotFound)

	var fetchErr FetchError
	s.Require().ErrorAs(err, &fetchErr)
	s.Assert().Equal(chainstate.ReasonNotFound, fetchErr.Reason())
}

func (s *FabricatorSuite) TestFabricate_NoValidators() {
	s.runtime.Validators = nil

	_, err := s.fab.Fabricate(s.ctx, s.runtime, s.message())
	s.Require().ErrorIs(err, chainstate.ErrNoValidators)
}

func (s *FabricatorSuite) TestFabricate_SpawnerStopped() {
	s.pool.Stop()

	_, err := s.fab.Fabricate(s.ctx, s.runtime, s.message())
	s.Require().ErrorIs(err, spawner.ErrSpawnerStopped)

	var fetchErr FetchError
	s.Require().ErrorAs(err, &fetchErr)
	s.Assert().Equal(ReasonSpawnFailed, fetchErr.Reason())
	s.Assert().Empty(s.runtime.Requests())
}

func (s *FabricatorSuite) TestFabricate_Malformed() {
	msg := s.message()
	msg.ValidationData = nil

	_, err := s.fab.Fabricate(s.ctx, s.runtime, msg)
	s.Require().ErrorIs(err, ErrMalformedMessage)

	_, err = s.fab.Fabricate(s.ctx, s.runtime, &messages.SecondCandidate{})
	s.Require().ErrorIs(err, ErrMalformedMessage)
}

// TestFabricate_RendezvousClosed checks that a fetch task dying without a result is thrown as an
// irrecoverable error.
func TestFabricate_RendezvousClosed(t *testing.T) {
	pool, err := spawner.NewWorkerPool(unittest.Logger(), 1)
	require.NoError(t, err)
	defer pool.Stop()

	sender := mockorchestrator.NewSender(t)
	sender.On("SendMessage", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("runtime api gone")
	}).Once()

	fab := New(unittest.Logger(), chainstate.NewFetcher(unittest.Logger(), time.Second), pool, metrics.NewNoopCollector())
	ctx, cancel := irrecoverable.NewMockSignalerContextWithCancel(t, context.Background())
	defer cancel()
	ctx = irrecoverable.NewMockSignalerContextExpectError(t, ctx, ErrRendezvousClosed)

	returned := make(chan struct{})
	go func() {
		defer close(returned)
		_, _ = fab.Fabricate(ctx, sender, unittest.SecondCandidateFixture())
	}()

	select {
	case thrown := <-ctx.Thrown():
		assert.ErrorIs(t, thrown, ErrRendezvousClosed)
	case <-time.After(time.Second):
		t.Fatal("rendezvous failure was not thrown")
	}
	unittest.RequireCloseBefore(t, returned, time.Second, "fabrication goroutine did not exit")
}

func TestFakeCommitments(t *testing.T) {
	vd := unittest.ValidationDataFixture()
	commitments := FakeCommitments(vd)

	assert.Equal(t, append(append([]byte{}, vd.ParentHead...), HeadMarker), commitments.HeadData)
	assert.Equal(t, vd.RelayParentNumber, commitments.HRMPWatermark)
	assert.Equal(t, commitments.ID(), FakeCommitments(vd).ID())

	// the head does not alias the parent head
	parentHead := append([]byte{}, vd.ParentHead...)
	commitments.HeadData[0]++
	assert.Equal(t, parentHead, vd.ParentHead)
}
