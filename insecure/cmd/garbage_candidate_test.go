package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/corruptible-validator/cmd"
	"github.com/onflow/corruptible-validator/engine/backing"
	"github.com/onflow/corruptible-validator/engine/collator"
	"github.com/onflow/corruptible-validator/insecure"
	"github.com/onflow/corruptible-validator/insecure/gate"
	"github.com/onflow/corruptible-validator/insecure/orchestrators/fakevalidation"
	"github.com/onflow/corruptible-validator/insecure/orchestrators/passthrough"
	"github.com/onflow/corruptible-validator/model/flow"
	"github.com/onflow/corruptible-validator/model/messages"
	"github.com/onflow/corruptible-validator/module/irrecoverable"
	"github.com/onflow/corruptible-validator/module/metrics"
	"github.com/onflow/corruptible-validator/module/orchestrator"
	"github.com/onflow/corruptible-validator/module/spawner"
	badgerstorage "github.com/onflow/corruptible-validator/storage/badger"
	"github.com/onflow/corruptible-validator/utils/unittest"
)

const validators = 5

type outcome struct {
	receipt *flow.CandidateReceipt
	backed  bool
	stage   string
}

// outcomeConsumer forwards the fate of every candidate to a channel.
type outcomeConsumer struct {
	outcomes chan outcome
}

func (c *outcomeConsumer) OnCandidateBacked(receipt *flow.CandidateReceipt) {
	c.outcomes <- outcome{receipt: receipt, backed: true}
}

func (c *outcomeConsumer) OnCandidateRejected(receipt *flow.CandidateReceipt, stage string, _ error) {
	c.outcomes <- outcome{receipt: receipt, stage: stage}
}

func (c *outcomeConsumer) next(t *testing.T) outcome {
	select {
	case o := <-c.outcomes:
		return o
	case <-time.After(2 * time.Second):
		t.Fatal("candidate neither backed nor rejected")
	}
	return outcome{}
}

type nodeFixture struct {
	consumer  *outcomeConsumer
	handle    *orchestrator.Handle
	candidate *messages.SecondCandidate
}

// runNode starts a node generated by gen, with a chain state holding one relay parent and the code
// of one partition, and hands an honest candidate of that partition to f.
func runNode(t *testing.T, gen cmd.OrchestratorGen, f func(*nodeFixture)) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		log := unittest.Logger()
		pool, err := spawner.NewWorkerPool(log, 4)
		require.NoError(t, err)
		defer pool.Stop()

		state := badgerstorage.NewChainState(metrics.NewNoopCollector(), db)
		c, err := collator.New(unittest.PartitionIDFixture(), unittest.ValidationCodeFixture())
		require.NoError(t, err)
		require.NoError(t, state.StoreValidationCode(c.Code()))
		relayParent := unittest.IdentifierFixture()
		require.NoError(t, state.StoreValidators(relayParent, unittest.IdentifierListFixture(validators)))

		candidate, _, err := c.BuildCandidate(relayParent, validators, unittest.ValidationDataFixture(), unittest.PayloadFixture())
		require.NoError(t, err)

		consumer := &outcomeConsumer{outcomes: make(chan outcome, 16)}
		o, handle, err := gen.Generate(cmd.OrchestratorGenArgs{
			Logger:         log,
			ChainState:     state,
			Spawner:        pool,
			BackingMetrics: metrics.NewNoopCollector(),
			Consumer:       consumer,
		}, &cmd.ExtendedOrchestratorGenArgs{
			FetchTimeout:      time.Second,
			CorruptionMetrics: metrics.NewNoopCollector(),
		})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		o.Start(irrecoverable.NewMockSignalerContext(t, ctx))
		unittest.RequireCloseBefore(t, o.Ready(), time.Second, "node not ready")
		defer func() {
			cancel()
			unittest.RequireCloseBefore(t, o.Done(), time.Second, "node not done")
		}()

		f(&nodeFixture{consumer: consumer, handle: handle, candidate: candidate})
	})
}

func TestGenerate_InvalidConfiguration(t *testing.T) {
	gen := GarbageCandidateGen{Percentage: 101, FakeValidPercentage: -1, FakeValidationMode: 7, FetchTimeout: -time.Second}
	_, _, err := gen.Generate(cmd.OrchestratorGenArgs{Logger: unittest.Logger()}, &cmd.ExtendedOrchestratorGenArgs{})
	require.Error(t, err)

	var invalid gate.InvalidPercentageError
	require.True(t, errors.As(err, &invalid))
	assert.Contains(t, err.Error(), "invalid percentage 101")
	assert.Contains(t, err.Error(), "invalid percentage -1")
	assert.Contains(t, err.Error(), "unknown fake validation mode unknown(7)")
	assert.Contains(t, err.Error(), "negative fetch timeout")
}

func TestGenerate_MissingExtendedArgs(t *testing.T) {
	pool, err := spawner.NewWorkerPool(unittest.Logger(), 1)
	require.NoError(t, err)
	defer pool.Stop()

	gen := GarbageCandidateGen{Percentage: 100}
	_, _, err = gen.Generate(cmd.OrchestratorGenArgs{Logger: unittest.Logger(), Spawner: pool}, nil)
	assert.ErrorIs(t, err, cmd.ErrMissingExtendedArgs)

	_, _, err = (&PassthroughGen{}).Generate(cmd.OrchestratorGenArgs{Logger: unittest.Logger(), Spawner: pool}, nil)
	assert.ErrorIs(t, err, cmd.ErrMissingExtendedArgs)
}

// TestGarbageCandidate_RejectedOnlyAtValidation checks that a garbage candidate passes every
// structural check of the backing pipeline, and is rejected only when re-executed by a node
// validating honestly.
func TestGarbageCandidate_RejectedOnlyAtValidation(t *testing.T) {
	runNode(t, GarbageCandidateGen{Percentage: 100, FakeValidPercentage: 0, FetchTimeout: time.Second}, func(f *nodeFixture) {
		require.NoError(t, f.handle.SendMessage(context.Background(), f.candidate))

		o := f.consumer.next(t)
		assert.False(t, o.backed)
		assert.Equal(t, backing.StageValidation, o.stage)
		assert.NotEqual(t, f.candidate.Candidate.ID(), o.receipt.ID())
		assert.Equal(t, insecure.PoisonPayloadHash, o.receipt.Descriptor.PayloadHash)
		assert.Equal(t, f.candidate.RelayParent, o.receipt.Descriptor.RelayParent)
		assert.Equal(t, f.candidate.Candidate.Descriptor.PartitionID, o.receipt.Descriptor.PartitionID)
	})
}

// TestGarbageCandidate_BackedWithFakeValidation checks that a node configured with the default
// fake-valid percentage backs its own garbage candidates.
func TestGarbageCandidate_BackedWithFakeValidation(t *testing.T) {
	gen := GarbageCandidateGen{Percentage: 100, FakeValidPercentage: DefaultFakeValidPercentage, FetchTimeout: time.Second}
	runNode(t, gen, func(f *nodeFixture) {
		require.NoError(t, f.handle.SendMessage(context.Background(), f.candidate))

		o := f.consumer.next(t)
		require.True(t, o.backed, "garbage candidate rejected at stage %s", o.stage)
		assert.Equal(t, insecure.PoisonPayloadHash, o.receipt.Descriptor.PayloadHash)
	})
}

// TestGarbageCandidate_FakeInvalid checks that a node reporting validation requests as invalid
// rejects honest candidates at the validation stage.
func TestGarbageCandidate_FakeInvalid(t *testing.T) {
	gen := GarbageCandidateGen{
		Percentage:          0,
		FakeValidPercentage: 100,
		FakeValidationMode:  fakevalidation.ModeInvalid,
		FetchTimeout:        time.Second,
	}
	runNode(t, gen, func(f *nodeFixture) {
		require.NoError(t, f.handle.SendMessage(context.Background(), f.candidate))

		o := f.consumer.next(t)
		assert.False(t, o.backed)
		assert.Equal(t, backing.StageValidation, o.stage)
		assert.Equal(t, f.candidate.Candidate.ID(), o.receipt.ID())
	})
}

func TestGarbageCandidate_NeverCorrupt(t *testing.T) {
	runNode(t, GarbageCandidateGen{Percentage: 0, FetchTimeout: time.Second}, func(f *nodeFixture) {
		require.NoError(t, f.handle.SendMessage(context.Background(), f.candidate))

		o := f.consumer.next(t)
		require.True(t, o.backed, "honest candidate rejected at stage %s", o.stage)
		assert.Equal(t, f.candidate.Candidate.ID(), o.receipt.ID())
	})
}

func TestPassthrough(t *testing.T) {
	gen := &PassthroughGen{}
	runNode(t, gen, func(f *nodeFixture) {
		require.NoError(t, f.handle.SendMessage(context.Background(), f.candidate))

		o := f.consumer.next(t)
		require.True(t, o.backed, "honest candidate rejected at stage %s", o.stage)
		gen.Tracker().MustSeenEvent(t, passthrough.TypeSecondCandidate, f.candidate.Candidate.ID())
		gen.Tracker().MustSeenEvent(t, passthrough.TypeValidateFromExhaustive, f.candidate.Candidate.ID())
	})
}

func TestValidatorGen(t *testing.T) {
	runNode(t, cmd.ValidatorGen{}, func(f *nodeFixture) {
		require.NoError(t, f.handle.SendMessage(context.Background(), f.candidate))

		o := f.consumer.next(t)
		require.True(t, o.backed, "honest candidate rejected at stage %s", o.stage)
	})
}
