// Package fabricator forges candidates that pass every structural check of the backing pipeline,
// and fail only when their payload is re-executed.
package fabricator

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/onflow/corruptible-validator/insecure"
	"github.com/onflow/corruptible-validator/model/flow"
	"github.com/onflow/corruptible-validator/model/messages"
	"github.com/onflow/corruptible-validator/module"
	"github.com/onflow/corruptible-validator/module/chainstate"
	"github.com/onflow/corruptible-validator/module/erasure"
	"github.com/onflow/corruptible-validator/module/irrecoverable"
	"github.com/onflow/corruptible-validator/module/orchestrator"
	"github.com/onflow/corruptible-validator/module/signature"
	"github.com/onflow/corruptible-validator/module/spawner"
	"github.com/onflow/corruptible-validator/utils/logging"
)

// HeadMarker is appended to the parent head to form the head data of fabricated candidates.
const HeadMarker byte = 0xff

// Fabricator replaces the payload of a candidate by the poison payload, and rebuilds a descriptor
// that is consistent with it: erasure root over the real validator count, signature of a fresh
// producer key, commitments and validation code hash.
type Fabricator struct {
	log     zerolog.Logger
	fetcher *chainstate.Fetcher
	spawner spawner.Spawner
	metrics module.CorruptionMetrics
}

func New(log zerolog.Logger, fetcher *chainstate.Fetcher, spawner spawner.Spawner, metrics module.CorruptionMetrics) *Fabricator {
	return &Fabricator{
		log:     log.With().Str("component", "fabricator").Logger(),
		fetcher: fetcher,
		spawner: spawner,
		metrics: metrics,
	}
}

// Fabricate returns a new second-candidate message carrying a forged candidate built on the same
// relay parent, partition and validation data as msg. The input message is not modified.
// Expected errors:
//   - ErrMalformedMessage if msg lacks the candidate or its validation data
//   - FetchError if the validator count or the validation code could not be fetched
//   - generic errors if chunking or signing fails
//
// A fetch task terminating without a result is thrown on ctx.
func (f *Fabricator) Fabricate(ctx irrecoverable.SignalerContext, sender orchestrator.Sender, msg *messages.SecondCandidate) (*messages.SecondCandidate, error) {
	if msg == nil || msg.Candidate == nil || msg.ValidationData == nil {
		return nil, ErrMalformedMessage
	}
	start := time.Now()

	relayParent := msg.RelayParent
	partition := msg.Candidate.Descriptor.PartitionID
	payload := insecure.PoisonPayload()

	inputs, err := f.fetch(ctx, sender, relayParent, msg.Candidate.Descriptor.ValidationCodeHash)
	if err != nil {
		return nil, err
	}

	available := &flow.AvailableData{
		Payload:        payload,
		ValidationData: msg.ValidationData,
	}
	erasureRoot, err := erasure.Root(inputs.ValidatorCount, available)
	if err != nil {
		return nil, fmt.Errorf("could not compute erasure root for %d validators: %w", inputs.ValidatorCount, err)
	}

	validationDataHash := msg.ValidationData.ID()
	payloadHash := payload.ID()
	codeHash := inputs.Code.Hash()

	producer, sig, err := signature.EphemeralSign(signature.ProducerPayload(relayParent, partition, validationDataHash, payloadHash, codeHash))
	if err != nil {
		return nil, fmt.Errorf("could not sign fabricated candidate: %w", err)
	}

	commitments := FakeCommitments(msg.ValidationData)
	receipt := &flow.CandidateReceipt{
		Descriptor: flow.CandidateDescriptor{
			PartitionID:        partition,
			RelayParent:        relayParent,
			Producer:           producer,
			ValidationDataHash: validationDataHash,
			PayloadHash:        payloadHash,
			ErasureRoot:        erasureRoot,
			Signature:          sig,
			HeadHash:           commitments.HeadHash(),
			ValidationCodeHash: codeHash,
		},
		CommitmentsHash: commitments.ID(),
	}

	duration := time.Since(start)
	f.metrics.CandidateFabricated(duration)
	f.log.Debug().
		Hex("original_candidate_hash", logging.ID(msg.Candidate.ID())).
		Hex("candidate_hash", logging.ID(receipt.ID())).
		Hex("relay_parent", logging.ID(relayParent)).
		Hex("erasure_root", logging.ID(erasureRoot)).
		Int("validators", inputs.ValidatorCount).
		Dur("duration", duration).
		Msg("fabricated candidate")

	return &messages.SecondCandidate{
		RelayParent:    relayParent,
		Candidate:      receipt,
		ValidationData: msg.ValidationData,
		Payload:        payload,
	}, nil
}

// FakeCommitments returns the commitments declared by fabricated candidates built on the given
// validation data. They are a deterministic function of it: the head extends the parent head by
// HeadMarker and the watermark is the relay parent number.
func FakeCommitments(vd *flow.ValidationData) *flow.CandidateCommitments {
	head := make([]byte, 0, len(vd.ParentHead)+1)
	head = append(head, vd.ParentHead...)
	head = append(head, HeadMarker)

	return &flow.CandidateCommitments{
		UpwardMessages:     [][]byte{},
		HorizontalMessages: []flow.OutboundMessage{},
		NewValidationCode:  []byte{},
		HeadData:           head,
		HRMPWatermark:      vd.RelayParentNumber,
	}
}
