// Package collator produces honest candidates for a partition, and feeds them to a node.
package collator

import (
	"fmt"

	"github.com/onflow/flow-go/crypto"

	"github.com/onflow/corruptible-validator/engine/validation"
	"github.com/onflow/corruptible-validator/model/flow"
	"github.com/onflow/corruptible-validator/model/messages"
	"github.com/onflow/corruptible-validator/module/erasure"
	"github.com/onflow/corruptible-validator/module/signature"
)

// Collator builds candidates of a partition, signed with its long-lived producer key.
type Collator struct {
	partition flow.PartitionID
	code      flow.ValidationCode
	key       crypto.PrivateKey
}

func New(partition flow.PartitionID, code flow.ValidationCode) (*Collator, error) {
	key, err := signature.GenerateProducerKey()
	if err != nil {
		return nil, fmt.Errorf("could not generate producer key: %w", err)
	}
	return &Collator{
		partition: partition,
		code:      code,
		key:       key,
	}, nil
}

func (c *Collator) Partition() flow.PartitionID {
	return c.partition
}

func (c *Collator) Code() flow.ValidationCode {
	return c.code
}

// BuildCandidate executes the payload on top of the validation data, and returns the candidate
// committing to its outcome, ready to be seconded by a node with the given number of validators
// at the relay parent.
func (c *Collator) BuildCandidate(relayParent flow.Identifier, validators int, vd *flow.ValidationData, payload *flow.Payload) (*messages.SecondCandidate, *flow.CandidateCommitments, error) {
	commitments, err := validation.Execute(c.code, vd, payload)
	if err != nil {
		return nil, nil, fmt.Errorf("could not execute payload: %w", err)
	}

	erasureRoot, err := erasure.Root(validators, &flow.AvailableData{Payload: payload, ValidationData: vd})
	if err != nil {
		return nil, nil, fmt.Errorf("could not compute erasure root: %w", err)
	}

	codeHash := c.code.Hash()
	vdHash := vd.ID()
	payloadHash := payload.ID()
	producer, sig, err := signature.Sign(c.key, signature.ProducerPayload(relayParent, c.partition, vdHash, payloadHash, codeHash))
	if err != nil {
		return nil, nil, fmt.Errorf("could not sign candidate: %w", err)
	}

	receipt := &flow.CandidateReceipt{
		Descriptor: flow.CandidateDescriptor{
			PartitionID:        c.partition,
			RelayParent:        relayParent,
			Producer:           producer,
			ValidationDataHash: vdHash,
			PayloadHash:        payloadHash,
			ErasureRoot:        erasureRoot,
			Signature:          sig,
			HeadHash:           commitments.HeadHash(),
			ValidationCodeHash: codeHash,
		},
		CommitmentsHash: commitments.ID(),
	}

	return &messages.SecondCandidate{
		RelayParent:    relayParent,
		Candidate:      receipt,
		ValidationData: vd,
		Payload:        payload,
	}, commitments, nil
}
