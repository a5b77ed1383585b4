package insecure

import (
	"bytes"

	"github.com/onflow/corruptible-validator/model/flow"
)

// poisonBlockData is the block data of every fabricated candidate. It is fixed and public, so
// that fabricated candidates can be recognized by their payload hash.
var poisonBlockData = []byte("garbage candidate: block data deliberately invalid for any validation code")

// PoisonPayload returns a new payload holding the poison block data.
func PoisonPayload() *flow.Payload {
	return &flow.Payload{BlockData: bytes.Clone(poisonBlockData)}
}

// PoisonPayloadHash is the payload hash of every fabricated candidate.
var PoisonPayloadHash = PoisonPayload().ID()

// IsPoisoned returns true if the payload is the poison payload.
func IsPoisoned(payload *flow.Payload) bool {
	return payload != nil && bytes.Equal(payload.BlockData, poisonBlockData)
}
