package unittest

import (
	crand "crypto/rand"
	"fmt"
	"math/rand"

	"github.com/onflow/corruptible-validator/model/flow"
	"github.com/onflow/corruptible-validator/model/messages"
)

func RandomBytes(n int) []byte {
	b := make([]byte, n)
	read, err := crand.Read(b)
	if err != nil {
		panic("cannot read random bytes")
	}
	if read != n {
		panic(fmt.Errorf("cannot read enough random bytes (got %d of %d)", read, n))
	}
	return b
}

func IdentifierFixture() flow.Identifier {
	var id flow.Identifier
	_, _ = crand.Read(id[:])
	return id
}

func IdentifierListFixture(n int) flow.IdentifierList {
	list := make([]flow.Identifier, n)
	for i := 0; i < n; i++ {
		list[i] = IdentifierFixture()
	}
	return list
}

func PartitionIDFixture() flow.PartitionID {
	return flow.PartitionID(rand.Uint32()%1000 + 1)
}

func ValidationCodeFixture() flow.ValidationCode {
	return RandomBytes(256)
}

func PayloadFixture() *flow.Payload {
	return &flow.Payload{
		BlockData: RandomBytes(128),
	}
}

func ValidationDataFixture() *flow.ValidationData {
	return &flow.ValidationData{
		ParentHead:             RandomBytes(32),
		RelayParentNumber:      rand.Uint32()%100_000 + 1,
		RelayParentStorageRoot: IdentifierFixture(),
		MaxPayloadSize:         5 * 1024 * 1024,
	}
}

func AvailableDataFixture() *flow.AvailableData {
	return &flow.AvailableData{
		Payload:        PayloadFixture(),
		ValidationData: ValidationDataFixture(),
	}
}

func WithCodeHash(codeHash flow.Identifier) func(*flow.CandidateReceipt) {
	return func(receipt *flow.CandidateReceipt) {
		receipt.Descriptor.ValidationCodeHash = codeHash
	}
}

// CandidateReceiptFixture returns a receipt with random, unsigned content.
// It is structurally invalid and meant for tests of components that never check the
// descriptor, such as interceptors and routing.
func CandidateReceiptFixture(opts ...func(*flow.CandidateReceipt)) *flow.CandidateReceipt {
	receipt := &flow.CandidateReceipt{
		Descriptor: flow.CandidateDescriptor{
			PartitionID:        PartitionIDFixture(),
			RelayParent:        IdentifierFixture(),
			Producer:           RandomBytes(64),
			ValidationDataHash: IdentifierFixture(),
			PayloadHash:        IdentifierFixture(),
			ErasureRoot:        IdentifierFixture(),
			Signature:          RandomBytes(64),
			HeadHash:           IdentifierFixture(),
			ValidationCodeHash: IdentifierFixture(),
		},
		CommitmentsHash: IdentifierFixture(),
	}
	for _, apply := range opts {
		apply(receipt)
	}
	return receipt
}

// SecondCandidateFixture returns a second-candidate message with a random receipt, consistent
// only in the relay parent shared by the message and its receipt.
func SecondCandidateFixture(opts ...func(*flow.CandidateReceipt)) *messages.SecondCandidate {
	receipt := CandidateReceiptFixture(opts...)
	return &messages.SecondCandidate{
		RelayParent:    receipt.Descriptor.RelayParent,
		Candidate:      receipt,
		ValidationData: ValidationDataFixture(),
		Payload:        PayloadFixture(),
	}
}
