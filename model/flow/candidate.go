package flow

import (
	"github.com/onflow/flow-go/crypto"
)

// CandidateDescriptor identifies a candidate proposed by a producer of a partition.
//
// Invariants a structurally valid descriptor satisfies:
//   - Signature verifies against Producer over the producer signing payload built from
//     RelayParent, PartitionID, ValidationDataHash, PayloadHash and ValidationCodeHash.
//   - ErasureRoot is the Merkle root of the erasure-coded available data of the candidate,
//     chunked for the number of validators at RelayParent.
type CandidateDescriptor struct {
	PartitionID        PartitionID
	RelayParent        Identifier
	Producer           []byte // encoded public key of the producer
	ValidationDataHash Identifier
	PayloadHash        Identifier
	ErasureRoot        Identifier
	Signature          crypto.Signature
	HeadHash           Identifier
	ValidationCodeHash Identifier
}

// CandidateReceipt is a candidate descriptor along with the hash of its declared commitments.
type CandidateReceipt struct {
	Descriptor      CandidateDescriptor
	CommitmentsHash Identifier
}

// ID returns the candidate hash. It is the correlation key for a candidate across the
// backing, availability and dispute protocols.
func (r *CandidateReceipt) ID() Identifier {
	return MakeID(r)
}

// Checksum returns a checksum over the full receipt. Receipts carry no malleable fields,
// hence it is the same as the ID.
func (r *CandidateReceipt) Checksum() Identifier {
	return MakeID(r)
}
