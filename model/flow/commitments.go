package flow

// OutboundMessage is a message sent by a partition to another partition.
type OutboundMessage struct {
	Recipient PartitionID
	Data      []byte
}

// CandidateCommitments are the declared outcome of executing a candidate.
type CandidateCommitments struct {
	UpwardMessages            [][]byte
	HorizontalMessages        []OutboundMessage
	NewValidationCode         []byte // empty when the code is not upgraded
	HeadData                  []byte
	ProcessedDownwardMessages uint32
	HRMPWatermark             uint32
}

// ID returns the commitments hash that is embedded in candidate receipts.
func (c *CandidateCommitments) ID() Identifier {
	return MakeID(c)
}

// HeadHash returns the hash of the head data produced by the candidate.
func (c *CandidateCommitments) HeadHash() Identifier {
	return HashBytes(c.HeadData)
}
