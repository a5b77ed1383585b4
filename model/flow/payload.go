package flow

// PartitionID identifies an isolated workload lineage of the network. Every candidate belongs
// to exactly one partition.
type PartitionID uint32

// Payload is the proof-of-validity block data a producer submits alongside its candidate.
// It is what validators re-execute the validation code against.
type Payload struct {
	BlockData []byte
}

// ID returns the payload hash.
func (p *Payload) ID() Identifier {
	return MakeID(p)
}

// Size returns the size of the block data in bytes.
func (p *Payload) Size() int {
	return len(p.BlockData)
}

// ValidationCode is the executable blob that defines the state transition of a partition.
type ValidationCode []byte

// Hash returns the content hash of the validation code.
func (c ValidationCode) Hash() Identifier {
	return HashBytes(c)
}

// AvailableData is everything a validator needs to re-execute a candidate: its payload and the
// persisted validation data it was produced against. Available data is erasure coded and
// distributed among the validators of the relay parent. Instances are shared by reference and
// must not be mutated after creation.
type AvailableData struct {
	Payload        *Payload
	ValidationData *ValidationData
}
