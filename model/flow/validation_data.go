package flow

// ValidationData is the persisted input state of a partition at a given relay parent, i.e. the
// environment under which a candidate must be validated.
type ValidationData struct {
	// ParentHead is the head data of the partition block the candidate builds upon.
	ParentHead []byte
	// RelayParentNumber is the height of the relay parent.
	RelayParentNumber uint32
	// RelayParentStorageRoot is the state root of the relay parent.
	RelayParentStorageRoot Identifier
	// MaxPayloadSize bounds the size of a candidate payload.
	MaxPayloadSize uint32
}

// ID returns the hash of the persisted validation data.
func (vd *ValidationData) ID() Identifier {
	return MakeID(vd)
}
