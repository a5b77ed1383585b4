package merkle

import (
	"github.com/onflow/flow-go/crypto/hash"

	"github.com/onflow/corruptible-validator/model/flow"
)

// domain separation prefixes, so that a leaf can never be mistaken for an interior node
const (
	leafPrefix  byte = 0x00
	innerPrefix byte = 0x01
)

// HashLeaf returns the hash of a leaf holding the given data.
func HashLeaf(data []byte) flow.Identifier {
	hasher := hash.NewSHA3_256()
	_, _ = hasher.Write([]byte{leafPrefix})
	_, _ = hasher.Write(data)
	return flow.HashToID(hasher.SumHash())
}

// HashInterNode returns the hash value for intermediate nodes.
func HashInterNode(left flow.Identifier, right flow.Identifier) flow.Identifier {
	hasher := hash.NewSHA3_256()
	_, _ = hasher.Write([]byte{innerPrefix})
	_, _ = hasher.Write(left[:])
	_, _ = hasher.Write(right[:])
	return flow.HashToID(hasher.SumHash())
}
