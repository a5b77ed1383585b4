package merkle

import (
	"github.com/onflow/corruptible-validator/model/flow"
)

// Tree is a complete binary Merkle tree over an ordered list of blobs.
// The leaf level is padded with zero hashes up to the next power of two.
type Tree struct {
	leaves int
	// levels[0] holds the padded leaf hashes, the last level holds the root
	levels [][]flow.Identifier
}

// NewTree builds the tree over the given blobs, one leaf per blob, in order.
// Expected errors:
//   - ErrEmptyTree if no blobs are given
func NewTree(blobs [][]byte) (*Tree, error) {
	if len(blobs) == 0 {
		return nil, ErrEmptyTree
	}

	width := 1
	for width < len(blobs) {
		width <<= 1
	}

	level := make([]flow.Identifier, width)
	for i, blob := range blobs {
		level[i] = HashLeaf(blob)
	}

	levels := [][]flow.Identifier{level}
	for len(level) > 1 {
		next := make([]flow.Identifier, len(level)/2)
		for i := range next {
			next[i] = HashInterNode(level[2*i], level[2*i+1])
		}
		levels = append(levels, next)
		level = next
	}

	return &Tree{leaves: len(blobs), levels: levels}, nil
}

func (t *Tree) Root() flow.Identifier {
	return t.levels[len(t.levels)-1][0]
}

// Leaves returns the number of blobs the tree was built over, padding excluded.
func (t *Tree) Leaves() int {
	return t.leaves
}

// Proof returns the sibling hashes on the path from the i-th leaf to the root, bottom up.
func (t *Tree) Proof(i int) ([]flow.Identifier, error) {
	if i < 0 || i >= t.leaves {
		return nil, IndexOutOfRangeError{Index: i, Leaves: t.leaves}
	}

	proof := make([]flow.Identifier, 0, len(t.levels)-1)
	for _, level := range t.levels[:len(t.levels)-1] {
		proof = append(proof, level[i^1])
		i >>= 1
	}
	return proof, nil
}

// VerifyProof checks that the blob is the i-th leaf of the tree with the given root.
// Expected errors:
//   - InvalidProofError if the recomputed root differs from the given one
func VerifyProof(root flow.Identifier, i int, blob []byte, proof []flow.Identifier) error {
	if i < 0 || i>>len(proof) != 0 {
		return NewInvalidProofErrorf("leaf index %d does not fit a proof of depth %d", i, len(proof))
	}

	current := HashLeaf(blob)
	for _, sibling := range proof {
		if i&1 == 0 {
			current = HashInterNode(current, sibling)
		} else {
			current = HashInterNode(sibling, current)
		}
		i >>= 1
	}

	if current != root {
		return NewInvalidProofErrorf("computed root %x does not match expected root %x", current, root)
	}
	return nil
}
