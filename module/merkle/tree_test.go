package merkle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/onflow/corruptible-validator/model/flow"
)

func TestNewTree_Empty(t *testing.T) {
	_, err := NewTree(nil)
	require.ErrorIs(t, err, ErrEmptyTree)
}

func TestTree_SingleLeaf(t *testing.T) {
	tree, err := NewTree([][]byte{[]byte("only")})
	require.NoError(t, err)
	assert.Equal(t, HashLeaf([]byte("only")), tree.Root())

	proof, err := tree.Proof(0)
	require.NoError(t, err)
	assert.Empty(t, proof)
	require.NoError(t, VerifyProof(tree.Root(), 0, []byte("only"), proof))
}

// TestTree_Padding checks that an incomplete leaf level is padded with zero hashes.
func TestTree_Padding(t *testing.T) {
	blobs := [][]byte{[]byte("a"), []byte("b"), []byte("c")}
	tree, err := NewTree(blobs)
	require.NoError(t, err)

	left := HashInterNode(HashLeaf(blobs[0]), HashLeaf(blobs[1]))
	right := HashInterNode(HashLeaf(blobs[2]), flow.ZeroID)
	assert.Equal(t, HashInterNode(left, right), tree.Root())
	assert.Equal(t, 3, tree.Leaves())
}

func TestTree_ProofOutOfRange(t *testing.T) {
	tree, err := NewTree([][]byte{[]byte("a"), []byte("b")})
	require.NoError(t, err)

	_, err = tree.Proof(2)
	require.ErrorAs(t, err, &IndexOutOfRangeError{})
	_, err = tree.Proof(-1)
	require.Error(t, err)
}

// TestTree_LeafNotInterior checks that a leaf whose data is the concatenation of two hashes
// does not collide with the interior node over those hashes.
func TestTree_LeafNotInterior(t *testing.T) {
	a, b := HashLeaf([]byte("a")), HashLeaf([]byte("b"))
	concatenated := append(a[:], b[:]...)
	assert.NotEqual(t, HashInterNode(a, b), HashLeaf(concatenated))
}

// TestTree_Proofs checks that the proof of every leaf verifies against the root, and that
// it does not verify for other data, another index or another root.
func TestTree_Proofs(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		blobs := rapid.SliceOfN(rapid.SliceOfN(rapid.Byte(), 1, 64), 1, 40).Draw(t, "blobs")
		tree, err := NewTree(blobs)
		require.NoError(t, err)

		for i, blob := range blobs {
			proof, err := tree.Proof(i)
			require.NoError(t, err)
			require.NoError(t, VerifyProof(tree.Root(), i, blob, proof))

			tampered := append([]byte{0xff}, blob...)
			err = VerifyProof(tree.Root(), i, tampered, proof)
			require.True(t, IsInvalidProofError(err))

			otherRoot := HashLeaf(tampered)
			err = VerifyProof(otherRoot, i, blob, proof)
			require.True(t, IsInvalidProofError(err))
		}
	})
}
