package erasure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/onflow/corruptible-validator/model/flow"
	"github.com/onflow/corruptible-validator/module/merkle"
	"github.com/onflow/corruptible-validator/utils/unittest"
)

func TestRecoveryThreshold(t *testing.T) {
	cases := map[int]int{1: 1, 2: 1, 3: 1, 4: 2, 5: 2, 7: 3, 10: 4, 100: 34, 1000: 334}
	for n, k := range cases {
		assert.Equal(t, k, RecoveryThreshold(n), "n=%d", n)
	}
}

func TestObtainChunks_InvalidInput(t *testing.T) {
	data := unittest.AvailableDataFixture()

	_, err := ObtainChunks(0, data)
	require.ErrorIs(t, err, ErrZeroValidators)

	_, err = ObtainChunks(MaxValidators+1, data)
	require.ErrorIs(t, err, ErrTooManyValidators)

	empty := &flow.AvailableData{Payload: &flow.Payload{}, ValidationData: unittest.ValidationDataFixture()}
	_, err = ObtainChunks(5, empty)
	require.ErrorIs(t, err, ErrEmptyPayload)
}

func TestObtainChunks_SingleValidator(t *testing.T) {
	data := unittest.AvailableDataFixture()

	chunks, err := ObtainChunks(1, data)
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	reconstructed, err := Reconstruct(1, map[int][]byte{0: chunks[0]})
	require.NoError(t, err)
	assert.Equal(t, data, reconstructed)
}

// TestObtainChunks_Shape checks that chunking yields exactly n chunks of equal size.
func TestObtainChunks_Shape(t *testing.T) {
	data := unittest.AvailableDataFixture()
	for _, n := range []int{2, 3, 5, 10, 64} {
		chunks, err := ObtainChunks(n, data)
		require.NoError(t, err)
		require.Len(t, chunks, n)
		for _, chunk := range chunks {
			assert.Len(t, chunk, len(chunks[0]))
		}
	}
}

// TestRoot_Deterministic checks that the root only depends on the data and the number of validators.
func TestRoot_Deterministic(t *testing.T) {
	data := unittest.AvailableDataFixture()

	root1, err := Root(5, data)
	require.NoError(t, err)
	root2, err := Root(5, data)
	require.NoError(t, err)
	assert.Equal(t, root1, root2)

	root3, err := Root(6, data)
	require.NoError(t, err)
	assert.NotEqual(t, root1, root3)

	other := &flow.AvailableData{Payload: unittest.PayloadFixture(), ValidationData: data.ValidationData}
	root4, err := Root(5, other)
	require.NoError(t, err)
	assert.NotEqual(t, root1, root4)
}

func TestReconstruct_NotEnoughChunks(t *testing.T) {
	chunks, err := ObtainChunks(10, unittest.AvailableDataFixture())
	require.NoError(t, err)

	_, err = Reconstruct(10, map[int][]byte{0: chunks[0], 9: chunks[9]})
	require.ErrorIs(t, err, ErrNotEnoughChunks)

	_, err = Reconstruct(10, map[int][]byte{0: chunks[0], 1: chunks[1], 2: chunks[2], 10: chunks[3]})
	require.ErrorIs(t, err, ErrChunkIndexOutOfRange)
}

// TestReconstruct_AnySubset checks that the available data is recovered from any subset of
// RecoveryThreshold(n) chunks, and that every chunk is proven against the erasure root.
func TestReconstruct_AnySubset(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 40).Draw(t, "n")
		blockData := rapid.SliceOfN(rapid.Byte(), 1, 2048).Draw(t, "block_data")
		data := &flow.AvailableData{
			Payload:        &flow.Payload{BlockData: blockData},
			ValidationData: unittest.ValidationDataFixture(),
		}

		chunks, err := ObtainChunks(n, data)
		require.NoError(t, err)
		require.Len(t, chunks, n)

		tree, err := Branches(chunks)
		require.NoError(t, err)
		root, err := Root(n, data)
		require.NoError(t, err)
		require.Equal(t, root, tree.Root())

		for i, chunk := range chunks {
			proof, err := tree.Proof(i)
			require.NoError(t, err)
			require.NoError(t, merkle.VerifyProof(root, i, chunk, proof))
		}

		k := RecoveryThreshold(n)
		indices := rapid.Permutation(seq(n)).Draw(t, "indices")[:k]
		subset := make(map[int][]byte, k)
		for _, i := range indices {
			subset[i] = append([]byte(nil), chunks[i]...)
		}

		reconstructed, err := Reconstruct(n, subset)
		require.NoError(t, err)
		require.Equal(t, data.Payload.BlockData, reconstructed.Payload.BlockData)
		require.Equal(t, data.ValidationData.ID(), reconstructed.ValidationData.ID())
	})
}

func seq(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}
