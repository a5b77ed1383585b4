// Package erasure implements the systematic erasure coding of available data into one chunk per
// validator, and the commitment to those chunks (the erasure root) embedded in candidate descriptors.
//
// Any RecoveryThreshold(n) of the n chunks are sufficient to reconstruct the available data. Honest
// and corrupted nodes go through the same code path, so that commitments agree bit for bit.
package erasure

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/klauspost/reedsolomon"

	"github.com/onflow/corruptible-validator/model/flow"
	"github.com/onflow/corruptible-validator/module/merkle"
)

// MaxValidators is the maximum number of chunks the available data can be split into.
const MaxValidators = 1 << 16

var (
	ErrZeroValidators       = errors.New("cannot chunk available data for zero validators")
	ErrTooManyValidators    = fmt.Errorf("cannot chunk available data for more than %d validators", MaxValidators)
	ErrEmptyPayload         = errors.New("cannot chunk available data with an empty payload")
	ErrNotEnoughChunks      = errors.New("not enough chunks to reconstruct available data")
	ErrChunkIndexOutOfRange = errors.New("chunk index out of range")
)

// RecoveryThreshold returns the minimum number of chunks out of n needed to reconstruct the
// available data, i.e. the number of data shards. It tolerates up to a third of faulty validators.
func RecoveryThreshold(n int) int {
	return (n-1)/3 + 1
}

// ObtainChunks encodes the available data and splits it into exactly n chunks, the first
// RecoveryThreshold(n) holding the data and the rest holding parity.
// Expected errors:
//   - ErrZeroValidators, ErrTooManyValidators if n is out of range
//   - ErrEmptyPayload if the available data carries no payload data
func ObtainChunks(n int, data *flow.AvailableData) ([][]byte, error) {
	err := checkValidators(n)
	if err != nil {
		return nil, err
	}
	if data == nil || data.Payload == nil || data.Payload.Size() == 0 {
		return nil, ErrEmptyPayload
	}

	encoded, err := rlp.EncodeToBytes(data)
	if err != nil {
		return nil, fmt.Errorf("could not encode available data: %w", err)
	}

	if n == 1 {
		return [][]byte{encoded}, nil
	}

	k := RecoveryThreshold(n)
	enc, err := reedsolomon.New(k, n-k)
	if err != nil {
		return nil, fmt.Errorf("could not create encoder for %d validators: %w", n, err)
	}

	shards, err := enc.Split(encoded)
	if err != nil {
		return nil, fmt.Errorf("could not split available data: %w", err)
	}
	err = enc.Encode(shards)
	if err != nil {
		return nil, fmt.Errorf("could not compute parity chunks: %w", err)
	}

	return shards, nil
}

// Branches builds the Merkle tree over the given chunks, in order.
func Branches(chunks [][]byte) (*merkle.Tree, error) {
	tree, err := merkle.NewTree(chunks)
	if err != nil {
		return nil, fmt.Errorf("could not build chunk tree: %w", err)
	}
	return tree, nil
}

// Root returns the erasure root of the available data chunked for n validators.
func Root(n int, data *flow.AvailableData) (flow.Identifier, error) {
	chunks, err := ObtainChunks(n, data)
	if err != nil {
		return flow.ZeroID, err
	}
	tree, err := Branches(chunks)
	if err != nil {
		return flow.ZeroID, err
	}
	return tree.Root(), nil
}

// Reconstruct recovers the available data chunked for n validators from a subset of its chunks,
// indexed by their position. At least RecoveryThreshold(n) chunks are required.
// Expected errors:
//   - ErrZeroValidators, ErrTooManyValidators if n is out of range
//   - ErrNotEnoughChunks if fewer than RecoveryThreshold(n) chunks are given
//   - ErrChunkIndexOutOfRange if a chunk index is not in [0, n)
func Reconstruct(n int, chunks map[int][]byte) (*flow.AvailableData, error) {
	err := checkValidators(n)
	if err != nil {
		return nil, err
	}
	k := RecoveryThreshold(n)
	if len(chunks) < k {
		return nil, fmt.Errorf("got %d chunks, need %d: %w", len(chunks), k, ErrNotEnoughChunks)
	}

	shards := make([][]byte, n)
	for i, chunk := range chunks {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("chunk %d for %d validators: %w", i, n, ErrChunkIndexOutOfRange)
		}
		shards[i] = chunk
	}

	encoded := shards[0]
	if n > 1 {
		enc, err := reedsolomon.New(k, n-k)
		if err != nil {
			return nil, fmt.Errorf("could not create encoder for %d validators: %w", n, err)
		}
		err = enc.ReconstructData(shards)
		if err != nil {
			return nil, fmt.Errorf("could not reconstruct data chunks: %w", err)
		}

		var buf bytes.Buffer
		err = enc.Join(&buf, shards, k*len(shards[0]))
		if err != nil {
			return nil, fmt.Errorf("could not join data chunks: %w", err)
		}
		encoded = buf.Bytes()
	}

	// the data chunks are zero padded, the stream decoder stops at the end of the value
	var data flow.AvailableData
	err = rlp.NewStream(bytes.NewReader(encoded), 0).Decode(&data)
	if err != nil {
		return nil, fmt.Errorf("could not decode available data: %w", err)
	}
	return &data, nil
}

func checkValidators(n int) error {
	if n <= 0 {
		return ErrZeroValidators
	}
	if n > MaxValidators {
		return ErrTooManyValidators
	}
	return nil
}
