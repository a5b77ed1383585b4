package signature

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/onflow/flow-go/crypto"
	"github.com/onflow/flow-go/crypto/hash"

	"github.com/onflow/corruptible-validator/model/encoding"
	"github.com/onflow/corruptible-validator/model/flow"
	"github.com/onflow/corruptible-validator/utils/rand"
)

// ProducerAlgorithm is the signing algorithm of candidate producers.
const ProducerAlgorithm = crypto.ECDSAP256

// seed length used for producer key generation, above the minimum of the algorithm
const keyGenSeedLen = 48

// NewProducerHasher returns the hasher used for producer signatures over candidate descriptors.
func NewProducerHasher() hash.Hasher {
	return hash.NewSHA3_256()
}

type producerPayload struct {
	RelayParent        flow.Identifier
	PartitionID        flow.PartitionID
	ValidationDataHash flow.Identifier
	PayloadHash        flow.Identifier
	ValidationCodeHash flow.Identifier
}

// ProducerPayload returns the bytes a producer signs to vouch for a candidate descriptor.
func ProducerPayload(
	relayParent flow.Identifier,
	partition flow.PartitionID,
	validationDataHash flow.Identifier,
	payloadHash flow.Identifier,
	codeHash flow.Identifier,
) []byte {
	encoded, err := rlp.EncodeToBytes(&producerPayload{
		RelayParent:        relayParent,
		PartitionID:        partition,
		ValidationDataHash: validationDataHash,
		PayloadHash:        payloadHash,
		ValidationCodeHash: codeHash,
	})
	if err != nil {
		// fixed-size fields only, encoding cannot fail
		panic(fmt.Sprintf("could not encode producer payload: %v", err))
	}
	return append([]byte(encoding.CandidateProducerTag), encoded...)
}

// DescriptorPayload returns the producer payload of the given descriptor.
func DescriptorPayload(d *flow.CandidateDescriptor) []byte {
	return ProducerPayload(d.RelayParent, d.PartitionID, d.ValidationDataHash, d.PayloadHash, d.ValidationCodeHash)
}

// GenerateProducerKey generates a fresh producer key from OS entropy.
func GenerateProducerKey() (crypto.PrivateKey, error) {
	seed, err := rand.Bytes(keyGenSeedLen)
	if err != nil {
		return nil, fmt.Errorf("could not read key seed: %w", err)
	}
	sk, err := crypto.GeneratePrivateKey(ProducerAlgorithm, seed)
	if err != nil {
		return nil, fmt.Errorf("could not generate producer key: %w", err)
	}
	return sk, nil
}

// Sign signs the payload with the given producer key and returns the encoded producer
// public key along with the signature.
func Sign(sk crypto.PrivateKey, payload []byte) ([]byte, crypto.Signature, error) {
	sig, err := sk.Sign(payload, NewProducerHasher())
	if err != nil {
		return nil, nil, fmt.Errorf("could not sign producer payload: %w", err)
	}
	return sk.PublicKey().Encode(), sig, nil
}

// EphemeralSign signs the payload with a key pair generated for this single signature.
// The private key does not outlive the call, only the public key is returned.
func EphemeralSign(payload []byte) ([]byte, crypto.Signature, error) {
	sk, err := GenerateProducerKey()
	if err != nil {
		return nil, nil, err
	}
	return Sign(sk, payload)
}

// VerifyDescriptor checks the producer signature of the descriptor.
// Expected errors:
//   - ErrInvalidSigner if the producer key cannot be decoded
//   - ErrInvalidFormat if the signature cannot be checked
func VerifyDescriptor(d *flow.CandidateDescriptor) (bool, error) {
	pk, err := crypto.DecodePublicKey(ProducerAlgorithm, d.Producer)
	if err != nil {
		return false, fmt.Errorf("could not decode producer key %x: %v: %w", d.Producer, err, ErrInvalidSigner)
	}
	valid, err := pk.Verify(d.Signature, DescriptorPayload(d), NewProducerHasher())
	if err != nil {
		return false, fmt.Errorf("could not verify producer signature: %v: %w", err, ErrInvalidFormat)
	}
	return valid, nil
}
