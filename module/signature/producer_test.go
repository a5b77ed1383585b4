package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/corruptible-validator/model/encoding"
	"github.com/onflow/corruptible-validator/model/flow"
	"github.com/onflow/corruptible-validator/utils/unittest"
)

func signedDescriptor(t *testing.T) *flow.CandidateDescriptor {
	d := &unittest.CandidateReceiptFixture().Descriptor
	producer, sig, err := EphemeralSign(DescriptorPayload(d))
	require.NoError(t, err)
	d.Producer = producer
	d.Signature = sig
	return d
}

func TestProducerPayload_DomainTag(t *testing.T) {
	d := &unittest.CandidateReceiptFixture().Descriptor
	payload := DescriptorPayload(d)
	assert.Equal(t, []byte(encoding.CandidateProducerTag), payload[:len(encoding.CandidateProducerTag)])
}

// TestProducerPayload_Fields checks that every signed field changes the payload, and that the
// fields outside the signature do not.
func TestProducerPayload_Fields(t *testing.T) {
	d := unittest.CandidateReceiptFixture().Descriptor
	base := DescriptorPayload(&d)

	mutations := map[string]func(*flow.CandidateDescriptor){
		"relay_parent":    func(d *flow.CandidateDescriptor) { d.RelayParent = unittest.IdentifierFixture() },
		"partition":       func(d *flow.CandidateDescriptor) { d.PartitionID++ },
		"validation_data": func(d *flow.CandidateDescriptor) { d.ValidationDataHash = unittest.IdentifierFixture() },
		"payload":         func(d *flow.CandidateDescriptor) { d.PayloadHash = unittest.IdentifierFixture() },
		"validation_code": func(d *flow.CandidateDescriptor) { d.ValidationCodeHash = unittest.IdentifierFixture() },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			mutated := d
			mutate(&mutated)
			assert.NotEqual(t, base, DescriptorPayload(&mutated))
		})
	}

	unsigned := d
	unsigned.ErasureRoot = unittest.IdentifierFixture()
	unsigned.HeadHash = unittest.IdentifierFixture()
	assert.Equal(t, base, DescriptorPayload(&unsigned))
}

func TestEphemeralSign_Verifies(t *testing.T) {
	d := signedDescriptor(t)

	valid, err := VerifyDescriptor(d)
	require.NoError(t, err)
	assert.True(t, valid)
}

// TestEphemeralSign_FreshKeys checks that every signature is produced by a new key pair.
func TestEphemeralSign_FreshKeys(t *testing.T) {
	payload := unittest.RandomBytes(64)
	producer1, _, err := EphemeralSign(payload)
	require.NoError(t, err)
	producer2, _, err := EphemeralSign(payload)
	require.NoError(t, err)
	assert.NotEqual(t, producer1, producer2)
}

func TestVerifyDescriptor_Tampered(t *testing.T) {
	d := signedDescriptor(t)
	d.PayloadHash = unittest.IdentifierFixture()

	valid, err := VerifyDescriptor(d)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestVerifyDescriptor_OtherProducer(t *testing.T) {
	d := signedDescriptor(t)
	sk := unittest.ProducerKeyFixture()
	d.Producer = sk.PublicKey().Encode()

	valid, err := VerifyDescriptor(d)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestVerifyDescriptor_MalformedProducer(t *testing.T) {
	d := signedDescriptor(t)
	d.Producer = []byte{1, 2, 3}

	_, err := VerifyDescriptor(d)
	require.ErrorIs(t, err, ErrInvalidSigner)
}
