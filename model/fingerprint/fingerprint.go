// Package fingerprint produces the canonical byte encoding of protocol entities.
//
// The fingerprint of an entity is what gets hashed into its identifier and what gets signed
// by its producer. Every node of the network must derive the same fingerprint for the same
// entity, hence the encoding is RLP, which is deterministic for the field types used in
// the model.
package fingerprint

import (
	"github.com/ethereum/go-ethereum/rlp"
)

// Fingerprinter is implemented by entities that need a custom canonical form, e.g. to
// exclude fields from their identifier.
type Fingerprinter interface {
	Fingerprint() []byte
}

// Fingerprint returns the canonical encoding of the given entity.
// It panics if the entity cannot be encoded, as this is a programming error in the model.
func Fingerprint(entity interface{}) []byte {
	if fingerprinter, ok := entity.(Fingerprinter); ok {
		return fingerprinter.Fingerprint()
	}

	data, err := rlp.EncodeToBytes(entity)
	if err != nil {
		panic("failed to rlp encode entity: " + err.Error())
	}
	return data
}
