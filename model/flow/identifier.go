package flow

import (
	"encoding/hex"
	"fmt"

	"github.com/onflow/flow-go/crypto/hash"

	"github.com/onflow/corruptible-validator/model/fingerprint"
)

// IdentifierLen is the length of an identifier in bytes.
const IdentifierLen = 32

// Identifier represents a 32-byte unique identifier for an entity, or the content hash of a blob.
type Identifier [IdentifierLen]byte

// ZeroID is the lowest value in the 32-byte ID space.
var ZeroID = Identifier{}

// Entity is implemented by every protocol entity that is addressed by the hash of its fingerprint.
type Entity interface {
	ID() Identifier
}

// HexStringToIdentifier converts a hex string to an identifier. The input must be 64
// characters long and contain only valid hex characters.
func HexStringToIdentifier(hexString string) (Identifier, error) {
	var identifier Identifier
	i, err := hex.Decode(identifier[:], []byte(hexString))
	if err != nil {
		return identifier, err
	}
	if i != IdentifierLen {
		return identifier, fmt.Errorf("malformed input, expected %d bytes (%d characters), decoded %d", IdentifierLen, hex.EncodedLen(IdentifierLen), i)
	}
	return identifier, nil
}

// ByteSliceToId converts a byte slice into an identifier.
func ByteSliceToId(b []byte) (Identifier, error) {
	var id Identifier
	if len(b) != IdentifierLen {
		return id, fmt.Errorf("illegal length for a flow identifier %x: got: %d, expected: %d", b, len(b), IdentifierLen)
	}
	copy(id[:], b[:])
	return id, nil
}

// String returns the hex string representation of the identifier.
func (id Identifier) String() string {
	return hex.EncodeToString(id[:])
}

// Format handles formatting of id for different verbs. This is called when
// formatting an identifier with fmt.
func (id Identifier) Format(state fmt.State, verb rune) {
	switch verb {
	case 'x', 's', 'v':
		_, _ = state.Write([]byte(id.String()))
	default:
		_, _ = state.Write([]byte(fmt.Sprintf("%%!%c(flow.Identifier=%s)", verb, id)))
	}
}

// IsZero returns true if the identifier is the zero value.
func (id Identifier) IsZero() bool {
	return id == ZeroID
}

// MakeID creates an ID from the canonical encoding of an entity.
func MakeID(entity interface{}) Identifier {
	return HashBytes(fingerprint.Fingerprint(entity))
}

// HashBytes returns the SHA3-256 hash of the given bytes as an identifier. It is used to
// address blobs, such as validation code and head data, which carry no structure.
func HashBytes(data []byte) Identifier {
	hasher := hash.NewSHA3_256()
	return HashToID(hasher.ComputeHash(data))
}

// HashToID converts a 32-byte hash into an identifier.
func HashToID(hash []byte) Identifier {
	var id Identifier
	copy(id[:], hash)
	return id
}

// IdentifierList is a list of identifiers.
type IdentifierList []Identifier

// Len returns the length of the list.
func (il IdentifierList) Len() int {
	return len(il)
}

// Contains returns whether the list contains the given identifier.
func (il IdentifierList) Contains(target Identifier) bool {
	for _, id := range il {
		if id == target {
			return true
		}
	}
	return false
}
