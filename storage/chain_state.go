package storage

import (
	"github.com/onflow/corruptible-validator/model/flow"
)

// ChainState persists the relay-chain state queried by the runtime API: the validator set
// active at each relay parent and the validation code blobs known to the chain.
type ChainState interface {
	// StoreValidators sets the validator set active at the relay parent.
	StoreValidators(relayParent flow.Identifier, validators flow.IdentifierList) error

	// Validators returns the validator set active at the relay parent.
	// Expected errors:
	//   - ErrNotFound if no validator set is known for the relay parent
	Validators(relayParent flow.Identifier) (flow.IdentifierList, error)

	// StoreValidationCode adds a validation code blob, addressed by its hash.
	// Storing the same code twice is a no-op.
	StoreValidationCode(code flow.ValidationCode) error

	// ValidationCode returns the validation code with the given hash.
	// Expected errors:
	//   - ErrNotFound if the code is unknown
	ValidationCode(codeHash flow.Identifier) (flow.ValidationCode, error)
}
