package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/corruptible-validator/model/flow"
)

func UpsertValidators(relayParent flow.Identifier, validators flow.IdentifierList) func(*badger.Txn) error {
	return upsert(makePrefix(codeValidators, relayParent), validators)
}

func RetrieveValidators(relayParent flow.Identifier, validators *flow.IdentifierList) func(*badger.Txn) error {
	return retrieve(makePrefix(codeValidators, relayParent), validators)
}

func InsertValidationCode(codeHash flow.Identifier, code flow.ValidationCode) func(*badger.Txn) error {
	return insert(makePrefix(codeValidationCode, codeHash), []byte(code))
}

func RetrieveValidationCode(codeHash flow.Identifier, code *[]byte) func(*badger.Txn) error {
	return retrieve(makePrefix(codeValidationCode, codeHash), code)
}

func ValidationCodeExists(codeHash flow.Identifier, codeExists *bool) func(*badger.Txn) error {
	return exists(makePrefix(codeValidationCode, codeHash), codeExists)
}
