package operation

import (
	"github.com/onflow/corruptible-validator/model/flow"
)

const (
	codeValidators     = 10 // validator set by relay parent
	codeValidationCode = 20 // validation code by code hash
)

func makePrefix(code byte, keys ...flow.Identifier) []byte {
	prefix := make([]byte, 0, 1+len(keys)*flow.IdentifierLen)
	prefix = append(prefix, code)
	for _, key := range keys {
		prefix = append(prefix, key[:]...)
	}
	return prefix
}
