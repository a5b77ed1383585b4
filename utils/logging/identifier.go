package logging

import (
	"fmt"

	"github.com/onflow/corruptible-validator/model/flow"
)

// ID returns the raw bytes of an identifier, to be logged with zerolog's Hex.
func ID(id flow.Identifier) []byte {
	return id[:]
}

// Type returns the Go type of a message, used to tag log lines with the kind of message they refer to.
func Type(obj interface{}) string {
	return fmt.Sprintf("%T", obj)
}
