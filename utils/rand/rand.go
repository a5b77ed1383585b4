// Package rand is a wrapper around `crypto/rand` that uses the system RNG underneath
// to extract secure entropy.
//
// It is used to seed the deterministic generators of the `flow-go/crypto/random` package
// and to generate key material. Functions in this package return an error if the underlying
// system implementation fails to read new randoms; callers should consider it an
// irrecoverable exception.
package rand

import (
	"crypto/rand"
	"fmt"
)

// Bytes returns `n` random bytes.
//
// It returns:
//   - (nil, exception) if crypto/rand fails to provide entropy which is likely a result of a system error.
//   - (random, nil) otherwise
func Bytes(n int) ([]byte, error) {
	buffer := make([]byte, n)
	if _, err := rand.Read(buffer); err != nil { // checking err in crypto/rand.Read is enough
		return nil, fmt.Errorf("crypto/rand read failed: %w", err)
	}
	return buffer, nil
}

