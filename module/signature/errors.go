package signature

import (
	"errors"
)

var (
	ErrInvalidFormat = errors.New("invalid signature format")
	ErrInvalidSigner = errors.New("invalid signer encoding")
)
