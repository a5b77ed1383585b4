package unittest

import (
	"crypto/rand"

	"github.com/onflow/flow-go/crypto"
)

// keyGenSeedLen is above the minimum seed length of every ECDSA curve
const keyGenSeedLen = 48

func ECDSAKey() (crypto.PrivateKey, error) {
	seed := make([]byte, keyGenSeedLen)
	_, err := rand.Read(seed)
	if err != nil {
		return nil, err
	}

	sk, err := crypto.GeneratePrivateKey(crypto.ECDSAP256, seed)
	return sk, err
}

// ProducerKeyFixture returns a fresh ECDSA P-256 key for a candidate producer.
func ProducerKeyFixture() crypto.PrivateKey {
	sk, err := ECDSAKey()
	if err != nil {
		panic(err)
	}
	return sk
}
