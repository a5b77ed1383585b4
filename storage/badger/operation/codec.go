package operation

import (
	"errors"
	"fmt"

	"github.com/golang/snappy"
	"github.com/vmihailenco/msgpack"

	"github.com/onflow/corruptible-validator/module/irrecoverable"
)

var errUncompressedValue = errors.New("could not uncompress data")

// encodeEntity encodes the given entity using msgpack and then compresses the value.
// possible error to return is irrecoverable.exception
func encodeEntity(entity interface{}) ([]byte, error) {
	val, err := msgpack.Marshal(entity)
	if err != nil {
		return nil, irrecoverable.NewExceptionf("could not encode entity: %w", err)
	}
	return snappy.Encode(nil, val), nil
}

// decodeValue uncompresses the given value and decodes it into the given entity using msgpack.
// possible error to return is irrecoverable.exception
func decodeValue(val []byte, entity interface{}) error {
	uncompressedVal, err := snappy.Decode(nil, val)
	if err != nil {
		return fmt.Errorf("%s: %w", err, errUncompressedValue)
	}

	err = msgpack.Unmarshal(uncompressedVal, entity)
	if err != nil {
		return irrecoverable.NewExceptionf("could not decode entity: %w", err)
	}
	return nil
}
