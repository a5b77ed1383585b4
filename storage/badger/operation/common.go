package operation

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/corruptible-validator/storage"
)

// insert will encode the given entity and will insert the resulting binary data in the badger DB
// under the provided key. It will error if the key already exists.
// Expected errors:
//   - storage.ErrAlreadyExists if the key already exists
func insert(key []byte, entity interface{}) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {

		// check if the key already exists in the db
		_, err := tx.Get(key)
		if err == nil {
			return storage.ErrAlreadyExists
		}

		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("could not check key: %w", err)
		}

		val, err := encodeEntity(entity)
		if err != nil {
			return err
		}

		// persist the entity data into the DB
		err = tx.Set(key, val)
		if err != nil {
			return fmt.Errorf("could not store data: %w", err)
		}

		return nil
	}
}

// upsert will encode the given entity and insert or overwrite the binary data under the given key.
func upsert(key []byte, entity interface{}) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		val, err := encodeEntity(entity)
		if err != nil {
			return err
		}

		err = tx.Set(key, val)
		if err != nil {
			return fmt.Errorf("could not upsert data: %w", err)
		}

		return nil
	}
}

// exists will simply check if the entry with the given key exists in the DB.
func exists(key []byte, keyExists *bool) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		_, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			*keyExists = false
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not check existence: %w", err)
		}
		*keyExists = true
		return nil
	}
}

// retrieve will retrieve the binary data under the given key from the badger DB
// and decode it into the given entity. The provided entity needs to be a
// pointer to an initialized entity of the correct type.
// Expected errors:
//   - storage.ErrNotFound if the key does not exist in the database
func retrieve(key []byte, entity interface{}) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {

		// retrieve the item from the key-value store
		item, err := tx.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("could not load data: %w", err)
		}

		// get the value from the item
		err = item.Value(func(val []byte) error {
			return decodeValue(val, entity)
		})
		if err != nil {
			return fmt.Errorf("could not decode entity: %w", err)
		}

		return nil
	}
}
