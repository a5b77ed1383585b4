package badger

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/corruptible-validator/model/flow"
	"github.com/onflow/corruptible-validator/module"
	"github.com/onflow/corruptible-validator/module/metrics"
	"github.com/onflow/corruptible-validator/storage"
	"github.com/onflow/corruptible-validator/storage/badger/operation"
)

const (
	DefaultCacheSizeValidators     = 1000
	DefaultCacheSizeValidationCode = 100
)

// ChainState implements storage.ChainState on top of badger, with an LRU cache for each resource.
type ChainState struct {
	db         *badger.DB
	validators *Cache[flow.IdentifierList]
	codes      *Cache[flow.ValidationCode]
}

var _ storage.ChainState = (*ChainState)(nil)

func NewChainState(collector module.CacheMetrics, db *badger.DB) *ChainState {

	storeValidators := func(relayParent flow.Identifier, validators flow.IdentifierList) error {
		return db.Update(operation.UpsertValidators(relayParent, validators))
	}

	retrieveValidators := func(relayParent flow.Identifier) (flow.IdentifierList, error) {
		var validators flow.IdentifierList
		err := db.View(operation.RetrieveValidators(relayParent, &validators))
		return validators, err
	}

	storeCode := func(codeHash flow.Identifier, code flow.ValidationCode) error {
		err := db.Update(operation.InsertValidationCode(codeHash, code))
		if errors.Is(err, storage.ErrAlreadyExists) {
			// code is content-addressed, an existing entry holds the same bytes
			return nil
		}
		return err
	}

	retrieveCode := func(codeHash flow.Identifier) (flow.ValidationCode, error) {
		var code []byte
		err := db.View(operation.RetrieveValidationCode(codeHash, &code))
		return code, err
	}

	return &ChainState{
		db: db,
		validators: newCache[flow.IdentifierList](collector,
			withLimit[flow.IdentifierList](DefaultCacheSizeValidators),
			withStore[flow.IdentifierList](storeValidators),
			withRetrieve[flow.IdentifierList](retrieveValidators),
			withResource[flow.IdentifierList](metrics.ResourceValidators),
		),
		codes: newCache[flow.ValidationCode](collector,
			withLimit[flow.ValidationCode](DefaultCacheSizeValidationCode),
			withStore[flow.ValidationCode](storeCode),
			withRetrieve[flow.ValidationCode](retrieveCode),
			withResource[flow.ValidationCode](metrics.ResourceValidationCode),
		),
	}
}

func (c *ChainState) StoreValidators(relayParent flow.Identifier, validators flow.IdentifierList) error {
	return c.validators.Put(relayParent, validators)
}

func (c *ChainState) Validators(relayParent flow.Identifier) (flow.IdentifierList, error) {
	validators, err := c.validators.Get(relayParent)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve validators for relay parent %x: %w", relayParent, err)
	}
	return validators, nil
}

func (c *ChainState) StoreValidationCode(code flow.ValidationCode) error {
	return c.codes.Put(code.Hash(), code)
}

func (c *ChainState) ValidationCode(codeHash flow.Identifier) (flow.ValidationCode, error) {
	code, err := c.codes.Get(codeHash)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve validation code %x: %w", codeHash, err)
	}
	return code, nil
}
