package main

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/corruptible-validator/utils/unittest"
)

// TestRun_GenerateFailure checks that a node failing to generate its orchestrator returns the error
// after releasing the chain-state database.
func TestRun_GenerateFailure(t *testing.T) {
	unittest.RunWithTempDir(t, func(dir string) {
		cfg := parse(t, "--percentage=101", "--datadir="+dir, "--metrics-addr=")

		err := run(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not generate orchestrator")
		assert.Contains(t, err.Error(), "invalid percentage 101")

		// badger locks its directory until closed
		db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
		require.NoError(t, err)
		require.NoError(t, db.Close())
	})
}
