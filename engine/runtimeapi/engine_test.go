package runtimeapi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/onflow/corruptible-validator/model/flow"
	"github.com/onflow/corruptible-validator/model/messages"
	"github.com/onflow/corruptible-validator/module/irrecoverable"
	"github.com/onflow/corruptible-validator/module/metrics"
	"github.com/onflow/corruptible-validator/module/orchestrator"
	"github.com/onflow/corruptible-validator/module/orchestrator/orchestratortest"
	"github.com/onflow/corruptible-validator/storage"
	badgerstorage "github.com/onflow/corruptible-validator/storage/badger"
	storagemock "github.com/onflow/corruptible-validator/storage/mock"
	"github.com/onflow/corruptible-validator/utils/unittest"
)

func requestValidators(t *testing.T, sctx *orchestratortest.Context[messages.RuntimeAPIMessage], relayParent flow.Identifier) messages.ValidatorsResponse {
	reply := make(chan messages.ValidatorsResponse, 1)
	sctx.Send(&messages.RuntimeAPIRequest{RelayParent: relayParent, Request: &messages.ValidatorsRequest{Reply: reply}})
	select {
	case resp := <-reply:
		return resp
	case <-time.After(time.Second):
		t.Fatal("no reply to validators request")
	}
	return messages.ValidatorsResponse{}
}

func requestCode(t *testing.T, sctx *orchestratortest.Context[messages.RuntimeAPIMessage], codeHash flow.Identifier) messages.ValidationCodeResponse {
	reply := make(chan messages.ValidationCodeResponse, 1)
	sctx.Send(&messages.RuntimeAPIRequest{RelayParent: unittest.IdentifierFixture(), Request: &messages.ValidationCodeByHashRequest{CodeHash: codeHash, Reply: reply}})
	select {
	case resp := <-reply:
		return resp
	case <-time.After(time.Second):
		t.Fatal("no reply to validation code request")
	}
	return messages.ValidationCodeResponse{}
}

// TestEngine_AnswersFromChainState checks that requests are answered from storage, and that
// unknown entries are reported as empty answers rather than errors.
func TestEngine_AnswersFromChainState(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		state := badgerstorage.NewChainState(metrics.NewNoopCollector(), db)
		relayParent := unittest.IdentifierFixture()
		validators := unittest.IdentifierListFixture(5)
		code := unittest.ValidationCodeFixture()
		require.NoError(t, state.StoreValidators(relayParent, validators))
		require.NoError(t, state.StoreValidationCode(code))

		sctx := orchestratortest.NewContext[messages.RuntimeAPIMessage](nil, nil)
		stop := orchestratortest.Run[messages.RuntimeAPIMessage](t, New(unittest.Logger(), state), sctx)
		defer stop()

		resp := requestValidators(t, sctx, relayParent)
		require.NoError(t, resp.Err)
		assert.Equal(t, validators, resp.Validators)

		resp = requestValidators(t, sctx, unittest.IdentifierFixture())
		require.NoError(t, resp.Err)
		assert.Empty(t, resp.Validators)

		codeResp := requestCode(t, sctx, code.Hash())
		require.NoError(t, codeResp.Err)
		assert.Equal(t, code, codeResp.Code)

		codeResp = requestCode(t, sctx, unittest.IdentifierFixture())
		require.NoError(t, codeResp.Err)
		assert.Nil(t, codeResp.Code)
	})
}

func TestEngine_StorageFailure(t *testing.T) {
	exception := errors.New("disk on fire")
	state := storagemock.NewChainState(t)
	state.On("Validators", mock.Anything).Return(nil, exception)
	state.On("ValidationCode", mock.Anything).Return(nil, exception)

	sctx := orchestratortest.NewContext[messages.RuntimeAPIMessage](nil, nil)
	stop := orchestratortest.Run[messages.RuntimeAPIMessage](t, New(unittest.Logger(), state), sctx)
	defer stop()

	resp := requestValidators(t, sctx, unittest.IdentifierFixture())
	assert.ErrorIs(t, resp.Err, exception)
	assert.NotErrorIs(t, resp.Err, storage.ErrNotFound)

	codeResp := requestCode(t, sctx, unittest.IdentifierFixture())
	assert.ErrorIs(t, codeResp.Err, exception)
	assert.Nil(t, codeResp.Code)
}

// TestEngine_Conclude checks that the engine ignores leaf updates and returns on Conclude.
func TestEngine_Conclude(t *testing.T) {
	state := storagemock.NewChainState(t)
	sctx := orchestratortest.NewContext[messages.RuntimeAPIMessage](nil, nil)
	sctx.Signal(&orchestrator.ActiveLeavesUpdate{})
	sctx.Signal(&orchestrator.Conclude{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	unittest.RequireReturnsBefore(t, func() {
		New(unittest.Logger(), state).Run(irrecoverable.NewMockSignalerContext(t, ctx), sctx)
	}, time.Second, "engine did not conclude")
}
