package fabricator

import (
	"github.com/onflow/corruptible-validator/model/flow"
	"github.com/onflow/corruptible-validator/module/chainstate"
	"github.com/onflow/corruptible-validator/module/irrecoverable"
	"github.com/onflow/corruptible-validator/module/orchestrator"
)

type fetchResult struct {
	inputs *chainstate.ValidationInputs
	err    error
}

// fetch runs the chain-state fetch on a blocking worker and waits for its result, so that the
// subsystem goroutine never performs the request round trips itself.
//
// The result channel carries exactly one value. If the task terminates without sending it,
// the node is in an inconsistent state and the error is thrown.
func (f *Fabricator) fetch(
	ctx irrecoverable.SignalerContext,
	sender orchestrator.Sender,
	relayParent flow.Identifier,
	codeHash flow.Identifier,
) (*chainstate.ValidationInputs, error) {
	results := make(chan fetchResult, 1)
	err := f.spawner.SpawnBlocking("fetch-validation-inputs", "garbage-candidate", func() {
		defer close(results)
		inputs, err := f.fetcher.Fetch(ctx, sender, relayParent, codeHash)
		results <- fetchResult{inputs: inputs, err: err}
	})
	if err != nil {
		return nil, NewFetchError(err)
	}

	select {
	case <-ctx.Done():
		return nil, NewFetchError(ctx.Err())
	case result, ok := <-results:
		if !ok {
			ctx.Throw(ErrRendezvousClosed)
			return nil, ErrRendezvousClosed
		}
		if result.err != nil {
			return nil, NewFetchError(result.err)
		}
		return result.inputs, nil
	}
}
