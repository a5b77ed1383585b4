package chainstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/onflow/corruptible-validator/model/flow"
	"github.com/onflow/corruptible-validator/model/messages"
	"github.com/onflow/corruptible-validator/module/orchestrator"
	"github.com/onflow/corruptible-validator/utils/logging"
)

// ValidationInputs is the chain state needed to commit to and sign a candidate.
type ValidationInputs struct {
	ValidatorCount int
	Code           flow.ValidationCode
}

// Fetcher queries the chain state at a relay parent through the runtime API subsystem.
type Fetcher struct {
	log     zerolog.Logger
	timeout time.Duration
}

// NewFetcher creates a fetcher bounding every fetch by the given timeout. A zero timeout
// disables the deadline.
func NewFetcher(log zerolog.Logger, timeout time.Duration) *Fetcher {
	return &Fetcher{
		log:     log.With().Str("component", "chainstate_fetcher").Logger(),
		timeout: timeout,
	}
}

// Fetch retrieves the number of validators at the relay parent and the validation code with the
// given hash, in two sequential round trips. It blocks until both are answered.
// Expected errors:
//   - ErrNoValidators if the validator set at the relay parent is empty
//   - ErrValidationCodeNotFound if the code is unknown
//   - FetchTimeoutError if the deadline expires first
//   - ErrNoResponse if a request is dropped
//   - errors reported by the runtime API, wrapped
func (f *Fetcher) Fetch(ctx context.Context, sender orchestrator.Sender, relayParent flow.Identifier, codeHash flow.Identifier) (*ValidationInputs, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	log := f.log.With().
		Hex("relay_parent", logging.ID(relayParent)).
		Hex("code_hash", logging.ID(codeHash)).
		Logger()

	validatorsReply := make(chan messages.ValidatorsResponse, 1)
	validators, err := request[messages.ValidatorsResponse](ctx, f.timeout, sender, relayParent, "validators", &messages.ValidatorsRequest{Reply: validatorsReply}, validatorsReply)
	if err != nil {
		return nil, err
	}
	if validators.Err != nil {
		return nil, fmt.Errorf("could not fetch validators at relay parent %x: %w", relayParent, validators.Err)
	}
	if len(validators.Validators) == 0 {
		return nil, fmt.Errorf("relay parent %x: %w", relayParent, ErrNoValidators)
	}

	codeReply := make(chan messages.ValidationCodeResponse, 1)
	code, err := request[messages.ValidationCodeResponse](ctx, f.timeout, sender, relayParent, "validation_code", &messages.ValidationCodeByHashRequest{CodeHash: codeHash, Reply: codeReply}, codeReply)
	if err != nil {
		return nil, err
	}
	if code.Err != nil {
		return nil, fmt.Errorf("could not fetch validation code %x: %w", codeHash, code.Err)
	}
	if code.Code == nil {
		return nil, fmt.Errorf("validation code %x: %w", codeHash, ErrValidationCodeNotFound)
	}

	log.Debug().
		Int("validators", len(validators.Validators)).
		Int("code_size", len(code.Code)).
		Msg("fetched validation inputs")

	return &ValidationInputs{
		ValidatorCount: len(validators.Validators),
		Code:           code.Code,
	}, nil
}

// request sends a runtime API request and waits for its one-shot reply.
func request[R any](
	ctx context.Context,
	timeout time.Duration,
	sender orchestrator.Sender,
	relayParent flow.Identifier,
	name string,
	req messages.RuntimeRequest,
	reply <-chan R,
) (R, error) {
	var zero R

	err := sender.SendMessage(ctx, &messages.RuntimeAPIRequest{RelayParent: relayParent, Request: req})
	if err != nil {
		return zero, contextError(ctx, err, name, timeout, "could not send "+name+" request")
	}

	select {
	case <-ctx.Done():
		return zero, contextError(ctx, ctx.Err(), name, timeout, name+" request aborted")
	case resp, ok := <-reply:
		if !ok {
			return zero, fmt.Errorf("%s: %w", name, ErrNoResponse)
		}
		return resp, nil
	}
}

// contextError converts an expired deadline into a FetchTimeoutError and wraps any other error.
func contextError(ctx context.Context, err error, name string, timeout time.Duration, msg string) error {
	if errors.Is(err, context.DeadlineExceeded) && timeout > 0 && ctx.Err() != nil {
		return FetchTimeoutError{Request: name, Timeout: timeout}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
