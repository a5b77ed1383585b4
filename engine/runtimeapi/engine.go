// Package runtimeapi answers chain-state queries of the other subsystems from the local chain state.
package runtimeapi

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/onflow/corruptible-validator/model/flow"
	"github.com/onflow/corruptible-validator/model/messages"
	"github.com/onflow/corruptible-validator/module/irrecoverable"
	"github.com/onflow/corruptible-validator/module/orchestrator"
	"github.com/onflow/corruptible-validator/storage"
	"github.com/onflow/corruptible-validator/utils/logging"
)

const Name = "runtime-api"

// Engine is the runtime API subsystem. Each request is answered on the engine's goroutine.
type Engine struct {
	log   zerolog.Logger
	state storage.ChainState
}

var _ orchestrator.RuntimeAPISubsystem = (*Engine)(nil)

func New(log zerolog.Logger, state storage.ChainState) *Engine {
	return &Engine{
		log:   log.With().Str("engine", Name).Logger(),
		state: state,
	}
}

func (e *Engine) Name() string {
	return Name
}

func (e *Engine) Run(ctx irrecoverable.SignalerContext, sctx orchestrator.Context[messages.RuntimeAPIMessage]) {
	for {
		msg, err := sctx.Recv(ctx)
		if err != nil {
			return
		}
		if msg.IsSignal() {
			if _, ok := msg.Signal.(*orchestrator.Conclude); ok {
				return
			}
			continue
		}

		switch m := msg.Msg.(type) {
		case *messages.RuntimeAPIRequest:
			e.handleRequest(m)
		default:
			e.log.Warn().Str("msg_type", logging.Type(m)).Msg("unexpected message type")
		}
	}
}

func (e *Engine) handleRequest(req *messages.RuntimeAPIRequest) {
	log := e.log.With().Hex("relay_parent", logging.ID(req.RelayParent)).Logger()

	switch r := req.Request.(type) {
	case *messages.ValidatorsRequest:
		validators, err := e.validators(req.RelayParent)
		if err != nil {
			log.Error().Err(err).Msg("could not answer validators request")
		}
		respond(log, r.Reply, messages.ValidatorsResponse{Validators: validators, Err: err})

	case *messages.ValidationCodeByHashRequest:
		code, err := e.validationCode(r.CodeHash)
		if err != nil {
			log.Error().Err(err).Hex("code_hash", logging.ID(r.CodeHash)).Msg("could not answer validation code request")
		}
		respond(log, r.Reply, messages.ValidationCodeResponse{Code: code, Err: err})

	default:
		log.Warn().Str("request_type", logging.Type(r)).Msg("unsupported runtime request")
	}
}

// validators returns the validator set at the relay parent. An unknown relay parent has no
// validators.
func (e *Engine) validators(relayParent flow.Identifier) (flow.IdentifierList, error) {
	validators, err := e.state.Validators(relayParent)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not retrieve validators: %w", err)
	}
	return validators, nil
}

// validationCode returns the code with the given hash, or nil if it is unknown.
func (e *Engine) validationCode(codeHash flow.Identifier) (flow.ValidationCode, error) {
	code, err := e.state.ValidationCode(codeHash)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not retrieve validation code: %w", err)
	}
	return code, nil
}

// respond delivers the reply without blocking. Requesters provide buffered reply channels, a full
// one means the reply was already given.
func respond[R any](log zerolog.Logger, reply chan<- R, resp R) {
	select {
	case reply <- resp:
	default:
		log.Warn().Msg("reply channel full, dropping response")
	}
}
