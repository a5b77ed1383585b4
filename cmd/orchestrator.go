package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/onflow/corruptible-validator/engine/backing"
	"github.com/onflow/corruptible-validator/engine/runtimeapi"
	"github.com/onflow/corruptible-validator/engine/validation"
	"github.com/onflow/corruptible-validator/module"
	"github.com/onflow/corruptible-validator/module/chainstate"
	"github.com/onflow/corruptible-validator/module/metrics"
	"github.com/onflow/corruptible-validator/module/orchestrator"
	"github.com/onflow/corruptible-validator/module/spawner"
	"github.com/onflow/corruptible-validator/storage"
)

// DefaultFetchTimeout bounds chain-state fetches when no timeout is configured.
const DefaultFetchTimeout = 10 * time.Second

var ErrMissingExtendedArgs = errors.New("extended orchestrator arguments are required")

// OrchestratorGenArgs are the resources shared by all subsystems of a node.
type OrchestratorGenArgs struct {
	Logger         zerolog.Logger
	ChainState     storage.ChainState
	Spawner        spawner.Spawner
	BackingMetrics module.BackingMetrics
	Consumer       backing.Consumer
	MailboxSize    int
}

// ExtendedOrchestratorGenArgs are the settings of a validator node.
type ExtendedOrchestratorGenArgs struct {
	FetchTimeout      time.Duration
	CorruptionMetrics module.CorruptionMetrics
}

// OrchestratorGen creates the orchestrator of a node. It is the hook through which a node's
// subsystems can be substituted at startup.
type OrchestratorGen interface {
	Generate(args OrchestratorGenArgs, ext *ExtendedOrchestratorGenArgs) (*orchestrator.Orchestrator, *orchestrator.Handle, error)
}

// ValidatorOrchestratorBuilder returns a builder filled with the stock subsystems of a validator.
func ValidatorOrchestratorBuilder(args OrchestratorGenArgs, ext *ExtendedOrchestratorGenArgs) (*orchestrator.Builder, error) {
	if ext == nil {
		return nil, ErrMissingExtendedArgs
	}
	if args.ChainState == nil {
		return nil, fmt.Errorf("chain state not set")
	}

	consumer := args.Consumer
	if consumer == nil {
		consumer = &backing.NoopConsumer{}
	}
	backingMetrics := args.BackingMetrics
	if backingMetrics == nil {
		backingMetrics = metrics.NewNoopCollector()
	}
	mailboxSize := args.MailboxSize
	if mailboxSize == 0 {
		mailboxSize = orchestrator.DefaultMailboxSize
	}

	fetcher := chainstate.NewFetcher(args.Logger, ext.FetchTimeout)

	return orchestrator.NewBuilder(args.Logger, args.Spawner).
		WithMailboxSize(mailboxSize).
		RuntimeAPI(runtimeapi.New(args.Logger, args.ChainState)).
		CandidateValidation(validation.New(args.Logger)).
		CandidateBacking(backing.New(args.Logger, fetcher, backingMetrics, consumer)), nil
}

// ValidatorGen generates the orchestrator of an honest validator.
type ValidatorGen struct{}

var _ OrchestratorGen = (*ValidatorGen)(nil)

func (ValidatorGen) Generate(args OrchestratorGenArgs, ext *ExtendedOrchestratorGenArgs) (*orchestrator.Orchestrator, *orchestrator.Handle, error) {
	builder, err := ValidatorOrchestratorBuilder(args, ext)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create validator orchestrator builder: %w", err)
	}
	return builder.Build()
}
