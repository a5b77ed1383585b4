package cmd

import (
	"fmt"

	"github.com/onflow/corruptible-validator/cmd"
	"github.com/onflow/corruptible-validator/insecure/interceptor"
	"github.com/onflow/corruptible-validator/insecure/orchestrators/passthrough"
	"github.com/onflow/corruptible-validator/model/messages"
	"github.com/onflow/corruptible-validator/module/orchestrator"
)

// PassthroughGen generates the orchestrator of a validator whose candidate backing is observed
// without being corrupted.
type PassthroughGen struct {
	tracker *passthrough.Tracker[messages.CandidateBackingMessage]
}

var _ cmd.OrchestratorGen = (*PassthroughGen)(nil)

func (g *PassthroughGen) Generate(args cmd.OrchestratorGenArgs, ext *cmd.ExtendedOrchestratorGenArgs) (*orchestrator.Orchestrator, *orchestrator.Handle, error) {
	builder, err := cmd.ValidatorOrchestratorBuilder(args, ext)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create validator orchestrator builder: %w", err)
	}

	g.tracker = passthrough.NewTracker[messages.CandidateBackingMessage](args.Logger, corruptionMetricsOrNoop(ext))
	builder.ReplaceCandidateBacking(func(inner orchestrator.CandidateBackingSubsystem) orchestrator.CandidateBackingSubsystem {
		return interceptor.New[messages.CandidateBackingMessage](args.Logger, inner, g.tracker)
	})

	return builder.Build()
}

// Tracker returns the tracker of the last generated orchestrator.
func (g *PassthroughGen) Tracker() *passthrough.Tracker[messages.CandidateBackingMessage] {
	return g.tracker
}
