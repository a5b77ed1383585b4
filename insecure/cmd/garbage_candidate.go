// Package cmd generates the orchestrators of corrupted validators: the stock validator subsystems,
// with some of them substituted by intercepted versions.
package cmd

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/onflow/corruptible-validator/cmd"
	"github.com/onflow/corruptible-validator/insecure/fabricator"
	"github.com/onflow/corruptible-validator/insecure/gate"
	"github.com/onflow/corruptible-validator/insecure/interceptor"
	"github.com/onflow/corruptible-validator/insecure/orchestrators/fakevalidation"
	"github.com/onflow/corruptible-validator/insecure/orchestrators/garbagecandidate"
	"github.com/onflow/corruptible-validator/model/messages"
	"github.com/onflow/corruptible-validator/module"
	"github.com/onflow/corruptible-validator/module/chainstate"
	"github.com/onflow/corruptible-validator/module/metrics"
	"github.com/onflow/corruptible-validator/module/orchestrator"
)

// DefaultFakeValidPercentage answers every validation request as valid, so that the node backs its
// own garbage candidates.
const DefaultFakeValidPercentage = 100

// GarbageCandidateGen generates the orchestrator of a validator that replaces a percentage of the
// candidates it is asked to second by garbage candidates. These carry a poisoned payload along
// with a descriptor consistent with it, so that honest validators only reject them when
// re-executing the payload.
type GarbageCandidateGen struct {
	// Percentage of the candidates to replace, within [0, 100].
	Percentage int
	// FakeValidPercentage of the validation requests to answer without executing the candidate,
	// within [0, 100]. The binary defaults it to DefaultFakeValidPercentage. With 0, the node
	// validates honestly and rejects its own garbage candidates.
	FakeValidPercentage int
	// FakeValidationMode is the result given to those requests. The zero value reports them valid.
	FakeValidationMode fakevalidation.Mode
	// FetchTimeout bounds the chain-state fetch of every fabrication. Zero disables the deadline.
	FetchTimeout time.Duration
}

var _ cmd.OrchestratorGen = (*GarbageCandidateGen)(nil)

// gates validates the configuration, and returns the gates of the candidate and validation
// interceptors. All configuration errors are reported at once.
func (g GarbageCandidateGen) gates() (*gate.Gate, *gate.Gate, error) {
	var errs *multierror.Error

	candidateGate, err := gate.NewRandom(g.Percentage)
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("garbage candidate percentage: %w", err))
	}
	validationGate, err := gate.NewRandom(g.FakeValidPercentage)
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("fake valid percentage: %w", err))
	}
	if g.FakeValidationMode != fakevalidation.ModeValid && g.FakeValidationMode != fakevalidation.ModeInvalid {
		errs = multierror.Append(errs, fmt.Errorf("unknown fake validation mode %s", g.FakeValidationMode))
	}
	if g.FetchTimeout < 0 {
		errs = multierror.Append(errs, fmt.Errorf("negative fetch timeout %s", g.FetchTimeout))
	}

	if errs.ErrorOrNil() != nil {
		return nil, nil, errs
	}
	return candidateGate, validationGate, nil
}

func (g GarbageCandidateGen) Generate(args cmd.OrchestratorGenArgs, ext *cmd.ExtendedOrchestratorGenArgs) (*orchestrator.Orchestrator, *orchestrator.Handle, error) {
	candidateGate, validationGate, err := g.gates()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid garbage candidate configuration: %w", err)
	}

	builder, err := cmd.ValidatorOrchestratorBuilder(args, ext)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create validator orchestrator builder: %w", err)
	}

	corruptionMetrics := corruptionMetricsOrNoop(ext)
	fab := fabricator.New(args.Logger, chainstate.NewFetcher(args.Logger, g.FetchTimeout), args.Spawner, corruptionMetrics)

	builder.
		ReplaceCandidateBacking(func(inner orchestrator.CandidateBackingSubsystem) orchestrator.CandidateBackingSubsystem {
			return interceptor.New[messages.CandidateBackingMessage](
				args.Logger,
				inner,
				garbagecandidate.New(args.Logger, candidateGate, fab, corruptionMetrics),
			)
		}).
		ReplaceCandidateValidation(func(inner orchestrator.CandidateValidationSubsystem) orchestrator.CandidateValidationSubsystem {
			return interceptor.New[messages.CandidateValidationMessage](
				args.Logger,
				inner,
				fakevalidation.New(args.Logger, validationGate, g.FakeValidationMode, corruptionMetrics),
			)
		})

	args.Logger.Info().
		Int("percentage", g.Percentage).
		Int("fake_valid_percentage", g.FakeValidPercentage).
		Stringer("fake_validation_mode", g.FakeValidationMode).
		Dur("fetch_timeout", g.FetchTimeout).
		Msg("substituted candidate backing and validation by garbage candidate interceptors")

	return builder.Build()
}

func corruptionMetricsOrNoop(ext *cmd.ExtendedOrchestratorGenArgs) module.CorruptionMetrics {
	if ext == nil || ext.CorruptionMetrics == nil {
		return metrics.NewNoopCollector()
	}
	return ext.CorruptionMetrics
}
