package orchestrator

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/onflow/corruptible-validator/model/messages"
	"github.com/onflow/corruptible-validator/module/spawner"
)

// DefaultMailboxSize is the number of messages a subsystem mailbox holds before senders block.
const DefaultMailboxSize = 1024

type (
	CandidateBackingSubsystem    = Subsystem[messages.CandidateBackingMessage]
	CandidateValidationSubsystem = Subsystem[messages.CandidateValidationMessage]
	RuntimeAPISubsystem          = Subsystem[messages.RuntimeAPIMessage]
)

// Builder assembles an orchestrator from one subsystem per slot. Slots may be replaced after
// being filled, which is how a node substitutes a component by a wrapped version of it.
type Builder struct {
	log         zerolog.Logger
	spawner     spawner.Spawner
	mailboxSize int

	backing    CandidateBackingSubsystem
	validation CandidateValidationSubsystem
	runtimeAPI RuntimeAPISubsystem
}

func NewBuilder(log zerolog.Logger, spawner spawner.Spawner) *Builder {
	return &Builder{
		log:         log,
		spawner:     spawner,
		mailboxSize: DefaultMailboxSize,
	}
}

func (b *Builder) WithMailboxSize(size int) *Builder {
	b.mailboxSize = size
	return b
}

func (b *Builder) CandidateBacking(s CandidateBackingSubsystem) *Builder {
	b.backing = s
	return b
}

func (b *Builder) CandidateValidation(s CandidateValidationSubsystem) *Builder {
	b.validation = s
	return b
}

func (b *Builder) RuntimeAPI(s RuntimeAPISubsystem) *Builder {
	b.runtimeAPI = s
	return b
}

// ReplaceCandidateBacking substitutes the backing subsystem by the result of replace, which
// receives the currently configured subsystem (nil if none).
func (b *Builder) ReplaceCandidateBacking(replace func(CandidateBackingSubsystem) CandidateBackingSubsystem) *Builder {
	b.backing = replace(b.backing)
	return b
}

// ReplaceCandidateValidation substitutes the validation subsystem by the result of replace, which
// receives the currently configured subsystem (nil if none).
func (b *Builder) ReplaceCandidateValidation(replace func(CandidateValidationSubsystem) CandidateValidationSubsystem) *Builder {
	b.validation = replace(b.validation)
	return b
}

// ReplaceRuntimeAPI substitutes the runtime API subsystem by the result of replace, which
// receives the currently configured subsystem (nil if none).
func (b *Builder) ReplaceRuntimeAPI(replace func(RuntimeAPISubsystem) RuntimeAPISubsystem) *Builder {
	b.runtimeAPI = replace(b.runtimeAPI)
	return b
}

// Build wires the configured subsystems together. All slots must be filled.
func (b *Builder) Build() (*Orchestrator, *Handle, error) {
	var err *multierror.Error
	if b.backing == nil {
		err = multierror.Append(err, fmt.Errorf("candidate backing subsystem not set"))
	}
	if b.validation == nil {
		err = multierror.Append(err, fmt.Errorf("candidate validation subsystem not set"))
	}
	if b.runtimeAPI == nil {
		err = multierror.Append(err, fmt.Errorf("runtime api subsystem not set"))
	}
	if b.spawner == nil {
		err = multierror.Append(err, fmt.Errorf("spawner not set"))
	}
	if b.mailboxSize < 1 {
		err = multierror.Append(err, fmt.Errorf("invalid mailbox size %d", b.mailboxSize))
	}
	if err.ErrorOrNil() != nil {
		return nil, nil, fmt.Errorf("could not build orchestrator: %w", err)
	}

	r := newRouter(b.mailboxSize)
	o := newOrchestrator(b.log, r)
	addSubsystem[messages.RuntimeAPIMessage](o, b.runtimeAPI, &subsystemContext[messages.RuntimeAPIMessage]{mailbox: r.runtimeAPI, sender: r, spawner: b.spawner})
	addSubsystem[messages.CandidateValidationMessage](o, b.validation, &subsystemContext[messages.CandidateValidationMessage]{mailbox: r.validation, sender: r, spawner: b.spawner})
	addSubsystem[messages.CandidateBackingMessage](o, b.backing, &subsystemContext[messages.CandidateBackingMessage]{mailbox: r.backing, sender: r, spawner: b.spawner})
	o.build()

	return o, &Handle{router: r}, nil
}
