package orchestrator

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/onflow/corruptible-validator/module/component"
	"github.com/onflow/corruptible-validator/module/irrecoverable"
)

// Orchestrator runs every subsystem on a worker of its own, and routes the messages they
// exchange. It stops all subsystems when the context given to Start is cancelled.
type Orchestrator struct {
	*component.ComponentManager
	log     zerolog.Logger
	router  *router
	builder component.ComponentManagerBuilder
	names   []string
}

var _ component.Component = (*Orchestrator)(nil)

func newOrchestrator(log zerolog.Logger, r *router) *Orchestrator {
	return &Orchestrator{
		log:     log.With().Str("component", "orchestrator").Logger(),
		router:  r,
		builder: component.NewComponentManagerBuilder(),
	}
}

func addSubsystem[M any](o *Orchestrator, s Subsystem[M], sctx Context[M]) {
	name := s.Name()
	o.names = append(o.names, name)
	o.builder.AddWorker(func(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
		log := o.log.With().Str("subsystem", name).Logger()
		log.Debug().Msg("starting subsystem")
		ready()
		s.Run(ctx, sctx)
		log.Debug().Msg("subsystem stopped")
	})
}

func (o *Orchestrator) build() {
	o.ComponentManager = o.builder.Build()
	o.builder = nil
}

// Subsystems returns the names of the subsystems run by the orchestrator.
func (o *Orchestrator) Subsystems() []string {
	return o.names
}

// Handle allows code outside of the orchestrator to send messages and signals to its subsystems.
type Handle struct {
	router *router
}

var _ Sender = (*Handle)(nil)

func (h *Handle) SendMessage(ctx context.Context, msg any) error {
	return h.router.SendMessage(ctx, msg)
}

func (h *Handle) TrySendMessage(msg any) error {
	return h.router.TrySendMessage(msg)
}

// Signal broadcasts the signal to every subsystem.
func (h *Handle) Signal(ctx context.Context, signal Signal) error {
	return h.router.broadcast(ctx, signal)
}
