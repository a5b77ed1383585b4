package collator

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/onflow/corruptible-validator/model/flow"
	"github.com/onflow/corruptible-validator/model/messages"
	"github.com/onflow/corruptible-validator/module/component"
	"github.com/onflow/corruptible-validator/module/irrecoverable"
	"github.com/onflow/corruptible-validator/module/orchestrator"
	"github.com/onflow/corruptible-validator/storage"
	"github.com/onflow/corruptible-validator/utils/logging"
	"github.com/onflow/corruptible-validator/utils/rand"
)

const (
	DefaultMaxPayloadSize = 5 * 1024 * 1024
	blockDataSize         = 256
	genesisHeadSize       = 32
)

// Node is the part of a running node the simulator drives.
type Node interface {
	orchestrator.Sender
	Signal(ctx context.Context, signal orchestrator.Signal) error
}

// Simulator stands in for the relay chain and a collator of one partition. On every round it
// advances the relay chain by one block, records its validator set in the chain state, and
// submits a new honest candidate to the node.
type Simulator struct {
	*component.ComponentManager
	log        zerolog.Logger
	collator   *Collator
	state      storage.ChainState
	node       Node
	validators flow.IdentifierList
	interval   time.Duration

	relayParent flow.Identifier
	number      uint32
	head        []byte
}

var _ component.Component = (*Simulator)(nil)

func NewSimulator(
	log zerolog.Logger,
	collator *Collator,
	state storage.ChainState,
	node Node,
	validators int,
	interval time.Duration,
) (*Simulator, error) {
	if validators < 1 {
		return nil, fmt.Errorf("need at least one validator, got %d", validators)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("round interval must be positive, got %s", interval)
	}

	err := state.StoreValidationCode(collator.Code())
	if err != nil {
		return nil, fmt.Errorf("could not store validation code: %w", err)
	}

	genesis, err := rand.Bytes(genesisHeadSize)
	if err != nil {
		return nil, fmt.Errorf("could not generate genesis head: %w", err)
	}

	ids := make(flow.IdentifierList, 0, validators)
	for i := 0; i < validators; i++ {
		seed, err := rand.Bytes(flow.IdentifierLen)
		if err != nil {
			return nil, fmt.Errorf("could not generate validator id: %w", err)
		}
		ids = append(ids, flow.HashToID(seed))
	}

	s := &Simulator{
		log:        log.With().Str("component", "collator_simulator").Uint32("partition", uint32(collator.Partition())).Logger(),
		collator:   collator,
		state:      state,
		node:       node,
		validators: ids,
		interval:   interval,
		head:       genesis,
	}

	s.ComponentManager = component.NewComponentManagerBuilder().
		AddWorker(s.loop).
		Build()

	return s, nil
}

func (s *Simulator) loop(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	ready()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, err := s.Round(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				ctx.Throw(fmt.Errorf("simulation round failed: %w", err))
			}
		}
	}
}

// Round advances the relay chain by one block, and submits a candidate built on it.
// It returns the submitted candidate. Not safe for concurrent use.
func (s *Simulator) Round(ctx context.Context) (*messages.SecondCandidate, error) {
	previous := s.relayParent
	s.number++
	s.relayParent = relayBlockID(previous, s.number)

	err := s.state.StoreValidators(s.relayParent, s.validators)
	if err != nil {
		return nil, fmt.Errorf("could not store validators: %w", err)
	}

	update := &orchestrator.ActiveLeavesUpdate{Activated: []flow.Identifier{s.relayParent}}
	if previous != flow.ZeroID {
		update.Deactivated = []flow.Identifier{previous}
	}
	err = s.node.Signal(ctx, update)
	if err != nil {
		return nil, fmt.Errorf("could not signal leaves update: %w", err)
	}
	if previous != flow.ZeroID {
		err = s.node.Signal(ctx, &orchestrator.BlockFinalized{BlockID: previous, Height: s.number - 1})
		if err != nil {
			return nil, fmt.Errorf("could not signal finalized block: %w", err)
		}
	}

	blockData, err := rand.Bytes(blockDataSize)
	if err != nil {
		return nil, fmt.Errorf("could not generate block data: %w", err)
	}
	vd := &flow.ValidationData{
		ParentHead:             s.head,
		RelayParentNumber:      s.number,
		RelayParentStorageRoot: flow.HashBytes(s.relayParent[:]),
		MaxPayloadSize:         DefaultMaxPayloadSize,
	}

	msg, commitments, err := s.collator.BuildCandidate(s.relayParent, len(s.validators), vd, &flow.Payload{BlockData: blockData})
	if err != nil {
		return nil, fmt.Errorf("could not build candidate: %w", err)
	}

	err = s.node.SendMessage(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("could not submit candidate: %w", err)
	}
	s.head = commitments.HeadData

	s.log.Debug().
		Hex("relay_parent", logging.ID(s.relayParent)).
		Uint32("relay_parent_number", s.number).
		Hex("candidate_hash", logging.ID(msg.Candidate.ID())).
		Msg("submitted candidate")

	return msg, nil
}

// RelayParent returns the current relay-chain head.
func (s *Simulator) RelayParent() flow.Identifier {
	return s.relayParent
}

func relayBlockID(parent flow.Identifier, number uint32) flow.Identifier {
	data := make([]byte, flow.IdentifierLen+4)
	copy(data, parent[:])
	binary.BigEndian.PutUint32(data[flow.IdentifierLen:], number)
	return flow.HashBytes(data)
}
