// Package gate decides, independently for every intercepted message, whether to corrupt it.
package gate

import (
	"fmt"
	"sync"

	"github.com/onflow/flow-go/crypto/random"

	"github.com/onflow/corruptible-validator/utils/rand"
)

// Source is a uniform random source. It is satisfied by the PRGs of the flow-go crypto library.
type Source interface {
	// UintN returns a uniform integer in [0, n). It panics if n is zero.
	UintN(n uint64) uint64
}

// InvalidPercentageError is returned when a gate is configured with a percentage outside [0, 100].
type InvalidPercentageError struct {
	Percentage int
}

func (e InvalidPercentageError) Error() string {
	return fmt.Sprintf("invalid percentage %d, must be within [0, 100]", e.Percentage)
}

// customizer of the gate PRGs
var customizer = []byte("corrupt-gate")

// Gate is a Bernoulli trial with success probability percentage/100. It is safe for concurrent use.
type Gate struct {
	percentage uint64
	mu         sync.Mutex
	source     Source
}

// New creates a gate drawing from the given source.
// Expected errors:
//   - InvalidPercentageError if the percentage is outside [0, 100]
func New(percentage int, source Source) (*Gate, error) {
	if percentage < 0 || percentage > 100 {
		return nil, InvalidPercentageError{Percentage: percentage}
	}
	return &Gate{
		percentage: uint64(percentage),
		source:     source,
	}, nil
}

// NewSeeded creates a gate drawing from a ChaCha20 PRG with the given 32-byte seed.
// Two gates created with the same seed take the same decisions.
func NewSeeded(percentage int, seed []byte) (*Gate, error) {
	prg, err := random.NewChacha20PRG(seed, customizer)
	if err != nil {
		return nil, fmt.Errorf("could not create gate randomness: %w", err)
	}
	return New(percentage, prg)
}

// NewRandom creates a gate drawing from a ChaCha20 PRG seeded from the OS entropy.
func NewRandom(percentage int) (*Gate, error) {
	seed, err := rand.Bytes(random.Chacha20SeedLen)
	if err != nil {
		return nil, fmt.Errorf("could not seed gate: %w", err)
	}
	return NewSeeded(percentage, seed)
}

// Percentage returns the configured percentage.
func (g *Gate) Percentage() int {
	return int(g.percentage)
}

// Decide returns true with probability percentage/100. A zero percentage never draws from the source.
func (g *Gate) Decide() bool {
	switch g.percentage {
	case 0:
		return false
	case 100:
		return true
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.source.UintN(100) < g.percentage
}
